package availability

import "time"

// SlotReason explains why a generated slot cannot be booked.
type SlotReason string

const (
	ReasonTooSoon SlotReason = "too_soon"
	ReasonDayFull SlotReason = "day_full"
	ReasonBooked  SlotReason = "booked"
)

// Policy decides bookability of individual slots on one day.
type Policy struct {
	// Earliest is the first instant a slot may start (now + notice window).
	Earliest time.Time
	// DayFull marks every slot of the day unavailable once the daily cap is met.
	DayFull   bool
	Duration  time.Duration
	Conflicts *ConflictDetector
}

// NewPolicy builds the day's policy. A cap of zero or less means no daily cap.
func NewPolicy(now time.Time, noticeHours, maxPerDay int, duration time.Duration, conflicts *ConflictDetector) Policy {
	if noticeHours < 0 {
		noticeHours = 0
	}
	return Policy{
		Earliest:  now.Add(time.Duration(noticeHours) * time.Hour),
		DayFull:   maxPerDay > 0 && conflicts != nil && conflicts.Count() >= maxPerDay,
		Duration:  duration,
		Conflicts: conflicts,
	}
}

// Evaluate checks notice window, then daily cap, then reservation overlap.
// The first failing rule wins.
func (p Policy) Evaluate(start time.Time) (bool, SlotReason) {
	if start.Before(p.Earliest) {
		return false, ReasonTooSoon
	}
	if p.DayFull {
		return false, ReasonDayFull
	}
	if p.Conflicts != nil && p.Conflicts.Overlaps(start, start.Add(p.Duration)) {
		return false, ReasonBooked
	}
	return true, ""
}
