package availability

import (
	"sort"
	"time"

	"github.com/md-rashed-zaman/artisanslots/services/availability-service/internal/model"
)

type Interval struct {
	Start time.Time
	End   time.Time
}

// ConflictDetector answers overlap queries against the day's blocking reservations.
type ConflictDetector struct {
	busy []Interval // sorted by Start
}

// NewConflictDetector keeps pending and confirmed reservations with a positive length.
func NewConflictDetector(reservations []model.Reservation) *ConflictDetector {
	busy := make([]Interval, 0, len(reservations))
	for _, r := range reservations {
		if !r.Status.Blocking() || !r.EndTime.After(r.StartTime) {
			continue
		}
		busy = append(busy, Interval{Start: r.StartTime, End: r.EndTime})
	}
	sort.Slice(busy, func(i, j int) bool { return busy[i].Start.Before(busy[j].Start) })
	return &ConflictDetector{busy: busy}
}

// Count is the number of blocking reservations.
func (c *ConflictDetector) Count() int { return len(c.busy) }

// Overlaps reports whether [start, end) intersects any reservation.
func (c *ConflictDetector) Overlaps(start, end time.Time) bool {
	for _, b := range c.busy {
		// Sorted by start: nothing further can begin before end.
		if !b.Start.Before(end) {
			return false
		}
		// Half-open intervals: [start,end) overlaps [b.Start,b.End) iff start < b.End && b.Start < end.
		if start.Before(b.End) {
			return true
		}
	}
	return false
}
