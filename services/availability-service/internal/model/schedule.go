package model

import (
	"errors"
	"time"
)

var ErrProviderNotFound = errors.New("provider not found")

// MinutesPerDay bounds every minute-of-day value.
const MinutesPerDay = 24 * 60

// TimeRange is a half-open [StartMinute, EndMinute) span of one day, in minutes
// since regional midnight.
type TimeRange struct {
	StartMinute int
	EndMinute   int
	IsActive    bool
}

// Valid reports whether the range is active and well formed.
func (r TimeRange) Valid() bool {
	return r.IsActive &&
		r.StartMinute >= 0 &&
		r.EndMinute <= MinutesPerDay &&
		r.EndMinute > r.StartMinute
}

// WeeklyHours is the legacy single range per weekday kept on the provider profile.
// Weekday follows time.Weekday (0 = Sunday).
type WeeklyHours struct {
	Weekday     time.Weekday
	StartMinute int
	EndMinute   int
	IsActive    bool
}

func (h WeeklyHours) Range() TimeRange {
	return TimeRange{StartMinute: h.StartMinute, EndMinute: h.EndMinute, IsActive: h.IsActive}
}

// ScheduleException overrides the weekly configuration for one calendar date.
type ScheduleException struct {
	Date           string // YYYY-MM-DD, regional
	IsAvailable    bool
	Reason         string
	Ranges         []TimeRange
	MinNoticeHours *int
}

// Provider is the read-only projection of a provider profile used for availability.
type Provider struct {
	ID                 string
	PublicID           string
	MinNoticeHours     int
	BufferMinutes      int
	MaxBookingsPerDay  int
	AdvanceBookingDays int
	Legacy             []WeeklyHours
}

// ScheduleSnapshot is everything needed to resolve one date, read in a single snapshot.
type ScheduleSnapshot struct {
	Provider Provider
	// Recurring holds the recurring schedule's ranges by weekday; nil when the
	// provider has no recurring schedule.
	Recurring map[time.Weekday][]TimeRange
	// Exception is the exception for the requested date, if any.
	Exception *ScheduleException
}

type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "pending"
	ReservationConfirmed ReservationStatus = "confirmed"
	ReservationCancelled ReservationStatus = "cancelled"
	ReservationCompleted ReservationStatus = "completed"
)

// Blocking reports whether a reservation in this status occupies the calendar.
func (s ReservationStatus) Blocking() bool {
	return s == ReservationPending || s == ReservationConfirmed
}

type Reservation struct {
	ID         string
	ProviderID string
	StartTime  time.Time
	EndTime    time.Time
	Status     ReservationStatus
}
