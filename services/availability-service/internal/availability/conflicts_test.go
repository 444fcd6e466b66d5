package availability

import (
	"testing"
	"time"

	"github.com/md-rashed-zaman/artisanslots/services/availability-service/internal/model"
	"github.com/stretchr/testify/assert"
)

func at(h, m int) time.Time {
	return time.Date(2026, 2, 16, h, m, 0, 0, time.UTC)
}

func TestConflictDetector_HalfOpenOverlap(t *testing.T) {
	c := NewConflictDetector([]model.Reservation{
		{StartTime: at(13, 0), EndTime: at(13, 30), Status: model.ReservationPending},
		{StartTime: at(10, 0), EndTime: at(11, 0), Status: model.ReservationConfirmed},
	})

	assert.True(t, c.Overlaps(at(10, 0), at(11, 0)))
	assert.True(t, c.Overlaps(at(9, 30), at(10, 30)))
	assert.True(t, c.Overlaps(at(12, 45), at(13, 45)))
	assert.False(t, c.Overlaps(at(9, 0), at(10, 0)), "touching at start is not a conflict")
	assert.False(t, c.Overlaps(at(11, 0), at(12, 0)), "touching at end is not a conflict")
	assert.False(t, c.Overlaps(at(14, 0), at(15, 0)))
}

func TestConflictDetector_IgnoresInactiveAndEmpty(t *testing.T) {
	c := NewConflictDetector([]model.Reservation{
		{StartTime: at(10, 0), EndTime: at(11, 0), Status: model.ReservationCancelled},
		{StartTime: at(12, 0), EndTime: at(13, 0), Status: model.ReservationCompleted},
		{StartTime: at(14, 0), EndTime: at(14, 0), Status: model.ReservationConfirmed},
	})
	assert.Zero(t, c.Count())
	assert.False(t, c.Overlaps(at(0, 0), at(23, 59)))
}

func TestConflictDetector_LongReservationFoundAfterShortOnes(t *testing.T) {
	// Sorted by start, a long early booking must still block later slots.
	c := NewConflictDetector([]model.Reservation{
		{StartTime: at(9, 30), EndTime: at(9, 45), Status: model.ReservationConfirmed},
		{StartTime: at(8, 0), EndTime: at(16, 0), Status: model.ReservationConfirmed},
	})
	assert.Equal(t, 2, c.Count())
	assert.True(t, c.Overlaps(at(15, 0), at(16, 0)))
	assert.False(t, c.Overlaps(at(16, 0), at(17, 0)))
}

func TestPolicy_PriorityOrder(t *testing.T) {
	c := NewConflictDetector([]model.Reservation{
		{StartTime: at(11, 0), EndTime: at(12, 0), Status: model.ReservationConfirmed},
	})
	now := at(9, 30)

	p := NewPolicy(now, 1, 0, time.Hour, c)
	ok, reason := p.Evaluate(at(10, 0))
	assert.False(t, ok)
	assert.Equal(t, ReasonTooSoon, reason)

	ok, reason = p.Evaluate(at(11, 0))
	assert.False(t, ok)
	assert.Equal(t, ReasonBooked, reason)

	ok, reason = p.Evaluate(at(12, 0))
	assert.True(t, ok)
	assert.Empty(t, reason)

	// Cap reached: every slot is day_full, booked or not, but too_soon still wins.
	p = NewPolicy(now, 1, 1, time.Hour, c)
	_, reason = p.Evaluate(at(10, 0))
	assert.Equal(t, ReasonTooSoon, reason)
	_, reason = p.Evaluate(at(11, 0))
	assert.Equal(t, ReasonDayFull, reason)
	_, reason = p.Evaluate(at(15, 0))
	assert.Equal(t, ReasonDayFull, reason)

	p = NewPolicy(now, 0, 2, time.Hour, c)
	assert.False(t, p.DayFull)
}
