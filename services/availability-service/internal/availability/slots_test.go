package availability

import (
	"testing"

	"github.com/md-rashed-zaman/artisanslots/services/availability-service/internal/model"
	"github.com/stretchr/testify/assert"
)

func rng(start, end int) model.TimeRange {
	return model.TimeRange{StartMinute: start, EndMinute: end, IsActive: true}
}

func TestGenerateSlots_CountMatchesStep(t *testing.T) {
	cases := []struct {
		start, end, base int
	}{
		{start: hhmm(9, 0), end: hhmm(17, 0), base: 60},
		{start: hhmm(9, 0), end: hhmm(17, 30), base: 60},
		{start: hhmm(8, 15), end: hhmm(12, 0), base: 45},
		{start: 0, end: model.MinutesPerDay, base: 60},
		{start: hhmm(10, 0), end: hhmm(10, 59), base: 60},
	}
	for _, tc := range cases {
		slots := GenerateSlots([]model.TimeRange{rng(tc.start, tc.end)}, tc.base, 0)
		assert.Len(t, slots, (tc.end-tc.start)/tc.base, "range %d-%d", tc.start, tc.end)
		for _, s := range slots {
			assert.LessOrEqual(t, s+tc.base, tc.end)
		}
	}
}

func TestGenerateSlots_BufferOnlyBetweenSlots(t *testing.T) {
	// 09:00-11:10 with 60+10: 09:00 and 10:10 both fit; the last slot needs no trailing buffer.
	slots := GenerateSlots([]model.TimeRange{rng(hhmm(9, 0), hhmm(11, 10))}, 60, 10)
	assert.Equal(t, []int{hhmm(9, 0), hhmm(10, 10)}, slots)

	// The first slot starts exactly at the range start.
	slots = GenerateSlots([]model.TimeRange{rng(hhmm(13, 0), hhmm(14, 0))}, 60, 120)
	assert.Equal(t, []int{hhmm(13, 0)}, slots)
}

func TestGenerateSlots_AdjacentRangesStayIndependent(t *testing.T) {
	// 09:00-10:30 and 10:30-12:00 would fit three slots if merged; split, each fits one.
	slots := GenerateSlots([]model.TimeRange{
		rng(hhmm(9, 0), hhmm(10, 30)),
		rng(hhmm(10, 30), hhmm(12, 0)),
	}, 60, 0)
	assert.Equal(t, []int{hhmm(9, 0), hhmm(10, 30)}, slots)

	for i := 1; i < len(slots); i++ {
		assert.GreaterOrEqual(t, slots[i], slots[i-1]+60, "slots must not overlap")
	}
}

func TestGenerateSlots_EdgeCases(t *testing.T) {
	assert.Empty(t, GenerateSlots([]model.TimeRange{rng(hhmm(9, 0), hhmm(17, 0))}, 0, 0))
	assert.Empty(t, GenerateSlots([]model.TimeRange{rng(hhmm(17, 0), hhmm(9, 0))}, 60, 0))
	assert.Empty(t, GenerateSlots(nil, 60, 0))

	// Oversized buffers are clamped to the maximum.
	slots := GenerateSlots([]model.TimeRange{rng(0, model.MinutesPerDay)}, 60, 10_000)
	assert.Equal(t, []int{0, 540, 1080}, slots)
}

func TestClampBuffer(t *testing.T) {
	assert.Equal(t, 0, ClampBuffer(-5))
	assert.Equal(t, 15, ClampBuffer(15))
	assert.Equal(t, MaxBufferMinutes, ClampBuffer(MaxBufferMinutes+1))
}
