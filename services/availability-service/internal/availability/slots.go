package availability

import (
	"sort"

	"github.com/md-rashed-zaman/artisanslots/services/availability-service/internal/model"
)

const MaxBufferMinutes = 480

// ClampBuffer restricts a provider buffer to [0, MaxBufferMinutes].
func ClampBuffer(minutes int) int {
	if minutes < 0 {
		return 0
	}
	if minutes > MaxBufferMinutes {
		return MaxBufferMinutes
	}
	return minutes
}

// GenerateSlots returns slot start minutes for the given ranges. Each range is cut
// independently from its own start every base+buffer minutes, and only full-length
// slots that end by the range end are kept. Adjacent ranges are never merged.
func GenerateSlots(ranges []model.TimeRange, base, buffer int) []int {
	if base <= 0 {
		return nil
	}
	step := base + ClampBuffer(buffer)

	var starts []int
	for _, r := range ranges {
		if r.EndMinute <= r.StartMinute {
			continue
		}
		for t := r.StartMinute; t+base <= r.EndMinute; t += step {
			starts = append(starts, t)
		}
	}
	return sortedUnique(starts)
}

func sortedUnique(in []int) []int {
	if len(in) < 2 {
		return in
	}
	sort.Ints(in)
	out := in[:1]
	for _, v := range in[1:] {
		if v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	return out
}
