package availability

import (
	"sort"

	"github.com/md-rashed-zaman/artisanslots/services/availability-service/internal/model"
)

// DayReason explains why a date has no open ranges.
type DayReason string

const (
	ReasonPastDate    DayReason = "past_date"
	ReasonTooFarAhead DayReason = "too_far_ahead"
	ReasonDayOff      DayReason = "day_off"
	ReasonClosed      DayReason = "closed"
)

const DefaultAdvanceBookingDays = 30

// Resolution is the outcome of resolving one date: either open ranges or a reason.
type Resolution struct {
	Ranges []model.TimeRange
	Reason DayReason
	Note   string
	// Source names the schedule layer that produced the result.
	Source string
	// MinNoticeHours is set when the authoritative layer overrides the notice window.
	MinNoticeHours *int
	// Dropped counts stored ranges discarded as inactive or malformed.
	Dropped int
}

// scheduleSource returns ok=false when it has nothing to say about the date,
// handing over to the next source.
type scheduleSource struct {
	name    string
	resolve func(snap model.ScheduleSnapshot, date Date) (Resolution, bool)
}

// Resolver applies the date gates and then the schedule layers in precedence order:
// exception, recurring, legacy.
type Resolver struct {
	defaultHorizonDays int
	sources            []scheduleSource
}

func NewResolver(defaultHorizonDays int) *Resolver {
	if defaultHorizonDays <= 0 {
		defaultHorizonDays = DefaultAdvanceBookingDays
	}
	return &Resolver{
		defaultHorizonDays: defaultHorizonDays,
		sources: []scheduleSource{
			{name: "exception", resolve: resolveException},
			{name: "recurring", resolve: resolveRecurring},
			{name: "legacy", resolve: resolveLegacy},
		},
	}
}

// HorizonDays is the provider's advance-booking horizon, or the default.
func (r *Resolver) HorizonDays(p model.Provider) int {
	if p.AdvanceBookingDays > 0 {
		return p.AdvanceBookingDays
	}
	return r.defaultHorizonDays
}

func (r *Resolver) Resolve(snap model.ScheduleSnapshot, date, today Date) Resolution {
	if date.Before(today) {
		return Resolution{Reason: ReasonPastDate}
	}
	if date.After(today.AddDays(r.HorizonDays(snap.Provider))) {
		return Resolution{Reason: ReasonTooFarAhead}
	}
	for _, src := range r.sources {
		if res, ok := src.resolve(snap, date); ok {
			res.Source = src.name
			if len(res.Ranges) == 0 && res.Reason == "" {
				res.Reason = ReasonClosed
			}
			return res
		}
	}
	return Resolution{Reason: ReasonClosed}
}

func resolveException(snap model.ScheduleSnapshot, date Date) (Resolution, bool) {
	exc := snap.Exception
	if exc == nil || exc.Date != date.String() {
		return Resolution{}, false
	}
	if !exc.IsAvailable {
		return Resolution{Reason: ReasonDayOff, Note: exc.Reason}, true
	}
	// An available exception is authoritative even if none of its ranges survive.
	ranges, dropped := validRanges(exc.Ranges)
	return Resolution{Ranges: ranges, Dropped: dropped, MinNoticeHours: exc.MinNoticeHours}, true
}

func resolveRecurring(snap model.ScheduleSnapshot, date Date) (Resolution, bool) {
	if snap.Recurring == nil {
		return Resolution{}, false
	}
	ranges, dropped := validRanges(snap.Recurring[date.Weekday()])
	if len(ranges) == 0 {
		return Resolution{}, false
	}
	return Resolution{Ranges: ranges, Dropped: dropped}, true
}

func resolveLegacy(snap model.ScheduleSnapshot, date Date) (Resolution, bool) {
	wd := date.Weekday()
	for _, h := range snap.Provider.Legacy {
		if h.Weekday != wd {
			continue
		}
		rng := h.Range()
		if !rng.Valid() {
			return Resolution{}, false
		}
		return Resolution{Ranges: []model.TimeRange{rng}}, true
	}
	return Resolution{}, false
}

// validRanges filters out inactive and malformed ranges and orders the rest by start.
func validRanges(in []model.TimeRange) ([]model.TimeRange, int) {
	out := make([]model.TimeRange, 0, len(in))
	dropped := 0
	for _, r := range in {
		if !r.IsActive {
			continue
		}
		if !r.Valid() {
			dropped++
			continue
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartMinute < out[j].StartMinute })
	return out, dropped
}
