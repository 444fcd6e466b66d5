package availability

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/md-rashed-zaman/artisanslots/services/availability-service/internal/model"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	DefaultSlotDurationMinutes = 60
	// MaxNoticeOverrideHours bounds a per-request notice override.
	MaxNoticeOverrideHours = 24 * 30
)

// Store reads provider schedules and reservations. Implementations must return
// model.ErrProviderNotFound (possibly wrapped) for unknown providers.
type Store interface {
	LoadSchedule(ctx context.Context, publicID string, date Date) (model.ScheduleSnapshot, error)
	ListReservations(ctx context.Context, providerID string, from, to time.Time) ([]model.Reservation, error)
}

type Config struct {
	SlotDurationMinutes       int
	DefaultAdvanceBookingDays int
	Region                    Region
	Clock                     Clock
}

type Request struct {
	ProviderPublicID string
	Date             string
	// MinNoticeHours overrides every other notice setting when set.
	MinNoticeHours *int
}

type Slot struct {
	Time      string     `json:"time"`
	Available bool       `json:"available"`
	Reason    SlotReason `json:"reason,omitempty"`
}

type Meta struct {
	SlotDurationMinutes int       `json:"slotDurationMinutes"`
	BufferMinutes       int       `json:"bufferMinutes"`
	MinNoticeHours      int       `json:"minNoticeHours"`
	AdvanceBookingDays  int       `json:"advanceBookingDays"`
	Reason              DayReason `json:"reason,omitempty"`
	Note                string    `json:"note,omitempty"`
}

type Response struct {
	Date  string `json:"date"`
	Slots []Slot `json:"slots"`
	Meta  Meta   `json:"meta"`
}

// Service computes bookable slots for one provider and date. It holds no mutable
// state; every call works on data read at its start.
type Service struct {
	store    Store
	logger   *slog.Logger
	resolver *Resolver
	region   Region
	clock    Clock
	duration int
	tracer   trace.Tracer
}

func NewService(store Store, logger *slog.Logger, cfg Config) *Service {
	if cfg.SlotDurationMinutes <= 0 {
		cfg.SlotDurationMinutes = DefaultSlotDurationMinutes
	}
	if cfg.Clock == nil {
		cfg.Clock = SystemClock{}
	}
	if cfg.Region.loc == nil {
		cfg.Region = NewRegion(time.UTC)
	}
	return &Service{
		store:    store,
		logger:   logger,
		resolver: NewResolver(cfg.DefaultAdvanceBookingDays),
		region:   cfg.Region,
		clock:    cfg.Clock,
		duration: cfg.SlotDurationMinutes,
		tracer:   otel.Tracer("github.com/md-rashed-zaman/artisanslots/availability"),
	}
}

func (s *Service) Query(ctx context.Context, req Request) (resp Response, err error) {
	ctx, span := s.tracer.Start(ctx, "availability.Query", trace.WithAttributes(
		attribute.String("provider.public_id", req.ProviderPublicID),
		attribute.String("availability.date", req.Date),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetAttributes(
				attribute.Int("availability.slots", len(resp.Slots)),
				attribute.String("availability.reason", string(resp.Meta.Reason)),
			)
		}
		span.End()
	}()

	publicID := strings.TrimSpace(req.ProviderPublicID)
	if publicID == "" {
		return Response{}, &ValidationError{Field: "provider", Message: "provider id is required"}
	}
	date, err := ParseDate(strings.TrimSpace(req.Date))
	if err != nil {
		return Response{}, &ValidationError{Field: "date", Message: err.Error()}
	}
	if req.MinNoticeHours != nil && (*req.MinNoticeHours < 0 || *req.MinNoticeHours > MaxNoticeOverrideHours) {
		return Response{}, &ValidationError{
			Field:   "min_notice_hours",
			Message: fmt.Sprintf("must be between 0 and %d", MaxNoticeOverrideHours),
		}
	}

	snap, err := s.store.LoadSchedule(ctx, publicID, date)
	if err != nil {
		if errors.Is(err, model.ErrProviderNotFound) {
			return Response{}, &NotFoundError{Resource: "provider", ID: publicID}
		}
		return Response{}, fmt.Errorf("load schedule: %w", err)
	}
	provider := snap.Provider

	now := s.clock.Now()
	res := s.resolver.Resolve(snap, date, s.region.Today(now))
	if res.Dropped > 0 {
		s.logger.Warn("dropped invalid schedule ranges",
			"provider_id", provider.ID,
			"date", date.String(),
			"source", res.Source,
			"dropped", res.Dropped,
		)
	}

	resp = Response{
		Date:  date.String(),
		Slots: []Slot{},
		Meta: Meta{
			SlotDurationMinutes: s.duration,
			BufferMinutes:       ClampBuffer(provider.BufferMinutes),
			MinNoticeHours:      noticeHours(req.MinNoticeHours, res.MinNoticeHours, provider.MinNoticeHours),
			AdvanceBookingDays:  s.resolver.HorizonDays(provider),
		},
	}
	if len(res.Ranges) == 0 {
		resp.Meta.Reason = res.Reason
		resp.Meta.Note = res.Note
		s.logDecision(ctx, provider.ID, date, resp)
		return resp, nil
	}

	starts := GenerateSlots(res.Ranges, s.duration, provider.BufferMinutes)
	if len(starts) == 0 {
		// Open ranges too short for one full slot.
		resp.Meta.Reason = ReasonClosed
		s.logDecision(ctx, provider.ID, date, resp)
		return resp, nil
	}

	reservations, err := s.store.ListReservations(ctx, provider.ID, s.region.Midnight(date), s.region.Midnight(date.AddDays(1)))
	if err != nil {
		return Response{}, fmt.Errorf("list reservations: %w", err)
	}

	slotLen := time.Duration(s.duration) * time.Minute
	policy := NewPolicy(now, resp.Meta.MinNoticeHours, provider.MaxBookingsPerDay, slotLen, NewConflictDetector(reservations))
	resp.Slots = make([]Slot, 0, len(starts))
	for _, m := range starts {
		ok, reason := policy.Evaluate(s.region.At(date, m))
		resp.Slots = append(resp.Slots, Slot{Time: FormatMinute(m), Available: ok, Reason: reason})
	}
	s.logDecision(ctx, provider.ID, date, resp)
	return resp, nil
}

func (s *Service) logDecision(ctx context.Context, providerID string, date Date, resp Response) {
	available := 0
	for _, sl := range resp.Slots {
		if sl.Available {
			available++
		}
	}
	s.logger.DebugContext(ctx, "availability resolved",
		"provider_id", providerID,
		"date", date.String(),
		"reason", string(resp.Meta.Reason),
		"slots", len(resp.Slots),
		"available", available,
	)
}

// noticeHours picks the request override, then the exception override, then the
// provider default.
func noticeHours(request, exception *int, provider int) int {
	if request != nil {
		return *request
	}
	if exception != nil && *exception >= 0 {
		return *exception
	}
	if provider < 0 {
		return 0
	}
	return provider
}
