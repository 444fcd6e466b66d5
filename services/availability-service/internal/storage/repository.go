package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/md-rashed-zaman/artisanslots/libs/db"
	"github.com/md-rashed-zaman/artisanslots/services/availability-service/internal/availability"
	"github.com/md-rashed-zaman/artisanslots/services/availability-service/internal/model"
)

type Repository struct {
	pool *db.Pool
}

func NewRepository(pool *db.Pool) *Repository {
	return &Repository{pool: pool}
}

// LoadSchedule reads the provider and every schedule layer relevant to date
// inside one snapshot, so a concurrent edit is seen entirely or not at all.
func (r *Repository) LoadSchedule(ctx context.Context, publicID string, date availability.Date) (model.ScheduleSnapshot, error) {
	tx, err := r.pool.BeginSnapshot(ctx)
	if err != nil {
		return model.ScheduleSnapshot{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var snap model.ScheduleSnapshot
	snap.Provider, err = selectProvider(ctx, tx, publicID)
	if err != nil {
		return model.ScheduleSnapshot{}, err
	}
	snap.Provider.Legacy, err = selectWeeklyHours(ctx, tx, snap.Provider.ID)
	if err != nil {
		return model.ScheduleSnapshot{}, fmt.Errorf("weekly hours: %w", err)
	}
	snap.Recurring, err = selectRecurring(ctx, tx, snap.Provider.ID)
	if err != nil {
		return model.ScheduleSnapshot{}, fmt.Errorf("recurring schedule: %w", err)
	}
	snap.Exception, err = selectException(ctx, tx, snap.Provider.ID, date.String())
	if err != nil {
		return model.ScheduleSnapshot{}, fmt.Errorf("schedule exception: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return model.ScheduleSnapshot{}, err
	}
	return snap, nil
}

// ListReservations returns pending and confirmed reservations overlapping [from, to).
func (r *Repository) ListReservations(ctx context.Context, providerID string, from, to time.Time) ([]model.Reservation, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id::text, provider_id::text, start_time, end_time, status
		FROM reservations
		WHERE provider_id = $1
			AND status IN ('pending', 'confirmed')
			AND start_time < $3
			AND end_time > $2
		ORDER BY start_time
	`, providerID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Reservation
	for rows.Next() {
		var res model.Reservation
		var status string
		if err := rows.Scan(&res.ID, &res.ProviderID, &res.StartTime, &res.EndTime, &status); err != nil {
			return nil, err
		}
		res.Status = model.ReservationStatus(status)
		out = append(out, res)
	}
	return out, rows.Err()
}

func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows) || errors.Is(err, model.ErrProviderNotFound)
}

func selectProvider(ctx context.Context, tx pgx.Tx, publicID string) (model.Provider, error) {
	var p model.Provider
	err := tx.QueryRow(ctx, `
		SELECT id::text, public_id, min_notice_hours, buffer_minutes, max_bookings_per_day, advance_booking_days
		FROM providers
		WHERE public_id = $1
	`, publicID).Scan(&p.ID, &p.PublicID, &p.MinNoticeHours, &p.BufferMinutes, &p.MaxBookingsPerDay, &p.AdvanceBookingDays)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Provider{}, model.ErrProviderNotFound
	}
	return p, err
}

func selectWeeklyHours(ctx context.Context, tx pgx.Tx, providerID string) ([]model.WeeklyHours, error) {
	rows, err := tx.Query(ctx, `
		SELECT weekday, start_minute, end_minute, is_active
		FROM provider_weekly_hours
		WHERE provider_id = $1
		ORDER BY weekday
	`, providerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.WeeklyHours
	for rows.Next() {
		var h model.WeeklyHours
		var weekday int16
		if err := rows.Scan(&weekday, &h.StartMinute, &h.EndMinute, &h.IsActive); err != nil {
			return nil, err
		}
		h.Weekday = time.Weekday(weekday)
		out = append(out, h)
	}
	return out, rows.Err()
}

// selectRecurring returns nil when the provider never configured a recurring
// schedule, and a non-nil map (possibly with empty weekdays) when it did.
func selectRecurring(ctx context.Context, tx pgx.Tx, providerID string) (map[time.Weekday][]model.TimeRange, error) {
	var configured bool
	if err := tx.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM provider_recurring_schedules WHERE provider_id = $1)
	`, providerID).Scan(&configured); err != nil {
		return nil, err
	}
	if !configured {
		return nil, nil
	}

	rows, err := tx.Query(ctx, `
		SELECT weekday, start_minute, end_minute, is_active
		FROM provider_recurring_ranges
		WHERE provider_id = $1
		ORDER BY weekday, position
	`, providerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[time.Weekday][]model.TimeRange)
	for rows.Next() {
		var weekday int16
		var rng model.TimeRange
		if err := rows.Scan(&weekday, &rng.StartMinute, &rng.EndMinute, &rng.IsActive); err != nil {
			return nil, err
		}
		wd := time.Weekday(weekday)
		out[wd] = append(out[wd], rng)
	}
	return out, rows.Err()
}

func selectException(ctx context.Context, tx pgx.Tx, providerID, date string) (*model.ScheduleException, error) {
	var (
		id     string
		exc    = model.ScheduleException{Date: date}
		notice *int32
	)
	err := tx.QueryRow(ctx, `
		SELECT id::text, is_available, COALESCE(reason, ''), min_notice_hours
		FROM provider_schedule_exceptions
		WHERE provider_id = $1 AND exception_date = $2::date
	`, providerID, date).Scan(&id, &exc.IsAvailable, &exc.Reason, &notice)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if notice != nil {
		n := int(*notice)
		exc.MinNoticeHours = &n
	}

	rows, err := tx.Query(ctx, `
		SELECT start_minute, end_minute, is_active
		FROM provider_exception_ranges
		WHERE exception_id = $1
		ORDER BY position
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var rng model.TimeRange
		if err := rows.Scan(&rng.StartMinute, &rng.EndMinute, &rng.IsActive); err != nil {
			return nil, err
		}
		exc.Ranges = append(exc.Ranges, rng)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &exc, nil
}
