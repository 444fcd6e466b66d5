package storage

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/md-rashed-zaman/artisanslots/libs/db"
	"github.com/md-rashed-zaman/artisanslots/services/availability-service/internal/availability"
	"github.com/md-rashed-zaman/artisanslots/services/availability-service/internal/model"
	"github.com/md-rashed-zaman/artisanslots/services/availability-service/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestPool(t *testing.T) *db.Pool {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("Skipping integration test: TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	pool, err := db.Open(ctx, url, db.Options{MaxConns: 4})
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, migrations.Apply(ctx, pool))
	return pool
}

func seedProvider(t *testing.T, pool *db.Pool) (id, publicID string) {
	t.Helper()
	ctx := context.Background()
	publicID = "artisan-" + uuid.NewString()
	err := pool.QueryRow(ctx, `
		INSERT INTO providers (public_id, min_notice_hours, buffer_minutes, max_bookings_per_day, advance_booking_days)
		VALUES ($1, 2, 15, 4, 14)
		RETURNING id::text
	`, publicID).Scan(&id)
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(), `DELETE FROM providers WHERE id = $1`, id)
	})
	return id, publicID
}

func TestRepository_LoadSchedule(t *testing.T) {
	pool := openTestPool(t)
	ctx := context.Background()
	id, publicID := seedProvider(t, pool)

	_, err := pool.Exec(ctx, `
		INSERT INTO provider_weekly_hours (provider_id, weekday, start_minute, end_minute, is_active)
		VALUES ($1, 1, 540, 1020, true), ($1, 0, 0, 0, false)
	`, id)
	require.NoError(t, err)
	_, err = pool.Exec(ctx, `INSERT INTO provider_recurring_schedules (provider_id) VALUES ($1)`, id)
	require.NoError(t, err)
	_, err = pool.Exec(ctx, `
		INSERT INTO provider_recurring_ranges (provider_id, weekday, position, start_minute, end_minute, is_active)
		VALUES ($1, 4, 1, 840, 1020, true), ($1, 4, 0, 540, 720, true)
	`, id)
	require.NoError(t, err)

	var excID string
	err = pool.QueryRow(ctx, `
		INSERT INTO provider_schedule_exceptions (provider_id, exception_date, is_available, reason, min_notice_hours)
		VALUES ($1, '2026-03-02', true, 'market day', 6)
		RETURNING id::text
	`, id).Scan(&excID)
	require.NoError(t, err)
	_, err = pool.Exec(ctx, `
		INSERT INTO provider_exception_ranges (exception_id, position, start_minute, end_minute, is_active)
		VALUES ($1, 0, 600, 780, true)
	`, excID)
	require.NoError(t, err)

	repo := NewRepository(pool)

	snap, err := repo.LoadSchedule(ctx, publicID, availability.Date{Year: 2026, Month: time.March, Day: 2})
	require.NoError(t, err)
	assert.Equal(t, id, snap.Provider.ID)
	assert.Equal(t, 2, snap.Provider.MinNoticeHours)
	assert.Equal(t, 15, snap.Provider.BufferMinutes)
	assert.Equal(t, 4, snap.Provider.MaxBookingsPerDay)
	assert.Equal(t, 14, snap.Provider.AdvanceBookingDays)
	require.Len(t, snap.Provider.Legacy, 2)
	assert.Equal(t, time.Sunday, snap.Provider.Legacy[0].Weekday)
	assert.Equal(t, time.Monday, snap.Provider.Legacy[1].Weekday)

	require.NotNil(t, snap.Recurring)
	thursday := snap.Recurring[time.Thursday]
	require.Len(t, thursday, 2)
	assert.Equal(t, 540, thursday[0].StartMinute)
	assert.Equal(t, 840, thursday[1].StartMinute)

	require.NotNil(t, snap.Exception)
	assert.Equal(t, "2026-03-02", snap.Exception.Date)
	assert.True(t, snap.Exception.IsAvailable)
	assert.Equal(t, "market day", snap.Exception.Reason)
	require.NotNil(t, snap.Exception.MinNoticeHours)
	assert.Equal(t, 6, *snap.Exception.MinNoticeHours)
	require.Len(t, snap.Exception.Ranges, 1)

	other, err := repo.LoadSchedule(ctx, publicID, availability.Date{Year: 2026, Month: time.March, Day: 3})
	require.NoError(t, err)
	assert.Nil(t, other.Exception)
}

func TestRepository_LoadScheduleWithoutRecurring(t *testing.T) {
	pool := openTestPool(t)
	_, publicID := seedProvider(t, pool)

	snap, err := NewRepository(pool).LoadSchedule(context.Background(), publicID, availability.Date{Year: 2026, Month: time.March, Day: 2})
	require.NoError(t, err)
	assert.Nil(t, snap.Recurring)
	assert.Nil(t, snap.Exception)
	assert.Empty(t, snap.Provider.Legacy)
}

func TestRepository_LoadScheduleUnknownProvider(t *testing.T) {
	pool := openTestPool(t)

	_, err := NewRepository(pool).LoadSchedule(context.Background(), "missing-"+uuid.NewString(), availability.Date{Year: 2026, Month: time.March, Day: 2})
	require.ErrorIs(t, err, model.ErrProviderNotFound)
	assert.True(t, IsNotFound(err))
}

func TestRepository_ListReservations(t *testing.T) {
	pool := openTestPool(t)
	ctx := context.Background()
	id, _ := seedProvider(t, pool)

	_, err := pool.Exec(ctx, `
		INSERT INTO reservations (provider_id, start_time, end_time, status) VALUES
			($1, '2026-03-02T10:00:00Z', '2026-03-02T11:00:00Z', 'confirmed'),
			($1, '2026-03-02T08:00:00Z', '2026-03-02T09:00:00Z', 'pending'),
			($1, '2026-03-02T12:00:00Z', '2026-03-02T13:00:00Z', 'cancelled'),
			($1, '2026-03-02T14:00:00Z', '2026-03-02T15:00:00Z', 'completed'),
			($1, '2026-03-01T23:30:00Z', '2026-03-02T00:30:00Z', 'confirmed'),
			($1, '2026-03-03T00:00:00Z', '2026-03-03T01:00:00Z', 'confirmed')
	`, id)
	require.NoError(t, err)

	from := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
	got, err := NewRepository(pool).ListReservations(ctx, id, from, from.Add(24*time.Hour))
	require.NoError(t, err)
	require.Len(t, got, 3)
	for i := 1; i < len(got); i++ {
		assert.False(t, got[i].StartTime.Before(got[i-1].StartTime))
	}
	for _, r := range got {
		assert.True(t, r.Status.Blocking(), "status %s", r.Status)
		assert.Equal(t, id, r.ProviderID)
	}
}
