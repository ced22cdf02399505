package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"adengine/internal/core/domain"
	"adengine/internal/core/port"
)

// FrequencyStore implements port.FrequencyStore on PostgreSQL. The
// increment is a single conditional upsert keyed by (user, ad, event
// type, window start), so two concurrent RecordEvent calls for the same
// key serialize at the row and neither update is lost — the property the
// cap depends on across any number of serving processes.
type FrequencyStore struct {
	pool    *pgxpool.Pool
	timeout time.Duration
	now     func() time.Time
}

// NewFrequencyStore returns a new counter store.
func NewFrequencyStore(pool *pgxpool.Pool, timeout time.Duration) *FrequencyStore {
	return &FrequencyStore{pool: pool, timeout: timeout, now: time.Now}
}

func (s *FrequencyStore) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}

// CheckAndReserve reads the bucket whose window contains "now" without
// incrementing it. A missing bucket reads as zero.
func (s *FrequencyStore) CheckAndReserve(ctx context.Context, key domain.FrequencyKey, fc domain.FrequencyCap) (port.FrequencyDecision, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	now := s.now()
	ws := now.Truncate(fc.Window)

	var count int64
	err := s.pool.QueryRow(ctx, `
        SELECT count FROM frequency_counters
        WHERE user_id = $1 AND ad_id = $2 AND event_type = $3 AND window_start = $4`,
		key.UserID, key.AdID, key.EventType, ws).Scan(&count)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return port.FrequencyDecision{}, err
	}

	decision := port.FrequencyDecision{
		Allowed:       count < fc.Limit,
		CurrentCount:  count,
		Limit:         fc.Limit,
		TimeRemaining: ws.Add(fc.Window).Sub(now),
	}
	if !decision.Allowed {
		decision.Reason = "frequency cap reached"
	}
	return decision, nil
}

// RecordEvent upserts the active bucket atomically and returns the new
// count.
func (s *FrequencyStore) RecordEvent(ctx context.Context, key domain.FrequencyKey, fc domain.FrequencyCap) (int64, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	ws := s.now().Truncate(fc.Window)

	var count int64
	err := s.pool.QueryRow(ctx, `
        INSERT INTO frequency_counters (user_id, ad_id, campaign_id, event_type, count, window_start, window_end)
        VALUES ($1, $2, $3, $4, 1, $5, $6)
        ON CONFLICT (user_id, ad_id, event_type, window_start)
        DO UPDATE SET count = frequency_counters.count + 1
        RETURNING count`,
		key.UserID, key.AdID, key.CampaignID, key.EventType, ws, ws.Add(fc.Window)).
		Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}
