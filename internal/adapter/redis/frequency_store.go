// Package redis holds a FrequencyStore backed by redis counters. INCR is
// atomic server-side, so the cap holds across any number of serving
// processes sharing the instance.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"adengine/internal/config/configs"
	"adengine/internal/core/domain"
	"adengine/internal/core/port"
)

// FrequencyStore implements port.FrequencyStore over a redis client.
type FrequencyStore struct {
	client *redis.Client
	now    func() time.Time
}

// NewFrequencyStore connects to redis and verifies the connection with a
// ping. The caller must Close the store when done.
func NewFrequencyStore(ctx context.Context, cfg configs.Redis) (*FrequencyStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}
	return &FrequencyStore{client: client, now: time.Now}, nil
}

// Close releases the underlying client.
func (s *FrequencyStore) Close() error {
	return s.client.Close()
}

// CheckAndReserve reads the active window's counter without incrementing.
func (s *FrequencyStore) CheckAndReserve(ctx context.Context, key domain.FrequencyKey, fc domain.FrequencyCap) (port.FrequencyDecision, error) {
	now := s.now()
	ws := now.Truncate(fc.Window)

	count, err := s.client.Get(ctx, counterKey(key, ws)).Int64()
	if err != nil && err != redis.Nil {
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

// RecordEvent increments the active window's counter atomically and sets
// its expiry on first touch. INCR creates the key with value 1 when
// absent, which is exactly the required upsert.
func (s *FrequencyStore) RecordEvent(ctx context.Context, key domain.FrequencyKey, fc domain.FrequencyCap) (int64, error) {
	ws := s.now().Truncate(fc.Window)
	k := counterKey(key, ws)

	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, k)
	// Expiry a full window past the window end keeps the bucket readable
	// for TimeRemaining queries while still reclaiming memory.
	pipe.ExpireNX(ctx, k, 2*fc.Window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

func counterKey(key domain.FrequencyKey, windowStart time.Time) string {
	return fmt.Sprintf("freq:%s:%d:%d:%s:%d",
		key.UserID, key.AdID, key.CampaignID, key.EventType, windowStart.Unix())
}
