// Package memory holds a single-process FrequencyStore for development
// and tests. Correctness across multiple server processes requires the
// postgres or redis backend.
package memory

import (
	"context"
	"sync"
	"time"

	"adengine/internal/core/domain"
	"adengine/internal/core/port"
)

// bucket identifies one counter window.
type bucket struct {
	key         domain.FrequencyKey
	windowStart int64
}

// FrequencyStore keeps counters in a mutex-guarded map. Check and record
// both run under the lock, so concurrent RecordEvent calls for the same
// key can never lose an update.
type FrequencyStore struct {
	mu       sync.Mutex
	counters map[bucket]int64

	// now is injectable for window rollover tests.
	now func() time.Time
}

// NewFrequencyStore returns an empty in-process store.
func NewFrequencyStore() *FrequencyStore {
	return &FrequencyStore{
		counters: make(map[bucket]int64),
		now:      time.Now,
	}
}

// CheckAndReserve reads the bucket containing "now" and compares its
// count against the cap. It does not increment.
func (s *FrequencyStore) CheckAndReserve(_ context.Context, key domain.FrequencyKey, fc domain.FrequencyCap) (port.FrequencyDecision, error) {
	now := s.now()
	ws := now.Truncate(fc.Window)

	s.mu.Lock()
	count := s.counters[bucket{key: key, windowStart: ws.Unix()}]
	s.mu.Unlock()

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

// RecordEvent atomically increments the active bucket, creating it with
// count 1 when absent, and returns the new count.
func (s *FrequencyStore) RecordEvent(_ context.Context, key domain.FrequencyKey, fc domain.FrequencyCap) (int64, error) {
	ws := s.now().Truncate(fc.Window)
	b := bucket{key: key, windowStart: ws.Unix()}

	s.mu.Lock()
	s.counters[b]++
	count := s.counters[b]
	s.mu.Unlock()

	return count, nil
}

// PurgeBefore drops buckets whose window started before the cutoff.
// Expired buckets are harmless (they are never selected again) but this
// keeps long-running dev processes from growing without bound.
func (s *FrequencyStore) PurgeBefore(cutoff time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for b := range s.counters {
		if b.windowStart < cutoff.Unix() {
			delete(s.counters, b)
		}
	}
}
