package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"adengine/internal/core/domain"
)

var testCap = domain.FrequencyCap{Limit: 3, Window: 24 * time.Hour}

func testKey(user string) domain.FrequencyKey {
	return domain.FrequencyKey{
		UserID:     user,
		AdID:       1,
		CampaignID: 1,
		EventType:  domain.EventImpression,
	}
}

func TestCheckAndReserveEnforcesLimit(t *testing.T) {
	s := NewFrequencyStore()
	ctx := context.Background()
	key := testKey("u1")

	for i := int64(0); i < testCap.Limit; i++ {
		d, err := s.CheckAndReserve(ctx, key, testCap)
		require.NoError(t, err)
		require.True(t, d.Allowed)
		require.Equal(t, i, d.CurrentCount)

		count, err := s.RecordEvent(ctx, key, testCap)
		require.NoError(t, err)
		require.Equal(t, i+1, count)
	}

	d, err := s.CheckAndReserve(ctx, key, testCap)
	require.NoError(t, err)
	require.False(t, d.Allowed)
	require.Equal(t, "frequency cap reached", d.Reason)
	require.Equal(t, testCap.Limit, d.CurrentCount)
	require.Greater(t, d.TimeRemaining, time.Duration(0))
}

func TestCountersAreScopedToKey(t *testing.T) {
	s := NewFrequencyStore()
	ctx := context.Background()

	_, err := s.RecordEvent(ctx, testKey("u1"), testCap)
	require.NoError(t, err)

	// A different user, a different ad, and a different event type all
	// count independently.
	d, err := s.CheckAndReserve(ctx, testKey("u2"), testCap)
	require.NoError(t, err)
	require.Equal(t, int64(0), d.CurrentCount)

	otherAd := testKey("u1")
	otherAd.AdID = 2
	d, err = s.CheckAndReserve(ctx, otherAd, testCap)
	require.NoError(t, err)
	require.Equal(t, int64(0), d.CurrentCount)

	click := testKey("u1")
	click.EventType = domain.EventClick
	d, err = s.CheckAndReserve(ctx, click, testCap)
	require.NoError(t, err)
	require.Equal(t, int64(0), d.CurrentCount)
}

func TestWindowRollover(t *testing.T) {
	s := NewFrequencyStore()
	ctx := context.Background()
	key := testKey("u1")
	fc := domain.FrequencyCap{Limit: 1, Window: time.Hour}

	base := time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC)
	s.now = func() time.Time { return base }

	_, err := s.RecordEvent(ctx, key, fc)
	require.NoError(t, err)
	d, err := s.CheckAndReserve(ctx, key, fc)
	require.NoError(t, err)
	require.False(t, d.Allowed)

	// The next window starts fresh.
	s.now = func() time.Time { return base.Add(time.Hour) }
	d, err = s.CheckAndReserve(ctx, key, fc)
	require.NoError(t, err)
	require.True(t, d.Allowed)
	require.Equal(t, int64(0), d.CurrentCount)
}

func TestConcurrentRecordLosesNoUpdates(t *testing.T) {
	s := NewFrequencyStore()
	ctx := context.Background()
	key := testKey("u1")
	fc := domain.FrequencyCap{Limit: 1 << 30, Window: 24 * time.Hour}

	const n = 200
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			_, err := s.RecordEvent(ctx, key, fc)
			require.NoError(t, err)
		}()
	}
	wg.Wait()

	d, err := s.CheckAndReserve(ctx, key, fc)
	require.NoError(t, err)
	require.Equal(t, int64(n), d.CurrentCount)
}

func TestPurgeBeforeDropsExpiredBuckets(t *testing.T) {
	s := NewFrequencyStore()
	ctx := context.Background()
	key := testKey("u1")
	fc := domain.FrequencyCap{Limit: 1, Window: time.Hour}

	base := time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC)
	s.now = func() time.Time { return base }
	_, err := s.RecordEvent(ctx, key, fc)
	require.NoError(t, err)

	s.PurgeBefore(base.Add(2 * time.Hour))
	require.Empty(t, s.counters)

	// The active window must survive a purge with an earlier cutoff.
	_, err = s.RecordEvent(ctx, key, fc)
	require.NoError(t, err)
	s.PurgeBefore(base.Add(-time.Hour))
	require.Len(t, s.counters, 1)
}
