package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"adengine/internal/adapter/memory"
	"adengine/internal/core/domain"
	"adengine/internal/errortypes"
)

func TestRecordFrequencyEventDecision(t *testing.T) {
	engine := newTestEngine(newFakeRepo(), memory.NewFrequencyStore())
	key := domain.FrequencyKey{UserID: "u1", AdID: 5, EventType: domain.EventClick}

	// The click cap is 1, so the first recorded click already saturates
	// it. The decision must carry the full window shape.
	d, err := engine.RecordFrequencyEvent(context.Background(), key)
	require.NoError(t, err)
	require.False(t, d.Allowed)
	require.Equal(t, "frequency cap reached", d.Reason)
	require.Equal(t, int64(1), d.CurrentCount)
	require.Equal(t, int64(1), d.Limit)
	require.Greater(t, d.TimeRemaining, time.Duration(0))
	require.LessOrEqual(t, d.TimeRemaining, 24*time.Hour)
}

func TestCheckFrequencyReflectsRecordedEvents(t *testing.T) {
	engine := newTestEngine(newFakeRepo(), memory.NewFrequencyStore())
	key := domain.FrequencyKey{UserID: "u1", AdID: 5, EventType: domain.EventImpression}

	d, err := engine.CheckFrequency(context.Background(), key)
	require.NoError(t, err)
	require.True(t, d.Allowed)
	require.Equal(t, int64(0), d.CurrentCount)
	require.Greater(t, d.TimeRemaining, time.Duration(0))

	_, err = engine.RecordFrequencyEvent(context.Background(), key)
	require.NoError(t, err)

	d, err = engine.CheckFrequency(context.Background(), key)
	require.NoError(t, err)
	require.True(t, d.Allowed)
	require.Equal(t, int64(1), d.CurrentCount)
}

func TestFrequencyKeyValidation(t *testing.T) {
	engine := newTestEngine(newFakeRepo(), memory.NewFrequencyStore())
	ctx := context.Background()

	_, err := engine.CheckFrequency(ctx, domain.FrequencyKey{EventType: domain.EventImpression})
	require.Equal(t, errortypes.InvalidInputErrorCode, errortypes.ReadCode(err))

	_, err = engine.RecordFrequencyEvent(ctx, domain.FrequencyKey{UserID: "u1", EventType: "view"})
	require.Equal(t, errortypes.InvalidInputErrorCode, errortypes.ReadCode(err))
}
