package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderSchedulerDropsOverlappingRequests(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	calls := 0

	s := NewRenderScheduler(func(ctx context.Context, trigger Trigger) (Outcome, error) {
		calls++
		entered <- struct{}{}
		<-release
		return OutcomeRendered, nil
	})

	var wg sync.WaitGroup
	var first Outcome
	wg.Add(1)
	go func() {
		defer wg.Done()
		first, _ = s.RequestRender(context.Background(), TriggerTimer)
	}()

	<-entered
	assert.Equal(t, StateRendering, s.State())

	for _, trig := range []Trigger{TriggerTimer, TriggerSelectionChanged, TriggerResolutionChanged} {
		out, err := s.RequestRender(context.Background(), trig)
		require.NoError(t, err)
		assert.Equal(t, OutcomeSkipped, out)
	}

	close(release)
	wg.Wait()

	assert.Equal(t, OutcomeRendered, first)
	assert.Equal(t, 1, calls)
	assert.Equal(t, StateIdle, s.State())
}

func TestRenderSchedulerClearsGuardOnError(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	s := NewRenderScheduler(func(ctx context.Context, trigger Trigger) (Outcome, error) {
		calls++
		return OutcomeFailed, boom
	})

	out, err := s.RequestRender(context.Background(), TriggerTimer)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, OutcomeFailed, out)

	_, _ = s.RequestRender(context.Background(), TriggerTimer)
	assert.Equal(t, 2, calls)
	assert.Equal(t, StateIdle, s.State())
}

func TestRenderSchedulerRecoversPanic(t *testing.T) {
	panicking := true
	s := NewRenderScheduler(func(ctx context.Context, trigger Trigger) (Outcome, error) {
		if panicking {
			panic("draw exploded")
		}
		return OutcomeRendered, nil
	})

	out, err := s.RequestRender(context.Background(), TriggerTimer)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "draw exploded")
	assert.Equal(t, OutcomeFailed, out)
	assert.Equal(t, StateIdle, s.State())

	panicking = false
	out, err = s.RequestRender(context.Background(), TriggerTimer)
	require.NoError(t, err)
	assert.Equal(t, OutcomeRendered, out)
}
