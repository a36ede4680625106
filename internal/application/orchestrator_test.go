package application

import (
	"context"
	"testing"
	"time"

	"github.com/bnema/warmer/internal/domain"
	"github.com/bnema/warmer/internal/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrchestratorStaggersWorkerStarts(t *testing.T) {
	t.Parallel()

	// Workers start at night, so each parks in a quiet sleep that never fires
	// while the orchestrator's shorter stagger delays fire at once.
	clock := newVirtualClock(time.Date(2026, 1, 10, 2, 0, 0, 0, time.UTC))
	clock.block = func(d time.Duration) bool { return d >= 10*time.Minute }

	startDelay := domain.Interval{Min: 60 * time.Second, Max: 180 * time.Second}
	orchestrator := NewFleet(FleetConfig{
		Registry:   testRegistry(t, alice, bob, carol),
		Content:    NewContentService(mocks.NewMockTextGenerator(t), clock, testPolicy(), nil),
		Sink:       mocks.NewMockMessageSink(t),
		Clock:      clock,
		Schedule:   testSchedule(),
		StartDelay: startDelay,
		Seed:       7,
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- orchestrator.Run(ctx) }()

	require.Eventually(t, func() bool {
		for _, status := range orchestrator.Snapshot() {
			if status.State != WorkerQuiet {
				return false
			}
		}
		return true
	}, time.Second, 5*time.Millisecond)

	staggers := 0
	for _, d := range clock.Sleeps() {
		if d < 10*time.Minute {
			staggers++
			assert.GreaterOrEqual(t, d, startDelay.Min)
			assert.LessOrEqual(t, d, startDelay.Max)
		}
	}
	assert.Equal(t, 2, staggers, "no stagger after the last worker")

	cancel()
	require.NoError(t, <-done)

	snapshot := orchestrator.Snapshot()
	require.Len(t, snapshot, 3)
	assert.Equal(t, alice, snapshot[0].Account)
	assert.Equal(t, carol, snapshot[2].Account)
	for _, status := range snapshot {
		assert.Equal(t, WorkerStopped, status.State)
	}
}

func TestOrchestratorCancelledDuringStaggerStopsStarting(t *testing.T) {
	t.Parallel()

	clock := newVirtualClock(time.Date(2026, 1, 10, 2, 0, 0, 0, time.UTC))
	clock.block = func(time.Duration) bool { return true }

	orchestrator := NewFleet(FleetConfig{
		Registry:   testRegistry(t, alice, bob),
		Content:    NewContentService(mocks.NewMockTextGenerator(t), clock, testPolicy(), nil),
		Sink:       mocks.NewMockMessageSink(t),
		Clock:      clock,
		Schedule:   testSchedule(),
		StartDelay: domain.Interval{Min: time.Minute, Max: time.Minute},
		Seed:       1,
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- orchestrator.Run(ctx) }()

	require.Eventually(t, func() bool {
		return orchestrator.Snapshot()[0].State == WorkerQuiet
	}, time.Second, 5*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
	assert.Equal(t, WorkerStarting, orchestrator.Snapshot()[1].State)
}

func TestOrchestratorWithoutWorkers(t *testing.T) {
	t.Parallel()

	orchestrator := NewOrchestrator(nil, nil, testRand(), domain.Interval{}, nil)
	assert.ErrorIs(t, orchestrator.Run(context.Background()), domain.ErrEmptyRegistry)
}
