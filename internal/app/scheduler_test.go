package app

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Freeeeeet/study_planner_bot/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubUsers struct {
	ids []int64
	err error
}

func (u stubUsers) ListPlannableUserIDs(context.Context) ([]int64, error) {
	return u.ids, u.err
}

type stubPlans struct {
	mu       sync.Mutex
	seen     []int64
	days     []int
	fail     map[int64]bool
	inFlight atomic.Int32
	maxSeen  atomic.Int32
}

func (p *stubPlans) Generate(_ context.Context, userID int64, daysAhead int) (*service.GenerationResult, error) {
	n := p.inFlight.Add(1)
	defer p.inFlight.Add(-1)
	for {
		m := p.maxSeen.Load()
		if n <= m || p.maxSeen.CompareAndSwap(m, n) {
			break
		}
	}
	time.Sleep(5 * time.Millisecond)

	p.mu.Lock()
	p.seen = append(p.seen, userID)
	p.days = append(p.days, daysAhead)
	p.mu.Unlock()

	if p.fail[userID] {
		return nil, errors.New("db down")
	}
	return &service.GenerationResult{Source: service.SourceFallback}, nil
}

func TestRegenerateAllContinuesAfterFailures(t *testing.T) {
	plans := &stubPlans{fail: map[int64]bool{2: true, 5: true}}
	s := NewScheduler(stubUsers{ids: []int64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}}, plans, "", 7, time.UTC, zap.NewNop())

	ok, failed := s.RegenerateAll(context.Background())

	assert.Equal(t, 8, ok)
	assert.Equal(t, 2, failed)
	assert.ElementsMatch(t, []int64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, plans.seen)
	for _, d := range plans.days {
		assert.Equal(t, 7, d)
	}
	assert.LessOrEqual(t, int(plans.maxSeen.Load()), maxParallelRegenerations)
}

func TestRegenerateAllListFailure(t *testing.T) {
	plans := &stubPlans{}
	s := NewScheduler(stubUsers{err: errors.New("db down")}, plans, "", 7, time.UTC, zap.NewNop())

	ok, failed := s.RegenerateAll(context.Background())
	assert.Zero(t, ok)
	assert.Zero(t, failed)
	assert.Empty(t, plans.seen)
}

func TestSchedulerStart(t *testing.T) {
	disabled := NewScheduler(stubUsers{}, &stubPlans{}, "", 7, nil, zap.NewNop())
	require.NoError(t, disabled.Start(context.Background()))

	broken := NewScheduler(stubUsers{}, &stubPlans{}, "every monday", 7, nil, zap.NewNop())
	assert.Error(t, broken.Start(context.Background()))

	weekly := NewScheduler(stubUsers{}, &stubPlans{}, "0 3 * * 1", 7, time.UTC, zap.NewNop())
	require.NoError(t, weekly.Start(context.Background()))
	weekly.Stop()
}
