package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type countingChecker struct {
	calls atomic.Int64
}

func (c *countingChecker) CheckOverdue(ctx context.Context) (int, error) {
	c.calls.Add(1)
	return 0, nil
}

func TestOverdueScheduler_SweepsOnStartAndInterval(t *testing.T) {
	checker := &countingChecker{}
	s := NewOverdueScheduler(checker, 10*time.Millisecond, zap.NewNop())

	s.Start(context.Background())
	defer s.Stop()

	// One sweep at startup plus at least one tick
	require.Eventually(t, func() bool {
		return checker.calls.Load() >= 2
	}, time.Second, 5*time.Millisecond)
}

func TestOverdueScheduler_StopHaltsSweeps(t *testing.T) {
	checker := &countingChecker{}
	s := NewOverdueScheduler(checker, 10*time.Millisecond, zap.NewNop())

	s.Start(context.Background())
	s.Stop()

	settled := checker.calls.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, settled, checker.calls.Load())

	// Stop is idempotent
	s.Stop()
}

func TestOverdueScheduler_ContextCancelHaltsSweeps(t *testing.T) {
	checker := &countingChecker{}
	s := NewOverdueScheduler(checker, 10*time.Millisecond, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)
	cancel()

	time.Sleep(30 * time.Millisecond)
	settled := checker.calls.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, settled, checker.calls.Load())
	s.Stop()
}

func TestNewOverdueScheduler_DefaultInterval(t *testing.T) {
	s := NewOverdueScheduler(&countingChecker{}, 0, zap.NewNop())
	assert.Equal(t, 24*time.Hour, s.interval)
}
