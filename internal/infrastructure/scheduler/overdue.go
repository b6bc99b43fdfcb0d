package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// OverdueChecker flips past-due payment requests to overdue
type OverdueChecker interface {
	CheckOverdue(ctx context.Context) (int, error)
}

// OverdueScheduler runs the overdue sweep once at startup and then on
// a fixed interval
type OverdueScheduler struct {
	checker  OverdueChecker
	interval time.Duration
	logger   *zap.Logger

	stop chan struct{}
	wg   sync.WaitGroup
	once sync.Once
}

// NewOverdueScheduler creates an overdue scheduler
func NewOverdueScheduler(checker OverdueChecker, interval time.Duration, logger *zap.Logger) *OverdueScheduler {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &OverdueScheduler{
		checker:  checker,
		interval: interval,
		logger:   logger,
		stop:     make(chan struct{}),
	}
}

// Start launches the sweep loop
func (s *OverdueScheduler) Start(ctx context.Context) {
	s.wg.Add(1)
	go s.run(ctx)
	s.logger.Info("overdue scheduler started", zap.Duration("interval", s.interval))
}

// Stop stops the sweep loop and waits for a running sweep to finish
func (s *OverdueScheduler) Stop() {
	s.once.Do(func() { close(s.stop) })
	s.wg.Wait()
	s.logger.Info("overdue scheduler stopped")
}

func (s *OverdueScheduler) run(ctx context.Context) {
	defer s.wg.Done()

	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep(ctx)
		case <-s.stop:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (s *OverdueScheduler) sweep(ctx context.Context) {
	flipped, err := s.checker.CheckOverdue(ctx)
	if err != nil {
		s.logger.Error("overdue sweep failed", zap.Error(err))
		return
	}
	s.logger.Debug("overdue sweep finished", zap.Int("flipped", flipped))
}
