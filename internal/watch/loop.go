package watch

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/calebmartin/seedwatch/internal/metrics"
)

// cycleRunner is what the Loop needs from the Checker.
type cycleRunner interface {
	RunCycle(ctx context.Context) CycleResult
}

// Loop runs poll cycles forever at a fixed interval. Cycles are strictly
// sequential; the wait starts after a cycle completes and is the same
// whether it succeeded or failed. The only exit path is context
// cancellation at process shutdown.
type Loop struct {
	checker  cycleRunner
	interval time.Duration
	logger   *zap.Logger
}

// NewLoop builds a Loop around a Checker.
func NewLoop(checker cycleRunner, interval time.Duration, logger *zap.Logger) *Loop {
	return &Loop{
		checker:  checker,
		interval: interval,
		logger:   logger,
	}
}

// Run blocks until ctx is canceled. A failed cycle is logged and the loop
// continues; it must never terminate the loop.
func (l *Loop) Run(ctx context.Context) {
	for {
		start := time.Now()
		res := l.safeCycle(ctx)
		elapsed := time.Since(start)
		metrics.ObserveCycle(string(res.Outcome), elapsed)

		switch res.Outcome {
		case OutcomeNotified:
			l.logger.Info("cycle completed",
				zap.String("outcome", string(res.Outcome)),
				zap.Int("notified", res.Notified),
				zap.Duration("elapsed", elapsed),
			)
		case OutcomeFailed:
			l.logger.Warn("cycle failed",
				zap.Duration("elapsed", elapsed),
				zap.Error(res.Err),
			)
		default:
			l.logger.Info("cycle completed",
				zap.String("outcome", string(res.Outcome)),
				zap.Duration("elapsed", elapsed),
			)
		}

		select {
		case <-ctx.Done():
			l.logger.Info("watch loop stopping", zap.Error(ctx.Err()))
			return
		case <-time.After(l.interval):
		}
	}
}

// safeCycle converts a panicking cycle into a failed result. A defect in
// one cycle must not take the process down with it.
func (l *Loop) safeCycle(ctx context.Context) (res CycleResult) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("cycle panicked", zap.Any("panic", r), zap.Stack("stack"))
			res = failed(fmt.Errorf("cycle panic: %v", r))
		}
	}()
	return l.checker.RunCycle(ctx)
}
