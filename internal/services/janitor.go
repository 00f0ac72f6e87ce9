package services

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Sweeper removes idle state and reports how much was dropped.
type Sweeper interface {
	Sweep(maxIdle time.Duration) int
}

// Janitor periodically evicts abandoned form states.
type Janitor struct {
	log      *zap.Logger
	sweeper  Sweeper
	interval time.Duration
	maxIdle  func() time.Duration
}

func NewJanitor(log *zap.Logger, sweeper Sweeper, interval time.Duration, maxIdle func() time.Duration) *Janitor {
	return &Janitor{
		log:      log,
		sweeper:  sweeper,
		interval: interval,
		maxIdle:  maxIdle,
	}
}

// Start runs the janitor in a goroutine until ctx is cancelled.
func (j *Janitor) Start(ctx context.Context) {
	j.log.Info("Starting form state janitor...", zap.Duration("interval", j.interval))
	go func() {
		ticker := time.NewTicker(j.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				j.log.Info("Form state janitor stopped")
				return
			case <-ticker.C:
				j.runSweep()
			}
		}
	}()
}

func (j *Janitor) runSweep() {
	removed := j.sweeper.Sweep(j.maxIdle())
	if removed > 0 {
		j.log.Debug("Evicted idle form states", zap.Int("removed", removed))
	}
}
