package services

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type countingSweeper struct {
	calls atomic.Int32
}

func (s *countingSweeper) Sweep(maxIdle time.Duration) int {
	s.calls.Add(1)
	return 1
}

func TestJanitorSweepsUntilCancelled(t *testing.T) {
	sweeper := &countingSweeper{}
	j := NewJanitor(zap.NewNop(), sweeper, 5*time.Millisecond, func() time.Duration { return time.Minute })

	ctx, cancel := context.WithCancel(context.Background())
	j.Start(ctx)

	assert.Eventually(t, func() bool { return sweeper.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()
}
