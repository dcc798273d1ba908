// Package pipeline schedules per-segment post-processing tasks.
package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/camrec/camrec-capture-agent/internal/domain/entity"
	"github.com/camrec/camrec-capture-agent/internal/infra/metrics"
	"go.uber.org/zap"
)

// Processor runs one segment's compress-then-upload sequence to a terminal
// state.
type Processor interface {
	Execute(ctx context.Context, seg *entity.Segment) *entity.ProcessingTask
}

// Coordinator launches one independent background task per finalized
// segment. Tasks run on a context detached from the capture path: stopping
// capture never cancels in-flight processing.
type Coordinator struct {
	proc   Processor
	logger *zap.Logger
	wg     sync.WaitGroup
}

func NewCoordinator(proc Processor, logger *zap.Logger) *Coordinator {
	return &Coordinator{proc: proc, logger: logger}
}

// Submit schedules the segment's processing and returns immediately. The
// caller observes no result; the task runs to completion or failure on its
// own.
func (c *Coordinator) Submit(seg *entity.Segment) {
	c.logger.Info("segment submitted for processing", zap.String("segment", seg.Name))

	c.wg.Add(1)
	metrics.ActiveTasks.Inc()

	go func() {
		defer c.wg.Done()
		defer metrics.ActiveTasks.Dec()
		c.proc.Execute(context.Background(), seg)
	}()
}

// Drain waits up to timeout for in-flight tasks, then gives up. Tasks are
// fire-and-forget; shutdown does not block on a slow upload.
func (c *Coordinator) Drain(timeout time.Duration) {
	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		c.logger.Info("all segment tasks finished")
	case <-time.After(timeout):
		c.logger.Warn("drain timeout, abandoning in-flight tasks", zap.Duration("timeout", timeout))
	}
}
