package pipeline

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/camrec/camrec-capture-agent/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type trackingProcessor struct {
	mu       sync.Mutex
	names    []string
	delay    time.Duration
	finished atomic.Int64
}

func (p *trackingProcessor) Execute(_ context.Context, seg *entity.Segment) *entity.ProcessingTask {
	if p.delay > 0 {
		time.Sleep(p.delay)
	}
	p.mu.Lock()
	p.names = append(p.names, seg.Name)
	p.mu.Unlock()
	p.finished.Add(1)
	return entity.NewProcessingTask(seg)
}

func newSegment(name string) *entity.Segment {
	seg := entity.NewSegment("/tmp", time.Now(), time.Second, 10, 64, 48)
	seg.Name = name
	seg.MarkFinalized(10)
	return seg
}

func TestSubmitReturnsImmediately(t *testing.T) {
	proc := &trackingProcessor{delay: time.Second}
	c := NewCoordinator(proc, zap.NewNop())

	start := time.Now()
	c.Submit(newSegment("a"))
	assert.Less(t, time.Since(start), 100*time.Millisecond, "Submit must not wait for processing")

	c.Drain(3 * time.Second)
	assert.Equal(t, int64(1), proc.finished.Load())
}

func TestEverySubmittedSegmentIsProcessed(t *testing.T) {
	const n = 10

	proc := &trackingProcessor{}
	c := NewCoordinator(proc, zap.NewNop())

	names := make(map[string]bool, n)
	for i := 0; i < n; i++ {
		name := entity.SegmentName(time.Now()) + string(rune('a'+i))
		names[name] = true
		c.Submit(newSegment(name))
	}

	c.Drain(5 * time.Second)
	require.Equal(t, int64(n), proc.finished.Load())

	proc.mu.Lock()
	defer proc.mu.Unlock()
	require.Len(t, proc.names, n)
	for _, name := range proc.names {
		assert.True(t, names[name], "processed segment %s was submitted", name)
	}
}

func TestDrainGivesUpAfterTimeout(t *testing.T) {
	proc := &trackingProcessor{delay: 2 * time.Second}
	c := NewCoordinator(proc, zap.NewNop())

	c.Submit(newSegment("slow"))

	start := time.Now()
	c.Drain(100 * time.Millisecond)
	assert.Less(t, time.Since(start), time.Second, "Drain must not block past its timeout")
	assert.Equal(t, int64(0), proc.finished.Load(), "task keeps running past Drain")
}
