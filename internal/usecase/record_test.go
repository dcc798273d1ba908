package usecase

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/camrec/camrec-capture-agent/internal/domain/entity"
	"github.com/camrec/camrec-capture-agent/internal/domain/port"
	"github.com/camrec/camrec-capture-agent/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubSource struct {
	mu        sync.Mutex
	reads     int
	failAfter int // <=0 means never fail
}

func (s *stubSource) Read() ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads++
	if s.failAfter > 0 && s.reads > s.failAfter {
		return nil, false
	}
	return make([]byte, 16), true
}

func (s *stubSource) Close() error { return nil }

type countingWriter struct {
	path   string
	frames atomic.Int64
	closed atomic.Bool
}

func (w *countingWriter) Write(_ []byte) error { w.frames.Add(1); return nil }
func (w *countingWriter) Close() error         { w.closed.Store(true); return nil }

type stubOpener struct {
	mu      sync.Mutex
	writers []*countingWriter
}

func (o *stubOpener) Open(path string, _, _, _ int) (port.SegmentWriter, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	w := &countingWriter{path: path}
	o.writers = append(o.writers, w)
	return w, nil
}

type recordingSink struct {
	mu       sync.Mutex
	segments []*entity.Segment
	onSubmit func()
}

func (s *recordingSink) Submit(seg *entity.Segment) {
	s.mu.Lock()
	s.segments = append(s.segments, seg)
	s.mu.Unlock()
	if s.onSubmit != nil {
		s.onSubmit()
	}
}

func (s *recordingSink) all() []*entity.Segment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*entity.Segment(nil), s.segments...)
}

func newTestRecorder(t *testing.T, src port.FrameSource, opener port.WriterOpener, sink Submitter, duration time.Duration, fps int) *Recorder {
	t.Helper()
	return NewRecorder(src, opener, sink, RecorderConfig{
		OutputDir:       t.TempDir(),
		SegmentDuration: duration,
		FPS:             fps,
		Width:           64,
		Height:          48,
	}, zap.NewNop())
}

func TestRecorderFrameCountTracksDurationAndRate(t *testing.T) {
	const (
		duration = 500 * time.Millisecond
		fps      = 20
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sink := &recordingSink{onSubmit: cancel} // stop after the first segment
	opener := &stubOpener{}
	rec := newTestRecorder(t, &stubSource{}, opener, sink, duration, fps)

	start := time.Now()
	require.NoError(t, rec.Run(ctx))
	elapsed := time.Since(start)

	segs := sink.all()
	require.Len(t, segs, 1)
	seg := segs[0]

	assert.True(t, seg.Finalized)
	// D x F frames, plus-minus one for pacing jitter.
	assert.InDelta(t, duration.Seconds()*float64(fps), float64(seg.FrameCount), 1.5)
	// Wall clock within one frame interval of the target duration.
	interval := time.Second / fps
	assert.Less(t, elapsed, duration+4*interval)

	require.NotEmpty(t, opener.writers)
	assert.True(t, opener.writers[0].closed.Load())
}

func TestRecorderStopFinalizesAndSubmitsInFlightSegment(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	sink := &recordingSink{}
	opener := &stubOpener{}
	rec := newTestRecorder(t, &stubSource{}, opener, sink, 10*time.Second, 20)

	errCh := make(chan error, 1)
	go func() { errCh <- rec.Run(ctx) }()

	time.Sleep(300 * time.Millisecond)
	cancel()

	require.NoError(t, <-errCh)

	segs := sink.all()
	require.Len(t, segs, 1, "partial segment must be submitted on manual stop")
	assert.True(t, segs[0].Finalized)
	assert.Greater(t, segs[0].FrameCount, 0)
	assert.True(t, opener.writers[0].closed.Load())
}

func TestRecorderFatalOnFrameSourceFailure(t *testing.T) {
	sink := &recordingSink{}
	opener := &stubOpener{}
	rec := newTestRecorder(t, &stubSource{failAfter: 3}, opener, sink, 10*time.Second, 20)

	err := rec.Run(context.Background())
	require.ErrorIs(t, err, ErrFrameSource)

	assert.Empty(t, sink.all(), "aborted segment must not be submitted")
	require.Len(t, opener.writers, 1)
	assert.True(t, opener.writers[0].closed.Load(), "writer must be stopped on abort")
}

type slowProcessor struct {
	started   atomic.Int64
	completed atomic.Int64
	delay     time.Duration
}

func (p *slowProcessor) Execute(_ context.Context, seg *entity.Segment) *entity.ProcessingTask {
	p.started.Add(1)
	time.Sleep(p.delay)
	p.completed.Add(1)
	return entity.NewProcessingTask(seg)
}

func TestCaptureNeverBlocksOnProcessing(t *testing.T) {
	proc := &slowProcessor{delay: 5 * time.Second}
	coord := pipeline.NewCoordinator(proc, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	opener := &stubOpener{}
	rec := newTestRecorder(t, &stubSource{}, opener, coord, 150*time.Millisecond, 20)

	go func() {
		time.Sleep(600 * time.Millisecond)
		cancel()
	}()
	require.NoError(t, rec.Run(ctx))

	// Several segments were captured and submitted while the first task was
	// still artificially stuck in processing.
	assert.GreaterOrEqual(t, proc.started.Load(), int64(2))
	assert.Equal(t, int64(0), proc.completed.Load(), "capture finished before any task completed")
}
