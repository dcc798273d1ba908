package usecase

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/camrec/camrec-capture-agent/internal/domain/entity"
	"github.com/camrec/camrec-capture-agent/internal/domain/port"
	"github.com/camrec/camrec-capture-agent/internal/infra/metrics"
	"go.uber.org/zap"
)

// ErrFrameSource is returned by Recorder.Run when the frame source stops
// delivering frames. Fatal: the capture loop does not retry the camera.
var ErrFrameSource = errors.New("frame source stopped delivering frames")

// Submitter schedules a finalized segment's post-processing. Submit must
// return immediately; the recorder never observes the task's outcome.
type Submitter interface {
	Submit(segment *entity.Segment)
}

type RecorderConfig struct {
	OutputDir       string
	SegmentDuration time.Duration
	FPS             int
	Width           int
	Height          int
}

// Recorder is the capture loop: it owns the frame source and the single
// active segment writer, slices the stream into fixed-duration segments, and
// hands each finalized segment to the submitter without waiting for its
// processing.
type Recorder struct {
	source  port.FrameSource
	writers port.WriterOpener
	sink    Submitter
	cfg     RecorderConfig
	logger  *zap.Logger
}

func NewRecorder(source port.FrameSource, writers port.WriterOpener, sink Submitter, cfg RecorderConfig, logger *zap.Logger) *Recorder {
	return &Recorder{
		source:  source,
		writers: writers,
		sink:    sink,
		cfg:     cfg,
		logger:  logger,
	}
}

// Run records segments until ctx is cancelled or the frame source fails.
// On cancellation the in-flight segment is finalized and submitted.
func (r *Recorder) Run(ctx context.Context) error {
	if err := os.MkdirAll(r.cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	r.logger.Info("continuous recording started",
		zap.String("output_dir", r.cfg.OutputDir),
		zap.Duration("segment_duration", r.cfg.SegmentDuration),
		zap.Int("fps", r.cfg.FPS),
	)

	for {
		stopped, err := r.recordSegment(ctx)
		if err != nil {
			return err
		}
		if stopped {
			r.logger.Info("recording stopped")
			return nil
		}
	}
}

// recordSegment captures one segment. It reports stopped=true when ctx was
// cancelled during capture, and a non-nil error only for fatal capture
// failures.
func (r *Recorder) recordSegment(ctx context.Context) (stopped bool, err error) {
	seg := entity.NewSegment(r.cfg.OutputDir, time.Now(), r.cfg.SegmentDuration, r.cfg.FPS, r.cfg.Width, r.cfg.Height)
	if _, statErr := os.Stat(seg.Path); statErr == nil {
		// Second-granularity names collide under rapid restart.
		seg.Disambiguate()
	}

	w, err := r.writers.Open(seg.Path, seg.TargetFPS, seg.Width, seg.Height)
	if err != nil {
		return false, fmt.Errorf("open segment writer %s: %w", seg.Path, err)
	}

	log := r.logger.With(zap.String("segment", seg.Name))
	log.Info("recording segment")

	interval := time.Second / time.Duration(r.cfg.FPS)
	deadline := time.Now().Add(seg.TargetDuration)
	frames := 0

	for time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			r.finalize(seg, w, frames, log)
			if frames > 0 {
				r.sink.Submit(seg)
			}
			return true, nil
		default:
		}

		frameStart := time.Now()

		frame, ok := r.source.Read()
		if !ok {
			log.Error("frame read failed, aborting segment")
			if closeErr := w.Close(); closeErr != nil {
				log.Warn("segment writer close", zap.Error(closeErr))
			}
			return false, ErrFrameSource
		}

		if err := w.Write(frame); err != nil {
			log.Error("frame write failed, aborting segment", zap.Error(err))
			if closeErr := w.Close(); closeErr != nil {
				log.Warn("segment writer close", zap.Error(closeErr))
			}
			return false, fmt.Errorf("write frame: %w", err)
		}
		frames++
		metrics.FramesCapturedTotal.Inc()

		// Pace to the target frame rate; never sleep a negative remainder.
		if remaining := interval - time.Since(frameStart); remaining > 0 {
			time.Sleep(remaining)
		}
	}

	r.finalize(seg, w, frames, log)
	r.sink.Submit(seg)
	return false, nil
}

func (r *Recorder) finalize(seg *entity.Segment, w port.SegmentWriter, frames int, log *zap.Logger) {
	if err := w.Close(); err != nil {
		log.Warn("segment writer close", zap.Error(err))
	}
	seg.MarkFinalized(frames)
	metrics.SegmentsRecordedTotal.Inc()
	log.Info("segment finalized",
		zap.Int("frames", frames),
		zap.Duration("elapsed", time.Since(seg.StartTime)),
	)
}
