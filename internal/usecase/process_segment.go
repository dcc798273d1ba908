package usecase

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/camrec/camrec-capture-agent/internal/domain/entity"
	"github.com/camrec/camrec-capture-agent/internal/domain/port"
	"github.com/camrec/camrec-capture-agent/internal/infra/metrics"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// MediaProber reports the duration of a finished media file. Optional; the
// journal and event payload carry the duration when a prober is configured.
type MediaProber interface {
	Duration(ctx context.Context, path string) (float64, error)
}

// ProcessSegmentUseCase runs one finalized segment through compression and
// upload. Every failure is handled where it occurs: a transcode failure falls
// back to uploading the original file, an upload failure ends the task after
// logging and alerting. Nothing propagates back to the capture path.
type ProcessSegmentUseCase struct {
	transcoder port.Transcoder
	uploader   port.Uploader
	journal    port.SegmentJournal
	events     port.EventPublisher
	notifier   port.FailureNotifier
	prober     MediaProber
	logger     *zap.Logger
}

func NewProcessSegmentUseCase(
	transcoder port.Transcoder,
	uploader port.Uploader,
	journal port.SegmentJournal,
	events port.EventPublisher,
	notifier port.FailureNotifier,
	prober MediaProber,
	logger *zap.Logger,
) *ProcessSegmentUseCase {
	return &ProcessSegmentUseCase{
		transcoder: transcoder,
		uploader:   uploader,
		journal:    journal,
		events:     events,
		notifier:   notifier,
		prober:     prober,
		logger:     logger,
	}
}

// Execute processes one segment to a terminal state and returns the task for
// observability. It never returns an error: the pipeline has no retry and no
// caller that could act on one.
func (uc *ProcessSegmentUseCase) Execute(ctx context.Context, seg *entity.Segment) *entity.ProcessingTask {
	tracer := otel.Tracer("usecase")
	ctx, span := tracer.Start(ctx, "ProcessSegmentUseCase.Execute")
	defer span.End()

	totalTimer := time.Now()

	task := entity.NewProcessingTask(seg)
	span.SetAttributes(
		attribute.String("task.id", task.ID.String()),
		attribute.String("segment.name", seg.Name),
	)

	log := uc.logger.With(
		zap.String("task_id", task.ID.String()),
		zap.String("segment", seg.Name),
	)

	uc.record(ctx, task, log)

	uc.compress(ctx, task, log)
	uc.upload(ctx, task, log)

	uc.update(ctx, task, log)
	uc.publishEvent(ctx, task, log)

	metrics.TasksCompletedTotal.WithLabelValues(string(task.Status)).Inc()
	metrics.StageDuration.WithLabelValues("total").Observe(time.Since(totalTimer).Seconds())

	if task.Status == entity.TaskStatusDone {
		log.Info("segment processed",
			zap.String("upload_path", task.UploadPath),
			zap.Int64("uploaded_bytes", task.UploadedBytes),
			zap.Int("frame_count", task.FrameCount),
			zap.Float64("media_duration_secs", task.MediaDuration),
		)
	}

	return task
}

func (uc *ProcessSegmentUseCase) compress(ctx context.Context, task *entity.ProcessingTask, log *zap.Logger) {
	tracer := otel.Tracer("usecase")
	ctx, span := tracer.Start(ctx, "compress_segment")
	defer span.End()

	start := time.Now()
	task.MarkCompressing()

	outputPath, err := uc.transcoder.Transcode(ctx, task.SourcePath)
	if err != nil {
		// Fallback-to-original policy: upload the uncompressed file.
		log.Error("transcode failed, uploading original",
			zap.String("path", task.SourcePath),
			zap.Error(err),
		)
		task.MarkCompressFailed(err.Error())
		metrics.CompressFailuresTotal.Inc()
		return
	}

	task.MarkCompressed(outputPath)
	metrics.StageDuration.WithLabelValues("compress").Observe(time.Since(start).Seconds())

	// The original is no longer needed once the compressed derivative exists.
	if err := os.Remove(task.SourcePath); err != nil {
		log.Warn("could not remove original segment file",
			zap.String("path", task.SourcePath),
			zap.Error(err),
		)
	}

	if uc.prober != nil {
		if d, err := uc.prober.Duration(ctx, outputPath); err == nil {
			task.MediaDuration = d
		} else {
			log.Warn("could not probe media duration", zap.Error(err))
		}
	}

	log.Info("segment compressed", zap.String("output", outputPath))
}

func (uc *ProcessSegmentUseCase) upload(ctx context.Context, task *entity.ProcessingTask, log *zap.Logger) {
	tracer := otel.Tracer("usecase")
	ctx, span := tracer.Start(ctx, "upload_segment")
	defer span.End()

	start := time.Now()
	task.MarkUploading()

	n, err := uc.uploader.Upload(ctx, task.UploadPath)
	if err != nil {
		log.Error("upload failed",
			zap.String("path", task.UploadPath),
			zap.Error(err),
		)
		task.MarkUploadFailed(err.Error())
		uc.notifyFailure(ctx, task, log)
		return
	}

	task.MarkDone(n)
	metrics.StageDuration.WithLabelValues("upload").Observe(time.Since(start).Seconds())
	metrics.UploadedBytesTotal.Add(float64(n))
}

func (uc *ProcessSegmentUseCase) record(ctx context.Context, task *entity.ProcessingTask, log *zap.Logger) {
	if uc.journal == nil {
		return
	}
	if err := uc.journal.Record(ctx, task); err != nil {
		log.Warn("journal record failed", zap.Error(err))
	}
}

func (uc *ProcessSegmentUseCase) update(ctx context.Context, task *entity.ProcessingTask, log *zap.Logger) {
	if uc.journal == nil {
		return
	}
	if err := uc.journal.Update(ctx, task); err != nil {
		log.Warn("journal update failed", zap.Error(err))
	}
}

func (uc *ProcessSegmentUseCase) publishEvent(ctx context.Context, task *entity.ProcessingTask, log *zap.Logger) {
	if uc.events == nil {
		return
	}
	data, _ := json.Marshal(entity.NewSegmentEvent(task))
	if err := uc.events.PublishSegmentEvent(ctx, data); err != nil {
		log.Warn("event publish failed", zap.Error(err))
	}
}

func (uc *ProcessSegmentUseCase) notifyFailure(ctx context.Context, task *entity.ProcessingTask, log *zap.Logger) {
	if uc.notifier == nil {
		return
	}
	if err := uc.notifier.NotifyUploadFailure(ctx, task.SegmentName, task.UploadPath, task.ErrorMessage); err != nil {
		log.Warn("failure notification not sent", zap.Error(err))
	}
}
