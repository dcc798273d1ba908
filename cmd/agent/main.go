package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camrec/camrec-capture-agent/internal/domain/port"
	"github.com/camrec/camrec-capture-agent/internal/infra/config"
	"github.com/camrec/camrec-capture-agent/internal/infra/email"
	"github.com/camrec/camrec-capture-agent/internal/infra/ffmpeg"
	"github.com/camrec/camrec-capture-agent/internal/infra/metrics"
	miniostore "github.com/camrec/camrec-capture-agent/internal/infra/minio"
	"github.com/camrec/camrec-capture-agent/internal/infra/onedrive"
	"github.com/camrec/camrec-capture-agent/internal/infra/postgres"
	"github.com/camrec/camrec-capture-agent/internal/infra/rabbitmq"
	"github.com/camrec/camrec-capture-agent/internal/infra/synthetic"
	"github.com/camrec/camrec-capture-agent/internal/infra/tracing"
	"github.com/camrec/camrec-capture-agent/internal/pipeline"
	"github.com/camrec/camrec-capture-agent/internal/usecase"
	"github.com/camrec/camrec-capture-agent/pkg/logger"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	fatalOnErr(err, "load config")

	log, err := logger.New(cfg.LogLevel)
	fatalOnErr(err, "init logger")
	defer log.Sync()

	log.Info("starting camrec capture agent")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Tracing (non-fatal if the collector is unavailable)
	if cfg.OTLPEndpoint != "" {
		tp, err := tracing.InitTracer(ctx, cfg.OTLPEndpoint)
		if err != nil {
			log.Warn("tracing init failed, continuing without tracing", zap.Error(err))
		} else {
			defer tp.Shutdown(context.Background())
		}
	}

	// Optional segment journal
	var journal port.SegmentJournal
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		fatalOnErr(err, "connect to postgres")
		defer pool.Close()

		if err := postgres.RunMigrations(ctx, cfg.DatabaseURL, cfg.MigrationsDir); err != nil {
			log.Warn("migration warning", zap.Error(err))
		}
		journal = postgres.NewSegmentJournal(pool)
	}

	// Optional event publisher
	var events port.EventPublisher
	if cfg.RabbitMQURL != "" {
		pub, err := rabbitmq.NewEventPublisher(cfg.RabbitMQURL, cfg.RabbitMQExchange, cfg.RabbitMQEventQueue)
		fatalOnErr(err, "create event publisher")
		defer pub.Close()
		events = pub
	}

	// Optional operator alerts
	var notifier port.FailureNotifier
	if cfg.SMTPHost != "" && cfg.AlertTo != "" {
		notifier = email.NewSMTPNotifier(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPFrom, cfg.AlertTo, log)
	}

	uploader, err := buildUploader(ctx, cfg, log)
	fatalOnErr(err, "create uploader")

	transcoder := ffmpeg.NewTranscoder(ffmpeg.TranscoderConfig{
		Codec:  cfg.TranscodeCodec,
		CRF:    cfg.TranscodeCRF,
		Preset: cfg.TranscodePreset,
	}, log)

	proc := usecase.NewProcessSegmentUseCase(
		transcoder, uploader, journal, events, notifier, ffmpeg.NewProber(), log,
	)
	coord := pipeline.NewCoordinator(proc, log)

	source, err := buildSource(cfg, log)
	fatalOnErr(err, "open frame source")
	defer source.Close()

	recorder := usecase.NewRecorder(source, ffmpeg.NewWriterOpener(cfg.RecordCodec, log), coord, usecase.RecorderConfig{
		OutputDir:       cfg.OutputDir,
		SegmentDuration: cfg.SegmentDuration,
		FPS:             cfg.FPS,
		Width:           cfg.CameraWidth,
		Height:          cfg.CameraHeight,
	}, log)

	metricsSrv := metrics.Serve(cfg.MetricsPort, log)

	// Manual stop: SIGINT/SIGTERM cancels the capture path only.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Info("received stop signal", zap.String("signal", sig.String()))
		cancel()
	}()

	if err := recorder.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("capture loop failed", zap.Error(err))
	}

	// In-flight tasks keep running; bounded wait, then let go.
	coord.Drain(cfg.DrainTimeout)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	metrics.Shutdown(shutdownCtx, metricsSrv, log)

	log.Info("camrec capture agent stopped")
}

func buildUploader(ctx context.Context, cfg *config.Config, log *zap.Logger) (port.Uploader, error) {
	switch cfg.UploadBackend {
	case "onedrive":
		return onedrive.NewUploader(onedrive.UploaderConfig{
			BaseURL:     cfg.OneDriveBaseURL,
			FolderID:    cfg.OneDriveFolderID,
			AccessToken: cfg.OneDriveAccessToken,
			ContentType: cfg.UploadContentType,
		}, log), nil
	case "minio":
		u, err := miniostore.NewUploader(miniostore.UploaderConfig{
			Endpoint:    cfg.MinIOEndpoint,
			AccessKey:   cfg.MinIOAccessKey,
			SecretKey:   cfg.MinIOSecretKey,
			UseSSL:      cfg.MinIOUseSSL,
			Bucket:      cfg.MinIOBucket,
			Prefix:      cfg.MinIOPrefix,
			ContentType: cfg.UploadContentType,
		}, log)
		if err != nil {
			return nil, err
		}
		if err := u.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return u, nil
	default:
		return nil, fmt.Errorf("unknown upload backend %q", cfg.UploadBackend)
	}
}

func buildSource(cfg *config.Config, log *zap.Logger) (port.FrameSource, error) {
	if cfg.CameraDevice == "synthetic" {
		return synthetic.NewSource(cfg.CameraWidth, cfg.CameraHeight), nil
	}
	return ffmpeg.OpenCamera(cfg.CameraDevice, cfg.CameraWidth, cfg.CameraHeight, cfg.FPS, log)
}

func fatalOnErr(err error, msg string) {
	if err != nil {
		panic(msg + ": " + err.Error())
	}
}
