package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SegmentsRecordedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "camrec_segments_recorded_total",
		Help: "Total number of finalized video segments",
	})

	FramesCapturedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "camrec_frames_captured_total",
		Help: "Total number of frames written across all segments",
	})

	StageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "camrec_stage_duration_seconds",
		Help:    "Duration of segment post-processing stages",
		Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
	}, []string{"stage"})

	ActiveTasks = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "camrec_active_tasks",
		Help: "Number of segment tasks currently compressing or uploading",
	})

	TasksCompletedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "camrec_tasks_completed_total",
		Help: "Total number of segment tasks completed, by terminal status",
	}, []string{"status"})

	CompressFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "camrec_compress_failures_total",
		Help: "Total number of segments uploaded uncompressed after a transcode failure",
	})

	UploadedBytesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "camrec_uploaded_bytes_total",
		Help: "Total bytes successfully uploaded to the remote store",
	})
)
