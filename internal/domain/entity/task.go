package entity

import (
	"time"

	"github.com/google/uuid"
)

type TaskStatus string

const (
	TaskStatusPending        TaskStatus = "PENDING"
	TaskStatusCompressing    TaskStatus = "COMPRESSING"
	TaskStatusCompressed     TaskStatus = "COMPRESSED"
	TaskStatusCompressFailed TaskStatus = "COMPRESS_FAILED"
	TaskStatusUploading      TaskStatus = "UPLOADING"
	TaskStatusDone           TaskStatus = "DONE"
	TaskStatusUploadFailed   TaskStatus = "UPLOAD_FAILED"
)

// ProcessingTask is the ephemeral unit of work wrapping one finalized
// segment's compress-then-upload sequence. Each task is owned solely by the
// goroutine that runs it; tasks share no mutable state with the capture loop
// or with each other.
type ProcessingTask struct {
	ID            uuid.UUID
	SegmentID     uuid.UUID
	SegmentName   string
	SourcePath    string
	UploadPath    string
	Status        TaskStatus
	FrameCount    int
	UploadedBytes int64
	MediaDuration float64
	ErrorMessage  string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	CompletedAt   *time.Time
}

func NewProcessingTask(seg *Segment) *ProcessingTask {
	now := time.Now().UTC()
	return &ProcessingTask{
		ID:          uuid.New(),
		SegmentID:   seg.ID,
		SegmentName: seg.Name,
		SourcePath:  seg.Path,
		UploadPath:  seg.Path,
		Status:      TaskStatusPending,
		FrameCount:  seg.FrameCount,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (t *ProcessingTask) MarkCompressing() {
	t.Status = TaskStatusCompressing
	t.UpdatedAt = time.Now().UTC()
}

// MarkCompressed records the transcoder's output path, which replaces the
// segment's original path for the upload stage.
func (t *ProcessingTask) MarkCompressed(outputPath string) {
	t.Status = TaskStatusCompressed
	t.UploadPath = outputPath
	t.UpdatedAt = time.Now().UTC()
}

// MarkCompressFailed keeps the original source path as the upload path:
// compression failure must never prevent upload.
func (t *ProcessingTask) MarkCompressFailed(errMsg string) {
	t.Status = TaskStatusCompressFailed
	t.UploadPath = t.SourcePath
	t.ErrorMessage = errMsg
	t.UpdatedAt = time.Now().UTC()
}

func (t *ProcessingTask) MarkUploading() {
	t.Status = TaskStatusUploading
	t.UpdatedAt = time.Now().UTC()
}

func (t *ProcessingTask) MarkDone(uploadedBytes int64) {
	now := time.Now().UTC()
	t.Status = TaskStatusDone
	t.UploadedBytes = uploadedBytes
	t.UpdatedAt = now
	t.CompletedAt = &now
}

func (t *ProcessingTask) MarkUploadFailed(errMsg string) {
	now := time.Now().UTC()
	t.Status = TaskStatusUploadFailed
	t.ErrorMessage = errMsg
	t.UpdatedAt = now
	t.CompletedAt = &now
}

// Terminal reports whether the task reached one of its end states.
func (t *ProcessingTask) Terminal() bool {
	return t.Status == TaskStatusDone || t.Status == TaskStatusUploadFailed
}
