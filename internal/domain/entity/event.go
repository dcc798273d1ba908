package entity

import (
	"time"

	"github.com/google/uuid"
)

// SegmentEvent is the outbound lifecycle message published for fleet
// monitoring after a task reaches a terminal state.
type SegmentEvent struct {
	TaskID        uuid.UUID  `json:"task_id"`
	SegmentID     uuid.UUID  `json:"segment_id"`
	SegmentName   string     `json:"segment_name"`
	Status        TaskStatus `json:"status"`
	UploadPath    string     `json:"upload_path,omitempty"`
	FrameCount    int        `json:"frame_count,omitempty"`
	UploadedBytes int64      `json:"uploaded_bytes,omitempty"`
	MediaDuration float64    `json:"media_duration_seconds,omitempty"`
	ErrorMessage  string     `json:"error_message,omitempty"`
	Timestamp     time.Time  `json:"timestamp"`
}

// NewSegmentEvent snapshots a task into its event payload.
func NewSegmentEvent(t *ProcessingTask) SegmentEvent {
	return SegmentEvent{
		TaskID:        t.ID,
		SegmentID:     t.SegmentID,
		SegmentName:   t.SegmentName,
		Status:        t.Status,
		UploadPath:    t.UploadPath,
		FrameCount:    t.FrameCount,
		UploadedBytes: t.UploadedBytes,
		MediaDuration: t.MediaDuration,
		ErrorMessage:  t.ErrorMessage,
		Timestamp:     time.Now().UTC(),
	}
}
