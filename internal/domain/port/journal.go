package port

import (
	"context"

	"github.com/camrec/camrec-capture-agent/internal/domain/entity"
)

// SegmentJournal is an audit record of processing tasks. It is write-only
// from the pipeline's point of view; outcomes are never read back to resume
// work.
type SegmentJournal interface {
	Record(ctx context.Context, task *entity.ProcessingTask) error
	Update(ctx context.Context, task *entity.ProcessingTask) error
}
