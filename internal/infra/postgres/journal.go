package postgres

import (
	"context"
	"fmt"

	"github.com/camrec/camrec-capture-agent/internal/domain/entity"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SegmentJournal persists one row per processing task. Audit only; the
// pipeline never reads outcomes back.
type SegmentJournal struct {
	pool *pgxpool.Pool
}

func NewSegmentJournal(pool *pgxpool.Pool) *SegmentJournal {
	return &SegmentJournal{pool: pool}
}

func (j *SegmentJournal) Record(ctx context.Context, task *entity.ProcessingTask) error {
	query := `
		INSERT INTO segment_tasks (
			id, segment_id, segment_name, source_path, upload_path, status,
			frame_count, uploaded_bytes, media_duration, error_message,
			created_at, updated_at, completed_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`

	_, err := j.pool.Exec(ctx, query,
		task.ID, task.SegmentID, task.SegmentName, task.SourcePath,
		task.UploadPath, string(task.Status), task.FrameCount,
		task.UploadedBytes, task.MediaDuration, task.ErrorMessage,
		task.CreatedAt, task.UpdatedAt, task.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("insert segment task: %w", err)
	}
	return nil
}

func (j *SegmentJournal) Update(ctx context.Context, task *entity.ProcessingTask) error {
	query := `
		UPDATE segment_tasks SET
			upload_path=$2, status=$3, uploaded_bytes=$4, media_duration=$5,
			error_message=$6, updated_at=$7, completed_at=$8
		WHERE id=$1`

	_, err := j.pool.Exec(ctx, query,
		task.ID, task.UploadPath, string(task.Status), task.UploadedBytes,
		task.MediaDuration, task.ErrorMessage, task.UpdatedAt, task.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("update segment task: %w", err)
	}
	return nil
}

// FindByID is used by the integration tests to verify journal rows.
func (j *SegmentJournal) FindByID(ctx context.Context, id string) (*entity.ProcessingTask, error) {
	query := `
		SELECT id, segment_id, segment_name, source_path, upload_path, status,
			frame_count, uploaded_bytes, media_duration, error_message,
			created_at, updated_at, completed_at
		FROM segment_tasks WHERE id=$1`

	task := &entity.ProcessingTask{}
	var status string
	err := j.pool.QueryRow(ctx, query, id).Scan(
		&task.ID, &task.SegmentID, &task.SegmentName, &task.SourcePath,
		&task.UploadPath, &status, &task.FrameCount, &task.UploadedBytes,
		&task.MediaDuration, &task.ErrorMessage,
		&task.CreatedAt, &task.UpdatedAt, &task.CompletedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("find segment task: %w", err)
	}
	task.Status = entity.TaskStatus(status)
	return task, nil
}
