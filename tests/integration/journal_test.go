package integration

import (
	"context"
	"testing"
	"time"

	"github.com/camrec/camrec-capture-agent/internal/domain/entity"
	"github.com/camrec/camrec-capture-agent/internal/infra/postgres"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
)

func TestSegmentJournalRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	pgContainer, err := tcpostgres.Run(ctx,
		"postgres:15-alpine",
		tcpostgres.WithDatabase("camrec"),
		tcpostgres.WithUsername("camrec"),
		tcpostgres.WithPassword("camrec"),
		tcpostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	defer pgContainer.Terminate(ctx)

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	require.NoError(t, postgres.RunMigrations(ctx, connStr, "../../migrations"))

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	defer pool.Close()

	journal := postgres.NewSegmentJournal(pool)

	seg := entity.NewSegment("/var/lib/camrec", time.Now(), 5*time.Minute, 20, 640, 480)
	seg.MarkFinalized(6000)
	task := entity.NewProcessingTask(seg)

	require.NoError(t, journal.Record(ctx, task))

	task.MarkCompressing()
	task.MarkCompressed(seg.CompressedPath())
	task.MarkUploading()
	task.MarkDone(1 << 20)
	task.MediaDuration = 300.1
	require.NoError(t, journal.Update(ctx, task))

	got, err := journal.FindByID(ctx, task.ID.String())
	require.NoError(t, err)

	assert.Equal(t, entity.TaskStatusDone, got.Status)
	assert.Equal(t, seg.CompressedPath(), got.UploadPath)
	assert.Equal(t, int64(1<<20), got.UploadedBytes)
	assert.Equal(t, 300.1, got.MediaDuration)
	assert.Equal(t, 6000, got.FrameCount)
	require.NotNil(t, got.CompletedAt)
}
