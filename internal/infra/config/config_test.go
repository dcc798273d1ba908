package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/dev/video0", cfg.CameraDevice)
	assert.Equal(t, 5*time.Minute, cfg.SegmentDuration)
	assert.Equal(t, 20, cfg.FPS)
	assert.Equal(t, "libx264", cfg.TranscodeCodec)
	assert.Equal(t, 28, cfg.TranscodeCRF)
	assert.Equal(t, "onedrive", cfg.UploadBackend)
	assert.Empty(t, cfg.DatabaseURL, "journal is opt-in")
	assert.Empty(t, cfg.RabbitMQURL, "event publishing is opt-in")
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("CAMERA_DEVICE", "synthetic")
	t.Setenv("SEGMENT_DURATION", "30s")
	t.Setenv("FPS", "10")
	t.Setenv("UPLOAD_BACKEND", "minio")
	t.Setenv("MINIO_BUCKET", "footage")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "synthetic", cfg.CameraDevice)
	assert.Equal(t, 30*time.Second, cfg.SegmentDuration)
	assert.Equal(t, 10, cfg.FPS)
	assert.Equal(t, "minio", cfg.UploadBackend)
	assert.Equal(t, "footage", cfg.MinIOBucket)
}
