package entity

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSegmentName(t *testing.T) {
	ts := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	assert.Equal(t, "video_2025-03-14_09-26-53.mp4", SegmentName(ts))
}

func TestNewSegment(t *testing.T) {
	start := time.Now()
	seg := NewSegment("/tmp/out", start, 5*time.Minute, 20, 640, 480)

	assert.Equal(t, filepath.Join("/tmp/out", seg.Name), seg.Path)
	assert.Equal(t, 5*time.Minute, seg.TargetDuration)
	assert.Equal(t, 20, seg.TargetFPS)
	assert.False(t, seg.Finalized)
}

func TestSegmentDisambiguate(t *testing.T) {
	seg := NewSegment("/tmp/out", time.Now(), time.Minute, 20, 640, 480)
	original := seg.Name

	seg.Disambiguate()

	assert.NotEqual(t, original, seg.Name)
	assert.Contains(t, seg.Name, seg.ID.String()[:8])
	assert.Equal(t, ".mp4", filepath.Ext(seg.Name))
	assert.Equal(t, filepath.Join("/tmp/out", seg.Name), seg.Path)
}

func TestSegmentMarkFinalizedOnce(t *testing.T) {
	seg := NewSegment("/tmp/out", time.Now(), time.Minute, 20, 640, 480)

	seg.MarkFinalized(100)
	require.True(t, seg.Finalized)
	first := seg.FinalizedAt

	seg.MarkFinalized(999)
	assert.Equal(t, 100, seg.FrameCount)
	assert.Equal(t, first, seg.FinalizedAt)
}

func TestSegmentCompressedPath(t *testing.T) {
	seg := NewSegment("/data", time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC), time.Minute, 20, 640, 480)
	assert.Equal(t, filepath.Join("/data", "video_2025-01-02_03-04-05_compressed.mp4"), seg.CompressedPath())
}
