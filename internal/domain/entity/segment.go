package entity

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Segment is one fixed-duration slice of continuously captured video, backed
// by a single file. It is created by the capture loop, written by exactly one
// segment writer, and handed to the pipeline coordinator once finalized.
type Segment struct {
	ID             uuid.UUID
	Name           string
	Path           string
	StartTime      time.Time
	TargetDuration time.Duration
	TargetFPS      int
	Width          int
	Height         int
	FrameCount     int
	Finalized      bool
	FinalizedAt    time.Time
}

// SegmentName returns the canonical file name for a segment started at t.
// Second granularity; callers that need strict uniqueness disambiguate.
func SegmentName(t time.Time) string {
	return fmt.Sprintf("video_%s.mp4", t.Format("2006-01-02_15-04-05"))
}

func NewSegment(dir string, start time.Time, duration time.Duration, fps, width, height int) *Segment {
	name := SegmentName(start)
	return &Segment{
		ID:             uuid.New(),
		Name:           name,
		Path:           filepath.Join(dir, name),
		StartTime:      start,
		TargetDuration: duration,
		TargetFPS:      fps,
		Width:          width,
		Height:         height,
	}
}

// Disambiguate appends a short unique suffix to the segment's name, for the
// case where the canonical second-granularity name already exists on disk.
func (s *Segment) Disambiguate() {
	ext := filepath.Ext(s.Name)
	base := strings.TrimSuffix(s.Name, ext)
	s.Name = fmt.Sprintf("%s_%s%s", base, s.ID.String()[:8], ext)
	s.Path = filepath.Join(filepath.Dir(s.Path), s.Name)
}

// MarkFinalized records that the segment's file is closed and safe for
// downstream stages to read. It is a no-op after the first call.
func (s *Segment) MarkFinalized(frameCount int) {
	if s.Finalized {
		return
	}
	s.Finalized = true
	s.FrameCount = frameCount
	s.FinalizedAt = time.Now().UTC()
}

// CompressedPath derives the transcoder output path for this segment's file.
func (s *Segment) CompressedPath() string {
	ext := filepath.Ext(s.Path)
	return strings.TrimSuffix(s.Path, ext) + "_compressed" + ext
}
