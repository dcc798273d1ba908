// Package synthetic provides a camera-free frame source for development and
// end-to-end tests.
package synthetic

import (
	"sync/atomic"
)

// Source generates moving test-pattern frames in BGR24 at the configured
// resolution. Read never blocks longer than frame generation; pacing is the
// capture loop's job.
type Source struct {
	width  int
	height int
	tick   atomic.Uint64
	closed atomic.Bool
}

func NewSource(width, height int) *Source {
	return &Source{width: width, height: height}
}

func (s *Source) Read() ([]byte, bool) {
	if s.closed.Load() {
		return nil, false
	}

	n := s.tick.Add(1)
	frame := make([]byte, s.width*s.height*3)
	// Horizontal gradient that drifts one column per frame, so consecutive
	// frames differ and encoders see real motion.
	for y := 0; y < s.height; y++ {
		row := y * s.width * 3
		for x := 0; x < s.width; x++ {
			v := byte((x + int(n)) % 256)
			frame[row+x*3] = v
			frame[row+x*3+1] = 255 - v
			frame[row+x*3+2] = byte(y % 256)
		}
	}
	return frame, true
}

func (s *Source) Close() error {
	s.closed.Store(true)
	return nil
}

// Frames reports how many frames have been produced.
func (s *Source) Frames() uint64 {
	return s.tick.Load()
}
