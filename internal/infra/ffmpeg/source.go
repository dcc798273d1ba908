package ffmpeg

import (
	"fmt"
	"io"
	"os/exec"
	"sync/atomic"

	"go.uber.org/zap"
)

// CameraSource reads raw BGR24 frames from a V4L2 device through an ffmpeg
// child process writing rawvideo to a pipe. One frame is width*height*3
// bytes.
type CameraSource struct {
	cmd       *exec.Cmd
	stdout    io.ReadCloser
	frameSize int
	closed    atomic.Bool
	logger    *zap.Logger
}

// OpenCamera starts the capture process for the given device (e.g.
// /dev/video0) at the requested resolution and frame rate.
func OpenCamera(device string, width, height, fps int, logger *zap.Logger) (*CameraSource, error) {
	cmd := exec.Command("ffmpeg",
		"-f", "v4l2",
		"-video_size", fmt.Sprintf("%dx%d", width, height),
		"-framerate", fmt.Sprintf("%d", fps),
		"-i", device,
		"-f", "rawvideo",
		"-pix_fmt", "bgr24",
		"pipe:1",
	)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("camera stdout pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start camera capture %s: %w", device, err)
	}

	logger.Info("camera opened",
		zap.String("device", device),
		zap.Int("width", width),
		zap.Int("height", height),
		zap.Int("fps", fps),
	)

	return &CameraSource{
		cmd:       cmd,
		stdout:    stdout,
		frameSize: width * height * 3,
		logger:    logger,
	}, nil
}

// Read blocks for the next full frame. ok is false once the capture process
// has stopped producing frames.
func (s *CameraSource) Read() ([]byte, bool) {
	if s.closed.Load() {
		return nil, false
	}

	frame := make([]byte, s.frameSize)
	if _, err := io.ReadFull(s.stdout, frame); err != nil {
		if !s.closed.Load() {
			s.logger.Error("camera frame read", zap.Error(err))
		}
		return nil, false
	}
	return frame, true
}

// Close releases the camera by terminating the capture process.
func (s *CameraSource) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	_ = s.stdout.Close()
	if s.cmd.Process != nil {
		_ = s.cmd.Process.Kill()
	}
	_ = s.cmd.Wait()
	s.logger.Info("camera released")
	return nil
}
