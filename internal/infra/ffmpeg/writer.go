package ffmpeg

import (
	"fmt"
	"io"
	"os/exec"

	"github.com/camrec/camrec-capture-agent/internal/domain/port"
	"go.uber.org/zap"
)

// WriterOpener opens segment writers that encode raw BGR24 frames into an
// mp4 container through an ffmpeg child process reading from stdin.
type WriterOpener struct {
	codec  string // container codec for the raw recording, e.g. mpeg4
	logger *zap.Logger
}

func NewWriterOpener(codec string, logger *zap.Logger) *WriterOpener {
	return &WriterOpener{codec: codec, logger: logger}
}

func (o *WriterOpener) Open(path string, fps, width, height int) (port.SegmentWriter, error) {
	cmd := exec.Command("ffmpeg",
		"-f", "rawvideo",
		"-pix_fmt", "bgr24",
		"-video_size", fmt.Sprintf("%dx%d", width, height),
		"-framerate", fmt.Sprintf("%d", fps),
		"-i", "pipe:0",
		"-c:v", o.codec,
		"-y",
		path,
	)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("writer stdin pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start segment encoder: %w", err)
	}

	o.logger.Debug("segment writer opened", zap.String("path", path))

	return &segmentWriter{cmd: cmd, stdin: stdin}, nil
}

type segmentWriter struct {
	cmd   *exec.Cmd
	stdin io.WriteCloser
}

func (w *segmentWriter) Write(frame []byte) error {
	if _, err := w.stdin.Write(frame); err != nil {
		return fmt.Errorf("write frame to encoder: %w", err)
	}
	return nil
}

// Close flushes the encoder by closing its input and waits for the container
// to be finalized. Only after Close returns is the file safe to read.
func (w *segmentWriter) Close() error {
	if err := w.stdin.Close(); err != nil {
		return fmt.Errorf("close encoder input: %w", err)
	}
	if err := w.cmd.Wait(); err != nil {
		return fmt.Errorf("segment encoder exit: %w", err)
	}
	return nil
}
