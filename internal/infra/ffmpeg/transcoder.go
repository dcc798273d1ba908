// Package ffmpeg wraps the external ffmpeg/ffprobe binaries behind the
// pipeline's capture and transcoding ports.
package ffmpeg

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// TranscoderConfig is the fixed quality profile applied to every segment.
type TranscoderConfig struct {
	Codec  string // e.g. libx264
	CRF    int    // constant rate factor, higher = smaller
	Preset string // encoding speed preset, e.g. fast
}

// Transcoder re-encodes segment files by invoking ffmpeg synchronously.
type Transcoder struct {
	cfg    TranscoderConfig
	logger *zap.Logger
}

func NewTranscoder(cfg TranscoderConfig, logger *zap.Logger) *Transcoder {
	return &Transcoder{cfg: cfg, logger: logger}
}

// Transcode produces <base>_compressed<ext> next to the input file and
// returns its path. The input file is left in place; removal is the
// caller's decision.
func (t *Transcoder) Transcode(ctx context.Context, inputPath string) (string, error) {
	ext := filepath.Ext(inputPath)
	outputPath := strings.TrimSuffix(inputPath, ext) + "_compressed" + ext

	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-i", inputPath,
		"-vcodec", t.cfg.Codec,
		"-crf", fmt.Sprintf("%d", t.cfg.CRF),
		"-preset", t.cfg.Preset,
		outputPath,
		"-y",
	)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("ffmpeg error: %w, output: %s", err, string(output))
	}

	t.logger.Debug("transcode complete",
		zap.String("input", inputPath),
		zap.String("output", outputPath),
	)

	return outputPath, nil
}
