package port

import "context"

// Transcoder re-encodes a finished segment file to a smaller one. It blocks
// until the external encoder finishes and returns the output path, or an
// error the caller can fall back from.
type Transcoder interface {
	Transcode(ctx context.Context, inputPath string) (outputPath string, err error)
}
