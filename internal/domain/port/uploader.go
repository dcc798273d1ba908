package port

import "context"

// Uploader transmits one file to the configured remote destination as a
// single logical payload. It returns the number of bytes sent on success; a
// non-success remote status or transport error is returned as an error
// carrying diagnostic detail.
type Uploader interface {
	Upload(ctx context.Context, path string) (bytes int64, err error)
}
