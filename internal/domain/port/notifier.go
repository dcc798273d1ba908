package port

import "context"

// FailureNotifier alerts an operator that a segment upload failed. The
// pipeline has no retry, so the alert is the only signal that footage did not
// reach the remote store.
type FailureNotifier interface {
	NotifyUploadFailure(ctx context.Context, segmentName, path, errorMsg string) error
}
