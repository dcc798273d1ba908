package port

// FrameSource produces raw frames from a capture device. Read blocks until
// the next frame is available and reports ok=false once the source can no
// longer deliver frames. A FrameSource is owned exclusively by the capture
// path.
type FrameSource interface {
	Read() (frame []byte, ok bool)
	Close() error
}
