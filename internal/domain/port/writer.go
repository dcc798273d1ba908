package port

// SegmentWriter accumulates frames into a single segment file. Close
// finalizes the file; after Close returns the file is safe for downstream
// stages to read. At most one SegmentWriter is open at any instant.
type SegmentWriter interface {
	Write(frame []byte) error
	Close() error
}

// WriterOpener opens a SegmentWriter for a new segment file.
type WriterOpener interface {
	Open(path string, fps, width, height int) (SegmentWriter, error)
}
