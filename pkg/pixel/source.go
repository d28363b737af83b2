package pixel

// Source yields the pixel buffer for one image on demand. The export
// pipeline pulls buffers through this interface one image at a time, so a
// lazy implementation keeps at most one decoded image resident.
type Source interface {
	Pixels() (*Buffer, error)
}

// MemorySource is a Source backed by an already-decoded buffer.
type MemorySource struct {
	buf *Buffer
}

// NewMemorySource wraps a decoded buffer.
func NewMemorySource(buf *Buffer) *MemorySource {
	return &MemorySource{buf: buf}
}

// Pixels returns the held buffer.
func (s *MemorySource) Pixels() (*Buffer, error) {
	return s.buf, nil
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func() (*Buffer, error)

// Pixels calls the function.
func (f SourceFunc) Pixels() (*Buffer, error) { return f() }
