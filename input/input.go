package input

// Buffer is a read-only view of the whole input.
type Buffer struct {
	data    []byte
	release func() error
}

// FromBytes wraps an in-memory input.
func FromBytes(b []byte) *Buffer {
	return &Buffer{data: b}
}

func (b *Buffer) Bytes() []byte {
	return b.data
}

func (b *Buffer) Len() int {
	return len(b.data)
}

// Close releases the underlying mapping or file. It is safe to call more
// than once; the bytes must not be used afterwards.
func (b *Buffer) Close() error {
	release := b.release
	b.release = nil
	b.data = nil
	if release == nil {
		return nil
	}
	return release()
}
