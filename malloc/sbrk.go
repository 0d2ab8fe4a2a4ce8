package malloc

import "fmt"

// Extender is the primitive used to extend the arena, similar to moving
// a program break. The slice returned by Extend always starts at the
// same address, only its length grows.
type Extender interface {
	// Extend the arena by n bytes, return the entire committed arena.
	Extend(n int64) ([]byte, error)

	// Capacity total bytes that can ever be committed.
	Capacity() int64

	// Release all memory back to OS.
	Release() error
}

// NewExtender create an extender by name, "mmap" or "heap", that can
// commit upto capacity bytes.
func NewExtender(name string, capacity int64) (Extender, error) {
	switch name {
	case "mmap":
		return newmmapextender(capacity)
	case "heap":
		return newheapextender(capacity), nil
	}
	return nil, fmt.Errorf("malloc: unknown extender %q", name)
}

// heapextender commits memory from a single Go slice whose capacity is
// fixed up front, so re-slicing never moves the base.
type heapextender struct {
	buf []byte
}

func newheapextender(capacity int64) *heapextender {
	return &heapextender{buf: make([]byte, 0, capacity)}
}

func (ext *heapextender) Extend(n int64) ([]byte, error) {
	if ext.buf == nil {
		return nil, ErrorReleased
	}
	length := int64(len(ext.buf))
	if n > int64(cap(ext.buf))-length {
		fmsg := "%w: extend by %v, committed %v of %v"
		return nil, fmt.Errorf(fmsg, ErrorArenaExhausted, n, length, cap(ext.buf))
	}
	ext.buf = ext.buf[:length+n]
	return ext.buf, nil
}

func (ext *heapextender) Capacity() int64 {
	return int64(cap(ext.buf))
}

func (ext *heapextender) Release() error {
	ext.buf = nil
	return nil
}
