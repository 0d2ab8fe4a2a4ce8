package malloc

import "fmt"

// Maxarenasize maximum size of a memory arena. Can be used as default
// capacity for "arena.capacity".
const Maxarenasize = int64(1024 * 1024 * 1024 * 1024) // 1TB

// Chunksize default granularity for extending the arena.
const Chunksize = int64(4096)

// arena track the contiguous memory region managed by the heap. Logical
// start is always offset 0, logical end is len(mem) and only grows.
type arena struct {
	ext       Extender
	mem       []byte // committed memory, [start, end)
	chunksize int64

	n_grows   int64
	n_extends int64 // bytes
}

func newarena(ext Extender, chunksize int64) *arena {
	if chunksize <= 0 || (chunksize%Alignment) != 0 {
		panicerr("chunksize %v is not a multiple of %v", chunksize, Alignment)
	}
	return &arena{ext: ext, chunksize: chunksize}
}

func (a *arena) end() int64 {
	return int64(len(a.mem))
}

func (a *arena) capacity() int64 {
	return a.ext.Capacity()
}

// grow arena by atleast minbytes, rounded up to chunksize, return the
// offset and size of the new region. If rounding up cannot be satisfied
// but minbytes can, grow by exactly minbytes.
func (a *arena) grow(minbytes int64) (off, size int64, err error) {
	if a.ext == nil {
		return 0, 0, ErrorReleased
	}
	minbytes = align(minbytes)
	size = ((minbytes + a.chunksize - 1) / a.chunksize) * a.chunksize
	if avail := a.capacity() - a.end(); size > avail && minbytes <= avail {
		size = minbytes
	}
	mem, err := a.ext.Extend(size)
	if err != nil {
		return 0, 0, err
	}
	if int64(len(mem)) != a.end()+size {
		fmsg := "malloc: extender returned %v bytes, expected %v"
		panic(fmt.Errorf(fmsg, len(mem), a.end()+size))
	}
	off, a.mem = a.end(), mem
	a.n_grows++
	a.n_extends += size
	debugf("malloc: arena grown by %v bytes at %v\n", size, off)
	return off, size, nil
}

func (a *arena) release() error {
	if a.ext == nil {
		return nil
	}
	err := a.ext.Release()
	a.ext, a.mem = nil, nil
	return err
}
