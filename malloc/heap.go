package malloc

import "fmt"
import "math"
import "math/bits"
import "sync"

import "github.com/Jille/easymutex"
import s "github.com/bnclabs/gosettings"

import "github.com/bnclabs/gomalloc/lib"

// Heap first-fit allocator over a single growable arena. All exported
// methods are thread safe.
type Heap struct {
	// 64-bit aligned stats
	n_allocs     int64
	n_callocs    int64
	n_reallocs   int64
	n_frees      int64
	n_splits     int64
	n_merges     int64
	n_failed     int64
	n_usedblocks int64
	usedbytes    int64 // including headers

	mu      sync.Mutex
	arena   *arena
	index   *freeindex
	lasterr error

	h_allocsize   *lib.SizeHistogram
	a_searchdepth lib.AverageInt64

	// settings
	checkfree bool
	setts     s.Settings
}

// NewHeap create a new heap, setts are mixed-in with Defaultsettings().
// Panics for invalid settings.
func NewHeap(setts s.Settings) *Heap {
	setts = make(s.Settings).Mixin(Defaultsettings(), setts)
	capacity := setts.Int64("arena.capacity")
	ext, err := NewExtender(setts.String("arena.extender"), capacity)
	if err != nil {
		panic(err)
	}
	return newheap(ext, setts)
}

// NewHeapExtender create a new heap that obtains memory from ext,
// "arena.capacity" and "arena.extender" settings are ignored.
func NewHeapExtender(ext Extender, setts s.Settings) *Heap {
	setts = make(s.Settings).Mixin(Defaultsettings(), setts)
	return newheap(ext, setts)
}

func newheap(ext Extender, setts s.Settings) *Heap {
	h := &Heap{
		arena:     newarena(ext, setts.Int64("arena.chunksize")),
		index:     newfreeindex(),
		checkfree: setts.Bool("debug.checkfree"),
		setts:     setts,
	}
	if setts.Bool("stats.histogram") {
		h.h_allocsize = lib.NewSizeHistogram()
	}
	infof("malloc: new heap capacity:%v chunksize:%v\n",
		ext.Capacity(), h.arena.chunksize)
	return h
}

//---- operations

// Alloc allocate n bytes, return Nilptr if n is zero or if the arena
// cannot be extended to fit n bytes.
func (h *Heap) Alloc(n int64) Ptr {
	if n <= 0 {
		return Nilptr
	}
	em := easymutex.LockMutex(&h.mu)
	defer em.Unlock()

	ptr, err := h.alloc(n)
	if err != nil {
		h.lasterr = err
		em.Unlock()
		warnf("malloc: Alloc(%v): %v\n", n, err)
		return Nilptr
	}
	h.n_allocs++
	return ptr
}

// Calloc allocate count*size bytes and zero them, return Nilptr if the
// product is zero, overflows, or if the arena cannot be extended.
func (h *Heap) Calloc(count, size int64) Ptr {
	if count == 0 || size == 0 {
		return Nilptr
	}
	em := easymutex.LockMutex(&h.mu)
	defer em.Unlock()

	hi, lo := bits.Mul64(uint64(count), uint64(size))
	if count < 0 || size < 0 || hi != 0 || lo > math.MaxInt64 {
		h.lasterr = fmt.Errorf("%w: %v * %v", ErrorOverflow, count, size)
		h.n_failed++
		em.Unlock()
		warnf("malloc: Calloc(%v, %v): overflow\n", count, size)
		return Nilptr
	}
	n := int64(lo)
	ptr, err := h.alloc(n)
	if err != nil {
		h.lasterr = err
		em.Unlock()
		warnf("malloc: Calloc(%v, %v): %v\n", count, size, err)
		return Nilptr
	}
	clear(h.arena.mem[ptr : int64(ptr)+n])
	h.n_callocs++
	return ptr
}

// Realloc resize allocation ptr to n bytes, preserving its content upto
// the smaller of the old and new sizes. Grows in place when the block
// following ptr is free and large enough. Realloc(Nilptr, n) is
// Alloc(n), Realloc(ptr, 0) is Free(ptr). On failure return Nilptr and
// leave ptr untouched.
func (h *Heap) Realloc(ptr Ptr, n int64) Ptr {
	if ptr == Nilptr {
		return h.Alloc(n)
	} else if n <= 0 {
		h.Free(ptr)
		return Nilptr
	}
	em := easymutex.LockMutex(&h.mu)
	defer em.Unlock()

	if h.checkfree {
		h.checkptr("Realloc", ptr)
	}
	newptr, err := h.realloc(ptr, n)
	if err != nil {
		h.lasterr = err
		em.Unlock()
		warnf("malloc: Realloc(%v, %v): %v\n", ptr, n, err)
		return Nilptr
	}
	h.n_reallocs++
	return newptr
}

// Free allocation ptr, Free(Nilptr) is a no-op. ptr must be a live
// allocation from this heap.
func (h *Heap) Free(ptr Ptr) {
	if ptr == Nilptr {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.checkfree {
		h.checkptr("Free", ptr)
	}
	off := headerof(ptr)
	size := getsize(h.arena.mem, off)
	h.n_usedblocks--
	h.usedbytes -= size
	h.coalesce(off, size)
	h.n_frees++
}

// Bytes return a slice over first n bytes of allocation ptr. The slice
// remains valid until ptr is freed.
func (h *Heap) Bytes(ptr Ptr, n int64) []byte {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.checkfree {
		h.checkptr("Bytes", ptr)
	}
	if capacity := getsize(h.arena.mem, headerof(ptr)) - Headersize; n > capacity {
		panicerr("malloc: Bytes(%v, %v) exceeds capacity %v", ptr, n, capacity)
	}
	till := int64(ptr) + n
	return h.arena.mem[ptr:till:till]
}

// Chunklen return the usable capacity of allocation ptr, which can be
// more than requested.
func (h *Heap) Chunklen(ptr Ptr) int64 {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.checkfree {
		h.checkptr("Chunklen", ptr)
	}
	return getsize(h.arena.mem, headerof(ptr)) - Headersize
}

// LastError return the reason for the latest failed request.
func (h *Heap) LastError() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.lasterr
}

// Release arena back to OS, all allocations become invalid and
// further allocations fail with ErrorReleased.
func (h *Heap) Release() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.arena.release(); err != nil {
		errorf("malloc: releasing arena: %v\n", err)
	}
	h.index = newfreeindex()
	h.n_usedblocks, h.usedbytes = 0, 0
}

//---- local functions, called with h.mu held.

func (h *Heap) alloc(n int64) (Ptr, error) {
	if n > Maxarenasize {
		h.n_failed++
		return Nilptr, fmt.Errorf("%w: request %v", ErrorArenaExhausted, n)
	}
	total := blocksize(n)
	if h.h_allocsize != nil {
		h.h_allocsize.Add(n)
	}

	off, size, depth, ok := h.index.firstfit(total)
	h.a_searchdepth.Add(depth)
	if ok {
		h.index.remove(off)
	} else {
		var err error
		if off, size, err = h.extend(total); err != nil {
			h.n_failed++
			return Nilptr, err
		}
	}
	size = h.trim(off, size, total)
	h.n_usedblocks++
	h.usedbytes += size
	return dataof(off), nil
}

// extend arena to get a block of atleast total bytes. A free block at the
// top of the arena is taken along, so only the shortfall is extended.
func (h *Heap) extend(total int64) (off, size int64, err error) {
	need := total
	top, topsize, ok := h.index.last()
	if ok && top+topsize == h.arena.end() {
		need = total - topsize
	} else {
		ok = false
	}
	goff, gsize, err := h.arena.grow(need)
	if err != nil {
		return 0, 0, err
	}
	if ok {
		h.index.remove(top)
		clearheader(h.arena.mem, top)
		verbosef("malloc: top block %v+%v extended by %v\n", top, topsize, gsize)
		return top, topsize + gsize, nil
	}
	return goff, gsize, nil
}

// trim mark block at off as used and split its tail into a free block,
// when the tail can stand as a block, return the final size.
func (h *Heap) trim(off, size, total int64) int64 {
	mem := h.arena.mem
	if size-total < Minblock {
		setheader(mem, off, size, false)
		return size
	}
	setheader(mem, off, total, false)
	h.coalesce(off+total, size-total)
	h.n_splits++
	tracef("malloc: split %v+%v at %v\n", off, size, total)
	return total
}

// coalesce block at off with its free neighbours, in address order, and
// add the result to free index.
func (h *Heap) coalesce(off, size int64) {
	mem := h.arena.mem
	if next := off + size; next < h.arena.end() && isfree(mem, next) {
		size += h.index.remove(next)
		clearheader(mem, next)
		h.n_merges++
	}
	if poff, psize, ok := h.index.floor(off - 1); ok && poff+psize == off {
		size += psize
		h.index.resize(poff, size)
		setheader(mem, poff, size, true)
		clearheader(mem, off)
		h.n_merges++
		return
	}
	setheader(mem, off, size, true)
	h.index.insert(off, size)
}

func (h *Heap) realloc(ptr Ptr, n int64) (Ptr, error) {
	if n > Maxarenasize {
		h.n_failed++
		return Nilptr, fmt.Errorf("%w: request %v", ErrorArenaExhausted, n)
	}
	off, total := headerof(ptr), blocksize(n)
	size := getsize(h.arena.mem, off)

	if total <= size { // shrink in place
		h.usedbytes -= size - h.trim(off, size, total)
		return ptr, nil
	}
	if next, ok := nextblock(h.arena.mem, off); ok && isfree(h.arena.mem, next) {
		if nsize := getsize(h.arena.mem, next); size+nsize >= total {
			h.index.remove(next)
			clearheader(h.arena.mem, next)
			h.usedbytes += h.trim(off, size+nsize, total) - size
			return ptr, nil
		}
	}

	newptr, err := h.alloc(n)
	if err != nil {
		return Nilptr, err
	}
	mem := h.arena.mem // alloc might have grown the arena.
	copy(mem[newptr:int64(newptr)+size-Headersize], mem[ptr:int64(ptr)+size-Headersize])
	h.n_usedblocks--
	h.usedbytes -= size
	h.coalesce(off, size)
	return newptr, nil
}

// checkptr panic with ErrorInvalidFree unless ptr refers to a used block
// inside the arena.
func (h *Heap) checkptr(op string, ptr Ptr) {
	off, mem := headerof(ptr), h.arena.mem
	if off < 0 || off+Minblock > int64(len(mem)) || (off%Alignment) != 0 {
		fmsg := "%w: %v(%v) outside arena [0, %v)"
		panic(fmt.Errorf(fmsg, ErrorInvalidFree, op, ptr, len(mem)))
	} else if !validmagic(mem, off) {
		panic(fmt.Errorf("%w: %v(%v) bad header", ErrorInvalidFree, op, ptr))
	} else if isfree(mem, off) {
		panic(fmt.Errorf("%w: %v(%v) block is free", ErrorInvalidFree, op, ptr))
	}
}
