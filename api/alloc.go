package api

// Ptr handle to memory allocated by a Mallocer, it is the offset of the
// allocation within the mallocer's arena.
type Ptr int64

// Nilptr is the null handle.
const Nilptr = Ptr(0)

// Mallocer interface for custom memory management.
type Mallocer interface {
	// Alloc allocate a chunk of `n` bytes. Return Nilptr if n is zero
	// or if memory could not be obtained.
	Alloc(n int64) Ptr

	// Calloc allocate `count*size` bytes, zero filled. Return Nilptr
	// if the product is zero, overflows, or memory could not be obtained.
	Calloc(count, size int64) Ptr

	// Realloc resize chunk to `n` bytes, preserving its content.
	Realloc(ptr Ptr, n int64) Ptr

	// Free chunk, freeing Nilptr is a no-op.
	Free(ptr Ptr)

	// Bytes return `n` bytes of chunk as a slice.
	Bytes(ptr Ptr, n int64) []byte

	// Chunklen return the length of the chunk usable by application.
	Chunklen(ptr Ptr) int64

	// Info of memory accounting for this mallocer.
	Info() (capacity, heap, alloc, overhead int64)

	// Stats of allocation activity.
	Stats() map[string]interface{}

	// Release mallocer and all its resources.
	Release()
}
