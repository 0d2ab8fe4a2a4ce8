// Package malloc supplies a general purpose heap allocator over a
// single growable arena, with a limited scope:
//
//   - Memory is obtained from OS one coarse extension at a time, using
//     an Extender. The arena's base address never moves; it only grows
//     at its end, like a program break.
//   - Once memory is obtained from OS it is not given back until the
//     entire heap is Released.
//   - Every block carries a 16-byte in-band header, placed right before
//     the memory handed out to application. Allocated memory is always
//     16-byte aligned relative to the arena.
//   - Free blocks are indexed by their offset in a left-leaning
//     red-black tree, augmented with the largest free size under each
//     node, so that first-fit search, in address order, is logarithmic.
//   - Adjacent free blocks are always coalesced when a block is freed.
//   - Exported methods on Heap are thread safe, serialized on a single
//     heap-wide mutex.
//
// Allocations are identified by Ptr, an offset into the arena. Nilptr is
// the null handle, returned for zero sized requests and failures. Use
// Bytes() to access the memory behind a Ptr.
package malloc
