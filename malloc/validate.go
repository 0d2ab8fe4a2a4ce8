package malloc

import "fmt"
import "math"
import "errors"

import "github.com/bnclabs/gomalloc/lib"

// height of the free index cannot exceed a certain limit. maxheight
// provide some breathing space on top of ideal height.
func maxheight(entries int64) float64 {
	if entries < 5 {
		return (3 * (math.Log2(float64(entries)) + 1)) // 3x breathing space.
	}
	return 2*math.Log2(float64(entries+1)) + 1 // 2x breathing space
}

// LLRB rule, from sedgewick's paper.
var redafterred = errors.New("consecutive red spotted")

// LLRB rule, from sedgewick's paper.
func unbalancedblacks(lblacks, rblacks int64) error {
	return fmt.Errorf("unbalancedblacks {%v,%v}", lblacks, rblacks)
}

// Validate walks every block in the arena and the free index, panics if
// any of the following is violated:
//
//   - blocks are contiguous, from arena start to arena end, without gaps
//     or overlaps.
//   - block sizes are multiples of Alignment and no less than Minblock.
//   - no two free blocks are adjacent.
//   - free index holds exactly the free blocks, and obeys llrb rules.
//   - used and free accounting agrees with the blocks.
func (h *Heap) Validate() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.validate()
}

func (h *Heap) validate() {
	mem, end := h.arena.mem, h.arena.end()

	freeblocks := make([][2]int64, 0, h.index.count)
	usedblocks, usedbytes := int64(0), int64(0)
	prevfree := false
	off := int64(0)
	for off < end {
		if off+Headersize > end {
			panicerr("validate(): truncated header at %v, end %v", off, end)
		} else if !validmagic(mem, off) {
			panicerr("validate(): bad header magic at %v", off)
		}
		size := getsize(mem, off)
		if size < Minblock || (size%Alignment) != 0 {
			panicerr("validate(): invalid size %v at %v", size, off)
		} else if off+size > end {
			panicerr("validate(): block %v+%v overflows arena %v", off, size, end)
		}
		if isfree(mem, off) {
			if prevfree {
				panicerr("validate(): adjacent free block at %v", off)
			}
			freeblocks = append(freeblocks, [2]int64{off, size})
			prevfree = true
		} else {
			usedblocks, usedbytes = usedblocks+1, usedbytes+size
			prevfree = false
		}
		off += size
	}
	if off != end {
		panicerr("validate(): blocks end at %v, arena ends at %v", off, end)
	}

	if usedblocks != h.n_usedblocks {
		panicerr("validate(): usedblocks %v, expected %v", usedblocks, h.n_usedblocks)
	} else if usedbytes != h.usedbytes {
		panicerr("validate(): usedbytes %v, expected %v", usedbytes, h.usedbytes)
	} else if usedbytes+h.index.bytes != end {
		fmsg := "validate(): used %v + free %v != arena %v"
		panicerr(fmsg, usedbytes, h.index.bytes, end)
	}

	h.index.validate()
	i := 0
	h.index.walk(func(off, size int64) bool {
		if i >= len(freeblocks) {
			panicerr("validate(): indexed block %v not free in arena", off)
		} else if freeblocks[i][0] != off || freeblocks[i][1] != size {
			fmsg := "validate(): indexed {%v,%v}, arena has {%v,%v}"
			panicerr(fmsg, off, size, freeblocks[i][0], freeblocks[i][1])
		}
		i++
		return true
	})
	if i != len(freeblocks) {
		panicerr("validate(): %v free blocks, %v indexed", len(freeblocks), i)
	}

	h_height := lib.NewhistorgramInt64(1, 256, 1)
	h.heightstats(h.index.root, 1, h_height)
	if entries := h.index.count; h_height.Samples() > 8 {
		if float64(h_height.Max()) > maxheight(entries) {
			fmsg := "validate(): max height %v exceeds log2(%v)"
			panicerr(fmsg, float64(h_height.Max()), entries)
		}
	}
}

func (h *Heap) heightstats(nd *fnode, depth int64, av *lib.HistogramInt64) {
	if nd == nil {
		return
	}
	if nd.left == nil && nd.right == nil {
		av.Add(depth)
		return
	}
	h.heightstats(nd.left, depth+1, av)
	h.heightstats(nd.right, depth+1, av)
}
