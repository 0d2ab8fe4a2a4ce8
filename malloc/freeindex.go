package malloc

import "fmt"
import "unsafe"

// fnode free block in the index. maxsize is the largest free block
// under this node, itself included.
type fnode struct {
	off     int64
	size    int64
	maxsize int64
	black   bool
	left    *fnode
	right   *fnode
}

func (nd *fnode) refresh() *fnode {
	nd.maxsize = nd.size
	if nd.left != nil && nd.left.maxsize > nd.maxsize {
		nd.maxsize = nd.left.maxsize
	}
	if nd.right != nil && nd.right.maxsize > nd.maxsize {
		nd.maxsize = nd.right.maxsize
	}
	return nd
}

// freeindex left leaning red black tree of free blocks, ordered by
// offset, using 2-3 algorithm.
type freeindex struct {
	root  *fnode
	count int64
	bytes int64 // sum of free block sizes
}

func newfreeindex() *freeindex {
	return &freeindex{}
}

const fnodesize = int64(unsafe.Sizeof(fnode{}))

func (fi *freeindex) insert(off, size int64) {
	fi.root = fi.upsert(fi.root, off, size)
	fi.root.black = true
	fi.count++
	fi.bytes += size
}

func (fi *freeindex) upsert(nd *fnode, off, size int64) *fnode {
	if nd == nil {
		return &fnode{off: off, size: size, maxsize: size}
	}
	if off < nd.off {
		nd.left = fi.upsert(nd.left, off, size)
	} else if off > nd.off {
		nd.right = fi.upsert(nd.right, off, size)
	} else {
		panicerr("freeindex: block %v already indexed", off)
	}
	return fi.walkuprot23(nd.refresh())
}

// remove block at off, return its size.
func (fi *freeindex) remove(off int64) int64 {
	root, deleted := fi.delete(fi.root, off)
	if deleted == nil {
		panicerr("freeindex: block %v not indexed", off)
	}
	if root != nil {
		root.black = true
	}
	fi.root = root
	fi.count--
	fi.bytes -= deleted.size
	return deleted.size
}

// using 2-3 trees
func (fi *freeindex) deletemin(nd *fnode) (newnd, deleted *fnode) {
	if nd == nil {
		return nil, nil
	}
	if nd.left == nil {
		return nil, nd
	}
	if !isred(nd.left) && !isred(nd.left.left) {
		nd = fi.moveredleft(nd)
	}
	nd.left, deleted = fi.deletemin(nd.left)
	return fi.fixup(nd), deleted
}

func (fi *freeindex) delete(nd *fnode, off int64) (newnd, deleted *fnode) {
	if nd == nil {
		return nil, nil
	}

	if off < nd.off {
		if nd.left == nil { // not present
			return nd, nil
		}
		if !isred(nd.left) && !isred(nd.left.left) {
			nd = fi.moveredleft(nd)
		}
		nd.left, deleted = fi.delete(nd.left, off)

	} else {
		if isred(nd.left) {
			nd = fi.rotateright(nd)
		}
		if off == nd.off && nd.right == nil {
			return nil, nd
		}
		if nd.right != nil && !isred(nd.right) && !isred(nd.right.left) {
			nd = fi.moveredright(nd)
		}
		if off == nd.off {
			var subdeleted *fnode
			nd.right, subdeleted = fi.deletemin(nd.right)
			if subdeleted == nil {
				panic("freeindex.delete(): fatal logic, call the programmer")
			}
			// nd takes over successor's block, subdeleted carries ours.
			nd.off, subdeleted.off = subdeleted.off, nd.off
			nd.size, subdeleted.size = subdeleted.size, nd.size
			deleted = subdeleted
		} else {
			nd.right, deleted = fi.delete(nd.right, off)
		}
	}
	return fi.fixup(nd), deleted
}

// resize block at off, used when a free block absorbs its successor.
func (fi *freeindex) resize(off, size int64) {
	var oldsize int64
	var doresize func(nd *fnode) bool
	doresize = func(nd *fnode) bool {
		if nd == nil {
			return false
		}
		ok := false
		if off < nd.off {
			ok = doresize(nd.left)
		} else if off > nd.off {
			ok = doresize(nd.right)
		} else {
			oldsize, nd.size, ok = nd.size, size, true
		}
		nd.refresh()
		return ok
	}
	if !doresize(fi.root) {
		panicerr("freeindex: block %v not indexed", off)
	}
	fi.bytes += size - oldsize
}

// firstfit return the lowest addressed block of atleast size bytes,
// depth is the number of nodes visited.
func (fi *freeindex) firstfit(size int64) (off, fsize, depth int64, ok bool) {
	nd := fi.root
	if nd == nil || nd.maxsize < size {
		return 0, 0, 0, false
	}
	for nd != nil {
		depth++
		if nd.left != nil && nd.left.maxsize >= size {
			nd = nd.left
		} else if nd.size >= size {
			return nd.off, nd.size, depth, true
		} else {
			nd = nd.right
		}
	}
	panic("freeindex.firstfit(): maxsize out of sync, call the programmer")
}

// floor return the highest addressed free block at or below off.
func (fi *freeindex) floor(off int64) (foff, fsize int64, ok bool) {
	for nd := fi.root; nd != nil; {
		if nd.off == off {
			return nd.off, nd.size, true
		} else if nd.off < off {
			foff, fsize, ok = nd.off, nd.size, true
			nd = nd.right
		} else {
			nd = nd.left
		}
	}
	return foff, fsize, ok
}

// last return the highest addressed free block.
func (fi *freeindex) last() (off, size int64, ok bool) {
	nd := fi.root
	if nd == nil {
		return 0, 0, false
	}
	for nd.right != nil {
		nd = nd.right
	}
	return nd.off, nd.size, true
}

// walk free blocks in address order, until callb returns false.
func (fi *freeindex) walk(callb func(off, size int64) bool) {
	var dowalk func(nd *fnode) bool
	dowalk = func(nd *fnode) bool {
		if nd == nil {
			return true
		}
		if !dowalk(nd.left) || !callb(nd.off, nd.size) {
			return false
		}
		return dowalk(nd.right)
	}
	dowalk(fi.root)
}

func (fi *freeindex) overhead() int64 {
	return fi.count * fnodesize
}

// validate llrb rules, maxsize augmentation, ordering and counts.
func (fi *freeindex) validate() {
	if isred(fi.root) {
		panic(fmt.Errorf("freeindex: root is red"))
	}
	var count, bytes int64
	prev := int64(-1)
	var dovalidate func(nd *fnode, blacks int64) int64
	dovalidate = func(nd *fnode, blacks int64) int64 {
		if nd == nil {
			return blacks
		}
		if isred(nd) && (isred(nd.left) || isred(nd.right)) {
			panic(redafterred)
		} else if isred(nd.right) {
			panic(fmt.Errorf("freeindex: right leaning red at %v", nd.off))
		}
		if nd.black {
			blacks++
		}
		lblacks := dovalidate(nd.left, blacks)
		if nd.off <= prev {
			panicerr("freeindex: unordered %v after %v", nd.off, prev)
		}
		prev = nd.off
		count, bytes = count+1, bytes+nd.size
		rblacks := dovalidate(nd.right, blacks)
		if lblacks != rblacks {
			panic(unbalancedblacks(lblacks, rblacks))
		}
		maxsize := nd.maxsize
		if nd.refresh().maxsize != maxsize {
			panicerr("freeindex: maxsize %v at %v, expected %v", maxsize, nd.off, nd.maxsize)
		}
		return lblacks
	}
	dovalidate(fi.root, 0)
	if count != fi.count {
		panicerr("freeindex: count %v, expected %v", count, fi.count)
	} else if bytes != fi.bytes {
		panicerr("freeindex: bytes %v, expected %v", bytes, fi.bytes)
	}
}

// rotation routines for 2-3 algorithm

func (fi *freeindex) walkuprot23(nd *fnode) *fnode {
	if isred(nd.right) && !isred(nd.left) {
		nd = fi.rotateleft(nd)
	}
	if isred(nd.left) && isred(nd.left.left) {
		nd = fi.rotateright(nd)
	}
	if isred(nd.left) && isred(nd.right) {
		fi.flip(nd)
	}
	return nd
}

func (fi *freeindex) rotateleft(nd *fnode) *fnode {
	y := nd.right
	if y.black {
		panic("rotateleft(): rotating a black link ? call the programmer")
	}
	nd.right = y.left
	y.left = nd
	y.black = nd.black
	nd.black = false
	nd.refresh()
	return y.refresh()
}

func (fi *freeindex) rotateright(nd *fnode) *fnode {
	x := nd.left
	if x.black {
		panic("rotateright(): rotating a black link ? call the programmer")
	}
	nd.left = x.right
	x.right = nd
	x.black = nd.black
	nd.black = false
	nd.refresh()
	return x.refresh()
}

// REQUIRE: Left and Right children must be present
func (fi *freeindex) flip(nd *fnode) {
	nd.left.black = !nd.left.black
	nd.right.black = !nd.right.black
	nd.black = !nd.black
}

// REQUIRE: Left and Right children must be present
func (fi *freeindex) moveredleft(nd *fnode) *fnode {
	fi.flip(nd)
	if isred(nd.right.left) {
		nd.right = fi.rotateright(nd.right)
		nd = fi.rotateleft(nd)
		fi.flip(nd)
	}
	return nd
}

// REQUIRE: Left and Right children must be present
func (fi *freeindex) moveredright(nd *fnode) *fnode {
	fi.flip(nd)
	if isred(nd.left.left) {
		nd = fi.rotateright(nd)
		fi.flip(nd)
	}
	return nd
}

func (fi *freeindex) fixup(nd *fnode) *fnode {
	nd.refresh()
	if isred(nd.right) {
		nd = fi.rotateleft(nd)
	}
	if isred(nd.left) && isred(nd.left.left) {
		nd = fi.rotateright(nd)
	}
	if isred(nd.left) && isred(nd.right) {
		fi.flip(nd)
	}
	return nd
}

func isred(nd *fnode) bool {
	if nd == nil {
		return false
	}
	return !nd.black
}
