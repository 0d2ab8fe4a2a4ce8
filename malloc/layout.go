package malloc

import "encoding/binary"

import "github.com/bnclabs/gomalloc/api"

// Alignment block sizes and data offsets are always multiples of
// Alignment.
const Alignment = int64(16)

// Headersize in-band header preceding every block's data.
const Headersize = int64(16)

// Minpayload smallest data capacity for a block. Splits leaving a
// remainder smaller than Headersize+Minpayload are not done.
const Minpayload = int64(16)

// Minblock smallest block, header included.
const Minblock = Headersize + Minpayload

// header layout, little endian:
//
//	[0:8]  size | freebit, size is a multiple of Alignment.
//	[8:16] hdrmagic ^ offset-of-block.
const freebit = uint64(0x1)

const hdrmagic = uint64(0x5a17c0deb10cca11)

// Ptr offset of an allocation's data within the arena.
type Ptr = api.Ptr

// Nilptr is the null handle. Offset zero always belongs to a header.
const Nilptr = api.Nilptr

func align(n int64) int64 {
	return (n + Alignment - 1) &^ (Alignment - 1)
}

// blocksize for a payload of n bytes, header included.
func blocksize(n int64) int64 {
	if size := align(Headersize + n); size > Minblock {
		return size
	}
	return Minblock
}

func headerof(ptr Ptr) int64 {
	return int64(ptr) - Headersize
}

func dataof(off int64) Ptr {
	return Ptr(off + Headersize)
}

//---- header access, mem is the committed arena.

func getsize(mem []byte, off int64) int64 {
	return int64(binary.LittleEndian.Uint64(mem[off:]) &^ freebit)
}

func isfree(mem []byte, off int64) bool {
	return (binary.LittleEndian.Uint64(mem[off:]) & freebit) == freebit
}

func setheader(mem []byte, off, size int64, free bool) {
	word := uint64(size)
	if free {
		word |= freebit
	}
	binary.LittleEndian.PutUint64(mem[off:], word)
	binary.LittleEndian.PutUint64(mem[off+8:], hdrmagic^uint64(off))
}

// clearheader scrub a header that ceased to exist after a merge.
func clearheader(mem []byte, off int64) {
	binary.LittleEndian.PutUint64(mem[off:], 0)
	binary.LittleEndian.PutUint64(mem[off+8:], 0)
}

func validmagic(mem []byte, off int64) bool {
	return binary.LittleEndian.Uint64(mem[off+8:]) == hdrmagic^uint64(off)
}

// nextblock return the block physically following off, if any.
func nextblock(mem []byte, off int64) (int64, bool) {
	next := off + getsize(mem, off)
	if next < int64(len(mem)) {
		return next, true
	}
	return next, false
}
