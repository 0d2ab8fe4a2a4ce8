package malloc

import "math/rand"
import "sort"
import "testing"

import "github.com/stretchr/testify/assert"
import "github.com/stretchr/testify/require"

// refblocks linear reference for the free index.
type refblocks map[int64]int64

func (ref refblocks) sorted() []int64 {
	offs := make([]int64, 0, len(ref))
	for off := range ref {
		offs = append(offs, off)
	}
	sort.Slice(offs, func(i, j int) bool { return offs[i] < offs[j] })
	return offs
}

func (ref refblocks) firstfit(size int64) (int64, int64, bool) {
	for _, off := range ref.sorted() {
		if ref[off] >= size {
			return off, ref[off], true
		}
	}
	return 0, 0, false
}

func TestFreeindexInsert(t *testing.T) {
	fi := newfreeindex()
	_, _, _, ok := fi.firstfit(16)
	assert.False(t, ok)
	_, _, ok = fi.last()
	assert.False(t, ok)

	for i := int64(0); i < 100; i++ {
		fi.insert(i*1024, (i+1)*16)
		fi.validate()
	}
	assert.Equal(t, int64(100), fi.count)
	assert.Equal(t, int64(16*5050), fi.bytes)
	assert.Equal(t, 100*fnodesize, fi.overhead())

	off, size, ok := fi.last()
	assert.True(t, ok)
	assert.Equal(t, int64(99*1024), off)
	assert.Equal(t, int64(1600), size)

	offs := []int64{}
	fi.walk(func(off, size int64) bool {
		offs = append(offs, off)
		return len(offs) < 10
	})
	assert.Equal(t, 10, len(offs))
	assert.True(t, sort.SliceIsSorted(offs, func(i, j int) bool { return offs[i] < offs[j] }))

	assert.Panics(t, func() { fi.insert(1024, 16) })
	assert.Panics(t, func() { fi.remove(1) })
}

func TestFreeindexFirstfit(t *testing.T) {
	fi := newfreeindex()
	fi.insert(0, 64)
	fi.insert(1000, 512)
	fi.insert(2000, 128)
	fi.insert(3000, 4096)

	testcases := [][3]int64{ // size, off, fsize
		{16, 0, 64}, {64, 0, 64}, {65, 1000, 512}, {512, 1000, 512},
		{513, 3000, 4096}, {4096, 3000, 4096},
	}
	for _, tcase := range testcases {
		off, fsize, depth, ok := fi.firstfit(tcase[0])
		require.True(t, ok)
		assert.Equal(t, tcase[1], off, "size %v", tcase[0])
		assert.Equal(t, tcase[2], fsize, "size %v", tcase[0])
		assert.LessOrEqual(t, depth, int64(4))
	}
	_, _, _, ok := fi.firstfit(4097)
	assert.False(t, ok)
}

func TestFreeindexFloor(t *testing.T) {
	fi := newfreeindex()
	for _, off := range []int64{100, 200, 300} {
		fi.insert(off, 32)
	}
	_, _, ok := fi.floor(99)
	assert.False(t, ok)
	off, _, ok := fi.floor(100)
	assert.True(t, ok)
	assert.Equal(t, int64(100), off)
	off, _, _ = fi.floor(299)
	assert.Equal(t, int64(200), off)
	off, _, _ = fi.floor(1 << 40)
	assert.Equal(t, int64(300), off)
}

func TestFreeindexResize(t *testing.T) {
	fi := newfreeindex()
	for i := int64(0); i < 32; i++ {
		fi.insert(i*10000, 32)
	}
	fi.resize(150000, 8000)
	fi.validate()
	off, fsize, _, ok := fi.firstfit(64)
	require.True(t, ok)
	assert.Equal(t, int64(150000), off)
	assert.Equal(t, int64(8000), fsize)
	assert.Equal(t, int64(31*32+8000), fi.bytes)
	assert.Panics(t, func() { fi.resize(1, 32) })
}

func TestFreeindexRandom(t *testing.T) {
	fi, ref := newfreeindex(), refblocks{}
	rnd := rand.New(rand.NewSource(100))

	for i := 0; i < 10000; i++ {
		switch op := rnd.Intn(10); {
		case op < 5 || len(ref) == 0:
			off := int64(rnd.Intn(1000000)) * Alignment
			if _, ok := ref[off]; ok {
				continue
			}
			size := int64(rnd.Intn(4096)+2) * Alignment
			fi.insert(off, size)
			ref[off] = size

		case op < 8:
			offs := ref.sorted()
			off := offs[rnd.Intn(len(offs))]
			assert.Equal(t, ref[off], fi.remove(off))
			delete(ref, off)

		default:
			offs := ref.sorted()
			off := offs[rnd.Intn(len(offs))]
			size := int64(rnd.Intn(4096)+2) * Alignment
			fi.resize(off, size)
			ref[off] = size
		}

		size := int64(rnd.Intn(8192)+1) * Alignment
		xoff, xsize, xok := ref.firstfit(size)
		off, fsize, _, ok := fi.firstfit(size)
		require.Equal(t, xok, ok, "size %v", size)
		require.Equal(t, xoff, off, "size %v", size)
		require.Equal(t, xsize, fsize, "size %v", size)

		if (i % 500) == 0 {
			fi.validate()
		}
	}
	fi.validate()
	assert.Equal(t, int64(len(ref)), fi.count)
	assert.LessOrEqual(t, fi.count, int64(10000))

	for _, off := range ref.sorted() {
		fi.remove(off)
	}
	fi.validate()
	assert.Nil(t, fi.root)
	assert.Equal(t, int64(0), fi.bytes)
}

func BenchmarkFreeindexFirstfit(b *testing.B) {
	fi := newfreeindex()
	for i := int64(0); i < 100000; i++ {
		fi.insert(i*1024, ((i%64)+2)*Alignment)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		fi.firstfit(int64((i%64)+2) * Alignment)
	}
}
