package malloc

import "errors"
import "testing"

import "github.com/stretchr/testify/assert"
import "github.com/stretchr/testify/require"

func TestNewarena(t *testing.T) {
	a := newarena(newheapextender(1024*1024), Chunksize)
	assert.Equal(t, int64(0), a.end())
	assert.Equal(t, int64(1024*1024), a.capacity())
	require.NoError(t, a.release())
	require.NoError(t, a.release())

	// panic cases
	assert.Panics(t, func() { newarena(newheapextender(1024), 0) })
	assert.Panics(t, func() { newarena(newheapextender(1024), 1000) })
}

func TestArenaGrow(t *testing.T) {
	capacity := int64(10*4096 - 16)
	a := newarena(newheapextender(capacity), Chunksize)
	defer a.release()

	// rounded up to chunksize.
	off, size, err := a.grow(100)
	require.NoError(t, err)
	assert.Equal(t, int64(0), off)
	assert.Equal(t, Chunksize, size)

	off, size, err = a.grow(Chunksize + 1)
	require.NoError(t, err)
	assert.Equal(t, Chunksize, off)
	assert.Equal(t, 2*Chunksize, size)
	assert.Equal(t, 3*Chunksize, a.end())

	// end of capacity, exactly minbytes.
	off, size, err = a.grow(28000)
	require.NoError(t, err)
	assert.Equal(t, 3*Chunksize, off)
	assert.Equal(t, int64(28000), size)
	assert.Equal(t, 3*Chunksize+28000, a.end())

	_, _, err = a.grow(1024)
	assert.True(t, errors.Is(err, ErrorArenaExhausted))
	assert.Equal(t, 3*Chunksize+28000, a.end())
	assert.Equal(t, int64(3), a.n_grows)
	assert.Equal(t, 3*Chunksize+28000, a.n_extends)

	require.NoError(t, a.release())
	_, _, err = a.grow(32)
	assert.True(t, errors.Is(err, ErrorReleased))
}

func TestArenaStableBase(t *testing.T) {
	a := newarena(newheapextender(1024*1024), Chunksize)
	defer a.release()

	_, _, err := a.grow(16)
	require.NoError(t, err)
	base := &a.mem[0]
	a.mem[0] = 0xab
	for i := 0; i < 100; i++ {
		_, _, err := a.grow(Chunksize)
		require.NoError(t, err)
		require.True(t, base == &a.mem[0])
	}
	assert.Equal(t, byte(0xab), a.mem[0])
}

func TestHeapExtender(t *testing.T) {
	ext, err := NewExtender("heap", 8192)
	require.NoError(t, err)
	assert.Equal(t, int64(8192), ext.Capacity())

	mem, err := ext.Extend(4096)
	require.NoError(t, err)
	assert.Equal(t, 4096, len(mem))
	mem, err = ext.Extend(4096)
	require.NoError(t, err)
	assert.Equal(t, 8192, len(mem))
	_, err = ext.Extend(1)
	assert.True(t, errors.Is(err, ErrorArenaExhausted))

	require.NoError(t, ext.Release())
	_, err = ext.Extend(1)
	assert.True(t, errors.Is(err, ErrorReleased))

	_, err = NewExtender("brk", 8192)
	assert.Error(t, err)
}
