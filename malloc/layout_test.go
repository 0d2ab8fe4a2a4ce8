package malloc

import "testing"

import "github.com/stretchr/testify/assert"
import "github.com/stretchr/testify/require"

func TestBlocksize(t *testing.T) {
	testcases := [][2]int64{
		{1, Minblock}, {16, Minblock}, {17, 48}, {32, 48},
		{33, 64}, {100, 128}, {4096, 4112},
	}
	for _, tcase := range testcases {
		assert.Equal(t, tcase[1], blocksize(tcase[0]), "payload %v", tcase[0])
		assert.Zero(t, blocksize(tcase[0])%Alignment)
	}
	assert.Equal(t, int64(0), align(0))
	assert.Equal(t, int64(16), align(1))
	assert.Equal(t, int64(32), align(32))
}

func TestHeaderArithmetic(t *testing.T) {
	assert.Equal(t, Ptr(Headersize), dataof(0))
	assert.Equal(t, int64(0), headerof(dataof(0)))
	assert.Equal(t, int64(4096), headerof(dataof(4096)))
	assert.NotEqual(t, Nilptr, dataof(0))
}

func TestHeader(t *testing.T) {
	mem := make([]byte, 256)

	setheader(mem, 0, 64, false)
	setheader(mem, 64, 192, true)
	require.Equal(t, int64(64), getsize(mem, 0))
	require.False(t, isfree(mem, 0))
	require.Equal(t, int64(192), getsize(mem, 64))
	require.True(t, isfree(mem, 64))
	require.True(t, validmagic(mem, 0))
	require.True(t, validmagic(mem, 64))
	require.False(t, validmagic(mem, 32))

	next, ok := nextblock(mem, 0)
	require.True(t, ok)
	require.Equal(t, int64(64), next)
	_, ok = nextblock(mem, 64)
	require.False(t, ok)

	clearheader(mem, 64)
	require.False(t, validmagic(mem, 64))
	require.Equal(t, int64(0), getsize(mem, 64))
}
