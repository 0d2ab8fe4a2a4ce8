package lib

import "testing"

import "github.com/stretchr/testify/assert"

func TestSizeclass(t *testing.T) {
	testcases := [][2]int64{
		{0, 0}, {1, 0}, {2, 1}, {3, 2}, {4, 2}, {5, 3}, {1024, 10},
		{1025, 11}, {1 << 40, 40},
	}
	for _, tcase := range testcases {
		assert.Equal(t, int(tcase[1]), Sizeclass(tcase[0]), "size %v", tcase[0])
	}
}

func TestSizeHistogram(t *testing.T) {
	h := NewSizeHistogram()
	for i := int64(1); i <= 1024; i++ {
		h.Add(i)
	}
	assert.Equal(t, int64(1024), h.Samples())
	assert.Equal(t, int64(1), h.Class(0))
	assert.Equal(t, int64(1), h.Class(1))
	assert.Equal(t, int64(512), h.Class(10))

	stats := h.Stats()
	assert.Equal(t, 11, len(stats))
	assert.Equal(t, int64(512), stats["1.0 KiB"])
	assert.Equal(t, int64(2), stats["4 B"])

	full := h.Fullstats()
	assert.Equal(t, int64(1024), full["max"])
	assert.Contains(t, full, "histogram")
}
