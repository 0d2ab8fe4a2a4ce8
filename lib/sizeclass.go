package lib

import "math/bits"

import gohumanize "github.com/dustin/go-humanize"

// SizeHistogram count byte sizes in power-of-two classes, a sample of
// n bytes falls in the smallest class that can hold it.
type SizeHistogram struct {
	AverageInt64
	classes [64]int64
}

// NewSizeHistogram return a new histogram for byte sizes.
func NewSizeHistogram() *SizeHistogram {
	return &SizeHistogram{}
}

// Sizeclass return the power-of-two exponent of the class holding n.
func Sizeclass(n int64) int {
	if n <= 1 {
		return 0
	}
	return bits.Len64(uint64(n - 1))
}

// Add a sample of n bytes.
func (h *SizeHistogram) Add(n int64) {
	h.AverageInt64.Add(n)
	h.classes[Sizeclass(n)]++
}

// Class return number of samples in class 2^k.
func (h *SizeHistogram) Class(k int) int64 {
	return h.classes[k]
}

// Stats return number of samples in each non-empty class, keyed by the
// class size in human readable form.
func (h *SizeHistogram) Stats() map[string]int64 {
	m := make(map[string]int64)
	for k, count := range h.classes {
		if count > 0 {
			m[gohumanize.IBytes(uint64(1)<<uint(k))] = count
		}
	}
	return m
}

// Fullstats includes mean,variance,stddeviance along with Stats().
func (h *SizeHistogram) Fullstats() map[string]interface{} {
	stats := h.AverageInt64.Fullstats()
	hmap := make(map[string]interface{})
	for k, v := range h.Stats() {
		hmap[k] = v
	}
	stats["histogram"] = hmap
	return stats
}
