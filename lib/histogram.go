package lib

import "strconv"

// HistogramInt64 statistical histogram with fixed width buckets over
// [from, till). Samples below from and at or beyond till are counted in
// two extra buckets.
type HistogramInt64 struct {
	AverageInt64
	histogram []int64
	from      int64
	till      int64
	width     int64
}

// NewhistorgramInt64 return a new histogram object.
func NewhistorgramInt64(from, till, width int64) *HistogramInt64 {
	from = (from / width) * width
	till = (till / width) * width
	h := &HistogramInt64{from: from, till: till, width: width}
	h.histogram = make([]int64, 1+((till-from)/width)+1)
	return h
}

// Add a sample to this histogram.
func (h *HistogramInt64) Add(sample int64) {
	h.AverageInt64.Add(sample)
	switch {
	case sample < h.from:
		h.histogram[0]++
	case sample >= h.till:
		h.histogram[len(h.histogram)-1]++
	default:
		h.histogram[((sample-h.from)/h.width)+1]++
	}
}

// Clone copies the entire instance.
func (h *HistogramInt64) Clone() *HistogramInt64 {
	newh := *h
	newh.histogram = make([]int64, len(h.histogram))
	copy(newh.histogram, h.histogram)
	return &newh
}

// Stats return number of samples in each non-empty bucket, keyed by the
// bucket's exclusive upper bound. Samples at or beyond till are keyed
// as "+".
func (h *HistogramInt64) Stats() map[string]int64 {
	m, last := make(map[string]int64), len(h.histogram)-1
	for i, count := range h.histogram {
		if count == 0 {
			continue
		} else if i == last {
			m["+"] = count
			continue
		}
		m[strconv.FormatInt(h.from+(int64(i)*h.width), 10)] = count
	}
	return m
}

// Fullstats includes mean,variance,stddeviance along with Stats().
func (h *HistogramInt64) Fullstats() map[string]interface{} {
	stats := h.AverageInt64.Fullstats()
	hmap := make(map[string]interface{})
	for k, v := range h.Stats() {
		hmap[k] = v
	}
	stats["histogram"] = hmap
	return stats
}
