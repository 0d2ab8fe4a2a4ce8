package lib

import "math"

// AverageInt64 compute statistical mean and variance over a stream of
// samples, without keeping the samples.
type AverageInt64 struct {
	n      int64
	minval int64
	maxval int64
	sum    int64
	sumsq  float64
}

// Add a sample.
func (av *AverageInt64) Add(sample int64) {
	if av.n == 0 || sample < av.minval {
		av.minval = sample
	}
	if av.n == 0 || sample > av.maxval {
		av.maxval = sample
	}
	av.n++
	av.sum += sample
	av.sumsq += float64(sample) * float64(sample)
}

// Min return minimum sample.
func (av *AverageInt64) Min() int64 {
	return av.minval
}

// Max return maximum sample.
func (av *AverageInt64) Max() int64 {
	return av.maxval
}

// Samples return number of samples added.
func (av *AverageInt64) Samples() int64 {
	return av.n
}

// Sum of all samples.
func (av *AverageInt64) Sum() int64 {
	return av.sum
}

// Mean of all samples.
func (av *AverageInt64) Mean() int64 {
	if av.n == 0 {
		return 0
	}
	return int64(float64(av.sum) / float64(av.n))
}

// Variance of samples around their mean.
func (av *AverageInt64) Variance() float64 {
	if av.n == 0 {
		return 0
	}
	nF, meanF := float64(av.n), float64(av.sum)/float64(av.n)
	return (av.sumsq / nF) - (meanF * meanF)
}

// SD standard deviation.
func (av *AverageInt64) SD() float64 {
	return math.Sqrt(av.Variance())
}

// Clone copies the entire instance.
func (av *AverageInt64) Clone() *AverageInt64 {
	newav := *av
	return &newav
}

// Fullstats return all figures as a map.
func (av *AverageInt64) Fullstats() map[string]interface{} {
	return map[string]interface{}{
		"samples":     av.Samples(),
		"min":         av.Min(),
		"max":         av.Max(),
		"mean":        av.Mean(),
		"variance":    av.Variance(),
		"stddeviance": av.SD(),
	}
}
