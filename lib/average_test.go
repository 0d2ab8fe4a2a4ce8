package lib

import "testing"

func TestAverageInt(t *testing.T) {
	avg := &AverageInt64{}
	if x := avg.Mean(); x != 0 {
		t.Errorf("Mean() expected %v, got %v", 0, x)
	} else if x := avg.Variance(); x != 0 {
		t.Errorf("Variance() expected %v, got %v", 0, x)
	}

	for i := 1; i <= 100; i++ {
		avg.Add(int64(i))
	}

	if x, y := int64(1), avg.Min(); x != y {
		t.Errorf("Min() expected %v, got %v", x, y)
	} else if x, y := int64(100), avg.Max(); x != y {
		t.Errorf("Max() expected %v, got %v", x, y)
	} else if x, y := int64(100), avg.Samples(); x != y {
		t.Errorf("Samples() expected %v, got %v", x, y)
	} else if x, y := int64(100*101)/2, avg.Sum(); x != y {
		t.Errorf("Sum() expected %v, got %v", x, y)
	} else if x, y := int64(50), avg.Mean(); x != y {
		t.Errorf("Mean() expected %v, got %v", x, y)
	} else if x, y := 833.25, avg.Variance(); x != y {
		t.Errorf("Variance() expected %v, got %v", x, y)
	} else if x, y := 28.86607004772212, avg.SD(); x != y {
		t.Errorf("SD() expected %v, got %v", x, y)
	}

	clone := avg.Clone()
	clone.Add(1000)
	if x, y := int64(100), avg.Samples(); x != y {
		t.Errorf("Samples() expected %v, got %v", x, y)
	} else if x, y := int64(1000), clone.Max(); x != y {
		t.Errorf("Max() expected %v, got %v", x, y)
	}

	stats := avg.Fullstats()
	if x, y := int64(100), stats["samples"].(int64); x != y {
		t.Errorf("samples expected %v, got %v", x, y)
	}

	// negative samples
	avg = &AverageInt64{}
	avg.Add(-10)
	avg.Add(10)
	if x, y := int64(-10), avg.Min(); x != y {
		t.Errorf("Min() expected %v, got %v", x, y)
	} else if x, y := int64(0), avg.Mean(); x != y {
		t.Errorf("Mean() expected %v, got %v", x, y)
	}
}

func BenchmarkAvgintAdd(b *testing.B) {
	var av AverageInt64
	for i := 0; i < b.N; i++ {
		av.Add(int64(i))
	}
}

func BenchmarkAvgintSD(b *testing.B) {
	var av AverageInt64
	for i := 0; i < 1000; i++ {
		av.Add(int64(i))
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		av.SD()
	}
}
