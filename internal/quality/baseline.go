package quality

import (
	"math"
	"sort"
)

// rollingMedian returns the median of series[i-window+1 .. i], clipped
// to the start of the series. The day itself is part of its own window,
// so at least one value is always present.
func rollingMedian(series []float64, window, i int) float64 {
	lo := i - window + 1
	if lo < 0 {
		lo = 0
	}

	values := make([]float64, i-lo+1)
	copy(values, series[lo:i+1])
	sort.Float64s(values)

	n := len(values)
	if n%2 == 1 {
		return values[n/2]
	}
	return (values[n/2-1] + values[n/2]) / 2
}

// meanStd returns the population mean and standard deviation (ddof=0)
func meanStd(values []float64) (mean, std float64) {
	if len(values) == 0 {
		return 0, 0
	}

	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	var variance float64
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	variance /= float64(len(values))

	return mean, math.Sqrt(variance)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
