package indicator

import "math"

// pushWindow appends v and drops the oldest element once the window is full
func pushWindow(window []float64, v float64, size int) []float64 {
	window = append(window, v)
	if len(window) > size {
		copy(window, window[1:])
		window = window[:len(window)-1]
	}
	return window
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// sampleStdDev returns the sample (n-1) standard deviation
func sampleStdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := mean(values)
	var ss float64
	for _, v := range values {
		d := v - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(values)-1))
}

// SampleStdDev is the exported form used by callers that need to verify band widths
func SampleStdDev(values []float64) float64 {
	return sampleStdDev(values)
}

// Mean returns the arithmetic mean of values
func Mean(values []float64) float64 {
	return mean(values)
}
