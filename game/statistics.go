package game

import (
	"math"

	"golang.org/x/exp/slices"
)

// Mean returns the average of data, or 0 for an empty sample.
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	var sum float64
	for _, v := range data {
		sum += v
	}
	return sum / float64(len(data))
}

// Median returns the middle value of data without reordering it.
func Median(data []float64) float64 {
	count := len(data)
	if count == 0 {
		return 0
	}
	sorted := slices.Clone(data)
	slices.Sort(sorted)
	if count%2 != 0 {
		return sorted[count/2]
	}
	return (sorted[count/2-1] + sorted[count/2]) * 0.5
}

// StandardDeviation returns the population standard deviation of data.
func StandardDeviation(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	mean := Mean(data)
	var variance float64
	for _, v := range data {
		variance += (v - mean) * (v - mean)
	}
	return math.Sqrt(variance / float64(len(data)))
}

// Outliers counts the values of data beyond 1.5 interquartile ranges of the median halves.
func Outliers(data []float64) int {
	if len(data) < 4 {
		return 0
	}
	sorted := slices.Clone(data)
	slices.Sort(sorted)
	half := (len(sorted) + 1) / 2
	q1, q3 := Median(sorted[:half]), Median(sorted[len(sorted)-half:])

	iqr := q3 - q1
	low, high := q1-1.5*iqr, q3+1.5*iqr
	var n int
	for _, v := range sorted {
		if v < low || v > high {
			n++
		}
	}
	return n
}
