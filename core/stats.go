// Package core implements the detectors, the weighted score combination and
// the two-pass analysis orchestration for slopscan.
package core

import "math"

// clamp01 bounds a value to the [0, 1] signal range.
func clamp01(value float64) float64 {
	return math.Max(0.0, math.Min(1.0, value))
}

// ratio divides numerator by denominator, clamped to [0, 1]. A non-positive
// denominator yields zero rather than NaN or Inf.
func ratio(numerator, denominator float64) float64 {
	if denominator <= 0 {
		return 0.0
	}
	return clamp01(numerator / denominator)
}

// boundedScale maps value linearly from [min, max] onto [0, 1], saturating at
// both ends. A degenerate range (max <= min) saturates at min.
func boundedScale(value, min, max float64) float64 {
	if value <= min {
		return 0.0
	}
	if value >= max || max <= min {
		return 1.0
	}
	return (value - min) / (max - min)
}

// average returns the arithmetic mean, or zero for an empty slice.
func average(values []float64) float64 {
	if len(values) == 0 {
		return 0.0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// stddev returns the population standard deviation, or zero for fewer than
// two values.
func stddev(values []float64) float64 {
	if len(values) < 2 {
		return 0.0
	}
	mean := average(values)
	sumSq := 0.0
	for _, v := range values {
		d := v - mean
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(values)))
}

// similarityCoefficient computes Jaccard similarity over two token sets:
// |intersection| / |union|. An empty union yields zero.
func similarityCoefficient(a, b map[string]struct{}) float64 {
	small, large := a, b
	if len(b) < len(a) {
		small, large = b, a
	}
	intersection := 0
	for tok := range small {
		if _, ok := large[tok]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	return ratio(float64(intersection), float64(union))
}
