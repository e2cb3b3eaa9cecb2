package analysis

import (
	"math"
	"sort"
)

// machineEpsilon is the spacing between 1.0 and the next float64, used as a
// stand-in spread when a standard deviation is zero or undefined.
var machineEpsilon = math.Nextafter(1, 2) - 1

func mean(vals []float64) float64 {
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

// sampleVariance is the n-1 estimator; 0 when fewer than two elements.
func sampleVariance(vals []float64) float64 {
	if len(vals) < 2 {
		return 0
	}
	m := mean(vals)
	sum := 0.0
	for _, v := range vals {
		d := v - m
		sum += d * d
	}
	return sum / float64(len(vals)-1)
}

// quantile linearly interpolates at rank q*(n-1) over an already sorted
// slice. q outside [0,1] is pinned to the extremes.
func quantile(sorted []float64, q float64) float64 {
	n := len(sorted)
	switch {
	case n == 0:
		return math.NaN()
	case q <= 0:
		return sorted[0]
	case q >= 1:
		return sorted[n-1]
	}
	rank := q * float64(n-1)
	lo := int(rank)
	frac := rank - float64(lo)
	if frac == 0 {
		return sorted[lo]
	}
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}

func sortedCopy(vals []float64) []float64 {
	out := append([]float64(nil), vals...)
	sort.Float64s(out)
	return out
}

func median(vals []float64) float64 {
	return quantile(sortedCopy(vals), 0.5)
}

// medianMAD returns the median and the median absolute deviation around it.
func medianMAD(vals []float64) (float64, float64) {
	if len(vals) == 0 {
		return math.NaN(), math.NaN()
	}
	med := median(vals)
	devs := make([]float64, len(vals))
	for i, v := range vals {
		devs[i] = math.Abs(v - med)
	}
	sort.Float64s(devs)
	return med, quantile(devs, 0.5)
}

// modeOf returns the most frequent value. Ties go to the value whose count
// reached the maximum first in input order, which keeps the result
// deterministic for a fixed input.
func modeOf(vals []float64) float64 {
	counts := make(map[float64]int, len(vals))
	best := vals[0]
	bestCount := 0
	for _, v := range vals {
		counts[v]++
		if counts[v] > bestCount {
			bestCount = counts[v]
			best = v
		}
	}
	return best
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
