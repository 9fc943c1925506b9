// Package metrics aggregates per-operation results into the final
// benchmark statistics: the sorted duration set, the outcome histogram,
// and the retained error list.
package metrics

import (
	"errors"
	"math"
	"time"
)

// ErrNoSamples is returned by Quantile when the sample set is empty.
// An empty set has no rank statistic; callers must handle this
// explicitly rather than receive a sentinel duration.
var ErrNoSamples = errors.New("metrics: quantile of empty sample set")

// Quantile returns the nearest-rank quantile of an ascending-sorted
// duration set: the element at 1-based index ceil(n*q), clamped to
// [1, n]. q=0 returns the minimum element and q=1 the maximum.
//
// This is deliberately a rank statistic, not a linear interpolation:
// the returned value is always an observed duration and reproduces
// exactly on a known sample set.
func Quantile(sorted []time.Duration, q float64) (time.Duration, error) {
	n := len(sorted)
	if n == 0 {
		return 0, ErrNoSamples
	}
	rank := int(math.Ceil(float64(n) * q))
	if rank < 1 {
		rank = 1
	}
	if rank > n {
		rank = n
	}
	return sorted[rank-1], nil
}
