package pathfilter

import (
	"math"
	"slices"

	"go.uber.org/zap"

	"geofilter/internal/arcs"
)

// Thresholds is the sorted table of interior-vertex weights used to turn a
// retained fraction into a weight cutoff. It is immutable once built.
type Thresholds struct {
	sorted []float64 // descending
}

// BuildThresholds collects every stride-th interior weight of src and sorts
// the sample in descending order.
func BuildThresholds(src *arcs.Collection, stride int) Thresholds {
	w := src.RemovableThresholds(stride)
	slices.Sort(w)
	slices.Reverse(w)
	Logger().Debug("threshold table built",
		zap.Int("points", src.PointCount()),
		zap.Int("stride", stride),
		zap.Int("samples", len(w)))
	return Thresholds{sorted: w}
}

// sampleStride bounds the threshold sample to about limit entries.
func sampleStride(points, limit int) int {
	if limit <= 0 || points <= limit {
		return 1
	}
	return (points + limit - 1) / limit
}

// Len returns the number of sampled weights.
func (t Thresholds) Len() int { return len(t.sorted) }

// WeightForFraction returns the cutoff that retains about fraction f of the
// removable vertices. The lookup is table[floor(f*n)] without interpolation:
// f <= 0 gives the largest weight, f >= 1 gives 0 so that every vertex is
// kept, including unsampled ones below the sampled minimum (weights are
// non-negative). The result never increases as f grows. An empty table
// yields 0.
func (t Thresholds) WeightForFraction(f float64) float64 {
	n := len(t.sorted)
	switch {
	case n == 0 || f >= 1:
		return 0
	case !(f > 0):
		return t.sorted[0]
	}
	i := int(math.Floor(f * float64(n)))
	if i >= n {
		i = n - 1
	}
	return t.sorted[i]
}
