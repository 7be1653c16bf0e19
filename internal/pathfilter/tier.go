package pathfilter

import (
	"go.uber.org/zap"

	"geofilter/internal/arcs"
)

// Tier names the geometry a traversal draws from.
type Tier int

const (
	FullResolution Tier = iota
	ReducedCopy
)

func (t Tier) String() string {
	switch t {
	case ReducedCopy:
		return "reduced"
	default:
		return "full"
	}
}

// tiers holds the full-resolution geometry and, for large datasets, a reduced
// copy plus the units-per-pixel value above which the copy is drawn instead.
type tiers struct {
	full     *arcs.Collection
	reduced  *arcs.Collection
	switchAt float64
}

func buildTiers(full *arcs.Collection, th Thresholds, o Options) tiers {
	t := tiers{full: full}
	if full.PointCount() <= o.LargeDatasetPoints {
		return t
	}
	z := th.WeightForFraction(o.ReducedRetainedFraction)
	t.reduced = full.FilteredCopy(z)
	dx, dy := t.reduced.AverageSegment()
	// sum of mean |dx| and mean |dy|, not a true segment length
	t.switchAt = (dx + dy) * o.ReducedSwitchMultiplier
	Logger().Debug("reduced copy built",
		zap.Float64("cutoff", z),
		zap.Int("points", t.reduced.PointCount()),
		zap.Float64("switchUnitsPerPixel", t.switchAt))
	return t
}

// pick selects the geometry for a zoom level given in geographic units per
// pixel. It reads no state other than its arguments and the built tiers.
func (t tiers) pick(unitsPerPixel float64) (*arcs.Collection, Tier) {
	if t.reduced != nil && unitsPerPixel > t.switchAt {
		return t.reduced, ReducedCopy
	}
	return t.full, FullResolution
}

func (t tiers) setRetainedInterval(z float64) {
	t.full.SetRetainedInterval(z)
	if t.reduced != nil {
		t.reduced.SetRetainedInterval(z)
	}
}
