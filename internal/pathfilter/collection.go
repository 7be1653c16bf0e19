// Package pathfilter decides, for one viewport and zoom level, which arcs,
// segments and vertices of a large polyline dataset are worth drawing, and
// projects the survivors into pixel space.
//
// A draw cycle runs, in order:
//
//	c.Update(geometry)           // only when the dataset changed
//	c.SetRetainedPct(0.4)        // only when the simplification level changed
//	c.Reset().FilterPaths(view)  // or FilterPoints
//	c.Transform(t)
//	err := c.ForEach(draw)
//
// A Collection is not safe for concurrent use.
package pathfilter

import (
	"math"

	"go.uber.org/zap"

	"geofilter/internal/arcs"
)

// Stats counts what the last ForEach did.
type Stats struct {
	Tier         Tier
	Arcs         int // arcs passed to the callback
	CulledSize   int // arcs smaller than MinPathPixelSize
	CulledBounds int // arcs outside the viewport
	Vertices     int // vertices the callback pulled
}

// Collection filters and projects the arcs of a geometry collection.
type Collection struct {
	opts       Options
	thresholds Thresholds
	tiers      tiers

	// per draw cycle
	active       *arcs.Collection
	tier         Tier
	mode         Mode
	transform    Transform
	hasTransform bool
	degenerate   bool
	pixelBounds  Bounds
	geoBounds    Bounds
	hasBounds    bool

	stats Stats
}

// New returns a Collection drawing from src.
func New(src *arcs.Collection, opts ...Option) *Collection {
	o := DefaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	c := &Collection{opts: o}
	c.Update(src)
	return c
}

// Options returns the configuration in use.
func (c *Collection) Options() Options { return c.opts }

// Update replaces the dataset. It rebuilds the threshold table and, for large
// datasets, the reduced copy, and clears the viewport state.
func (c *Collection) Update(src *arcs.Collection) {
	stride := sampleStride(src.PointCount(), c.opts.LargeDatasetPoints)
	c.thresholds = BuildThresholds(src, stride)
	c.tiers = buildTiers(src, c.thresholds, c.opts)
	c.Reset()
}

// Thresholds returns the current threshold table.
func (c *Collection) Thresholds() Thresholds { return c.thresholds }

// SetRetainedPct sets the simplification level as a fraction of removable
// vertices to keep, from 0 to 1.
func (c *Collection) SetRetainedPct(f float64) {
	c.SetRetainedInterval(c.thresholds.WeightForFraction(f))
}

// SetRetainedInterval sets the weight cutoff on the full geometry and on the
// reduced copy if there is one.
func (c *Collection) SetRetainedInterval(z float64) {
	c.tiers.setRetainedInterval(z)
}

// RetainedInterval returns the current weight cutoff.
func (c *Collection) RetainedInterval() float64 {
	return c.tiers.full.RetainedInterval()
}

// Reset clears the transform and viewport and returns to path mode on the
// full-resolution geometry.
func (c *Collection) Reset() *Collection {
	c.active = c.tiers.full
	c.tier = FullResolution
	c.mode = PathMode
	c.transform = Transform{}
	c.hasTransform = false
	c.degenerate = false
	c.pixelBounds = Bounds{}
	c.geoBounds = Bounds{}
	c.hasBounds = false
	return c
}

// FilterPaths enables arc culling against b, given in pixels.
func (c *Collection) FilterPaths(b Bounds) *Collection {
	c.pixelBounds = b
	c.hasBounds = true
	c.refreshGeoBounds()
	return c
}

// FilterPoints is FilterPaths plus dropping every vertex outside b.
func (c *Collection) FilterPoints(b Bounds) *Collection {
	c.FilterPaths(b)
	c.mode = PointMode
	return c
}

// Mode returns the filtering mode of the next traversal.
func (c *Collection) Mode() Mode { return c.mode }

// Transform binds the geographic-to-pixel mapping for the next traversal and
// selects the resolution tier for its zoom level. A transform with a zero or
// non-finite scale is accepted but makes the traversal empty.
func (c *Collection) Transform(t Transform) *Collection {
	c.transform = t
	c.hasTransform = true
	c.degenerate = !t.Valid()
	if c.degenerate {
		Logger().Warn("degenerate transform, nothing will be drawn",
			zap.Float64("mx", t.MX), zap.Float64("my", t.MY))
		return c
	}
	c.refreshGeoBounds()
	prev := c.tier
	c.active, c.tier = c.tiers.pick(t.UnitsPerPixel())
	if c.tier != prev {
		Logger().Debug("resolution tier changed",
			zap.Stringer("tier", c.tier),
			zap.Float64("unitsPerPixel", t.UnitsPerPixel()))
	}
	return c
}

func (c *Collection) refreshGeoBounds() {
	if c.hasBounds && c.hasTransform && !c.degenerate {
		c.geoBounds = c.pixelBounds.Transform(c.transform.Invert())
	}
}

// Tier returns the resolution tier the next traversal draws from.
func (c *Collection) Tier() Tier { return c.tier }

// Project maps one geographic point to pixels with the bound transform.
func (c *Collection) Project(x, y float64) (float64, float64, error) {
	if !c.hasTransform {
		return 0, 0, configErr("project: transform not set")
	}
	px, py := c.transform.Project(x, y)
	return px, py, nil
}

// GeoBounds returns the viewport in geographic units. ok is false until both
// bounds and a valid transform are set.
func (c *Collection) GeoBounds() (b Bounds, ok bool) {
	if !c.hasBounds || !c.hasTransform || c.degenerate {
		return Bounds{}, false
	}
	return c.geoBounds, true
}

// ForEach calls fn once per arc that survives culling, in index order, with
// a cursor over the arc's pixel-space vertices.
//
// It fails with ErrConfiguration when no transform is bound, or when point
// mode is selected without viewport bounds.
func (c *Collection) ForEach(fn func(*Vertices)) error {
	if !c.hasTransform {
		return configErr("forEach: transform not set; call Transform first")
	}
	if c.mode == PointMode && !c.hasBounds {
		return configErr("forEach: point filtering needs viewport bounds")
	}
	c.stats = Stats{Tier: c.tier}
	if c.degenerate {
		return nil
	}

	src := c.active
	filterOnSize := c.hasBounds
	allIn := true
	var minW, minH float64
	if filterOnSize {
		minW = c.opts.MinPathPixelSize / math.Abs(c.transform.MX)
		minH = c.opts.MinPathPixelSize / math.Abs(c.transform.MY)
		allIn = c.geoBounds.Contains(src.Bounds())
	}

	v := &Vertices{
		mode:     c.mode,
		t:        c.transform,
		minSeg:   c.opts.MinSegmentPixelSize,
		keepEnds: c.opts.KeepArcEnds,
		bounds:   c.pixelBounds,
	}
	for i, n := 0, src.Size(); i < n; i++ {
		if filterOnSize {
			b := src.ArcBounds(i)
			if b.X.Length() < minW && b.Y.Length() < minH {
				c.stats.CulledSize++
				continue
			}
		}
		if !allIn && !c.geoBounds.Intersects(src.ArcBounds(i)) {
			c.stats.CulledBounds++
			continue
		}
		v.reset(i, src.PathIter(i))
		fn(v)
		c.stats.Arcs++
		c.stats.Vertices += v.emitted
	}
	Logger().Debug("traversal done",
		zap.Stringer("tier", c.stats.Tier),
		zap.Stringer("mode", c.mode),
		zap.Int("arcs", c.stats.Arcs),
		zap.Int("culledSize", c.stats.CulledSize),
		zap.Int("culledBounds", c.stats.CulledBounds),
		zap.Int("vertices", c.stats.Vertices))
	return nil
}

// Stats returns the counters of the last ForEach.
func (c *Collection) Stats() Stats { return c.stats }
