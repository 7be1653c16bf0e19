package pathfilter

import (
	"math"

	"geofilter/internal/arcs"
)

// Mode selects how a traversal filters vertices.
type Mode int

const (
	// PathMode projects vertices and drops those that would land within
	// MinSegmentPixelSize of the previously emitted vertex.
	PathMode Mode = iota
	// PointMode additionally drops vertices outside the viewport.
	PointMode
)

func (m Mode) String() string {
	if m == PointMode {
		return "points"
	}
	return "paths"
}

// Vertices is a pull-based cursor over the pixel-space vertices of one arc.
// Call Next until it returns false; after each true result X and Y hold the
// projected vertex. A cursor is single-pass and is only valid inside the
// ForEach callback it was passed to.
type Vertices struct {
	X, Y float64
	// Node is true when the vertex is an arc endpoint.
	Node bool

	mode     Mode
	t        Transform
	minSeg   float64
	keepEnds bool
	bounds   Bounds

	raw     arcs.PathIter
	arc     int
	first   bool
	emitted int
}

func (v *Vertices) reset(arc int, raw arcs.PathIter) {
	v.raw = raw
	v.arc = arc
	v.first = true
	v.emitted = 0
	v.X, v.Y, v.Node = 0, 0, false
}

// Arc returns the index of the arc being iterated.
func (v *Vertices) Arc() int { return v.arc }

// Next advances to the next vertex that survives filtering.
func (v *Vertices) Next() bool {
	var ok bool
	switch v.mode {
	case PointMode:
		ok = v.nextPoint()
	default:
		ok = v.nextPath()
	}
	if ok {
		v.emitted++
	}
	return ok
}

// nextPath emits the first vertex unconditionally, then the next vertex
// farther than minSeg from the last emitted one on at least one axis.
func (v *Vertices) nextPath() bool {
	var x, y float64
	var node, pulled bool
	for v.raw.Next() {
		x, y = v.t.Project(v.raw.X, v.raw.Y)
		node = v.raw.Node
		pulled = true
		if v.first || math.Abs(x-v.X) > v.minSeg || math.Abs(y-v.Y) > v.minSeg {
			v.emit(x, y, node)
			return true
		}
	}
	if pulled && v.keepEnds {
		v.emit(x, y, node)
		return true
	}
	return false
}

func (v *Vertices) emit(x, y float64, node bool) {
	v.first = false
	v.X, v.Y, v.Node = x, y, node
}

// nextPoint pulls projected vertices until one falls inside the pixel bounds.
func (v *Vertices) nextPoint() bool {
	for v.nextPath() {
		if v.bounds.ContainsPoint(v.X, v.Y) {
			return true
		}
	}
	return false
}
