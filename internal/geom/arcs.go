package geom

import (
	"math"

	"geofilter/internal/arcs"
)

// ArcKind tells whether an arc came from a line string or a polygon ring.
type ArcKind int

const (
	LineArc ArcKind = iota
	RingArc
)

// ArcRef points an arc back at the geometry it was built from: Lines[Index]
// for LineArc, Polygons[Index][Ring] for RingArc.
type ArcRef struct {
	Kind  ArcKind
	Index int
	Ring  int
}

// BuildArcs turns the line and polygon layers into an arc collection, lines
// first, with AreaWeights for every arc. Point features are not included.
func BuildArcs(d Data) (*arcs.Collection, []ArcRef, error) {
	var paths [][][2]float64
	var refs []ArcRef
	for i, ls := range d.Lines {
		paths = append(paths, ls)
		refs = append(refs, ArcRef{Kind: LineArc, Index: i})
	}
	for i, poly := range d.Polygons {
		for r, ring := range poly {
			paths = append(paths, ring)
			refs = append(refs, ArcRef{Kind: RingArc, Index: i, Ring: r})
		}
	}
	weights := make([][]float64, len(paths))
	for i, p := range paths {
		weights[i] = AreaWeights(p)
	}
	c, err := arcs.New(paths, weights)
	if err != nil {
		return nil, nil, err
	}
	return c, refs, nil
}

// AreaWeights gives each interior vertex the area of the triangle it forms
// with its two neighbours. Vertices on a straight run get 0 and are the first
// to go. This is a single pass; weights are not recomputed as neighbours are
// removed.
func AreaWeights(p [][2]float64) []float64 {
	if len(p) < 3 {
		return nil
	}
	w := make([]float64, len(p)-2)
	for i := 1; i < len(p)-1; i++ {
		a, b, c := p[i-1], p[i], p[i+1]
		w[i-1] = math.Abs((b[0]-a[0])*(c[1]-a[1])-(c[0]-a[0])*(b[1]-a[1])) / 2
	}
	return w
}
