// Package arcs stores polylines as flat coordinate arrays together with a
// simplification weight for every vertex, and iterates them lazily at a
// chosen retained cutoff.
package arcs

import (
	"math"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
)

// Collection is an ordered set of arcs. Arc i occupies vertices
// [ii[i], ii[i]+nn[i]) of the flat arrays.
type Collection struct {
	xx, yy []float64
	zz     []float64 // weight per vertex, +Inf on arc endpoints
	nn     []int
	ii     []int
	bb     []r2.Rect
	extent r2.Rect
	zlimit float64
}

// New builds a collection from vertex paths. weights[i] holds the weights of
// the interior vertices of paths[i] (len(paths[i])-2 values); a nil entry
// gives every interior vertex weight 0.
func New(paths [][][2]float64, weights [][]float64) (*Collection, error) {
	if weights != nil && len(weights) != len(paths) {
		return nil, errors.Errorf("arcs: %d weight slices for %d paths", len(weights), len(paths))
	}
	total := 0
	for _, p := range paths {
		total += len(p)
	}
	c := &Collection{
		xx:     make([]float64, 0, total),
		yy:     make([]float64, 0, total),
		zz:     make([]float64, 0, total),
		nn:     make([]int, len(paths)),
		ii:     make([]int, len(paths)),
		bb:     make([]r2.Rect, len(paths)),
		extent: r2.EmptyRect(),
	}
	for i, p := range paths {
		var w []float64
		if weights != nil {
			w = weights[i]
		}
		interior := max(0, len(p)-2)
		if w != nil && len(w) != interior {
			return nil, errors.Errorf("arcs: path %d has %d interior vertices but %d weights", i, interior, len(w))
		}
		c.ii[i] = len(c.xx)
		c.nn[i] = len(p)
		for j, pt := range p {
			z := math.Inf(1)
			if j > 0 && j < len(p)-1 {
				z = 0
				if w != nil {
					z = w[j-1]
				}
			}
			c.xx = append(c.xx, pt[0])
			c.yy = append(c.yy, pt[1])
			c.zz = append(c.zz, z)
		}
	}
	c.computeBounds()
	return c, nil
}

func (c *Collection) computeBounds() {
	c.extent = r2.EmptyRect()
	for i := range c.nn {
		b := r2.EmptyRect()
		for j := c.ii[i]; j < c.ii[i]+c.nn[i]; j++ {
			b = b.AddPoint(r2.Point{X: c.xx[j], Y: c.yy[j]})
		}
		c.bb[i] = b
		c.extent = c.extent.Union(b)
	}
}

// Size returns the number of arcs.
func (c *Collection) Size() int { return len(c.nn) }

// PointCount returns the number of stored vertices, ignoring the cutoff.
func (c *Collection) PointCount() int { return len(c.xx) }

// VertexCount returns the number of stored vertices of arc i.
func (c *Collection) VertexCount(i int) int { return c.nn[i] }

// Bounds returns the extent of all arcs.
func (c *Collection) Bounds() r2.Rect { return c.extent }

// ArcBounds returns the extent of arc i. Empty arcs have an empty rectangle.
func (c *Collection) ArcBounds(i int) r2.Rect { return c.bb[i] }

// RetainedInterval returns the current cutoff.
func (c *Collection) RetainedInterval() float64 { return c.zlimit }

// SetRetainedInterval sets the cutoff: interior vertices with weight < z are
// skipped by PathIter and AverageSegment.
func (c *Collection) SetRetainedInterval(z float64) { c.zlimit = z }

func (c *Collection) retained(j int) bool { return c.zz[j] >= c.zlimit }

// RemovableThresholds returns the weight of every nth interior vertex, in
// storage order.
func (c *Collection) RemovableThresholds(nth int) []float64 {
	if nth < 1 {
		nth = 1
	}
	out := make([]float64, 0, len(c.zz)/nth+1)
	k := 0
	for i := range c.nn {
		for j := c.ii[i] + 1; j < c.ii[i]+c.nn[i]-1; j++ {
			if k%nth == 0 {
				out = append(out, c.zz[j])
			}
			k++
		}
	}
	return out
}

// FilteredCopy returns an owned copy holding only the vertices with weight
// >= z, endpoints included. The copy inherits the receiver's cutoff; the
// receiver is not modified.
func (c *Collection) FilteredCopy(z float64) *Collection {
	out := &Collection{
		nn:     make([]int, len(c.nn)),
		ii:     make([]int, len(c.nn)),
		bb:     make([]r2.Rect, len(c.nn)),
		zlimit: c.zlimit,
	}
	for i := range c.nn {
		out.ii[i] = len(out.xx)
		for j := c.ii[i]; j < c.ii[i]+c.nn[i]; j++ {
			if c.zz[j] < z {
				continue
			}
			out.xx = append(out.xx, c.xx[j])
			out.yy = append(out.yy, c.yy[j])
			out.zz = append(out.zz, c.zz[j])
		}
		out.nn[i] = len(out.xx) - out.ii[i]
	}
	out.computeBounds()
	return out
}

// AverageSegment returns the mean absolute x and y extents of the segments
// between retained vertices.
func (c *Collection) AverageSegment() (dx, dy float64) {
	var sx, sy float64
	n := 0
	for i := range c.nn {
		prev := -1
		for j := c.ii[i]; j < c.ii[i]+c.nn[i]; j++ {
			if !c.retained(j) {
				continue
			}
			if prev >= 0 {
				sx += math.Abs(c.xx[j] - c.xx[prev])
				sy += math.Abs(c.yy[j] - c.yy[prev])
				n++
			}
			prev = j
		}
	}
	if n == 0 {
		return 0, 0
	}
	return sx / float64(n), sy / float64(n)
}

// PathIter returns a single-pass iterator over the retained vertices of arc i.
func (c *Collection) PathIter(i int) PathIter {
	return PathIter{
		c:     c,
		start: c.ii[i],
		next:  c.ii[i],
		end:   c.ii[i] + c.nn[i],
		z:     c.zlimit,
	}
}

// PathIter walks the retained vertices of one arc. After Next returns true,
// X and Y hold the vertex and Node reports whether it is an arc endpoint.
type PathIter struct {
	X, Y float64
	Node bool

	c                *Collection
	start, next, end int
	z                float64
}

// Next advances to the next retained vertex.
func (it *PathIter) Next() bool {
	for it.next < it.end {
		j := it.next
		it.next++
		if it.c.zz[j] >= it.z {
			it.X, it.Y = it.c.xx[j], it.c.yy[j]
			it.Node = j == it.start || j == it.end-1
			return true
		}
	}
	return false
}
