package pathfilter

import (
	"math"

	"github.com/golang/geo/r1"
	"github.com/golang/geo/r2"
)

// Transform maps geographic coordinates to pixels:
//
//	px = x*MX + BX
//	py = y*MY + BY
//
// MX and MY are pixels per geographic unit and must be non-zero.
type Transform struct {
	MX, MY float64
	BX, BY float64
}

// Project applies the transform to one point.
func (t Transform) Project(x, y float64) (float64, float64) {
	return x*t.MX + t.BX, y*t.MY + t.BY
}

// Invert returns the pixel-to-geographic transform.
func (t Transform) Invert() Transform {
	return Transform{
		MX: 1 / t.MX,
		MY: 1 / t.MY,
		BX: -t.BX / t.MX,
		BY: -t.BY / t.MY,
	}
}

// ZoomAbout scales the output by z while keeping pixel (cx, cy) fixed.
func (t Transform) ZoomAbout(z, cx, cy float64) Transform {
	return Transform{
		MX: t.MX * z,
		MY: t.MY * z,
		BX: cx + (t.BX-cx)*z,
		BY: cy + (t.BY-cy)*z,
	}
}

// Valid reports whether both scales are finite and non-zero and both
// offsets are finite.
func (t Transform) Valid() bool {
	for _, v := range []float64{t.MX, t.MY} {
		if v == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return !math.IsNaN(t.BX) && !math.IsNaN(t.BY) && !math.IsInf(t.BX, 0) && !math.IsInf(t.BY, 0)
}

// UnitsPerPixel returns the horizontal geographic distance covered by one pixel.
func (t Transform) UnitsPerPixel() float64 {
	return 1 / math.Abs(t.MX)
}

// Bounds is an axis-aligned rectangle, in pixel or geographic space.
type Bounds struct {
	r r2.Rect
}

// NewBounds returns the rectangle spanned by two corners given in any order.
func NewBounds(x0, y0, x1, y1 float64) Bounds {
	return Bounds{r: r2.Rect{
		X: r1.Interval{Lo: math.Min(x0, x1), Hi: math.Max(x0, x1)},
		Y: r1.Interval{Lo: math.Min(y0, y1), Hi: math.Max(y0, y1)},
	}}
}

// BoundsFromRect wraps r.
func BoundsFromRect(r r2.Rect) Bounds { return Bounds{r: r} }

// Rect returns the underlying rectangle.
func (b Bounds) Rect() r2.Rect { return b.r }

// Min returns the lower-left corner.
func (b Bounds) Min() (float64, float64) { return b.r.X.Lo, b.r.Y.Lo }

// Max returns the upper-right corner.
func (b Bounds) Max() (float64, float64) { return b.r.X.Hi, b.r.Y.Hi }

// ContainsPoint reports whether (x, y) lies in b, edges included.
func (b Bounds) ContainsPoint(x, y float64) bool {
	return b.r.ContainsPoint(r2.Point{X: x, Y: y})
}

// Contains reports whether r lies entirely inside b.
func (b Bounds) Contains(r r2.Rect) bool { return b.r.Contains(r) }

// Intersects reports whether r and b share at least one point.
func (b Bounds) Intersects(r r2.Rect) bool { return b.r.Intersects(r) }

// Transform maps both corners through t. A negative scale flips an axis; the
// result is normalised so that Lo <= Hi.
func (b Bounds) Transform(t Transform) Bounds {
	x0, y0 := t.Project(b.r.X.Lo, b.r.Y.Lo)
	x1, y1 := t.Project(b.r.X.Hi, b.r.Y.Hi)
	return NewBounds(x0, y0, x1, y1)
}
