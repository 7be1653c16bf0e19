// Package raster draws a filtered geometry collection to a PNG image.
package raster

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/image/vector"

	"geofilter/internal/geom"
	"geofilter/internal/pathfilter"
)

var (
	Background = color.RGBA{R: 0x10, G: 0x12, B: 0x18, A: 0xff}
	LineColor  = color.RGBA{R: 0x5f, G: 0xd7, B: 0xff, A: 0xff}
	FillColor  = color.RGBA{R: 0x2e, G: 0x5a, B: 0x3a, A: 0xff}
	PointColor = color.RGBA{R: 0xff, G: 0xaf, B: 0x00, A: 0xff}
)

// Options controls an export.
type Options struct {
	Width, Height int
	Margin        float64 // pixels kept free on each side
	LineWidth     float64
	PointRadius   float64
}

func DefaultOptions() Options {
	return Options{Width: 1024, Height: 768, Margin: 8, LineWidth: 1, PointRadius: 2}
}

// FitTransform maps bb into a w×h image with y pointing down, preserving the
// aspect ratio and leaving margin pixels on every side.
func FitTransform(bb geom.BBox, w, h int, margin float64) pathfilter.Transform {
	dx, dy := bb.MaxX-bb.MinX, bb.MaxY-bb.MinY
	aw, ah := float64(w)-2*margin, float64(h)-2*margin
	if aw <= 0 || ah <= 0 {
		return pathfilter.Transform{}
	}
	var s float64
	switch {
	case dx <= 0 && dy <= 0:
		s = 1
	case dx <= 0:
		s = ah / dy
	case dy <= 0:
		s = aw / dx
	default:
		s = math.Min(aw/dx, ah/dy)
	}
	cx, cy := (bb.MinX+bb.MaxX)/2, (bb.MinY+bb.MaxY)/2
	return pathfilter.Transform{
		MX: s,
		MY: -s,
		BX: float64(w)/2 - s*cx,
		BY: float64(h)/2 + s*cy,
	}
}

// Result summarises one Render call.
type Result struct {
	Image *image.RGBA
	Stats pathfilter.Stats
}

// Render draws the arcs of paths, plus the point features of d, under t.
// refs must be the arc references BuildArcs returned for paths' dataset.
func Render(paths *pathfilter.Collection, refs []geom.ArcRef, d geom.Data, t pathfilter.Transform, o Options) (Result, error) {
	if o.Width <= 0 || o.Height <= 0 {
		return Result{}, errors.Errorf("raster: invalid size %dx%d", o.Width, o.Height)
	}
	img := image.NewRGBA(image.Rect(0, 0, o.Width, o.Height))
	draw.Draw(img, img.Bounds(), image.NewUniform(Background), image.Point{}, draw.Src)

	view := pathfilter.NewBounds(0, 0, float64(o.Width), float64(o.Height))
	paths.Reset().FilterPaths(view).Transform(t)

	fill := vector.NewRasterizer(o.Width, o.Height)
	stroke := vector.NewRasterizer(o.Width, o.Height)
	var filled bool
	var pts [][2]float32
	err := paths.ForEach(func(v *pathfilter.Vertices) {
		pts = pts[:0]
		for v.Next() {
			pts = append(pts, [2]float32{float32(v.X), float32(v.Y)})
		}
		if len(pts) < 2 {
			return
		}
		ref := refs[v.Arc()]
		if ref.Kind == geom.RingArc && len(pts) > 2 {
			// Holes subtract under the non-zero rule when wound opposite
			// to the shell; GeoJSON and WKT rings follow that convention.
			fill.MoveTo(pts[0][0], pts[0][1])
			for _, p := range pts[1:] {
				fill.LineTo(p[0], p[1])
			}
			fill.ClosePath()
			filled = true
		}
		strokePolyline(stroke, pts, float32(o.LineWidth))
	})
	if err != nil {
		return Result{}, errors.Wrap(err, "raster: traversing arcs")
	}
	if filled {
		fill.Draw(img, img.Bounds(), image.NewUniform(FillColor), image.Point{})
	}
	stroke.Draw(img, img.Bounds(), image.NewUniform(LineColor), image.Point{})

	if len(d.Points) > 0 && o.PointRadius > 0 {
		dots := vector.NewRasterizer(o.Width, o.Height)
		var n int
		for _, p := range d.Points {
			x, y := t.Project(p[0], p[1])
			if !view.ContainsPoint(x, y) {
				continue
			}
			square(dots, float32(x), float32(y), float32(o.PointRadius))
			n++
		}
		if n > 0 {
			dots.Draw(img, img.Bounds(), image.NewUniform(PointColor), image.Point{})
		}
	}

	st := paths.Stats()
	pathfilter.Logger().Debug("raster rendered",
		zap.Int("width", o.Width), zap.Int("height", o.Height),
		zap.Int("arcs", st.Arcs), zap.Int("vertices", st.Vertices))
	return Result{Image: img, Stats: st}, nil
}

// strokePolyline adds one quad per segment. Every quad is wound the same
// way so overlaps at joints do not cancel.
func strokePolyline(z *vector.Rasterizer, pts [][2]float32, width float32) {
	hw := width / 2
	for i := 1; i < len(pts); i++ {
		x0, y0 := pts[i-1][0], pts[i-1][1]
		x1, y1 := pts[i][0], pts[i][1]
		dx, dy := x1-x0, y1-y0
		l := float32(math.Hypot(float64(dx), float64(dy)))
		if l == 0 {
			continue
		}
		nx, ny := -dy/l*hw, dx/l*hw
		z.MoveTo(x0+nx, y0+ny)
		z.LineTo(x1+nx, y1+ny)
		z.LineTo(x1-nx, y1-ny)
		z.LineTo(x0-nx, y0-ny)
		z.ClosePath()
	}
}

func square(z *vector.Rasterizer, x, y, r float32) {
	z.MoveTo(x-r, y-r)
	z.LineTo(x+r, y-r)
	z.LineTo(x+r, y+r)
	z.LineTo(x-r, y+r)
	z.ClosePath()
}

// EncodePNG writes img to w.
func EncodePNG(w io.Writer, img image.Image) error {
	return errors.Wrap(png.Encode(w, img), "raster: encoding png")
}
