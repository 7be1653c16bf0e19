package tui

import (
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"geofilter/internal/geom"
	"geofilter/internal/pathfilter"
)

// hoverRadius is how far, in micro-pixels, hover looks for a vertex to snap to.
const hoverRadius = 8

// mapTransform maps lon/lat onto the 2x4 micro-pixel grid of a w×h cell
// canvas: the dataset extent fills the canvas at zoom 1, zoom scales about
// the centre, and the pan offset is in cells.
func (m Model) mapTransform(w, h int) (pathfilter.Transform, bool) {
	if m.data.Empty() || w <= 1 || h <= 1 {
		return pathfilter.Transform{}, false
	}
	bb := m.data.BBox
	minX, minY := bb.MinX, bb.MinY
	dx, dy := bb.MaxX-bb.MinX, bb.MaxY-bb.MinY
	// a flat extent borrows the other axis and is centred on it
	switch {
	case dx <= 0 && dy <= 0:
		dx, dy = 1, 1
		minX, minY = minX-0.5, minY-0.5
	case dx <= 0:
		dx = dy
		minX -= dx / 2
	case dy <= 0:
		dy = dx
		minY -= dy / 2
	}
	W := float64(w*2 - 1)
	H := float64(h*4 - 1)
	mx := m.zoom * W / dx
	my := -m.zoom * H / dy
	return pathfilter.Transform{
		MX: mx,
		MY: my,
		BX: W*(0.5-0.5*m.zoom) - minX*mx + float64(m.offsetX*2),
		BY: H*(0.5+0.5*m.zoom) - minY*my + float64(m.offsetY*4),
	}, true
}

// microView is the micro-pixel extent of a w×h cell canvas.
func microView(w, h int) pathfilter.Bounds {
	return pathfilter.NewBounds(0, 0, float64(w*2-1), float64(h*4-1))
}

// cellToLonLat converts a map cell coordinate back to lon/lat.
func (m Model) cellToLonLat(cx, cy, w, h int) (float64, float64, bool) {
	t, ok := m.mapTransform(w, h)
	if !ok {
		return 0, 0, false
	}
	lon, lat := t.Invert().Project(float64(cx*2), float64(cy*4))
	return lon, lat, true
}

func (m Model) arcVisible(i int) bool {
	if m.refs[i].Kind == geom.RingArc {
		return m.showPolys
	}
	return m.showLines
}

// renderAsciiMap draws the visible part of the dataset as braille and
// reports what the path filter did.
func (m Model) renderAsciiMap(w, h int) (string, pathfilter.Stats) {
	br := newBrailleBuf(w, h)
	var st pathfilter.Stats
	if t, ok := m.mapTransform(w, h); ok {
		view := microView(w, h)
		if m.showVertices {
			st = m.drawVertices(br, t, view)
		} else {
			st = m.drawArcs(br, t, view, h*4)
		}
		if m.showPoints {
			for _, p := range m.data.Points {
				x, y := t.Project(p[0], p[1])
				if view.ContainsPoint(x, y) {
					br.setPixel(micro(x), micro(y))
				}
			}
		}
	}

	lines := br.toLines()
	if m.hovering {
		cx := m.hoverMicX / 2
		cy := m.hoverMicY / 4
		if cy >= 0 && cy < len(lines) {
			r := []rune(lines[cy])
			if cx >= 0 && cx < len(r) {
				circle := lipgloss.NewStyle().Foreground(hoverFg).Render("◯")
				lines[cy] = string(r[:cx]) + circle + string(r[cx+1:])
			}
		}
	}
	return strings.Join(lines, "\n"), st
}

func (m Model) drawArcs(br *brailleBuf, t pathfilter.Transform, view pathfilter.Bounds, hMic int) pathfilter.Stats {
	m.paths.Reset().FilterPaths(view).Transform(t)
	var pts [][2]int
	err := m.paths.ForEach(func(v *pathfilter.Vertices) {
		if !m.arcVisible(v.Arc()) {
			return
		}
		pts = pts[:0]
		for v.Next() {
			pts = append(pts, [2]int{micro(v.X), micro(v.Y)})
		}
		if len(pts) == 0 {
			return
		}
		ref := m.refs[v.Arc()]
		if ref.Kind == geom.LineArc {
			for i := 1; i < len(pts); i++ {
				br.drawLineMicro(pts[i-1][0], pts[i-1][1], pts[i][0], pts[i][1])
			}
			if len(pts) == 1 {
				br.setPixel(pts[0][0], pts[0][1])
			}
			return
		}
		// holes are not subtracted from the fill
		if ref.Ring == 0 && len(pts) >= 3 {
			fillRing(br, pts, hMic)
		}
		for i := range pts {
			a, b := pts[i], pts[(i+1)%len(pts)]
			br.drawLineMicro(a[0], a[1], b[0], b[1])
		}
	})
	if err != nil {
		pathfilter.Logger().Warn("draw failed", zap.Error(err))
	}
	return m.paths.Stats()
}

// drawVertices plots every retained vertex on screen instead of the edges.
func (m Model) drawVertices(br *brailleBuf, t pathfilter.Transform, view pathfilter.Bounds) pathfilter.Stats {
	m.paths.Reset().FilterPoints(view).Transform(t)
	err := m.paths.ForEach(func(v *pathfilter.Vertices) {
		if !m.arcVisible(v.Arc()) {
			return
		}
		for v.Next() {
			br.setPixel(micro(v.X), micro(v.Y))
		}
	})
	if err != nil {
		pathfilter.Logger().Warn("draw failed", zap.Error(err))
	}
	return m.paths.Stats()
}

// fillRing fills a closed ring on the micro grid, even-odd per scanline.
func fillRing(br *brailleBuf, ring [][2]int, hMic int) {
	var xs []int
	for yMic := 0; yMic < hMic; yMic++ {
		xs = xs[:0]
		for i := range ring {
			a, b := ring[i], ring[(i+1)%len(ring)]
			if a[1] == b[1] {
				continue
			}
			y0, y1 := a[1], b[1]
			if (yMic >= y0 && yMic < y1) || (yMic >= y1 && yMic < y0) {
				t := float64(yMic-y0) / float64(y1-y0)
				xs = append(xs, int(float64(a[0])+t*float64(b[0]-a[0])))
			}
		}
		if len(xs) < 2 {
			continue
		}
		sort.Ints(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			for xMic := max(0, xs[i]); xMic <= min(xs[i+1], br.w*2-1); xMic++ {
				br.setPixel(xMic, yMic)
			}
		}
	}
}

// nearest returns the retained vertex or visible point feature closest to
// (px, py), searching only inside view. Coordinates are micro-pixels.
func (m Model) nearest(t pathfilter.Transform, view pathfilter.Bounds, px, py float64) (float64, float64, bool) {
	best := math.Inf(1)
	var bx, by float64
	consider := func(x, y float64) {
		if d := (x-px)*(x-px) + (y-py)*(y-py); d < best {
			best, bx, by = d, x, y
		}
	}
	if m.paths != nil {
		m.paths.Reset().FilterPoints(view).Transform(t)
		err := m.paths.ForEach(func(v *pathfilter.Vertices) {
			if !m.arcVisible(v.Arc()) {
				return
			}
			for v.Next() {
				consider(v.X, v.Y)
			}
		})
		if err != nil {
			return 0, 0, false
		}
	}
	if m.showPoints {
		for _, p := range m.data.Points {
			if x, y := t.Project(p[0], p[1]); view.ContainsPoint(x, y) {
				consider(x, y)
			}
		}
	}
	return bx, by, !math.IsInf(best, 1)
}

// inspectNearest finds the feature vertex closest to the viewport centre and
// returns its lon/lat.
func (m Model) inspectNearest() (lon, lat float64, ok bool) {
	s := m.layout()
	t, ok := m.mapTransform(s.mapW, s.mapH)
	if !ok {
		return 0, 0, false
	}
	view := microView(s.mapW, s.mapH)
	x, y, ok := m.nearest(t, view, float64(s.mapW), float64(s.mapH*2))
	if !ok {
		return 0, 0, false
	}
	lon, lat = t.Invert().Project(x, y)
	return lon, lat, true
}

// hoverAt snaps the hover marker to the nearest vertex around cell (cx, cy).
func (m *Model) hoverAt(cx, cy, w, h int) {
	m.hovering = true
	m.hoverMicX, m.hoverMicY = cx*2, cy*4
	m.hoverLon, m.hoverLat, m.hoverHasGeo = m.cellToLonLat(cx, cy, w, h)
	t, ok := m.mapTransform(w, h)
	if !ok {
		return
	}
	hx, hy := float64(cx*2), float64(cy*4)
	win := pathfilter.NewBounds(hx-hoverRadius, hy-hoverRadius, hx+hoverRadius, hy+hoverRadius)
	if x, y, ok := m.nearest(t, win, hx, hy); ok {
		m.hoverMicX, m.hoverMicY = micro(x), micro(y)
	}
}
