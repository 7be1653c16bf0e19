package pathfilter

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTransformRoundTrip(t *testing.T) {
	tests := []Transform{
		{MX: 1, MY: 1},
		{MX: 0.001, MY: 0.001, BX: 12, BY: -7},
		{MX: 37.5, MY: -37.5, BX: 400, BY: 300},
		{MX: 1e6, MY: 3e-4, BX: -1e3, BY: 1e-3},
	}
	for _, tr := range tests {
		inv := tr.Invert()
		for _, p := range [][2]float64{{0, 0}, {1, -1}, {123.456, 78.9}, {-180, 90}} {
			px, py := tr.Project(p[0], p[1])
			x, y := inv.Project(px, py)
			require.InDelta(t, p[0], x, 1e-9*math.Max(1, math.Abs(p[0])))
			require.InDelta(t, p[1], y, 1e-9*math.Max(1, math.Abs(p[1])))
		}
	}
}

func TestTransformValid(t *testing.T) {
	require.True(t, Transform{MX: 1, MY: -1}.Valid())
	require.False(t, Transform{MX: 0, MY: 1}.Valid())
	require.False(t, Transform{MX: 1, MY: 0}.Valid())
	require.False(t, Transform{MX: math.NaN(), MY: 1}.Valid())
	require.False(t, Transform{MX: math.Inf(1), MY: 1}.Valid())
	require.False(t, Transform{MX: 1, MY: 1, BX: math.NaN()}.Valid())
}

func TestUnitsPerPixel(t *testing.T) {
	require.InDelta(t, 1000, Transform{MX: 0.001, MY: 0.001}.UnitsPerPixel(), 1e-9)
	require.InDelta(t, 2, Transform{MX: -0.5, MY: 1}.UnitsPerPixel(), 1e-12)
}

func TestBoundsTransformNormalises(t *testing.T) {
	// y axis flipped, as on screen.
	tr := Transform{MX: 2, MY: -2, BX: 10, BY: 200}
	b := NewBounds(0, 0, 100, 100).Transform(tr.Invert())
	x0, y0 := b.Min()
	x1, y1 := b.Max()
	require.InDelta(t, -5, x0, 1e-12)
	require.InDelta(t, 50, y0, 1e-12)
	require.InDelta(t, 45, x1, 1e-12)
	require.InDelta(t, 100, y1, 1e-12)
}

func TestBoundsContainment(t *testing.T) {
	b := NewBounds(100, 100, 0, 0)
	require.True(t, b.ContainsPoint(50, 50))
	require.True(t, b.ContainsPoint(100, 0))
	require.False(t, b.ContainsPoint(150, 150))
	require.True(t, b.Contains(NewBounds(10, 10, 20, 20).Rect()))
	require.False(t, b.Contains(NewBounds(10, 10, 200, 20).Rect()))
	require.True(t, b.Intersects(NewBounds(90, 90, 200, 200).Rect()))
	require.False(t, b.Intersects(NewBounds(101, 101, 200, 200).Rect()))
}

func TestZoomAbout(t *testing.T) {
	tr := Transform{MX: 2, MY: -2, BX: 10, BY: 200}
	z := tr.ZoomAbout(4, 50, 50)
	// the pixel under the centre stays put
	gx, gy := tr.Invert().Project(50, 50)
	x, y := z.Project(gx, gy)
	require.InDelta(t, 50, x, 1e-9)
	require.InDelta(t, 50, y, 1e-9)
	require.InDelta(t, tr.UnitsPerPixel()/4, z.UnitsPerPixel(), 1e-12)
	require.Equal(t, tr, tr.ZoomAbout(1, 7, 9))
}
