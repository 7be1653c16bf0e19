package pathfilter

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"geofilter/internal/arcs"
)

var identity = Transform{MX: 1, MY: 1}

type emitted struct {
	Arc  int
	X, Y float64
}

func drain(t *testing.T, c *Collection) []emitted {
	t.Helper()
	var out []emitted
	err := c.ForEach(func(v *Vertices) {
		for v.Next() {
			out = append(out, emitted{Arc: v.Arc(), X: v.X, Y: v.Y})
		}
	})
	require.NoError(t, err)
	return out
}

func newArcs(t *testing.T, paths ...[][2]float64) *arcs.Collection {
	t.Helper()
	src, err := arcs.New(paths, nil)
	require.NoError(t, err)
	return src
}

// stripes builds n horizontal zig-zag arcs of m vertices each. Arc k runs
// along y = 10k, vertex j sits at x = j and is lifted by one unit on odd j.
func stripes(t *testing.T, n, m int) *arcs.Collection {
	t.Helper()
	paths := make([][][2]float64, n)
	weights := make([][]float64, n)
	for k := range paths {
		p := make([][2]float64, m)
		w := make([]float64, m-2)
		for j := range p {
			p[j] = [2]float64{float64(j), float64(10*k + j%2)}
			if j > 0 && j < m-1 {
				w[j-1] = float64((j * 37) % 101)
			}
		}
		paths[k], weights[k] = p, w
	}
	src, err := arcs.New(paths, weights)
	require.NoError(t, err)
	return src
}

func TestSegmentDecimation(t *testing.T) {
	c := New(newArcs(t, [][2]float64{{0, 0}, {0.1, 0.1}, {10, 10}}))
	c.Reset().Transform(identity)
	require.Equal(t, []emitted{{0, 0, 0}, {0, 10, 10}}, drain(t, c))
}

func TestSegmentDecimationPerAxis(t *testing.T) {
	// dx stays under the threshold, dy exceeds it.
	c := New(newArcs(t, [][2]float64{{0, 0}, {0.5, 0.7}, {0.6, 0.8}}))
	c.Reset().Transform(identity)
	require.Equal(t, []emitted{{0, 0, 0}, {0, 0.5, 0.7}}, drain(t, c))
}

func TestFirstVertexAlwaysEmitted(t *testing.T) {
	for _, minSeg := range []float64{0, 0.6, 1e9} {
		c := New(newArcs(t,
			[][2]float64{{3, 4}, {3.1, 4}, {3.2, 4}},
			[][2]float64{{7, 7}},
		), WithMinSegmentPixelSize(minSeg))
		c.Reset().Transform(Transform{MX: 2, MY: 2, BX: 1, BY: 1})
		out := drain(t, c)
		require.NotEmpty(t, out)
		require.Equal(t, emitted{0, 7, 9}, out[0])
		require.Equal(t, emitted{1, 15, 15}, out[len(out)-1])
	}
}

func TestKeepArcEnds(t *testing.T) {
	src := newArcs(t, [][2]float64{{0, 0}, {0.1, 0}, {0.2, 0}})

	c := New(src)
	c.Reset().Transform(identity)
	require.Equal(t, []emitted{{0, 0, 0}}, drain(t, c))

	c = New(src, WithKeepArcEnds(true))
	c.Reset().Transform(identity)
	require.Equal(t, []emitted{{0, 0, 0}, {0, 0.2, 0}}, drain(t, c))
}

func TestNodeMarksEndpoints(t *testing.T) {
	c := New(newArcs(t, [][2]float64{{0, 0}, {5, 0}, {10, 0}}))
	c.Reset().Transform(identity)
	var nodes []bool
	require.NoError(t, c.ForEach(func(v *Vertices) {
		for v.Next() {
			nodes = append(nodes, v.Node)
		}
	}))
	require.Equal(t, []bool{true, false, true}, nodes)
}

func TestViewportContainment(t *testing.T) {
	c := New(newArcs(t, [][2]float64{{50, 50}, {150, 150}}))
	c.Reset().FilterPoints(NewBounds(0, 0, 100, 100)).Transform(identity)
	require.Equal(t, PointMode, c.Mode())
	require.Equal(t, []emitted{{0, 50, 50}}, drain(t, c))

	// Same data in path mode keeps the off-screen vertex.
	c.Reset().FilterPaths(NewBounds(0, 0, 100, 100)).Transform(identity)
	require.Equal(t, PathMode, c.Mode())
	require.Len(t, drain(t, c), 2)
}

func TestPointModeSkipsLeadingOffscreenVertices(t *testing.T) {
	c := New(newArcs(t, [][2]float64{{-50, 10}, {-20, 10}, {10, 10}, {40, 10}, {140, 10}}))
	c.Reset().FilterPoints(NewBounds(0, 0, 100, 100)).Transform(identity)
	require.Equal(t, []emitted{{0, 10, 10}, {0, 40, 10}}, drain(t, c))
}

func TestWholeArcCulling(t *testing.T) {
	src := newArcs(t,
		[][2]float64{{1, 1}, {1.5, 1.5}},   // 0.5 px in both axes
		[][2]float64{{1, 1}, {20, 1.2}},    // wide but flat
		[][2]float64{{30, 30}, {30.2, 40}}, // narrow but tall
	)
	c := New(src)
	c.Reset().FilterPaths(NewBounds(0, 0, 100, 100)).Transform(identity)
	var seen []int
	require.NoError(t, c.ForEach(func(v *Vertices) { seen = append(seen, v.Arc()) }))
	require.Equal(t, []int{1, 2}, seen)
	require.Equal(t, 1, c.Stats().CulledSize)

	// Zoomed in, the small arc spans 1 px and is drawn.
	c.Reset().FilterPaths(NewBounds(0, 0, 100, 100)).Transform(Transform{MX: 2, MY: 2})
	seen = nil
	require.NoError(t, c.ForEach(func(v *Vertices) { seen = append(seen, v.Arc()) }))
	require.Equal(t, []int{0, 1, 2}, seen)
}

func TestNoCullingWithoutBounds(t *testing.T) {
	c := New(newArcs(t, [][2]float64{{1, 1}, {1.1, 1.1}}, [][2]float64{{500, 500}, {600, 600}}))
	c.Reset().Transform(identity)
	var seen []int
	require.NoError(t, c.ForEach(func(v *Vertices) { seen = append(seen, v.Arc()) }))
	require.Equal(t, []int{0, 1}, seen)
}

func TestViewportCulling(t *testing.T) {
	src := newArcs(t,
		[][2]float64{{10, 10}, {20, 20}},
		[][2]float64{{500, 500}, {600, 600}},
		[][2]float64{{90, 90}, {300, 300}},
	)
	c := New(src)
	c.Reset().FilterPaths(NewBounds(0, 0, 100, 100)).Transform(identity)
	var seen []int
	require.NoError(t, c.ForEach(func(v *Vertices) { seen = append(seen, v.Arc()) }))
	require.Equal(t, []int{0, 2}, seen)
	require.Equal(t, Stats{Tier: FullResolution, Arcs: 2, CulledBounds: 1}, c.Stats())
}

func TestViewportCullingFlippedAxis(t *testing.T) {
	// Screen y grows downwards: geo y in [0,100] maps to pixel y in [100,0].
	src := newArcs(t,
		[][2]float64{{10, 10}, {20, 20}},
		[][2]float64{{10, 150}, {20, 160}},
	)
	c := New(src)
	c.Reset().FilterPaths(NewBounds(0, 0, 100, 100)).Transform(Transform{MX: 1, MY: -1, BY: 100})
	gb, ok := c.GeoBounds()
	require.True(t, ok)
	x0, y0 := gb.Min()
	x1, y1 := gb.Max()
	require.Equal(t, []float64{0, 0, 100, 100}, []float64{x0, y0, x1, y1})

	out := drain(t, c)
	require.Equal(t, []emitted{{0, 10, 90}, {0, 20, 80}}, out)
}

func TestFilterAfterTransform(t *testing.T) {
	src := newArcs(t, [][2]float64{{10, 10}, {20, 20}}, [][2]float64{{500, 500}, {600, 600}})
	c := New(src)
	c.Reset().Transform(identity).FilterPaths(NewBounds(0, 0, 100, 100))
	require.Len(t, drain(t, c), 2)
	require.Equal(t, 1, c.Stats().Arcs)
}

func TestForEachRequiresTransform(t *testing.T) {
	c := New(newArcs(t, [][2]float64{{0, 0}, {1, 1}}))
	c.Reset().FilterPaths(NewBounds(0, 0, 10, 10))
	err := c.ForEach(func(*Vertices) { t.Fatal("consumer called") })
	require.ErrorIs(t, err, ErrConfiguration)

	_, _, err = c.Project(1, 1)
	require.ErrorIs(t, err, ErrConfiguration)

	c.Transform(Transform{MX: 2, MY: 3, BX: 1})
	px, py, err := c.Project(1, 1)
	require.NoError(t, err)
	require.Equal(t, []float64{3, 3}, []float64{px, py})
}

func TestResetClearsTransform(t *testing.T) {
	c := New(newArcs(t, [][2]float64{{0, 0}, {1, 1}}))
	c.Reset().FilterPoints(NewBounds(0, 0, 10, 10)).Transform(identity)
	require.NoError(t, c.ForEach(func(*Vertices) {}))

	c.Reset()
	require.Equal(t, PathMode, c.Mode())
	_, ok := c.GeoBounds()
	require.False(t, ok)
	require.ErrorIs(t, c.ForEach(func(*Vertices) {}), ErrConfiguration)
}

func TestDegenerateTransformDrawsNothing(t *testing.T) {
	c := New(newArcs(t, [][2]float64{{0, 0}, {1, 1}}))
	for _, tr := range []Transform{{}, {MX: 1}, {MX: math.NaN(), MY: 1}} {
		c.Reset().FilterPaths(NewBounds(0, 0, 10, 10)).Transform(tr)
		require.NoError(t, c.ForEach(func(*Vertices) { t.Fatal("consumer called") }))
		require.Zero(t, c.Stats().Arcs)
	}
}

func TestEmptyDataset(t *testing.T) {
	c := New(newArcs(t))
	c.SetRetainedPct(0.5)
	c.Reset().FilterPaths(NewBounds(0, 0, 10, 10)).Transform(identity)
	require.Empty(t, drain(t, c))
}

func TestSetRetainedIntervalIdempotent(t *testing.T) {
	c := New(stripes(t, 4, 300))
	c.SetRetainedInterval(40)
	c.Reset().Transform(Transform{MX: 10, MY: 10})
	first := drain(t, c)

	c.SetRetainedInterval(40)
	c.Reset().Transform(Transform{MX: 10, MY: 10})
	second := drain(t, c)

	require.NotEmpty(t, first)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("second pass differs (-first +second):\n%s", diff)
	}
}

func TestSetRetainedPctSimplifies(t *testing.T) {
	c := New(stripes(t, 2, 500), WithMinSegmentPixelSize(0))
	c.Reset().Transform(identity)
	all := len(drain(t, c))
	require.Equal(t, 1000, all)

	c.SetRetainedPct(0.1)
	c.Reset().Transform(identity)
	some := len(drain(t, c))
	require.Less(t, some, all/5)
	require.Greater(t, some, 4)

	c.SetRetainedPct(1)
	c.Reset().Transform(identity)
	require.Equal(t, all, len(drain(t, c)))
}

func TestResolutionTierSwitching(t *testing.T) {
	src := stripes(t, 10, 1000)
	c := New(src, WithLargeDatasetPoints(5000), WithMinSegmentPixelSize(0))
	require.NotNil(t, c.tiers.reduced)
	require.Less(t, c.tiers.reduced.PointCount(), src.PointCount())

	c.Reset().Transform(identity)
	require.Equal(t, FullResolution, c.Tier())
	full := len(drain(t, c))
	require.Equal(t, src.PointCount(), full)

	c.Reset().Transform(Transform{MX: 0.01, MY: 0.01})
	require.Equal(t, ReducedCopy, c.Tier())
	reduced := len(drain(t, c))
	require.Equal(t, ReducedCopy, c.Stats().Tier)
	require.Equal(t, c.tiers.reduced.PointCount(), reduced)
	require.Less(t, reduced, full)

	// Back to a close zoom without Reset: selection depends on zoom alone.
	c.Transform(identity)
	require.Equal(t, FullResolution, c.Tier())
}

func TestTierSelectionLeavesCutoffsAlone(t *testing.T) {
	c := New(stripes(t, 10, 1000), WithLargeDatasetPoints(5000))
	c.SetRetainedInterval(30)
	c.Reset().Transform(Transform{MX: 0.01, MY: 0.01})
	require.Equal(t, ReducedCopy, c.Tier())
	c.Transform(identity)
	require.Equal(t, 30.0, c.tiers.full.RetainedInterval())
	require.Equal(t, 30.0, c.tiers.reduced.RetainedInterval())
	require.Equal(t, 30.0, c.RetainedInterval())
}

func TestSmallDatasetHasNoReducedCopy(t *testing.T) {
	c := New(stripes(t, 3, 100))
	require.Nil(t, c.tiers.reduced)
	c.Reset().Transform(Transform{MX: 1e-9, MY: 1e-9})
	require.Equal(t, FullResolution, c.Tier())
}

func TestUpdateReplacesDataset(t *testing.T) {
	c := New(newArcs(t, [][2]float64{{0, 0}, {10, 10}}))
	c.Reset().FilterPaths(NewBounds(0, 0, 100, 100)).Transform(identity)
	c.Update(newArcs(t, [][2]float64{{0, 0}, {10, 10}}, [][2]float64{{20, 20}, {30, 30}}))
	_, ok := c.GeoBounds()
	require.False(t, ok)
	require.ErrorIs(t, c.ForEach(func(*Vertices) {}), ErrConfiguration)

	c.Transform(identity)
	require.Len(t, drain(t, c), 4)
}

func TestEndToEndLargeDataset(t *testing.T) {
	if testing.Short() {
		t.Skip("builds 600,000 points")
	}
	const nArcs, perArc = 600, 1000
	c := New(stripes(t, nArcs, perArc))
	require.NotNil(t, c.tiers.reduced)

	c.SetRetainedPct(0.5)
	tr := Transform{MX: 0.001, MY: 0.001}
	c.Transform(tr)
	c.FilterPaths(NewBounds(0, 0, 100, 100))

	calls := 0
	err := c.ForEach(func(v *Vertices) {
		calls++
		for v.Next() {
			gx := v.X / tr.MX
			gy := v.Y/tr.MY - float64(10*v.Arc())
			require.InDelta(t, math.Round(gx), gx, 1e-6)
			require.GreaterOrEqual(t, gx, -1e-6)
			require.LessOrEqual(t, gx, float64(perArc-1)+1e-6)
			require.True(t, math.Abs(gy) < 1e-6 || math.Abs(gy-1) < 1e-6, "y offset %v", gy)
		}
	})
	require.NoError(t, err)
	require.Equal(t, ReducedCopy, c.Tier())
	require.LessOrEqual(t, calls, nArcs)
	require.Positive(t, calls)
}
