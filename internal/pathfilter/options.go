package pathfilter

// Defaults for Options.
const (
	DefaultMinPathPixelSize        = 0.9
	DefaultMinSegmentPixelSize     = 0.6
	DefaultLargeDatasetPoints      = 500_000
	DefaultReducedRetainedFraction = 0.08
	DefaultReducedSwitchMultiplier = 1.5
)

// Options holds the filter configuration of a Collection.
type Options struct {
	// MinPathPixelSize is the size in pixels below which a whole arc is
	// not drawn.
	MinPathPixelSize float64
	// MinSegmentPixelSize is the per-axis pixel distance a vertex must
	// move away from the last emitted vertex to be emitted.
	MinSegmentPixelSize float64
	// LargeDatasetPoints is the point count above which a reduced copy is
	// kept for zoomed-out drawing. It also bounds the threshold sort.
	LargeDatasetPoints int
	// ReducedRetainedFraction is the fraction of removable vertices kept in
	// the reduced copy.
	ReducedRetainedFraction float64
	// ReducedSwitchMultiplier scales the reduced copy's average segment
	// length to give the units-per-pixel switch point.
	ReducedSwitchMultiplier float64
	// KeepArcEnds emits the final vertex of an arc even when it is closer
	// than MinSegmentPixelSize to the previous emitted vertex.
	KeepArcEnds bool
}

// DefaultOptions returns the default configuration.
func DefaultOptions() Options {
	return Options{
		MinPathPixelSize:        DefaultMinPathPixelSize,
		MinSegmentPixelSize:     DefaultMinSegmentPixelSize,
		LargeDatasetPoints:      DefaultLargeDatasetPoints,
		ReducedRetainedFraction: DefaultReducedRetainedFraction,
		ReducedSwitchMultiplier: DefaultReducedSwitchMultiplier,
	}
}

// Option changes one field of Options.
type Option func(*Options)

func WithMinPathPixelSize(px float64) Option {
	return func(o *Options) { o.MinPathPixelSize = px }
}

func WithMinSegmentPixelSize(px float64) Option {
	return func(o *Options) { o.MinSegmentPixelSize = px }
}

func WithLargeDatasetPoints(n int) Option {
	return func(o *Options) { o.LargeDatasetPoints = n }
}

func WithReducedRetainedFraction(f float64) Option {
	return func(o *Options) { o.ReducedRetainedFraction = f }
}

func WithReducedSwitchMultiplier(m float64) Option {
	return func(o *Options) { o.ReducedSwitchMultiplier = m }
}

func WithKeepArcEnds(keep bool) Option {
	return func(o *Options) { o.KeepArcEnds = keep }
}
