// Package config binds the filter knobs to flags, environment variables and
// config files.
package config

import (
	"strings"

	"github.com/pkg/errors"
	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"

	"geofilter/internal/pathfilter"
)

// Keys shared by flags, GEOFILTER_* environment variables and config files.
const (
	KeyMinPath            = "min-path"
	KeyMinSegment         = "min-segment"
	KeyLargeDatasetPoints = "large-dataset-points"
	KeyReducedFraction    = "reduced-fraction"
	KeyReducedMultiplier  = "reduced-multiplier"
	KeyRetainedPct        = "retained-pct"
	KeyKeepArcEnds        = "keep-arc-ends"
	KeyLogFile            = "log-file"
	KeyConfig             = "config"
)

// EnvPrefix is prepended to upper-cased keys, dashes turned into underscores.
const EnvPrefix = "GEOFILTER"

var envReplacer = strings.NewReplacer("-", "_")

type Config struct {
	MinPath            float64
	MinSegment         float64
	LargeDatasetPoints int
	ReducedFraction    float64
	ReducedMultiplier  float64
	RetainedPct        float64
	KeepArcEnds        bool
	LogFile            string
}

func Defaults() Config {
	return Config{
		MinPath:            pathfilter.DefaultMinPathPixelSize,
		MinSegment:         pathfilter.DefaultMinSegmentPixelSize,
		LargeDatasetPoints: pathfilter.DefaultLargeDatasetPoints,
		ReducedFraction:    pathfilter.DefaultReducedRetainedFraction,
		ReducedMultiplier:  pathfilter.DefaultReducedSwitchMultiplier,
		RetainedPct:        1,
	}
}

// RegisterFlags adds the shared flags to fs.
func RegisterFlags(fs *flag.FlagSet) {
	d := Defaults()
	fs.Float64(KeyMinPath, d.MinPath, "Minimum pixel size of a drawn arc.")
	fs.Float64(KeyMinSegment, d.MinSegment, "Minimum pixel distance between drawn vertices.")
	fs.Int(KeyLargeDatasetPoints, d.LargeDatasetPoints,
		"Point count above which a reduced copy is kept for zoomed-out drawing.")
	fs.Float64(KeyReducedFraction, d.ReducedFraction, "Fraction of removable vertices kept in the reduced copy.")
	fs.Float64(KeyReducedMultiplier, d.ReducedMultiplier,
		"Multiple of the reduced copy's average segment length at which it is used.")
	fs.Float64(KeyRetainedPct, d.RetainedPct, "Fraction of removable vertices to draw, 0 to 1.")
	fs.Bool(KeyKeepArcEnds, d.KeepArcEnds, "Always draw the last vertex of an arc.")
	fs.String(KeyLogFile, d.LogFile, "Write JSON logs to this file (rotated).")
	fs.String(KeyConfig, "",
		"Configuration file. Overridden by environment variables and flags.")
}

// NewViper returns a viper instance bound to fs and the environment.
func NewViper(fs *flag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	if err := v.BindPFlags(fs); err != nil {
		return nil, errors.Wrap(err, "binding flags")
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(envReplacer)
	v.AutomaticEnv()
	if cfg := v.GetString(KeyConfig); cfg != "" {
		v.SetConfigFile(cfg)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "reading config %s", cfg)
		}
	}
	return v, nil
}

// FromViper reads and validates a Config.
func FromViper(v *viper.Viper) (Config, error) {
	c := Config{
		MinPath:            v.GetFloat64(KeyMinPath),
		MinSegment:         v.GetFloat64(KeyMinSegment),
		LargeDatasetPoints: v.GetInt(KeyLargeDatasetPoints),
		ReducedFraction:    v.GetFloat64(KeyReducedFraction),
		ReducedMultiplier:  v.GetFloat64(KeyReducedMultiplier),
		RetainedPct:        v.GetFloat64(KeyRetainedPct),
		KeepArcEnds:        v.GetBool(KeyKeepArcEnds),
		LogFile:            v.GetString(KeyLogFile),
	}
	return c, c.Validate()
}

func (c Config) Validate() error {
	switch {
	case c.MinPath < 0:
		return errors.Errorf("%s must be >= 0, got %v", KeyMinPath, c.MinPath)
	case c.MinSegment < 0:
		return errors.Errorf("%s must be >= 0, got %v", KeyMinSegment, c.MinSegment)
	case c.LargeDatasetPoints <= 0:
		return errors.Errorf("%s must be > 0, got %d", KeyLargeDatasetPoints, c.LargeDatasetPoints)
	case c.ReducedFraction < 0 || c.ReducedFraction > 1:
		return errors.Errorf("%s must be in [0,1], got %v", KeyReducedFraction, c.ReducedFraction)
	case c.ReducedMultiplier <= 0:
		return errors.Errorf("%s must be > 0, got %v", KeyReducedMultiplier, c.ReducedMultiplier)
	case c.RetainedPct < 0 || c.RetainedPct > 1:
		return errors.Errorf("%s must be in [0,1], got %v", KeyRetainedPct, c.RetainedPct)
	}
	return nil
}

// EngineOptions converts c into pathfilter options.
func (c Config) EngineOptions() []pathfilter.Option {
	return []pathfilter.Option{
		pathfilter.WithMinPathPixelSize(c.MinPath),
		pathfilter.WithMinSegmentPixelSize(c.MinSegment),
		pathfilter.WithLargeDatasetPoints(c.LargeDatasetPoints),
		pathfilter.WithReducedRetainedFraction(c.ReducedFraction),
		pathfilter.WithReducedSwitchMultiplier(c.ReducedMultiplier),
		pathfilter.WithKeepArcEnds(c.KeepArcEnds),
	}
}
