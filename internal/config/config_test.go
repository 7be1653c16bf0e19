package config

import (
	"os"
	"path/filepath"
	"testing"

	flag "github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"geofilter/internal/pathfilter"
)

func load(t *testing.T, args ...string) (Config, error) {
	t.Helper()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse(args))
	v, err := NewViper(fs)
	if err != nil {
		return Config{}, err
	}
	return FromViper(v)
}

func TestDefaults(t *testing.T) {
	c, err := load(t)
	require.NoError(t, err)
	require.Equal(t, Defaults(), c)
	require.Equal(t, 0.9, c.MinPath)
	require.Equal(t, 500000, c.LargeDatasetPoints)
}

func TestFlagsOverrideEnv(t *testing.T) {
	t.Setenv("GEOFILTER_MIN_SEGMENT", "2.5")
	t.Setenv("GEOFILTER_RETAINED_PCT", "0.3")
	c, err := load(t, "--retained-pct=0.7", "--keep-arc-ends")
	require.NoError(t, err)
	require.Equal(t, 2.5, c.MinSegment)
	require.Equal(t, 0.7, c.RetainedPct)
	require.True(t, c.KeepArcEnds)
}

func TestConfigFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "geofilter.yaml")
	require.NoError(t, os.WriteFile(p, []byte("min-path: 3\nlarge-dataset-points: 1000\n"), 0o644))
	c, err := load(t, "--config", p)
	require.NoError(t, err)
	require.Equal(t, 3.0, c.MinPath)
	require.Equal(t, 1000, c.LargeDatasetPoints)

	_, err = load(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		edit func(*Config)
	}{
		{"negative min path", func(c *Config) { c.MinPath = -1 }},
		{"negative min segment", func(c *Config) { c.MinSegment = -0.1 }},
		{"zero large dataset", func(c *Config) { c.LargeDatasetPoints = 0 }},
		{"fraction above one", func(c *Config) { c.ReducedFraction = 1.5 }},
		{"zero multiplier", func(c *Config) { c.ReducedMultiplier = 0 }},
		{"negative retained", func(c *Config) { c.RetainedPct = -0.2 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Defaults()
			tt.edit(&c)
			require.Error(t, c.Validate())
		})
	}
	require.NoError(t, Defaults().Validate())
}

func TestEngineOptions(t *testing.T) {
	c := Defaults()
	c.MinSegment = 0
	c.KeepArcEnds = true
	o := pathfilter.DefaultOptions()
	for _, fn := range c.EngineOptions() {
		fn(&o)
	}
	require.Equal(t, 0.0, o.MinSegmentPixelSize)
	require.True(t, o.KeepArcEnds)
	require.Equal(t, c.MinPath, o.MinPathPixelSize)
}
