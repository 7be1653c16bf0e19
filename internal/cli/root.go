// Package cli wires the geofilter commands.
package cli

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"geofilter/internal/arcs"
	"geofilter/internal/config"
	"geofilter/internal/geom"
	"geofilter/internal/pathfilter"
)

// NewRootCmd returns the geofilter command tree. Run without a subcommand it
// opens the viewer.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "geofilter [file]",
		Short: "Simplify and draw large polyline datasets",
		Long: `
geofilter loads GeoJSON, WKT, KML or CSV geometry and draws it at the level of
detail the current zoom can show: arcs too small to see are skipped, vertices
closer than a pixel are merged, and very large datasets are drawn from a
reduced copy when zoomed out.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runView,
	}
	config.RegisterFlags(root.PersistentFlags())
	root.AddCommand(viewCmd(), exportCmd(), statsCmd())
	return root
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup reads the configuration and installs the logger. The viper instance
// also carries the command's own flags. The returned func flushes the logger.
func setup(cmd *cobra.Command, console bool) (config.Config, *viper.Viper, func(), error) {
	v, err := config.NewViper(cmd.Flags())
	if err != nil {
		return config.Config{}, nil, nil, err
	}
	cfg, err := config.FromViper(v)
	if err != nil {
		return config.Config{}, nil, nil, errors.Wrap(err, "invalid configuration")
	}
	l, err := newLogger(cfg.LogFile, console)
	if err != nil {
		return config.Config{}, nil, nil, err
	}
	pathfilter.SetLogger(l)
	return cfg, v, func() {
		_ = l.Sync()
		pathfilter.SetLogger(nil)
	}, nil
}

// dataset is a loaded file ready for filtering.
type dataset struct {
	data  geom.Data
	arcs  *arcs.Collection
	refs  []geom.ArcRef
	paths *pathfilter.Collection
}

func loadDataset(path string, cfg config.Config) (*dataset, error) {
	d, err := geom.Load(path)
	if err != nil {
		return nil, err
	}
	if d.Empty() {
		return nil, errors.Errorf("%s: no geometry", path)
	}
	c, refs, err := geom.BuildArcs(d)
	if err != nil {
		return nil, errors.Wrapf(err, "%s: building arcs", path)
	}
	paths := pathfilter.New(c, cfg.EngineOptions()...)
	paths.SetRetainedPct(cfg.RetainedPct)
	pathfilter.Logger().Info("dataset loaded",
		zap.String("path", path),
		zap.Int("arcs", c.Size()),
		zap.Int("points", c.PointCount()),
		zap.Int("thresholds", paths.Thresholds().Len()))
	return &dataset{data: d, arcs: c, refs: refs, paths: paths}, nil
}
