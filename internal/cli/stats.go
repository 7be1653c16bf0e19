package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"geofilter/internal/pathfilter"
	"geofilter/internal/raster"
)

const keyZooms = "zooms"

func statsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats <file>",
		Short: "Report what would be drawn at several zoom levels",
		Args:  cobra.ExactArgs(1),
		RunE:  runStats,
	}
	d := raster.DefaultOptions()
	cmd.Flags().Int(keyWidth, d.Width, "Viewport width in pixels.")
	cmd.Flags().Int(keyHeight, d.Height, "Viewport height in pixels.")
	cmd.Flags().Float64Slice(keyZooms, []float64{1, 4, 16, 64}, "Zoom factors to report.")
	return cmd
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg, v, done, err := setup(cmd, true)
	if err != nil {
		return err
	}
	defer done()

	w, h := v.GetInt(keyWidth), v.GetInt(keyHeight)
	if w <= 0 || h <= 0 {
		return errors.Errorf("invalid viewport %dx%d", w, h)
	}
	// viper does not decode float slices, so they come from the flag
	zooms, err := cmd.Flags().GetFloat64Slice(keyZooms)
	if err != nil {
		return err
	}
	ds, err := loadDataset(args[0], cfg)
	if err != nil {
		return err
	}
	fit := raster.FitTransform(ds.data.BBox, w, h, raster.DefaultOptions().Margin)
	rows, err := zoomStats(ds.paths, fit, w, h, zooms)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: %s arcs, %s points, %s removable thresholds, detail %.0f%%\n",
		args[0],
		humanize.Comma(int64(ds.arcs.Size())),
		humanize.Comma(int64(ds.arcs.PointCount())),
		humanize.Comma(int64(ds.paths.Thresholds().Len())),
		cfg.RetainedPct*100)
	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("zoom", "tier", "arcs", "culled size", "culled bounds", "vertices")
	for i, st := range rows {
		tbl.Row(
			fmt.Sprintf("%gx", zooms[i]),
			st.Tier.String(),
			humanize.Comma(int64(st.Arcs)),
			humanize.Comma(int64(st.CulledSize)),
			humanize.Comma(int64(st.CulledBounds)),
			humanize.Comma(int64(st.Vertices)),
		)
	}
	fmt.Fprintln(out, tbl.String())
	return nil
}

// zoomStats runs one path traversal per zoom factor over a w×h viewport and
// returns its counters.
func zoomStats(paths *pathfilter.Collection, fit pathfilter.Transform, w, h int, zooms []float64) ([]pathfilter.Stats, error) {
	view := pathfilter.NewBounds(0, 0, float64(w), float64(h))
	out := make([]pathfilter.Stats, 0, len(zooms))
	for _, z := range zooms {
		if z <= 0 {
			return nil, errors.Errorf("zoom must be > 0, got %v", z)
		}
		t := fit.ZoomAbout(z, float64(w)/2, float64(h)/2)
		paths.Reset().FilterPaths(view).Transform(t)
		err := paths.ForEach(func(v *pathfilter.Vertices) {
			for v.Next() {
			}
		})
		if err != nil {
			return nil, err
		}
		out = append(out, paths.Stats())
	}
	return out, nil
}
