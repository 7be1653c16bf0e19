package cli

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"geofilter/internal/pathfilter"
	"geofilter/internal/raster"
)

const (
	keyWidth  = "width"
	keyHeight = "height"
	keyOutput = "output"
	keyZoom   = "zoom"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Draw a dataset to a PNG image",
		Args:  cobra.ExactArgs(1),
		RunE:  runExport,
	}
	d := raster.DefaultOptions()
	cmd.Flags().Int(keyWidth, d.Width, "Image width in pixels.")
	cmd.Flags().Int(keyHeight, d.Height, "Image height in pixels.")
	cmd.Flags().StringP(keyOutput, "o", "out.png", "Output PNG file.")
	cmd.Flags().Float64(keyZoom, 1, "Zoom factor about the image centre.")
	return cmd
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, v, done, err := setup(cmd, true)
	if err != nil {
		return err
	}
	defer done()

	o := raster.DefaultOptions()
	o.Width, o.Height = v.GetInt(keyWidth), v.GetInt(keyHeight)
	out := v.GetString(keyOutput)
	zoom := v.GetFloat64(keyZoom)
	if out == "" {
		return errors.New("output must be set")
	}
	if zoom <= 0 {
		return errors.Errorf("%s must be > 0, got %v", keyZoom, zoom)
	}

	ds, err := loadDataset(args[0], cfg)
	if err != nil {
		return err
	}
	t := raster.FitTransform(ds.data.BBox, o.Width, o.Height, o.Margin).
		ZoomAbout(zoom, float64(o.Width)/2, float64(o.Height)/2)
	res, err := raster.Render(ds.paths, ds.refs, ds.data, t, o)
	if err != nil {
		return err
	}

	f, err := os.Create(out)
	if err != nil {
		return errors.Wrap(err, "creating output")
	}
	if err := raster.EncodePNG(f, res.Image); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(err, "closing output")
	}
	pathfilter.Logger().Info("exported", zap.String("output", out), zap.Stringer("tier", res.Stats.Tier))
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%dx%d): %s arcs, %s vertices, %s tier\n",
		out, o.Width, o.Height,
		humanize.Comma(int64(res.Stats.Arcs)), humanize.Comma(int64(res.Stats.Vertices)), res.Stats.Tier)
	return nil
}
