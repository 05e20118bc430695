package cli

import (
	"image"

	"github.com/spf13/cobra"

	"github.com/gogpu/lisa/checkpoint"
	"github.com/gogpu/lisa/internal/imageio"
)

type renderFlags struct {
	output  string
	svg     string
	scale   float64
	depth   int
	caption bool
}

func newRenderCmd() *cobra.Command {
	var f renderFlags

	cmd := &cobra.Command{
		Use:   "render <checkpoint.json>",
		Short: "Rasterize a saved checkpoint",
		Long: `Rasterize the shape list of a JSON checkpoint to PNG.

Shape coordinates are relative, so --scale renders at any multiple of the
size the run was evolved at.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return renderCheckpoint(cmd, args[0], f)
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.output, "output", "o", "render.png", "PNG output file")
	fl.StringVar(&f.svg, "svg", "", "also write the scaled SVG to this file")
	fl.Float64VarP(&f.scale, "scale", "s", 1, "size multiplier")
	fl.IntVar(&f.depth, "depth", 4, "channel depth (1, 3 or 4)")
	fl.BoolVar(&f.caption, "caption", false, "print the individual summary below the image")
	return cmd
}

func renderCheckpoint(cmd *cobra.Command, path string, f renderFlags) error {
	logger := loggerFromContext(cmd.Context())
	prog := newProgress(logger)

	rec, err := checkpoint.LoadFile(path)
	if err != nil {
		return err
	}
	if f.scale <= 0 {
		f.scale = 1
	}
	rec.Width = max(1, int(float64(rec.Width)*f.scale))
	rec.Height = max(1, int(float64(rec.Height)*f.scale))

	var img image.Image = rec.Individual.Shapes.Render(rec.Width, rec.Height, f.depth)
	if f.caption {
		if img, err = imageio.Caption(img, rec.Individual.Summary(rec.Fitness)); err != nil {
			return err
		}
	}
	if err := imageio.SavePNG(f.output, img); err != nil {
		return err
	}
	if f.svg != "" {
		if err := checkpoint.WriteSVG(f.svg, rec); err != nil {
			return err
		}
	}
	prog.done(printer.Sprintf("Rendered %d shapes at %dx%d to %s",
		rec.Individual.Shapes.Len(), rec.Width, rec.Height, f.output))
	return nil
}
