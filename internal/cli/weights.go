package cli

import (
	"github.com/spf13/cobra"

	"github.com/gogpu/lisa/internal/entropy"
	"github.com/gogpu/lisa/internal/imageio"
	"github.com/gogpu/lisa/internal/parallel"
)

func newWeightsCmd() *cobra.Command {
	var (
		output  string
		maxSize int
		workers int
	)

	cmd := &cobra.Command{
		Use:   "weights <image>",
		Short: "Write the entropy weight map of an image",
		Long: `Write the per-pixel weights that --weighted runs multiply the squared
error by. Busy regions are bright, flat regions are dark.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			prog := newProgress(logger)

			img, err := imageio.LoadImage(args[0])
			if err != nil {
				return err
			}
			if maxSize > 0 {
				img = imageio.Fit(img, maxSize)
			}
			target, err := imageio.FromImage(img, 1)
			if err != nil {
				return err
			}

			pool := parallel.New(workers)
			defer pool.Close()
			if err := imageio.SavePNG(output, entropy.Map(target, pool)); err != nil {
				return err
			}
			prog.done(printer.Sprintf("Wrote %dx%d weight map to %s", target.Width(), target.Height(), output))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "weights.png", "PNG output file")
	cmd.Flags().IntVar(&maxSize, "max-size", 0, "scale the image down to this many pixels on its longest side")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "workers (0 = GOMAXPROCS)")
	return cmd
}
