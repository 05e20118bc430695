package cli

import (
	"context"
	"errors"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"

	"github.com/gogpu/lisa/cache"
	"github.com/gogpu/lisa/checkpoint"
	"github.com/gogpu/lisa/config"
	"github.com/gogpu/lisa/evolve"
	"github.com/gogpu/lisa/internal/entropy"
	"github.com/gogpu/lisa/internal/imageio"
	"github.com/gogpu/lisa/internal/parallel"
)

type runFlags struct {
	config      string
	image       string
	seed        uint64
	generations int
	population  int
	workers     int
	weighted    bool
	resume      string
	out         string
	store       string
}

func newRunCmd() *cobra.Command {
	var f runFlags

	cmd := &cobra.Command{
		Use:   "run [image]",
		Short: "Evolve shapes toward a target image",
		Long: `Evolve a shape list toward a target image.

Settings come from the built-in defaults, then the --config file, then flags.
Every new fittest individual is logged; the configured outputs (JSON
checkpoint, SVG, PNG and the checkpoint store) are written for every
output.every-th improvement and once more when the run ends.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				if err := cmd.Flags().Set("image", args[0]); err != nil {
					return err
				}
			}
			cfg, err := resolveConfig(cmd, f)
			if err != nil {
				return err
			}
			return runEvolve(cmd.Context(), cfg, f.resume)
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.config, "config", "c", "", "TOML configuration file")
	fl.StringVarP(&f.image, "image", "i", "", "target image")
	fl.Uint64Var(&f.seed, "seed", 0, "random seed (0 seeds from the clock)")
	fl.IntVarP(&f.generations, "generations", "g", 0, "stop after this many generations (0 = unlimited)")
	fl.IntVarP(&f.population, "population", "p", 0, "candidates per generation")
	fl.IntVarP(&f.workers, "workers", "w", 0, "evaluation workers (0 = GOMAXPROCS)")
	fl.BoolVar(&f.weighted, "weighted", false, "weight the fitness by local image entropy")
	fl.StringVar(&f.resume, "resume", "", "JSON checkpoint to continue from")
	fl.StringVarP(&f.out, "out", "o", "", "output directory")
	fl.StringVar(&f.store, "store", "", "checkpoint store (memory or sqlite)")
	return cmd
}

// resolveConfig layers the flags the user set over the configuration file.
func resolveConfig(cmd *cobra.Command, f runFlags) (config.Config, error) {
	cfg := config.Default()
	if f.config != "" {
		var err error
		if cfg, err = config.Load(f.config); err != nil {
			return config.Config{}, err
		}
	}

	fl := cmd.Flags()
	if fl.Changed("image") {
		cfg.Image = f.image
	}
	if fl.Changed("seed") {
		cfg.Seed = f.seed
	}
	if fl.Changed("generations") {
		cfg.MaxGenerations = f.generations
	}
	if fl.Changed("population") {
		cfg.Population = f.population
	}
	if fl.Changed("workers") {
		cfg.Workers = f.workers
	}
	if fl.Changed("weighted") {
		cfg.Weighting.Enabled = f.weighted
	}
	if fl.Changed("out") {
		cfg.Output.Dir = f.out
	}
	if fl.Changed("store") {
		cfg.Output.Store = f.store
	}
	return cfg, cfg.Validate()
}

// loadTarget decodes the target image, fits it to max_size and computes the
// weight map when weighting is enabled.
func loadTarget(cfg config.Config) (evolve.Target, error) {
	img, err := imageio.LoadImage(cfg.Image)
	if err != nil {
		return evolve.Target{}, err
	}
	if cfg.MaxSize > 0 {
		img = imageio.Fit(img, cfg.MaxSize)
	}
	canvas, err := imageio.FromImage(img, cfg.Depth)
	if err != nil {
		return evolve.Target{}, err
	}

	target := evolve.Target{Image: canvas}
	if cfg.Weighting.Enabled {
		pool := parallel.New(cfg.Workers)
		defer pool.Close()
		target.Weights = entropy.Map(canvas, pool)
		target.Scale = cfg.Weighting.Scale
	}
	return target, nil
}

func runEvolve(ctx context.Context, cfg config.Config, resume string) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	target, err := loadTarget(cfg)
	if err != nil {
		return err
	}
	w, h := target.Image.Width(), target.Image.Height()
	logger.Info("target loaded", "image", cfg.Image, "width", w, "height", h,
		"depth", cfg.Depth, "weighted", target.Weights != nil)

	if err := os.MkdirAll(cfg.Output.Dir, checkpoint.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create output directory"), "dir", cfg.Output.Dir)
	}
	store, err := checkpoint.NewStore(cfg.Output.Store, cfg.OutputPath(cfg.Output.SQLitePath))
	if err != nil {
		return err
	}
	if err := store.Init(ctx); err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	opts := cfg.EvolveOptions()
	if resume != "" {
		rec, err := checkpoint.LoadFile(resume)
		if err != nil {
			return err
		}
		if rec.Width != w || rec.Height != h {
			return zerr.With(zerr.With(zerr.New("checkpoint size does not match the target"),
				"checkpoint", printer.Sprintf("%dx%d", rec.Width, rec.Height)),
				"target", printer.Sprintf("%dx%d", w, h))
		}
		opts = append(opts, evolve.WithResume(rec.Individual))
		logger.Info("resuming", "checkpoint", resume, "shapes", rec.Individual.Shapes.Len())
	}

	cc := cache.New(w, h, cfg.Depth, cache.WithCapacity(cfg.Cache.Capacity))
	out := &writer{cfg: cfg, store: store, runID: checkpoint.NewRunID(), width: w, height: h}

	g, gctx := errgroup.WithContext(ctx)
	results := make(chan evolve.Result, 16)
	opts = append(opts, evolve.WithOnFittest(func(r evolve.Result) {
		select {
		case results <- r:
		case <-gctx.Done():
		}
	}))

	sim, err := evolve.New(target, cc, opts...)
	if err != nil {
		return err
	}
	defer sim.Close()

	var final evolve.Result
	g.Go(func() error {
		defer close(results)
		res, err := sim.Run(gctx)
		final = res
		if errors.Is(err, context.Canceled) && ctx.Err() != nil {
			logger.Warn("interrupted, saving the fittest individual")
			return nil
		}
		return err
	})
	g.Go(func() error {
		return out.consume(context.WithoutCancel(gctx), results)
	})
	if err := g.Wait(); err != nil {
		return err
	}

	if err := out.finish(context.WithoutCancel(ctx), final); err != nil {
		return err
	}
	logStats(logger, cc.Stats())
	prog.done(printer.Sprintf("Finished run %s: %d generations, %d shapes, fitness %.1f",
		out.runID, final.Generation, final.Individual.Shapes.Len(), final.Fitness))
	return nil
}

func logStats(logger *charmlog.Logger, s cache.Stats) {
	logger.Info("cache",
		"requests", printer.Sprintf("%d", s.Requests),
		"hit_rate", printer.Sprintf("%.1f%%", s.HitRate*100),
		"reused", printer.Sprintf("%d", s.Reused),
		"redrawn", printer.Sprintf("%d", s.Redrawn),
		"evictions", printer.Sprintf("%d", s.Evictions))
}
