package cli

import (
	"context"

	"github.com/gogpu/lisa/checkpoint"
	"github.com/gogpu/lisa/config"
	"github.com/gogpu/lisa/evolve"
	"github.com/gogpu/lisa/internal/imageio"
)

// writer persists improvements as they arrive from the simulation.
type writer struct {
	cfg           config.Config
	store         checkpoint.Store
	runID         string
	width, height int

	seen      int
	saved     bool
	savedBest float64
}

// consume saves every output.every-th result until results is closed.
func (w *writer) consume(ctx context.Context, results <-chan evolve.Result) error {
	for r := range results {
		w.seen++
		if w.seen%w.cfg.Output.Every != 0 {
			continue
		}
		if err := w.save(ctx, r); err != nil {
			return err
		}
	}
	return nil
}

// finish saves the final result unless consume already did. Fitness only
// ever decreases, so an equal fitness means the same individual.
func (w *writer) finish(ctx context.Context, r evolve.Result) error {
	if r.Individual.Shapes.Len() == 0 {
		return nil
	}
	if w.saved && w.savedBest == r.Fitness {
		return nil
	}
	return w.save(ctx, r)
}

func (w *writer) save(ctx context.Context, r evolve.Result) error {
	rec := checkpoint.FromResult(w.runID, w.width, w.height, r)
	if err := w.store.Save(ctx, rec); err != nil {
		return err
	}
	if p := w.cfg.OutputPath(w.cfg.Output.JSON); p != "" {
		if err := checkpoint.SaveFile(p, rec); err != nil {
			return err
		}
	}
	if p := w.cfg.OutputPath(w.cfg.Output.SVG); p != "" {
		if err := checkpoint.WriteSVG(p, rec); err != nil {
			return err
		}
	}
	if p := w.cfg.OutputPath(w.cfg.Output.PNG); p != "" {
		canvas := r.Individual.Shapes.Render(w.width, w.height, w.cfg.Depth)
		if err := imageio.SavePNG(p, canvas); err != nil {
			return err
		}
	}
	w.saved, w.savedBest = true, r.Fitness
	return nil
}
