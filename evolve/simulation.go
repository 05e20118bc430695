// Package evolve drives the search for a shape list that approximates a
// target image.
//
// Each generation refills every population slot with a copy of the current
// fittest individual mutated rate times, scores the candidates concurrently
// through a shared cache.CanvasCache, and adopts the best one if it improves
// on the fittest. Adopted genomes are inserted into the cache so that their
// tail mutations in the next generation redraw a single shape.
package evolve

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"

	"github.com/gogpu/lisa"
	"github.com/gogpu/lisa/cache"
	"github.com/gogpu/lisa/internal/parallel"
)

// Result is a snapshot of the fittest individual.
type Result struct {
	Generation int
	Fitness    float64
	Individual Individual
}

// Simulation is a single evolutionary run. It is not safe for concurrent use;
// Run evaluates candidates on its own worker pool.
type Simulation struct {
	opts   options
	target Target
	cache  *cache.CanvasCache
	pool   *parallel.Pool
	rng    *rand.Rand

	fittest    Individual
	fitness    float64
	generation int
	rate       float64
	stall      int
	started    bool
}

// New creates a simulation against target. cc must have the target's
// dimensions; it may be shared with other readers.
func New(target Target, cc *cache.CanvasCache, opts ...Option) (*Simulation, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.validate(); err != nil {
		return nil, err
	}
	if target.Image == nil {
		return nil, errors.New("evolve: target image is required")
	}
	img := target.Image
	if cc.Width() != img.Width() || cc.Height() != img.Height() || cc.Depth() != img.Depth() {
		return nil, errors.New("evolve: cache dimensions do not match the target")
	}
	if target.Weights != nil && target.Weights.Len() != img.Len() {
		return nil, errors.New("evolve: weights do not match the target")
	}

	s := &Simulation{
		opts:    o,
		target:  target,
		cache:   cc,
		pool:    parallel.New(o.workers),
		rng:     lisa.NewRand(o.seed),
		fittest: o.resume.Clone(),
		fitness: math.Inf(1),
		rate:    1,
	}
	return s, nil
}

// Close releases the worker pool.
func (s *Simulation) Close() {
	s.pool.Close()
}

// Fittest returns the best individual found so far.
func (s *Simulation) Fittest() Result {
	return Result{Generation: s.generation, Fitness: s.fitness, Individual: s.fittest.Clone()}
}

// Generation returns the number of completed generations.
func (s *Simulation) Generation() int { return s.generation }

// Rate returns the current mutation rate.
func (s *Simulation) Rate() float64 { return s.rate }

// Run evolves until the context is done, MaxGenerations generations have run
// or the fitness reaches TargetFitness. It returns the fittest individual and,
// on cancellation, the context's error.
func (s *Simulation) Run(ctx context.Context) (Result, error) {
	log := lisa.Logger()
	if !s.started {
		s.seed()
		log.Info("run started",
			"population", s.opts.population,
			"shapes", s.fittest.Shapes.Len(),
			"fitness", s.fitness)
	}

	for !s.done() {
		if err := ctx.Err(); err != nil {
			return s.Fittest(), err
		}
		s.Step()
	}

	log.Info("run finished", "generation", s.generation, "fitness", s.fitness)
	return s.Fittest(), nil
}

func (s *Simulation) done() bool {
	if s.opts.maxGenerations > 0 && s.generation >= s.opts.maxGenerations {
		return true
	}
	return s.fitness <= s.opts.targetFitness
}

// seed scores the starting individual and an initial population of single
// mutations of it.
func (s *Simulation) seed() {
	s.started = true
	s.fitness = s.evaluate(s.fittest)

	cands := make([]Individual, s.opts.population)
	for i := range cands {
		c := s.fittest.Clone()
		c.Mutate(s.rng, s.opts.menu)
		cands[i] = c
	}
	s.consider(cands)
}

// Step runs one generation and reports whether the fittest improved.
func (s *Simulation) Step() bool {
	if !s.started {
		s.seed()
	}

	n := int(s.rate)
	cands := make([]Individual, s.opts.population)
	for i := range cands {
		c := s.fittest.Clone()
		for range n {
			c.Mutate(s.rng, s.opts.menu)
		}
		cands[i] = c
	}

	s.generation++
	improved := s.consider(cands)
	s.adjustRate(improved)
	return improved
}

// consider scores cands concurrently and adopts the best if it beats the
// fittest. Ties go to the lowest index so runs are reproducible.
func (s *Simulation) consider(cands []Individual) bool {
	scores := make([]float64, len(cands))
	s.pool.ForEach(len(cands), func(i int) {
		scores[i] = s.evaluate(cands[i])
	})

	best := 0
	for i, f := range scores {
		if f < scores[best] {
			best = i
		}
	}
	if scores[best] >= s.fitness {
		return false
	}

	s.fittest = cands[best]
	s.fitness = scores[best]
	s.cache.Insert(s.fittest.Shapes)

	lisa.Logger().Info("new fittest",
		"generation", s.generation,
		"fitness", s.fitness,
		"shapes", s.fittest.Shapes.Len(),
		"mutations", s.fittest.Mutations,
		"rate", s.rate)
	if s.opts.onFittest != nil {
		s.opts.onFittest(s.Fittest())
	}
	return true
}

func (s *Simulation) evaluate(ind Individual) float64 {
	c := s.cache.CanvasFor(ind.Shapes)
	return s.target.Fitness(c, ind.Shapes.Len())
}

// adjustRate resets the mutation rate after an improvement and grows it
// geometrically otherwise, up to MaxRate. StallLimit generations without
// improvement also reset it.
func (s *Simulation) adjustRate(improved bool) {
	if improved {
		s.rate, s.stall = 1, 0
		return
	}
	s.stall++
	if s.opts.stallLimit > 0 && s.stall >= s.opts.stallLimit {
		lisa.Logger().Debug("mutation rate reset", "generation", s.generation, "rate", s.rate)
		s.rate, s.stall = 1, 0
		return
	}
	s.rate = min(s.rate*s.opts.growth, float64(s.opts.maxRate))
}
