package evolve

import (
	"errors"
	"math"
)

// Defaults for a Simulation.
const (
	DefaultPopulation = 10
	DefaultGrowth     = 1.0
	DefaultMaxRate    = 100
	DefaultStallLimit = 100
)

// Option configures a Simulation.
type Option func(*options)

type options struct {
	population     int
	growth         float64
	maxRate        int
	stallLimit     int
	maxGenerations int
	targetFitness  float64
	workers        int
	seed           uint64
	menu           Menu
	resume         Individual
	onFittest      func(Result)
}

func defaultOptions() options {
	return options{
		population:    DefaultPopulation,
		growth:        DefaultGrowth,
		maxRate:       DefaultMaxRate,
		stallLimit:    DefaultStallLimit,
		targetFitness: math.Inf(-1),
		menu:          DefaultMenu(),
	}
}

func (o options) validate() error {
	if o.population < 1 {
		return errors.New("evolve: population must be at least 1")
	}
	if o.growth < 1 {
		return errors.New("evolve: growth must be at least 1")
	}
	if o.maxRate < 1 {
		return errors.New("evolve: max rate must be at least 1")
	}
	return o.menu.Validate()
}

// WithPopulation sets the number of candidates per generation.
func WithPopulation(n int) Option {
	return func(o *options) { o.population = n }
}

// WithGrowth sets the factor applied to the mutation rate after every
// generation without improvement. 1 keeps the rate constant.
func WithGrowth(g float64) Option {
	return func(o *options) { o.growth = g }
}

// WithMaxRate caps the number of mutations applied per candidate.
func WithMaxRate(n int) Option {
	return func(o *options) { o.maxRate = n }
}

// WithStallLimit resets the mutation rate after n generations without
// improvement. 0 disables the reset.
func WithStallLimit(n int) Option {
	return func(o *options) { o.stallLimit = n }
}

// WithMaxGenerations stops the run after n generations. 0 means unlimited.
func WithMaxGenerations(n int) Option {
	return func(o *options) { o.maxGenerations = n }
}

// WithTargetFitness stops the run once the fitness is at or below f.
func WithTargetFitness(f float64) Option {
	return func(o *options) { o.targetFitness = f }
}

// WithWorkers sets the evaluation pool size. 0 uses GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// WithSeed makes the run reproducible. 0 seeds from the clock.
func WithSeed(seed uint64) Option {
	return func(o *options) { o.seed = seed }
}

// WithMenu sets the mutation weights.
func WithMenu(m Menu) Option {
	return func(o *options) { o.menu = m }
}

// WithResume starts from a saved individual instead of an empty genome.
func WithResume(ind Individual) Option {
	return func(o *options) { o.resume = ind }
}

// WithOnFittest registers a callback invoked on the run goroutine for every
// new fittest individual.
func WithOnFittest(fn func(Result)) Option {
	return func(o *options) { o.onFittest = fn }
}
