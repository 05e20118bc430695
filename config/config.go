// Package config loads run settings from TOML.
//
// A file only needs the keys it changes; everything else keeps the value from
// Default. Unknown keys are rejected so that typos do not silently fall back
// to defaults.
package config

import (
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"go.trai.ch/zerr"

	"github.com/gogpu/lisa"
	"github.com/gogpu/lisa/cache"
	"github.com/gogpu/lisa/checkpoint"
	"github.com/gogpu/lisa/evolve"
)

var (
	// ErrUnknownKeys is returned when a file sets keys Config does not define.
	ErrUnknownKeys = zerr.New("unknown configuration keys")

	// ErrInvalid is returned by Validate.
	ErrInvalid = zerr.New("invalid configuration")
)

// Config is the complete configuration of a run.
type Config struct {
	Image          string  `toml:"image"`
	Depth          int     `toml:"depth"`
	MaxSize        int     `toml:"max_size"`
	Population     int     `toml:"population"`
	Growth         float64 `toml:"growth"`
	MaxRate        int     `toml:"max_rate"`
	Workers        int     `toml:"workers"`
	Seed           uint64  `toml:"seed"`
	MaxGenerations int     `toml:"max_generations"`
	TargetFitness  float64 `toml:"target_fitness"`
	StallLimit     int     `toml:"stall_limit"`

	Cache     Cache     `toml:"cache"`
	Weighting Weighting `toml:"weighting"`
	Shapes    Shapes    `toml:"shapes"`
	Mutation  Mutation  `toml:"mutation"`
	Output    Output    `toml:"output"`
}

// Cache configures the canvas cache.
type Cache struct {
	Capacity int `toml:"capacity"`
}

// Weighting configures entropy-weighted fitness.
type Weighting struct {
	Enabled bool    `toml:"enabled"`
	Scale   float64 `toml:"scale"`
}

// Shapes selects the shape kinds new shapes are drawn from.
type Shapes struct {
	Circles   bool `toml:"circles"`
	Rects     bool `toml:"rects"`
	Triangles bool `toml:"triangles"`
}

// Mutation holds the relative weights of the genome operations.
type Mutation struct {
	Append   int     `toml:"append"`
	Remove   int     `toml:"remove"`
	Change   int     `toml:"change"`
	Swap     int     `toml:"swap"`
	TailBias float64 `toml:"tail_bias"`
}

// Output controls what is written for every new fittest individual.
type Output struct {
	Dir        string `toml:"dir"`
	SVG        string `toml:"svg"`
	JSON       string `toml:"json"`
	PNG        string `toml:"png"`
	Store      string `toml:"store"`
	SQLitePath string `toml:"sqlite_path"`

	// Every writes files for only every n-th improvement.
	Every int `toml:"every"`
}

// Default returns the built-in configuration.
func Default() Config {
	menu := evolve.DefaultMenu()
	return Config{
		Image:      "lisa.jpg",
		Depth:      3,
		Population: evolve.DefaultPopulation,
		Growth:     evolve.DefaultGrowth,
		MaxRate:    evolve.DefaultMaxRate,
		StallLimit: evolve.DefaultStallLimit,
		Cache:      Cache{Capacity: cache.DefaultCapacity},
		Weighting:  Weighting{Scale: evolve.DefaultWeightScale},
		Shapes:     Shapes{Circles: true, Rects: true, Triangles: true},
		Mutation: Mutation{
			Append:   menu.Append,
			Remove:   menu.Remove,
			Change:   menu.Change,
			Swap:     menu.Swap,
			TailBias: menu.TailBias,
		},
		Output: Output{
			Dir:        ".",
			SVG:        "best.svg",
			JSON:       "best.json",
			PNG:        "best.png",
			Store:      checkpoint.BackendMemory,
			SQLitePath: "lisa.db",
			Every:      1,
		},
	}
}

// Load decodes the TOML file at path over Default and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, zerr.With(zerr.Wrap(err, "failed to decode configuration"), "path", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, zerr.With(zerr.With(zerr.Wrap(ErrUnknownKeys, "load"), "path", path),
			"keys", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, zerr.With(err, "path", path)
	}
	return cfg, nil
}

func invalid(field string, value any) error {
	return zerr.With(zerr.Wrap(ErrInvalid, field), "value", value)
}

// Validate checks every field against its allowed range.
func (c Config) Validate() error {
	switch {
	case c.Image == "":
		return invalid("image", c.Image)
	case c.Depth != 1 && c.Depth != 3 && c.Depth != 4:
		return invalid("depth", c.Depth)
	case c.MaxSize < 0:
		return invalid("max_size", c.MaxSize)
	case c.Population < 1:
		return invalid("population", c.Population)
	case c.Growth < 1:
		return invalid("growth", c.Growth)
	case c.MaxRate < 1:
		return invalid("max_rate", c.MaxRate)
	case c.Workers < 0:
		return invalid("workers", c.Workers)
	case c.MaxGenerations < 0:
		return invalid("max_generations", c.MaxGenerations)
	case c.TargetFitness < 0:
		return invalid("target_fitness", c.TargetFitness)
	case c.StallLimit < 0:
		return invalid("stall_limit", c.StallLimit)
	case c.Cache.Capacity < 1:
		return invalid("cache.capacity", c.Cache.Capacity)
	case c.Weighting.Scale < 0:
		return invalid("weighting.scale", c.Weighting.Scale)
	case len(c.Kinds()) == 0:
		return invalid("shapes", "no shape kind enabled")
	case c.Output.Every < 1:
		return invalid("output.every", c.Output.Every)
	case c.Output.Store != checkpoint.BackendMemory && c.Output.Store != checkpoint.BackendSQLite:
		return invalid("output.store", c.Output.Store)
	}
	if err := c.Menu().Validate(); err != nil {
		return zerr.Wrap(ErrInvalid, "mutation: "+err.Error())
	}
	return nil
}

// Kinds returns the enabled shape kinds.
func (c Config) Kinds() []lisa.Kind {
	var kinds []lisa.Kind
	if c.Shapes.Circles {
		kinds = append(kinds, lisa.KindCircle)
	}
	if c.Shapes.Rects {
		kinds = append(kinds, lisa.KindRect)
	}
	if c.Shapes.Triangles {
		kinds = append(kinds, lisa.KindTriangle)
	}
	return kinds
}

// Menu returns the mutation menu for evolve.
func (c Config) Menu() evolve.Menu {
	return evolve.Menu{
		Append:   c.Mutation.Append,
		Remove:   c.Mutation.Remove,
		Change:   c.Mutation.Change,
		Swap:     c.Mutation.Swap,
		TailBias: c.Mutation.TailBias,
		Kinds:    c.Kinds(),
	}
}

// EvolveOptions converts the run settings into evolve options. A
// TargetFitness of 0 leaves the run without a fitness goal.
func (c Config) EvolveOptions() []evolve.Option {
	opts := []evolve.Option{
		evolve.WithPopulation(c.Population),
		evolve.WithGrowth(c.Growth),
		evolve.WithMaxRate(c.MaxRate),
		evolve.WithStallLimit(c.StallLimit),
		evolve.WithMaxGenerations(c.MaxGenerations),
		evolve.WithWorkers(c.Workers),
		evolve.WithSeed(c.Seed),
		evolve.WithMenu(c.Menu()),
	}
	if c.TargetFitness > 0 {
		opts = append(opts, evolve.WithTargetFitness(c.TargetFitness))
	}
	return opts
}

// OutputPath joins name onto the output directory. An empty name disables
// that output and yields "".
func (c Config) OutputPath(name string) string {
	if name == "" {
		return ""
	}
	return filepath.Join(c.Output.Dir, name)
}
