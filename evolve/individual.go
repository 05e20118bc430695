package evolve

import (
	"fmt"
	"math/rand/v2"

	"github.com/gogpu/lisa"
)

// Counters tally the mutations applied over an individual's lineage.
type Counters struct {
	Mutations uint64 `json:"mutations"`
	Appends   uint64 `json:"mutation_appends"`
	Pops      uint64 `json:"mutation_pops"`
	Changes   uint64 `json:"mutation_changes"`
	Swaps     uint64 `json:"mutation_swaps"`
}

// Individual is a genome together with its mutation history.
type Individual struct {
	Shapes lisa.ShapeList `json:"shapes"`
	Counters
}

// Clone returns a copy whose shape list can be mutated independently.
func (ind Individual) Clone() Individual {
	ind.Shapes = ind.Shapes.Clone()
	return ind
}

// Mutate applies one operation drawn from m and updates the counters.
// A removal on a single-shape list is counted but leaves the list intact.
func (ind *Individual) Mutate(r *rand.Rand, m Menu) {
	switch m.pick(r) {
	case OpAppend:
		ind.Shapes.AddRandom(r, m.Kinds...)
		ind.Appends++
	case OpRemove:
		ind.Shapes.RemoveShape(r)
		ind.Pops++
	case OpChange:
		ind.Shapes.MutateBiased(r, m.TailBias)
		ind.Changes++
	case OpSwap:
		ind.Shapes.Swap(r)
		ind.Swaps++
	}
	ind.Mutations++
}

// Summary formats the individual for progress lines, e.g.
// [F:1234.5 (12 shapes, 40 mut: 20+ 3- 15~ 2x)].
func (ind Individual) Summary(fitness float64) string {
	return fmt.Sprintf("[F:%.1f (%d shapes, %d mut: %d+ %d- %d~ %dx)]",
		fitness, ind.Shapes.Len(), ind.Mutations, ind.Appends, ind.Pops, ind.Changes, ind.Swaps)
}
