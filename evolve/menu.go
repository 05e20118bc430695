package evolve

import (
	"errors"
	"math/rand/v2"

	"github.com/gogpu/lisa"
)

// Op is a genome-level mutation.
type Op uint8

// Mutation operations.
const (
	OpAppend Op = iota // add a random shape at the end
	OpRemove           // drop a random shape
	OpChange           // perturb one shape
	OpSwap             // exchange two shapes
)

func (o Op) String() string {
	switch o {
	case OpAppend:
		return "append"
	case OpRemove:
		return "remove"
	case OpChange:
		return "change"
	case OpSwap:
		return "swap"
	}
	return "unknown"
}

// Menu weighs the mutation operations. Weights are relative; they need not
// sum to 100.
type Menu struct {
	Append int
	Remove int
	Change int
	Swap   int

	// TailBias is the probability that a change targets the last shape.
	TailBias float64

	// Kinds restricts appended shapes. Empty means every kind.
	Kinds []lisa.Kind
}

// DefaultMenu returns the 30/10/55/5 split with lisa.DefaultTailBias.
func DefaultMenu() Menu {
	return Menu{Append: 30, Remove: 10, Change: 55, Swap: 5, TailBias: lisa.DefaultTailBias}
}

// Validate reports whether m can be sampled.
func (m Menu) Validate() error {
	if m.Append < 0 || m.Remove < 0 || m.Change < 0 || m.Swap < 0 {
		return errors.New("evolve: negative mutation weight")
	}
	if m.total() == 0 {
		return errors.New("evolve: all mutation weights are zero")
	}
	if m.TailBias < 0 || m.TailBias > 1 {
		return errors.New("evolve: tail bias outside [0, 1]")
	}
	return nil
}

func (m Menu) total() int {
	return m.Append + m.Remove + m.Change + m.Swap
}

// pick draws an operation with probability proportional to its weight.
func (m Menu) pick(r *rand.Rand) Op {
	n := r.IntN(m.total())
	switch {
	case n < m.Append:
		return OpAppend
	case n < m.Append+m.Remove:
		return OpRemove
	case n < m.Append+m.Remove+m.Change:
		return OpChange
	default:
		return OpSwap
	}
}
