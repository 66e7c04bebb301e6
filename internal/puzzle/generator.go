package puzzle

import (
	"fmt"
	"math/rand/v2"

	"github.com/abhisek/adaptiq/internal/difficulty"
)

// Generator draws random puzzles for a tier.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator returns a generator seeded with seed. Equal seeds produce
// equal puzzle sequences.
func NewGenerator(seed uint64) *Generator {
	return &Generator{rng: rand.New(rand.NewPCG(seed, seed>>1|1))}
}

// NewRandomGenerator returns a generator with a random seed.
func NewRandomGenerator() *Generator {
	return NewGenerator(rand.Uint64())
}

// Generate returns a new puzzle for tier t.
func (g *Generator) Generate(t difficulty.Tier) (*Puzzle, error) {
	switch t {
	case difficulty.Easy:
		return g.easy(), nil
	case difficulty.Medium:
		return g.medium(), nil
	case difficulty.Hard:
		return g.hard(), nil
	default:
		return nil, fmt.Errorf("generate puzzle: %w: %d", difficulty.ErrInvalidTier, int(t))
	}
}

func (g *Generator) easy() *Puzzle {
	a, b := g.between(1, 9), g.between(1, 9)
	return g.sum(difficulty.Easy, VariantSingleDigit, a, b)
}

func (g *Generator) medium() *Puzzle {
	if g.rng.Float64() < 0.5 {
		a, b := g.between(10, 99), g.between(1, 99)
		return g.sum(difficulty.Medium, VariantTwoDigitSum, a, b)
	}
	a, b := g.between(2, 9), g.between(2, 9)
	return binary(difficulty.Medium, VariantTimesTable, OpMul, a, b, float64(a*b))
}

func (g *Generator) hard() *Puzzle {
	if g.rng.Float64() < 0.6 {
		a, b := g.between(10, 99), g.between(2, 20)
		return binary(difficulty.Hard, VariantLongProduct, OpMul, a, b, float64(a*b))
	}
	b, q := g.between(2, 12), g.between(2, 12)
	return binary(difficulty.Hard, VariantDivision, OpDiv, b*q, b, float64(q))
}

func (g *Generator) sum(t difficulty.Tier, v Variant, a, b int) *Puzzle {
	if g.rng.IntN(2) == 0 {
		return binary(t, v, OpAdd, a, b, float64(a+b))
	}
	return binary(t, v, OpSub, a, b, float64(a-b))
}

// between returns a uniform int in [lo, hi].
func (g *Generator) between(lo, hi int) int {
	return lo + g.rng.IntN(hi-lo+1)
}

func binary(t difficulty.Tier, v Variant, op Op, a, b int, answer float64) *Puzzle {
	return &Puzzle{
		Prompt: fmt.Sprintf("%d %s %d = ?", a, op, b),
		Answer: answer,
		Tier:   t,
		Meta:   Meta{Op: op, Left: a, Right: b, Variant: v},
	}
}
