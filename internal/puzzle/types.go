// Package puzzle generates tiered arithmetic puzzles and scores answers.
package puzzle

import "github.com/abhisek/adaptiq/internal/difficulty"

// Op is an arithmetic operator as it appears in a prompt.
type Op string

const (
	OpAdd Op = "+"
	OpSub Op = "-"
	OpMul Op = "*"
	OpDiv Op = "/"
)

// Variant names the generation branch a puzzle came from.
type Variant string

const (
	VariantSingleDigit Variant = "single-digit"
	VariantTwoDigitSum Variant = "two-digit-sum"
	VariantTimesTable  Variant = "times-table"
	VariantLongProduct Variant = "long-product"
	VariantDivision    Variant = "exact-division"
)

// Meta holds the operands behind a prompt.
type Meta struct {
	Op      Op
	Left    int
	Right   int
	Variant Variant
}

// Puzzle is a single question with its correct answer. It is not modified
// after generation.
type Puzzle struct {
	// Prompt is the text shown to the learner, e.g. "7 + 5 = ?".
	Prompt string

	// Answer is the correct numeric answer.
	Answer float64

	// Tier is the difficulty the puzzle was generated for.
	Tier difficulty.Tier

	Meta Meta
}
