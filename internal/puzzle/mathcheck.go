package puzzle

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
)

var promptRe = regexp.MustCompile(`^\s*(-?\d+)\s*([+\-*/])\s*(-?\d+)\s*=\s*\?\s*$`)

// Evaluate recomputes the answer of a prompt of the form "a op b = ?".
func Evaluate(prompt string) (float64, error) {
	m := promptRe.FindStringSubmatch(prompt)
	if m == nil {
		return 0, fmt.Errorf("not an arithmetic prompt: %q", prompt)
	}
	a, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, err
	}
	b, err := strconv.ParseFloat(m[3], 64)
	if err != nil {
		return 0, err
	}

	switch Op(m[2]) {
	case OpAdd:
		return a + b, nil
	case OpSub:
		return a - b, nil
	case OpMul:
		return a * b, nil
	case OpDiv:
		if b == 0 {
			return 0, fmt.Errorf("division by zero in %q", prompt)
		}
		return a / b, nil
	default:
		return 0, fmt.Errorf("unsupported operator %q", m[2])
	}
}

// Verify checks that the stored answer matches the prompt.
func Verify(p *Puzzle) error {
	got, err := Evaluate(p.Prompt)
	if err != nil {
		return err
	}
	if math.Abs(got-p.Answer) >= Tolerance {
		return fmt.Errorf("prompt %q evaluates to %s but answer is %s", p.Prompt, FormatAnswer(got), FormatAnswer(p.Answer))
	}
	return nil
}
