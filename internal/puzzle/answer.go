package puzzle

import (
	"math"
	"strconv"
	"strings"
)

// Tolerance is the largest difference from the answer still scored correct.
const Tolerance = 1e-6

// CheckAnswer reports whether input is a number within Tolerance of the
// puzzle answer. Whitespace is trimmed. Empty or non-numeric input is
// incorrect.
func CheckAnswer(input string, p *Puzzle) bool {
	if p == nil {
		return false
	}
	v, ok := ParseAnswer(input)
	if !ok {
		return false
	}
	return math.Abs(v-p.Answer) < Tolerance
}

// ParseAnswer parses a learner's numeric answer.
func ParseAnswer(input string) (float64, bool) {
	input = strings.TrimSpace(input)
	if input == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(input, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// FormatAnswer renders an answer without trailing zeros, e.g. "42" or "-3".
func FormatAnswer(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
