package difficulty

import (
	"errors"
	"fmt"
	"strings"
)

// Tier is an ordered difficulty level.
type Tier int

const (
	Easy Tier = iota
	Medium
	Hard
)

// ErrInvalidTier is returned when a value does not name a known tier.
var ErrInvalidTier = errors.New("invalid difficulty tier")

// Tiers lists all tiers in ascending order.
var Tiers = []Tier{Easy, Medium, Hard}

// Valid reports whether t is one of Easy, Medium or Hard.
func (t Tier) Valid() bool {
	return t >= Easy && t <= Hard
}

func (t Tier) String() string {
	switch t {
	case Easy:
		return "Easy"
	case Medium:
		return "Medium"
	case Hard:
		return "Hard"
	default:
		return fmt.Sprintf("Tier(%d)", int(t))
	}
}

// ParseTier accepts a tier name (case-insensitive) or a menu digit 1-3.
func ParseTier(s string) (Tier, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy", "1":
		return Easy, nil
	case "medium", "2":
		return Medium, nil
	case "hard", "3":
		return Hard, nil
	}
	return Easy, fmt.Errorf("%w: %q", ErrInvalidTier, s)
}

// TierFromIndex converts an int index to a Tier, rejecting out of range values.
func TierFromIndex(i int) (Tier, error) {
	t := Tier(i)
	if !t.Valid() {
		return Easy, fmt.Errorf("%w: index %d", ErrInvalidTier, i)
	}
	return t, nil
}

func clampTier(t Tier) Tier {
	if t < Easy {
		return Easy
	}
	if t > Hard {
		return Hard
	}
	return t
}
