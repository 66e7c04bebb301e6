package difficulty

import (
	"errors"
	"testing"
)

func TestRule(t *testing.T) {
	tests := []struct {
		name    string
		tier    Tier
		correct int
		mean    float64
		want    Tier
	}{
		{"easy fast promotes", Easy, 3, 6, Medium},
		{"easy at threshold promotes", Easy, 2, 8, Medium},
		{"easy weak stays at floor", Easy, 1, 5, Easy},
		{"easy slow correct stays", Easy, 2, 10, Easy},
		{"medium slow but accurate stays", Medium, 2, 15, Medium},
		{"medium very slow demotes", Medium, 3, 19, Easy},
		{"medium one correct demotes", Medium, 1, 4, Easy},
		{"medium fast promotes", Medium, 2, 12, Hard},
		{"hard fast stays at ceiling", Hard, 3, 5, Hard},
		{"hard slow demotes", Hard, 3, 27.5, Medium},
		{"hard exactly slow limit stays", Hard, 2, 27, Hard},
		{"hard none correct demotes", Hard, 0, 10, Medium},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Rule(tt.tier, tt.correct, tt.mean); got != tt.want {
				t.Errorf("Rule(%v, %d, %v) = %v, want %v", tt.tier, tt.correct, tt.mean, got, tt.want)
			}
		})
	}
}

func TestStep(t *testing.T) {
	tests := []struct {
		from, to, want Tier
	}{
		{Easy, Hard, Medium},
		{Hard, Easy, Medium},
		{Medium, Medium, Medium},
		{Easy, Medium, Medium},
		{Medium, Easy, Easy},
	}
	for _, tt := range tests {
		if got := Step(tt.from, tt.to); got != tt.want {
			t.Errorf("Step(%v, %v) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestParseTier(t *testing.T) {
	tests := []struct {
		in   string
		want Tier
	}{
		{"Easy", Easy},
		{"medium", Medium},
		{" HARD ", Hard},
		{"1", Easy},
		{"2", Medium},
		{"3", Hard},
	}
	for _, tt := range tests {
		got, err := ParseTier(tt.in)
		if err != nil {
			t.Fatalf("ParseTier(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseTier(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	for _, bad := range []string{"", "4", "expert"} {
		if _, err := ParseTier(bad); !errors.Is(err, ErrInvalidTier) {
			t.Errorf("ParseTier(%q) error = %v, want ErrInvalidTier", bad, err)
		}
	}
}

func TestTierFromIndex(t *testing.T) {
	if _, err := TierFromIndex(3); !errors.Is(err, ErrInvalidTier) {
		t.Errorf("TierFromIndex(3) error = %v, want ErrInvalidTier", err)
	}
	if tier, err := TierFromIndex(2); err != nil || tier != Hard {
		t.Errorf("TierFromIndex(2) = %v, %v", tier, err)
	}
}

func TestTierString(t *testing.T) {
	if Medium.String() != "Medium" {
		t.Errorf("Medium.String() = %q", Medium.String())
	}
	if Tier(9).String() != "Tier(9)" {
		t.Errorf("Tier(9).String() = %q", Tier(9).String())
	}
}
