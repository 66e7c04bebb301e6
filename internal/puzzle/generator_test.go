package puzzle

import (
	"errors"
	"strings"
	"testing"

	"github.com/abhisek/adaptiq/internal/difficulty"
)

func TestGenerate_Easy(t *testing.T) {
	g := NewGenerator(1)
	for range 500 {
		p, err := g.Generate(difficulty.Easy)
		if err != nil {
			t.Fatalf("Generate(Easy): %v", err)
		}
		m := p.Meta
		if m.Left < 1 || m.Left > 9 || m.Right < 1 || m.Right > 9 {
			t.Fatalf("operands out of range: %+v", m)
		}
		if m.Op != OpAdd && m.Op != OpSub {
			t.Fatalf("unexpected op %q", m.Op)
		}
		if p.Tier != difficulty.Easy {
			t.Fatalf("tier = %v", p.Tier)
		}
		if err := Verify(p); err != nil {
			t.Fatal(err)
		}
	}
}

func TestGenerate_Medium(t *testing.T) {
	g := NewGenerator(2)
	seen := map[Variant]int{}
	for range 1000 {
		p, err := g.Generate(difficulty.Medium)
		if err != nil {
			t.Fatalf("Generate(Medium): %v", err)
		}
		m := p.Meta
		seen[m.Variant]++
		switch m.Variant {
		case VariantTwoDigitSum:
			if m.Left < 10 || m.Left > 99 || m.Right < 1 || m.Right > 99 {
				t.Fatalf("operands out of range: %+v", m)
			}
		case VariantTimesTable:
			if m.Op != OpMul || m.Left < 2 || m.Left > 9 || m.Right < 2 || m.Right > 9 {
				t.Fatalf("bad times table puzzle: %+v", m)
			}
		default:
			t.Fatalf("unexpected variant %q", m.Variant)
		}
		if err := Verify(p); err != nil {
			t.Fatal(err)
		}
	}
	if seen[VariantTwoDigitSum] < 400 || seen[VariantTimesTable] < 400 {
		t.Errorf("variant mix = %v, want roughly even", seen)
	}
}

func TestGenerate_Hard(t *testing.T) {
	g := NewGenerator(3)
	seen := map[Variant]int{}
	for range 1000 {
		p, err := g.Generate(difficulty.Hard)
		if err != nil {
			t.Fatalf("Generate(Hard): %v", err)
		}
		m := p.Meta
		seen[m.Variant]++
		switch m.Variant {
		case VariantLongProduct:
			if m.Left < 10 || m.Left > 99 || m.Right < 2 || m.Right > 20 {
				t.Fatalf("operands out of range: %+v", m)
			}
		case VariantDivision:
			q := m.Left / m.Right
			if m.Left%m.Right != 0 || m.Right < 2 || m.Right > 12 || q < 2 || q > 12 {
				t.Fatalf("bad division puzzle: %+v", m)
			}
			if p.Answer != float64(q) {
				t.Fatalf("answer = %v, want %d", p.Answer, q)
			}
		default:
			t.Fatalf("unexpected variant %q", m.Variant)
		}
		if err := Verify(p); err != nil {
			t.Fatal(err)
		}
	}
	if seen[VariantLongProduct] < seen[VariantDivision] {
		t.Errorf("variant mix = %v, want products more common", seen)
	}
}

func TestGenerate_PromptFormat(t *testing.T) {
	p, err := NewGenerator(4).Generate(difficulty.Easy)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(p.Prompt, " = ?") {
		t.Errorf("prompt %q lacks suffix", p.Prompt)
	}
}

func TestGenerate_InvalidTier(t *testing.T) {
	_, err := NewGenerator(5).Generate(difficulty.Tier(3))
	if !errors.Is(err, difficulty.ErrInvalidTier) {
		t.Errorf("error = %v, want ErrInvalidTier", err)
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	a, b := NewGenerator(9), NewGenerator(9)
	for range 20 {
		pa, _ := a.Generate(difficulty.Hard)
		pb, _ := b.Generate(difficulty.Hard)
		if pa.Prompt != pb.Prompt {
			t.Fatalf("prompts diverged: %q vs %q", pa.Prompt, pb.Prompt)
		}
	}
}
