// Package theme holds the colors and shared styles of the TUI.
package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/adaptiq/internal/difficulty"
)

// Palette.
var (
	Primary   = lipgloss.Color("#6366F1") // Indigo
	Secondary = lipgloss.Color("#0EA5E9") // Sky
	Accent    = lipgloss.Color("#F59E0B") // Amber
	Success   = lipgloss.Color("#10B981") // Emerald
	Error     = lipgloss.Color("#EF4444") // Red
	Text      = lipgloss.Color("#F1F5F9")
	TextDim   = lipgloss.Color("#94A3B8")
	BgCard    = lipgloss.Color("#1E293B")
	Border    = lipgloss.Color("#334155")
)

// tierColors maps tiers to their badge color.
var tierColors = [...]color.Color{
	difficulty.Easy:   Success,
	difficulty.Medium: Accent,
	difficulty.Hard:   Error,
}

// TierColor returns the badge color of t.
func TierColor(t difficulty.Tier) color.Color {
	if !t.Valid() {
		return TextDim
	}
	return tierColors[t]
}

// TierBadge renders t in its color.
func TierBadge(t difficulty.Tier) string {
	return lipgloss.NewStyle().Foreground(TierColor(t)).Bold(true).Render(t.String())
}

var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Dim = lipgloss.NewStyle().
		Foreground(TextDim)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)

	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(1, 2)

	Selected = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	Correct = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Incorrect = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	ErrorText = lipgloss.NewStyle().
			Foreground(Error)
)

// Center renders s centered in width.
func Center(width int, s string) string {
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, s)
}
