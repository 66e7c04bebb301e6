package coach

import (
	"fmt"
	"strings"

	"github.com/abhisek/adaptiq/internal/attempt"
)

const systemPrompt = `You are a friendly arithmetic coach.
You receive the results of a short adaptive quiz with Easy, Medium and Hard
puzzles. Reply with one encouraging headline and up to three concrete tips.
Refer to tiers by name. Do not invent numbers that are not in the results.`

func userMessage(user string, sum attempt.Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Learner: %s\n", user)
	fmt.Fprintf(&b, "Answered: %d, correct: %d (%.1f%%), mean time %.1fs\n",
		sum.Total, sum.Correct, sum.Accuracy, sum.MeanTime)
	b.WriteString("By tier:\n")
	for _, ts := range sum.ByTier {
		fmt.Fprintf(&b, "- %s: %d attempts, %.1f%% correct, mean %.1fs\n",
			ts.Tier, ts.Attempts, ts.Accuracy, ts.MeanTime)
	}
	fmt.Fprintf(&b, "Last %d: %.1f%% correct, mean %.1fs\n",
		sum.Trend.Count, sum.Trend.Accuracy, sum.Trend.MeanTime)
	fmt.Fprintf(&b, "Recommended next tier: %s\n", sum.Recommended)
	return b.String()
}
