package quiz

import (
	"fmt"
	"strings"

	"github.com/abhisek/adaptiq/internal/puzzle"
	"github.com/abhisek/adaptiq/internal/ui/components"
	"github.com/abhisek/adaptiq/internal/ui/theme"
)

func (q *QuizScreen) View(width, height int) string {
	if q.errMsg != "" {
		return "\n\n" + theme.Center(width, theme.ErrorText.Render("Something went wrong: "+q.errMsg)) +
			"\n\n" + theme.Center(width, theme.Hint.Render("Press any key to go home"))
	}

	var b strings.Builder
	b.WriteString("\n")
	bar := components.ProgressBar{Done: q.sess.Round(), Total: q.sess.Rounds(), Width: min(50, width-8)}
	b.WriteString(theme.Center(width, bar.View()))
	b.WriteString("\n\n")

	switch q.phase {
	case phaseLoading:
		b.WriteString(theme.Center(width, theme.Dim.Render("Preparing the next puzzle...")))
	case phaseAsking:
		b.WriteString(q.renderQuestion(width))
	case phaseFeedback:
		b.WriteString(q.renderFeedback(width))
	case phaseConfirmQuit:
		b.WriteString(renderQuitConfirm(width))
	}
	return b.String()
}

func (q *QuizScreen) renderQuestion(width int) string {
	if q.current == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(theme.Center(width, "Difficulty: "+theme.TierBadge(q.current.Tier)))
	b.WriteString("\n\n")
	b.WriteString(theme.Center(width, theme.Card.Render(theme.Body.Bold(true).Render(q.current.Prompt))))
	b.WriteString("\n\n")
	b.WriteString(theme.Center(width, "Answer: "+q.input.View()))
	return b.String()
}

func (q *QuizScreen) renderFeedback(width int) string {
	out := q.last
	var b strings.Builder
	if out.Correct {
		b.WriteString(theme.Center(width, theme.Correct.Render("Correct!")))
	} else {
		b.WriteString(theme.Center(width, theme.Incorrect.Render("Not quite")))
		b.WriteString("\n")
		b.WriteString(theme.Center(width, theme.Dim.Render(fmt.Sprintf("%s  answer: %s",
			out.Puzzle.Prompt, puzzle.FormatAnswer(out.Puzzle.Answer)))))
	}
	b.WriteString("\n\n")
	b.WriteString(theme.Center(width, theme.Dim.Render(fmt.Sprintf("Took %.2fs", out.TimeTaken))))
	b.WriteString("\n")

	switch {
	case out.NextTier > out.Tier:
		b.WriteString(theme.Center(width, "Level up! Next: "+theme.TierBadge(out.NextTier)))
	case out.NextTier < out.Tier:
		b.WriteString(theme.Center(width, "Easing off. Next: "+theme.TierBadge(out.NextTier)))
	default:
		b.WriteString(theme.Center(width, "Staying at "+theme.TierBadge(out.NextTier)))
	}
	b.WriteString("\n\n")

	next := "Press any key for the next puzzle"
	if q.sess.Done() {
		next = "Press any key to see your summary"
	}
	b.WriteString(theme.Center(width, theme.Hint.Render(next)))
	return b.String()
}

func renderQuitConfirm(width int) string {
	return theme.Center(width, theme.Body.Bold(true).Render("End session early?")) + "\n" +
		theme.Center(width, theme.Dim.Render("Answered puzzles are still saved.")) + "\n\n" +
		theme.Center(width, theme.Correct.Render("[Y] Yes, end session")) + "\n" +
		theme.Center(width, theme.Selected.Render("[N] No, keep going"))
}
