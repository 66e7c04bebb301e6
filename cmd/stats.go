package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/adaptiq/internal/puzzle"
	"github.com/abhisek/adaptiq/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show past sessions and attempts",
	RunE: func(cmd *cobra.Command, args []string) error {
		user, _ := cmd.Flags().GetString("user")
		limit, _ := cmd.Flags().GetInt("limit")

		st, err := openStore(rt.cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := cmd.Context()
		repo := st.EventRepo()
		out := cmd.OutOrStdout()
		opts := store.QueryOpts{User: user, Limit: limit}

		sessions, err := repo.QuerySessions(ctx, opts)
		if err != nil {
			return fmt.Errorf("query sessions: %w", err)
		}
		if len(sessions) == 0 {
			fmt.Fprintln(out, "No sessions recorded yet.")
			return nil
		}

		fmt.Fprintln(out, "Sessions")
		tbl := newTable("When", "User", "Strategy", "Questions", "Correct", "Start", "Final", "Next").limit(1, 16)
		for _, s := range sessions {
			tbl.add(
				s.Timestamp.Local().Format("2006-01-02 15:04"),
				s.User,
				s.Strategy,
				fmt.Sprint(s.Questions),
				fmt.Sprintf("%d (%s)", s.Correct, pct(s.Correct, s.Questions)),
				s.InitialTier,
				s.FinalTier,
				s.RecommendedTier,
			)
		}
		tbl.write(out)

		attempts, err := repo.QueryAttempts(ctx, opts)
		if err != nil {
			return fmt.Errorf("query attempts: %w", err)
		}
		if len(attempts) == 0 {
			return nil
		}

		fmt.Fprintln(out)
		fmt.Fprintln(out, "Attempts")
		tbl = newTable("When", "User", "Tier", "Puzzle", "Answer", "Response", "OK", "Time").limit(1, 16).limit(5, 10)
		for _, a := range attempts {
			ok := "✓"
			if !a.Correct {
				ok = "✗"
			}
			tbl.add(
				a.Timestamp.Local().Format("2006-01-02 15:04:05"),
				a.User,
				a.Tier,
				a.Prompt,
				puzzle.FormatAnswer(a.Answer),
				a.Response,
				ok,
				fmt.Sprintf("%.2fs", a.TimeTaken),
			)
		}
		tbl.write(out)
		return nil
	},
}

func pct(n, total int) string {
	if total == 0 {
		return "-"
	}
	return fmt.Sprintf("%.0f%%", float64(n)/float64(total)*100)
}

func init() {
	statsCmd.Flags().String("user", "", "Only show this learner")
	statsCmd.Flags().Int("limit", 20, "Maximum rows per table")
}
