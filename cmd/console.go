package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/adaptiq/internal/config"
	"github.com/abhisek/adaptiq/internal/console"
	"github.com/abhisek/adaptiq/internal/difficulty"
)

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Play a session with plain text prompts",
	Long: "Play a session on stdin/stdout. Settings not given as flags are " +
		"asked for interactively.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg := rt.cfg

		opts := console.Options{ExportDir: cfg.ExportDir, Logger: rt.logger}
		opts.User, _ = cmd.Flags().GetString("user")
		opts.Rounds, _ = cmd.Flags().GetInt("rounds")
		if v, _ := cmd.Flags().GetString("tier"); v != "" {
			t, err := difficulty.ParseTier(v)
			if err != nil {
				return err
			}
			opts.Tier = &t
		}
		if v, _ := cmd.Flags().GetString("strategy"); v != "" {
			cfg.Strategy = config.Strategy(v)
			if err := cfg.Validate(); err != nil {
				return err
			}
		}
		opts.Strategy = string(cfg.Strategy)

		newController, err := controllerFactory(cfg, rt.logger)
		if err != nil {
			return err
		}
		opts.NewController = newController

		st, err := openStore(cfg)
		if err != nil {
			fmt.Fprintln(os.Stderr, "History unavailable:", err)
		} else {
			defer st.Close()
			repo := st.EventRepo()
			opts.Recorder = repo
			opts.Coach = newCoach(ctx, cfg, repo, rt.logger)
		}

		_, err = console.Run(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), opts)
		return err
	},
}

func init() {
	consoleCmd.Flags().String("user", "", "Learner name")
	consoleCmd.Flags().String("tier", "", "Initial difficulty: easy, medium, hard or 1-3")
	consoleCmd.Flags().Int("rounds", 0, "Number of puzzles (asked for when 0)")
	consoleCmd.Flags().String("strategy", "", "Difficulty strategy: rule or tree")
}
