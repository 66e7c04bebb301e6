package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/adaptiq/internal/difficulty"
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train the difficulty model on synthetic data and save it",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := rt.cfg
		samples, _ := cmd.Flags().GetInt("samples")
		if samples <= 0 {
			samples = difficulty.DefaultInitialSamples
		}
		seed, _ := cmd.Flags().GetUint64("seed")
		if seed == 0 {
			seed = cfg.Seed
		}
		if cfg.ModelPath == "" {
			return fmt.Errorf("no model path configured")
		}
		if err := os.Remove(cfg.ModelPath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove old model: %w", err)
		}

		learner, err := difficulty.NewLearner(difficulty.LearnerConfig{
			ModelPath:      cfg.ModelPath,
			Window:         cfg.Window,
			RetrainAfter:   cfg.RetrainAfter,
			Seed:           seed,
			InitialSamples: samples,
			Logger:         rt.logger,
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Trained on %d synthetic samples (seed %d)\n", samples, seed)
		fmt.Fprintf(out, "Tree depth:          %d\n", learner.Tree().Depth())
		fmt.Fprintf(out, "Validation accuracy: %.1f%%\n", learner.ValidationAccuracy()*100)
		if _, err := os.Stat(cfg.ModelPath); err != nil {
			return fmt.Errorf("model was not saved to %s", cfg.ModelPath)
		}
		fmt.Fprintf(out, "Saved to %s\n", cfg.ModelPath)
		return nil
	},
}

func init() {
	trainCmd.Flags().Int("samples", difficulty.DefaultInitialSamples, "Number of synthetic samples")
	trainCmd.Flags().Uint64("seed", 0, "Random seed (default from config)")
}
