package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/adaptiq/internal/app"
	"github.com/abhisek/adaptiq/internal/config"
	"github.com/abhisek/adaptiq/internal/logging"
)

// appState is the state PersistentPreRunE prepares for every subcommand.
type appState struct {
	cfg      config.Config
	logger   *zap.Logger
	closeLog func() error
}

var rt = appState{logger: zap.NewNop(), closeLog: func() error { return nil }}

var rootCmd = &cobra.Command{
	Use:   "adaptiq",
	Short: "Adaptive arithmetic practice in the terminal",
	Long: "adaptiq serves arithmetic puzzles and moves between Easy, Medium and Hard " +
		"based on how accurately and quickly you answer.",
	SilenceUsage:      true,
	PersistentPreRunE: initRuntime,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return rt.closeLog()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Path to TOML config file (default $XDG_CONFIG_HOME/adaptiq/config.toml)")
	pf.String("db", "", "Path to SQLite database file (overrides ADAPTIQ_DB env var)")
	pf.String("log-level", "", "Log level: debug, info, warn or error")

	rootCmd.AddCommand(consoleCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(trainCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// initRuntime loads the configuration and builds the logger. Flags win over the
// environment, which wins over the config file.
func initRuntime(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if v, _ := cmd.Flags().GetString("db"); v != "" {
		cfg.DBPath = v
	}
	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		cfg.LogLevel = v
	}

	logger, closeLog, err := logging.New(logging.Options{File: cfg.LogFile, Level: cfg.LogLevel})
	if err != nil {
		return err
	}
	rt = appState{cfg: cfg, logger: logger, closeLog: closeLog}
	logger.Debug("config loaded",
		zap.String("user", cfg.User),
		zap.String("strategy", string(cfg.Strategy)),
		zap.String("db", cfg.DBPath),
	)
	return nil
}

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()
	st, err := openStore(rt.cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	newController, err := controllerFactory(rt.cfg, rt.logger)
	if err != nil {
		return err
	}

	repo := st.EventRepo()
	return app.Run(ctx, app.Options{
		Config:        rt.cfg,
		Repo:          repo,
		Coach:         newCoach(ctx, rt.cfg, repo, rt.logger),
		NewController: newController,
		Logger:        rt.logger,
	})
}
