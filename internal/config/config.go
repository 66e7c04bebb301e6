// Package config loads application settings from defaults, a TOML file and
// ADAPTIQ_* environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/abhisek/adaptiq/internal/attempt"
	"github.com/abhisek/adaptiq/internal/difficulty"
)

// Strategy selects how the next tier is decided.
type Strategy string

const (
	StrategyRule Strategy = "rule"
	StrategyTree Strategy = "tree"
)

// Round count limits.
const (
	DefaultRounds = 5
	MinRounds     = 1
	MaxRounds     = 100
)

// Config is the resolved application configuration.
type Config struct {
	User         string
	Rounds       int
	InitialTier  difficulty.Tier
	Strategy     Strategy
	Window       int
	RetrainAfter int
	Seed         uint64
	ModelPath    string
	ExportDir    string
	DBPath       string
	LogFile      string
	LogLevel     string
	Coach        bool
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		User:         attempt.DefaultUser,
		Rounds:       DefaultRounds,
		InitialTier:  difficulty.Easy,
		Strategy:     StrategyRule,
		Window:       difficulty.DefaultWindowSize,
		RetrainAfter: difficulty.DefaultRetrainAfter,
		Seed:         difficulty.DefaultSeed,
		ModelPath:    DefaultModelPath(),
		ExportDir:    attempt.DefaultExportDir,
		LogFile:      DefaultLogPath(),
		LogLevel:     "info",
		Coach:        true,
	}
}

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Learner    LearnerConfig    `toml:"learner"`
	Difficulty DifficultyConfig `toml:"difficulty"`
	Storage    StorageConfig    `toml:"storage"`
	Log        LogConfig        `toml:"log"`
}

// LearnerConfig maps learner and session settings.
type LearnerConfig struct {
	Name   *string `toml:"name"`
	Rounds *int    `toml:"rounds"`
	Tier   *string `toml:"tier"`
	Coach  *bool   `toml:"coach"`
}

// DifficultyConfig maps difficulty controller settings.
type DifficultyConfig struct {
	Strategy     *string `toml:"strategy"`
	Window       *int    `toml:"window"`
	RetrainAfter *int    `toml:"retrain-after"`
	Seed         *int64  `toml:"seed"`
	ModelPath    *string `toml:"model-path"`
}

// StorageConfig maps file locations.
type StorageConfig struct {
	ExportDir *string `toml:"export-dir"`
	DB        *string `toml:"db"`
}

// LogConfig maps logging settings.
type LogConfig struct {
	File  *string `toml:"file"`
	Level *string `toml:"level"`
}

// LoadFile reads a TOML config from the given path. Missing file is not an error.
func LoadFile(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// Load resolves the configuration from defaults, the file at path and the
// environment. An empty path uses DefaultConfigPath.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultConfigPath()
	}
	fc, err := LoadFile(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()
	if err := cfg.apply(fc); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	if err := cfg.applyEnv(os.Getenv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) apply(fc FileConfig) error {
	if v := fc.Learner.Name; v != nil && strings.TrimSpace(*v) != "" {
		c.User = strings.TrimSpace(*v)
	}
	if v := fc.Learner.Rounds; v != nil {
		c.Rounds = *v
	}
	if v := fc.Learner.Tier; v != nil {
		t, err := difficulty.ParseTier(*v)
		if err != nil {
			return err
		}
		c.InitialTier = t
	}
	if v := fc.Learner.Coach; v != nil {
		c.Coach = *v
	}
	if v := fc.Difficulty.Strategy; v != nil {
		c.Strategy = Strategy(strings.ToLower(*v))
	}
	if v := fc.Difficulty.Window; v != nil {
		c.Window = *v
	}
	if v := fc.Difficulty.RetrainAfter; v != nil {
		c.RetrainAfter = *v
	}
	if v := fc.Difficulty.Seed; v != nil {
		if *v < 0 {
			return fmt.Errorf("seed must be non-negative, got %d", *v)
		}
		c.Seed = uint64(*v)
	}
	if v := fc.Difficulty.ModelPath; v != nil {
		c.ModelPath = *v
	}
	if v := fc.Storage.ExportDir; v != nil {
		c.ExportDir = *v
	}
	if v := fc.Storage.DB; v != nil {
		c.DBPath = *v
	}
	if v := fc.Log.File; v != nil {
		c.LogFile = *v
	}
	if v := fc.Log.Level; v != nil {
		c.LogLevel = *v
	}
	return nil
}

// applyEnv overlays ADAPTIQ_* environment variables.
func (c *Config) applyEnv(getenv func(string) string) error {
	if v := getenv("ADAPTIQ_USER"); v != "" {
		c.User = v
	}
	if v := getenv("ADAPTIQ_ROUNDS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("ADAPTIQ_ROUNDS: %w", err)
		}
		c.Rounds = n
	}
	if v := getenv("ADAPTIQ_TIER"); v != "" {
		t, err := difficulty.ParseTier(v)
		if err != nil {
			return fmt.Errorf("ADAPTIQ_TIER: %w", err)
		}
		c.InitialTier = t
	}
	if v := getenv("ADAPTIQ_STRATEGY"); v != "" {
		c.Strategy = Strategy(strings.ToLower(v))
	}
	if v := getenv("ADAPTIQ_MODEL"); v != "" {
		c.ModelPath = v
	}
	if v := getenv("ADAPTIQ_EXPORT_DIR"); v != "" {
		c.ExportDir = v
	}
	if v := getenv("ADAPTIQ_DB"); v != "" {
		c.DBPath = v
	}
	if v := getenv("ADAPTIQ_LOG_FILE"); v != "" {
		c.LogFile = v
	}
	if v := getenv("ADAPTIQ_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := getenv("ADAPTIQ_COACH"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("ADAPTIQ_COACH: %w", err)
		}
		c.Coach = b
	}
	return nil
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	var errs []error
	if c.Rounds < MinRounds || c.Rounds > MaxRounds {
		errs = append(errs, fmt.Errorf("rounds must be between %d and %d, got %d", MinRounds, MaxRounds, c.Rounds))
	}
	if !c.InitialTier.Valid() {
		errs = append(errs, fmt.Errorf("%w: %d", difficulty.ErrInvalidTier, int(c.InitialTier)))
	}
	switch c.Strategy {
	case StrategyRule, StrategyTree:
	default:
		errs = append(errs, fmt.Errorf("unknown strategy %q (want %q or %q)", c.Strategy, StrategyRule, StrategyTree))
	}
	if c.Window < 1 {
		errs = append(errs, fmt.Errorf("window must be positive, got %d", c.Window))
	}
	if c.RetrainAfter < 1 {
		errs = append(errs, fmt.Errorf("retrain-after must be positive, got %d", c.RetrainAfter))
	}
	if c.Strategy == StrategyTree && c.ModelPath == "" {
		errs = append(errs, errors.New("tree strategy requires a model path"))
	}
	return errors.Join(errs...)
}
