package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/adaptiq/internal/difficulty"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)

	assert.Equal(t, "Learner", cfg.User)
	assert.Equal(t, DefaultRounds, cfg.Rounds)
	assert.Equal(t, difficulty.Easy, cfg.InitialTier)
	assert.Equal(t, StrategyRule, cfg.Strategy)
	assert.Equal(t, 3, cfg.Window)
	assert.Equal(t, 30, cfg.RetrainAfter)
	assert.Equal(t, uint64(42), cfg.Seed)
	assert.Equal(t, "logs", cfg.ExportDir)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
[learner]
name = "Ada"
rounds = 12
tier = "hard"
coach = false

[difficulty]
strategy = "Tree"
window = 4
retrain-after = 10
seed = 7
model-path = "/tmp/model.json"

[storage]
export-dir = "out"
db = "/tmp/a.db"

[log]
level = "debug"
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "Ada", cfg.User)
	assert.Equal(t, 12, cfg.Rounds)
	assert.Equal(t, difficulty.Hard, cfg.InitialTier)
	assert.False(t, cfg.Coach)
	assert.Equal(t, StrategyTree, cfg.Strategy)
	assert.Equal(t, 4, cfg.Window)
	assert.Equal(t, 10, cfg.RetrainAfter)
	assert.Equal(t, uint64(7), cfg.Seed)
	assert.Equal(t, "/tmp/model.json", cfg.ModelPath)
	assert.Equal(t, "out", cfg.ExportDir)
	assert.Equal(t, "/tmp/a.db", cfg.DBPath)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "[learner]\nname = \"Ada\"\nrounds = 12\n")
	t.Setenv("ADAPTIQ_USER", "Grace")
	t.Setenv("ADAPTIQ_ROUNDS", "8")
	t.Setenv("ADAPTIQ_TIER", "2")
	t.Setenv("ADAPTIQ_EXPORT_DIR", "exports")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Grace", cfg.User)
	assert.Equal(t, 8, cfg.Rounds)
	assert.Equal(t, difficulty.Medium, cfg.InitialTier)
	assert.Equal(t, "exports", cfg.ExportDir)
}

func TestLoad_Errors(t *testing.T) {
	tests := map[string]string{
		"malformed":     "[learner\nname=",
		"bad tier":      "[learner]\ntier = \"expert\"\n",
		"bad strategy":  "[difficulty]\nstrategy = \"neural\"\n",
		"bad rounds":    "[learner]\nrounds = 0\n",
		"bad window":    "[difficulty]\nwindow = 0\n",
		"negative seed": "[difficulty]\nseed = -1\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, content))
			assert.Error(t, err)
		})
	}
}

func TestLoad_BadEnv(t *testing.T) {
	t.Setenv("ADAPTIQ_ROUNDS", "many")
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}

func TestXDGPaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/cfg")
	t.Setenv("XDG_DATA_HOME", "/data")

	assert.Equal(t, filepath.Join("/cfg", "adaptiq", "config.toml"), DefaultConfigPath())
	assert.Equal(t, filepath.Join("/data", "adaptiq", "model_adaptive_dt.json"), DefaultModelPath())
	assert.Equal(t, filepath.Join("/data", "adaptiq", "adaptiq.log"), DefaultLogPath())
}
