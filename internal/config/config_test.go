package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cfgerrors "github.com/Pratyay-Mondal/tinder-practice-nlp/internal/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "practicebot-config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFileAppliesValues(t *testing.T) {
	path := writeConfig(t, `
threshold: 0.6
model_path: models/test.yaml
persona: flirty_adult_ok
rules:
  only_rule: "come over tonight"
llm:
  provider: mock
  model: test-model
server:
  port: 9999
`)

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 0.6, cfg.Threshold)
	assert.Equal(t, "models/test.yaml", cfg.ModelPath)
	assert.Equal(t, "flirty_adult_ok", cfg.Persona)
	assert.Equal(t, map[string]string{"only_rule": "come over tonight"}, cfg.Rules)
	assert.Equal(t, "test-model", cfg.LLM.Model)
	assert.Equal(t, 9999, cfg.Server.Port)
}

func TestLoadFileDefaults(t *testing.T) {
	path := writeConfig(t, "persona: friendly\n")

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultThreshold, cfg.Threshold)
	assert.Equal(t, DefaultModelPath, cfg.ModelPath)
	// Empty rules fall back to the built-in escalation set.
	assert.NotEmpty(t, cfg.Rules)
	assert.Contains(t, cfg.Rules, "personal_info_request")
}

func TestLoadFileRejectsOutOfRangeThreshold(t *testing.T) {
	for _, raw := range []string{"threshold: 1.5\n", "threshold: -0.2\n"} {
		path := writeConfig(t, raw)
		_, err := LoadFile(path)
		require.Error(t, err, raw)
		assert.True(t, cfgerrors.IsInvalidConfig(err))
	}
}

func TestValidateRejectsEmptyRulePattern(t *testing.T) {
	cfg := &Config{
		Threshold: 0.45,
		ModelPath: "m.yaml",
		Rules:     map[string]string{"bad": "  "},
	}
	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, cfgerrors.IsInvalidConfig(err))
}
