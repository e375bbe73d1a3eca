package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gateerrors "github.com/Pratyay-Mondal/tinder-practice-nlp/internal/errors"
)

func writeArtifact(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadValidArtifact(t *testing.T) {
	path := writeArtifact(t, `
version: v0.3
embedding:
  dim: 4
  history_turns: 6
  history_token_budget: 256
  lexicons:
    - name: contact_pressure
      terms: ["address", "phone number"]
head:
  weights: [0.1, 0.2, 0.3, 0.4, 1.5]
  bias: -0.5
`)

	artifact, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 4, artifact.Embedding.Dim)
	assert.Equal(t, 5, artifact.Embedding.FeatureDim())
	assert.Len(t, artifact.Head.Weights, 5)
}

func TestLoadMissingFileIsModelLoadError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.True(t, gateerrors.IsModelLoad(err))
}

func TestLoadCorruptYAMLIsModelLoadError(t *testing.T) {
	path := writeArtifact(t, "embedding: [not a mapping")
	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, gateerrors.IsModelLoad(err))
}

func TestLoadRejectsDimensionDisagreement(t *testing.T) {
	path := writeArtifact(t, `
embedding:
  dim: 4
head:
  weights: [0.1, 0.2]
  bias: 0.0
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, gateerrors.IsModelLoad(err))
}
