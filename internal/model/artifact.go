// Package model loads the pretrained safety classifier artifact. The artifact
// is a YAML file bundling the embedding spec the feature extractor needs and
// the logistic head the risk classifier needs, so the two stay in lockstep.
package model

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	gateerrors "github.com/Pratyay-Mondal/tinder-practice-nlp/internal/errors"
)

// Lexicon is a named list of terms whose presence becomes one indicator
// feature appended after the hashed n-gram block.
type Lexicon struct {
	Name  string   `yaml:"name"`
	Terms []string `yaml:"terms"`
}

// EmbeddingSpec fixes the deterministic text representation: hashed unigrams
// and bigrams into Dim buckets plus one indicator per lexicon.
type EmbeddingSpec struct {
	Dim          int       `yaml:"dim"`
	HistoryTurns int       `yaml:"history_turns"`
	HistoryToken int       `yaml:"history_token_budget"`
	Lexicons     []Lexicon `yaml:"lexicons"`
}

// FeatureDim returns the full feature vector length produced by this spec.
func (s EmbeddingSpec) FeatureDim() int {
	return s.Dim + len(s.Lexicons)
}

// Head is the logistic regression head over the feature vector.
type Head struct {
	Weights []float64 `yaml:"weights"`
	Bias    float64   `yaml:"bias"`
}

// Artifact is the full pretrained model as persisted on disk.
type Artifact struct {
	Version   string        `yaml:"version"`
	Embedding EmbeddingSpec `yaml:"embedding"`
	Head      Head          `yaml:"head"`
}

// Load reads and validates a model artifact. Any missing or corrupt artifact
// is a ModelLoadError: fatal, the gate cannot operate without it. The file
// handle is released before returning; only the parsed model stays resident.
func Load(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &gateerrors.ModelLoadError{Path: path, Err: err}
	}

	var artifact Artifact
	if err := yaml.Unmarshal(data, &artifact); err != nil {
		return nil, &gateerrors.ModelLoadError{Path: path, Err: err}
	}

	if err := artifact.Validate(); err != nil {
		return nil, &gateerrors.ModelLoadError{Path: path, Err: err}
	}

	return &artifact, nil
}

// Validate checks internal consistency of the artifact.
func (a *Artifact) Validate() error {
	if a.Embedding.Dim <= 0 {
		return fmt.Errorf("embedding dim must be positive, got %d", a.Embedding.Dim)
	}
	if len(a.Head.Weights) == 0 {
		return fmt.Errorf("head has no weights")
	}
	if len(a.Head.Weights) != a.Embedding.FeatureDim() {
		return fmt.Errorf("head expects %d features, embedding produces %d",
			len(a.Head.Weights), a.Embedding.FeatureDim())
	}
	for _, lex := range a.Embedding.Lexicons {
		if lex.Name == "" {
			return fmt.Errorf("lexicon with empty name")
		}
	}
	return nil
}
