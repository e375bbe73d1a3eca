// Package classifier scores feature vectors with the pretrained logistic
// head from the model artifact. The model is loaded once at construction and
// is read-only afterwards, so a single classifier may serve any number of
// concurrent sessions.
package classifier

import (
	"fmt"
	"math"

	gateerrors "github.com/Pratyay-Mondal/tinder-practice-nlp/internal/errors"
	"github.com/Pratyay-Mondal/tinder-practice-nlp/internal/model"
)

// Classifier holds the in-memory logistic head. Score never re-reads the
// artifact; construction is the only load point.
type Classifier struct {
	weights []float64
	bias    float64
}

// New builds a classifier from a loaded artifact, checking that the head
// agrees with the embedding spec's output dimensionality. Disagreement fails
// fast rather than silently producing wrong scores.
func New(artifact *model.Artifact) (*Classifier, error) {
	want := artifact.Embedding.FeatureDim()
	if len(artifact.Head.Weights) != want {
		return nil, &gateerrors.FeatureDimensionMismatchError{
			Got:  want,
			Want: len(artifact.Head.Weights),
		}
	}
	return &Classifier{
		weights: artifact.Head.Weights,
		bias:    artifact.Head.Bias,
	}, nil
}

// NewFromPath loads the artifact at path and builds a classifier from it.
func NewFromPath(path string) (*Classifier, error) {
	artifact, err := model.Load(path)
	if err != nil {
		return nil, err
	}
	return New(artifact)
}

// Dim returns the feature vector length the classifier expects.
func (c *Classifier) Dim() int {
	return len(c.weights)
}

// Score returns p_move, the estimated probability that the message behind
// vec is a MOVE. The result is always in [0,1] and never NaN. Malformed
// vectors fail with ClassifierInferenceError; callers must treat that as a
// MOVE verdict, never as a pass-through.
func (c *Classifier) Score(vec []float64) (float64, error) {
	if len(vec) != len(c.weights) {
		return 0, &gateerrors.ClassifierInferenceError{
			Err: fmt.Errorf("vector length %d, want %d", len(vec), len(c.weights)),
		}
	}

	logit := c.bias
	for i, v := range vec {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, &gateerrors.ClassifierInferenceError{
				Err: fmt.Errorf("non-finite feature at index %d", i),
			}
		}
		logit += c.weights[i] * v
	}

	p := sigmoid(logit)
	if math.IsNaN(p) {
		return 0, &gateerrors.ClassifierInferenceError{Err: fmt.Errorf("non-finite score")}
	}
	return clamp01(p), nil
}

func sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
