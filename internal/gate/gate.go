package gate

import (
	"context"

	gateerrors "github.com/Pratyay-Mondal/tinder-practice-nlp/internal/errors"
	"github.com/Pratyay-Mondal/tinder-practice-nlp/internal/features"
	"github.com/Pratyay-Mondal/tinder-practice-nlp/internal/logging"
	"github.com/Pratyay-Mondal/tinder-practice-nlp/internal/rules"
	"github.com/Pratyay-Mondal/tinder-practice-nlp/internal/templates"
)

// Observer receives every decision the gate emits. Implemented by the
// observability package; a nil observer is ignored.
type Observer interface {
	ObserveDecision(ctx context.Context, decision Decision)
}

// Scorer is the classifier surface the gate needs. *classifier.Classifier
// implements it; tests substitute failing scorers to exercise the fail-safe
// path.
type Scorer interface {
	Score(vec []float64) (float64, error)
	Dim() int
}

// Gate wires the extractor, classifier, and rule engine behind one Decide
// call. The classifier handle is owned explicitly, not hidden in a global,
// so independent gates (e.g. different thresholds per evaluation run) can
// share one loaded model without cross-contamination. All fields are
// read-only after construction; a Gate is safe for concurrent sessions.
type Gate struct {
	extractor  *features.Extractor
	classifier Scorer
	engine     *rules.Engine
	threshold  float64
	logger     logging.Logger
	observer   Observer
}

// Option configures optional gate collaborators.
type Option func(*Gate)

// WithLogger attaches a logger.
func WithLogger(logger logging.Logger) Option {
	return func(g *Gate) { g.logger = logging.WithComponent(logger, "gate") }
}

// WithObserver attaches a decision observer.
func WithObserver(observer Observer) Option {
	return func(g *Gate) { g.observer = observer }
}

// New builds a gate. The session threshold is validated here and the
// extractor/classifier dimensions are checked so a wiring mistake fails at
// startup instead of producing silently wrong scores.
func New(extractor *features.Extractor, clf Scorer, engine *rules.Engine, threshold float64, opts ...Option) (*Gate, error) {
	if err := ValidateThreshold(threshold); err != nil {
		return nil, err
	}
	if extractor.Dim() != clf.Dim() {
		return nil, &gateerrors.FeatureDimensionMismatchError{
			Got:  extractor.Dim(),
			Want: clf.Dim(),
		}
	}

	g := &Gate{
		extractor:  extractor,
		classifier: clf,
		engine:     engine,
		threshold:  threshold,
		logger:     logging.Nop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Threshold returns the session threshold this gate was built with.
func (g *Gate) Threshold() float64 {
	return g.threshold
}

// Decide gates one message with the session threshold.
func (g *Gate) Decide(ctx context.Context, msg Message) (Decision, error) {
	return g.DecideWithThreshold(ctx, msg, g.threshold)
}

// DecideWithThreshold gates one message with an explicit threshold, which
// lets evaluation sweeps reuse one gate (and one loaded model) across a
// threshold grid.
//
// A classifier inference failure does not fail the call: the gate substitutes
// the conservative MOVE verdict so an unscored message is never passed to the
// language model.
func (g *Gate) DecideWithThreshold(ctx context.Context, msg Message, threshold float64) (Decision, error) {
	if err := ValidateThreshold(threshold); err != nil {
		return Decision{}, err
	}

	vec, err := g.extractor.Extract(msg.Text, msg.History)
	if err != nil {
		return Decision{}, err
	}

	hits := g.engine.Evaluate(msg.Text)

	var decision Decision
	pMove, err := g.classifier.Score(vec)
	if err != nil {
		if !gateerrors.IsInference(err) {
			return Decision{}, err
		}
		g.logger.Warn("classifier failed, substituting MOVE verdict: %v", err)
		decision = failsafeDecision(hits, threshold)
	} else {
		decision, err = Decide(pMove, hits, threshold)
		if err != nil {
			return Decision{}, err
		}
	}

	g.logger.Debug("sample=%s label=%s p_move=%.3f thr=%.2f action=%s hits=%d",
		msg.SampleID, decision.Label, decision.PMove, threshold, decision.Action, len(decision.RuleHits))
	if g.observer != nil {
		g.observer.ObserveDecision(ctx, decision)
	}
	return decision, nil
}

// failsafeDecision is the conservative verdict used when no score is
// available. PMove is pinned to 1.0 and the failsafe source marks the score
// as substituted rather than estimated.
func failsafeDecision(hits []rules.Hit, threshold float64) Decision {
	decision := Decision{
		Label:         LabelMove,
		PMove:         1.0,
		Action:        ActionSafeRepair,
		TemplateID:    templates.IDClassifierTriggered,
		RuleHits:      hits,
		ThresholdUsed: threshold,
		Sources:       []VerdictSource{{Kind: SourceFailsafe}},
	}
	if len(hits) > 0 {
		decision.TemplateID = templates.ForRule(hits[0].Rule)
		for _, hit := range hits {
			decision.Sources = append(decision.Sources, VerdictSource{Kind: SourceRule, Rule: hit.Rule})
		}
	}
	return decision
}
