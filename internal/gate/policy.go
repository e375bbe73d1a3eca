package gate

import (
	"fmt"
	"math"

	gateerrors "github.com/Pratyay-Mondal/tinder-practice-nlp/internal/errors"
	"github.com/Pratyay-Mondal/tinder-practice-nlp/internal/rules"
	"github.com/Pratyay-Mondal/tinder-practice-nlp/internal/templates"
)

// Decide is the pure gating policy: label = MOVE iff pMove >= threshold or
// any rule fired. MOVE selects a repair template from the dominant (first)
// rule hit, or the generic classifier-triggered template when only the score
// tripped. A threshold outside [0,1] is an InvalidConfigError, never
// clamped: a misconfigured threshold is a safety bug that must surface.
func Decide(pMove float64, hits []rules.Hit, threshold float64) (Decision, error) {
	if err := ValidateThreshold(threshold); err != nil {
		return Decision{}, err
	}

	decision := Decision{
		Label:         LabelSafe,
		PMove:         pMove,
		Action:        ActionPassToLLM,
		RuleHits:      hits,
		ThresholdUsed: threshold,
	}

	if pMove >= threshold {
		decision.Label = LabelMove
		decision.Sources = append(decision.Sources, VerdictSource{
			Kind:  SourceClassifier,
			Score: pMove,
		})
	}
	for _, hit := range hits {
		decision.Label = LabelMove
		decision.Sources = append(decision.Sources, VerdictSource{
			Kind: SourceRule,
			Rule: hit.Rule,
		})
	}

	if decision.Label == LabelMove {
		decision.Action = ActionSafeRepair
		decision.TemplateID = selectTemplate(hits)
	}

	return decision, nil
}

// ValidateThreshold rejects thresholds outside [0,1] (and NaN).
func ValidateThreshold(threshold float64) error {
	if math.IsNaN(threshold) || threshold < 0 || threshold > 1 {
		return &gateerrors.InvalidConfigError{
			Field:  "threshold",
			Reason: fmt.Sprintf("%v is outside [0,1]", threshold),
		}
	}
	return nil
}

// selectTemplate maps the dominant rule hit to a template id. First rule hit
// wins; with no hits the repair is classifier-triggered.
func selectTemplate(hits []rules.Hit) string {
	if len(hits) > 0 {
		return templates.ForRule(hits[0].Rule)
	}
	return templates.IDClassifierTriggered
}
