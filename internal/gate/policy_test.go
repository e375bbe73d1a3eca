package gate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gateerrors "github.com/Pratyay-Mondal/tinder-practice-nlp/internal/errors"
	"github.com/Pratyay-Mondal/tinder-practice-nlp/internal/rules"
	"github.com/Pratyay-Mondal/tinder-practice-nlp/internal/templates"
)

func TestDecideLabelBoundary(t *testing.T) {
	cases := []struct {
		name      string
		pMove     float64
		hits      []rules.Hit
		threshold float64
		want      Label
	}{
		{"below threshold no hits", 0.44, nil, 0.45, LabelSafe},
		{"exactly at threshold", 0.45, nil, 0.45, LabelMove},
		{"above threshold", 0.46, nil, 0.45, LabelMove},
		{"below threshold with hit", 0.01, []rules.Hit{{Rule: "coercion"}}, 0.45, LabelMove},
		{"zero threshold", 0.0, nil, 0.0, LabelMove},
		{"threshold one", 0.999, nil, 1.0, LabelSafe},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			decision, err := Decide(tc.pMove, tc.hits, tc.threshold)
			require.NoError(t, err)
			assert.Equal(t, tc.want, decision.Label)
		})
	}
}

func TestActionAndTemplateTrackLabel(t *testing.T) {
	safe, err := Decide(0.05, nil, 0.45)
	require.NoError(t, err)
	assert.Equal(t, ActionPassToLLM, safe.Action)
	assert.Empty(t, safe.TemplateID)

	move, err := Decide(0.9, nil, 0.45)
	require.NoError(t, err)
	assert.Equal(t, ActionSafeRepair, move.Action)
	assert.Equal(t, templates.IDClassifierTriggered, move.TemplateID)
}

func TestDominantRuleSelectsTemplate(t *testing.T) {
	hits := []rules.Hit{
		{Rule: "personal_info_request", Match: "home address"},
		{Rule: "coercion", Match: "don't be shy"},
	}
	decision, err := Decide(0.1, hits, 0.45)
	require.NoError(t, err)
	assert.Equal(t, templates.IDPersonalInfoRequest, decision.TemplateID)

	// Hit order only moves the dominant template, never the label.
	reversed := []rules.Hit{hits[1], hits[0]}
	other, err := Decide(0.1, reversed, 0.45)
	require.NoError(t, err)
	assert.Equal(t, decision.Label, other.Label)
	assert.Equal(t, templates.IDCoercion, other.TemplateID)
}

func TestThresholdOutsideUnitIntervalFails(t *testing.T) {
	for _, threshold := range []float64{-0.01, 1.01, 2, -5} {
		_, err := Decide(0.5, nil, threshold)
		require.Error(t, err, "threshold %v", threshold)
		assert.True(t, gateerrors.IsInvalidConfig(err))
	}
}

func TestSourcesTagTriggers(t *testing.T) {
	decision, err := Decide(0.9, []rules.Hit{{Rule: "coercion"}}, 0.45)
	require.NoError(t, err)
	require.Len(t, decision.Sources, 2)
	assert.Equal(t, SourceClassifier, decision.Sources[0].Kind)
	assert.Equal(t, 0.9, decision.Sources[0].Score)
	assert.Equal(t, SourceRule, decision.Sources[1].Kind)
	assert.Equal(t, "coercion", decision.Sources[1].Rule)

	safe, err := Decide(0.05, nil, 0.45)
	require.NoError(t, err)
	assert.Empty(t, safe.Sources)
}
