package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pratyay-Mondal/tinder-practice-nlp/internal/gate"
	"github.com/Pratyay-Mondal/tinder-practice-nlp/internal/rules"
)

func TestDisabledMetricsAreNoops(t *testing.T) {
	m, err := NewMetrics(MetricsConfig{Enabled: false})
	require.NoError(t, err)

	// Must not panic with nil instruments.
	m.ObserveDecision(context.Background(), gate.Decision{Label: gate.LabelMove})
	m.ObserveLLMLatency(context.Background(), 0.5, "test")
}

func TestEnabledMetricsRecordDecisions(t *testing.T) {
	m, err := NewMetrics(MetricsConfig{Enabled: true})
	require.NoError(t, err)

	m.ObserveDecision(context.Background(), gate.Decision{
		Label:    gate.LabelMove,
		Action:   gate.ActionSafeRepair,
		PMove:    0.9,
		RuleHits: []rules.Hit{{Rule: "coercion"}},
	})
	assert.NotNil(t, m.Handler())
}

func TestDisabledTracerIsNoop(t *testing.T) {
	tp, err := NewTracerProvider(TracingConfig{Enabled: false})
	require.NoError(t, err)

	ctx, span := tp.StartTurn(context.Background(), "s1")
	assert.NotNil(t, ctx)
	span.End()
	assert.NoError(t, tp.Shutdown(context.Background()))
}

func TestUnsupportedExporterFails(t *testing.T) {
	_, err := NewTracerProvider(TracingConfig{Enabled: true, Exporter: "jaeger9"})
	assert.Error(t, err)
}
