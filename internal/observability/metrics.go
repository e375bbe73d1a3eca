// Package observability provides metrics and tracing for the gate and its
// collaborators. Metrics are exported in Prometheus format via an OTel
// meter; tracing supports otlp and zipkin exporters.
package observability

import (
	"context"
	"fmt"
	"net/http"

	promclient "github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/Pratyay-Mondal/tinder-practice-nlp/internal/gate"
)

// MetricsConfig configures the metrics collector.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Metrics collects gate and LLM metrics. A disabled collector is a cheap
// no-op, so call sites never need nil checks.
type Metrics struct {
	enabled bool

	decisions  metric.Int64Counter
	ruleHits   metric.Int64Counter
	pMove      metric.Float64Histogram
	llmLatency metric.Float64Histogram
}

// NewMetrics creates a metrics collector backed by a Prometheus exporter.
func NewMetrics(config MetricsConfig) (*Metrics, error) {
	if !config.Enabled {
		return &Metrics{}, nil
	}

	exporter, err := prometheus.New()
	if err != nil {
		return nil, fmt.Errorf("create prometheus exporter: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
	otel.SetMeterProvider(provider)
	meter := provider.Meter("practicebot")

	decisions, err := meter.Int64Counter(
		"practicebot.gate.decisions.total",
		metric.WithDescription("Gate decisions by label and action"),
		metric.WithUnit("{decision}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create decisions counter: %w", err)
	}

	ruleHits, err := meter.Int64Counter(
		"practicebot.gate.rule_hits.total",
		metric.WithDescription("Escalation rule hits by rule name"),
		metric.WithUnit("{hit}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create rule hits counter: %w", err)
	}

	pMove, err := meter.Float64Histogram(
		"practicebot.gate.p_move",
		metric.WithDescription("Classifier risk score distribution"),
	)
	if err != nil {
		return nil, fmt.Errorf("create p_move histogram: %w", err)
	}

	llmLatency, err := meter.Float64Histogram(
		"practicebot.llm.latency",
		metric.WithDescription("LLM completion latency"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("create llm latency histogram: %w", err)
	}

	return &Metrics{
		enabled:    true,
		decisions:  decisions,
		ruleHits:   ruleHits,
		pMove:      pMove,
		llmLatency: llmLatency,
	}, nil
}

// ObserveDecision implements gate.Observer.
func (m *Metrics) ObserveDecision(ctx context.Context, decision gate.Decision) {
	if !m.enabled {
		return
	}
	m.decisions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("label", string(decision.Label)),
		attribute.String("action", string(decision.Action)),
	))
	m.pMove.Record(ctx, decision.PMove)
	for _, hit := range decision.RuleHits {
		m.ruleHits.Add(ctx, 1, metric.WithAttributes(attribute.String("rule", hit.Rule)))
	}
}

// ObserveLLMLatency records one completion's wall time.
func (m *Metrics) ObserveLLMLatency(ctx context.Context, seconds float64, model string) {
	if !m.enabled {
		return
	}
	m.llmLatency.Record(ctx, seconds, metric.WithAttributes(attribute.String("model", model)))
}

// Handler returns the Prometheus scrape handler.
func (m *Metrics) Handler() http.Handler {
	return promclient.Handler()
}
