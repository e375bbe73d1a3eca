package eval

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Pratyay-Mondal/tinder-practice-nlp/internal/gate"
	"github.com/Pratyay-Mondal/tinder-practice-nlp/internal/logging"
	"github.com/Pratyay-Mondal/tinder-practice-nlp/internal/retrieval"
)

// Result is one batch-evaluation row: rubric scores plus the gate's
// auditable decision record for the same message.
type Result struct {
	RunID         string           `json:"run_id"`
	SampleID      string           `json:"sample_id"`
	ContextID     string           `json:"context_id"`
	UseCase       string           `json:"use_case"`
	PersonaID     string           `json:"persona_id,omitempty"`
	UserText      string           `json:"user_text,omitempty"`
	GoldLabel     string           `json:"gold_label,omitempty"`
	Scores        *Scores          `json:"scores,omitempty"`
	OCQ           float64          `json:"ocq"`
	SafeViolation int              `json:"safe_violation"`
	Record        *gate.Record     `json:"record,omitempty"`
	Nearest       *retrieval.Match `json:"nearest_exemplar,omitempty"`
	Timestamp     string           `json:"timestamp"`
	Error         string           `json:"error,omitempty"`
}

// Options configures a batch run.
type Options struct {
	Limit   int // 0 = all samples
	Workers int // concurrent workers; conversations are independent
}

// Runner evaluates samples against the gate and rubric. The gate's model is
// loaded once and shared read-only, so parallelizing across samples needs no
// locking.
type Runner struct {
	gate   *gate.Gate
	index  *retrieval.Index // optional
	logger logging.Logger
}

// NewRunner creates a batch runner. index may be nil to skip exemplar
// attachment.
func NewRunner(g *gate.Gate, index *retrieval.Index, logger logging.Logger) *Runner {
	return &Runner{
		gate:   g,
		index:  index,
		logger: logging.WithComponent(logging.OrNop(logger), "eval"),
	}
}

// Run scores every sample and returns rows in input order. Rows with missing
// context/persona references carry an error instead of scores, matching how
// annotation tooling expects data issues to surface.
func (r *Runner) Run(ctx context.Context, personas map[string]Persona, contexts map[string]Context, samples []Sample, opts Options) ([]Result, error) {
	if opts.Limit > 0 && opts.Limit < len(samples) {
		samples = samples[:opts.Limit]
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = 1
	}

	runID := fmt.Sprintf("batch_%d", time.Now().Unix())
	results := make([]Result, len(samples))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(workers)
	for i, sample := range samples {
		group.Go(func() error {
			results[i] = r.evaluate(groupCtx, runID, personas, contexts, sample)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	r.logger.Info("run %s scored %d samples", runID, len(results))
	return results, nil
}

func (r *Runner) evaluate(ctx context.Context, runID string, personas map[string]Persona, contexts map[string]Context, sample Sample) Result {
	result := Result{
		RunID:     runID,
		SampleID:  sample.SampleID,
		ContextID: sample.ContextID,
		UseCase:   sample.UseCase,
		GoldLabel: sample.Label,
		Timestamp: time.Now().Format(time.RFC3339),
	}

	sampleCtx, ok := contexts[sample.ContextID]
	if !ok {
		result.Error = fmt.Sprintf("missing context_id=%s", sample.ContextID)
		return result
	}
	result.UseCase = sampleCtx.UseCase
	result.PersonaID = sampleCtx.PersonaID

	persona, ok := personas[sampleCtx.PersonaID]
	if !ok {
		result.Error = fmt.Sprintf("missing persona_id=%s", sampleCtx.PersonaID)
		return result
	}

	scores := ScoreMessage(sample.UserText, persona, sampleCtx)
	result.UserText = sample.UserText
	result.Scores = &scores
	result.OCQ = scores.OCQ()
	if scores.SAFE == 0 {
		result.SafeViolation = 1
	}

	decision, err := r.gate.Decide(ctx, gate.Message{SampleID: sample.SampleID, Text: sample.UserText})
	if err != nil {
		result.Error = err.Error()
		return result
	}
	record := gate.BuildRecord(gate.Message{SampleID: sample.SampleID, Text: sample.UserText}, decision)
	result.Record = &record

	if r.index != nil {
		if matches, err := r.index.Nearest(ctx, sample.UserText, 1); err != nil {
			r.logger.Warn("exemplar lookup failed for %s: %v", sample.SampleID, err)
		} else if len(matches) > 0 {
			result.Nearest = &matches[0]
		}
	}

	return result
}

// SortByID orders results by sample id, which keeps result files diffable
// across runs with different worker counts.
func SortByID(results []Result) {
	sort.Slice(results, func(i, j int) bool {
		return results[i].SampleID < results[j].SampleID
	})
}
