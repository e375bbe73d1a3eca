package eval

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Pratyay-Mondal/tinder-practice-nlp/internal/gate"
)

// UseCaseSummary aggregates one use case's rows.
type UseCaseSummary struct {
	Count         int     `json:"count"`
	MeanOCQ       float64 `json:"mean_ocq"`
	ViolationRate float64 `json:"violation_rate"`
	RepairRate    float64 `json:"repair_rate"`
}

// SourceBreakdown counts MOVE verdicts by what triggered them, for
// rules-only vs classifier-only ablations.
type SourceBreakdown struct {
	RuleOnly       int `json:"rule_only"`
	ClassifierOnly int `json:"classifier_only"`
	Both           int `json:"both"`
	Failsafe       int `json:"failsafe"`
}

// Summary is the dataset-level aggregate over a batch run.
type Summary struct {
	TotalRows     int                       `json:"total_rows"`
	ScoredRows    int                       `json:"scored_rows"`
	MeanOCQ       float64                   `json:"mean_ocq"`
	MedianOCQ     float64                   `json:"median_ocq"`
	MeanPMove     float64                   `json:"mean_p_move"`
	MedianPMove   float64                   `json:"median_p_move"`
	ViolationRate float64                   `json:"violation_rate"`
	RepairRate    float64                   `json:"repair_rate"`
	ByUseCase     map[string]UseCaseSummary `json:"by_use_case"`
	Sources       SourceBreakdown           `json:"sources"`
}

// Summarize aggregates batch results, skipping error rows.
func Summarize(results []Result) Summary {
	summary := Summary{
		TotalRows: len(results),
		ByUseCase: make(map[string]UseCaseSummary),
	}

	var ocqs, pMoves []float64
	var violations, repairs int
	type ucAcc struct {
		ocq              []float64
		violations, reps int
	}
	byUC := make(map[string]*ucAcc)

	for _, row := range results {
		if row.Error != "" || row.Scores == nil {
			continue
		}
		summary.ScoredRows++
		ocqs = append(ocqs, row.OCQ)
		violations += row.SafeViolation

		acc, ok := byUC[row.UseCase]
		if !ok {
			acc = &ucAcc{}
			byUC[row.UseCase] = acc
		}
		acc.ocq = append(acc.ocq, row.OCQ)
		acc.violations += row.SafeViolation

		if row.Record == nil {
			continue
		}
		pMoves = append(pMoves, row.Record.PMove)
		if row.Record.Action == gate.ActionSafeRepair {
			repairs++
			acc.reps++
			countSource(&summary.Sources, row.Record.Sources)
		}
	}

	if summary.ScoredRows == 0 {
		return summary
	}

	n := float64(summary.ScoredRows)
	summary.MeanOCQ = mean(ocqs)
	summary.MedianOCQ = median(ocqs)
	summary.MeanPMove = mean(pMoves)
	summary.MedianPMove = median(pMoves)
	summary.ViolationRate = float64(violations) / n
	summary.RepairRate = float64(repairs) / n

	for uc, acc := range byUC {
		count := len(acc.ocq)
		summary.ByUseCase[uc] = UseCaseSummary{
			Count:         count,
			MeanOCQ:       mean(acc.ocq),
			ViolationRate: float64(acc.violations) / float64(count),
			RepairRate:    float64(acc.reps) / float64(count),
		}
	}

	return summary
}

func countSource(breakdown *SourceBreakdown, sources []gate.VerdictSource) {
	var hasRule, hasClassifier, hasFailsafe bool
	for _, src := range sources {
		switch src.Kind {
		case gate.SourceRule:
			hasRule = true
		case gate.SourceClassifier:
			hasClassifier = true
		case gate.SourceFailsafe:
			hasFailsafe = true
		}
	}
	switch {
	case hasFailsafe:
		breakdown.Failsafe++
	case hasRule && hasClassifier:
		breakdown.Both++
	case hasRule:
		breakdown.RuleOnly++
	case hasClassifier:
		breakdown.ClassifierOnly++
	}
}

// FormatMarkdown renders a summary suitable for terminal display or a run
// log.
func FormatMarkdown(summary Summary) string {
	var sb strings.Builder

	sb.WriteString("## Batch Evaluation Summary\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Scored rows | %d / %d |\n", summary.ScoredRows, summary.TotalRows))
	sb.WriteString(fmt.Sprintf("| Mean OCQ | %.3f |\n", summary.MeanOCQ))
	sb.WriteString(fmt.Sprintf("| Median OCQ | %.3f |\n", summary.MedianOCQ))
	sb.WriteString(fmt.Sprintf("| Mean p_move | %.3f |\n", summary.MeanPMove))
	sb.WriteString(fmt.Sprintf("| Median p_move | %.3f |\n", summary.MedianPMove))
	sb.WriteString(fmt.Sprintf("| Safety violation rate | %.1f%% |\n", 100*summary.ViolationRate))
	sb.WriteString(fmt.Sprintf("| Safe-repair rate | %.1f%% |\n", 100*summary.RepairRate))

	if len(summary.ByUseCase) > 0 {
		sb.WriteString("\n### By use case\n\n")
		useCases := make([]string, 0, len(summary.ByUseCase))
		for uc := range summary.ByUseCase {
			useCases = append(useCases, uc)
		}
		sort.Strings(useCases)
		for _, uc := range useCases {
			s := summary.ByUseCase[uc]
			sb.WriteString(fmt.Sprintf("- %s: n=%d, mean_OCQ=%.3f, viol%%=%.1f, repair%%=%.1f\n",
				uc, s.Count, s.MeanOCQ, 100*s.ViolationRate, 100*s.RepairRate))
		}
	}

	sb.WriteString("\n### Repair triggers\n\n")
	sb.WriteString(fmt.Sprintf("- rule only: %d\n", summary.Sources.RuleOnly))
	sb.WriteString(fmt.Sprintf("- classifier only: %d\n", summary.Sources.ClassifierOnly))
	sb.WriteString(fmt.Sprintf("- both: %d\n", summary.Sources.Both))
	sb.WriteString(fmt.Sprintf("- failsafe: %d\n", summary.Sources.Failsafe))

	return sb.String()
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}
