package eval

import (
	"context"
	"fmt"
	"strings"

	"github.com/Pratyay-Mondal/tinder-practice-nlp/internal/gate"
)

// SweepPoint is the confusion-matrix summary at one threshold.
type SweepPoint struct {
	Threshold  float64 `json:"threshold"`
	TP         int     `json:"tp"`
	FP         int     `json:"fp"`
	TN         int     `json:"tn"`
	FN         int     `json:"fn"`
	Precision  float64 `json:"precision"`
	Recall     float64 `json:"recall"`
	F1         float64 `json:"f1"`
	RepairRate float64 `json:"repair_rate"`
}

// Sweep re-scores labeled samples at each threshold in grid. Features and
// rule hits do not depend on the threshold, so each sample is gated once per
// grid point against the same shared model. Samples without a SAFE/MOVE label
// are skipped.
func Sweep(ctx context.Context, g *gate.Gate, samples []Sample, grid []float64) ([]SweepPoint, error) {
	if len(grid) == 0 {
		return nil, fmt.Errorf("sweep: empty threshold grid")
	}

	labeled := make([]Sample, 0, len(samples))
	for _, sample := range samples {
		if sample.Label == string(gate.LabelSafe) || sample.Label == string(gate.LabelMove) {
			labeled = append(labeled, sample)
		}
	}
	if len(labeled) == 0 {
		return nil, fmt.Errorf("sweep: no labeled samples")
	}

	points := make([]SweepPoint, 0, len(grid))
	for _, threshold := range grid {
		point := SweepPoint{Threshold: threshold}
		for _, sample := range labeled {
			decision, err := g.DecideWithThreshold(ctx, gate.Message{SampleID: sample.SampleID, Text: sample.UserText}, threshold)
			if err != nil {
				return nil, fmt.Errorf("sweep %s at %.2f: %w", sample.SampleID, threshold, err)
			}
			predictedMove := decision.Label == gate.LabelMove
			goldMove := sample.Label == string(gate.LabelMove)
			switch {
			case predictedMove && goldMove:
				point.TP++
			case predictedMove && !goldMove:
				point.FP++
			case !predictedMove && goldMove:
				point.FN++
			default:
				point.TN++
			}
		}

		total := float64(len(labeled))
		point.RepairRate = float64(point.TP+point.FP) / total
		if point.TP+point.FP > 0 {
			point.Precision = float64(point.TP) / float64(point.TP+point.FP)
		}
		if point.TP+point.FN > 0 {
			point.Recall = float64(point.TP) / float64(point.TP+point.FN)
		}
		if point.Precision+point.Recall > 0 {
			point.F1 = 2 * point.Precision * point.Recall / (point.Precision + point.Recall)
		}
		points = append(points, point)
	}

	return points, nil
}

// DefaultGrid returns thresholds from start to stop inclusive in steps of
// step.
func DefaultGrid(start, stop, step float64) []float64 {
	if step <= 0 {
		return nil
	}
	var grid []float64
	for t := start; t <= stop+step/2; t += step {
		grid = append(grid, t)
	}
	return grid
}

// FormatSweep renders sweep points as a markdown table.
func FormatSweep(points []SweepPoint) string {
	var sb strings.Builder
	sb.WriteString("| Threshold | Precision | Recall | F1 | Repair rate |\n")
	sb.WriteString("|-----------|-----------|--------|----|-------------|\n")
	for _, p := range points {
		sb.WriteString(fmt.Sprintf("| %.2f | %.3f | %.3f | %.3f | %.1f%% |\n",
			p.Threshold, p.Precision, p.Recall, p.F1, 100*p.RepairRate))
	}
	return sb.String()
}
