package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Pratyay-Mondal/tinder-practice-nlp/internal/eval"
)

func newSweepCommand(flags *rootFlags) *cobra.Command {
	var (
		samplesPath string
		start       float64
		stop        float64
		step        float64
	)

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Sweep the gate threshold over a labeled sample file",
		Long: `Re-gate every labeled sample at each threshold in a grid and report
precision, recall, F1, and the safe-repair rate per threshold. The model is
loaded once; only the cutoff varies.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(flags)
			if err != nil {
				return err
			}

			samples, err := eval.ReadSamples(samplesPath)
			if err != nil {
				return err
			}

			points, err := eval.Sweep(cmd.Context(), a.gate, samples, eval.DefaultGrid(start, stop, step))
			if err != nil {
				return err
			}

			fmt.Println(bold(fmt.Sprintf("Threshold sweep over %s", samplesPath)))
			fmt.Print(renderMarkdown(eval.FormatSweep(points)))
			return nil
		},
	}

	cmd.Flags().StringVar(&samplesPath, "samples", "data/samples_labeled.jsonl", "Labeled samples file")
	cmd.Flags().Float64Var(&start, "start", 0.20, "First threshold")
	cmd.Flags().Float64Var(&stop, "stop", 0.80, "Last threshold")
	cmd.Flags().Float64Var(&step, "step", 0.05, "Grid step")
	return cmd
}
