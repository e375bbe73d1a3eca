package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Pratyay-Mondal/tinder-practice-nlp/internal/eval"
	"github.com/Pratyay-Mondal/tinder-practice-nlp/internal/retrieval"
)

func newBatchCommand(flags *rootFlags) *cobra.Command {
	var (
		personasPath  string
		contextsPath  string
		samplesPath   string
		exemplarsPath string
		outPath       string
		limit         int
		workers       int
	)

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Score a sample file and write per-message results",
		Long: `Run the rubric and the gate over every sample in a dataset. Each output
row carries the rubric scores, the overall quality score, and the full gate
record, one JSON object per line.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(flags)
			if err != nil {
				return err
			}

			personas, err := eval.ReadPersonas(personasPath)
			if err != nil {
				return err
			}
			contexts, err := eval.ReadContexts(contextsPath)
			if err != nil {
				return err
			}
			samples, err := eval.ReadSamples(samplesPath)
			if err != nil {
				return err
			}

			var index *retrieval.Index
			if exemplarsPath != "" {
				index, err = loadExemplars(cmd, a, exemplarsPath)
				if err != nil {
					return err
				}
			}

			runner := eval.NewRunner(a.gate, index, a.logger)
			results, err := runner.Run(cmd.Context(), personas, contexts, samples, eval.Options{
				Limit:   limit,
				Workers: workers,
			})
			if err != nil {
				return err
			}

			if outPath != "" {
				if err := eval.WriteJSONL(outPath, results); err != nil {
					return err
				}
				fmt.Printf("%s %d rows -> %s\n", green("wrote"), len(results), outPath)
			}

			summary := eval.Summarize(results)
			fmt.Print(renderMarkdown(eval.FormatMarkdown(summary)))
			return nil
		},
	}

	cmd.Flags().StringVar(&personasPath, "personas", "data/personas.json", "Personas file")
	cmd.Flags().StringVar(&contextsPath, "contexts", "data/contexts.jsonl", "Contexts file")
	cmd.Flags().StringVar(&samplesPath, "samples", "data/samples_batch.jsonl", "Samples file")
	cmd.Flags().StringVar(&exemplarsPath, "exemplars", "", "Optional labeled exemplar file for nearest-neighbor audit")
	cmd.Flags().StringVar(&outPath, "out", "runs/batch_results.jsonl", "Result file ('' to skip writing)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Evaluate at most N samples (0 = all)")
	cmd.Flags().IntVar(&workers, "workers", 4, "Concurrent workers")
	return cmd
}

// loadExemplars builds the in-memory nearest-neighbor index from a labeled
// sample file.
func loadExemplars(cmd *cobra.Command, a *app, path string) (*retrieval.Index, error) {
	rows, err := eval.ReadSamples(path)
	if err != nil {
		return nil, err
	}

	index, err := retrieval.NewIndex(a.extractor)
	if err != nil {
		return nil, err
	}
	exemplars := make([]retrieval.Exemplar, 0, len(rows))
	for _, row := range rows {
		if row.Label == "" {
			continue
		}
		exemplars = append(exemplars, retrieval.Exemplar{
			ID:    row.SampleID,
			Text:  row.UserText,
			Label: row.Label,
		})
	}
	if err := index.Add(cmd.Context(), exemplars); err != nil {
		return nil, err
	}
	a.logger.Info("loaded %d exemplars from %s", index.Count(), path)
	return index, nil
}
