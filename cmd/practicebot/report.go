package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Pratyay-Mondal/tinder-practice-nlp/internal/eval"
)

func newReportCommand() *cobra.Command {
	var resultsPath string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarize a batch result file",
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := eval.ReadResults(resultsPath)
			if err != nil {
				return err
			}
			summary := eval.Summarize(results)

			if asJSON {
				data, err := json.MarshalIndent(summary, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(data))
				return nil
			}

			fmt.Print(renderMarkdown(eval.FormatMarkdown(summary)))
			return nil
		},
	}

	cmd.Flags().StringVar(&resultsPath, "results", "runs/batch_results.jsonl", "Result file from a batch run")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the summary as JSON")
	return cmd
}
