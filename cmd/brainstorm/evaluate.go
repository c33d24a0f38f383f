package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ishankgp/brainstorming-agent/internal/pipeline"
)

func evaluateCmd() *cobra.Command {
	var brief string
	cmd := &cobra.Command{
		Use:          "evaluate <statement>",
		Short:        "Score a single challenge statement on the eight dimensions",
		SilenceUsage: true,
		Args:         cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			client, err := newGeminiClient(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			ev := pipeline.NewEvaluator(client).Evaluate(cmd.Context(), args[0], brief, false)
			fmt.Print(renderMarkdown(evaluationMarkdown(ev)))
			fmt.Println("Recommendation:", renderRecommendation(ev.Recommendation))
			return nil
		},
	}
	cmd.Flags().StringVar(&brief, "brief", "", "brief context for the evaluation")
	return cmd
}
