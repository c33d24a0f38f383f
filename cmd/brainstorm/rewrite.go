package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ishankgp/brainstorming-agent/internal/pipeline"
)

func rewriteCmd() *cobra.Command {
	var brief string
	var instruction string
	cmd := &cobra.Command{
		Use:          "rewrite <statement>",
		Short:        "Rewrite a challenge statement, optionally following an instruction",
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

			rewritten := pipeline.NewRewriter(client).Rewrite(cmd.Context(), args[0], brief, instruction)
			fmt.Println(rewritten)
			return nil
		},
	}
	cmd.Flags().StringVar(&brief, "brief", "", "brief context for the rewrite")
	cmd.Flags().StringVar(&instruction, "instruction", "", "how to change the statement")
	return cmd
}
