package main

import (
	"github.com/spf13/cobra"

	"github.com/ishankgp/brainstorming-agent/internal/logging"
)

var (
	cfgFile string
	debug   bool
	rootCmd = &cobra.Command{
		Use:   "brainstorm",
		Short: "brainstorm generates and scores strategic challenge statements from a marketing brief",
	}
)

// Execute runs the root command.
func Execute() error {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path (JSON)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		logging.Init(debug)
	}
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(generateCmd())
	rootCmd.AddCommand(evaluateCmd())
	rootCmd.AddCommand(rewriteCmd())
	rootCmd.AddCommand(sessionsCmd())
	rootCmd.AddCommand(docsCmd())
	return rootCmd.Execute()
}
