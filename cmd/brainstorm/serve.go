package main

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/ishankgp/brainstorming-agent/internal/pipeline"
	"github.com/ishankgp/brainstorming-agent/internal/research"
	"github.com/ishankgp/brainstorming-agent/internal/session"
	"github.com/ishankgp/brainstorming-agent/internal/web"
)

func serveCmd() *cobra.Command {
	var listen string
	cmd := &cobra.Command{
		Use:          "serve",
		Short:        "Start the HTTP API server",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			client, err := newGeminiClient(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			storeDB, closeFn, err := openDB(cfg)
			if err != nil {
				return err
			}
			defer closeFn()

			docs := research.NewStore(storeDB)
			resolver := research.NewResolver(docs, client)
			server := web.NewServer(
				pipeline.NewOrchestrator(client, resolver),
				pipeline.NewEvaluator(client),
				pipeline.NewRewriter(client),
				session.NewStore(storeDB),
				docs,
				client,
				cfg.DocsDir,
			)

			addr := cfg.Listen
			if listen != "" {
				addr = listen
			}
			fmt.Printf("Listening on %s\n", addr)
			return http.ListenAndServe(addr, server.Routes())
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "listen address (overrides config)")
	return cmd
}
