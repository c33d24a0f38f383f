package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ishankgp/brainstorming-agent/internal/model"
	"github.com/ishankgp/brainstorming-agent/internal/pipeline"
	"github.com/ishankgp/brainstorming-agent/internal/research"
	"github.com/ishankgp/brainstorming-agent/internal/session"
)

func generateCmd() *cobra.Command {
	var briefFile string
	var researchIDs []string
	var rawJSON bool
	cmd := &cobra.Command{
		Use:          "generate [brief]",
		Short:        "Generate five scored challenge statements from a marketing brief",
		Long:         "Generate five scored challenge statements from a marketing brief. The brief comes from the argument, --brief-file, or stdin.",
		SilenceUsage: true,
		Args:         cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			brief, err := readBrief(args, briefFile)
			if err != nil {
				return err
			}

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
			sessions := session.NewStore(storeDB)
			orchestrator := pipeline.NewOrchestrator(client, research.NewResolver(docs, client))

			sessionID := uuid.NewString()
			includeResearch := len(researchIDs) > 0
			if err := sessions.Create(cmd.Context(), sessionID, brief, includeResearch, researchIDs); err != nil {
				return err
			}
			recorder := session.NewRecorder(sessions, sessionID)

			enc := json.NewEncoder(os.Stdout)
			for ev := range orchestrator.Run(cmd.Context(), pipeline.RunInput{
				SessionID:       sessionID,
				Brief:           brief,
				IncludeResearch: includeResearch,
				ResearchRefs:    researchIDs,
			}) {
				recorder.Record(cmd.Context(), ev)
				if rawJSON {
					if err := enc.Encode(ev); err != nil {
						return err
					}
					continue
				}
				printEvent(ev)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&briefFile, "brief-file", "", "read the brief from a file")
	cmd.Flags().StringSliceVar(&researchIDs, "research", nil, "research document ids to ground generation")
	cmd.Flags().BoolVar(&rawJSON, "json", false, "emit the raw event stream as NDJSON")
	return cmd
}

func readBrief(args []string, briefFile string) (string, error) {
	var brief string
	switch {
	case len(args) == 1:
		brief = args[0]
	case briefFile != "":
		data, err := os.ReadFile(briefFile)
		if err != nil {
			return "", fmt.Errorf("read brief file: %w", err)
		}
		brief = string(data)
	default:
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read brief from stdin: %w", err)
		}
		brief = string(data)
	}
	brief = strings.TrimSpace(brief)
	if brief == "" {
		return "", fmt.Errorf("brief is empty")
	}
	return brief, nil
}

func printEvent(ev pipeline.Event) {
	switch data := ev.Data.(type) {
	case pipeline.DiagnosticData:
		fmt.Println(headerStyle.Render("Diagnostic"))
		fmt.Println(data.DiagnosticSummary)
		names := make([]string, 0, len(data.SelectedFormats))
		for _, id := range data.SelectedFormats {
			names = append(names, formatName(id))
		}
		fmt.Println(faintStyle.Render("Formats: " + strings.Join(names, ", ")))
		fmt.Println()
	case model.Statement:
		fmt.Print(renderMarkdown(statementMarkdown(data)))
	case model.TimingMetrics:
		fmt.Println(faintStyle.Render(fmt.Sprintf("Total %dms (diagnostic %dms, retrieval %dms)",
			data.TotalLatencyMS, data.DiagnosticMS, data.RetrievalMS)))
	case pipeline.CompleteData:
		fmt.Printf("Session %s saved.\n", data.SessionID)
	case pipeline.ErrorData:
		fmt.Println(recommendationStyles[model.Reject].Render("Run failed: " + data.Message))
	}
}
