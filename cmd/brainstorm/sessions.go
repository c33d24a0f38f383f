package main

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ishankgp/brainstorming-agent/internal/session"
)

func sessionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Manage stored generation sessions",
	}
	cmd.AddCommand(sessionsListCmd())
	cmd.AddCommand(sessionsShowCmd())
	cmd.AddCommand(sessionsDeleteCmd())
	return cmd
}

func sessionsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "list",
		Short:        "List stored sessions, newest first",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			storeDB, closeFn, err := openDB(cfg)
			if err != nil {
				return err
			}
			defer closeFn()

			sums, err := session.NewStore(storeDB).List(cmd.Context())
			if err != nil {
				return err
			}
			if len(sums) == 0 {
				fmt.Println("No sessions.")
				return nil
			}
			for _, s := range sums {
				fmt.Printf("%s  %s  %-10s  %d statements\n  %s\n",
					s.ID, s.CreatedAt, s.Status, s.StatementCount, faintStyle.Render(s.BriefPreview))
			}
			return nil
		},
	}
}

func sessionsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "show <id>",
		Short:        "Show one session with its statements and scores",
		SilenceUsage: true,
		Args:         cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			storeDB, closeFn, err := openDB(cfg)
			if err != nil {
				return err
			}
			defer closeFn()

			sess, err := session.NewStore(storeDB).Get(cmd.Context(), args[0])
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("session %s not found", args[0])
			}
			if err != nil {
				return err
			}

			fmt.Println(headerStyle.Render("Session " + sess.ID))
			fmt.Printf("Status: %s  Created: %s\n\n", sess.Status, sess.CreatedAt)
			fmt.Println(sess.BriefText)
			fmt.Println()
			if sess.DiagnosticSummary != "" {
				fmt.Println(headerStyle.Render("Diagnostic"))
				fmt.Println(sess.DiagnosticSummary)
				fmt.Println()
			}
			for _, st := range sess.Statements {
				fmt.Print(renderMarkdown(statementMarkdown(st)))
			}
			if sess.Timing != nil {
				fmt.Println(faintStyle.Render(fmt.Sprintf("Total %dms (diagnostic %dms, retrieval %dms)",
					sess.Timing.TotalLatencyMS, sess.Timing.DiagnosticMS, sess.Timing.RetrievalMS)))
			}
			return nil
		},
	}
}

func sessionsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "delete <id>",
		Short:        "Delete a session and its statements",
		SilenceUsage: true,
		Args:         cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			storeDB, closeFn, err := openDB(cfg)
			if err != nil {
				return err
			}
			defer closeFn()

			err = session.NewStore(storeDB).Delete(cmd.Context(), args[0])
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("session %s not found", args[0])
			}
			if err != nil {
				return err
			}
			fmt.Println("Deleted", args[0])
			return nil
		},
	}
}
