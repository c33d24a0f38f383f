package main

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/ishankgp/brainstorming-agent/internal/research"
)

func docsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "docs",
		Short: "Manage research documents",
	}
	cmd.AddCommand(docsAddCmd())
	cmd.AddCommand(docsListCmd())
	cmd.AddCommand(docsDeleteCmd())
	return cmd
}

func docsAddCmd() *cobra.Command {
	var name string
	var docType string
	var description string
	var upload bool
	cmd := &cobra.Command{
		Use:          "add <path>",
		Short:        "Register a research document",
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

			path, size, err := copyIntoDocsDir(args[0], cfg.DocsDir)
			if err != nil {
				return err
			}
			if name == "" {
				name = filepath.Base(args[0])
			}

			docs := research.NewStore(storeDB)
			id, err := docs.Add(cmd.Context(), research.Document{
				Name:        name,
				DocType:     docType,
				FileType:    strings.TrimPrefix(filepath.Ext(args[0]), "."),
				FilePath:    path,
				Description: description,
				SizeKB:      size / 1024,
			})
			if err != nil {
				return err
			}

			if upload {
				client, err := newGeminiClient(cmd.Context(), cfg)
				if err != nil {
					return err
				}
				if _, err := research.NewResolver(docs, client).Resolve(cmd.Context(), []string{id}); err != nil {
					return err
				}
			}
			fmt.Println("Added", id)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "display name (defaults to the file name)")
	cmd.Flags().StringVar(&docType, "type", "general", "document type, e.g. clinical-trial or market-research")
	cmd.Flags().StringVar(&description, "description", "", "short description")
	cmd.Flags().BoolVar(&upload, "upload", false, "push the file to the Gemini Files API immediately")
	return cmd
}

func copyIntoDocsDir(src, docsDir string) (string, int64, error) {
	if err := os.MkdirAll(docsDir, 0o755); err != nil {
		return "", 0, fmt.Errorf("create documents dir: %w", err)
	}
	in, err := os.Open(src)
	if err != nil {
		return "", 0, fmt.Errorf("open document: %w", err)
	}
	defer in.Close()

	dst := filepath.Join(docsDir, uuid.NewString()+filepath.Ext(src))
	out, err := os.Create(dst)
	if err != nil {
		return "", 0, fmt.Errorf("create document copy: %w", err)
	}
	defer out.Close()

	size, err := io.Copy(out, in)
	if err != nil {
		return "", 0, fmt.Errorf("copy document: %w", err)
	}
	return dst, size, nil
}

func docsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "list",
		Short:        "List research documents",
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

			docs, err := research.NewStore(storeDB).List(cmd.Context())
			if err != nil {
				return err
			}
			if len(docs) == 0 {
				fmt.Println("No documents.")
				return nil
			}
			for _, d := range docs {
				remote := ""
				if d.RemoteURI != "" {
					remote = "  uploaded"
				}
				fmt.Printf("%s  %-20s  %-16s  %dKB%s\n", d.ID, d.Name, d.DocType, d.SizeKB, remote)
			}
			return nil
		},
	}
}

func docsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "delete <id>",
		Short:        "Delete a research document",
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

			docs := research.NewStore(storeDB)
			doc, err := docs.Get(cmd.Context(), args[0])
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("document %s not found", args[0])
			}
			if err != nil {
				return err
			}

			if doc.RemoteName != "" && cfg.APIKey != "" {
				client, err := newGeminiClient(cmd.Context(), cfg)
				if err == nil {
					if err := client.DeleteFile(cmd.Context(), doc.RemoteName); err != nil {
						log.Warn().Err(err).Str("remote", doc.RemoteName).Msg("remote delete failed")
					}
				}
			}
			if err := docs.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			if doc.FilePath != "" {
				if err := os.Remove(doc.FilePath); err != nil && !os.IsNotExist(err) {
					log.Warn().Err(err).Str("path", doc.FilePath).Msg("remove file failed")
				}
			}
			fmt.Println("Deleted", args[0])
			return nil
		},
	}
}
