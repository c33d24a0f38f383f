package main

import (
	"context"
	"database/sql"

	"github.com/ishankgp/brainstorming-agent/internal/config"
	"github.com/ishankgp/brainstorming-agent/internal/db"
	"github.com/ishankgp/brainstorming-agent/internal/gemini"
)

func openDB(cfg config.Config) (*sql.DB, func(), error) {
	storeDB, err := db.Open(cfg.DBPath)
	if err != nil {
		return nil, func() {}, err
	}
	return storeDB, func() { _ = storeDB.Close() }, nil
}

func loadConfig() (config.Config, error) {
	return config.Load(cfgFile)
}

func newGeminiClient(ctx context.Context, cfg config.Config) (*gemini.Client, error) {
	if err := cfg.RequireAPIKey(); err != nil {
		return nil, err
	}
	return gemini.NewClient(ctx, cfg.APIKey, cfg.Model, cfg.CallTimeout())
}
