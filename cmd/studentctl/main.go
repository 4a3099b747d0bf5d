// main is the entry point of the interactive console front end.
//
// It shares the config file, storage, manager, and query agent with the
// HTTP server; only the presentation layer differs. The menu runs on
// stdin/stdout, so logs go to stderr to keep the prompts clean.
//
// RUNNING:
//
//	go run ./cmd/studentctl --config=config/local.yaml
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aanand-mishra/student-management/internal/cli"
	"github.com/aanand-mishra/student-management/internal/config"
	"github.com/aanand-mishra/student-management/internal/manager"
	"github.com/aanand-mishra/student-management/internal/query"
	"github.com/aanand-mishra/student-management/internal/storage"
	"github.com/aanand-mishra/student-management/internal/storage/memory"
	"github.com/aanand-mishra/student-management/internal/storage/sqlite"
)

func main() {
	cfg := config.MustLoad()

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn, // keep the console quiet unless something is wrong
	}))

	var store storage.Storage
	if cfg.StoragePath != "" {
		db, err := sqlite.New(cfg.StoragePath)
		if err != nil {
			log.Error("failed to initialise storage", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer db.Close()
		store = db
	} else {
		store = memory.New()
		log.Warn("no storage_path configured, roster will not survive exit")
	}

	agent := buildAgent(cfg, log)

	ctx := context.Background()
	mgr, err := manager.New(ctx, store, agent)
	if err != nil {
		log.Error("failed to load roster", slog.String("error", err.Error()))
		os.Exit(1)
	}

	console := cli.New(mgr, os.Stdin, os.Stdout)
	if err := console.Run(ctx); err != nil {
		log.Error("exit save failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// buildAgent picks the query agent from config, falling back to the
// keyword rules so the console always starts.
func buildAgent(cfg *config.Config, log *slog.Logger) query.Agent {
	if cfg.LLM.Provider == "ollama" {
		agent, err := query.NewOllamaAgent(cfg.LLM.Host, cfg.LLM.Model)
		if err != nil {
			log.Warn("ollama agent unavailable, using keyword rules",
				slog.String("error", err.Error()))
			return query.NewRuleAgent()
		}
		return agent
	}
	return query.NewRuleAgent()
}
