// main is the entry point of the students HTTP API.
//
// STARTUP SEQUENCE:
//  1. Load configuration from a YAML file
//  2. Initialise the logger
//  3. Open storage and load the roster into the manager
//  4. Build the query agent (keyword rules or ollama)
//  5. Register all HTTP routes
//  6. Start the HTTP server in a separate goroutine
//  7. Block the main goroutine until an OS signal (Ctrl+C / kill) arrives
//  8. Gracefully shut down: finish in-flight requests, save the roster, exit
//
// RUNNING THE SERVER:
//
//	go run ./cmd/students-api --config=config/local.yaml
//
// or (with the environment variable):
//
//	CONFIG_PATH=config/local.yaml go run ./cmd/students-api
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aanand-mishra/student-management/internal/config"
	"github.com/aanand-mishra/student-management/internal/http/handlers/student"
	"github.com/aanand-mishra/student-management/internal/manager"
	"github.com/aanand-mishra/student-management/internal/query"
	"github.com/aanand-mishra/student-management/internal/storage"
	"github.com/aanand-mishra/student-management/internal/storage/memory"
	"github.com/aanand-mishra/student-management/internal/storage/sqlite"
)

func main() {
	// ── 1. Load Config ────────────────────────────────────────────────────
	// MustLoad reads the YAML config and panics if anything is wrong.
	// The name "Must" signals: if this returns, config is guaranteed valid.
	cfg := config.MustLoad()

	// ── 2. Initialise Logger ──────────────────────────────────────────────
	// slog is Go's structured logger (stdlib since Go 1.21).
	// Structured logging writes key=value pairs rather than plain strings,
	// making logs easy to filter/search in tools like Loki or Datadog.
	log := setupLogger(cfg.Env)

	log.Info("starting students-api",
		slog.String("env", cfg.Env),
		slog.String("version", "1.0.0"),
	)

	// ── 3. Initialise Storage and Manager ─────────────────────────────────
	// We hold the result as the storage.Storage INTERFACE, not a concrete
	// type — swapping backends later only touches this block.
	var store storage.Storage
	if cfg.StoragePath != "" {
		db, err := sqlite.New(cfg.StoragePath)
		if err != nil {
			log.Error("failed to initialise storage",
				slog.String("error", err.Error()))
			os.Exit(1) // non-zero exit code signals failure to the OS / CI system
		}
		defer db.Close()
		store = db
		log.Info("storage initialised", slog.String("path", cfg.StoragePath))
	} else {
		store = memory.New()
		log.Warn("no storage_path configured, roster will not survive restarts")
	}

	// ── 4. Build the Query Agent ──────────────────────────────────────────
	agent := buildAgent(cfg, log)

	mgr, err := manager.New(context.Background(), store, agent)
	if err != nil {
		log.Error("failed to load roster", slog.String("error", err.Error()))
		os.Exit(1)
	}
	log.Info("roster loaded", slog.Int("students", mgr.Count()))

	// ── 5. Register HTTP Routes ───────────────────────────────────────────
	// The handler functions (student.New, student.GetBySID, etc.) are
	// FACTORIES — they receive the manager and return the actual handler.
	// This is the dependency injection / closure pattern.
	//
	// Route table:
	//   POST   /api/students          → create a new student
	//   GET    /api/students          → list all students
	//   GET    /api/students/query    → natural-language query
	//   GET    /api/students/{sid}    → get one student by SID
	//   PUT    /api/students/{sid}    → update a student
	//   DELETE /api/students/{sid}    → delete a student
	//   POST   /api/save              → snapshot the roster to storage
	//
	// The literal "query" segment is more specific than the {sid}
	// wildcard, so Go's ServeMux routes it first.
	router := http.NewServeMux()

	router.HandleFunc("POST /api/students", student.New(mgr))
	router.HandleFunc("GET /api/students", student.GetList(mgr))
	router.HandleFunc("GET /api/students/query", student.Query(mgr))
	router.HandleFunc("GET /api/students/{sid}", student.GetBySID(mgr))
	router.HandleFunc("PUT /api/students/{sid}", student.Update(mgr))
	router.HandleFunc("DELETE /api/students/{sid}", student.Delete(mgr))
	router.HandleFunc("POST /api/save", student.Save(mgr))

	// ── 6. Create the HTTP Server ─────────────────────────────────────────
	server := &http.Server{
		Addr:    cfg.HTTPServer.Addr, // e.g. "localhost:8082"
		Handler: router,              // every request goes through our router

		// Production hardening — set timeouts to prevent slow-client attacks.
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// ── 7. Start Server in a Goroutine ────────────────────────────────────
	// ListenAndServe blocks forever (it loops accepting connections).
	// If we called it here in main(), the graceful-shutdown code below
	// would never run. So we run it in a separate goroutine.
	go func() {
		log.Info("server started", slog.String("address", cfg.HTTPServer.Addr))

		// ListenAndServe returns http.ErrServerClosed when Shutdown() is
		// called. That's expected — we don't want to log it as an error.
		if err := server.ListenAndServe(); err != nil &&
			err != http.ErrServerClosed {
			log.Error("server encountered an error",
				slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// ── 8. Wait for Shutdown Signal ───────────────────────────────────────
	// Buffered so we don't miss the signal if main is briefly busy.
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)
	<-done

	log.Info("shutdown signal received, stopping server...")

	// ── 9. Graceful Shutdown ──────────────────────────────────────────────
	// context.WithTimeout gives the shutdown a 5-second deadline.
	// If in-flight requests don't finish within 5 seconds,
	// the context cancels and Shutdown returns an error.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("failed to shutdown server gracefully",
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Persist whatever the API mutated before the process ends.
	if err := mgr.Save(ctx); err != nil {
		log.Error("failed to save roster on shutdown",
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info("server stopped gracefully")
}

// buildAgent picks the query agent from config. The rules agent is the
// fallback for every unrecognised provider so the server always starts.
func buildAgent(cfg *config.Config, log *slog.Logger) query.Agent {
	switch cfg.LLM.Provider {
	case "ollama":
		agent, err := query.NewOllamaAgent(cfg.LLM.Host, cfg.LLM.Model)
		if err != nil {
			log.Error("failed to build ollama agent, falling back to rules",
				slog.String("error", err.Error()))
			return query.NewRuleAgent()
		}
		log.Info("query agent: ollama", slog.String("model", cfg.LLM.Model))
		return agent
	default:
		log.Info("query agent: keyword rules")
		return query.NewRuleAgent()
	}
}

// setupLogger returns a *slog.Logger configured for the given environment.
//
// Development (dev): human-readable text output at DEBUG level.
// Production (prod): machine-readable JSON output at INFO level.
//
//	JSON logs are easy to ingest by log aggregators (Loki, CloudWatch, etc.)
func setupLogger(env string) *slog.Logger {
	switch env {
	case "prod":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelInfo, // INFO and above in production
			}),
		)
	case "staging":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelDebug, // more verbose in staging
			}),
		)
	default: // "dev" and anything unrecognised
		return slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelDebug, // all levels in development
			}),
		)
	}
}
