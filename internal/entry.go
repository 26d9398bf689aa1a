// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/sync/errgroup"

	"github.com/starford/gebo/internal/api"
	"github.com/starford/gebo/internal/content"
	"github.com/starford/gebo/internal/generator"
	"github.com/starford/gebo/internal/index"
	"github.com/starford/gebo/internal/mcpserver"
	"github.com/starford/gebo/internal/noteservice"
	"github.com/starford/gebo/internal/storage"
	"github.com/starford/gebo/internal/topics"
)

// RunGenerate executes a single vault generation run and indexes the result.
func RunGenerate(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config
	logger := newLogger(cfg)

	store, err := openVault(cfg)
	if err != nil {
		return err
	}

	gen := newGenerator(cfg, store, logger)
	params := mergeParams(cfg, app.params)
	if params.Seed == 0 {
		params.Seed = time.Now().UnixNano()
	}

	logger.Info("Generating vault",
		slog.String("topic", params.MainTopic),
		slog.Int("notes", params.NoteCount),
		slog.Float64("density", params.Density),
		slog.Int64("seed", params.Seed),
		slog.String("vault_path", cfg.Vault.Path),
		slog.String("content_mode", cfg.LLM.Mode))

	report, err := gen.Run(ctx, params)
	if err != nil {
		return err
	}

	// Index the fresh vault so serve and mcp modes see it immediately.
	db, err := index.Open(cfg.SQLite.Path)
	if err != nil {
		return fmt.Errorf("init index: %w", err)
	}
	defer db.Close()
	if err := index.Sync(db, store, logger); err != nil {
		logger.Warn("index sync failed", slog.String("error", err.Error()))
	}

	logger.Info("Generation complete",
		slog.Int("notes", report.Notes),
		slog.Int("hubs", report.Hubs),
		slog.Int("edges", report.Edges),
		slog.Duration("duration", report.Duration))
	return nil
}

// RunServe starts the read-only HTTP API with the given options.
func RunServe(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config
	logger := newLogger(cfg)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("vault_path", cfg.Vault.Path),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.String("log_level", cfg.App.LogLevel.String()))

	store, err := openVault(cfg)
	if err != nil {
		return err
	}

	db, err := index.Open(cfg.SQLite.Path)
	if err != nil {
		return fmt.Errorf("init index: %w", err)
	}
	defer db.Close()

	if err := index.Sync(db, store, logger); err != nil {
		logger.Warn("initial sync failed", slog.String("error", err.Error()))
	}

	svc := noteservice.NewService(store, db)
	apiRouter := api.NewRouter(svc, cfg.Auth.AuthEnabled(), cfg.Auth.Token)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Keep the index in sync with external edits to the vault.
	g.Go(func() error {
		if err := index.Watch(gCtx, db, store, cfg.Vault.Path, logger); err != nil {
			logger.Warn("watcher stopped", slog.String("error", err.Error()))
		}
		return nil
	})

	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// RunMCP starts the MCP server on stdio with the given options.
func RunMCP(_ context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// Logs go to stderr: stdout carries the MCP protocol stream.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	store, err := openVault(cfg)
	if err != nil {
		return err
	}

	db, err := index.Open(cfg.SQLite.Path)
	if err != nil {
		return fmt.Errorf("init index: %w", err)
	}
	defer db.Close()

	if err := index.Sync(db, store, logger); err != nil {
		logger.Warn("initial sync failed", slog.String("error", err.Error()))
	}

	gen := newGenerator(cfg, store, logger)
	svc := noteservice.NewService(store, db)

	srv := mcpserver.New(gen, svc, store, db, logger, mcpserver.Defaults{
		NoteCount: cfg.Generator.NoteCount,
		Density:   cfg.Generator.Density,
		Workers:   cfg.LLM.Workers,
	})

	logger.Info("Starting MCP server on stdio",
		slog.String("vault_path", cfg.Vault.Path))

	return srv.ServeStdio()
}

// mergeParams overlays per-invocation inputs onto the configured generator
// defaults. Density is overlaid on set-ness rather than value so an explicit
// zero survives the merge.
func mergeParams(cfg *Config, p GenerateParams) generator.Params {
	params := generator.Params{
		MainTopic: p.MainTopic,
		NoteCount: cfg.Generator.NoteCount,
		Density:   cfg.Generator.Density,
		Seed:      cfg.Generator.Seed,
		Hubs:      cfg.Generator.Hubs,
		DegreeCap: cfg.Generator.DegreeCap,
		Workers:   cfg.LLM.Workers,
	}
	if p.NoteCount > 0 {
		params.NoteCount = p.NoteCount
	}
	if p.DensitySet {
		params.Density = p.Density
	}
	if p.Seed != 0 {
		params.Seed = p.Seed
	}
	return params
}

func newLogger(cfg *Config) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)
	return logger
}

func openVault(cfg *Config) (storage.Provider, error) {
	if err := os.MkdirAll(cfg.Vault.Path, 0o755); err != nil {
		return nil, fmt.Errorf("create vault dir: %w", err)
	}
	store, err := storage.NewFS(cfg.Vault.Path)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}
	return store, nil
}

func newGenerator(cfg *Config, store storage.Provider, logger *slog.Logger) *generator.Generator {
	var expander topics.Expander = topics.TemplateExpander{}
	var filler content.Filler = content.TemplateFiller{}

	if cfg.LLM.Mode == ContentModeOpenAI {
		clientCfg := openai.DefaultConfig(os.ExpandEnv(cfg.LLM.APIKey))
		if cfg.LLM.BaseURL != "" {
			clientCfg.BaseURL = cfg.LLM.BaseURL
		}
		client := openai.NewClientWithConfig(clientCfg)
		timeout := time.Duration(cfg.LLM.TimeoutSeconds) * time.Second
		expander = topics.NewLLMExpander(client, cfg.LLM.Model, logger)
		filler = content.NewLLMFiller(client, cfg.LLM.Model, timeout)
	}

	return generator.New(expander, filler, store, logger)
}
