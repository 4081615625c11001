package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/rghosal/cvpilot/internal/config"
	"github.com/rghosal/cvpilot/internal/model"
	"github.com/rghosal/cvpilot/internal/pipeline"
	"github.com/rghosal/cvpilot/internal/server"
	"github.com/rghosal/cvpilot/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web UI",
	Long:  "Serve the generation form; blocks until the listener fails.",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("config loaded",
		"addr", cfg.Server.Addr,
		"model", cfg.AI.Model,
		"links", len(cfg.Links),
		"max_words", cfg.Limits.MaxWords,
	)

	hist, err := openHistory(cfg, logger)
	if err != nil {
		logger.Error("failed to open history store", "error", err)
		os.Exit(1)
	}
	defer hist.Close()

	httpClient := &http.Client{Timeout: cfg.AI.Timeout}
	provider := setupProvider(cfg, httpClient, logger)
	n := setupNotifier(cfg, httpClient, logger)

	pl := pipeline.New(
		pipeline.NewAdaptStage(provider, cfg.Limits.MaxWords, logger),
		pipeline.NewLetterStage(provider, cfg.Links, logger),
		hist, n, cfg.Limits.MinChars, cfg.Limits.MaxChars, logger,
	)

	app := server.New(cfg, pl, logger)
	logger.Info("listening", "addr", cfg.Server.Addr)
	if err := app.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
	return nil
}

// openHistory opens the configured history store and prunes expired runs.
func openHistory(cfg *config.Config, logger *slog.Logger) (model.HistoryStore, error) {
	if cfg.History.Path == "" {
		return store.NewNopStore(), nil
	}
	s, err := store.NewSQLiteStore(cfg.History.Path)
	if err != nil {
		return nil, err
	}
	if cfg.History.Retention > 0 {
		if err := s.Cleanup(cfg.History.Retention); err != nil {
			logger.Warn("history cleanup failed", "error", err)
		}
	}
	return s, nil
}
