package main

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/MatusOllah/slogcolor"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/rghosal/cvpilot/internal/ai"
	"github.com/rghosal/cvpilot/internal/config"
	"github.com/rghosal/cvpilot/internal/model"
	"github.com/rghosal/cvpilot/internal/notifier"
	"github.com/rghosal/cvpilot/internal/retry"
)

var (
	cfgPath string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "cvpilot",
	Short: "Tailor a CV and cover letter to a job posting",
	Long:  "CVpilot rewrites a résumé against a job description and drafts a matching cover letter.",
	// Default to `serve` so that `cvpilot` with no args starts the web UI.
	RunE: runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: CVPILOT_CONFIG env var or ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// loadConfig resolves the config path and parses it.
// Priority: explicit path arg > CVPILOT_CONFIG env var > "./config.yaml"
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		if env := os.Getenv("CVPILOT_CONFIG"); env != "" {
			path = env
		} else {
			path = "config.yaml"
		}
	}
	return config.Load(path)
}

func setupLogger(dbg bool) *slog.Logger {
	opts := slogcolor.DefaultOptions
	opts.Level = slog.LevelInfo
	if dbg {
		opts.Level = slog.LevelDebug
	}
	opts.MsgColor = color.New(color.FgCyan)
	opts.SrcFileMode = slogcolor.Nop
	return slog.New(slogcolor.NewHandler(os.Stderr, opts))
}

func setupProvider(cfg *config.Config, httpClient *http.Client, logger *slog.Logger) ai.Provider {
	var p ai.Provider = ai.NewOpenAIProvider(cfg.AI.BaseURL, cfg.AI.APIKey, cfg.AI.Model, httpClient)
	if cfg.AI.MaxRetries > 0 {
		p = retry.NewRetryProvider(p, cfg.AI.MaxRetries, 2*time.Second, logger)
	}
	return p
}

func setupNotifier(cfg *config.Config, httpClient *http.Client, logger *slog.Logger) model.Notifier {
	switch cfg.Notification.Type {
	case "webhook":
		logger.Info("using webhook notifier")
		return notifier.NewWebhookNotifier(cfg.Notification.WebhookURL, httpClient, logger)
	default:
		return notifier.NewLogNotifier(logger)
	}
}
