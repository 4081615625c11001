package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rghosal/cvpilot/internal/history"
	"github.com/rghosal/cvpilot/internal/store"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse past generations interactively (TUI)",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 50, "maximum number of runs to show")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if cfg.History.Path == "" {
		fmt.Println("History is disabled in the config.")
		return nil
	}

	s, err := store.NewSQLiteStore(cfg.History.Path)
	if err != nil {
		logger.Error("failed to open history store", "error", err)
		os.Exit(1)
	}
	defer s.Close()

	return history.Run(s, historyLimit)
}
