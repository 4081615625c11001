package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rghosal/cvpilot/internal/ai"
	"github.com/rghosal/cvpilot/internal/export"
	"github.com/rghosal/cvpilot/internal/extract"
	"github.com/rghosal/cvpilot/internal/model"
	"github.com/rghosal/cvpilot/internal/pipeline"
	"github.com/rghosal/cvpilot/internal/store"
)

var (
	runCVPath    string
	runJobPath   string
	runOutDir    string
	runNoHistory bool
	runOffline   bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one generation from the terminal",
	Long:  "Read a CV and job description from files (.txt or .pdf), run the pipeline once, and print or write the results.",
	RunE:  runRun,
}

func init() {
	runCmd.Flags().StringVar(&runCVPath, "cv", "", "path to the CV (.txt or .pdf)")
	runCmd.Flags().StringVar(&runJobPath, "job", "", "path to the job description (.txt or .pdf)")
	runCmd.Flags().StringVar(&runOutDir, "out-dir", "", "write adapted_cv and cover_letter files here instead of stdout")
	runCmd.Flags().BoolVar(&runNoHistory, "no-history", false, "skip recording this run")
	runCmd.Flags().BoolVar(&runOffline, "offline", false, "use canned responses instead of calling the model")
	runCmd.MarkFlagRequired("cv")
	runCmd.MarkFlagRequired("job")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	cv, err := readInput(runCVPath)
	if err != nil {
		return fmt.Errorf("read cv: %w", err)
	}
	job, err := readInput(runJobPath)
	if err != nil {
		return fmt.Errorf("read job description: %w", err)
	}

	var hist model.HistoryStore
	if runNoHistory {
		hist = store.NewNopStore()
	} else {
		hist, err = openHistory(cfg, logger)
		if err != nil {
			logger.Error("failed to open history store", "error", err)
			os.Exit(1)
		}
	}
	defer hist.Close()

	httpClient := &http.Client{Timeout: cfg.AI.Timeout}
	var provider ai.Provider
	if runOffline {
		provider = ai.NewNopProvider()
	} else {
		provider = setupProvider(cfg, httpClient, logger)
	}
	n := setupNotifier(cfg, httpClient, logger)

	pl := pipeline.New(
		pipeline.NewAdaptStage(provider, cfg.Limits.MaxWords, logger),
		pipeline.NewLetterStage(provider, cfg.Links, logger),
		hist, n, cfg.Limits.MinChars, cfg.Limits.MaxChars, logger,
	)
	pl.OnStatus = func(s pipeline.Status) {
		logger.Debug("pipeline status", "status", string(s))
	}

	res, err := pl.Run(cmd.Context(), model.AdaptationRequest{CV: cv, JobDescription: job})
	if err != nil {
		return err
	}

	if runOutDir == "" {
		fmt.Println("=== Adapted CV ===")
		fmt.Println(res.AdaptedCV)
		fmt.Println()
		fmt.Println("=== Cover Letter ===")
		fmt.Println(res.CoverLetter)
		return nil
	}

	if err := os.MkdirAll(runOutDir, 0o755); err != nil {
		return fmt.Errorf("create out dir: %w", err)
	}
	if err := writeOutputs(runOutDir, "adapted_cv", "Adapted CV", res.AdaptedCV); err != nil {
		return err
	}
	if err := writeOutputs(runOutDir, "cover_letter", "Cover Letter", res.CoverLetter); err != nil {
		return err
	}
	logger.Info("outputs written", "dir", runOutDir, "run_id", res.ID)
	return nil
}

// readInput loads a text or PDF input file as plain text.
func readInput(path string) (string, error) {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return extract.TextFromFile(path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// writeOutputs writes both the .txt and .pdf renditions of one output.
func writeOutputs(dir, name, title, body string) error {
	txt, err := os.Create(filepath.Join(dir, name+".txt"))
	if err != nil {
		return err
	}
	defer txt.Close()
	if err := export.WriteText(txt, body); err != nil {
		return fmt.Errorf("write %s.txt: %w", name, err)
	}

	pdf, err := export.PDF(title, body)
	if err != nil {
		return fmt.Errorf("render %s.pdf: %w", name, err)
	}
	if err := os.WriteFile(filepath.Join(dir, name+".pdf"), pdf, 0o644); err != nil {
		return fmt.Errorf("write %s.pdf: %w", name, err)
	}
	return nil
}
