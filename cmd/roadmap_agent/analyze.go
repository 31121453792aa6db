package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/roadmap-generator/internal/ingestion"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Extract a skill profile from a plain-text resume",
	Long:  "Analyze a plain-text resume and write the extracted profile as JSON. The output can be fed to \"recommend\" and \"generate\".",
	RunE:  runAnalyze,
}

var (
	analyzeInputFile  string
	analyzeOutputFile string
)

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeInputFile, "in", "i", "", "Path to plain-text or Markdown resume (required)")
	analyzeCmd.Flags().StringVarP(&analyzeOutputFile, "out", "o", "", "Path to output JSON file (default stdout)")
	_ = analyzeCmd.MarkFlagRequired("in")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	resume, err := ingestion.ReadResume(analyzeInputFile)
	if err != nil {
		return fmt.Errorf("failed to read resume file: %w", err)
	}

	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	a, err := newApp(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	a.log.Debug("resume loaded", "file", resume.FileName, "words", resume.WordCount)
	profile, err := a.analyzer.AnalyzeResume(cmd.Context(), resume.RawText)
	if err != nil {
		return fmt.Errorf("failed to analyze resume: %w", err)
	}

	verbosePrinter(cmd, cfg.Verbose).PrintProfile(profile)
	return writeJSON(cmd, analyzeOutputFile, profile)
}
