package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/roadmap-generator/internal/ingestion"
	"github.com/jonathan/roadmap-generator/internal/roadmap"
	"github.com/jonathan/roadmap-generator/internal/types"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a learning roadmap for a set of technologies",
	Long: `Generate a week-by-week learning roadmap for the selected technologies.

The candidate profile can come from a profile JSON file (as written by "analyze") or
be derived on the fly from a plain-text resume with --resume.`,
	RunE: runGenerate,
}

var (
	generateTools         []string
	generateHours         float64
	generateProfileFile   string
	generateResumeFile    string
	generateLearningStyle string
	generateDeadline      string
	generateOutputFile    string
)

func init() {
	generateCmd.Flags().StringSliceVarP(&generateTools, "tools", "t", nil, "Technologies to learn (comma-separated, required)")
	generateCmd.Flags().Float64Var(&generateHours, "hours", 10, "Hours available per week")
	generateCmd.Flags().StringVarP(&generateProfileFile, "profile", "p", "", "Path to profile JSON file")
	generateCmd.Flags().StringVarP(&generateResumeFile, "resume", "r", "", "Path to plain-text resume (analyzed before generating)")
	generateCmd.Flags().StringVar(&generateLearningStyle, "learning-style", "", "Learning style hint, e.g. Hands-on")
	generateCmd.Flags().StringVar(&generateDeadline, "deadline", "", "Target deadline, e.g. \"3 months\"")
	generateCmd.Flags().StringVarP(&generateOutputFile, "out", "o", "", "Path to output JSON file (default stdout)")

	_ = generateCmd.MarkFlagRequired("tools")
	generateCmd.MarkFlagsMutuallyExclusive("profile", "resume")

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	if generateHours <= 0 {
		return fmt.Errorf("--hours must be positive")
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

	printer := verbosePrinter(cmd, cfg.Verbose)
	ctx := cmd.Context()

	var profile types.Profile
	switch {
	case generateProfileFile != "":
		if err := readJSON(generateProfileFile, &profile); err != nil {
			return err
		}
	case generateResumeFile != "":
		resume, err := ingestion.ReadResume(generateResumeFile)
		if err != nil {
			return fmt.Errorf("failed to read resume file: %w", err)
		}
		analyzed, err := a.analyzer.AnalyzeResume(ctx, resume.RawText)
		if err != nil {
			return fmt.Errorf("failed to analyze resume: %w", err)
		}
		printer.PrintProfile(analyzed)
		profile = *analyzed
	}

	req := types.GenerateRequest{
		Profile:       profile,
		SelectedTools: generateTools,
		HoursPerWeek:  generateHours,
		LearningStyle: generateLearningStyle,
		Deadline:      generateDeadline,
	}

	result, err := a.generator.Generate(ctx, req, func(p roadmap.Progress) {
		a.log.Debug("generation progress", "stage", p.Stage, "attempt", p.Attempt)
	})
	if err != nil {
		var structural *roadmap.StructuralError
		if errors.As(err, &structural) {
			for _, msg := range structural.Errors {
				fmt.Fprintf(cmd.ErrOrStderr(), "  - %s\n", msg)
			}
		}
		return fmt.Errorf("failed to generate roadmap: %w", err)
	}

	printer.PrintRoadmap(result)
	printer.PrintWarnings(result.Warnings)

	return writeJSON(cmd, generateOutputFile, result)
}
