package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/roadmap-generator/internal/types"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Suggest technology domains for a profile",
	Long:  "Read a profile JSON file (as written by \"analyze\") and suggest technology domains to learn next.",
	RunE:  runRecommend,
}

var (
	recommendProfileFile string
	recommendOutputFile  string
)

func init() {
	recommendCmd.Flags().StringVarP(&recommendProfileFile, "profile", "p", "", "Path to profile JSON file (required)")
	recommendCmd.Flags().StringVarP(&recommendOutputFile, "out", "o", "", "Path to output JSON file (default stdout)")
	_ = recommendCmd.MarkFlagRequired("profile")

	rootCmd.AddCommand(recommendCmd)
}

func runRecommend(cmd *cobra.Command, _ []string) error {
	var profile types.Profile
	if err := readJSON(recommendProfileFile, &profile); err != nil {
		return err
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

	recs, err := a.analyzer.RecommendDomains(cmd.Context(), profile)
	if err != nil {
		return fmt.Errorf("failed to recommend domains: %w", err)
	}

	verbosePrinter(cmd, cfg.Verbose).PrintRecommendations(recs)
	return writeJSON(cmd, recommendOutputFile, recs)
}
