package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/roadmap-generator/internal/roadmap"
)

var estimateCmd = &cobra.Command{
	Use:   "estimate",
	Short: "Estimate the length of a roadmap",
	Long:  "Print how many weeks a roadmap for the given technologies would span, and how many of them are planned day by day. No model call is made.",
	RunE:  runEstimate,
}

var (
	estimateTools []string
	estimateHours float64
)

func init() {
	estimateCmd.Flags().StringSliceVarP(&estimateTools, "tools", "t", nil, "Technologies to learn (comma-separated, required)")
	estimateCmd.Flags().Float64Var(&estimateHours, "hours", 10, "Hours available per week")
	_ = estimateCmd.MarkFlagRequired("tools")

	rootCmd.AddCommand(estimateCmd)
}

func runEstimate(cmd *cobra.Command, _ []string) error {
	if estimateHours <= 0 {
		return fmt.Errorf("--hours must be positive")
	}

	total := roadmap.EstimateWeeks(len(estimateTools), estimateHours)
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Technologies:   %d\n", len(estimateTools))
	fmt.Fprintf(out, "Hours per week: %g\n", estimateHours)
	fmt.Fprintf(out, "Total weeks:    %d\n", total)
	fmt.Fprintf(out, "Detailed weeks: %d\n", roadmap.DetailedWeeks(total))
	return nil
}
