package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/roadmap-generator/internal/catalog"
	"github.com/jonathan/roadmap-generator/internal/repair"
	"github.com/jonathan/roadmap-generator/internal/schemas"
	"github.com/jonathan/roadmap-generator/internal/types"
	"github.com/jonathan/roadmap-generator/internal/validation"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a roadmap JSON file",
	Long: `Check a roadmap against the structural rules and report content warnings.

With --tools, every resource URL must come from the catalog entries of those technologies.
With --repair, unverified, video and incomplete resources are replaced and the result is written to --out.`,
	RunE: runValidate,
}

var (
	validateRoadmapFile string
	validateTools       []string
	validateHours       float64
	validateSchema      bool
	validateRepair      bool
	validateOutputFile  string
)

func init() {
	validateCmd.Flags().StringVarP(&validateRoadmapFile, "roadmap", "r", "", "Path to roadmap JSON file (required)")
	validateCmd.Flags().StringSliceVarP(&validateTools, "tools", "t", nil, "Technologies whose catalog resources are the verified set")
	validateCmd.Flags().Float64Var(&validateHours, "hours", 10, "Hours per week the roadmap was planned for")
	validateCmd.Flags().BoolVar(&validateSchema, "schema", false, "Also check the JSON Schema")
	validateCmd.Flags().BoolVar(&validateRepair, "repair", false, "Repair resources before validating")
	validateCmd.Flags().StringVarP(&validateOutputFile, "out", "o", "", "Where to write the repaired roadmap (default stdout)")
	_ = validateCmd.MarkFlagRequired("roadmap")

	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	if validateRepair && len(validateTools) == 0 {
		return fmt.Errorf("--repair requires --tools")
	}

	var doc types.Document
	if err := readJSON(validateRoadmapFile, &doc); err != nil {
		return err
	}

	var verified []types.Resource
	if len(validateTools) > 0 {
		cat, err := catalog.Default()
		if err != nil {
			return err
		}
		verified = cat.ResourcesForTechnologies(validateTools)
		if len(verified) == 0 {
			return fmt.Errorf("no catalog resources for %v", validateTools)
		}
	}

	out := cmd.ErrOrStderr()
	if validateRepair {
		repaired, report := repair.Repair(doc, verified)
		for _, action := range report.Actions {
			fmt.Fprintf(out, "repaired %s (%s): %s\n", action.Location, action.Reason, action.Detail)
		}
		doc = repaired
	}

	var problems []string
	if validateSchema {
		if err := schemas.ValidateDocument(schemas.Roadmap, map[string]any(doc)); err != nil {
			var verr *schemas.ValidationError
			if !errors.As(err, &verr) {
				return err
			}
			problems = append(problems, verr.Messages()...)
		}
	}

	result := validation.ValidateStructure(doc, catalog.NewURLSet(verified))
	problems = append(problems, result.Errors...)

	for _, w := range validation.ValidateContent(doc, validateHours) {
		fmt.Fprintf(out, "warning: %s\n", w)
	}

	if len(problems) > 0 {
		fmt.Fprintln(out, "Validation failed:")
		for _, p := range problems {
			fmt.Fprintf(out, "  - %s\n", p)
		}
		return fmt.Errorf("%d validation error(s)", len(problems))
	}
	fmt.Fprintln(out, "Validation passed")

	if validateRepair {
		return writeJSON(cmd, validateOutputFile, doc)
	}
	return nil
}
