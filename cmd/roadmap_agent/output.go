package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/roadmap-generator/internal/observability"
)

// writeJSON writes v as indented JSON to path, or to the command's stdout when path is empty.
func writeJSON(cmd *cobra.Command, path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	data = append(data, '\n')

	if path == "" {
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", path)
	return nil
}

// readJSON decodes the JSON file at path into dst.
func readJSON(path string, dst any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// verbosePrinter returns a Printer on stderr when verbose output is on, otherwise one that discards.
func verbosePrinter(cmd *cobra.Command, verbose bool) *observability.Printer {
	if !verbose {
		return observability.NewPrinter(io.Discard)
	}
	return observability.NewPrinter(cmd.ErrOrStderr())
}
