// Package main provides the entry point for the roadmap generator CLI and HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	rootConfigPath string
	rootProvider   string
	rootModel      string
	rootAPIKey     string
	rootVerbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "roadmap_agent",
	Short: "Personalized learning roadmap generator",
	Long: `Turns a resume into a skill profile, suggests technology domains to learn next,
and generates week-by-week learning roadmaps built from a curated resource catalog.

Configuration is read from --config, then the environment, then built-in defaults.
Command-line flags override all of them.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&rootConfigPath, "config", "c", "", "Path to JSON config file")
	rootCmd.PersistentFlags().StringVar(&rootProvider, "provider", "", "Model provider: openrouter or gemini")
	rootCmd.PersistentFlags().StringVar(&rootModel, "model", "", "Model to use for every request")
	rootCmd.PersistentFlags().StringVar(&rootAPIKey, "api-key", "", "Provider API key (overrides OPENROUTER_API_KEY / GEMINI_API_KEY)")
	rootCmd.PersistentFlags().BoolVarP(&rootVerbose, "verbose", "v", false, "Print detailed debug information")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
