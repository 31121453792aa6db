package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/roadmap-generator/internal/catalog"
	"github.com/jonathan/roadmap-generator/internal/fetch"
	"github.com/jonathan/roadmap-generator/internal/types"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect the curated resource catalog",
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List technologies or the resources for one technology or topic",
	RunE:  runCatalogList,
}

var catalogCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Probe catalog URLs and report the ones that no longer answer",
	Long:  "Fetch every catalog resource (or those of one technology) and report its HTTP status and page title. Exits non-zero when any link is broken.",
	RunE:  runCatalogCheck,
}

var (
	catalogTechnology  string
	catalogTopic       string
	catalogConcurrency int
	catalogTimeout     time.Duration
)

func init() {
	for _, c := range []*cobra.Command{catalogListCmd, catalogCheckCmd} {
		c.Flags().StringVar(&catalogTechnology, "technology", "", "Limit to one technology")
	}
	catalogListCmd.Flags().StringVar(&catalogTopic, "topic", "", "List resources whose topics match")
	catalogCheckCmd.Flags().IntVar(&catalogConcurrency, "concurrency", fetch.DefaultConcurrency, "Maximum requests in flight")
	catalogCheckCmd.Flags().DurationVar(&catalogTimeout, "timeout", 15*time.Second, "Per-request timeout")

	catalogCmd.AddCommand(catalogListCmd, catalogCheckCmd)
	rootCmd.AddCommand(catalogCmd)
}

// selectResources applies the --technology and --topic filters.
func selectResources(cat *catalog.Catalog, technology, topic string) ([]types.Resource, error) {
	switch {
	case technology != "":
		if !cat.Has(technology) {
			return nil, fmt.Errorf("unknown technology %q", technology)
		}
		return cat.ResourcesFor(technology), nil
	case topic != "":
		return cat.ResourcesForTopics([]string{topic}, catalog.DefaultTopicLimit), nil
	default:
		return cat.All(), nil
	}
}

func runCatalogList(cmd *cobra.Command, _ []string) error {
	cat, err := catalog.Default()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if catalogTechnology == "" && catalogTopic == "" {
		for _, name := range cat.Technologies() {
			fmt.Fprintln(out, name)
		}
		return nil
	}

	resources, err := selectResources(cat, catalogTechnology, catalogTopic)
	if err != nil {
		return err
	}
	for _, r := range resources {
		fmt.Fprintf(out, "%-14s %-40s %s\n", r.Type, r.Title, r.URL)
	}
	return nil
}

func runCatalogCheck(cmd *cobra.Command, _ []string) error {
	cat, err := catalog.Default()
	if err != nil {
		return err
	}
	resources, err := selectResources(cat, catalogTechnology, "")
	if err != nil {
		return err
	}

	urls := make([]string, len(resources))
	for i, r := range resources {
		urls[i] = r.URL
	}

	opts := fetch.DefaultOptions()
	opts.Timeout = catalogTimeout
	statuses, err := fetch.CheckAll(cmd.Context(), urls, catalogConcurrency, opts)
	if err != nil {
		return fmt.Errorf("link check interrupted: %w", err)
	}

	out := cmd.OutOrStdout()
	broken := 0
	for _, s := range statuses {
		if s.OK() {
			fmt.Fprintf(out, "✓ %d %s  %s\n", s.StatusCode, s.URL, s.Title)
			continue
		}
		broken++
		if s.Err != nil {
			fmt.Fprintf(out, "✗ %s  %v\n", s.URL, s.Err)
		} else {
			fmt.Fprintf(out, "✗ %d %s\n", s.StatusCode, s.URL)
		}
	}

	fmt.Fprintf(out, "\n%d checked, %d broken\n", len(statuses), broken)
	if broken > 0 {
		return fmt.Errorf("%d broken link(s)", broken)
	}
	return nil
}
