// Package observability provides formatted output utilities for verbose CLI mode
// and the Prometheus metrics shared by the server and the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/roadmap-generator/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to at most n runes, marking the cut with "..."
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// writeList writes up to limit items under a heading, noting how many were left out.
func writeList(sb *strings.Builder, heading string, items []string, limit int) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(heading + ":\n")
	count := min(len(items), limit)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", items[i]))
	}
	if len(items) > limit {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-limit))
	}
}

// PrintProfile outputs a human-readable summary of an analyzed resume.
func (p *Printer) PrintProfile(profile *types.Profile) {
	if profile == nil {
		return
	}

	var sb strings.Builder
	role := profile.CurrentRole
	if role == "" {
		role = "Not specified"
	}
	sb.WriteString(fmt.Sprintf("Role:       %s\n", role))
	sb.WriteString(fmt.Sprintf("Level:      %s\n", profile.ExperienceLevel))
	sb.WriteString(fmt.Sprintf("Experience: %g years\n", profile.YearsOfExperience))
	sb.WriteString("\n")

	writeList(&sb, "Skills", profile.Skills, maxItemsToShow)
	if len(profile.Domains) > 0 {
		sb.WriteString(fmt.Sprintf("Domains: %s\n", strings.Join(profile.Domains, ", ")))
	}

	p.printBox("RESUME PROFILE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRecommendations outputs suggested domains and their key tools.
// Tools the catalog has resources for are marked with ✓.
func (p *Printer) PrintRecommendations(recs []types.DomainRecommendation) {
	if len(recs) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Recommended domains: %d\n\n", len(recs)))
	for i, rec := range recs {
		sb.WriteString(fmt.Sprintf("#%d  %s\n", i+1, rec.Domain))
		if rec.Difficulty != "" || rec.MarketDemand != "" {
			sb.WriteString(fmt.Sprintf("    Difficulty: %s | Demand: %s\n", rec.Difficulty, rec.MarketDemand))
		}
		tools := make([]string, 0, len(rec.KeyTools))
		for _, tool := range rec.KeyTools {
			name := tool.Name
			if tool.InCatalog {
				name += " ✓"
			}
			tools = append(tools, name)
		}
		if len(tools) > 0 {
			sb.WriteString(fmt.Sprintf("    Tools: %s\n", strings.Join(tools, ", ")))
		}
		if i < len(recs)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("DOMAIN RECOMMENDATIONS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRoadmap outputs the shape of a generated roadmap: phases, weeks and projects.
func (p *Printer) PrintRoadmap(result *types.GenerationResult) {
	if result == nil || result.Roadmap == nil {
		return
	}
	rm, err := result.Roadmap.Roadmap()
	if err != nil {
		p.printBox("LEARNING ROADMAP", "Roadmap could not be summarized: "+err.Error())
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Duration:   %d weeks (%d detailed)\n", rm.TotalDurationWeeks, result.DetailedWeeks))
	sb.WriteString(fmt.Sprintf("Completion: %s\n", rm.EstimatedCompletionDate))
	sb.WriteString(fmt.Sprintf("Attempts:   %d", result.Attempts))
	if result.FromCache {
		sb.WriteString(" (cached)")
	}
	sb.WriteString("\n\n")

	if len(rm.Phases) > 0 {
		sb.WriteString("Phases:\n")
		for _, phase := range rm.Phases {
			sb.WriteString(fmt.Sprintf("  %d. %s (%d weeks)\n", phase.PhaseNumber, phase.Title, phase.DurationWeeks))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("Weeks:\n")
	count := min(len(rm.WeeklyPlans), maxItemsToShow)
	for i := 0; i < count; i++ {
		week := rm.WeeklyPlans[i]
		kind := "high-level"
		if week.Detailed() {
			kind = fmt.Sprintf("%d days", len(week.DailyPlans))
		}
		sb.WriteString(fmt.Sprintf("  Week %d: %s [%s]\n", week.Week, week.Focus, kind))
	}
	if len(rm.WeeklyPlans) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more weeks\n", len(rm.WeeklyPlans)-maxItemsToShow))
	}

	if len(rm.Projects) > 0 {
		sb.WriteString("\n")
		titles := make([]string, 0, len(rm.Projects))
		for _, project := range rm.Projects {
			titles = append(titles, project.Title)
		}
		writeList(&sb, "Projects", titles, 3)
	}

	p.printBox("LEARNING ROADMAP", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintWarnings outputs content validation warnings, or a single all-clear line.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintWarnings(warnings []string) {
	if len(warnings) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "✅ NO CONTENT WARNINGS")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d warnings:\n\n", len(warnings)))
	count := min(len(warnings), maxItemsToShow*2)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("⚠ %s\n", warnings[i]))
	}
	if len(warnings) > count {
		sb.WriteString(fmt.Sprintf("... and %d more", len(warnings)-count))
	}

	p.printBox("CONTENT WARNINGS", strings.TrimSuffix(sb.String(), "\n"))
}
