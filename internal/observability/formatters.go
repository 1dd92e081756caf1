// Package observability provides formatted output utilities for verbose CLI
// mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/careerflow-agent/internal/edits"
	"github.com/jonathan/careerflow-agent/internal/routing"
	"github.com/jonathan/careerflow-agent/internal/store"
	"github.com/jonathan/careerflow-agent/internal/types"
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
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintDispatchPlan outputs the agents selected for a request.
func (p *Printer) PrintDispatchPlan(plan *routing.Plan) {
	if plan == nil || len(plan.Invocations) == 0 {
		return
	}

	var sb strings.Builder
	for i, inv := range plan.Invocations {
		sb.WriteString(fmt.Sprintf("%d. %s", i+1, inv.Kind))
		if inv.TargetLanguage != "" {
			sb.WriteString(fmt.Sprintf(" → %s", inv.TargetLanguage))
		}
		sb.WriteString("\n")
	}

	p.printBox("DISPATCH PLAN", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintResult outputs a normalized result's structured fields. Free text is
// printed separately by the caller so it is never truncated to box width.
func (p *Printer) PrintResult(result *types.NormalizedResult) {
	if result == nil || result.IsEmpty() {
		return
	}

	var sb strings.Builder
	if pct, ok := result.ScorePercent(); ok {
		sb.WriteString(fmt.Sprintf("Match score: %d%%\n", pct))
	}
	if result.Summary != "" {
		sb.WriteString(fmt.Sprintf("Summary: %s\n", firstLine(result.Summary)))
	}
	writeList(&sb, "Gaps", result.Gaps)
	writeList(&sb, "Suggestions", result.Suggestions)
	writeList(&sb, "Bullets", result.Bullets)
	if len(result.Edits) > 0 {
		sb.WriteString(fmt.Sprintf("Proposed edits: %d\n", len(result.Edits)))
	}

	content := strings.TrimSuffix(sb.String(), "\n")
	if content == "" {
		return
	}
	p.printBox("RESULT", content)
}

// PrintVersions outputs a resume's version history, newest first.
func (p *Printer) PrintVersions(resumeName string, versions []store.Version) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Resume: %s\n", resumeName))
	sb.WriteString(fmt.Sprintf("Versions: %d\n\n", len(versions)))

	count := min(len(versions), maxItemsToShow)
	for i := 0; i < count; i++ {
		v := versions[i]
		sb.WriteString(fmt.Sprintf("v%d  %s\n", v.Seq, v.ID))
		if v.Preview != "" {
			sb.WriteString(fmt.Sprintf("    %s\n", v.Preview))
		}
	}
	if len(versions) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("... and %d more\n", len(versions)-maxItemsToShow))
	}

	p.printBox("VERSION HISTORY", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintEditResult outputs the outcome of an edit application.
func (p *Printer) PrintEditResult(result *edits.Result) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("New version: %s\n", result.NewVersionID))
	sb.WriteString(fmt.Sprintf("Applied: %d\n", result.AppliedCount))
	sb.WriteString(fmt.Sprintf("Skipped: %d", result.SkippedCount))

	p.printBox("EDITS APPLIED", sb.String())
}

func writeList(sb *strings.Builder, label string, items []string) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(label + ":\n")
	count := min(len(items), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", items[i]))
	}
	if len(items) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-maxItemsToShow))
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
