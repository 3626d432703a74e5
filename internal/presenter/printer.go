package presenter

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/resume-optimizer/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// previewLines is the number of artifact lines shown in the result box
	previewLines = 8
	// progressCap is the highest simulated progress shown before completion
	progressCap = 95
	// progressStep is the simulated progress added per tick
	progressStep = 5
	// barWidth is the number of cells in the progress bar
	barWidth = 30
)

// Printer handles formatted terminal output for a pipeline run
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

// truncate shortens s to at most width runes, marking the cut with "..."
func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-3]) + "..."
}

// NextProgress advances the simulated progress indicator. It never passes
// 95 until the run completes.
func NextProgress(current int) int {
	if current >= progressCap {
		return progressCap
	}
	return min(current+progressStep, progressCap)
}

// PrintProgress redraws a single-line progress bar.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintProgress(percent int) {
	percent = max(0, min(percent, 100))
	filled := percent * barWidth / 100
	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
	fmt.Fprintf(p.out, "\r[%s] %3d%%", bar, percent)
	if percent == 100 {
		fmt.Fprintln(p.out)
	}
}

// PrintStreamChunk writes newly received artifact text as it arrives.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintStreamChunk(chunk string) {
	fmt.Fprint(p.out, chunk)
}

// PrintResult outputs a summary of a finished artifact: delivery mode,
// character count and the first lines of the text.
func (p *Printer) PrintResult(result types.OptimizationResult) {
	if result.ArtifactText == "" {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Delivery:   %s\n", result.TransportMode))
	sb.WriteString(fmt.Sprintf("Characters: %d\n", result.Length()))
	sb.WriteString("\n")

	lines := strings.Split(result.ArtifactText, "\n")
	count := min(len(lines), previewLines)
	for i := 0; i < count; i++ {
		sb.WriteString(lines[i])
		sb.WriteString("\n")
	}
	if len(lines) > previewLines {
		sb.WriteString(fmt.Sprintf("... and %d more lines\n", len(lines)-previewLines))
	}

	p.printBox("OPTIMIZED RESUME (LaTeX)", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintImprovements outputs the improvements list for a result.
func (p *Printer) PrintImprovements(result types.OptimizationResult) {
	if len(result.Improvements) == 0 {
		return
	}

	var sb strings.Builder
	for _, item := range result.Improvements {
		sb.WriteString(fmt.Sprintf("✓ %s\n", item))
	}

	p.printBox("IMPROVEMENTS MADE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintFailure outputs the reason a run failed.
func (p *Printer) PrintFailure(reason string) {
	if reason == "" {
		reason = "Failed to optimize resume"
	}
	p.printBox("⚠ OPTIMIZATION FAILED", reason)
}
