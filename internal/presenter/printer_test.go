package presenter

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/resume-optimizer/internal/types"
)

func TestPrintResult(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	text := strings.Repeat("line\n", 12) + "end"
	p.PrintResult(types.OptimizationResult{ArtifactText: text, TransportMode: types.TransportStreaming, IsComplete: true})
	output := buf.String()

	assert.Contains(t, output, "OPTIMIZED RESUME (LaTeX)")
	assert.Contains(t, output, "streaming")
	assert.Contains(t, output, "Characters: 63")
	assert.Contains(t, output, "... and 5 more lines")
}

func TestPrintResult_Empty(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintResult(types.OptimizationResult{})

	assert.Empty(t, buf.String())
}

func TestPrintImprovements(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	text := strings.Repeat("x", 150)
	p.PrintImprovements(types.OptimizationResult{ArtifactText: text, Improvements: DeriveImprovements(text)})
	output := buf.String()

	assert.Contains(t, output, "IMPROVEMENTS MADE")
	assert.Contains(t, output, "Quantified achievements with metrics where possible")
}

func TestPrintImprovements_None(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintImprovements(types.OptimizationResult{ArtifactText: "short"})

	assert.Empty(t, buf.String())
}

func TestPrintFailure(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintFailure("Failed to process resume")

	assert.Contains(t, buf.String(), "OPTIMIZATION FAILED")
	assert.Contains(t, buf.String(), "Failed to process resume")
}

func TestPrintProgress(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintProgress(50)
	assert.Contains(t, buf.String(), " 50%")
	assert.NotContains(t, buf.String(), "\n")

	buf.Reset()
	p.PrintProgress(100)
	assert.True(t, strings.HasSuffix(buf.String(), "100%\n"))
}

func TestNextProgress_CapsBeforeCompletion(t *testing.T) {
	progress := 0
	for i := 0; i < 100; i++ {
		progress = NextProgress(progress)
	}
	assert.Equal(t, 95, progress)
	assert.Equal(t, 10, NextProgress(5))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
}
