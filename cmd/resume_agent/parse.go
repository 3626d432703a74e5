package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-optimizer/internal/ingestion"
	"github.com/jonathan/resume-optimizer/internal/types"
)

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Extract text and contact fields from a resume PDF",
	Long: `Extract the full text of a resume PDF and a best-effort set of fields
(name, email, phone, skills, education, experience). Prints JSON to stdout or --out.`,
	RunE: runParse,
}

var (
	parseResume string
	parseOut    string
)

// parseExtractor overrides PDF text extraction in tests
var parseExtractor ingestion.TextExtractor

func init() {
	parseCmd.Flags().StringVarP(&parseResume, "resume", "r", "", "Path to resume PDF")
	parseCmd.Flags().StringVarP(&parseOut, "out", "o", "", "Output JSON file (default stdout)")
	_ = parseCmd.MarkFlagRequired("resume")
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, _ []string) error {
	fields, err := parseResumeFile(parseResume)
	if err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), parseOut, fields)
}

func parseResumeFile(path string) (*types.ExtractedResumeFields, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read resume: %w", err)
	}

	doc := types.Document{Filename: filepath.Base(path), ContentType: types.PDFContentType, Data: data}
	fields, err := ingestion.NewParser(parseExtractor).Parse(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to parse PDF: %w", err)
	}
	return fields, nil
}

// writeJSON writes v as indented JSON to path, or to out when path is empty.
func writeJSON(out io.Writer, path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	data = append(data, '\n')

	if path == "" {
		_, err = out.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	_, _ = fmt.Fprintf(out, "Wrote %s\n", path)
	return nil
}
