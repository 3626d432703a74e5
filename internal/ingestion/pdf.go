package ingestion

import (
	"bytes"
	"fmt"
	"io"

	"github.com/ledongthuc/pdf"

	"github.com/jonathan/resume-optimizer/internal/types"
)

// ExtractText returns the cleaned plain text of a PDF.
func ExtractText(data []byte) (text string, err error) {
	// The PDF reader panics on some malformed cross-reference tables
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("failed to read PDF: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to extract PDF text: %w", err)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", fmt.Errorf("failed to read PDF text: %w", err)
	}

	return CleanText(buf.String()), nil
}

// TextExtractor turns document bytes into plain text
type TextExtractor func(data []byte) (string, error)

// Parser extracts structured fields from resume documents
type Parser struct {
	extract TextExtractor
}

// NewParser creates a Parser. A nil extractor uses ExtractText.
func NewParser(extract TextExtractor) *Parser {
	if extract == nil {
		extract = ExtractText
	}
	return &Parser{extract: extract}
}

// Parse extracts the full text of the document and applies field heuristics
func (p *Parser) Parse(doc types.Document) (*types.ExtractedResumeFields, error) {
	text, err := p.extract(doc.Data)
	if err != nil {
		return nil, err
	}

	fields := ExtractFields(text)
	return &fields, nil
}
