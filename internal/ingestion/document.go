package ingestion

import (
	"bytes"
	"fmt"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/jonathan/resume-optimizer/internal/types"
)

func init() {
	// Keep pdfcpu from creating a config directory on the host
	model.ConfigPath = "disable"
}

// pdfMagic is the header every PDF file starts with
var pdfMagic = []byte("%PDF-")

// PageCounter inspects a PDF and returns its page count, failing when the
// file is not a readable PDF.
type PageCounter func(rs io.ReadSeeker) (int, error)

// DocumentError describes why an uploaded document was rejected.
type DocumentError struct {
	Filename string
	Message  string
	Cause    error
}

func (e *DocumentError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid document %q: %s: %v", e.Filename, e.Message, e.Cause)
	}
	return fmt.Sprintf("invalid document %q: %s", e.Filename, e.Message)
}

func (e *DocumentError) Unwrap() error {
	return e.Cause
}

// DocumentPolicy constrains which uploads are accepted as resumes.
type DocumentPolicy struct {
	MaxBytes   int64
	CountPages PageCounter
}

// DefaultDocumentPolicy accepts PDFs up to types.MaxDocumentBytes, checked with pdfcpu.
func DefaultDocumentPolicy() DocumentPolicy {
	return DocumentPolicy{
		MaxBytes:   types.MaxDocumentBytes,
		CountPages: CountPDFPages,
	}
}

// CountPDFPages validates the PDF structure with pdfcpu in relaxed mode and
// returns the number of pages.
func CountPDFPages(rs io.ReadSeeker) (int, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return api.PageCount(rs, conf)
}

// Validate checks size and type constraints and returns metadata for the document.
func (p DocumentPolicy) Validate(doc types.Document) (*Metadata, error) {
	size := int64(len(doc.Data))
	if size == 0 {
		return nil, &DocumentError{Filename: doc.Filename, Message: "document is empty"}
	}
	if p.MaxBytes > 0 && size > p.MaxBytes {
		return nil, &DocumentError{
			Filename: doc.Filename,
			Message:  fmt.Sprintf("document is %d bytes, limit is %d", size, p.MaxBytes),
		}
	}
	if doc.ContentType != "" && doc.ContentType != types.PDFContentType && doc.ContentType != "application/octet-stream" {
		return nil, &DocumentError{
			Filename: doc.Filename,
			Message:  fmt.Sprintf("unsupported content type %s", doc.ContentType),
		}
	}
	if !bytes.HasPrefix(doc.Data, pdfMagic) {
		return nil, &DocumentError{Filename: doc.Filename, Message: "document is not a PDF"}
	}

	pages := 0
	if p.CountPages != nil {
		var err error
		pages, err = p.CountPages(bytes.NewReader(doc.Data))
		if err != nil {
			return nil, &DocumentError{Filename: doc.Filename, Message: "unreadable PDF", Cause: err}
		}
		if pages == 0 {
			return nil, &DocumentError{Filename: doc.Filename, Message: "PDF has no pages"}
		}
	}

	return NewMetadata(doc, pages), nil
}
