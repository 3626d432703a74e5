package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/jonathan/resume-optimizer/internal/types"
)

// Metadata describes an accepted document
type Metadata struct {
	Filename  string `json:"filename"`
	Size      int    `json:"size"`
	Pages     int    `json:"pages,omitempty"`
	Hash      string `json:"hash"`      // SHA256 hex digest
	Timestamp string `json:"timestamp"` // RFC3339 format
}

// NewMetadata creates a new Metadata instance with current timestamp
func NewMetadata(doc types.Document, pages int) *Metadata {
	return &Metadata{
		Filename:  doc.Filename,
		Size:      len(doc.Data),
		Pages:     pages,
		Hash:      computeHash(doc.Data),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// computeHash computes SHA256 hash of content and returns hex string
func computeHash(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}
