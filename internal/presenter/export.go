package presenter

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/atotto/clipboard"

	"github.com/jonathan/resume-optimizer/internal/types"
)

// Clipboard receives copied artifact text.
type Clipboard interface {
	WriteAll(text string) error
}

// SystemClipboard writes to the operating system clipboard.
type SystemClipboard struct{}

// WriteAll copies text to the system clipboard.
func (SystemClipboard) WriteAll(text string) error {
	if clipboard.Unsupported {
		return fmt.Errorf("clipboard is not supported on this system")
	}
	return clipboard.WriteAll(text)
}

// CopyToClipboard places the artifact text on the clipboard verbatim.
// Failures are logged and reported as false; nothing else is affected.
func CopyToClipboard(cb Clipboard, result types.OptimizationResult) bool {
	if cb == nil {
		return false
	}
	if err := cb.WriteAll(result.ArtifactText); err != nil {
		log.Printf("[presenter] Failed to copy to clipboard: %v", err)
		return false
	}
	return true
}

// DownloadArtifact writes the artifact text as a plain-text file in dir and
// returns its path. An empty filename uses types.DefaultArtifactFilename.
func DownloadArtifact(dir, filename string, result types.OptimizationResult) (string, error) {
	if filename == "" {
		filename = types.DefaultArtifactFilename
	}
	if dir == "" {
		dir = "."
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(dir, filepath.Base(filename))
	if err := os.WriteFile(path, []byte(result.ArtifactText), 0644); err != nil {
		return "", fmt.Errorf("failed to write artifact: %w", err)
	}
	return path, nil
}
