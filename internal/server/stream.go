package server

import (
	"fmt"
	"net/http"
)

// ChunkWriter streams plain-text chunks, flushing each one to the client
type ChunkWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
	written int
}

// NewChunkWriter creates a new chunk writer and sets the streaming headers
func NewChunkWriter(w http.ResponseWriter) (*ChunkWriter, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("streaming not supported")
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("X-Accel-Buffering", "no")

	return &ChunkWriter{w: w, flusher: flusher}, nil
}

// WriteChunk sends a chunk of text and flushes it
func (c *ChunkWriter) WriteChunk(text string) error {
	if text == "" {
		return nil
	}
	n, err := c.w.Write([]byte(text))
	c.written += n
	if err != nil {
		return err
	}
	c.flusher.Flush()
	return nil
}

// Written returns the number of bytes sent so far
func (c *ChunkWriter) Written() int {
	return c.written
}
