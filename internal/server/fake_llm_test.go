package server

import (
	"context"
	"io"
	"sync"

	"github.com/jonathan/resume-optimizer/internal/llm"
	"github.com/jonathan/resume-optimizer/internal/types"
)

// fakeLLM is a scripted llm.Client
type fakeLLM struct {
	mu        sync.Mutex
	text      string
	err       error
	chunks    []string
	startErr  error
	chunkErr  error
	block     chan struct{}
	prompts   []string
	documents []types.Document
	closed    bool
}

func (f *fakeLLM) record(doc types.Document, prompt string) chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	f.documents = append(f.documents, doc)
	return f.block
}

func (f *fakeLLM) GenerateFromDocument(ctx context.Context, doc types.Document, prompt string, _ llm.ModelTier) (string, error) {
	if block := f.record(doc, prompt); block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.text, f.err
}

func (f *fakeLLM) StreamFromDocument(_ context.Context, doc types.Document, prompt string, _ llm.ModelTier) (llm.TextStream, error) {
	f.record(doc, prompt)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.startErr != nil {
		return nil, f.startErr
	}
	chunks := make([]string, len(f.chunks))
	copy(chunks, f.chunks)
	return &fakeStream{chunks: chunks, err: f.chunkErr}, nil
}

func (f *fakeLLM) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeLLM) promptCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

type fakeStream struct {
	chunks []string
	err    error
}

func (s *fakeStream) Next() (string, error) {
	if len(s.chunks) == 0 {
		if s.err != nil {
			return "", s.err
		}
		return "", io.EOF
	}
	chunk := s.chunks[0]
	s.chunks = s.chunks[1:]
	return chunk, nil
}
