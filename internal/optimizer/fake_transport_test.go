package optimizer

import (
	"context"
	"io"
	"sync"

	"github.com/jonathan/resume-optimizer/internal/types"
)

// chunkReader returns one chunk per Read, then err (io.EOF when nil).
type chunkReader struct {
	chunks []string
	err    error
}

func (r *chunkReader) Read(p []byte) (int, error) {
	if len(r.chunks) == 0 {
		if r.err != nil {
			return 0, r.err
		}
		return 0, io.EOF
	}
	n := copy(p, r.chunks[0])
	r.chunks[0] = r.chunks[0][n:]
	if r.chunks[0] == "" {
		r.chunks = r.chunks[1:]
	}
	return n, nil
}

func (r *chunkReader) Close() error { return nil }

type fakeTransport struct {
	mu          sync.Mutex
	streamErr   error
	chunks      []string
	chunkErr    error
	atomicText  string
	atomicErr   error
	atomicGate  chan struct{}
	streamCalls int
	atomicCalls int
	requests    []types.OptimizationRequest
}

func (f *fakeTransport) OpenStream(_ context.Context, req types.OptimizationRequest) (io.ReadCloser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.streamCalls++
	f.requests = append(f.requests, req)
	if f.streamErr != nil {
		return nil, f.streamErr
	}
	chunks := make([]string, len(f.chunks))
	copy(chunks, f.chunks)
	return &chunkReader{chunks: chunks, err: f.chunkErr}, nil
}

func (f *fakeTransport) Atomic(ctx context.Context, req types.OptimizationRequest) (string, error) {
	f.mu.Lock()
	f.atomicCalls++
	f.requests = append(f.requests, req)
	gate := f.atomicGate
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	return f.atomicText, f.atomicErr
}

func (f *fakeTransport) set(fn func(f *fakeTransport)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f)
}

func (f *fakeTransport) calls() (stream, atomic int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.streamCalls, f.atomicCalls
}

// recorder collects published updates.
type recorder struct {
	mu      sync.Mutex
	updates []Update
}

func (r *recorder) publish(u Update) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates = append(r.updates, u)
}

func (r *recorder) all() []Update {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Update, len(r.updates))
	copy(out, r.updates)
	return out
}

func testRequest() types.OptimizationRequest {
	return types.OptimizationRequest{
		Document:       types.Document{Filename: "resume.pdf", ContentType: types.PDFContentType, Data: []byte("%PDF-1.4 resume bytes")},
		JobDescription: "Senior Go engineer building distributed systems",
	}
}
