// Package optimizer runs the resume optimization pipeline against the
// optimization API: intake, incremental delivery with atomic fallback, and
// user-initiated retry.
package optimizer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"unicode/utf8"

	"github.com/jonathan/resume-optimizer/internal/presenter"
	"github.com/jonathan/resume-optimizer/internal/types"
)

// readBufferSize is the size of each read from the stream body.
const readBufferSize = 32 * 1024

// Update is one published snapshot of a run.
type Update struct {
	State  types.PipelineState
	Result types.OptimizationResult
	// Reason is set when State is StateFailed
	Reason string
}

// Publisher receives every update of a run, in order.
type Publisher func(Update)

// Orchestrator executes a single optimization run: incremental first, then
// the atomic path when the stream cannot be used.
type Orchestrator struct {
	transport Transport
}

// NewOrchestrator creates an orchestrator over the given transport.
func NewOrchestrator(transport Transport) *Orchestrator {
	return &Orchestrator{transport: transport}
}

// accumulator owns the artifact of one run. Text is only appended during
// streaming or replaced once by the atomic result.
type accumulator struct {
	result  types.OptimizationResult
	pending []byte
	publish Publisher
}

func (a *accumulator) emit(state types.PipelineState) {
	snapshot := a.result
	snapshot.Improvements = presenter.DeriveImprovements(snapshot.ArtifactText)
	a.publish(Update{State: state, Result: snapshot})
}

// appendBytes decodes UTF-8 across read boundaries and reports whether any
// text was added.
func (a *accumulator) appendBytes(chunk []byte, final bool) bool {
	a.pending = append(a.pending, chunk...)
	valid := a.pending
	if !final {
		valid, a.pending = splitIncompleteRune(a.pending)
	} else {
		a.pending = nil
	}
	if len(valid) == 0 {
		return false
	}
	a.result.ArtifactText += string(valid)
	return true
}

func (a *accumulator) reset(mode types.TransportMode) {
	a.result = types.OptimizationResult{TransportMode: mode}
	a.pending = nil
}

func (a *accumulator) replace(text string) {
	a.result.ArtifactText = text
}

// splitIncompleteRune holds back a trailing partial UTF-8 sequence so it can
// be completed by the next read.
func splitIncompleteRune(buf []byte) (valid, rest []byte) {
	for i := 1; i <= utf8.UTFMax-1 && i <= len(buf); i++ {
		start := len(buf) - i
		if !utf8.RuneStart(buf[start]) {
			continue
		}
		if utf8.FullRune(buf[start:]) {
			break
		}
		rest = make([]byte, i)
		copy(rest, buf[start:])
		return buf[:start], rest
	}
	return buf, nil
}

// Run executes the pipeline for req and publishes each state change and
// every appended chunk. The returned result is the final snapshot; a non-nil
// error means the run ended in StateFailed (or was cancelled).
func (o *Orchestrator) Run(ctx context.Context, req types.OptimizationRequest, publish Publisher) (types.OptimizationResult, error) {
	if publish == nil {
		publish = func(Update) {}
	}
	acc := &accumulator{publish: publish}
	acc.emit(types.StateSubmitting)

	streamed, err := o.stream(ctx, req, acc)
	if err == nil && streamed {
		return o.succeed(acc), nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return o.fail(acc, ctxErr)
	}
	if err != nil {
		log.Printf("[optimizer] Streaming unavailable, falling back to atomic request: %v", err)
	}

	acc.reset(types.TransportAtomic)
	acc.emit(types.StateAtomicPending)

	text, err := o.transport.Atomic(ctx, req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return o.fail(acc, ctxErr)
		}
		return o.fail(acc, err)
	}

	acc.replace(text)
	return o.succeed(acc), nil
}

// stream attempts incremental delivery. It returns true when the whole
// artifact arrived over the stream.
func (o *Orchestrator) stream(ctx context.Context, req types.OptimizationRequest, acc *accumulator) (bool, error) {
	body, err := o.transport.OpenStream(ctx, req)
	if err != nil {
		return false, err
	}
	defer func() { _ = body.Close() }()

	acc.result.TransportMode = types.TransportStreaming
	acc.emit(types.StateStreamingInProgress)

	buf := make([]byte, readBufferSize)
	for {
		n, readErr := body.Read(buf)
		if n > 0 && acc.appendBytes(buf[:n], false) {
			acc.emit(types.StateStreamingInProgress)
		}

		if errors.Is(readErr, io.EOF) {
			if acc.appendBytes(nil, true) {
				acc.emit(types.StateStreamingInProgress)
			}
			if acc.result.ArtifactText == "" {
				return false, errors.New("stream ended without any content")
			}
			return true, nil
		}
		if readErr != nil {
			if dropped := len(acc.result.ArtifactText); dropped > 0 {
				log.Printf("[optimizer] Stream failed after %d bytes, discarding partial artifact", dropped)
			}
			return false, fmt.Errorf("stream interrupted: %w", readErr)
		}
	}
}

func (o *Orchestrator) succeed(acc *accumulator) types.OptimizationResult {
	acc.result.IsComplete = true
	acc.emit(types.StateSucceeded)
	final := acc.result
	final.Improvements = presenter.DeriveImprovements(final.ArtifactText)
	return final
}

func (o *Orchestrator) fail(acc *accumulator, err error) (types.OptimizationResult, error) {
	reason := err.Error()
	var statusErr *StatusError
	if errors.As(err, &statusErr) && statusErr.Details != "" {
		log.Printf("[optimizer] %s returned %d: %s (%s)", statusErr.Endpoint, statusErr.StatusCode, reason, statusErr.Details)
	}
	snapshot := acc.result
	snapshot.Improvements = presenter.DeriveImprovements(snapshot.ArtifactText)
	acc.publish(Update{State: types.StateFailed, Result: snapshot, Reason: reason})
	return snapshot, err
}
