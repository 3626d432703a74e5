package optimizer

import (
	"context"
	"log"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/jonathan/resume-optimizer/internal/types"
)

// Snapshot is the session-visible state of the current run.
type Snapshot struct {
	RunID   uuid.UUID
	Attempt int
	State   types.PipelineState
	Result  types.OptimizationResult
	Reason  string
}

// Listener is notified of every snapshot the session accepts.
type Listener func(Snapshot)

// Session serializes pipeline runs for one user: it guards submission,
// retains the submitted request for retry and drops updates from runs that
// have been superseded.
type Session struct {
	orchestrator *Orchestrator
	listener     Listener

	mu       sync.Mutex
	snapshot Snapshot
	request  *types.OptimizationRequest
	cancel   context.CancelFunc
	done     chan struct{}
	closed   bool
}

// NewSession creates a session waiting for intake. listener may be nil.
func NewSession(orchestrator *Orchestrator, listener Listener) *Session {
	done := make(chan struct{})
	close(done)
	return &Session{
		orchestrator: orchestrator,
		listener:     listener,
		snapshot:     Snapshot{State: types.StateAwaitingIntake},
		done:         done,
	}
}

// CanSubmit reports whether submission is enabled for the given inputs.
func (s *Session) CanSubmit(doc types.Document, jobDescription string) bool {
	if len(doc.Data) == 0 || strings.TrimSpace(jobDescription) == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.closed && !s.snapshot.State.IsActive()
}

// Submit starts a run for the document and job description. It returns
// immediately; progress is delivered to the listener and Wait returns the
// final snapshot. The context governs the lifetime of the run.
func (s *Session) Submit(ctx context.Context, doc types.Document, jobDescription string) error {
	req := types.OptimizationRequest{Document: doc.Clone(), JobDescription: jobDescription}
	if !req.IsSubmittable() {
		return ErrIntakeIncomplete
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkIdleLocked(); err != nil {
		return err
	}

	s.request = &req
	s.startLocked(ctx, 1)
	return nil
}

// Retry re-runs the retained request after a failure. Retry while a run is
// active has no effect and returns ErrRunInProgress.
func (s *Session) Retry(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkIdleLocked(); err != nil {
		return err
	}
	if s.snapshot.State != types.StateFailed || s.request == nil {
		return ErrNotFailed
	}

	log.Printf("[optimizer] Retrying optimization (attempt %d)", s.snapshot.Attempt+1)
	s.startLocked(ctx, s.snapshot.Attempt+1)
	return nil
}

// Snapshot returns the current state of the session.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot
}

// Wait blocks until the current run ends or ctx is done, then returns the
// latest snapshot.
func (s *Session) Wait(ctx context.Context) (Snapshot, error) {
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()

	select {
	case <-done:
		return s.Snapshot(), nil
	case <-ctx.Done():
		return s.Snapshot(), ctx.Err()
	}
}

// Close cancels any in-flight run. Updates from that run are discarded.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.snapshot.RunID = uuid.Nil
	if s.snapshot.State.IsActive() {
		s.snapshot.State = types.StateIdle
	}
}

func (s *Session) checkIdleLocked() error {
	if s.closed {
		return ErrSessionClosed
	}
	if s.snapshot.State.IsActive() {
		return ErrRunInProgress
	}
	return nil
}

// startLocked resets the result and launches a run with a fresh run ID.
func (s *Session) startLocked(ctx context.Context, attempt int) {
	runID := uuid.New()
	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	s.cancel = cancel
	s.done = done
	s.snapshot = Snapshot{
		RunID:   runID,
		Attempt: attempt,
		State:   types.StateSubmitting,
		Result:  types.OptimizationResult{Improvements: []string{}},
	}
	req := *s.request

	go func() {
		defer close(done)
		defer cancel()
		_, err := s.orchestrator.Run(runCtx, req, func(u Update) {
			s.apply(runID, u)
		})
		if err != nil {
			log.Printf("[optimizer] Run %s failed: %v", runID, err)
		}
	}()
}

// apply records an update if it belongs to the current run and forwards it
// to the listener.
func (s *Session) apply(runID uuid.UUID, u Update) {
	s.mu.Lock()
	if s.closed || s.snapshot.RunID != runID {
		s.mu.Unlock()
		return
	}
	s.snapshot.State = u.State
	s.snapshot.Result = u.Result
	s.snapshot.Reason = u.Reason
	snapshot := s.snapshot
	s.mu.Unlock()

	if s.listener != nil {
		s.listener(snapshot)
	}
}
