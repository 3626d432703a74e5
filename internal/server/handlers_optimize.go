package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/jonathan/resume-optimizer/internal/ingestion"
	"github.com/jonathan/resume-optimizer/internal/llm"
	"github.com/jonathan/resume-optimizer/internal/optimizer"
	"github.com/jonathan/resume-optimizer/internal/prompts"
	"github.com/jonathan/resume-optimizer/internal/server/middleware"
	"github.com/jonathan/resume-optimizer/internal/types"
)

// multipartOverhead is allowed on top of the upload limit for form framing
const multipartOverhead = 1 << 20

// Error messages returned by the optimization endpoints
const (
	msgMissingInput    = "Missing resume or job description"
	msgProcessFailed   = "Failed to process resume"
	msgStreamFailed    = "Failed to stream optimized resume"
	msgRequestTooLarge = "Resume file is too large"
)

// OptimizeResponse is the body of a successful atomic optimization
type OptimizeResponse struct {
	Latex string `json:"latex"`
}

// readOptimizeRequest parses the multipart form shared by both optimization
// endpoints and returns the accepted document's metadata alongside the request
func (s *Server) readOptimizeRequest(w http.ResponseWriter, r *http.Request) (types.OptimizationRequest, *ingestion.Metadata, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes+multipartOverhead)
	if err := r.ParseMultipartForm(s.maxUploadBytes + multipartOverhead); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return types.OptimizationRequest{}, nil, err
		}
		return types.OptimizationRequest{}, nil, &ErrValidation{Field: optimizer.ResumeField, Message: msgMissingInput}
	}

	jobDescription := r.FormValue(optimizer.JobDescriptionField)
	file, header, err := r.FormFile(optimizer.ResumeField)
	if err != nil || strings.TrimSpace(jobDescription) == "" {
		return types.OptimizationRequest{}, nil, &ErrValidation{Field: optimizer.ResumeField, Message: msgMissingInput}
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		return types.OptimizationRequest{}, nil, fmt.Errorf("failed to read resume: %w", err)
	}

	doc := types.Document{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}
	meta, err := s.documents.Validate(doc)
	if err != nil {
		return types.OptimizationRequest{}, nil, err
	}
	if doc.ContentType != types.PDFContentType {
		doc.ContentType = types.PDFContentType
	}

	return types.OptimizationRequest{Document: doc, JobDescription: jobDescription}, meta, nil
}

// logDocument records which document a generation request is working on
func logDocument(action, requestID string, meta *ingestion.Metadata) {
	pages := "unknown"
	if meta.Pages > 0 {
		pages = strconv.Itoa(meta.Pages)
	}
	log.Printf("[server] %s %s (%d bytes, %s pages, sha256 %.12s) for request %s",
		action, meta.Filename, meta.Size, pages, meta.Hash, requestID)
}

// writeRequestError maps request parsing failures to JSON error responses
func (s *Server) writeRequestError(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	switch status {
	case http.StatusRequestEntityTooLarge:
		s.errorResponse(w, status, msgRequestTooLarge)
	case http.StatusBadRequest:
		s.errorResponse(w, status, err.Error())
	default:
		s.errorDetailsResponse(w, http.StatusInternalServerError, msgProcessFailed, err.Error())
	}
}

// acquireGeneration waits for a free generation slot, giving up after the
// configured wait or when the request ends
func (s *Server) acquireGeneration(r *http.Request) error {
	if s.generations.TryAcquire(1) {
		return nil
	}
	ctx, cancel := context.WithTimeout(r.Context(), s.generationWait)
	defer cancel()
	if err := s.generations.Acquire(ctx, 1); err != nil {
		return ErrBusy
	}
	return nil
}

// handleOptimizeResume generates the optimized resume in a single response
func (s *Server) handleOptimizeResume(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	req, meta, err := s.readOptimizeRequest(w, r)
	if err != nil {
		s.writeRequestError(w, err)
		return
	}

	prompt, err := prompts.OptimizeResume(req.JobDescription)
	if err != nil {
		s.errorDetailsResponse(w, http.StatusInternalServerError, msgProcessFailed, err.Error())
		return
	}

	if err := s.acquireGeneration(r); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	defer s.generations.Release(1)

	logDocument("Optimizing", requestID, meta)

	text, err := s.llm.GenerateFromDocument(r.Context(), req.Document, prompt, s.tier)
	if err != nil {
		genErr := &ErrGeneration{Stage: "generate", Cause: err}
		log.Printf("[server] Optimization failed for request %s: %v", requestID, genErr)
		s.errorDetailsResponse(w, HTTPStatus(genErr), msgProcessFailed, err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, OptimizeResponse{Latex: llm.CleanCodeBlock(text)})
}

// handleOptimizeResumeStream streams the optimized resume as raw text chunks.
// Failures before the first chunk are reported with an error status so the
// client can fall back to the atomic endpoint; later failures abort the
// connection.
func (s *Server) handleOptimizeResumeStream(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	req, meta, err := s.readOptimizeRequest(w, r)
	if err != nil {
		s.writeRequestError(w, err)
		return
	}

	prompt, err := prompts.OptimizeResume(req.JobDescription)
	if err != nil {
		s.errorDetailsResponse(w, http.StatusInternalServerError, msgProcessFailed, err.Error())
		return
	}

	if err := s.acquireGeneration(r); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	defer s.generations.Release(1)

	logDocument("Streaming optimization of", requestID, meta)

	stream, err := s.llm.StreamFromDocument(r.Context(), req.Document, prompt, s.tier)
	if err != nil {
		genErr := &ErrGeneration{Stage: "stream start", Cause: err}
		log.Printf("[server] Failed to start stream for request %s: %v", requestID, genErr)
		s.errorDetailsResponse(w, HTTPStatus(genErr), msgStreamFailed, err.Error())
		return
	}

	// Hold the response until the model produces text so that an immediate
	// failure still carries an error status.
	first, err := stream.Next()
	if err != nil {
		if errors.Is(err, io.EOF) {
			err = errNoContent
		}
		genErr := &ErrGeneration{Stage: "first chunk", Cause: err}
		log.Printf("[server] Stream produced no content for request %s: %v", requestID, genErr)
		s.errorDetailsResponse(w, HTTPStatus(genErr), msgStreamFailed, err.Error())
		return
	}

	cw, err := NewChunkWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusOK)

	chunk := first
	for {
		if err := cw.WriteChunk(chunk); err != nil {
			log.Printf("[server] Client went away during stream for request %s: %v", requestID, err)
			return
		}

		chunk, err = stream.Next()
		if errors.Is(err, io.EOF) {
			log.Printf("[server] Stream completed for request %s (%d bytes)", requestID, cw.Written())
			return
		}
		if err != nil {
			log.Printf("[server] Stream failed after %d bytes for request %s: %v", cw.Written(), requestID, err)
			// Abort so the client sees a broken stream rather than a short artifact
			panic(http.ErrAbortHandler)
		}
	}
}
