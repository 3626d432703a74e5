package server

import (
	"io"
	"log"
	"net/http"

	"github.com/jonathan/resume-optimizer/internal/optimizer"
	"github.com/jonathan/resume-optimizer/internal/types"
)

// ParseResponse is the body of a successful resume parse
type ParseResponse struct {
	Success    bool                         `json:"success"`
	ResumeData *types.ExtractedResumeFields `json:"resumeData"`
}

// handleParseResume extracts text and best-effort fields from an uploaded PDF
func (s *Server) handleParseResume(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes+multipartOverhead)
	if err := r.ParseMultipartForm(s.maxUploadBytes + multipartOverhead); err != nil {
		if HTTPStatus(err) == http.StatusRequestEntityTooLarge {
			s.errorResponse(w, http.StatusRequestEntityTooLarge, msgRequestTooLarge)
			return
		}
		s.errorResponse(w, http.StatusBadRequest, "No file provided")
		return
	}

	file, header, err := r.FormFile(optimizer.ResumeField)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to parse PDF")
		return
	}

	fields, err := s.parser.Parse(types.Document{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		log.Printf("[server] Error parsing PDF %s: %v", header.Filename, err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to parse PDF")
		return
	}

	s.jsonResponse(w, http.StatusOK, ParseResponse{Success: true, ResumeData: fields})
}
