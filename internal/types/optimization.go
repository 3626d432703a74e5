// Package types provides type definitions for structured data used throughout the resume optimizer.
package types

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var requestValidator = newRequestValidator()

func newRequestValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	return v
}

// MaxDocumentBytes is the default upload limit for a resume document.
const MaxDocumentBytes = 10 << 20

// PDFContentType is the only document type accepted for optimization.
const PDFContentType = "application/pdf"

// DefaultArtifactFilename is the filename used when downloading the generated LaTeX.
const DefaultArtifactFilename = "optimized_resume.tex"

// Document is an uploaded resume file.
type Document struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type" validate:"omitempty,eq=application/pdf"`
	Data        []byte `json:"-" validate:"required,min=1,max=10485760"`
}

// Clone returns a deep copy of the document so the caller's buffer can be reused.
func (d Document) Clone() Document {
	data := make([]byte, len(d.Data))
	copy(data, d.Data)
	return Document{
		Filename:    d.Filename,
		ContentType: d.ContentType,
		Data:        data,
	}
}

// OptimizationRequest pairs a resume document with the target job description.
type OptimizationRequest struct {
	Document       Document `json:"document"`
	JobDescription string   `json:"job_description" validate:"required,notblank"`
}

// Validate validates the OptimizationRequest using the validator.
func (r *OptimizationRequest) Validate() error {
	return requestValidator.Struct(r)
}

// IsSubmittable reports whether both a document and a non-blank job description are present.
func (r *OptimizationRequest) IsSubmittable() bool {
	return len(r.Document.Data) > 0 && strings.TrimSpace(r.JobDescription) != ""
}

// TransportMode identifies how the artifact was delivered.
type TransportMode string

const (
	// TransportStreaming delivers the artifact in chunks
	TransportStreaming TransportMode = "streaming"
	// TransportAtomic delivers the artifact in a single response
	TransportAtomic TransportMode = "atomic"
)

// OptimizationResult is a snapshot of the artifact produced by a pipeline run.
type OptimizationResult struct {
	ArtifactText  string        `json:"artifact_text"`
	IsComplete    bool          `json:"is_complete"`
	TransportMode TransportMode `json:"transport_mode,omitempty"`
	Improvements  []string      `json:"improvements"`
}

// Length returns the artifact length in characters.
func (r OptimizationResult) Length() int {
	return len([]rune(r.ArtifactText))
}

// PipelineState is the lifecycle state of a pipeline run.
type PipelineState string

// Pipeline states
const (
	StateIdle                PipelineState = "idle"
	StateAwaitingIntake      PipelineState = "awaiting_intake"
	StateSubmitting          PipelineState = "submitting"
	StateStreamingInProgress PipelineState = "streaming_in_progress"
	StateAtomicPending       PipelineState = "atomic_pending"
	StateSucceeded           PipelineState = "succeeded"
	StateFailed              PipelineState = "failed"
)

// IsActive reports whether a run is currently in flight.
func (s PipelineState) IsActive() bool {
	switch s {
	case StateSubmitting, StateStreamingInProgress, StateAtomicPending:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether the state ends a run.
func (s PipelineState) IsTerminal() bool {
	return s == StateSucceeded || s == StateFailed
}

// ExtractedResumeFields is the best-effort structured view of a parsed resume.
// None of the fields are authoritative and any of them may be empty.
type ExtractedResumeFields struct {
	FullText   string   `json:"fullText"`
	Name       string   `json:"name"`
	Email      string   `json:"email"`
	Phone      string   `json:"phone"`
	Skills     []string `json:"skills"`
	Education  string   `json:"education"`
	Experience string   `json:"experience"`
}
