package optimizer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/jonathan/resume-optimizer/internal/schemas"
	"github.com/jonathan/resume-optimizer/internal/types"
)

// Endpoint paths served by the optimization API
const (
	StreamPath = "/api/optimize-resume-stream"
	AtomicPath = "/api/optimize-resume"
)

// Form field names shared by both optimization endpoints
const (
	ResumeField         = "resume"
	JobDescriptionField = "jobDescription"
)

// maxResponseBytes bounds the atomic response body that is read into memory.
const maxResponseBytes = 8 << 20

// Transport delivers an optimization request to the server.
type Transport interface {
	// OpenStream starts the incremental transfer. A returned error means the
	// stream was never accepted.
	OpenStream(ctx context.Context, req types.OptimizationRequest) (io.ReadCloser, error)
	// Atomic performs the single-shot transfer and returns the whole artifact.
	Atomic(ctx context.Context, req types.OptimizationRequest) (string, error)
}

// HTTPTransport talks to the optimization API over HTTP.
type HTTPTransport struct {
	baseURL string
	client  *http.Client
}

// NewHTTPTransport creates a transport for the server at baseURL. A nil
// client uses a client without a timeout; cancellation comes from the context.
func NewHTTPTransport(baseURL string, client *http.Client) *HTTPTransport {
	if client == nil {
		client = &http.Client{}
	}
	return &HTTPTransport{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  client,
	}
}

// OpenStream posts the request to the streaming endpoint and returns the
// response body once the server has accepted it.
func (t *HTTPTransport) OpenStream(ctx context.Context, req types.OptimizationRequest) (io.ReadCloser, error) {
	resp, err := t.post(ctx, StreamPath, req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer func() { _ = resp.Body.Close() }()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
		return nil, statusError(StreamPath, resp.StatusCode, body)
	}

	return resp.Body, nil
}

// Atomic posts the request to the atomic endpoint and returns the artifact text.
func (t *HTTPTransport) Atomic(ctx context.Context, req types.OptimizationRequest) (string, error) {
	resp, err := t.post(ctx, AtomicPath, req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", statusError(AtomicPath, resp.StatusCode, body)
	}

	if err := schemas.Validate(schemas.OptimizeResponse, body); err != nil {
		return "", &ResponseError{Endpoint: AtomicPath, Message: "unexpected payload", Cause: err}
	}

	var payload struct {
		Latex string `json:"latex"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", &ResponseError{Endpoint: AtomicPath, Message: "malformed JSON", Cause: err}
	}
	return payload.Latex, nil
}

func (t *HTTPTransport) post(ctx context.Context, path string, req types.OptimizationRequest) (*http.Response, error) {
	body, contentType, err := EncodeRequest(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", contentType)

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to reach %s: %w", path, err)
	}
	return resp, nil
}

// EncodeRequest builds the multipart form shared by both endpoints. It is
// rebuilt for every attempt so each one carries identical form content;
// only the boundary differs.
func EncodeRequest(req types.OptimizationRequest) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	filename := req.Document.Filename
	if filename == "" {
		filename = "resume.pdf"
	}
	contentType := req.Document.ContentType
	if contentType == "" {
		contentType = types.PDFContentType
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, ResumeField, filename))
	header.Set("Content-Type", contentType)
	part, err := w.CreatePart(header)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create resume part: %w", err)
	}
	if _, err := part.Write(req.Document.Data); err != nil {
		return nil, "", fmt.Errorf("failed to write resume part: %w", err)
	}

	if err := w.WriteField(JobDescriptionField, req.JobDescription); err != nil {
		return nil, "", fmt.Errorf("failed to write job description: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finish form: %w", err)
	}

	return &buf, w.FormDataContentType(), nil
}

// statusError turns a non-success response into a StatusError, taking the
// message from the JSON error body when there is one.
func statusError(endpoint string, status int, body []byte) error {
	statusErr := &StatusError{Endpoint: endpoint, StatusCode: status}

	if err := schemas.Validate(schemas.ErrorResponse, body); err != nil {
		var loadErr *schemas.SchemaLoadError
		if !errors.As(err, &loadErr) {
			return statusErr
		}
		// Not JSON at all; keep a short plain-text body as the message
		if text := strings.TrimSpace(string(body)); text != "" && len(text) <= 200 {
			statusErr.Message = text
		}
		return statusErr
	}

	var payload struct {
		Error   string `json:"error"`
		Details string `json:"details"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		statusErr.Message = payload.Error
		statusErr.Details = payload.Details
	}
	return statusErr
}
