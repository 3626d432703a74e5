package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/jonathan/resume-optimizer/internal/types"
)

// Client is an abstraction over LLM providers
type Client interface {
	// GenerateFromDocument sends the document and prompt and waits for the full response
	GenerateFromDocument(ctx context.Context, doc types.Document, prompt string, tier ModelTier) (string, error)
	// StreamFromDocument sends the document and prompt and returns the response as it is generated
	StreamFromDocument(ctx context.Context, doc types.Document, prompt string, tier ModelTier) (TextStream, error)
	// Close releases any resources held by the client
	Close() error
}

// TextStream yields generated text chunks. Next returns io.EOF once the
// response is finished.
type TextStream interface {
	Next() (string, error)
}

// NewClient creates a new LLM client based on configuration
func NewClient(ctx context.Context, config *Config, apiKey string) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}

	switch config.Provider {
	case ProviderGemini:
		return NewGeminiClient(ctx, config, apiKey)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", config.Provider)
	}
}

// GeminiClient implements Client for Google Gemini
type GeminiClient struct {
	client *genai.Client
	config *Config
}

// NewGeminiClient creates a new Gemini client
func NewGeminiClient(ctx context.Context, config *Config, apiKey string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		client: client,
		config: config,
	}, nil
}

// model returns a configured generative model for the tier
func (c *GeminiClient) model(tier ModelTier) (*genai.GenerativeModel, error) {
	modelName := c.config.GetModel(tier)
	if modelName == "" {
		return nil, fmt.Errorf("no model configured for tier %s", tier)
	}

	model := c.client.GenerativeModel(modelName)
	model.SetTemperature(c.config.Temperature)
	return model, nil
}

// documentParts builds the multimodal request: instruction first, then the inline file
func documentParts(doc types.Document, prompt string) []genai.Part {
	mimeType := doc.ContentType
	if mimeType == "" {
		mimeType = types.PDFContentType
	}
	return []genai.Part{
		genai.Text(prompt),
		genai.Blob{MIMEType: mimeType, Data: doc.Data},
	}
}

// GenerateFromDocument generates the full response in a single call
func (c *GeminiClient) GenerateFromDocument(ctx context.Context, doc types.Document, prompt string, tier ModelTier) (string, error) {
	model, err := c.model(tier)
	if err != nil {
		return "", err
	}

	resp, err := model.GenerateContent(ctx, documentParts(doc, prompt)...)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	return extractTextFromResponse(resp)
}

// StreamFromDocument starts a streaming generation
func (c *GeminiClient) StreamFromDocument(ctx context.Context, doc types.Document, prompt string, tier ModelTier) (TextStream, error) {
	model, err := c.model(tier)
	if err != nil {
		return nil, err
	}

	return &geminiStream{iter: model.GenerateContentStream(ctx, documentParts(doc, prompt)...)}, nil
}

// Close releases resources held by the client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// geminiStream adapts the genai response iterator to TextStream
type geminiStream struct {
	iter *genai.GenerateContentResponseIterator
}

// Next returns the text of the next response that carries any
func (s *geminiStream) Next() (string, error) {
	for {
		resp, err := s.iter.Next()
		if errors.Is(err, iterator.Done) {
			return "", io.EOF
		}
		if err != nil {
			return "", fmt.Errorf("failed to read stream: %w", err)
		}

		text, err := extractTextFromResponse(resp)
		if err != nil {
			// Some stream responses only carry usage metadata
			continue
		}
		return text, nil
	}
}

// extractTextFromResponse extracts text from Gemini API response
func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}

	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}

	return strings.Join(parts, ""), nil
}
