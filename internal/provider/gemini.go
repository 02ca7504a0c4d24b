package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/hireflow/cv-eval-service/internal/pipeline"
)

const defaultGeminiModel = "gemini-2.0-flash"

// GeminiConfig holds settings for the Gemini backend.
type GeminiConfig struct {
	APIKey string
	Model  string
}

// Gemini calls the Gemini API through the genai client and maps its response
// and error shapes onto the shared contract.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini creates a Gemini provider. The API key is required and is read
// once at process start.
func NewGemini(ctx context.Context, cfg GeminiConfig) (*Gemini, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("gemini api key is required")
	}
	if cfg.Model == "" {
		cfg.Model = defaultGeminiModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &Gemini{client: client, model: cfg.Model}, nil
}

func (g *Gemini) Name() string { return "gemini" }

// Evaluate sends the rendered prompt to Gemini and concatenates the textual
// candidate parts. API errors carry a status code and follow the enumerated
// classification; transport failures are transient.
func (g *Gemini) Evaluate(ctx context.Context, prompt pipeline.Prompt) (*Response, error) {
	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(0.3)),
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt.Text()), cfg)
	if err != nil {
		return nil, g.classify(err)
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}

	content := strings.TrimSpace(builder.String())
	if content == "" {
		return nil, &Error{Provider: g.Name(), Message: "empty response from model"}
	}

	return &Response{
		Content:  content,
		Provider: g.Name(),
		Model:    g.model,
	}, nil
}

// classify maps genai errors onto the shared taxonomy. API errors expose an
// HTTP-equivalent code; everything else (transport, timeout) is transient.
func (g *Gemini) classify(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return classifyStatus(g.Name(), apiErr.Code, apiErr.Message)
	}
	return &Error{Provider: g.Name(), Message: err.Error()}
}
