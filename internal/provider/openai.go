package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hireflow/cv-eval-service/internal/pipeline"
)

const (
	defaultOpenAIBaseURL = "https://api.openai.com/v1"
	defaultOpenAIModel   = "gpt-4o-mini"
)

// OpenAIConfig holds settings for the OpenAI chat-completions backend.
type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// OpenAI calls the chat-completions API and maps its response and error
// shapes onto the shared contract.
type OpenAI struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// NewOpenAI creates an OpenAI provider. The API key is required and is read
// once at process start.
func NewOpenAI(cfg OpenAIConfig) (*OpenAI, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("openai api key is required")
	}
	if cfg.Model == "" {
		cfg.Model = defaultOpenAIModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultOpenAIBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}

	return &OpenAI{
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		client:  &http.Client{Timeout: cfg.Timeout},
	}, nil
}

func (o *OpenAI) Name() string { return "openai" }

type openAIRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	MaxTokens   int             `json:"max_tokens"`
	Temperature float64         `json:"temperature"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Evaluate sends the rendered prompt to the chat-completions endpoint.
// Transport failures and timeouts classify as transient; HTTP status codes
// follow the enumerated mapping in classifyStatus.
func (o *OpenAI) Evaluate(ctx context.Context, prompt pipeline.Prompt) (*Response, error) {
	body, err := json.Marshal(openAIRequest{
		Model: o.model,
		Messages: []openAIMessage{
			{Role: "user", Content: prompt.Text()},
		},
		MaxTokens:   2000,
		Temperature: 0.3,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.apiKey)

	resp, err := o.client.Do(req)
	if err != nil {
		// Network errors and context deadline expiry retry like any other
		// transient failure.
		return nil, &Error{Provider: o.Name(), Message: err.Error()}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Provider: o.Name(), Message: "failed to read response: " + err.Error()}
	}

	if resp.StatusCode != http.StatusOK {
		message := strings.TrimSpace(string(respBody))
		var parsed openAIResponse
		if json.Unmarshal(respBody, &parsed) == nil && parsed.Error != nil {
			message = parsed.Error.Message
		}
		return nil, classifyStatus(o.Name(), resp.StatusCode, message)
	}

	var parsed openAIResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, &Error{Provider: o.Name(), Message: "invalid response body: " + err.Error()}
	}
	if len(parsed.Choices) == 0 {
		return nil, &Error{Provider: o.Name(), Message: "response contained no choices"}
	}

	return &Response{
		Content:  strings.TrimSpace(parsed.Choices[0].Message.Content),
		Provider: o.Name(),
		Model:    o.model,
	}, nil
}
