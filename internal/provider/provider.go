// Package provider abstracts the LLM backends that produce structured
// evaluations. All backends satisfy one contract; failures are classified as
// transient (retried) or permanent (surfaced immediately).
package provider

import (
	"context"
	"fmt"

	"github.com/hireflow/cv-eval-service/internal/pipeline"
	"github.com/hireflow/cv-eval-service/internal/retry"
)

// Response is the raw structured payload a provider returns. It may be
// malformed and must pass pipeline.ParseResult before becoming part of a job
// result.
type Response struct {
	Content  string
	Provider string
	Model    string
}

// Provider is the uniform contract over heterogeneous LLM backends. Evaluate
// is synchronous from the caller's perspective; remote implementations block
// on network I/O and honor ctx deadlines.
type Provider interface {
	Name() string
	Evaluate(ctx context.Context, prompt pipeline.Prompt) (*Response, error)
}

// Error describes a failed provider call.
type Error struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: status %d: %s", e.Provider, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}

// classifyStatus maps an HTTP-equivalent status code onto the retry
// classification. The mapping is enumerated per the shared taxonomy: request
// timeouts, rate limits and server errors are transient; everything in the
// 4xx family (bad credentials, malformed requests, policy rejections) is
// permanent. Unknown codes default to transient so an unexpected backend
// hiccup still gets its retries.
func classifyStatus(providerName string, status int, message string) error {
	provErr := &Error{Provider: providerName, StatusCode: status, Message: message}

	switch {
	case status == 408 || status == 429:
		return provErr
	case status >= 500:
		return provErr
	case status >= 400:
		return retry.Permanent(provErr)
	default:
		return provErr
	}
}
