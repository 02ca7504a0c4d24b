// Package retrieval defines the contract for the context store that supplies
// reference snippets (job-description references, scoring rubrics) used to
// enrich evaluation prompts.
package retrieval

import "context"

// Snippet is one retrieved reference text with its relevance score.
type Snippet struct {
	Text     string
	Score    float64
	SourceID string
}

// ContextStore is the similarity-search contract over the external knowledge
// store. Search returns at most topK snippets ordered by descending score.
type ContextStore interface {
	Search(ctx context.Context, query string, topK int) ([]Snippet, error)
}

// RetrievalError signals that the store was unavailable. Callers treat it as
// transient; the evaluation pipeline degrades to an empty context set when
// retrieval ultimately fails.
type RetrievalError struct {
	Err error
}

func (e *RetrievalError) Error() string {
	return "context retrieval failed: " + e.Err.Error()
}

func (e *RetrievalError) Unwrap() error {
	return e.Err
}
