package retrieval

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/weaviate/weaviate-go-client/v5/weaviate"
	"github.com/weaviate/weaviate-go-client/v5/weaviate/auth"
	"github.com/weaviate/weaviate-go-client/v5/weaviate/graphql"
)

// WeaviateConfig holds connection settings for the Weaviate-backed store.
type WeaviateConfig struct {
	Host      string
	Scheme    string
	APIKey    string
	ClassName string
}

// WeaviateStore retrieves context snippets from a Weaviate class via
// near-text similarity search.
type WeaviateStore struct {
	client    *weaviate.Client
	className string
	logger    *slog.Logger
}

// NewWeaviateStore creates a ContextStore backed by Weaviate.
func NewWeaviateStore(cfg WeaviateConfig, logger *slog.Logger) (*WeaviateStore, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("weaviate host is required")
	}
	if cfg.ClassName == "" {
		return nil, fmt.Errorf("weaviate class name is required")
	}

	clientCfg := weaviate.Config{
		Host:   cfg.Host,
		Scheme: cfg.Scheme,
	}
	if cfg.APIKey != "" {
		clientCfg.AuthConfig = auth.ApiKey{Value: cfg.APIKey}
	}

	client, err := weaviate.NewClient(clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create weaviate client: %w", err)
	}

	return &WeaviateStore{
		client:    client,
		className: cfg.ClassName,
		logger:    logger,
	}, nil
}

// Search runs a near-text query and maps the hits into Snippets ordered by
// descending certainty. Store failures come back as RetrievalError.
func (s *WeaviateStore) Search(ctx context.Context, query string, topK int) ([]Snippet, error) {
	fields := []graphql.Field{
		{Name: "content"},
		{Name: "source_id"},
		{Name: "_additional", Fields: []graphql.Field{{Name: "certainty"}}},
	}

	nearText := s.client.GraphQL().NearTextArgBuilder().
		WithConcepts([]string{query})

	response, err := s.client.GraphQL().Get().
		WithClassName(s.className).
		WithFields(fields...).
		WithNearText(nearText).
		WithLimit(topK).
		Do(ctx)
	if err != nil {
		return nil, &RetrievalError{Err: err}
	}
	if len(response.Errors) > 0 {
		return nil, &RetrievalError{Err: fmt.Errorf("graphql error: %s", response.Errors[0].Message)}
	}

	data, ok := response.Data["Get"].(map[string]interface{})
	if !ok {
		return nil, nil
	}

	items, ok := data[s.className].([]interface{})
	if !ok {
		return nil, nil
	}

	snippets := make([]Snippet, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]interface{})
		if !ok {
			continue
		}

		snippet := Snippet{}
		if content, ok := obj["content"].(string); ok {
			snippet.Text = content
		}
		if sourceID, ok := obj["source_id"].(string); ok {
			snippet.SourceID = sourceID
		}
		if additional, ok := obj["_additional"].(map[string]interface{}); ok {
			if certainty, ok := additional["certainty"].(float64); ok {
				snippet.Score = certainty
			}
		}

		if snippet.Text == "" {
			continue
		}
		snippets = append(snippets, snippet)
	}

	s.logger.Debug("Context search completed",
		slog.String("class", s.className),
		slog.Int("top_k", topK),
		slog.Int("hits", len(snippets)),
	)

	return snippets, nil
}
