package retrieval

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Search(t *testing.T) {
	store := NewMemoryStore([]Document{
		{ID: "a", Content: "Go backend developer with REST API experience"},
		{ID: "b", Content: "Frontend engineer working with React"},
		{ID: "c", Content: "Backend engineer, Go and PostgreSQL"},
	})

	snippets, err := store.Search(context.Background(), "Go backend", 10)
	require.NoError(t, err)
	require.Len(t, snippets, 2)

	// Both terms match both documents; scores are equal and ordering stable.
	assert.Equal(t, "a", snippets[0].SourceID)
	assert.Equal(t, "c", snippets[1].SourceID)
	for _, s := range snippets {
		assert.InDelta(t, 1.0, s.Score, 1e-9)
	}
}

func TestMemoryStore_SearchOrderedByScore(t *testing.T) {
	store := NewMemoryStore([]Document{
		{ID: "partial", Content: "backend systems"},
		{ID: "full", Content: "senior backend engineer"},
	})

	snippets, err := store.Search(context.Background(), "senior backend engineer", 10)
	require.NoError(t, err)
	require.Len(t, snippets, 2)
	assert.Equal(t, "full", snippets[0].SourceID)
	assert.Greater(t, snippets[0].Score, snippets[1].Score)
}

func TestMemoryStore_SearchRespectsTopK(t *testing.T) {
	store := NewMemoryStore(DefaultDocuments())

	snippets, err := store.Search(context.Background(), "backend evaluation scoring", 1)
	require.NoError(t, err)
	assert.Len(t, snippets, 1)
}

func TestMemoryStore_SearchNoMatches(t *testing.T) {
	store := NewMemoryStore(DefaultDocuments())

	snippets, err := store.Search(context.Background(), "zzzzzz", 3)
	require.NoError(t, err)
	assert.Empty(t, snippets)
}

func TestMemoryStore_Add(t *testing.T) {
	store := NewMemoryStore(nil)
	store.Add(Document{ID: "x", Content: "kubernetes operator"})

	snippets, err := store.Search(context.Background(), "kubernetes", 3)
	require.NoError(t, err)
	require.Len(t, snippets, 1)
	assert.Equal(t, "x", snippets[0].SourceID)
}
