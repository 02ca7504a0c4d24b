package retrieval

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// Document is one reference text held by the in-memory store.
type Document struct {
	ID      string
	Content string
}

// MemoryStore is a ContextStore for development and tests. It ranks
// documents by naive term overlap with the query; scores are in [0,1].
type MemoryStore struct {
	mu   sync.RWMutex
	docs []Document
}

// NewMemoryStore creates a store seeded with the given documents. Seed with
// DefaultDocuments for a usable development setup.
func NewMemoryStore(docs []Document) *MemoryStore {
	return &MemoryStore{docs: docs}
}

// Add appends a document to the store.
func (s *MemoryStore) Add(doc Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = append(s.docs, doc)
}

// Search scores each document by the fraction of query terms it contains and
// returns the topK best matches, best first. Documents with no overlap are
// omitted.
func (s *MemoryStore) Search(_ context.Context, query string, topK int) ([]Snippet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 || topK <= 0 {
		return nil, nil
	}

	snippets := make([]Snippet, 0, len(s.docs))
	for _, doc := range s.docs {
		content := strings.ToLower(doc.Content)
		matched := 0
		for _, term := range terms {
			if strings.Contains(content, term) {
				matched++
			}
		}
		if matched == 0 {
			continue
		}
		snippets = append(snippets, Snippet{
			Text:     doc.Content,
			Score:    float64(matched) / float64(len(terms)),
			SourceID: doc.ID,
		})
	}

	sort.SliceStable(snippets, func(i, j int) bool {
		return snippets[i].Score > snippets[j].Score
	})

	if len(snippets) > topK {
		snippets = snippets[:topK]
	}
	return snippets, nil
}

// DefaultDocuments returns the reference texts the development store is
// seeded with: a backend job-description reference and the scoring rubrics.
func DefaultDocuments() []Document {
	return []Document{
		{
			ID: "backend_job_reference",
			Content: `Backend Developer Position:
- 3+ years experience in backend development
- Proficiency in Go, Python, Node.js, or similar languages
- Experience with REST APIs and microservices
- Database experience (SQL/NoSQL)
- Cloud platforms (AWS, GCP, Azure)
- Understanding of AI/ML integration is a plus
- Strong problem-solving and communication skills`,
		},
		{
			ID: "cv_scoring_rubric",
			Content: `CV Evaluation Scoring Rubric (0-100 scale):
Technical Skills: 90-100 expert level in required technologies;
70-89 strong proficiency with most requirements; 50-69 moderate skills
with some gaps; below 50 significant gaps.
Experience: 90-100 five or more years of relevant experience;
70-89 three to four years; 50-69 one to two years; below 50 minimal
relevant experience.`,
		},
		{
			ID: "project_scoring_rubric",
			Content: `Project Evaluation Scoring Rubric (0-100 scale):
Technical Implementation: correctness against requirements, prompt design,
chaining, retrieval augmentation, error handling.
Code Quality: clean, modular, testable structure.
Documentation: clear README and explanation of trade-offs.
Innovation: optional improvements such as authentication, deployment,
or dashboards.`,
		},
	}
}
