package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"

	"github.com/hireflow/cv-eval-service/internal/domain"
	"github.com/hireflow/cv-eval-service/internal/pipeline"
)

// Mock is a deterministic, latency-free provider. It is the development
// default and the configurable last-resort fallback when every remote
// provider is exhausted. The same prompt always yields the same response.
type Mock struct{}

// NewMock creates a Mock provider.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) Name() string { return "mock" }

// Evaluate derives stable scores from a hash of the prompt inputs so
// repeated runs are reproducible, and renders them in the shared result
// schema.
func (m *Mock) Evaluate(_ context.Context, prompt pipeline.Prompt) (*Response, error) {
	score := func(field string) float64 {
		h := fnv.New32a()
		h.Write([]byte(field))
		h.Write([]byte(prompt.JobRequirements))
		h.Write([]byte(prompt.CVText))
		// Spread over [55,95] so mock evaluations look plausible and stay
		// well inside the valid range.
		return float64(55 + h.Sum32()%41)
	}

	result := domain.EvaluationResult{
		CVEvaluation: domain.CVEvaluation{
			TechnicalSkillsScore: score("technical_skills"),
			ExperienceScore:      score("experience"),
			EducationScore:       score("education"),
			OverallScore:         score("cv_overall"),
			Strengths:            []string{"Strong backend and API fundamentals", "Evidence of ownership on shipped systems"},
			Weaknesses:           []string{"Limited exposure to AI/LLM integration"},
			Recommendations:      []string{"Probe system design depth in the technical interview"},
		},
		OverallSummary:      "Candidate shows a solid backend profile with room to grow in AI-adjacent work.",
		FinalRecommendation: "Proceed to technical interview.",
	}

	if prompt.HasProject {
		result.ProjectEvaluation = &domain.ProjectEvaluation{
			TechnicalImplementationScore: score("project_impl"),
			CodeQualityScore:             score("project_quality"),
			DocumentationScore:           score("project_docs"),
			InnovationScore:              score("project_innovation"),
			OverallScore:                 score("project_overall"),
			Strengths:                    []string{"Meets the stated requirements"},
			Weaknesses:                   []string{"Error-handling paths could be more robust"},
		}
	}

	content, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("mock provider failed to render response: %w", err)
	}

	return &Response{
		Content:  string(content),
		Provider: m.Name(),
		Model:    "mock-evaluator",
	}, nil
}
