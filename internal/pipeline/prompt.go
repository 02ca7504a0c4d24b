// Package pipeline assembles evaluation prompts and validates provider
// responses into evaluation results.
package pipeline

import (
	"fmt"
	"strings"

	"github.com/hireflow/cv-eval-service/internal/retrieval"
)

// Prompt is the shared prompt representation handed to every provider. Each
// provider translates it into its own request format.
type Prompt struct {
	JobRequirements string
	CVText          string
	ProjectText     string
	ContextSnippets []retrieval.Snippet
	HasProject      bool
}

// BuildPrompt assembles a Prompt from the extracted texts and retrieved
// context. Pure assembly; no side effects.
func BuildPrompt(cvText, projectText, requirements string, snippets []retrieval.Snippet) Prompt {
	return Prompt{
		JobRequirements: requirements,
		CVText:          cvText,
		ProjectText:     projectText,
		ContextSnippets: snippets,
		HasProject:      projectText != "",
	}
}

// Text renders the full instruction block sent to a provider. The rendering
// is deterministic for a given Prompt.
func (p Prompt) Text() string {
	var b strings.Builder

	b.WriteString("You are an expert technical recruiter. Evaluate the candidate below against the job requirements.\n\n")

	b.WriteString("Job Requirements:\n")
	b.WriteString(p.JobRequirements)
	b.WriteString("\n\n")

	if len(p.ContextSnippets) > 0 {
		b.WriteString("Reference Material:\n")
		for _, snippet := range p.ContextSnippets {
			fmt.Fprintf(&b, "- [%s] %s\n", snippet.SourceID, snippet.Text)
		}
		b.WriteString("\n")
	}

	b.WriteString("CV Content:\n")
	b.WriteString(p.CVText)
	b.WriteString("\n\n")

	if p.HasProject {
		b.WriteString("Project Report:\n")
		b.WriteString(p.ProjectText)
		b.WriteString("\n\n")
	}

	b.WriteString("Return strict JSON with this structure:\n")
	b.WriteString(`{
  "cv_evaluation": {
    "technical_skills_score": 0-100,
    "experience_score": 0-100,
    "education_score": 0-100,
    "overall_score": 0-100,
    "strengths": ["..."],
    "weaknesses": ["..."],
    "recommendations": ["..."]
  },`)
	if p.HasProject {
		b.WriteString(`
  "project_evaluation": {
    "technical_implementation_score": 0-100,
    "code_quality_score": 0-100,
    "documentation_score": 0-100,
    "innovation_score": 0-100,
    "overall_score": 0-100,
    "strengths": ["..."],
    "weaknesses": ["..."]
  },`)
	}
	b.WriteString(`
  "overall_summary": "2-3 sentence synthesis",
  "final_recommendation": "hire / no-hire verdict with reasoning"
}`)
	b.WriteString("\n\nAll scores are numbers between 0 and 100. Return ONLY the raw JSON without markdown formatting, code blocks, or additional text.")

	return b.String()
}
