package pipeline

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hireflow/cv-eval-service/internal/domain"
)

// MalformedResponseError signals that a provider's output failed validation.
// Corrupted output never becomes a completed job result.
type MalformedResponseError struct {
	Reason string
}

func (e *MalformedResponseError) Error() string {
	return "malformed provider response: " + e.Reason
}

type rawCVEvaluation struct {
	TechnicalSkillsScore *float64 `json:"technical_skills_score"`
	ExperienceScore      *float64 `json:"experience_score"`
	EducationScore       *float64 `json:"education_score"`
	OverallScore         *float64 `json:"overall_score"`
	Strengths            []string `json:"strengths"`
	Weaknesses           []string `json:"weaknesses"`
	Recommendations      []string `json:"recommendations"`
}

type rawProjectEvaluation struct {
	TechnicalImplementationScore *float64 `json:"technical_implementation_score"`
	CodeQualityScore             *float64 `json:"code_quality_score"`
	DocumentationScore           *float64 `json:"documentation_score"`
	InnovationScore              *float64 `json:"innovation_score"`
	OverallScore                 *float64 `json:"overall_score"`
	Strengths                    []string `json:"strengths"`
	Weaknesses                   []string `json:"weaknesses"`
}

type rawResult struct {
	CVEvaluation        *rawCVEvaluation      `json:"cv_evaluation"`
	ProjectEvaluation   *rawProjectEvaluation `json:"project_evaluation"`
	OverallSummary      string                `json:"overall_summary"`
	FinalRecommendation string                `json:"final_recommendation"`
}

// ParseResult validates a provider's raw payload into an EvaluationResult.
// Every required score must be present and within [0,100]; violations fail
// with MalformedResponseError rather than being clamped or defaulted. A
// missing project_evaluation is legal only when no project was submitted.
func ParseResult(content string, projectSubmitted bool) (*domain.EvaluationResult, error) {
	payload := extractJSON(content)
	if payload == "" {
		return nil, &MalformedResponseError{Reason: "no JSON object found in response"}
	}

	var raw rawResult
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		return nil, &MalformedResponseError{Reason: fmt.Sprintf("invalid JSON: %s", err)}
	}

	if raw.CVEvaluation == nil {
		return nil, &MalformedResponseError{Reason: "missing cv_evaluation"}
	}

	cvScores := map[string]*float64{
		"cv_evaluation.technical_skills_score": raw.CVEvaluation.TechnicalSkillsScore,
		"cv_evaluation.experience_score":       raw.CVEvaluation.ExperienceScore,
		"cv_evaluation.education_score":        raw.CVEvaluation.EducationScore,
		"cv_evaluation.overall_score":          raw.CVEvaluation.OverallScore,
	}
	if err := validateScores(cvScores); err != nil {
		return nil, err
	}

	result := &domain.EvaluationResult{
		CVEvaluation: domain.CVEvaluation{
			TechnicalSkillsScore: *raw.CVEvaluation.TechnicalSkillsScore,
			ExperienceScore:      *raw.CVEvaluation.ExperienceScore,
			EducationScore:       *raw.CVEvaluation.EducationScore,
			OverallScore:         *raw.CVEvaluation.OverallScore,
			Strengths:            raw.CVEvaluation.Strengths,
			Weaknesses:           raw.CVEvaluation.Weaknesses,
			Recommendations:      raw.CVEvaluation.Recommendations,
		},
		OverallSummary:      strings.TrimSpace(raw.OverallSummary),
		FinalRecommendation: strings.TrimSpace(raw.FinalRecommendation),
	}

	if projectSubmitted {
		if raw.ProjectEvaluation == nil {
			return nil, &MalformedResponseError{Reason: "missing project_evaluation for submitted project"}
		}

		projectScores := map[string]*float64{
			"project_evaluation.technical_implementation_score": raw.ProjectEvaluation.TechnicalImplementationScore,
			"project_evaluation.code_quality_score":             raw.ProjectEvaluation.CodeQualityScore,
			"project_evaluation.documentation_score":            raw.ProjectEvaluation.DocumentationScore,
			"project_evaluation.innovation_score":               raw.ProjectEvaluation.InnovationScore,
			"project_evaluation.overall_score":                  raw.ProjectEvaluation.OverallScore,
		}
		if err := validateScores(projectScores); err != nil {
			return nil, err
		}

		result.ProjectEvaluation = &domain.ProjectEvaluation{
			TechnicalImplementationScore: *raw.ProjectEvaluation.TechnicalImplementationScore,
			CodeQualityScore:             *raw.ProjectEvaluation.CodeQualityScore,
			DocumentationScore:           *raw.ProjectEvaluation.DocumentationScore,
			InnovationScore:              *raw.ProjectEvaluation.InnovationScore,
			OverallScore:                 *raw.ProjectEvaluation.OverallScore,
			Strengths:                    raw.ProjectEvaluation.Strengths,
			Weaknesses:                   raw.ProjectEvaluation.Weaknesses,
		}
	}
	// A project_evaluation returned when no project was submitted is
	// dropped; it has nothing to score against.

	return result, nil
}

func validateScores(scores map[string]*float64) error {
	for field, score := range scores {
		if score == nil {
			return &MalformedResponseError{Reason: "missing score field " + field}
		}
		if *score < 0 || *score > 100 {
			return &MalformedResponseError{
				Reason: fmt.Sprintf("score %s out of range [0,100]: %g", field, *score),
			}
		}
	}
	return nil
}

// extractJSON strips markdown code fences and returns the outermost JSON
// object in the text, or "" when none exists.
func extractJSON(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
	}
	if strings.HasSuffix(content, "```") {
		content = strings.TrimSuffix(content, "```")
	}
	content = strings.TrimSpace(content)

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end == -1 || end <= start {
		return ""
	}
	return content[start : end+1]
}
