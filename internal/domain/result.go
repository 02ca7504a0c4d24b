package domain

// CVEvaluation holds the scored assessment of a candidate's CV against the
// job requirements. Scores are on a 0-100 scale.
type CVEvaluation struct {
	TechnicalSkillsScore float64  `json:"technical_skills_score"`
	ExperienceScore      float64  `json:"experience_score"`
	EducationScore       float64  `json:"education_score"`
	OverallScore         float64  `json:"overall_score"`
	Strengths            []string `json:"strengths"`
	Weaknesses           []string `json:"weaknesses"`
	Recommendations      []string `json:"recommendations"`
}

// ProjectEvaluation holds the scored assessment of an optional project
// report. Scores are on a 0-100 scale.
type ProjectEvaluation struct {
	TechnicalImplementationScore float64  `json:"technical_implementation_score"`
	CodeQualityScore             float64  `json:"code_quality_score"`
	DocumentationScore           float64  `json:"documentation_score"`
	InnovationScore              float64  `json:"innovation_score"`
	OverallScore                 float64  `json:"overall_score"`
	Strengths                    []string `json:"strengths"`
	Weaknesses                   []string `json:"weaknesses"`
}

// EvaluationResult is the validated outcome of a completed evaluation job.
// ProjectEvaluation is nil when no project report was submitted.
type EvaluationResult struct {
	CVEvaluation        CVEvaluation       `json:"cv_evaluation"`
	ProjectEvaluation   *ProjectEvaluation `json:"project_evaluation,omitempty"`
	OverallSummary      string             `json:"overall_summary"`
	FinalRecommendation string             `json:"final_recommendation"`
}

// Clone returns a deep copy of the result.
func (r EvaluationResult) Clone() EvaluationResult {
	cp := r
	cp.CVEvaluation.Strengths = append([]string(nil), r.CVEvaluation.Strengths...)
	cp.CVEvaluation.Weaknesses = append([]string(nil), r.CVEvaluation.Weaknesses...)
	cp.CVEvaluation.Recommendations = append([]string(nil), r.CVEvaluation.Recommendations...)
	if r.ProjectEvaluation != nil {
		project := *r.ProjectEvaluation
		project.Strengths = append([]string(nil), r.ProjectEvaluation.Strengths...)
		project.Weaknesses = append([]string(nil), r.ProjectEvaluation.Weaknesses...)
		cp.ProjectEvaluation = &project
	}
	return cp
}
