package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validCVOnlyResponse = `{
	"cv_evaluation": {
		"technical_skills_score": 85,
		"experience_score": 72,
		"education_score": 90,
		"overall_score": 81,
		"strengths": ["strong Go background"],
		"weaknesses": ["limited cloud exposure"],
		"recommendations": ["pair on infra work"]
	},
	"overall_summary": "Solid backend candidate.",
	"final_recommendation": "Hire."
}`

const validFullResponse = `{
	"cv_evaluation": {
		"technical_skills_score": 85,
		"experience_score": 72,
		"education_score": 90,
		"overall_score": 81,
		"strengths": [],
		"weaknesses": [],
		"recommendations": []
	},
	"project_evaluation": {
		"technical_implementation_score": 78,
		"code_quality_score": 80,
		"documentation_score": 65,
		"innovation_score": 70,
		"overall_score": 74,
		"strengths": ["clean layering"],
		"weaknesses": ["thin README"]
	},
	"overall_summary": "Good all round.",
	"final_recommendation": "Hire."
}`

func TestParseResult_CVOnly(t *testing.T) {
	result, err := ParseResult(validCVOnlyResponse, false)
	require.NoError(t, err)

	assert.Equal(t, 85.0, result.CVEvaluation.TechnicalSkillsScore)
	assert.Equal(t, 81.0, result.CVEvaluation.OverallScore)
	assert.Equal(t, []string{"strong Go background"}, result.CVEvaluation.Strengths)
	assert.Nil(t, result.ProjectEvaluation)
	assert.Equal(t, "Solid backend candidate.", result.OverallSummary)
	assert.Equal(t, "Hire.", result.FinalRecommendation)
}

func TestParseResult_WithProject(t *testing.T) {
	result, err := ParseResult(validFullResponse, true)
	require.NoError(t, err)

	require.NotNil(t, result.ProjectEvaluation)
	assert.Equal(t, 74.0, result.ProjectEvaluation.OverallScore)
	assert.Equal(t, []string{"clean layering"}, result.ProjectEvaluation.Strengths)
}

func TestParseResult_StripsCodeFences(t *testing.T) {
	fenced := "```json\n" + validCVOnlyResponse + "\n```"
	result, err := ParseResult(fenced, false)
	require.NoError(t, err)
	assert.Equal(t, 81.0, result.CVEvaluation.OverallScore)
}

func TestParseResult_SurroundingProse(t *testing.T) {
	wrapped := "Here is the evaluation you asked for:\n" + validCVOnlyResponse + "\nLet me know if you need more."
	result, err := ParseResult(wrapped, false)
	require.NoError(t, err)
	assert.Equal(t, 81.0, result.CVEvaluation.OverallScore)
}

func TestParseResult_Malformed(t *testing.T) {
	tests := []struct {
		name             string
		content          string
		projectSubmitted bool
		wantReason       string
	}{
		{
			name:       "empty response",
			content:    "",
			wantReason: "no JSON object",
		},
		{
			name:       "not json",
			content:    "I cannot evaluate this candidate.",
			wantReason: "no JSON object",
		},
		{
			name:       "truncated json",
			content:    `{"cv_evaluation": {"technical_skills_score": 85}`,
			wantReason: "invalid JSON",
		},
		{
			name:       "missing cv evaluation",
			content:    `{"overall_summary": "ok"}`,
			wantReason: "missing cv_evaluation",
		},
		{
			name: "missing score field",
			content: `{"cv_evaluation": {
				"technical_skills_score": 85,
				"experience_score": 72,
				"education_score": 90
			}}`,
			wantReason: "missing score field cv_evaluation.overall_score",
		},
		{
			name: "score above range",
			content: `{"cv_evaluation": {
				"technical_skills_score": 105,
				"experience_score": 72,
				"education_score": 90,
				"overall_score": 81
			}}`,
			wantReason: "out of range",
		},
		{
			name: "negative score",
			content: `{"cv_evaluation": {
				"technical_skills_score": 85,
				"experience_score": -3,
				"education_score": 90,
				"overall_score": 81
			}}`,
			wantReason: "out of range",
		},
		{
			name:             "project submitted but missing",
			content:          validCVOnlyResponse,
			projectSubmitted: true,
			wantReason:       "missing project_evaluation",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseResult(tt.content, tt.projectSubmitted)
			assert.Nil(t, result)

			var malformed *MalformedResponseError
			require.ErrorAs(t, err, &malformed)
			assert.Contains(t, malformed.Reason, tt.wantReason)
		})
	}
}

func TestParseResult_IgnoresUnsolicitedProject(t *testing.T) {
	result, err := ParseResult(validFullResponse, false)
	require.NoError(t, err)
	assert.Nil(t, result.ProjectEvaluation)
}
