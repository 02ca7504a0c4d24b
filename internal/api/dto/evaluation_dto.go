package dto

import (
	"time"

	"github.com/hireflow/cv-eval-service/internal/domain"
)

type EvaluateRequest struct {
	CVFileID        string `json:"cv_file_id" binding:"required"`
	ProjectFileID   string `json:"project_file_id"`
	JobRequirements string `json:"job_requirements" binding:"required"`
}

type EvaluateResponse struct {
	JobID  string `json:"job_id"`
	Status string `json:"status"`
}

type JobResponse struct {
	JobID     string                   `json:"job_id"`
	Status    string                   `json:"status"`
	CreatedAt string                   `json:"created_at"`
	UpdatedAt string                   `json:"updated_at"`
	Result    *domain.EvaluationResult `json:"result,omitempty"`
	Error     *JobErrorResponse        `json:"error,omitempty"`
}

type JobErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ListResultsResponse struct {
	Results []JobResponse `json:"results"`
	Total   int           `json:"total"`
}

type DeleteResponse struct {
	Deleted bool `json:"deleted"`
}

type StatsResponse struct {
	TotalJobs     int `json:"total_jobs"`
	CompletedJobs int `json:"completed_jobs"`
	FailedJobs    int `json:"failed_jobs"`
	PendingJobs   int `json:"pending_jobs"`
}

// FromJob maps a job snapshot onto the wire shape.
func FromJob(job *domain.Job) JobResponse {
	resp := JobResponse{
		JobID:     job.ID,
		Status:    job.Status,
		CreatedAt: job.CreatedAt.Format(time.RFC3339),
		UpdatedAt: job.UpdatedAt.Format(time.RFC3339),
		Result:    job.Result,
	}
	if job.Error != nil {
		resp.Error = &JobErrorResponse{
			Code:    job.Error.Code,
			Message: job.Error.Message,
		}
	}
	return resp
}
