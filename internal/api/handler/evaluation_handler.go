package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hireflow/cv-eval-service/internal/api/dto"
	"github.com/hireflow/cv-eval-service/internal/domain"
)

// Evaluate handles POST /api/v1/evaluate
// Accepts an evaluation request and returns the job id immediately; the
// pipeline runs in the background.
func (h *EvaluationHandler) Evaluate(c *gin.Context) {
	var req dto.EvaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body",
		})
		return
	}

	jobID, err := h.orch.Submit(domain.JobInput{
		CVFileID:        req.CVFileID,
		ProjectFileID:   req.ProjectFileID,
		JobRequirements: req.JobRequirements,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": err.Error(),
			})
		case errors.Is(err, domain.ErrQueueFull):
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error": "Service is at capacity, try again later",
			})
		default:
			h.logger.Error("Failed to submit evaluation", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to submit evaluation",
			})
		}
		return
	}

	h.logger.Info("Evaluation submitted", slog.String("job_id", jobID))

	// The response advertises "processing" even though the worker may not
	// have picked the job up yet.
	c.JSON(http.StatusAccepted, dto.EvaluateResponse{
		JobID:  jobID,
		Status: "processing",
	})
}

// GetResult handles GET /api/v1/result/:job_id
// Returns the current job snapshot, including the evaluation result once
// the job has completed.
func (h *EvaluationHandler) GetResult(c *gin.Context) {
	jobID := c.Param("job_id")
	if _, err := uuid.Parse(jobID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "job_id must be a valid UUID",
		})
		return
	}

	job, err := h.orch.GetJob(jobID)
	if err != nil {
		if errors.Is(err, domain.ErrJobNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Job not found",
			})
			return
		}
		h.logger.Error("Failed to get job", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to get job",
		})
		return
	}

	c.JSON(http.StatusOK, dto.FromJob(job))
}

// ListResults handles GET /api/v1/results
// Lists all known jobs in submission order.
func (h *EvaluationHandler) ListResults(c *gin.Context) {
	jobs := h.orch.ListJobs()

	resp := dto.ListResultsResponse{
		Results: make([]dto.JobResponse, 0, len(jobs)),
		Total:   len(jobs),
	}
	for _, job := range jobs {
		resp.Results = append(resp.Results, dto.FromJob(job))
	}

	c.JSON(http.StatusOK, resp)
}

// DeleteResult handles DELETE /api/v1/result/:job_id
// Removes a job regardless of its state. Deleting an unknown job is not an
// error; the response reports whether anything was removed.
func (h *EvaluationHandler) DeleteResult(c *gin.Context) {
	jobID := c.Param("job_id")
	if _, err := uuid.Parse(jobID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "job_id must be a valid UUID",
		})
		return
	}

	deleted := h.orch.Delete(jobID)
	if deleted {
		h.logger.Info("Job deleted", slog.String("job_id", jobID))
	}

	c.JSON(http.StatusOK, dto.DeleteResponse{Deleted: deleted})
}

// Stats handles GET /api/v1/stats
func (h *EvaluationHandler) Stats(c *gin.Context) {
	stats := h.orch.Stats()

	c.JSON(http.StatusOK, dto.StatsResponse{
		TotalJobs:     stats.TotalJobs,
		CompletedJobs: stats.CompletedJobs,
		FailedJobs:    stats.FailedJobs,
		PendingJobs:   stats.PendingJobs,
	})
}
