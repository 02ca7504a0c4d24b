// Package registry provides the in-memory store of evaluation jobs. It is
// the only component allowed to mutate job state; all operations are atomic
// with respect to concurrent readers.
package registry

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hireflow/cv-eval-service/internal/domain"
)

// TransitionPayload carries the terminal data attached to a status change.
// Result is consulted only for completed, Error only for failed.
type TransitionPayload struct {
	Result *domain.EvaluationResult
	Error  *domain.JobError
}

// Stats aggregates job counts per status.
type Stats struct {
	TotalJobs     int `json:"total_jobs"`
	CompletedJobs int `json:"completed_jobs"`
	FailedJobs    int `json:"failed_jobs"`
	PendingJobs   int `json:"pending_jobs"`
}

// Registry is a mutex-guarded map of jobs plus an insertion-order index so
// List returns jobs in the order they were created.
type Registry struct {
	mu     sync.RWMutex
	jobs   map[string]*domain.Job
	order  []string
	logger *slog.Logger
}

// New creates an empty registry.
func New(logger *slog.Logger) *Registry {
	return &Registry{
		jobs:   make(map[string]*domain.Job),
		logger: logger,
	}
}

// Create validates the input, assigns a fresh id, and stores the job in the
// queued status. Inputs are copied by value and never mutated afterwards.
func (r *Registry) Create(input domain.JobInput) (*domain.Job, error) {
	if strings.TrimSpace(input.CVFileID) == "" || strings.TrimSpace(input.JobRequirements) == "" {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	job := &domain.Job{
		ID:        uuid.New().String(),
		Status:    domain.JobStatusQueued,
		Input:     input,
		CreatedAt: now,
		UpdatedAt: now,
	}

	r.mu.Lock()
	r.jobs[job.ID] = job
	r.order = append(r.order, job.ID)
	r.mu.Unlock()

	r.logger.Info("Job created",
		slog.String("job_id", job.ID),
		slog.String("cv_file_id", input.CVFileID),
		slog.Bool("has_project", input.HasProject()),
	)

	return job.Clone(), nil
}

// Get returns a snapshot of the job with the given id.
func (r *Registry) Get(id string) (*domain.Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	job, ok := r.jobs[id]
	if !ok {
		return nil, domain.ErrJobNotFound
	}
	return job.Clone(), nil
}

// List returns an insertion-ordered snapshot of all jobs.
func (r *Registry) List() []*domain.Job {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Job, 0, len(r.order))
	for _, id := range r.order {
		if job, ok := r.jobs[id]; ok {
			out = append(out, job.Clone())
		}
	}
	return out
}

// Transition applies a status change atomically. Backward transitions and
// transitions out of a terminal status are rejected. The payload's result is
// attached on completed, its error on failed.
func (r *Registry) Transition(id, newStatus string, payload TransitionPayload) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[id]
	if !ok {
		return domain.ErrJobNotFound
	}

	if !domain.ValidTransition(job.Status, newStatus) {
		r.logger.Warn("Rejected job status transition",
			slog.String("job_id", id),
			slog.String("from", job.Status),
			slog.String("to", newStatus),
		)
		return domain.ErrInvalidTransition
	}

	job.Status = newStatus
	job.UpdatedAt = time.Now()

	switch newStatus {
	case domain.JobStatusCompleted:
		if payload.Result != nil {
			result := payload.Result.Clone()
			job.Result = &result
		}
		job.Error = nil
	case domain.JobStatusFailed:
		if payload.Error != nil {
			jobErr := *payload.Error
			job.Error = &jobErr
		}
		job.Result = nil
	}

	r.logger.Info("Job status updated",
		slog.String("job_id", id),
		slog.String("status", newStatus),
	)

	return nil
}

// Delete removes a job regardless of status. Deleting an unknown id is not
// an error; the boolean reports whether anything was removed.
func (r *Registry) Delete(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.jobs[id]; !ok {
		return false
	}

	delete(r.jobs, id)
	for i, jobID := range r.order {
		if jobID == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}

	r.logger.Info("Job deleted", slog.String("job_id", id))
	return true
}

// Stats counts jobs per status. Computed on demand from the live map so the
// counts can never drift from the jobs themselves.
func (r *Registry) Stats() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := Stats{TotalJobs: len(r.jobs)}
	for _, job := range r.jobs {
		switch job.Status {
		case domain.JobStatusCompleted:
			stats.CompletedJobs++
		case domain.JobStatusFailed:
			stats.FailedJobs++
		default:
			stats.PendingJobs++
		}
	}
	return stats
}
