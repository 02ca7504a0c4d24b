package domain

import "time"

// Job status values. Transitions are forward-only:
// queued -> processing -> completed | failed.
const (
	JobStatusQueued     = "queued"
	JobStatusProcessing = "processing"
	JobStatusCompleted  = "completed"
	JobStatusFailed     = "failed"
)

// IsTerminalStatus reports whether a status permits no further transition.
func IsTerminalStatus(status string) bool {
	return status == JobStatusCompleted || status == JobStatusFailed
}

// statusRank orders statuses along the lifecycle so that transitions can be
// validated as strictly forward-moving.
func statusRank(status string) int {
	switch status {
	case JobStatusQueued:
		return 0
	case JobStatusProcessing:
		return 1
	case JobStatusCompleted, JobStatusFailed:
		return 2
	default:
		return -1
	}
}

// ValidTransition reports whether a job may move from one status to another.
func ValidTransition(from, to string) bool {
	fromRank, toRank := statusRank(from), statusRank(to)
	if fromRank < 0 || toRank < 0 {
		return false
	}
	if IsTerminalStatus(from) {
		return false
	}
	return toRank > fromRank
}

// JobInput holds the references an evaluation job operates on. It is set at
// submission and never mutated afterwards.
type JobInput struct {
	CVFileID        string
	ProjectFileID   string
	JobRequirements string
}

// HasProject reports whether a project report was supplied.
func (in JobInput) HasProject() bool {
	return in.ProjectFileID != ""
}

// JobError records why a job reached the failed status.
type JobError struct {
	Code    string
	Message string
}

// Job is one evaluation request tracked from submission to terminal state.
type Job struct {
	ID        string
	Status    string
	Input     JobInput
	Result    *EvaluationResult
	Error     *JobError
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Clone returns a deep copy so registry readers never observe later mutation.
func (j *Job) Clone() *Job {
	cp := *j
	if j.Result != nil {
		result := j.Result.Clone()
		cp.Result = &result
	}
	if j.Error != nil {
		jobErr := *j.Error
		cp.Error = &jobErr
	}
	return &cp
}
