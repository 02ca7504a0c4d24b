package domain

import "errors"

var (
	// ErrJobNotFound is returned when a job id is unknown to the registry.
	ErrJobNotFound = errors.New("job not found")

	// ErrInvalidInput is returned when a submission is missing required fields
	// and is surfaced synchronously to the caller; no job is created.
	ErrInvalidInput = errors.New("invalid evaluation input")

	// ErrInvalidTransition is returned on a backward transition or on any
	// transition out of a terminal status.
	ErrInvalidTransition = errors.New("invalid job status transition")

	// ErrQueueFull is returned when the worker queue cannot accept another job.
	ErrQueueFull = errors.New("evaluation queue is full")
)

// Job failure codes recorded on JobError.Code.
const (
	ErrCodeExtraction        = "extraction_error"
	ErrCodeExhaustedRetries  = "exhausted_retries"
	ErrCodeProviderError     = "provider_error"
	ErrCodeMalformedResponse = "malformed_response"
	ErrCodeInternal          = "internal_error"
)
