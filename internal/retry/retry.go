// Package retry wraps fallible, idempotent operations with bounded
// exponential backoff, jitter, and failure classification. It is agnostic to
// what the operation does; both provider calls and context-store calls run
// through it.
package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"
)

// Policy configures the backoff schedule for one Executor.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	// Jitter is a multiplicative factor applied to each computed delay as
	// (1 ± Jitter). Zero disables jitter.
	Jitter float64
}

// DefaultPolicy mirrors the standard provider-call schedule.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: 3,
		BaseDelay:   2 * time.Second,
		MaxDelay:    30 * time.Second,
		Jitter:      0.1,
	}
}

// PermanentError marks a failure that must not be retried. Any error not
// wrapped as permanent is treated as transient.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string {
	return "permanent: " + e.Err.Error()
}

func (e *PermanentError) Unwrap() error {
	return e.Err
}

// Permanent wraps err so the executor aborts immediately instead of retrying.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &PermanentError{Err: err}
}

// IsPermanent reports whether err is classified as non-retryable.
func IsPermanent(err error) bool {
	var perm *PermanentError
	return errors.As(err, &perm)
}

// ExhaustedError is returned when every attempt failed transiently. It
// carries the last underlying cause.
type ExhaustedError struct {
	Attempts int
	Err      error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("exhausted %d attempts: %s", e.Attempts, e.Err.Error())
}

func (e *ExhaustedError) Unwrap() error {
	return e.Err
}

// Executor runs operations under a Policy. Backoff state is local to each
// Do invocation; a single Executor is safe for concurrent use.
type Executor struct {
	policy Policy
	logger *slog.Logger

	// sleep and randFloat are injectable so tests run without real waits.
	sleep     func(ctx context.Context, d time.Duration) error
	randFloat func() float64
}

// New creates an Executor. A non-positive MaxAttempts falls back to the
// default of 3.
func New(policy Policy, logger *slog.Logger) *Executor {
	if policy.MaxAttempts <= 0 {
		policy.MaxAttempts = 3
	}
	return &Executor{
		policy:    policy,
		logger:    logger,
		sleep:     sleepContext,
		randFloat: rand.Float64,
	}
}

// Do runs op until it succeeds, fails permanently, or attempts are
// exhausted. The name labels log lines only.
func (e *Executor) Do(ctx context.Context, name string, op func(ctx context.Context) error) error {
	var lastErr error

	for attempt := 1; attempt <= e.policy.MaxAttempts; attempt++ {
		err := op(ctx)
		if err == nil {
			return nil
		}

		if IsPermanent(err) {
			e.logger.Warn("Operation failed permanently, not retrying",
				slog.String("operation", name),
				slog.Int("attempt", attempt),
				slog.String("error", err.Error()),
			)
			return err
		}

		lastErr = err
		if attempt == e.policy.MaxAttempts {
			break
		}

		delay := e.delayFor(attempt)
		e.logger.Warn("Operation failed, retrying",
			slog.String("operation", name),
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", e.policy.MaxAttempts),
			slog.Duration("delay", delay),
			slog.String("error", err.Error()),
		)

		if err := e.sleep(ctx, delay); err != nil {
			return fmt.Errorf("retry wait canceled: %w", err)
		}
	}

	e.logger.Error("Operation exhausted all retry attempts",
		slog.String("operation", name),
		slog.Int("attempts", e.policy.MaxAttempts),
		slog.String("error", lastErr.Error()),
	)

	return &ExhaustedError{Attempts: e.policy.MaxAttempts, Err: lastErr}
}

// delayFor computes min(maxDelay, baseDelay * 2^(attempt-1)) * (1 ± jitter).
func (e *Executor) delayFor(attempt int) time.Duration {
	delay := e.policy.BaseDelay << (attempt - 1)
	if e.policy.MaxDelay > 0 && delay > e.policy.MaxDelay {
		delay = e.policy.MaxDelay
	}

	if e.policy.Jitter > 0 {
		factor := 1 + e.policy.Jitter*(2*e.randFloat()-1)
		delay = time.Duration(float64(delay) * factor)
	}

	if delay < 0 {
		delay = 0
	}
	return delay
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
