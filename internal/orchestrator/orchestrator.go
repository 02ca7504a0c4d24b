// Package orchestrator coordinates evaluation jobs: it accepts submissions,
// dispatches pipelines onto a bounded worker pool, and drives every job to a
// terminal state. Callers observe progress by polling the job registry.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/hireflow/cv-eval-service/internal/domain"
	"github.com/hireflow/cv-eval-service/internal/extract"
	"github.com/hireflow/cv-eval-service/internal/pipeline"
	"github.com/hireflow/cv-eval-service/internal/provider"
	"github.com/hireflow/cv-eval-service/internal/registry"
	"github.com/hireflow/cv-eval-service/internal/retrieval"
	"github.com/hireflow/cv-eval-service/internal/retry"
)

// Config holds orchestration settings.
type Config struct {
	// Concurrency is the number of background workers.
	Concurrency int
	// QueueSize bounds the number of jobs waiting for a worker.
	QueueSize int
	// ContextTopK is how many snippets to request per retrieval.
	ContextTopK int
	// ProviderTimeout is the hard deadline for a single provider call.
	ProviderTimeout time.Duration
	// ProviderRetry and RetrievalRetry configure the retry executors.
	ProviderRetry  retry.Policy
	RetrievalRetry retry.Policy
	// Retention evicts terminal jobs older than this; zero disables the
	// janitor.
	Retention       time.Duration
	JanitorInterval time.Duration
}

// Deps holds the collaborators the orchestrator drives.
type Deps struct {
	Logger *slog.Logger
	// Registry is the authoritative job store.
	Registry *registry.Registry
	// Providers is the fallback chain, tried in order. The last entry may be
	// the mock provider when mock fallback is enabled.
	Providers []provider.Provider
	// ContextStore may be nil, which disables retrieval entirely.
	ContextStore retrieval.ContextStore
	Extractor    extract.Extractor
}

type queuedJob struct {
	id    string
	input domain.JobInput
}

// Orchestrator owns the worker pool and the per-job pipeline.
type Orchestrator struct {
	cfg            Config
	logger         *slog.Logger
	registry       *registry.Registry
	providers      []provider.Provider
	store          retrieval.ContextStore
	extractor      extract.Extractor
	providerRetry  *retry.Executor
	retrievalRetry *retry.Executor

	jobsChan chan queuedJob
	stopChan chan struct{}
	wg       sync.WaitGroup
	stopOnce sync.Once
}

// New creates an Orchestrator. Start must be called before submissions are
// processed.
func New(cfg Config, deps Deps) (*Orchestrator, error) {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 64
	}
	if cfg.ContextTopK <= 0 {
		cfg.ContextTopK = 3
	}
	if cfg.ProviderTimeout <= 0 {
		cfg.ProviderTimeout = 60 * time.Second
	}
	if len(deps.Providers) == 0 {
		return nil, errors.New("at least one provider is required")
	}
	if deps.Extractor == nil {
		return nil, errors.New("extractor is required")
	}

	return &Orchestrator{
		cfg:            cfg,
		logger:         deps.Logger,
		registry:       deps.Registry,
		providers:      deps.Providers,
		store:          deps.ContextStore,
		extractor:      deps.Extractor,
		providerRetry:  retry.New(cfg.ProviderRetry, deps.Logger.With(slog.String("component", "provider_retry"))),
		retrievalRetry: retry.New(cfg.RetrievalRetry, deps.Logger.With(slog.String("component", "retrieval_retry"))),
		jobsChan:       make(chan queuedJob, cfg.QueueSize),
		stopChan:       make(chan struct{}),
	}, nil
}

// Start spawns the worker pool and, when retention is configured, the
// janitor. It does not block.
func (o *Orchestrator) Start(ctx context.Context) {
	o.logger.Info("Starting orchestrator",
		slog.Int("concurrency", o.cfg.Concurrency),
		slog.Int("queue_size", o.cfg.QueueSize),
	)

	for i := 0; i < o.cfg.Concurrency; i++ {
		o.wg.Add(1)
		go o.workerLoop(ctx, i)
	}

	if o.cfg.Retention > 0 {
		o.wg.Add(1)
		go o.janitorLoop(ctx)
	}
}

// Stop signals the workers and waits for in-flight pipelines to finish.
func (o *Orchestrator) Stop() {
	o.stopOnce.Do(func() {
		o.logger.Info("Stopping orchestrator...")
		close(o.stopChan)
		o.wg.Wait()
		o.logger.Info("Orchestrator stopped")
	})
}

// Submit validates the input, creates a queued job, and hands it to the
// worker pool. It returns the job id without waiting for execution; a
// saturated queue refuses the submission with ErrQueueFull.
func (o *Orchestrator) Submit(input domain.JobInput) (string, error) {
	job, err := o.registry.Create(input)
	if err != nil {
		return "", err
	}

	select {
	case o.jobsChan <- queuedJob{id: job.ID, input: job.Input}:
		return job.ID, nil
	default:
		o.registry.Delete(job.ID)
		o.logger.Warn("Submission refused, worker queue full",
			slog.Int("queue_size", o.cfg.QueueSize),
		)
		return "", domain.ErrQueueFull
	}
}

// GetJob returns a snapshot of the job.
func (o *Orchestrator) GetJob(id string) (*domain.Job, error) {
	return o.registry.Get(id)
}

// ListJobs returns an insertion-ordered snapshot of all jobs.
func (o *Orchestrator) ListJobs() []*domain.Job {
	return o.registry.List()
}

// Delete removes a job. Deletion may race an in-flight pipeline; the worker
// discovers the missing job at its terminal transition and discards the
// outcome.
func (o *Orchestrator) Delete(id string) bool {
	return o.registry.Delete(id)
}

// Stats aggregates job counts per status, computed on demand.
func (o *Orchestrator) Stats() registry.Stats {
	return o.registry.Stats()
}

func (o *Orchestrator) workerLoop(ctx context.Context, workerNum int) {
	defer o.wg.Done()

	log := o.logger.With(slog.Int("worker", workerNum))
	log.Debug("Worker started")

	for {
		select {
		case <-o.stopChan:
			log.Debug("Worker stopping - stop requested")
			return
		case <-ctx.Done():
			log.Debug("Worker stopping - context canceled")
			return
		case job := <-o.jobsChan:
			o.process(ctx, log, job)
		}
	}
}

// process runs one job's pipeline strictly sequentially: extract, retrieve,
// build, call, parse, finalize.
func (o *Orchestrator) process(ctx context.Context, log *slog.Logger, job queuedJob) {
	log = log.With(slog.String("job_id", job.id))
	log.Info("Processing evaluation job")

	if err := o.registry.Transition(job.id, domain.JobStatusProcessing, registry.TransitionPayload{}); err != nil {
		if errors.Is(err, domain.ErrJobNotFound) {
			log.Info("Job deleted before processing started, discarding")
			return
		}
		log.Error("Failed to mark job processing", slog.String("error", err.Error()))
		return
	}

	cvText, err := o.extractor.ExtractText(ctx, job.input.CVFileID)
	if err != nil {
		o.fail(log, job.id, domain.ErrCodeExtraction, err)
		return
	}

	var projectText string
	if job.input.HasProject() {
		projectText, err = o.extractor.ExtractText(ctx, job.input.ProjectFileID)
		if err != nil {
			o.fail(log, job.id, domain.ErrCodeExtraction, err)
			return
		}
	}

	snippets := o.retrieveContext(ctx, log, job.input.JobRequirements)
	prompt := pipeline.BuildPrompt(cvText, projectText, job.input.JobRequirements, snippets)

	resp, err := o.callProviders(ctx, log, prompt)
	if err != nil {
		o.fail(log, job.id, classifyFailure(err), err)
		return
	}

	result, err := pipeline.ParseResult(resp.Content, job.input.HasProject())
	if err != nil {
		o.fail(log, job.id, domain.ErrCodeMalformedResponse, err)
		return
	}

	err = o.registry.Transition(job.id, domain.JobStatusCompleted, registry.TransitionPayload{Result: result})
	if errors.Is(err, domain.ErrJobNotFound) {
		log.Info("Job deleted mid-flight, discarding result")
		return
	}
	if err != nil {
		log.Error("Failed to complete job", slog.String("error", err.Error()))
		return
	}

	log.Info("Evaluation job completed",
		slog.String("provider", resp.Provider),
		slog.Float64("cv_overall_score", result.CVEvaluation.OverallScore),
	)
}

// retrieveContext fetches snippets best-effort. Retrieval failures degrade
// to an empty context set; they never fail the job.
func (o *Orchestrator) retrieveContext(ctx context.Context, log *slog.Logger, query string) []retrieval.Snippet {
	if o.store == nil {
		return nil
	}

	var snippets []retrieval.Snippet
	err := o.retrievalRetry.Do(ctx, "context_search", func(ctx context.Context) error {
		found, err := o.store.Search(ctx, query, o.cfg.ContextTopK)
		if err != nil {
			return err
		}
		snippets = found
		return nil
	})
	if err != nil {
		log.Warn("Context retrieval failed, proceeding without context",
			slog.String("error", err.Error()),
		)
		return nil
	}

	log.Debug("Context retrieved", slog.Int("snippets", len(snippets)))
	return snippets
}

// callProviders walks the fallback chain. Each provider gets the full retry
// budget; exhaustion or a permanent failure falls through to the next.
func (o *Orchestrator) callProviders(ctx context.Context, log *slog.Logger, prompt pipeline.Prompt) (*provider.Response, error) {
	var lastErr error

	for _, p := range o.providers {
		var resp *provider.Response
		err := o.providerRetry.Do(ctx, "provider_"+p.Name(), func(ctx context.Context) error {
			callCtx, cancel := context.WithTimeout(ctx, o.cfg.ProviderTimeout)
			defer cancel()

			r, err := p.Evaluate(callCtx, prompt)
			if err != nil {
				return err
			}
			resp = r
			return nil
		})
		if err == nil {
			return resp, nil
		}

		lastErr = err
		log.Warn("Provider failed, trying next in chain",
			slog.String("provider", p.Name()),
			slog.String("error", err.Error()),
		)
	}

	return nil, fmt.Errorf("all providers failed: %w", lastErr)
}

func (o *Orchestrator) fail(log *slog.Logger, jobID, code string, cause error) {
	err := o.registry.Transition(jobID, domain.JobStatusFailed, registry.TransitionPayload{
		Error: &domain.JobError{Code: code, Message: cause.Error()},
	})
	if errors.Is(err, domain.ErrJobNotFound) {
		log.Info("Job deleted mid-flight, discarding failure")
		return
	}
	if err != nil {
		log.Error("Failed to mark job failed", slog.String("error", err.Error()))
		return
	}

	log.Warn("Evaluation job failed",
		slog.String("code", code),
		slog.String("error", cause.Error()),
	)
}

// classifyFailure maps a pipeline failure onto the job error code recorded
// for the caller.
func classifyFailure(err error) string {
	var exhausted *retry.ExhaustedError
	switch {
	case errors.As(err, &exhausted):
		return domain.ErrCodeExhaustedRetries
	case retry.IsPermanent(err):
		return domain.ErrCodeProviderError
	default:
		return domain.ErrCodeInternal
	}
}

// janitorLoop evicts terminal jobs older than the retention window.
func (o *Orchestrator) janitorLoop(ctx context.Context) {
	defer o.wg.Done()

	interval := o.cfg.JanitorInterval
	if interval <= 0 {
		interval = time.Hour
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-o.stopChan:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed := o.CleanupOlderThan(o.cfg.Retention)
			if removed > 0 {
				o.logger.Info("Janitor removed expired jobs", slog.Int("removed", removed))
			}
		}
	}
}

// CleanupOlderThan deletes terminal jobs whose last update is older than
// maxAge and returns how many were removed.
func (o *Orchestrator) CleanupOlderThan(maxAge time.Duration) int {
	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, job := range o.registry.List() {
		if domain.IsTerminalStatus(job.Status) && job.UpdatedAt.Before(cutoff) {
			if o.registry.Delete(job.ID) {
				removed++
			}
		}
	}
	return removed
}
