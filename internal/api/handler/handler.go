package handler

import (
	"log/slog"

	"github.com/hireflow/cv-eval-service/internal/orchestrator"
)

// Dependencies holds all dependencies needed by handlers
type Dependencies struct {
	Logger       *slog.Logger
	Orchestrator *orchestrator.Orchestrator
}

// EvaluationHandler handles evaluation-related HTTP requests
type EvaluationHandler struct {
	logger *slog.Logger
	orch   *orchestrator.Orchestrator
}

// NewEvaluationHandler creates a new EvaluationHandler instance
func NewEvaluationHandler(deps *Dependencies) *EvaluationHandler {
	return &EvaluationHandler{
		logger: deps.Logger,
		orch:   deps.Orchestrator,
	}
}
