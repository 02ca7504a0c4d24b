package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hireflow/cv-eval-service/internal/api/handler"
)

// SetupRouter configures and returns the Gin router with all routes
func SetupRouter(deps *handler.Dependencies) *gin.Engine {
	r := gin.New()

	// Middleware
	r.Use(gin.Recovery())
	r.Use(LoggerMiddleware(deps.Logger))
	r.Use(CORSMiddleware())

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "cv-eval-service",
		})
	})

	evalHandler := handler.NewEvaluationHandler(deps)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		// POST /api/v1/evaluate - Submit a CV for evaluation
		v1.POST("/evaluate", evalHandler.Evaluate)

		// GET /api/v1/result/:job_id - Poll for an evaluation outcome
		v1.GET("/result/:job_id", evalHandler.GetResult)

		// GET /api/v1/results - List all evaluation jobs
		v1.GET("/results", evalHandler.ListResults)

		// DELETE /api/v1/result/:job_id - Remove a job and its result
		v1.DELETE("/result/:job_id", evalHandler.DeleteResult)

		// GET /api/v1/stats - Aggregate job counts
		v1.GET("/stats", evalHandler.Stats)
	}

	return r
}
