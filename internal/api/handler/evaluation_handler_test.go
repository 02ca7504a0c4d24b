package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hireflow/cv-eval-service/internal/api/handler"
	"github.com/hireflow/cv-eval-service/internal/api/router"
	"github.com/hireflow/cv-eval-service/internal/extract"
	"github.com/hireflow/cv-eval-service/internal/orchestrator"
	"github.com/hireflow/cv-eval-service/internal/provider"
	"github.com/hireflow/cv-eval-service/internal/registry"
	"github.com/hireflow/cv-eval-service/internal/retrieval"
	"github.com/hireflow/cv-eval-service/internal/retry"
)

func setupTestServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "cv-42.txt"),
		[]byte("Six years building Go services. Led a team of four."),
		0o644,
	))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	reg := registry.New(logger)

	orch, err := orchestrator.New(orchestrator.Config{
		Concurrency:   2,
		QueueSize:     16,
		ProviderRetry: retry.Policy{MaxAttempts: 2, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond},
	}, orchestrator.Deps{
		Logger:       logger,
		Registry:     reg,
		Providers:    []provider.Provider{provider.NewMock()},
		ContextStore: retrieval.NewMemoryStore(retrieval.DefaultDocuments()),
		Extractor:    extract.NewFileExtractor(dir),
	})
	require.NoError(t, err)

	orch.Start(context.Background())
	t.Cleanup(orch.Stop)

	return router.SetupRouter(&handler.Dependencies{
		Logger:       logger,
		Orchestrator: orch,
	})
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func submitJob(t *testing.T, r *gin.Engine) string {
	t.Helper()

	w := doJSON(t, r, http.MethodPost, "/api/v1/evaluate", gin.H{
		"cv_file_id":       "cv-42",
		"job_requirements": "Senior Go engineer with leadership experience",
	})
	require.Equal(t, http.StatusAccepted, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp["job_id"])
	assert.Equal(t, "processing", resp["status"])
	return resp["job_id"]
}

func pollUntilDone(t *testing.T, r *gin.Engine, jobID string) map[string]any {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		w := doJSON(t, r, http.MethodGet, "/api/v1/result/"+jobID, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

		status := body["status"].(string)
		if status == "completed" || status == "failed" {
			return body
		}
		time.Sleep(5 * time.Millisecond)
	}

	t.Fatalf("job %s never reached a terminal state", jobID)
	return nil
}

func TestEvaluateAndPoll(t *testing.T) {
	r := setupTestServer(t)

	jobID := submitJob(t, r)
	body := pollUntilDone(t, r, jobID)

	require.Equal(t, "completed", body["status"])
	result, ok := body["result"].(map[string]any)
	require.True(t, ok, "completed job must carry a result")

	cvEval, ok := result["cv_evaluation"].(map[string]any)
	require.True(t, ok)

	score, ok := cvEval["overall_score"].(float64)
	require.True(t, ok)
	assert.GreaterOrEqual(t, score, 0.0)
	assert.LessOrEqual(t, score, 100.0)

	assert.NotEmpty(t, result["final_recommendation"])
	assert.Nil(t, body["error"])
}

func TestEvaluateValidatesBody(t *testing.T) {
	r := setupTestServer(t)

	tests := []struct {
		name string
		body gin.H
	}{
		{name: "missing cv_file_id", body: gin.H{"job_requirements": "any"}},
		{name: "missing job_requirements", body: gin.H{"cv_file_id": "cv-42"}},
		{name: "empty body", body: gin.H{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, r, http.MethodPost, "/api/v1/evaluate", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestGetResultUnknownJob(t *testing.T) {
	r := setupTestServer(t)

	w := doJSON(t, r, http.MethodGet, "/api/v1/result/"+uuid.New().String(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetResultRejectsMalformedID(t *testing.T) {
	r := setupTestServer(t)

	w := doJSON(t, r, http.MethodGet, "/api/v1/result/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteResultIdempotent(t *testing.T) {
	r := setupTestServer(t)

	jobID := submitJob(t, r)
	pollUntilDone(t, r, jobID)

	w := doJSON(t, r, http.MethodDelete, "/api/v1/result/"+jobID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"deleted": true}`, w.Body.String())

	w = doJSON(t, r, http.MethodDelete, "/api/v1/result/"+jobID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"deleted": false}`, w.Body.String())

	w = doJSON(t, r, http.MethodGet, "/api/v1/result/"+jobID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListResults(t *testing.T) {
	r := setupTestServer(t)

	var ids []string
	for i := 0; i < 3; i++ {
		ids = append(ids, submitJob(t, r))
	}
	for _, id := range ids {
		pollUntilDone(t, r, id)
	}

	w := doJSON(t, r, http.MethodGet, "/api/v1/results", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Results []struct {
			JobID  string `json:"job_id"`
			Status string `json:"status"`
		} `json:"results"`
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	assert.Equal(t, 3, body.Total)
	require.Len(t, body.Results, 3)
	for i, job := range body.Results {
		assert.Equal(t, ids[i], job.JobID, fmt.Sprintf("job %d out of submission order", i))
		assert.Equal(t, "completed", job.Status)
	}
}

func TestStats(t *testing.T) {
	r := setupTestServer(t)

	jobID := submitJob(t, r)
	pollUntilDone(t, r, jobID)

	w := doJSON(t, r, http.MethodGet, "/api/v1/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var stats map[string]int
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 1, stats["total_jobs"])
	assert.Equal(t, 1, stats["completed_jobs"])
	assert.Equal(t, 0, stats["failed_jobs"])
	assert.Equal(t, 0, stats["pending_jobs"])
}

func TestHealth(t *testing.T) {
	r := setupTestServer(t)

	w := doJSON(t, r, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}
