package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/paweldywan/devops-test/internal/db"
	"github.com/paweldywan/devops-test/internal/domain"
	"github.com/paweldywan/devops-test/internal/engine"
	"github.com/paweldywan/devops-test/internal/observability"
)

// ProvisionHandler handles provisioning endpoints
type ProvisionHandler struct {
	prov          *engine.Provisioner
	queries       *db.Queries
	metrics       *observability.Metrics
	retentionDays int
}

// NewProvisionHandler creates a new ProvisionHandler. retentionDays is the
// configured workspace retention applied when a request does not set one.
func NewProvisionHandler(prov *engine.Provisioner, queries *db.Queries, metrics *observability.Metrics, retentionDays int) *ProvisionHandler {
	return &ProvisionHandler{
		prov:          prov,
		queries:       queries,
		metrics:       metrics,
		retentionDays: retentionDays,
	}
}

// Provision runs the monitoring workflow synchronously
func (h *ProvisionHandler) Provision(c *gin.Context) {
	var req domain.ProvisioningRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	if req.RetentionDays == 0 {
		req.RetentionDays = h.retentionDays
	}

	runID := uuid.New().String()[:8]
	now := time.Now().UTC()

	// Persist initial record
	if h.queries != nil {
		requestJSON, err := json.Marshal(req)
		if err != nil {
			log.Printf("Failed to marshal request for run %s: %v", runID, err)
			requestJSON = []byte("{}")
		}
		if err := h.queries.CreateRun(c.Request.Context(), db.CreateRunParams{
			ID:        runID,
			Request:   requestJSON,
			Status:    string(domain.StatusRunning),
			StartedAt: pgtype.Timestamptz{Time: now, Valid: true},
		}); err != nil {
			log.Printf("Failed to persist run %s: %v", runID, err)
		}
	}

	h.metrics.RecordRunStart()

	result, err := h.prov.Run(c.Request.Context(), runID, req)
	duration := time.Since(now).Seconds()
	h.metrics.RecordRunEnd(string(result.Status), duration)

	if err != nil {
		if result.FailedStep != nil {
			h.metrics.RecordStepFailure(string(*result.FailedStep))
		}
		c.JSON(statusCodeFor(result, err), result)
		return
	}
	c.JSON(http.StatusOK, result)
}

// statusCodeFor maps a terminal workflow error to an HTTP status
func statusCodeFor(result *domain.ProvisioningResult, err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest), errors.Is(err, domain.ErrUnsupportedRegion):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotAuthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrApplicationNotFound):
		return http.StatusNotFound
	case result.Status == domain.StatusPartialFailure:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// ListRuns returns all recorded provisioning runs
func (h *ProvisionHandler) ListRuns(c *gin.Context) {
	if h.queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"detail": "Database not available"})
		return
	}
	records, err := h.queries.ListRuns(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}

	results := make([]domain.ProvisioningResult, 0, len(records))
	for _, rec := range records {
		results = append(results, recordToResult(rec))
	}
	c.JSON(http.StatusOK, results)
}

// GetRun returns a specific provisioning run
func (h *ProvisionHandler) GetRun(c *gin.Context) {
	if h.queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"detail": "Database not available"})
		return
	}
	runID := c.Param("run_id")

	rec, err := h.queries.GetRun(c.Request.Context(), runID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Run not found"})
		return
	}
	c.JSON(http.StatusOK, recordToResult(rec))
}

// TeardownRun deletes the resources a run created, in reverse order.
// Only resources created by the run are touched; found ones never are.
func (h *ProvisionHandler) TeardownRun(c *gin.Context) {
	runID := c.Param("run_id")

	if h.prov.Teardown().StackSize(runID) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"detail": "No teardown entries for run"})
		return
	}

	results := h.prov.Teardown().Run(c.Request.Context(), runID)
	for _, r := range results {
		h.metrics.RecordTeardown(r.Status)
	}
	c.JSON(http.StatusOK, gin.H{
		"run_id":           runID,
		"teardown_results": results,
	})
}

// recordToResult converts a DB record to a domain ProvisioningResult
func recordToResult(rec db.Run) domain.ProvisioningResult {
	result := domain.ProvisioningResult{
		RunID:  rec.ID,
		Status: domain.RunStatus(rec.Status),
	}

	// The terminal result JSON carries everything; fall back to columns for
	// runs that never finished
	if len(rec.Result) > 0 {
		if err := json.Unmarshal(rec.Result, &result); err != nil {
			log.Printf("Failed to unmarshal result for run %s: %v", rec.ID, err)
		}
		return result
	}

	if len(rec.Request) > 0 {
		if err := json.Unmarshal(rec.Request, &result.Request); err != nil {
			log.Printf("Failed to unmarshal request for run %s: %v", rec.ID, err)
		}
	}
	if rec.FailedStep.Valid {
		step := domain.Step(rec.FailedStep.String)
		result.FailedStep = &step
	}
	if rec.Error.Valid {
		result.Error = &rec.Error.String
	}
	if rec.StartedAt.Valid {
		t := rec.StartedAt.Time
		result.StartedAt = &t
	}
	if rec.CompletedAt.Valid {
		t := rec.CompletedAt.Time
		result.CompletedAt = &t
	}
	return result
}
