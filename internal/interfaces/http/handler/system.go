package handler

import (
	"net/http"
	"runtime"
	"time"

	civicapp "github.com/civicconnect/backend/internal/application/civic"
	"github.com/civicconnect/backend/internal/infrastructure/scheduler"
	"github.com/civicconnect/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// ReconcilePassSource reports the outcome of the most recent background
// reconciliation pass
type ReconcilePassSource interface {
	LastOutcome() scheduler.PassOutcome
}

// SystemHandler handles system-related API endpoints
type SystemHandler struct {
	BaseHandler
	startTime time.Time
	passes    ReconcilePassSource
}

// NewSystemHandler creates a new SystemHandler. passes is nil when the
// background reconciliation loop is disabled.
func NewSystemHandler(passes ReconcilePassSource) *SystemHandler {
	return &SystemHandler{
		startTime: time.Now(),
		passes:    passes,
	}
}

// SystemInfoResponse represents the system information response
type SystemInfoResponse struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	Uptime    string `json:"uptime"`
}

// GetSystemInfo returns basic system information including version and uptime
func (h *SystemHandler) GetSystemInfo(c *gin.Context) {
	info := SystemInfoResponse{
		Name:      "CivicConnect Backend API",
		Version:   "1.0.0",
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(info))
}

// ReconciliationStatusResponse reports the last background reconciliation pass
type ReconciliationStatusResponse struct {
	Enabled    bool                      `json:"enabled"`
	LastRunAt  *time.Time                `json:"last_run_at,omitempty"`
	LastError  string                    `json:"last_error,omitempty"`
	LastReport *civicapp.ReconcileReport `json:"last_report,omitempty"`
}

// GetReconciliationStatus returns the outcome of the most recent
// reconciliation pass, or enabled=false when the loop is not running
func (h *SystemHandler) GetReconciliationStatus(c *gin.Context) {
	resp := ReconciliationStatusResponse{Enabled: h.passes != nil}
	if h.passes != nil {
		out := h.passes.LastOutcome()
		if !out.RanAt.IsZero() {
			ranAt := out.RanAt
			resp.LastRunAt = &ranAt
		}
		if out.Err != nil {
			resp.LastError = out.Err.Error()
		}
		resp.LastReport = out.Report
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// PingResponse represents the ping response
type PingResponse struct {
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// Ping checks whether the API is responsive
func (h *SystemHandler) Ping(c *gin.Context) {
	response := PingResponse{
		Message:   "pong",
		Timestamp: time.Now().Format(time.RFC3339),
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}
