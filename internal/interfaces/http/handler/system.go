package handler

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/propmgmt/backend/internal/domain/fee"
	"github.com/propmgmt/backend/internal/infrastructure/scheduler"
	"github.com/propmgmt/backend/internal/interfaces/http/dto"
)

// Pinger reports whether the database answers
type Pinger interface {
	Ping() error
}

// BillingSchedule exposes the monthly bill run scheduler
type BillingSchedule interface {
	IsRunning() bool
	LastJob() *scheduler.Job
	NextRun() time.Time
	RunNow(ctx context.Context) (*scheduler.Job, error)
}

// SystemHandler handles health and system endpoints
type SystemHandler struct {
	BaseHandler
	name      string
	version   string
	db        Pinger
	schedule  BillingSchedule
	startTime time.Time
}

// NewSystemHandler creates a new SystemHandler. schedule may be nil when
// the scheduler is disabled.
func NewSystemHandler(name, version string, db Pinger, schedule BillingSchedule) *SystemHandler {
	return &SystemHandler{
		name:      name,
		version:   version,
		db:        db,
		schedule:  schedule,
		startTime: time.Now(),
	}
}

// HealthResponse represents the health check response
// @name HandlerHealthResponse
type HealthResponse struct {
	Status    string `json:"status" example:"ok"`
	Database  string `json:"database" example:"up"`
	Uptime    string `json:"uptime" example:"1h30m45s"`
	GoVersion string `json:"go_version" example:"go1.25.5"`
}

// Health godoc
// @ID           getHealth
// @Summary      Health check
// @Description  Reports service and database liveness
// @Tags         system
// @Produce      json
// @Success      200 {object} APIResponse[HealthResponse]
// @Failure      503 {object} APIResponse[HealthResponse]
// @Router       /health [get]
func (h *SystemHandler) Health(c *gin.Context) {
	resp := HealthResponse{
		Status:    "ok",
		Database:  "up",
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		GoVersion: runtime.Version(),
	}
	status := http.StatusOK
	if err := h.db.Ping(); err != nil {
		resp.Status = "degraded"
		resp.Database = "down"
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, dto.Response{Success: status == http.StatusOK, Data: resp})
}

// SystemInfoResponse represents the system information response
// @name HandlerSystemInfoResponse
type SystemInfoResponse struct {
	Name      string `json:"name" example:"Property Management API"`
	Version   string `json:"version" example:"1.0.0"`
	GoVersion string `json:"go_version" example:"go1.25.5"`
	Uptime    string `json:"uptime" example:"1h30m45s"`
}

// GetSystemInfo godoc
// @ID           getSystemSystemInfo
// @Summary      Get system information
// @Tags         system
// @Produce      json
// @Success      200 {object} APIResponse[SystemInfoResponse]
// @Router       /system/info [get]
func (h *SystemHandler) GetSystemInfo(c *gin.Context) {
	h.Success(c, SystemInfoResponse{
		Name:      h.name,
		Version:   h.version,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	})
}

// SchedulerJobResponse is the API view of a bill run job
type SchedulerJobResponse struct {
	ID             string  `json:"id"`
	BillMonth      string  `json:"bill_month"`
	DueDate        string  `json:"due_date"`
	Status         string  `json:"status"`
	Error          string  `json:"error,omitempty"`
	StartedAt      string  `json:"started_at"`
	CompletedAt    *string `json:"completed_at,omitempty"`
	GeneratedCount int     `json:"generated_count"`
	SkippedCount   int     `json:"skipped_count"`
	FailedCount    int     `json:"failed_count"`
}

// SchedulerStatusResponse describes the monthly bill run scheduler
type SchedulerStatusResponse struct {
	Enabled bool                  `json:"enabled"`
	Running bool                  `json:"running"`
	NextRun *string               `json:"next_run,omitempty"`
	LastJob *SchedulerJobResponse `json:"last_job,omitempty"`
}

func toSchedulerJobResponse(job *scheduler.Job) *SchedulerJobResponse {
	if job == nil {
		return nil
	}
	resp := &SchedulerJobResponse{
		ID:        job.ID.String(),
		BillMonth: job.BillMonth,
		DueDate:   fee.FormatDate(job.DueDate),
		Status:    string(job.Status),
		Error:     job.Error,
		StartedAt: job.StartedAt.Format(time.RFC3339),
	}
	if job.CompletedAt != nil {
		s := job.CompletedAt.Format(time.RFC3339)
		resp.CompletedAt = &s
	}
	if job.Result != nil {
		resp.GeneratedCount = job.Result.GeneratedCount
		resp.SkippedCount = job.Result.SkippedCount
		resp.FailedCount = job.Result.FailedCount
	}
	return resp
}

// SchedulerStatus godoc
// @ID           getSystemScheduler
// @Summary      Monthly bill run scheduler status
// @Tags         system
// @Produce      json
// @Success      200 {object} APIResponse[SchedulerStatusResponse]
// @Router       /system/scheduler [get]
func (h *SystemHandler) SchedulerStatus(c *gin.Context) {
	if h.schedule == nil {
		h.Success(c, SchedulerStatusResponse{})
		return
	}
	resp := SchedulerStatusResponse{
		Enabled: true,
		Running: h.schedule.IsRunning(),
		LastJob: toSchedulerJobResponse(h.schedule.LastJob()),
	}
	if next := h.schedule.NextRun(); !next.IsZero() {
		s := next.Format(time.RFC3339)
		resp.NextRun = &s
	}
	h.Success(c, resp)
}

// RunScheduler godoc
// @ID           postSystemSchedulerRun
// @Summary      Run the monthly bill run now
// @Description  Bills the current month with the configured due date offset
// @Tags         system
// @Produce      json
// @Success      200 {object} APIResponse[SchedulerJobResponse]
// @Failure      409 {object} ErrorResponse
// @Router       /system/scheduler/run [post]
func (h *SystemHandler) RunScheduler(c *gin.Context) {
	if h.schedule == nil {
		h.Error(c, http.StatusConflict, dto.ErrCodeInvalidState, "Billing scheduler is disabled")
		return
	}
	job, err := h.schedule.RunNow(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toSchedulerJobResponse(job))
}
