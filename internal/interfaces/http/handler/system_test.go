package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	feeapp "github.com/propmgmt/backend/internal/application/fee"
	"github.com/propmgmt/backend/internal/domain/fee"
	"github.com/propmgmt/backend/internal/infrastructure/scheduler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type stubPinger struct {
	err error
}

func (p stubPinger) Ping() error { return p.err }

type MockBillingSchedule struct {
	mock.Mock
}

func (m *MockBillingSchedule) IsRunning() bool {
	return m.Called().Bool(0)
}

func (m *MockBillingSchedule) LastJob() *scheduler.Job {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*scheduler.Job)
}

func (m *MockBillingSchedule) NextRun() time.Time {
	return m.Called().Get(0).(time.Time)
}

func (m *MockBillingSchedule) RunNow(ctx context.Context) (*scheduler.Job, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*scheduler.Job), args.Error(1)
}

func setupSystemRouter(h *SystemHandler) *gin.Engine {
	r := gin.New()
	r.GET("/health", h.Health)
	r.GET("/system/info", h.GetSystemInfo)
	r.GET("/system/scheduler", h.SchedulerStatus)
	r.POST("/system/scheduler/run", h.RunScheduler)
	return r
}

func TestNewSystemHandler(t *testing.T) {
	h := NewSystemHandler("Property Management API", "1.0.0", stubPinger{}, nil)
	assert.NotNil(t, h)
	assert.False(t, h.startTime.IsZero())
}

func TestSystemHandler_Health(t *testing.T) {
	t.Run("database up", func(t *testing.T) {
		r := setupSystemRouter(NewSystemHandler("api", "1.0.0", stubPinger{}, nil))
		w := doJSON(r, http.MethodGet, "/health", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		resp := decodeResponse(t, w)
		assert.True(t, resp.Success)
		data := resp.Data.(map[string]any)
		assert.Equal(t, "ok", data["status"])
		assert.Equal(t, "up", data["database"])
		assert.NotEmpty(t, data["go_version"])
	})

	t.Run("database down", func(t *testing.T) {
		r := setupSystemRouter(NewSystemHandler("api", "1.0.0", stubPinger{err: errors.New("dial tcp: refused")}, nil))
		w := doJSON(r, http.MethodGet, "/health", nil)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		resp := decodeResponse(t, w)
		assert.False(t, resp.Success)
		assert.Equal(t, "down", resp.Data.(map[string]any)["database"])
	})
}

func TestSystemHandler_GetSystemInfo(t *testing.T) {
	r := setupSystemRouter(NewSystemHandler("Property Management API", "1.2.0", stubPinger{}, nil))

	req := httptest.NewRequest(http.MethodGet, "/system/info", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeResponse(t, w).Data.(map[string]any)
	assert.Equal(t, "Property Management API", data["name"])
	assert.Equal(t, "1.2.0", data["version"])
	assert.NotEmpty(t, data["uptime"])
}

func TestSystemHandler_SchedulerStatus(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		r := setupSystemRouter(NewSystemHandler("api", "1.0.0", stubPinger{}, nil))
		w := doJSON(r, http.MethodGet, "/system/scheduler", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, false, decodeResponse(t, w).Data.(map[string]any)["enabled"])
	})

	t.Run("with last job", func(t *testing.T) {
		sched := new(MockBillingSchedule)
		completed := time.Date(2024, 3, 1, 2, 0, 5, 0, time.UTC)
		sched.On("IsRunning").Return(true)
		sched.On("NextRun").Return(time.Date(2024, 4, 1, 2, 0, 0, 0, time.UTC))
		sched.On("LastJob").Return(&scheduler.Job{
			ID:          uuid.New(),
			BillMonth:   "2024-03",
			DueDate:     time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC),
			Status:      scheduler.JobStatusSuccess,
			StartedAt:   time.Date(2024, 3, 1, 2, 0, 0, 0, time.UTC),
			CompletedAt: &completed,
			Result:      &feeapp.BillRunResult{GeneratedCount: 42},
		})

		r := setupSystemRouter(NewSystemHandler("api", "1.0.0", stubPinger{}, sched))
		w := doJSON(r, http.MethodGet, "/system/scheduler", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		data := decodeResponse(t, w).Data.(map[string]any)
		assert.Equal(t, true, data["running"])
		assert.Equal(t, "2024-04-01T02:00:00Z", data["next_run"])
		job := data["last_job"].(map[string]any)
		assert.Equal(t, "2024-03", job["bill_month"])
		assert.Equal(t, "2024-03-16", job["due_date"])
		assert.Equal(t, float64(42), job["generated_count"])
	})
}

func TestSystemHandler_RunScheduler(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		r := setupSystemRouter(NewSystemHandler("api", "1.0.0", stubPinger{}, nil))
		w := doJSON(r, http.MethodPost, "/system/scheduler/run", nil)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("run fails with lock held", func(t *testing.T) {
		sched := new(MockBillingSchedule)
		sched.On("RunNow", mock.Anything).Return(&scheduler.Job{Status: scheduler.JobStatusFailed}, fee.ErrBillRunInProgress)

		r := setupSystemRouter(NewSystemHandler("api", "1.0.0", stubPinger{}, sched))
		w := doJSON(r, http.MethodPost, "/system/scheduler/run", nil)

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("success", func(t *testing.T) {
		sched := new(MockBillingSchedule)
		sched.On("RunNow", mock.Anything).Return(&scheduler.Job{
			ID:        uuid.New(),
			BillMonth: "2024-03",
			Status:    scheduler.JobStatusSuccess,
			Result:    &feeapp.BillRunResult{GeneratedCount: 5, SkippedCount: 1},
		}, nil)

		r := setupSystemRouter(NewSystemHandler("api", "1.0.0", stubPinger{}, sched))
		w := doJSON(r, http.MethodPost, "/system/scheduler/run", nil)

		require.Equal(t, http.StatusOK, w.Code)
		data := decodeResponse(t, w).Data.(map[string]any)
		assert.Equal(t, "SUCCESS", data["status"])
		assert.Equal(t, float64(1), data["skipped_count"])
	})
}
