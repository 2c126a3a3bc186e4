package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	appfee "github.com/propmgmt/backend/internal/application/fee"
	"github.com/propmgmt/backend/internal/infrastructure/config"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type MockBillRunner struct {
	mock.Mock
}

func (m *MockBillRunner) GenerateMonthly(ctx context.Context, req appfee.GenerateMonthlyRequest) (*appfee.BillRunResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appfee.BillRunResult), args.Error(1)
}

func testSchedulerConfig() config.SchedulerConfig {
	return config.SchedulerConfig{
		Enabled:         true,
		MonthlyBillCron: "0 0 1 1 * *",
		DueDays:         15,
		JobTimeout:      time.Minute,
		RunLockTTL:      time.Minute,
	}
}

func newTestScheduler(t *testing.T, cfg config.SchedulerConfig, runner MonthlyBillRunner) (*BillingScheduler, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.InfoLevel)
	s, err := NewBillingScheduler(cfg, runner, zap.New(core))
	require.NoError(t, err)
	s.now = func() time.Time { return time.Date(2024, 3, 20, 8, 30, 0, 0, time.UTC) }
	return s, logs
}

func TestNewBillingScheduler_InvalidConfig(t *testing.T) {
	runner := new(MockBillRunner)

	t.Run("bad cron expression", func(t *testing.T) {
		cfg := testSchedulerConfig()
		cfg.MonthlyBillCron = "every month"
		_, err := NewBillingScheduler(cfg, runner, zap.NewNop())
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("five field expression without seconds", func(t *testing.T) {
		cfg := testSchedulerConfig()
		cfg.MonthlyBillCron = "0 1 1 * *"
		_, err := NewBillingScheduler(cfg, runner, zap.NewNop())
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("negative due days", func(t *testing.T) {
		cfg := testSchedulerConfig()
		cfg.DueDays = -1
		_, err := NewBillingScheduler(cfg, runner, zap.NewNop())
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("nil runner", func(t *testing.T) {
		_, err := NewBillingScheduler(testSchedulerConfig(), nil, zap.NewNop())
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})
}

func TestBillingScheduler_RunNow(t *testing.T) {
	runner := new(MockBillRunner)
	s, logs := newTestScheduler(t, testSchedulerConfig(), runner)

	result := &appfee.BillRunResult{GeneratedCount: 3, SkippedCount: 1, TotalAmount: decimal.NewFromInt(600)}
	runner.On("GenerateMonthly", mock.Anything, appfee.GenerateMonthlyRequest{
		BillMonth: "2024-03",
		DueDate:   time.Date(2024, 4, 4, 0, 0, 0, 0, time.UTC),
	}).Return(result, nil).Once()

	job, err := s.RunNow(context.Background())
	require.NoError(t, err)

	assert.Equal(t, JobStatusSuccess, job.Status)
	assert.Equal(t, "2024-03", job.BillMonth)
	assert.Same(t, result, job.Result)
	require.NotNil(t, job.CompletedAt)
	assert.Equal(t, 1, logs.FilterMessage("Monthly bill run completed").Len())

	last := s.LastJob()
	require.NotNil(t, last)
	assert.Equal(t, job.ID, last.ID)
	runner.AssertExpectations(t)
}

func TestBillingScheduler_RunNow_Failure(t *testing.T) {
	runner := new(MockBillRunner)
	s, logs := newTestScheduler(t, testSchedulerConfig(), runner)

	runner.On("GenerateMonthly", mock.Anything, mock.Anything).
		Return(nil, errors.New("database unavailable")).Once()

	job, err := s.RunNow(context.Background())
	require.Error(t, err)

	assert.Equal(t, JobStatusFailed, job.Status)
	assert.Equal(t, "database unavailable", job.Error)
	assert.Nil(t, job.Result)
	assert.Equal(t, 1, logs.FilterMessage("Monthly bill run failed").Len())
	runner.AssertNumberOfCalls(t, "GenerateMonthly", 1)
}

func TestBillingScheduler_RunNow_AppliesJobTimeout(t *testing.T) {
	runner := new(MockBillRunner)
	cfg := testSchedulerConfig()
	cfg.JobTimeout = 5 * time.Second
	s, _ := newTestScheduler(t, cfg, runner)

	runner.On("GenerateMonthly", mock.MatchedBy(func(ctx context.Context) bool {
		deadline, ok := ctx.Deadline()
		return ok && time.Until(deadline) <= 5*time.Second
	}), mock.Anything).Return(&appfee.BillRunResult{}, nil).Once()

	_, err := s.RunNow(context.Background())
	require.NoError(t, err)
	runner.AssertExpectations(t)
}

func TestBillingScheduler_StartStop(t *testing.T) {
	s, logs := newTestScheduler(t, testSchedulerConfig(), new(MockBillRunner))

	assert.True(t, s.NextRun().IsZero())
	require.NoError(t, s.Start())
	assert.True(t, s.IsRunning())
	assert.ErrorIs(t, s.Start(), ErrAlreadyRunning)

	next := s.NextRun()
	assert.False(t, next.IsZero())
	assert.Equal(t, 1, next.Day())
	assert.Equal(t, 1, next.Hour())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))
	assert.False(t, s.IsRunning())
	assert.Equal(t, 1, logs.FilterMessage("Billing scheduler stopped gracefully").Len())

	// stopping twice is harmless
	assert.NoError(t, s.Stop(ctx))
}

func TestBillingScheduler_Disabled(t *testing.T) {
	cfg := testSchedulerConfig()
	cfg.Enabled = false
	s, _ := newTestScheduler(t, cfg, new(MockBillRunner))

	require.NoError(t, s.Start())
	assert.False(t, s.IsRunning())
	assert.Nil(t, s.LastJob())
}
