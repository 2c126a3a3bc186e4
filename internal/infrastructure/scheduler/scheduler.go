package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	appfee "github.com/propmgmt/backend/internal/application/fee"
	"github.com/propmgmt/backend/internal/domain/fee"
	"github.com/propmgmt/backend/internal/infrastructure/config"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// JobStatus represents the status of a scheduled job
type JobStatus string

const (
	JobStatusRunning JobStatus = "RUNNING"
	JobStatusSuccess JobStatus = "SUCCESS"
	JobStatusFailed  JobStatus = "FAILED"
)

// Job records one execution of the monthly bill run
type Job struct {
	ID          uuid.UUID
	BillMonth   string
	DueDate     time.Time
	Status      JobStatus
	Error       string
	StartedAt   time.Time
	CompletedAt *time.Time
	Result      *appfee.BillRunResult
}

func newJob(billMonth string, dueDate, now time.Time) *Job {
	return &Job{
		ID:        uuid.New(),
		BillMonth: billMonth,
		DueDate:   dueDate,
		Status:    JobStatusRunning,
		StartedAt: now,
	}
}

func (j *Job) complete(result *appfee.BillRunResult, now time.Time) {
	j.Status = JobStatusSuccess
	j.Result = result
	j.CompletedAt = &now
}

func (j *Job) fail(err error, now time.Time) {
	j.Status = JobStatusFailed
	j.Error = err.Error()
	j.CompletedAt = &now
}

// MonthlyBillRunner generates one month of bills
type MonthlyBillRunner interface {
	GenerateMonthly(ctx context.Context, req appfee.GenerateMonthlyRequest) (*appfee.BillRunResult, error)
}

// BillingScheduler triggers the monthly bill run on a cron schedule.
// A failed run is logged and left for the next tick or a manual run.
type BillingScheduler struct {
	config config.SchedulerConfig
	runner MonthlyBillRunner
	logger *zap.Logger
	now    func() time.Time

	cron      *cron.Cron
	entryID   cron.EntryID
	mu        sync.Mutex
	isRunning bool
	lastJob   *Job
}

// NewBillingScheduler creates a new BillingScheduler. The cron expression is
// parsed eagerly so a bad configuration fails at startup.
func NewBillingScheduler(cfg config.SchedulerConfig, runner MonthlyBillRunner, logger *zap.Logger) (*BillingScheduler, error) {
	if runner == nil {
		return nil, fmt.Errorf("%w: bill runner is required", ErrInvalidConfig)
	}
	if cfg.DueDays < 0 {
		return nil, fmt.Errorf("%w: due days must not be negative", ErrInvalidConfig)
	}
	if cfg.JobTimeout <= 0 {
		cfg.JobTimeout = 10 * time.Minute
	}

	s := &BillingScheduler{
		config: cfg,
		runner: runner,
		logger: logger,
		now:    time.Now,
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithSeconds(),
		),
	}

	id, err := s.cron.AddFunc(cfg.MonthlyBillCron, s.tick)
	if err != nil {
		return nil, fmt.Errorf("%w: monthly bill cron %q: %v", ErrInvalidConfig, cfg.MonthlyBillCron, err)
	}
	s.entryID = id
	return s, nil
}

// Start starts the cron loop. It is a no-op when the scheduler is disabled.
func (s *BillingScheduler) Start() error {
	if !s.config.Enabled {
		s.logger.Info("Billing scheduler disabled")
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		return ErrAlreadyRunning
	}
	s.isRunning = true
	s.cron.Start()

	s.logger.Info("Billing scheduler started",
		zap.String("cron", s.config.MonthlyBillCron),
		zap.Int("due_days", s.config.DueDays),
		zap.Time("next_run", s.cron.Entry(s.entryID).Next),
	)
	return nil
}

// Stop stops the cron loop and waits for a running job, bounded by ctx
func (s *BillingScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.logger.Info("Billing scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Billing scheduler stop timed out")
		return ctx.Err()
	}
}

// IsRunning reports whether the cron loop is active
func (s *BillingScheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRunning
}

// LastJob returns a copy of the most recent execution, or nil
func (s *BillingScheduler) LastJob() *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastJob == nil {
		return nil
	}
	job := *s.lastJob
	return &job
}

// NextRun returns the next scheduled fire time, zero when not running
func (s *BillingScheduler) NextRun() time.Time {
	if !s.IsRunning() {
		return time.Time{}
	}
	return s.cron.Entry(s.entryID).Next
}

func (s *BillingScheduler) tick() {
	_, _ = s.RunNow(context.Background())
}

// RunNow bills the current month immediately. Bills fall due DueDays after
// today.
func (s *BillingScheduler) RunNow(ctx context.Context) (*Job, error) {
	now := s.now().UTC()
	today := fee.DateOf(now)
	job := newJob(now.Format(fee.MonthLayout), today.AddDate(0, 0, s.config.DueDays), now)

	s.mu.Lock()
	s.lastJob = job
	s.mu.Unlock()

	s.logger.Info("Monthly bill run started",
		zap.String("job_id", job.ID.String()),
		zap.String("bill_month", job.BillMonth),
		zap.String("due_date", fee.FormatDate(job.DueDate)),
	)

	jobCtx, cancel := context.WithTimeout(ctx, s.config.JobTimeout)
	defer cancel()

	result, err := s.runner.GenerateMonthly(jobCtx, appfee.GenerateMonthlyRequest{
		BillMonth: job.BillMonth,
		DueDate:   job.DueDate,
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		job.fail(err, s.now().UTC())
		s.logger.Error("Monthly bill run failed",
			zap.String("job_id", job.ID.String()),
			zap.String("bill_month", job.BillMonth),
			zap.Error(err),
		)
		return job, err
	}

	job.complete(result, s.now().UTC())
	s.logger.Info("Monthly bill run completed",
		zap.String("job_id", job.ID.String()),
		zap.String("bill_month", job.BillMonth),
		zap.Int("generated", result.GeneratedCount),
		zap.Int("skipped", result.SkippedCount),
		zap.Int("failed", result.FailedCount),
	)
	return job, nil
}
