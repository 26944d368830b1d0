package jobs

import (
	"stayride-backend/internal/config"
	"stayride-backend/internal/events"
	"stayride-backend/internal/logger"
	"stayride-backend/internal/pricing"
	"stayride-backend/internal/repository/postgres"
	"stayride-backend/internal/service"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	store     *postgres.Store
	services  *Services
	publisher events.Publisher
	calc      *pricing.RefundCalculator
	config    *config.Config
}

// Services holds all service dependencies needed by jobs
type Services struct {
	Email    service.EmailService
	Earnings service.EarningsService
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(store *postgres.Store, services *Services, publisher events.Publisher, calc *pricing.RefundCalculator, cfg *config.Config) *JobRunner {
	if calc == nil {
		calc = pricing.NewRefundCalculator(nil)
	}
	return &JobRunner{
		store:     store,
		services:  services,
		publisher: publisher,
		calc:      calc,
		config:    cfg,
	}
}

// Config exposes the loaded configuration to the scheduler
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Info("Starting job", "job", jobName)
	jobFunc()
	logger.Info("Job completed", "job", jobName)
}

// RunAllDailyJobs runs all daily jobs (for manual execution)
func (jr *JobRunner) RunAllDailyJobs() {
	jr.ExpireStalePendingReservations()
	jr.SendRefundPendingReminders()
	jr.PublishEarningsSnapshots()
}
