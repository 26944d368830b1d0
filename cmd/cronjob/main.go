package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"

	"stayride-backend/internal/config"
	"stayride-backend/internal/events"
	"stayride-backend/internal/jobs"
	"stayride-backend/internal/logger"
	"stayride-backend/internal/pricing"
	"stayride-backend/internal/repository/postgres"
	"stayride-backend/internal/scheduler"
	"stayride-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'expire-stale-pending', 'all-daily')")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting StayRide Cronjob Runner...", "log_level", cfg.Log.Level)

	// Initialize Database
	logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port)
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize event publisher
	var publisher events.Publisher
	if len(cfg.Kafka.Brokers) > 0 {
		publisher, err = events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			logger.Error("Failed to connect Kafka publisher", "brokers", cfg.Kafka.Brokers, "error", err)
			log.Fatalf("Failed to connect Kafka publisher: %v", err)
		}
	} else {
		logger.Warn("No Kafka brokers configured, events will be dropped")
		publisher = events.NewNoopPublisher()
	}
	defer publisher.Close()

	// Initialize Services
	var emailService service.EmailService
	switch cfg.Email.Provider {
	case "sendgrid":
		emailService = service.NewSendGridService(cfg.Email.SendGridAPIKey, cfg.Email.From, "StayRide")
	default:
		emailService = service.NewEmailService(
			cfg.Email.Host,
			fmt.Sprintf("%d", cfg.Email.Port),
			cfg.Email.User,
			cfg.Email.Password,
			cfg.Email.From,
		)
	}

	calc := pricing.NewRefundCalculator(nil)

	earningsService := service.NewEarningsService(
		store.ReservationRepository,
		store.PaymentRepository,
		store.RefundRepository,
		store.MarkupRepository,
		store.ListingRepository,
		store.PlatformConfigRepository,
		cfg.Billing.PlatformFeePercent,
		calc,
	)

	jobServices := &jobs.Services{
		Email:    emailService,
		Earnings: earningsService,
	}

	// Initialize Job Runner
	jobRunner := jobs.NewJobRunner(store, jobServices, publisher, calc, cfg)

	// Check if running a single job
	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		runJobOnce(jobRunner, *runOnce)
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	// Initialize Scheduler
	cronScheduler := scheduler.NewScheduler(jobRunner)

	// Start scheduler
	cronScheduler.Start()
	logger.Info("Cronjob scheduler is running. Press Ctrl+C to stop.")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down cronjob scheduler...")
	cronScheduler.Stop()
	logger.Info("Cronjob scheduler stopped. Goodbye!")
}

// runJobOnce runs a specific job once and exits
func runJobOnce(jobRunner *jobs.JobRunner, jobName string) {
	switch jobName {
	case "expire-stale-pending":
		jobRunner.ExpireStalePendingReservations()
	case "send-refund-reminders":
		jobRunner.SendRefundPendingReminders()
	case "publish-earnings-snapshots":
		jobRunner.PublishEarningsSnapshots()
	case "all-daily":
		jobRunner.RunAllDailyJobs()
	default:
		logger.Error("Unknown job name", "job", jobName)
		fmt.Printf("Available jobs:\n")
		fmt.Printf("  - expire-stale-pending\n")
		fmt.Printf("  - send-refund-reminders\n")
		fmt.Printf("  - publish-earnings-snapshots\n")
		fmt.Printf("  - all-daily\n")
		os.Exit(1)
	}
}
