package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	api "eventrent-backend/internal/api/grpc"
	"eventrent-backend/internal/config"
	"eventrent-backend/internal/email"
	"eventrent-backend/internal/jobs"
	"eventrent-backend/internal/logger"
	"eventrent-backend/internal/repository/postgres"
	"eventrent-backend/internal/scheduler"
	"eventrent-backend/internal/security"
	"eventrent-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'retry-failed-emails', 'purge-sent-emails', 'all')")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting EventRent Cronjob Runner...", "log_level", cfg.Log.Level)

	ctx := context.Background()

	// Initialize Database
	logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port)
	db, err := postgres.Open(ctx, cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Services
	var dispatcher service.EmailDispatcher
	if cfg.Email.Mode == "remote" {
		tokenManager := security.NewTokenManager(cfg.JWT.Secret, cfg.AdminTokenTTL())
		client, conn, err := api.DialEmailFunction(cfg.Email.RemoteAddr, tokenManager)
		if err != nil {
			log.Fatalf("Failed to connect to email function: %v", err)
		}
		defer conn.Close()
		dispatcher = client
	} else {
		renderer, err := email.NewRenderer(email.RendererConfig{
			Brand:               cfg.Email.Brand,
			Currency:            cfg.Email.Currency,
			PaymentInstructions: cfg.Email.PaymentInstructions,
		})
		if err != nil {
			log.Fatalf("Failed to initialize email renderer: %v", err)
		}
		sender, err := email.NewSender(cfg.Email)
		if err != nil {
			log.Fatalf("Failed to initialize email sender: %v", err)
		}
		dispatcher = email.NewFunction(renderer, sender)
	}

	emailService := service.NewEmailService(dispatcher, store.EmailOutboxRepository, store.BookingRepository, cfg.Email.OutboxMaxAttempts)

	// Initialize Job Runner
	jobRunner := jobs.NewJobRunner(&jobs.Services{Email: emailService}, cfg)

	// Check if running a single job
	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		runJobOnce(jobRunner, *runOnce)
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	// Initialize Scheduler
	cronScheduler, err := scheduler.NewScheduler(jobRunner)
	if err != nil {
		log.Fatalf("Failed to register jobs: %v", err)
	}

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
	case "retry-failed-emails":
		jobRunner.RetryFailedEmails()
	case "purge-sent-emails":
		jobRunner.PurgeSentEmails()
	case "all":
		jobRunner.RunAll()
	default:
		logger.Error("Unknown job name", "job", jobName)
		fmt.Printf("Available jobs:\n")
		fmt.Printf("  - retry-failed-emails\n")
		fmt.Printf("  - purge-sent-emails\n")
		fmt.Printf("  - all\n")
		os.Exit(1)
	}
}
