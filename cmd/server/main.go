package main

import (
	"database/sql"
	"flag"
	"log"
	"net/http"
	"time"

	httpapi "carshare-backend/internal/api/http"
	"carshare-backend/internal/config"
	"carshare-backend/internal/jobs"
	"carshare-backend/internal/logger"
	"carshare-backend/internal/repository/memory"
	"carshare-backend/internal/repository/postgres"
	"carshare-backend/internal/scheduler"
	"carshare-backend/internal/security"
	"carshare-backend/internal/service"

	_ "github.com/lib/pq"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Carshare Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Archive database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)
	logger.Info("SMTP configuration", "host", cfg.SMTP.Host, "port", cfg.SMTP.Port)

	// Initialize archive database
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to archive database", "error", err)
		log.Fatalf("Failed to connect to archive database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping archive database", "error", err)
		log.Fatalf("Failed to ping archive database: %v", err)
	}
	logger.Info("Archive database connection established")

	// Initialize the in-memory state store and the write-only archive
	store := memory.NewStore()
	archiveRepo := postgres.NewArchiveRepository(db)

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, time.Duration(cfg.JWT.TokenExpiryHours)*time.Hour)
	credentials := security.NewCredentialStore()
	if err := credentials.Seed(cfg.Engine.Administrator, cfg.Engine.AdministratorPassphrase); err != nil {
		logger.Error("Failed to seed administrator credentials", "error", err)
		log.Fatalf("Failed to seed administrator credentials: %v", err)
	}

	// Initialize Email Service
	emailSvc := service.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.User,
		cfg.SMTP.Password,
		cfg.SMTP.From,
	)

	// Initialize Services
	seq := store.Sequencer()
	userSvc := service.NewUserService(seq, store.Users(), archiveRepo)
	ledgerSvc := service.NewLedgerService(seq, store.Ledger(), archiveRepo, cfg.Engine.NativeUnitsPerToken, cfg.Engine.Administrator)
	carSvc := service.NewCarService(seq, store.Cars(), archiveRepo)
	rentalSvc := service.NewRentalService(
		seq,
		store.Cars(),
		store.Ledger(),
		store.Users(),
		ledgerSvc,
		emailSvc,
		archiveRepo,
		cfg.Engine.CommissionFeeTokens,
	)

	// Initialize HTTP handlers
	authMiddleware := httpapi.NewAuthMiddleware(tokenManager)
	authHandler := httpapi.NewAuthHandler(credentials, tokenManager)
	userHandler := httpapi.NewUserHandler(userSvc)
	ledgerHandler := httpapi.NewLedgerHandler(ledgerSvc, rentalSvc)
	carHandler := httpapi.NewCarHandler(carSvc)
	rentalHandler := httpapi.NewRentalHandler(rentalSvc)

	router := httpapi.NewRouter(authMiddleware, authHandler, userHandler, ledgerHandler, carHandler, rentalHandler)

	// Start the snapshot scheduler
	jobRunner := jobs.NewJobRunner(ledgerSvc, archiveRepo)
	sched := scheduler.NewScheduler(jobRunner, cfg.Scheduler)
	sched.Start()
	defer sched.Stop()

	logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
	if err := http.ListenAndServe(cfg.GetServerAddress(), router); err != nil {
		logger.Error("HTTP server error", "error", err)
		log.Fatalf("Failed to serve: %v", err)
	}
}
