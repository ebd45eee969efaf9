// File: frontdesk/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"frontdesk/config"
	"frontdesk/cron"
	"frontdesk/database"
	ledgerRepo "frontdesk/database/repository/ledger"
	providerRepo "frontdesk/database/repository/provider"
	"frontdesk/handlers"
	"frontdesk/middleware"
	"frontdesk/routes"
	"frontdesk/services/notification"
	"frontdesk/services/provider"
	"frontdesk/services/scheduling"
	"frontdesk/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	// repositories: durable mongo by default, in-process for development.
	var (
		provRepo providerRepo.ProviderRepository
		ledger   ledgerRepo.LedgerRepository
	)
	useQueue := config.AppConfig.StoreDriver != "memory"
	if config.AppConfig.StoreDriver == "memory" {
		logger.Sugar().Warn("main: using in-memory store; bookings will not survive a restart")
		provRepo = providerRepo.NewMemoryProviderRepo()
		ledger = ledgerRepo.NewMemoryLedgerRepo()
	} else {
		database.InitDB()
		provRepo = providerRepo.NewMongoProviderRepo()
		mongoLedger, err := ledgerRepo.NewMongoLedgerRepo()
		if err != nil {
			logger.Sugar().Fatalf("main: failed to initialize booking ledger: %v", err)
		}
		ledger = mongoLedger
	}

	// services.
	providerService := &provider.DefaultProviderService{
		Repo:   provRepo,
		Logger: logger,
	}

	availability := &scheduling.AvailabilityStore{
		Providers: provRepo,
		Ledger:    ledger,
	}
	resolver := &scheduling.SlotResolver{
		Availability: availability,
		Providers:    provRepo,
		Ledger:       ledger,
		Granularity:  config.SlotGranularity(),
	}
	bookingLedger := &scheduling.BookingLedger{Repo: ledger}

	mailer := notification.NewSMTPSender(
		config.AppConfig.SMTPHost,
		config.AppConfig.SMTPPort,
		config.AppConfig.SMTPSender,
	)
	notificationService, err := notification.NewDefaultNotificationService(ledger, provRepo, mailer, logger)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize notification service: %v", err)
	}

	var dispatcher notification.Dispatcher
	var journal *scheduling.IntentJournal
	if useQueue {
		asynqClient := asynq.NewClient(asynq.RedisClientOpt{
			Addr:     config.AppConfig.RedisAddr,
			Password: config.AppConfig.RedisPassword,
			DB:       config.AppConfig.RedisQueueDB,
		})
		defer asynqClient.Close()
		dispatcher = notification.NewAsynqDispatcher(
			asynqClient,
			logger,
			time.Duration(config.AppConfig.ReminderLeadHours)*time.Hour,
		)
		cron.InitNotificationWorker(notificationService)

		journal = &scheduling.IntentJournal{
			Client: utils.GetCacheClient(),
			TTL:    time.Duration(config.AppConfig.IntentJournalTTLMin) * time.Minute,
			Logger: logger,
		}
	} else {
		dispatcher = notification.NewDirectDispatcher(notificationService, logger)
	}

	engine := &scheduling.Engine{
		Resolver:           resolver,
		Ledger:             bookingLedger,
		Dispatcher:         dispatcher,
		Journal:            journal,
		Logger:             logger,
		ConflictRetryLimit: config.AppConfig.ConflictRetryLimit,
		CandidateLimit:     config.AppConfig.CandidateLimit,
	}

	schedulingHandler := handlers.NewSchedulingHandler(engine, availability, ledger, logger)
	providerHandler := handlers.NewProviderHandler(providerService)

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())
	router.Use(cors.Default())

	routes.RegisterRoutes(router, schedulingHandler, providerHandler)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
