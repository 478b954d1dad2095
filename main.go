// File: jetset/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"jetset/config"
	"jetset/cron"
	"jetset/database"
	packagesRepo "jetset/database/repository/packages"
	recordsRepo "jetset/database/repository/records"
	"jetset/handlers"
	"jetset/middleware"
	"jetset/routes"
	"jetset/services/assistant"
	"jetset/services/booking"
	"jetset/services/catalog"
	"jetset/services/tasks"
	"jetset/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	utils.InitSessionCache()
	utils.InitMemoryCache()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	pkgRepo := packagesRepo.NewMongoPackageRepo()
	archiveRepo := recordsRepo.NewMongoBookingRepo()

	// Knowledge base: static tariff table with the packages collection
	// behind it for combinations the table does not carry.
	staticCatalog := catalog.NewStaticCatalog()
	kb, err := catalog.NewDefaultKnowledgeBase(staticCatalog, pkgRepo, time.Hour)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize knowledge base: %v", err)
	}

	// Pre-tour reminders through asynq.
	reminderOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	}
	reminders := tasks.NewAsynqReminderScheduler(reminderOpts,
		time.Duration(config.AppConfig.ReminderLeadHours)*time.Hour)
	defer reminders.Close()
	cron.InitReminderWorker(archiveRepo)

	// Booking core.
	draftStore := booking.NewDraftStore(time.Duration(config.AppConfig.DraftTTLHours) * time.Hour)
	defer draftStore.Close()
	bookingService, err := booking.NewDefaultBookingService(draftStore, staticCatalog, archiveRepo, reminders)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize booking service: %v", err)
	}

	// Assistant: extractor, conversation memory, venue clock.
	memory := assistant.NewRedisMemory(
		utils.GetMemoryCacheClient(),
		config.AppConfig.MemoryWindow,
		time.Duration(config.AppConfig.MemoryTTLHours)*time.Hour,
	)
	extractor := assistant.NewGeminiExtractor(config.AppConfig.GeminiAPIKey)
	assistantService := assistant.NewDefaultAssistantService(
		extractor, memory, assistant.DubaiClock{}, bookingService, kb)

	chatHandler := handlers.NewChatHandler(assistantService)
	bookingHandler := handlers.NewBookingHandler(bookingService, kb, archiveRepo)
	knowledgeHandler := handlers.NewKnowledgeHandler(kb)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		// Chat endpoint.
		ChatHandler: chatHandler.HandleChat,

		// Session endpoints.
		StartSessionHandler: handlers.StartSessionHandler,
		EndSessionHandler:   handlers.EndSessionHandler,

		// Booking endpoints.
		GetDraftHandler:     bookingHandler.GetDraft,
		UpdateDraftHandler:  bookingHandler.UpdateDraft,
		PriceDraftHandler:   bookingHandler.PriceDraft,
		ConfirmDraftHandler: bookingHandler.ConfirmDraft,
		CancelDraftHandler:  bookingHandler.CancelDraft,
		GetBookingsHandler:  bookingHandler.GetBookings,

		// Knowledge endpoints.
		PackagesHandler: knowledgeHandler.GetPackages,
		LocationHandler: knowledgeHandler.GetLocation,
		FAQHandler:      knowledgeHandler.GetFAQ,
		AboutHandler:    knowledgeHandler.GetAbout,
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	utils.StartHealthMonitor([]*redis.Client{
		utils.GetCacheClient(),
		utils.GetSessionCacheClient(),
		utils.GetMemoryCacheClient(),
	}, database.MongoClient)

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
	database.CloseDB(ctx)

	logger.Sugar().Info("main: server stopped gracefully")
}
