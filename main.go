// File: cineride/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cineride/config"
	"cineride/database"
	memberRepo "cineride/database/repository/member"
	"cineride/handlers"
	"cineride/middleware"
	"cineride/routes"
	"cineride/services/dialogue"
	"cineride/services/gateway"
	"cineride/services/history"
	ai "cineride/services/intelligence"
	"cineride/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	utils.InitHistoryCache()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.RateLimitMiddleware())

	// External collaborators.
	dispatcher := gateway.NewHTTPDispatcher(config.AppConfig.GatewayURL)
	chatProvider := ai.NewGeminiClient(config.AppConfig.GeminiAPIKey)
	members := memberRepo.NewMongoMemberRepo()
	historySvc := history.NewService(utils.GetHistoryCacheClient(), 24*time.Hour)

	// Dialogue core.
	store := dialogue.NewSessionStore(
		time.Duration(config.AppConfig.SessionIdleTTLMin)*time.Minute, logger)
	orchestrator := &dialogue.Orchestrator{
		Store:    store,
		Movie:    &dialogue.MovieFlow{GW: dispatcher, Members: members, Logger: logger},
		Bike:     &dialogue.BikeFlow{GW: dispatcher, Members: members, Logger: logger},
		Cancel:   &dialogue.CancelFlow{GW: dispatcher, Logger: logger},
		Lookup:   &dialogue.LookupFlow{GW: dispatcher, Logger: logger},
		Chat:     &dialogue.FreeChat{Provider: chatProvider, Logger: logger},
		Recorder: historySvc,
		Logger:   logger,
	}

	evictCtx, stopEviction := context.WithCancel(context.Background())
	defer stopEviction()
	store.StartEvictionLoop(evictCtx)

	chatHandler := handlers.NewChatHandler(orchestrator)
	historyHandler := handlers.NewHistoryHandler(historySvc)

	routes.RegisterRoutes(router, chatHandler, historyHandler)

	utils.StartHealthMonitor(utils.GetCacheClient(), utils.GetHistoryCacheClient(), database.MongoClient)

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
