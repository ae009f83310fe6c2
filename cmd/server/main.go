package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stock-checker-api/internal/config"
	"stock-checker-api/internal/handlers"
	"stock-checker-api/internal/middleware"
	"stock-checker-api/pkg/server"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// @title Stock Checker API
// @version 1.0
// @description Mock stock price checker. Returns a random integer as the current price of a stock.

// @license.name MIT-0
// @license.url https://github.com/aws/mit-0

// @host localhost:8081
// @BasePath /api/v1

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	container, err := server.NewContainer(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize container")
	}
	defer container.Close()

	log := container.Logger

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.Recovery(log))
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS())
	router.Use(middleware.StructuredLogger(log))
	router.Use(middleware.ErrorTracker(log))
	router.Use(middleware.ErrorHandler())

	handlers.SetupRoutes(router, &handlers.RouterConfig{
		StockHandler: container.StockHandler,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	sc := config.GetServerlessConfig()
	log.WithFields(logrus.Fields{
		"port":             cfg.Port,
		"environment":      cfg.Environment,
		"stage":            sc.Stage,
		"region":           sc.Region,
		"function_name":    sc.FunctionName,
		"function_version": sc.FunctionVersion,
		"deployment_mode":  config.GetDeploymentMode(),
	}).Info("Server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Fatal("Server forced to shutdown")
	}

	log.Info("Server exited")
}
