package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/section3-pro/compliance-backend/config"
	"github.com/section3-pro/compliance-backend/handlers"
	"github.com/section3-pro/compliance-backend/internal/app"
	"github.com/section3-pro/compliance-backend/logger"
	"github.com/section3-pro/compliance-backend/router"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// Initialize logger
	logger.InitLogger()
	log := logger.GetLogger()
	defer logger.Close()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, app.Options{Migrate: true})
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}
	defer application.Close()

	warnings, errs := cfg.Review()
	for _, w := range warnings {
		log.Warnw("Configuration warning", "warning", w)
	}
	for _, e := range errs {
		log.Errorw("Configuration error", "error", e)
	}

	r := router.SetupRouter(router.Dependencies{
		Config:            cfg,
		HealthHandler:     handlers.NewHealthHandler(application.Health),
		DeploymentHandler: handlers.NewDeploymentHandler(application.Deployment),
		DashboardHandler:  handlers.NewDashboardHandler(application.Dashboard),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infow("Starting server",
			"port", cfg.Server.Port,
			"environment", cfg.Server.Environment,
			"version", cfg.Server.Version,
			"components", application.Health.Components())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("Server forced to shutdown", "error", err)
	}
}
