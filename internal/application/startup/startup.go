// Package startup prepares the application server
package startup

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/zapformai/zapform-analytics/internal/application/container"
	"github.com/zapformai/zapform-analytics/internal/infrastructure/observability/logging"
	"github.com/zapformai/zapform-analytics/internal/infrastructure/persistence/database"
	"github.com/zapformai/zapform-analytics/internal/presentation/http/server"
	"github.com/zapformai/zapform-analytics/pkg/config"
)

// cacheSweepInterval bounds how long expired directory entries linger.
const cacheSweepInterval = time.Minute

// Initialize performs the complete startup sequence and blocks until shutdown.
func Initialize() error {
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, cancelBackgroundTasks := context.WithCancel(context.Background())
	defer cancelBackgroundTasks()

	log.Println("zapform-analytics starting...")

	// Step 1: Structured logging
	loggerConfig := logging.DefaultLoggerConfig()
	loggerConfig.JSONFormat = config.LogJSONFormat
	loggerConfig.DefaultLevel = logging.ParseLevel(config.LogLevel)
	logger := logging.NewChanneledLogger(loggerConfig)
	logger.Startup().Info("Channeled logging initialized", "level", config.LogLevel)

	// Step 2: Durable store
	logger.Startup().Info("Connecting to event store", "driver", config.DBDriver)
	db, err := database.NewConnectionWithLogger(config.DBDriver, config.DBDataSource, logger)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := db.EnsureSchema(); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	logger.Startup().Info("Event store schema verified")

	// Step 3: Dependency injection container
	appContainer := container.NewContainer(db, logger)
	logger.Startup().Info("Dependency injection container created with singleton services")

	if !appContainer.SysOpService.Enabled() {
		logger.Startup().Warn("Sysop surface disabled: SYSOP_PASSWORD_HASH not configured")
	}

	// Step 4: Background cache sweeping
	go sweepCaches(ctx, appContainer)

	// Step 5: HTTP server
	srv := server.New(config.Port, appContainer)
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.Start()
	}()
	logger.Startup().Info("Startup complete",
		"port", config.Port,
		"publicBaseUrl", config.PublicBaseURL)

	// Step 6: Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		if err != nil {
			return err
		}
	case sig := <-quit:
		logger.Shutdown().Info("Shutdown signal received", "signal", sig.String())
	}

	cancelBackgroundTasks()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	logger.Shutdown().Info("Shutdown complete")
	return nil
}

func sweepCaches(ctx context.Context, appContainer *container.Container) {
	ticker := time.NewTicker(cacheSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			dropped := appContainer.ProjectCache.Sweep() + appContainer.ActionCache.Sweep()
			if dropped > 0 {
				appContainer.Logger.Cache().Debug("Swept expired directory cache entries", "dropped", dropped)
			}
		}
	}
}
