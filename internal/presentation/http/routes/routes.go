// Package routes provides HTTP route configuration for the presentation layer.
package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/zapformai/zapform-analytics/internal/application/container"
	"github.com/zapformai/zapform-analytics/internal/presentation/http/handlers"
	"github.com/zapformai/zapform-analytics/internal/presentation/http/middleware"
)

// SetupRoutes configures all HTTP routes and middleware with dependency injection.
func SetupRoutes(container *container.Container) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware())

	// Initialize handlers
	trackHandlers := handlers.NewTrackHandlers(container.IngestionService, container.InteractionService, container.Logger, container.PerfTracker)
	actionHandlers := handlers.NewActionHandlers(container.ActionService, container.Logger, container.PerfTracker)
	scriptHandlers := handlers.NewScriptHandlers(container.ScriptService, container.Logger, container.PerfTracker)
	sysopHandlers := handlers.NewSysOpHandlers(container.SysOpService, container.Logger)

	// Public collector-facing surface. Everything here is hit cross-origin
	// from arbitrary third-party pages.
	api := r.Group("/api")
	{
		api.POST("/track", trackHandlers.PostTrack)
		api.POST("/track-action", trackHandlers.PostTrackAction)
		api.GET("/actions/active/:trackingId", actionHandlers.GetActiveActions)
		api.GET("/tracking-script/:trackingId", scriptHandlers.GetTrackingScript)
	}

	// Operator endpoints.
	sysopAPI := r.Group("/api/sysop")
	{
		sysopAPI.POST("/login", sysopHandlers.Login)

		sysopAPI.Use(sysopHandlers.SysOpAuthMiddleware())
		{
			sysopAPI.GET("/logs/levels", sysopHandlers.GetLogLevels)
			sysopAPI.POST("/logs/levels", sysopHandlers.SetLogLevel)
			sysopAPI.GET("/stats", sysopHandlers.GetStats)
		}
	}

	return r
}
