// Package container provides dependency injection for all singleton services
package container

import (
	"github.com/zapformai/zapform-analytics/internal/application/services"
	"github.com/zapformai/zapform-analytics/internal/domain/entities/actions"
	"github.com/zapformai/zapform-analytics/internal/domain/entities/project"
	"github.com/zapformai/zapform-analytics/internal/infrastructure/caching"
	"github.com/zapformai/zapform-analytics/internal/infrastructure/observability/logging"
	"github.com/zapformai/zapform-analytics/internal/infrastructure/observability/performance"
	"github.com/zapformai/zapform-analytics/internal/infrastructure/persistence/analytics"
	"github.com/zapformai/zapform-analytics/internal/infrastructure/persistence/content"
	"github.com/zapformai/zapform-analytics/internal/infrastructure/persistence/database"
	"github.com/zapformai/zapform-analytics/pkg/config"
)

// Container holds all singleton services and infrastructure dependencies
type Container struct {
	// Application Services (stateless singletons)
	IngestionService   *services.IngestionService
	ActionService      *services.ActionService
	InteractionService *services.InteractionService
	ScriptService      *services.ScriptService
	SysOpService       *services.SysOpService

	// Repositories
	ProjectRepository     *content.SQLProjectRepository
	ActionRepository      *content.SQLActionRepository
	SessionRepository     *analytics.SQLSessionRepository
	EventRepository       *analytics.SQLEventRepository
	InteractionRepository *analytics.SQLInteractionRepository

	// Infrastructure Dependencies
	DB           *database.DB
	Logger       *logging.ChanneledLogger
	PerfTracker  *performance.Tracker
	ProjectCache *caching.TTLStore[*project.Project]
	ActionCache  *caching.TTLStore[[]*actions.Action]
}

// NewContainer creates and wires all singleton services
func NewContainer(db *database.DB, logger *logging.ChanneledLogger) *Container {
	perfTracker := performance.NewTracker(nil)

	projectCache := caching.NewTTLStore[*project.Project](config.ActiveActionsTTL)
	actionCache := caching.NewTTLStore[[]*actions.Action](config.ActiveActionsTTL)

	projectRepo := content.NewSQLProjectRepository(db, logger)
	actionRepo := content.NewSQLActionRepository(db, logger)
	sessionRepo := analytics.NewSQLSessionRepository(db, logger)
	eventRepo := analytics.NewSQLEventRepository(db, logger)
	interactionRepo := analytics.NewSQLInteractionRepository(db, logger)

	ingestionService := services.NewIngestionService(projectRepo, sessionRepo, eventRepo, projectCache, logger)
	actionService := services.NewActionService(ingestionService, actionRepo, actionCache, logger)
	interactionService := services.NewInteractionService(ingestionService, sessionRepo, actionRepo, interactionRepo, logger)
	scriptService := services.NewScriptService(ingestionService, config.PublicBaseURL, logger)
	sysopService := services.NewSysOpService(config.SysopPasswordHash, config.SysopJWTSecret, config.SysopTokenTTL, logger, perfTracker)

	return &Container{
		IngestionService:   ingestionService,
		ActionService:      actionService,
		InteractionService: interactionService,
		ScriptService:      scriptService,
		SysOpService:       sysopService,

		ProjectRepository:     projectRepo,
		ActionRepository:      actionRepo,
		SessionRepository:     sessionRepo,
		EventRepository:       eventRepo,
		InteractionRepository: interactionRepo,

		DB:           db,
		Logger:       logger,
		PerfTracker:  perfTracker,
		ProjectCache: projectCache,
		ActionCache:  actionCache,
	}
}
