package app

import (
	"github.com/gin-gonic/gin"

	httpserver "github.com/stackcare/stackcare-backend/internal/http"
	"github.com/stackcare/stackcare-backend/internal/observability"
	"github.com/stackcare/stackcare-backend/internal/pkg/logger"
)

func wireRouter(log *logger.Logger, cfg Config, handlerset Handlers, middlewareset Middleware) *gin.Engine {
	log.Info("Wiring router...")
	return httpserver.NewRouter(httpserver.RouterConfig{
		Log:               log,
		AuthMiddleware:    middlewareset.Auth,
		HealthHandler:     handlerset.Health,
		AuthHandler:       handlerset.Auth,
		UserHandler:       handlerset.User,
		DashboardHandler:  handlerset.Dashboard,
		ScheduleHandler:   handlerset.Schedule,
		SupplementHandler: handlerset.Supplement,
		VisionHandler:     handlerset.Vision,
		TracingEnabled:    observability.Enabled(),
		ServiceName:       "stackcare-backend",
	})
}
