package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/stackcare/stackcare-backend/internal/http/handlers"
	httpMW "github.com/stackcare/stackcare-backend/internal/http/middleware"
	"github.com/stackcare/stackcare-backend/internal/pkg/logger"
)

type RouterConfig struct {
	Log *logger.Logger

	AuthMiddleware *httpMW.AuthMiddleware

	HealthHandler     *httpH.HealthHandler
	AuthHandler       *httpH.AuthHandler
	UserHandler       *httpH.UserHandler
	DashboardHandler  *httpH.DashboardHandler
	ScheduleHandler   *httpH.ScheduleHandler
	SupplementHandler *httpH.SupplementHandler
	VisionHandler     *httpH.VisionHandler

	TracingEnabled bool
	ServiceName    string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.TracingEnabled {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS(cfg.Log))

	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		if cfg.AuthHandler != nil {
			api.POST("/register", cfg.AuthHandler.Register)
			api.POST("/login", cfg.AuthHandler.Login)
		}
		if cfg.SupplementHandler != nil {
			api.GET("/supplements", cfg.SupplementHandler.ListPublished)
			api.GET("/supplements/:id", cfg.SupplementHandler.Get)
		}
	}

	protected := api.Group("/")
	{
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		if cfg.UserHandler != nil {
			protected.GET("/me", cfg.UserHandler.GetMe)
			protected.PATCH("/me", cfg.UserHandler.UpdateProfile)
			protected.GET("/user/stats", cfg.UserHandler.GetStats)
		}

		if cfg.DashboardHandler != nil {
			protected.GET("/dashboard", cfg.DashboardHandler.GetDashboard)
			protected.GET("/dashboard/doses", cfg.DashboardHandler.GetDoses)
			protected.POST("/dashboard/log", cfg.DashboardHandler.MarkTaken)
			protected.DELETE("/dashboard/log/:id", cfg.DashboardHandler.Unmark)
		}

		if cfg.SupplementHandler != nil {
			protected.GET("/user/supplements", cfg.SupplementHandler.ListStack)
			protected.POST("/user/supplements", cfg.SupplementHandler.AddToStack)
			protected.DELETE("/user/supplements/:id", cfg.SupplementHandler.RemoveFromStack)
			protected.POST("/supplements/submit", cfg.SupplementHandler.Submit)
		}

		if cfg.ScheduleHandler != nil {
			protected.GET("/user/supplements/schedules", cfg.ScheduleHandler.List)
			protected.GET("/user/supplements/:id/schedule", cfg.ScheduleHandler.Get)
			protected.POST("/user/supplements/:id/schedule", cfg.ScheduleHandler.Upsert)
			protected.DELETE("/user/supplements/:id/schedule", cfg.ScheduleHandler.Delete)
			protected.PATCH("/user/supplements/:id/schedule/active", cfg.ScheduleHandler.SetActive)
		}

		if cfg.VisionHandler != nil {
			protected.POST("/vision/supplement", cfg.VisionHandler.RecognizeSupplement)
		}
	}

	admin := api.Group("/admin")
	{
		if cfg.AuthMiddleware != nil {
			admin.Use(cfg.AuthMiddleware.RequireAuth(), cfg.AuthMiddleware.RequireAdmin())
		}
		if cfg.SupplementHandler != nil {
			admin.GET("/supplements/pending", cfg.SupplementHandler.ListPending)
			admin.POST("/supplements/:id/publish", cfg.SupplementHandler.Publish)
			admin.POST("/supplements/:id/reject", cfg.SupplementHandler.Reject)
		}
	}

	return r
}
