package app

import (
	httpH "github.com/stackcare/stackcare-backend/internal/http/handlers"
	"github.com/stackcare/stackcare-backend/internal/pkg/logger"
)

type Handlers struct {
	Health     *httpH.HealthHandler
	Auth       *httpH.AuthHandler
	User       *httpH.UserHandler
	Dashboard  *httpH.DashboardHandler
	Schedule   *httpH.ScheduleHandler
	Supplement *httpH.SupplementHandler
	Vision     *httpH.VisionHandler
}

func wireHandlers(log *logger.Logger, serviceset Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:     httpH.NewHealthHandler(),
		Auth:       httpH.NewAuthHandler(serviceset.Auth),
		User:       httpH.NewUserHandler(serviceset.User, serviceset.Stats),
		Dashboard:  httpH.NewDashboardHandler(serviceset.Dashboard),
		Schedule:   httpH.NewScheduleHandler(serviceset.Schedule),
		Supplement: httpH.NewSupplementHandler(serviceset.Catalog),
		Vision:     httpH.NewVisionHandler(serviceset.Recognition),
	}
}
