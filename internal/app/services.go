package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/stackcare/stackcare-backend/internal/pkg/logger"
	"github.com/stackcare/stackcare-backend/internal/platform/cache"
	"github.com/stackcare/stackcare-backend/internal/platform/vision"
	"github.com/stackcare/stackcare-backend/internal/services"
)

type Services struct {
	Auth        services.AuthService
	User        services.UserService
	Dose        services.DoseService
	Stats       services.StatsService
	Dashboard   services.DashboardService
	Schedule    services.ScheduleService
	Catalog     services.CatalogService
	Recognition services.RecognitionService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos, c *cache.Cache) (Services, error) {
	log.Info("Wiring services...")

	authService, err := services.NewAuthService(db, log, reposet.User)
	if err != nil {
		return Services{}, fmt.Errorf("init auth service: %w", err)
	}

	userService := services.NewUserService(db, log, reposet.User)
	doseService := services.NewDoseService(db, log, reposet.Schedule, reposet.DoseLog)
	statsService := services.NewStatsService(db, log, reposet.Schedule, reposet.DoseLog, reposet.UserStats, doseService)
	dashboardService := services.NewDashboardService(db, log, reposet.DoseLog, reposet.UserSupplement, reposet.UserStats, doseService, statsService, c)
	scheduleService := services.NewScheduleService(db, log, reposet.Schedule, reposet.UserSupplement, c)

	resolver := services.NewEntityResolver(log, reposet.Supplement, reposet.UserSupplement, cfg.ResolverStrategy)
	catalogService := services.NewCatalogService(db, log, reposet.Supplement, reposet.UserSupplement, reposet.Schedule, reposet.DoseLog, resolver, c)

	// Image recognition is optional: without an API key the endpoint stays
	// registered but reports the feature as unavailable.
	var classifier vision.Classifier
	if cl, err := vision.NewGeminiClassifier(log); err != nil {
		log.Warn("image classifier disabled", "error", err)
	} else {
		classifier = cl
	}
	recognitionService := services.NewRecognitionService(db, log, classifier, resolver)

	return Services{
		Auth:        authService,
		User:        userService,
		Dose:        doseService,
		Stats:       statsService,
		Dashboard:   dashboardService,
		Schedule:    scheduleService,
		Catalog:     catalogService,
		Recognition: recognitionService,
	}, nil
}
