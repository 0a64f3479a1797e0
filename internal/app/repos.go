package app

import (
	"gorm.io/gorm"

	"github.com/stackcare/stackcare-backend/internal/data/repos"
	"github.com/stackcare/stackcare-backend/internal/pkg/logger"
)

type Repos struct {
	User           repos.UserRepo
	UserStats      repos.UserStatsRepo
	Supplement     repos.SupplementRepo
	UserSupplement repos.UserSupplementRepo
	Schedule       repos.ScheduleRepo
	DoseLog        repos.DoseLogRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:           repos.NewUserRepo(db, log),
		UserStats:      repos.NewUserStatsRepo(db, log),
		Supplement:     repos.NewSupplementRepo(db, log),
		UserSupplement: repos.NewUserSupplementRepo(db, log),
		Schedule:       repos.NewScheduleRepo(db, log),
		DoseLog:        repos.NewDoseLogRepo(db, log),
	}
}
