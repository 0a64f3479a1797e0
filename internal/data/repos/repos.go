package repos

import (
	"gorm.io/gorm"

	"github.com/stackcare/stackcare-backend/internal/data/repos/catalog"
	"github.com/stackcare/stackcare-backend/internal/data/repos/doselog"
	"github.com/stackcare/stackcare-backend/internal/data/repos/schedule"
	"github.com/stackcare/stackcare-backend/internal/data/repos/user"
	"github.com/stackcare/stackcare-backend/internal/pkg/logger"
)

type UserRepo = user.UserRepo
type UserStatsRepo = user.UserStatsRepo

type SupplementRepo = catalog.SupplementRepo
type UserSupplementRepo = catalog.UserSupplementRepo

type ScheduleRepo = schedule.ScheduleRepo
type SlotRow = schedule.SlotRow

type DoseLogRepo = doselog.DoseLogRepo

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	return user.NewUserRepo(db, baseLog)
}
func NewUserStatsRepo(db *gorm.DB, baseLog *logger.Logger) UserStatsRepo {
	return user.NewUserStatsRepo(db, baseLog)
}
func NewSupplementRepo(db *gorm.DB, baseLog *logger.Logger) SupplementRepo {
	return catalog.NewSupplementRepo(db, baseLog)
}
func NewUserSupplementRepo(db *gorm.DB, baseLog *logger.Logger) UserSupplementRepo {
	return catalog.NewUserSupplementRepo(db, baseLog)
}
func NewScheduleRepo(db *gorm.DB, baseLog *logger.Logger) ScheduleRepo {
	return schedule.NewScheduleRepo(db, baseLog)
}
func NewDoseLogRepo(db *gorm.DB, baseLog *logger.Logger) DoseLogRepo {
	return doselog.NewDoseLogRepo(db, baseLog)
}
