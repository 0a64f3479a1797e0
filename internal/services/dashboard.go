package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/stackcare/stackcare-backend/internal/data/repos"
	"github.com/stackcare/stackcare-backend/internal/pkg/errors"
	"github.com/stackcare/stackcare-backend/internal/pkg/logger"
	"github.com/stackcare/stackcare-backend/internal/platform/cache"
	"github.com/stackcare/stackcare-backend/internal/types"
)

const dashboardCacheTTL = 60 * time.Second

// DashboardService assembles the daily dashboard projection and owns the two
// dose log mutations. Writes are user-scoped: a user can only log against
// user-supplement rows they own and only remove logs they created.
type DashboardService interface {
	GetDashboard(ctx context.Context, userID uuid.UUID, date string) (*types.DashboardData, error)
	GetDosesForDate(ctx context.Context, userID uuid.UUID, date string) ([]types.DoseSlot, error)
	// MarkDoseTaken is idempotent per (userSupplementID, scheduledTime, date):
	// when an effective log already exists its receipt is returned and no new
	// row is written.
	MarkDoseTaken(ctx context.Context, userID, userSupplementID uuid.UUID, scheduledTime, date string) (*types.DoseLogReceipt, error)
	// UnmarkDose reports whether a log was removed. A missing or unowned log
	// is a false outcome, not an error.
	UnmarkDose(ctx context.Context, userID, logID uuid.UUID) (bool, error)
}

type dashboardService struct {
	db                 *gorm.DB
	log                *logger.Logger
	doseLogRepo        repos.DoseLogRepo
	userSupplementRepo repos.UserSupplementRepo
	userStatsRepo      repos.UserStatsRepo
	doseService        DoseService
	statsService       StatsService
	cache              *cache.Cache
	nowFn              func() time.Time
}

func NewDashboardService(
	db *gorm.DB,
	log *logger.Logger,
	doseLogRepo repos.DoseLogRepo,
	userSupplementRepo repos.UserSupplementRepo,
	userStatsRepo repos.UserStatsRepo,
	doseService DoseService,
	statsService StatsService,
	c *cache.Cache,
) DashboardService {
	return &dashboardService{
		db:                 db,
		log:                log.With("service", "DashboardService"),
		doseLogRepo:        doseLogRepo,
		userSupplementRepo: userSupplementRepo,
		userStatsRepo:      userStatsRepo,
		doseService:        doseService,
		statsService:       statsService,
		cache:              c,
		nowFn:              time.Now,
	}
}

func dashboardCacheKey(userID uuid.UUID, date string) string {
	return fmt.Sprintf("dashboard:%s:%s", userID, date)
}

func (ds *dashboardService) GetDashboard(ctx context.Context, userID uuid.UUID, date string) (*types.DashboardData, error) {
	if date == "" {
		date = ds.nowFn().UTC().Format(dateLayout)
	}
	if !dateRe.MatchString(date) {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", errors.ErrInvalidArgument)
	}

	key := dashboardCacheKey(userID, date)
	var cached types.DashboardData
	if ds.cache.GetJSON(ctx, key, &cached) {
		return &cached, nil
	}

	var (
		doses  []types.DoseSlot
		weekly []types.WeeklyDay
		stats  *types.UserStats
	)
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		doses, err = ds.doseService.ResolveDay(groupCtx, userID, date)
		return err
	})
	group.Go(func() error {
		var err error
		weekly, err = ds.statsService.WeeklyData(groupCtx, userID)
		return err
	})
	group.Go(func() error {
		var err error
		stats, err = ds.userStatsRepo.GetByUserID(groupCtx, nil, userID)
		return err
	})
	if err := group.Wait(); err != nil {
		return nil, err
	}

	taken := 0
	for _, slot := range doses {
		if slot.Taken {
			taken++
		}
	}
	streak := 0
	if stats != nil {
		streak = stats.CurrentStreak
	}
	data := &types.DashboardData{
		Stats: types.DashboardStats{
			Taken:             taken,
			Total:             len(doses),
			Streak:            streak,
			WeeklyConsistency: consistencyOf(weekly),
		},
		WeeklyData: weekly,
		Doses:      doses,
	}
	ds.cache.SetJSON(ctx, key, data, dashboardCacheTTL)
	return data, nil
}

func (ds *dashboardService) GetDosesForDate(ctx context.Context, userID uuid.UUID, date string) ([]types.DoseSlot, error) {
	if date == "" {
		date = ds.nowFn().UTC().Format(dateLayout)
	}
	return ds.doseService.ResolveDay(ctx, userID, date)
}

func (ds *dashboardService) MarkDoseTaken(ctx context.Context, userID, userSupplementID uuid.UUID, scheduledTime, date string) (*types.DoseLogReceipt, error) {
	if err := validateTimeOfDay(scheduledTime); err != nil {
		return nil, err
	}
	day, err := parseDate(date)
	if err != nil {
		return nil, err
	}
	owned, err := ds.userSupplementRepo.GetOwned(ctx, nil, userSupplementID, userID)
	if err != nil {
		return nil, fmt.Errorf("load user supplement: %w", err)
	}
	if owned == nil {
		return nil, fmt.Errorf("%w: user supplement %s", errors.ErrNotFound, userSupplementID)
	}

	dayStart, dayEnd := dayBounds(day)

	existing, err := ds.doseLogRepo.FindEffective(ctx, nil, userSupplementID, scheduledTime, dayStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("check existing log: %w", err)
	}
	if existing != nil {
		return &types.DoseLogReceipt{LogID: existing.ID, TakenAt: existing.TakenAt}, nil
	}

	// taken_at must land inside the requested day or a repeat of the same
	// request would not find this row. Requests for another day are stamped
	// at the slot's scheduled time instead of now.
	now := ds.nowFn().UTC()
	takenAt := now
	if now.Before(dayStart) || !now.Before(dayEnd) {
		slot, err := time.Parse("15:04", scheduledTime)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid time %q", errors.ErrInvalidArgument, scheduledTime)
		}
		takenAt = dayStart.Add(time.Duration(slot.Hour())*time.Hour + time.Duration(slot.Minute())*time.Minute)
	}

	created, err := ds.doseLogRepo.Create(ctx, nil, &types.DoseLog{
		UserSupplementID: userSupplementID,
		ScheduledTime:    scheduledTime,
		TakenAt:          takenAt,
		Skipped:          false,
	})
	if err != nil {
		return nil, fmt.Errorf("create dose log: %w", err)
	}

	ds.afterDoseWrite(ctx, userID)
	return &types.DoseLogReceipt{LogID: created.ID, TakenAt: created.TakenAt}, nil
}

func (ds *dashboardService) UnmarkDose(ctx context.Context, userID, logID uuid.UUID) (bool, error) {
	entry, err := ds.doseLogRepo.GetByID(ctx, nil, logID)
	if err != nil {
		return false, fmt.Errorf("load dose log: %w", err)
	}
	if entry == nil {
		return false, nil
	}
	owned, err := ds.userSupplementRepo.GetOwned(ctx, nil, entry.UserSupplementID, userID)
	if err != nil {
		return false, fmt.Errorf("load user supplement: %w", err)
	}
	if owned == nil {
		return false, nil
	}

	deleted, err := ds.doseLogRepo.Delete(ctx, nil, logID)
	if err != nil {
		return false, fmt.Errorf("delete dose log: %w", err)
	}
	if deleted {
		ds.afterDoseWrite(ctx, userID)
	}
	return deleted, nil
}

// afterDoseWrite recomputes the streak and drops cached projections. The
// mutation has already committed, so a recompute failure is logged and the
// next write repairs the stats row.
func (ds *dashboardService) afterDoseWrite(ctx context.Context, userID uuid.UUID) {
	if _, err := ds.statsService.RecomputeStreak(ctx, userID); err != nil {
		ds.log.Error("streak recompute failed after dose write", "user_id", userID, "error", err)
	}
	ds.cache.DeletePattern(ctx, fmt.Sprintf("dashboard:%s:*", userID))
}
