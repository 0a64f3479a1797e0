package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stackcare/stackcare-backend/internal/data/repos"
	"github.com/stackcare/stackcare-backend/internal/pkg/logger"
	"github.com/stackcare/stackcare-backend/internal/types"
)

// streakLookbackDays bounds the recompute walk; a streak older than a year is
// reported as 365.
const streakLookbackDays = 365

var weekdayNames = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// StatsService aggregates the dose projection over date ranges: today's
// counts, the 7-day rolling series, weekly consistency and the day-based
// streak. All reads tolerate users with no schedule and return zeros.
type StatsService interface {
	TodayStats(ctx context.Context, userID uuid.UUID, date string) (taken int, total int, err error)
	WeeklyData(ctx context.Context, userID uuid.UUID) ([]types.WeeklyDay, error)
	WeeklyConsistency(ctx context.Context, userID uuid.UUID) (int, error)
	// RecomputeStreak rebuilds UserStats from history. It runs synchronously
	// on the write path after every dose log mutation and is bounded at one
	// year of day queries.
	RecomputeStreak(ctx context.Context, userID uuid.UUID) (*types.UserStats, error)
	GetUserStats(ctx context.Context, userID uuid.UUID) (*types.StreakSummary, error)
}

type statsService struct {
	db            *gorm.DB
	log           *logger.Logger
	scheduleRepo  repos.ScheduleRepo
	doseLogRepo   repos.DoseLogRepo
	userStatsRepo repos.UserStatsRepo
	doseService   DoseService
	nowFn         func() time.Time
}

func NewStatsService(
	db *gorm.DB,
	log *logger.Logger,
	scheduleRepo repos.ScheduleRepo,
	doseLogRepo repos.DoseLogRepo,
	userStatsRepo repos.UserStatsRepo,
	doseService DoseService,
) StatsService {
	return &statsService{
		db:            db,
		log:           log.With("service", "StatsService"),
		scheduleRepo:  scheduleRepo,
		doseLogRepo:   doseLogRepo,
		userStatsRepo: userStatsRepo,
		doseService:   doseService,
		nowFn:         time.Now,
	}
}

func (ss *statsService) today() time.Time {
	now := ss.nowFn().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func (ss *statsService) TodayStats(ctx context.Context, userID uuid.UUID, date string) (int, int, error) {
	slots, err := ss.doseService.ResolveDay(ctx, userID, date)
	if err != nil {
		return 0, 0, err
	}
	taken := 0
	for _, s := range slots {
		if s.Taken {
			taken++
		}
	}
	return taken, len(slots), nil
}

func (ss *statsService) WeeklyData(ctx context.Context, userID uuid.UUID) ([]types.WeeklyDay, error) {
	today := ss.today()
	result := make([]types.WeeklyDay, 0, 7)

	for i := 6; i >= 0; i-- {
		day := today.AddDate(0, 0, -i)
		weekday := int(day.Weekday())

		total, err := ss.scheduleRepo.CountActiveSlotsForWeekday(ctx, nil, userID, weekday)
		if err != nil {
			return nil, fmt.Errorf("count expected slots: %w", err)
		}
		dayStart, dayEnd := dayBounds(day)
		taken, err := ss.doseLogRepo.CountForUserOnDay(ctx, nil, userID, dayStart, dayEnd)
		if err != nil {
			return nil, fmt.Errorf("count taken doses: %w", err)
		}
		// Logging more doses than scheduled (after a schedule edit) must not
		// overstate consistency.
		if taken > total {
			taken = total
		}
		result = append(result, types.WeeklyDay{
			Day:   weekdayNames[weekday],
			Date:  day.Format(dateLayout),
			Taken: taken,
			Total: total,
		})
	}
	return result, nil
}

func (ss *statsService) WeeklyConsistency(ctx context.Context, userID uuid.UUID) (int, error) {
	weekly, err := ss.WeeklyData(ctx, userID)
	if err != nil {
		return 0, err
	}
	return consistencyOf(weekly), nil
}

// consistencyOf applies the per-day adherence rule: one dose taken counts the
// whole day.
func consistencyOf(weekly []types.WeeklyDay) int {
	daysWithSchedule := 0
	daysWithAtLeastOneTaken := 0
	for _, day := range weekly {
		if day.Total > 0 {
			daysWithSchedule++
			if day.Taken > 0 {
				daysWithAtLeastOneTaken++
			}
		}
	}
	if daysWithSchedule == 0 {
		return 0
	}
	ratio := float64(daysWithAtLeastOneTaken) / float64(daysWithSchedule)
	return int(ratio*100 + 0.5)
}

func (ss *statsService) RecomputeStreak(ctx context.Context, userID uuid.UUID) (*types.UserStats, error) {
	today := ss.today()
	streak := 0

	for i := 0; i < streakLookbackDays; i++ {
		day := today.AddDate(0, 0, -i)
		weekday := int(day.Weekday())

		total, err := ss.scheduleRepo.CountActiveSlotsForWeekday(ctx, nil, userID, weekday)
		if err != nil {
			return nil, fmt.Errorf("count expected slots: %w", err)
		}
		// Nothing scheduled that weekday: the day neither extends nor breaks
		// the streak.
		if total == 0 {
			continue
		}

		dayStart, dayEnd := dayBounds(day)
		taken, err := ss.doseLogRepo.CountForUserOnDay(ctx, nil, userID, dayStart, dayEnd)
		if err != nil {
			return nil, fmt.Errorf("count taken doses: %w", err)
		}

		if taken >= total {
			streak++
			continue
		}
		// A partial today never breaks a streak still in progress.
		if i == 0 {
			continue
		}
		break
	}

	stats, err := ss.userStatsRepo.Upsert(ctx, nil, userID, streak)
	if err != nil {
		return nil, fmt.Errorf("upsert user stats: %w", err)
	}
	return stats, nil
}

func (ss *statsService) GetUserStats(ctx context.Context, userID uuid.UUID) (*types.StreakSummary, error) {
	stats, err := ss.userStatsRepo.GetByUserID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("load user stats: %w", err)
	}
	consistency, err := ss.WeeklyConsistency(ctx, userID)
	if err != nil {
		return nil, err
	}
	summary := &types.StreakSummary{WeeklyConsistency: consistency}
	if stats != nil {
		summary.CurrentStreak = stats.CurrentStreak
		summary.LongestStreak = stats.LongestStreak
	}
	return summary, nil
}
