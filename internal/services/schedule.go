package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stackcare/stackcare-backend/internal/data/repos"
	"github.com/stackcare/stackcare-backend/internal/pkg/errors"
	"github.com/stackcare/stackcare-backend/internal/pkg/logger"
	"github.com/stackcare/stackcare-backend/internal/platform/cache"
	"github.com/stackcare/stackcare-backend/internal/types"
)

// ScheduleService validates and applies schedule writes. Every operation
// resolves the user-supplement pairing under the caller's user ID and the
// "uses" relation first, so a pairing that belongs to another user or that
// only tracks a submission behaves exactly like a missing one.
type ScheduleService interface {
	Get(ctx context.Context, userID, userSupplementID uuid.UUID) (*types.ScheduleView, error)
	List(ctx context.Context, userID uuid.UUID) ([]*types.ScheduleView, error)
	// Upsert replaces the pairing's weekday and time sets wholesale.
	Upsert(ctx context.Context, userID, userSupplementID uuid.UUID, input types.ScheduleInput) (*types.ScheduleView, error)
	// Delete reports whether a schedule row was removed. A missing schedule
	// or pairing is a false outcome, not an error.
	Delete(ctx context.Context, userID, userSupplementID uuid.UUID) (bool, error)
	SetActive(ctx context.Context, userID, userSupplementID uuid.UUID, isActive bool) error
}

type scheduleService struct {
	db                 *gorm.DB
	log                *logger.Logger
	scheduleRepo       repos.ScheduleRepo
	userSupplementRepo repos.UserSupplementRepo
	cache              *cache.Cache
}

func NewScheduleService(
	db *gorm.DB,
	log *logger.Logger,
	scheduleRepo repos.ScheduleRepo,
	userSupplementRepo repos.UserSupplementRepo,
	c *cache.Cache,
) ScheduleService {
	return &scheduleService{
		db:                 db,
		log:                log.With("service", "ScheduleService"),
		scheduleRepo:       scheduleRepo,
		userSupplementRepo: userSupplementRepo,
		cache:              c,
	}
}

func (ss *scheduleService) resolveOwned(ctx context.Context, userID, userSupplementID uuid.UUID) (*types.UserSupplement, error) {
	owned, err := ss.userSupplementRepo.GetOwned(ctx, nil, userSupplementID, userID)
	if err != nil {
		return nil, fmt.Errorf("load user supplement: %w", err)
	}
	// Only "uses" pairings carry schedules. Submission and favorite links are
	// invisible here.
	if owned == nil || owned.Relation != types.RelationUses {
		return nil, fmt.Errorf("%w: user supplement %s", errors.ErrNotFound, userSupplementID)
	}
	return owned, nil
}

func (ss *scheduleService) Get(ctx context.Context, userID, userSupplementID uuid.UUID) (*types.ScheduleView, error) {
	owned, err := ss.resolveOwned(ctx, userID, userSupplementID)
	if err != nil {
		return nil, err
	}
	view, err := ss.scheduleRepo.GetViewForUserSupplement(ctx, nil, owned)
	if err != nil {
		return nil, fmt.Errorf("load schedule: %w", err)
	}
	if view == nil {
		return nil, fmt.Errorf("%w: schedule for user supplement %s", errors.ErrNotFound, userSupplementID)
	}
	return view, nil
}

func (ss *scheduleService) List(ctx context.Context, userID uuid.UUID) ([]*types.ScheduleView, error) {
	byPairing, err := ss.scheduleRepo.ListViewsForUser(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}
	views := make([]*types.ScheduleView, 0, len(byPairing))
	for _, view := range byPairing {
		views = append(views, view)
	}
	sort.Slice(views, func(i, j int) bool {
		return views[i].UserSupplementID.String() < views[j].UserSupplementID.String()
	})
	return views, nil
}

// normalizeInput validates, deduplicates and sorts the schedule payload.
// Weekdays use 0=Sunday through 6=Saturday; times are HH:MM.
func normalizeInput(input types.ScheduleInput) ([]int, []types.ScheduleTimeInput, error) {
	if len(input.Days) == 0 {
		return nil, nil, fmt.Errorf("%w: at least one day is required", errors.ErrInvalidArgument)
	}
	if len(input.Times) == 0 {
		return nil, nil, fmt.Errorf("%w: at least one time is required", errors.ErrInvalidArgument)
	}

	seenDays := make(map[int]bool, len(input.Days))
	days := make([]int, 0, len(input.Days))
	for _, day := range input.Days {
		if day < 0 || day > 6 {
			return nil, nil, fmt.Errorf("%w: day %d out of range 0-6", errors.ErrInvalidArgument, day)
		}
		if seenDays[day] {
			continue
		}
		seenDays[day] = true
		days = append(days, day)
	}
	sort.Ints(days)

	seenTimes := make(map[string]bool, len(input.Times))
	times := make([]types.ScheduleTimeInput, 0, len(input.Times))
	for _, t := range input.Times {
		if err := validateTimeOfDay(t.Time); err != nil {
			return nil, nil, err
		}
		if seenTimes[t.Time] {
			continue
		}
		seenTimes[t.Time] = true
		times = append(times, t)
	}
	sort.Slice(times, func(i, j int) bool { return times[i].Time < times[j].Time })

	return days, times, nil
}

func (ss *scheduleService) Upsert(ctx context.Context, userID, userSupplementID uuid.UUID, input types.ScheduleInput) (*types.ScheduleView, error) {
	owned, err := ss.resolveOwned(ctx, userID, userSupplementID)
	if err != nil {
		return nil, err
	}
	days, times, err := normalizeInput(input)
	if err != nil {
		return nil, err
	}

	var view *types.ScheduleView
	err = ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := ss.scheduleRepo.Upsert(ctx, tx, userSupplementID, days, times); err != nil {
			return fmt.Errorf("upsert schedule: %w", err)
		}
		view, err = ss.scheduleRepo.GetViewForUserSupplement(ctx, tx, owned)
		if err != nil {
			return fmt.Errorf("reload schedule: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	ss.invalidate(ctx, userID)
	return view, nil
}

func (ss *scheduleService) Delete(ctx context.Context, userID, userSupplementID uuid.UUID) (bool, error) {
	owned, err := ss.userSupplementRepo.GetOwned(ctx, nil, userSupplementID, userID)
	if err != nil {
		return false, fmt.Errorf("load user supplement: %w", err)
	}
	if owned == nil || owned.Relation != types.RelationUses {
		return false, nil
	}
	deleted, err := ss.scheduleRepo.DeleteByUserSupplementID(ctx, nil, userSupplementID)
	if err != nil {
		return false, fmt.Errorf("delete schedule: %w", err)
	}
	if deleted {
		ss.invalidate(ctx, userID)
	}
	return deleted, nil
}

func (ss *scheduleService) SetActive(ctx context.Context, userID, userSupplementID uuid.UUID, isActive bool) error {
	if _, err := ss.resolveOwned(ctx, userID, userSupplementID); err != nil {
		return err
	}
	updated, err := ss.scheduleRepo.SetActive(ctx, nil, userSupplementID, isActive)
	if err != nil {
		return fmt.Errorf("toggle schedule: %w", err)
	}
	if !updated {
		return fmt.Errorf("%w: schedule for user supplement %s", errors.ErrNotFound, userSupplementID)
	}
	ss.invalidate(ctx, userID)
	return nil
}

func (ss *scheduleService) invalidate(ctx context.Context, userID uuid.UUID) {
	ss.cache.DeletePattern(ctx, fmt.Sprintf("dashboard:%s:*", userID))
}
