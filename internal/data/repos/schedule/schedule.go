package schedule

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stackcare/stackcare-backend/internal/pkg/logger"
	"github.com/stackcare/stackcare-backend/internal/types"
)

// SlotRow is one expected dose slot row produced by joining a user's "uses"
// pairings against their active schedules for a weekday.
type SlotRow struct {
	UserSupplementID uuid.UUID `gorm:"column:user_supplement_id"`
	SupplementID     uuid.UUID `gorm:"column:supplement_id"`
	SupplementName   string    `gorm:"column:supplement_name"`
	SupplementBrand  *string   `gorm:"column:supplement_brand"`
	TimeOfDay        string    `gorm:"column:time_of_day"`
	Label            *string   `gorm:"column:label"`
}

type ScheduleRepo interface {
	GetByUserSupplementID(ctx context.Context, tx *gorm.DB, userSupplementID uuid.UUID) (*types.SupplementSchedule, error)
	// ActiveSlotsForWeekday expands every active schedule containing the
	// weekday (0=Sunday) into its time slots, ordered by
	// (user_supplement_id, time_of_day).
	ActiveSlotsForWeekday(ctx context.Context, tx *gorm.DB, userID uuid.UUID, weekday int) ([]SlotRow, error)
	CountActiveSlotsForWeekday(ctx context.Context, tx *gorm.DB, userID uuid.UUID, weekday int) (int, error)
	GetViewForUserSupplement(ctx context.Context, tx *gorm.DB, userSupplement *types.UserSupplement) (*types.ScheduleView, error)
	ListViewsForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (map[uuid.UUID]*types.ScheduleView, error)
	// Upsert overwrites the full weekday and time sets for the pairing:
	// existing day and time rows are deleted and the input re-inserted.
	Upsert(ctx context.Context, tx *gorm.DB, userSupplementID uuid.UUID, days []int, times []types.ScheduleTimeInput) (*types.SupplementSchedule, error)
	DeleteByUserSupplementID(ctx context.Context, tx *gorm.DB, userSupplementID uuid.UUID) (bool, error)
	SetActive(ctx context.Context, tx *gorm.DB, userSupplementID uuid.UUID, isActive bool) (bool, error)
}

type scheduleRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewScheduleRepo(db *gorm.DB, baseLog *logger.Logger) ScheduleRepo {
	return &scheduleRepo{db: db, log: baseLog.With("repo", "ScheduleRepo")}
}

func (sr *scheduleRepo) GetByUserSupplementID(ctx context.Context, tx *gorm.DB, userSupplementID uuid.UUID) (*types.SupplementSchedule, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var result types.SupplementSchedule
	err := transaction.WithContext(ctx).
		Preload("Days").
		Preload("Times").
		Where("user_supplement_id = ?", userSupplementID).
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (sr *scheduleRepo) ActiveSlotsForWeekday(ctx context.Context, tx *gorm.DB, userID uuid.UUID, weekday int) ([]SlotRow, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var rows []SlotRow
	err := transaction.WithContext(ctx).
		Table("user_supplement AS us").
		Select("us.id AS user_supplement_id, s.id AS supplement_id, s.name AS supplement_name, s.brand AS supplement_brand, st.time_of_day, st.label").
		Joins("JOIN supplement s ON s.id = us.supplement_id").
		Joins("JOIN supplement_schedule ss ON ss.user_supplement_id = us.id").
		Joins("JOIN schedule_day sd ON sd.schedule_id = ss.id").
		Joins("JOIN schedule_time st ON st.schedule_id = ss.id").
		Where("us.user_id = ? AND us.relation = ? AND ss.is_active = ? AND sd.day_of_week = ?",
			userID, types.RelationUses, true, weekday).
		Order("us.id, st.time_of_day").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (sr *scheduleRepo) CountActiveSlotsForWeekday(ctx context.Context, tx *gorm.DB, userID uuid.UUID, weekday int) (int, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var count int64
	err := transaction.WithContext(ctx).
		Table("user_supplement AS us").
		Joins("JOIN supplement_schedule ss ON ss.user_supplement_id = us.id").
		Joins("JOIN schedule_day sd ON sd.schedule_id = ss.id").
		Joins("JOIN schedule_time st ON st.schedule_id = ss.id").
		Where("us.user_id = ? AND us.relation = ? AND ss.is_active = ? AND sd.day_of_week = ?",
			userID, types.RelationUses, true, weekday).
		Distinct("us.id || '-' || st.time_of_day").
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

func (sr *scheduleRepo) GetViewForUserSupplement(ctx context.Context, tx *gorm.DB, userSupplement *types.UserSupplement) (*types.ScheduleView, error) {
	if userSupplement == nil {
		return nil, nil
	}
	sched, err := sr.GetByUserSupplementID(ctx, tx, userSupplement.ID)
	if err != nil || sched == nil {
		return nil, err
	}
	return flattenView(sched, userSupplement.SupplementID), nil
}

func (sr *scheduleRepo) ListViewsForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (map[uuid.UUID]*types.ScheduleView, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	var pairings []*types.UserSupplement
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND relation = ?", userID, types.RelationUses).
		Find(&pairings).Error; err != nil {
		return nil, err
	}
	if len(pairings) == 0 {
		return map[uuid.UUID]*types.ScheduleView{}, nil
	}

	pairingIDs := make([]uuid.UUID, 0, len(pairings))
	bySupplement := make(map[uuid.UUID]uuid.UUID, len(pairings))
	for _, p := range pairings {
		pairingIDs = append(pairingIDs, p.ID)
		bySupplement[p.ID] = p.SupplementID
	}

	var schedules []*types.SupplementSchedule
	if err := transaction.WithContext(ctx).
		Preload("Days").
		Preload("Times").
		Where("user_supplement_id IN ?", pairingIDs).
		Find(&schedules).Error; err != nil {
		return nil, err
	}

	result := make(map[uuid.UUID]*types.ScheduleView, len(schedules))
	for _, sched := range schedules {
		supplementID := bySupplement[sched.UserSupplementID]
		result[supplementID] = flattenView(sched, supplementID)
	}
	return result, nil
}

func (sr *scheduleRepo) Upsert(ctx context.Context, tx *gorm.DB, userSupplementID uuid.UUID, days []int, times []types.ScheduleTimeInput) (*types.SupplementSchedule, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	var existing types.SupplementSchedule
	err := transaction.WithContext(ctx).
		Where("user_supplement_id = ?", userSupplementID).
		First(&existing).Error

	var scheduleID uuid.UUID
	isActive := true
	switch {
	case err == nil:
		scheduleID = existing.ID
		isActive = existing.IsActive
		if err := transaction.WithContext(ctx).
			Model(&types.SupplementSchedule{}).
			Where("id = ?", scheduleID).
			Update("updated_at", time.Now().UTC()).Error; err != nil {
			return nil, err
		}
		if err := transaction.WithContext(ctx).
			Where("schedule_id = ?", scheduleID).
			Delete(&types.ScheduleDay{}).Error; err != nil {
			return nil, err
		}
		if err := transaction.WithContext(ctx).
			Where("schedule_id = ?", scheduleID).
			Delete(&types.ScheduleTime{}).Error; err != nil {
			return nil, err
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		created := &types.SupplementSchedule{
			ID:               uuid.New(),
			UserSupplementID: userSupplementID,
			IsActive:         true,
		}
		if err := transaction.WithContext(ctx).Create(created).Error; err != nil {
			return nil, err
		}
		scheduleID = created.ID
	default:
		return nil, err
	}

	dayRows := make([]types.ScheduleDay, 0, len(days))
	for _, day := range days {
		dayRows = append(dayRows, types.ScheduleDay{
			ID:         uuid.New(),
			ScheduleID: scheduleID,
			DayOfWeek:  day,
		})
	}
	if len(dayRows) > 0 {
		if err := transaction.WithContext(ctx).Create(&dayRows).Error; err != nil {
			return nil, err
		}
	}

	timeRows := make([]types.ScheduleTime, 0, len(times))
	for _, entry := range times {
		timeRows = append(timeRows, types.ScheduleTime{
			ID:         uuid.New(),
			ScheduleID: scheduleID,
			TimeOfDay:  entry.Time,
			Label:      entry.Label,
		})
	}
	if len(timeRows) > 0 {
		if err := transaction.WithContext(ctx).Create(&timeRows).Error; err != nil {
			return nil, err
		}
	}

	return &types.SupplementSchedule{
		ID:               scheduleID,
		UserSupplementID: userSupplementID,
		IsActive:         isActive,
		Days:             dayRows,
		Times:            timeRows,
	}, nil
}

func (sr *scheduleRepo) DeleteByUserSupplementID(ctx context.Context, tx *gorm.DB, userSupplementID uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	sched, err := sr.GetByUserSupplementID(ctx, transaction, userSupplementID)
	if err != nil {
		return false, err
	}
	if sched == nil {
		return false, nil
	}

	if err := transaction.WithContext(ctx).
		Where("schedule_id = ?", sched.ID).
		Delete(&types.ScheduleDay{}).Error; err != nil {
		return false, err
	}
	if err := transaction.WithContext(ctx).
		Where("schedule_id = ?", sched.ID).
		Delete(&types.ScheduleTime{}).Error; err != nil {
		return false, err
	}
	res := transaction.WithContext(ctx).
		Where("id = ?", sched.ID).
		Delete(&types.SupplementSchedule{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (sr *scheduleRepo) SetActive(ctx context.Context, tx *gorm.DB, userSupplementID uuid.UUID, isActive bool) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	res := transaction.WithContext(ctx).
		Model(&types.SupplementSchedule{}).
		Where("user_supplement_id = ?", userSupplementID).
		Updates(map[string]any{
			"is_active":  isActive,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func flattenView(sched *types.SupplementSchedule, supplementID uuid.UUID) *types.ScheduleView {
	view := &types.ScheduleView{
		ID:               sched.ID,
		UserSupplementID: sched.UserSupplementID,
		SupplementID:     supplementID,
		IsActive:         sched.IsActive,
		Days:             make([]int, 0, len(sched.Days)),
		Times:            make([]types.ScheduleTimeInput, 0, len(sched.Times)),
	}
	for _, d := range sched.Days {
		view.Days = append(view.Days, d.DayOfWeek)
	}
	sort.Ints(view.Days)
	for _, t := range sched.Times {
		view.Times = append(view.Times, types.ScheduleTimeInput{Time: t.TimeOfDay, Label: t.Label})
	}
	sort.Slice(view.Times, func(i, j int) bool { return view.Times[i].Time < view.Times[j].Time })
	return view
}
