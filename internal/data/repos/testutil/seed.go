package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stackcare/stackcare-backend/internal/types"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: "hash",
		Name:         "Test User",
		Role:         types.RoleUser,
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedSupplement(tb testing.TB, ctx context.Context, tx *gorm.DB, name string, brand *string, status string) *types.Supplement {
	tb.Helper()
	s := &types.Supplement{
		ID:     uuid.New(),
		Name:   name,
		Brand:  brand,
		Status: status,
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed supplement: %v", err)
	}
	return s
}

func SeedUserSupplement(tb testing.TB, ctx context.Context, tx *gorm.DB, userID, supplementID uuid.UUID, relation string) *types.UserSupplement {
	tb.Helper()
	us := &types.UserSupplement{
		ID:           uuid.New(),
		UserID:       userID,
		SupplementID: supplementID,
		Relation:     relation,
	}
	if err := tx.WithContext(ctx).Create(us).Error; err != nil {
		tb.Fatalf("seed user supplement: %v", err)
	}
	return us
}

// SeedSchedule creates an active schedule with the given weekdays and
// "HH:MM" times for a pairing.
func SeedSchedule(tb testing.TB, ctx context.Context, tx *gorm.DB, userSupplementID uuid.UUID, days []int, times []string) *types.SupplementSchedule {
	tb.Helper()
	sched := &types.SupplementSchedule{
		ID:               uuid.New(),
		UserSupplementID: userSupplementID,
		IsActive:         true,
	}
	if err := tx.WithContext(ctx).Create(sched).Error; err != nil {
		tb.Fatalf("seed schedule: %v", err)
	}
	for _, day := range days {
		row := &types.ScheduleDay{ID: uuid.New(), ScheduleID: sched.ID, DayOfWeek: day}
		if err := tx.WithContext(ctx).Create(row).Error; err != nil {
			tb.Fatalf("seed schedule day: %v", err)
		}
	}
	for _, t := range times {
		row := &types.ScheduleTime{ID: uuid.New(), ScheduleID: sched.ID, TimeOfDay: t}
		if err := tx.WithContext(ctx).Create(row).Error; err != nil {
			tb.Fatalf("seed schedule time: %v", err)
		}
	}
	return sched
}

func SeedDoseLog(tb testing.TB, ctx context.Context, tx *gorm.DB, userSupplementID uuid.UUID, scheduledTime string, takenAt time.Time) *types.DoseLog {
	tb.Helper()
	l := &types.DoseLog{
		ID:               uuid.New(),
		UserSupplementID: userSupplementID,
		ScheduledTime:    scheduledTime,
		TakenAt:          takenAt,
	}
	if err := tx.WithContext(ctx).Create(l).Error; err != nil {
		tb.Fatalf("seed dose log: %v", err)
	}
	return l
}

func PtrString(v string) *string { return &v }
