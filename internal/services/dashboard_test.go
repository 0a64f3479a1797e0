package services

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/google/uuid"

	"github.com/stackcare/stackcare-backend/internal/data/repos/testutil"
	"github.com/stackcare/stackcare-backend/internal/pkg/errors"
	"github.com/stackcare/stackcare-backend/internal/types"
)

func TestMarkDoseTakenIsIdempotent(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	userID, usID := seedStreakUser(t, ctx, env, "mark@example.com")
	today := testNow.Format(dateLayout)

	first, err := env.dashboard.MarkDoseTaken(ctx, userID, usID, "08:00", today)
	if err != nil {
		t.Fatalf("MarkDoseTaken: %v", err)
	}
	second, err := env.dashboard.MarkDoseTaken(ctx, userID, usID, "08:00", today)
	if err != nil {
		t.Fatalf("MarkDoseTaken again: %v", err)
	}
	if first.LogID != second.LogID {
		t.Fatalf("expected same receipt, got %s then %s", first.LogID, second.LogID)
	}

	var count int64
	if err := env.tx.Model(&types.DoseLog{}).
		Where("user_supplement_id = ?", usID).
		Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 log row, got %d", count)
	}

	// A different slot time on the same day is a separate log.
	other, err := env.dashboard.MarkDoseTaken(ctx, userID, usID, "20:00", today)
	if err != nil {
		t.Fatalf("MarkDoseTaken other slot: %v", err)
	}
	if other.LogID == first.LogID {
		t.Fatal("expected a distinct log for a distinct slot")
	}
}

func TestMarkDoseTakenHonorsRequestedDate(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	userID, usID := seedStreakUser(t, ctx, env, "mark-date@example.com")
	yesterday := testNow.AddDate(0, 0, -1).Format(dateLayout)

	first, err := env.dashboard.MarkDoseTaken(ctx, userID, usID, "08:00", yesterday)
	if err != nil {
		t.Fatalf("MarkDoseTaken: %v", err)
	}

	// The log lands on the requested day and a repeat dedups against it.
	slots, err := env.dose.ResolveDay(ctx, userID, yesterday)
	if err != nil {
		t.Fatalf("ResolveDay: %v", err)
	}
	if len(slots) != 1 || !slots[0].Taken {
		t.Fatalf("expected yesterday's slot taken, got %+v", slots)
	}
	second, err := env.dashboard.MarkDoseTaken(ctx, userID, usID, "08:00", yesterday)
	if err != nil {
		t.Fatalf("MarkDoseTaken again: %v", err)
	}
	if first.LogID != second.LogID {
		t.Fatalf("expected same receipt for same date, got %s then %s", first.LogID, second.LogID)
	}

	// Today is a separate idempotency window.
	todaySlots, err := env.dose.ResolveDay(ctx, userID, testNow.Format(dateLayout))
	if err != nil {
		t.Fatalf("ResolveDay today: %v", err)
	}
	if len(todaySlots) != 1 || todaySlots[0].Taken {
		t.Fatalf("expected today's slot untaken, got %+v", todaySlots)
	}
}

func TestMarkDoseTakenValidatesInput(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	userID, usID := seedStreakUser(t, ctx, env, "mark-validate@example.com")
	today := testNow.Format(dateLayout)

	if _, err := env.dashboard.MarkDoseTaken(ctx, userID, usID, "25:00", today); !stderrors.Is(err, errors.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument for bad time, got %v", err)
	}
	if _, err := env.dashboard.MarkDoseTaken(ctx, userID, usID, "08:00", "14-03-2026"); !stderrors.Is(err, errors.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument for bad date, got %v", err)
	}
	if _, err := env.dashboard.MarkDoseTaken(ctx, userID, usID, "08:00", ""); !stderrors.Is(err, errors.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument for missing date, got %v", err)
	}
	if _, err := env.dashboard.MarkDoseTaken(ctx, userID, uuid.New(), "08:00", today); !stderrors.Is(err, errors.ErrNotFound) {
		t.Fatalf("expected not found for unknown pairing, got %v", err)
	}

	stranger := testutil.SeedUser(t, ctx, env.tx, "mark-stranger@example.com")
	if _, err := env.dashboard.MarkDoseTaken(ctx, stranger.ID, usID, "08:00", today); !stderrors.Is(err, errors.ErrNotFound) {
		t.Fatalf("expected not found for unowned pairing, got %v", err)
	}
}

func TestUnmarkDoseRoundTrip(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	userID, usID := seedStreakUser(t, ctx, env, "unmark@example.com")
	today := testNow.Format(dateLayout)

	receipt, err := env.dashboard.MarkDoseTaken(ctx, userID, usID, "08:00", today)
	if err != nil {
		t.Fatalf("MarkDoseTaken: %v", err)
	}

	slots, err := env.dose.ResolveDay(ctx, userID, today)
	if err != nil {
		t.Fatalf("ResolveDay: %v", err)
	}
	if len(slots) != 1 || !slots[0].Taken {
		t.Fatalf("expected taken slot, got %+v", slots)
	}

	deleted, err := env.dashboard.UnmarkDose(ctx, userID, receipt.LogID)
	if err != nil {
		t.Fatalf("UnmarkDose: %v", err)
	}
	if !deleted {
		t.Fatal("expected unmark to report the removal")
	}

	slots, err = env.dose.ResolveDay(ctx, userID, today)
	if err != nil {
		t.Fatalf("ResolveDay: %v", err)
	}
	if len(slots) != 1 || slots[0].Taken {
		t.Fatalf("expected untaken slot after unmark, got %+v", slots)
	}

	// Removing an already removed log is a no-op, not a failure.
	deleted, err = env.dashboard.UnmarkDose(ctx, userID, receipt.LogID)
	if err != nil {
		t.Fatalf("UnmarkDose again: %v", err)
	}
	if deleted {
		t.Fatal("expected second unmark to report false")
	}
}

func TestUnmarkDoseUnknownLogReportsFalse(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	userID, _ := seedStreakUser(t, ctx, env, "unmark-unknown@example.com")

	deleted, err := env.dashboard.UnmarkDose(ctx, userID, uuid.New())
	if err != nil {
		t.Fatalf("UnmarkDose: %v", err)
	}
	if deleted {
		t.Fatal("expected false for an unknown log")
	}
}

func TestUnmarkDoseEnforcesOwnership(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	userID, usID := seedStreakUser(t, ctx, env, "unmark-owner@example.com")

	receipt, err := env.dashboard.MarkDoseTaken(ctx, userID, usID, "08:00", testNow.Format(dateLayout))
	if err != nil {
		t.Fatalf("MarkDoseTaken: %v", err)
	}

	stranger := testutil.SeedUser(t, ctx, env.tx, "unmark-stranger@example.com")
	deleted, err := env.dashboard.UnmarkDose(ctx, stranger.ID, receipt.LogID)
	if err != nil {
		t.Fatalf("UnmarkDose: %v", err)
	}
	if deleted {
		t.Fatal("expected false for another user's log")
	}

	// The log survives the failed attempt.
	var count int64
	if err := env.tx.Model(&types.DoseLog{}).
		Where("id = ?", receipt.LogID).
		Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatal("expected log untouched")
	}
}

func TestMarkDoseUpdatesStreak(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	userID, usID := seedStreakUser(t, ctx, env, "mark-streak@example.com")

	if _, err := env.dashboard.MarkDoseTaken(ctx, userID, usID, "08:00", testNow.Format(dateLayout)); err != nil {
		t.Fatalf("MarkDoseTaken: %v", err)
	}

	stats, err := env.userStatsRepo.GetByUserID(ctx, env.tx, userID)
	if err != nil {
		t.Fatalf("GetByUserID: %v", err)
	}
	if stats == nil || stats.CurrentStreak != 1 {
		t.Fatalf("expected streak 1 after first dose, got %+v", stats)
	}
}

func TestGetDashboardAssemblesProjection(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	userID, usID := seedStreakUser(t, ctx, env, "dashboard@example.com")

	if _, err := env.dashboard.MarkDoseTaken(ctx, userID, usID, "08:00", testNow.Format(dateLayout)); err != nil {
		t.Fatalf("MarkDoseTaken: %v", err)
	}

	data, err := env.dashboard.GetDashboard(ctx, userID, "")
	if err != nil {
		t.Fatalf("GetDashboard: %v", err)
	}
	if data.Stats.Taken != 1 || data.Stats.Total != 1 {
		t.Fatalf("expected 1/1 today, got %d/%d", data.Stats.Taken, data.Stats.Total)
	}
	if data.Stats.Streak != 1 {
		t.Fatalf("expected streak 1, got %d", data.Stats.Streak)
	}
	if len(data.WeeklyData) != 7 {
		t.Fatalf("expected 7 weekly entries, got %d", len(data.WeeklyData))
	}
	if len(data.Doses) != 1 || !data.Doses[0].Taken {
		t.Fatalf("expected one taken dose slot, got %+v", data.Doses)
	}
	// 1 of 7 scheduled days has a dose.
	if data.Stats.WeeklyConsistency != 14 {
		t.Fatalf("expected consistency 14, got %d", data.Stats.WeeklyConsistency)
	}
}
