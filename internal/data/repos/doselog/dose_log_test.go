package doselog

import (
	"context"
	"testing"
	"time"

	"github.com/stackcare/stackcare-backend/internal/data/repos/testutil"
	"github.com/stackcare/stackcare-backend/internal/types"
)

func TestFindEffectivePicksMostRecentOnDay(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	repo := NewDoseLogRepo(tx, testutil.Logger(t))

	user := testutil.SeedUser(t, ctx, tx, "doselog-effective@example.com")
	supp := testutil.SeedSupplement(t, ctx, tx, "Magnesium", nil, types.SupplementStatusPublished)
	us := testutil.SeedUserSupplement(t, ctx, tx, user.ID, supp.ID, types.RelationUses)

	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	early := testutil.SeedDoseLog(t, ctx, tx, us.ID, "08:00", day.Add(8*time.Hour))
	late := testutil.SeedDoseLog(t, ctx, tx, us.ID, "08:00", day.Add(9*time.Hour))
	_ = early

	found, err := repo.FindEffective(ctx, tx, us.ID, "08:00", day, day.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("FindEffective: %v", err)
	}
	if found == nil {
		t.Fatal("expected a log, got nil")
	}
	if found.ID != late.ID {
		t.Fatalf("expected most recent log %s, got %s", late.ID, found.ID)
	}

	// Different slot time on the same day does not match.
	other, err := repo.FindEffective(ctx, tx, us.ID, "20:00", day, day.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("FindEffective: %v", err)
	}
	if other != nil {
		t.Fatalf("expected nil for unlogged slot, got %v", other.ID)
	}
}

func TestFindEffectiveIgnoresSkippedAndOtherDays(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	repo := NewDoseLogRepo(tx, testutil.Logger(t))

	user := testutil.SeedUser(t, ctx, tx, "doselog-skipped@example.com")
	supp := testutil.SeedSupplement(t, ctx, tx, "Zinc", nil, types.SupplementStatusPublished)
	us := testutil.SeedUserSupplement(t, ctx, tx, user.ID, supp.ID, types.RelationUses)

	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	skipped := &types.DoseLog{
		UserSupplementID: us.ID,
		ScheduledTime:    "08:00",
		TakenAt:          day.Add(8 * time.Hour),
		Skipped:          true,
	}
	if _, err := repo.Create(ctx, tx, skipped); err != nil {
		t.Fatalf("Create: %v", err)
	}
	testutil.SeedDoseLog(t, ctx, tx, us.ID, "08:00", day.AddDate(0, 0, -1).Add(8*time.Hour))

	found, err := repo.FindEffective(ctx, tx, us.ID, "08:00", day, day.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("FindEffective: %v", err)
	}
	if found != nil {
		t.Fatalf("expected nil, got %v", found.ID)
	}
}

func TestListAndCountForUserOnDay(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	repo := NewDoseLogRepo(tx, testutil.Logger(t))

	user := testutil.SeedUser(t, ctx, tx, "doselog-list@example.com")
	other := testutil.SeedUser(t, ctx, tx, "doselog-list-other@example.com")
	supp := testutil.SeedSupplement(t, ctx, tx, "Vitamin D", nil, types.SupplementStatusPublished)
	us := testutil.SeedUserSupplement(t, ctx, tx, user.ID, supp.ID, types.RelationUses)
	otherUS := testutil.SeedUserSupplement(t, ctx, tx, other.ID, supp.ID, types.RelationUses)

	day := time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)
	testutil.SeedDoseLog(t, ctx, tx, us.ID, "08:00", day.Add(8*time.Hour))
	testutil.SeedDoseLog(t, ctx, tx, us.ID, "20:00", day.Add(20*time.Hour))
	testutil.SeedDoseLog(t, ctx, tx, otherUS.ID, "08:00", day.Add(8*time.Hour))
	testutil.SeedDoseLog(t, ctx, tx, us.ID, "08:00", day.AddDate(0, 0, 1).Add(8*time.Hour))

	logs, err := repo.ListForUserOnDay(ctx, tx, user.ID, day, day.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("ListForUserOnDay: %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("expected 2 logs, got %d", len(logs))
	}
	if logs[0].TakenAt.Before(logs[1].TakenAt) {
		t.Fatal("expected most recent log first")
	}

	count, err := repo.CountForUserOnDay(ctx, tx, user.ID, day, day.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("CountForUserOnDay: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected count 2, got %d", count)
	}
}

func TestDeleteReportsMissingRows(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	repo := NewDoseLogRepo(tx, testutil.Logger(t))

	user := testutil.SeedUser(t, ctx, tx, "doselog-delete@example.com")
	supp := testutil.SeedSupplement(t, ctx, tx, "Omega-3", nil, types.SupplementStatusPublished)
	us := testutil.SeedUserSupplement(t, ctx, tx, user.ID, supp.ID, types.RelationUses)
	entry := testutil.SeedDoseLog(t, ctx, tx, us.ID, "08:00", time.Now().UTC())

	deleted, err := repo.Delete(ctx, tx, entry.ID)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if !deleted {
		t.Fatal("expected delete to report true")
	}

	again, err := repo.Delete(ctx, tx, entry.ID)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if again {
		t.Fatal("expected second delete to report false")
	}
}
