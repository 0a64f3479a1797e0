package schedule

import (
	"context"
	"testing"

	"github.com/stackcare/stackcare-backend/internal/data/repos/testutil"
	"github.com/stackcare/stackcare-backend/internal/types"
)

func TestActiveSlotsForWeekdayExpandsDaysAndTimes(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	repo := NewScheduleRepo(tx, testutil.Logger(t))

	user := testutil.SeedUser(t, ctx, tx, "slots@example.com")
	supp := testutil.SeedSupplement(t, ctx, tx, "Creatine", testutil.PtrString("BulkCo"), types.SupplementStatusPublished)
	us := testutil.SeedUserSupplement(t, ctx, tx, user.ID, supp.ID, types.RelationUses)
	// Mon/Wed/Fri at 08:00 and 20:00.
	testutil.SeedSchedule(t, ctx, tx, us.ID, []int{1, 3, 5}, []string{"08:00", "20:00"})

	monday, err := repo.ActiveSlotsForWeekday(ctx, tx, user.ID, 1)
	if err != nil {
		t.Fatalf("ActiveSlotsForWeekday: %v", err)
	}
	if len(monday) != 2 {
		t.Fatalf("expected 2 slots on Monday, got %d", len(monday))
	}
	if monday[0].TimeOfDay != "08:00" || monday[1].TimeOfDay != "20:00" {
		t.Fatalf("expected ordered times [08:00 20:00], got [%s %s]", monday[0].TimeOfDay, monday[1].TimeOfDay)
	}
	if monday[0].SupplementName != "Creatine" {
		t.Fatalf("expected supplement name in slot, got %q", monday[0].SupplementName)
	}
	if monday[0].SupplementBrand == nil || *monday[0].SupplementBrand != "BulkCo" {
		t.Fatal("expected supplement brand in slot")
	}

	tuesday, err := repo.ActiveSlotsForWeekday(ctx, tx, user.ID, 2)
	if err != nil {
		t.Fatalf("ActiveSlotsForWeekday: %v", err)
	}
	if len(tuesday) != 0 {
		t.Fatalf("expected no slots on Tuesday, got %d", len(tuesday))
	}

	count, err := repo.CountActiveSlotsForWeekday(ctx, tx, user.ID, 3)
	if err != nil {
		t.Fatalf("CountActiveSlotsForWeekday: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected count 2 on Wednesday, got %d", count)
	}
}

func TestActiveSlotsExcludeInactiveAndNonUses(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	repo := NewScheduleRepo(tx, testutil.Logger(t))

	user := testutil.SeedUser(t, ctx, tx, "slots-filter@example.com")
	supp := testutil.SeedSupplement(t, ctx, tx, "Iron", nil, types.SupplementStatusPublished)
	us := testutil.SeedUserSupplement(t, ctx, tx, user.ID, supp.ID, types.RelationUses)
	testutil.SeedSchedule(t, ctx, tx, us.ID, []int{1}, []string{"08:00"})

	favSupp := testutil.SeedSupplement(t, ctx, tx, "B12", nil, types.SupplementStatusPublished)
	fav := testutil.SeedUserSupplement(t, ctx, tx, user.ID, favSupp.ID, types.RelationFavorite)
	testutil.SeedSchedule(t, ctx, tx, fav.ID, []int{1}, []string{"08:00"})

	slots, err := repo.ActiveSlotsForWeekday(ctx, tx, user.ID, 1)
	if err != nil {
		t.Fatalf("ActiveSlotsForWeekday: %v", err)
	}
	if len(slots) != 1 {
		t.Fatalf("expected non-uses pairing excluded, got %d slots", len(slots))
	}

	if _, err := repo.SetActive(ctx, tx, us.ID, false); err != nil {
		t.Fatalf("SetActive: %v", err)
	}
	slots, err = repo.ActiveSlotsForWeekday(ctx, tx, user.ID, 1)
	if err != nil {
		t.Fatalf("ActiveSlotsForWeekday: %v", err)
	}
	if len(slots) != 0 {
		t.Fatalf("expected paused schedule excluded, got %d slots", len(slots))
	}
}

func TestUpsertOverwritesDaysAndTimes(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	repo := NewScheduleRepo(tx, testutil.Logger(t))

	user := testutil.SeedUser(t, ctx, tx, "upsert@example.com")
	supp := testutil.SeedSupplement(t, ctx, tx, "Ashwagandha", nil, types.SupplementStatusPublished)
	us := testutil.SeedUserSupplement(t, ctx, tx, user.ID, supp.ID, types.RelationUses)

	first, err := repo.Upsert(ctx, tx, us.ID, []int{1, 3}, []types.ScheduleTimeInput{{Time: "08:00"}})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if !first.IsActive {
		t.Fatal("expected new schedule to start active")
	}

	// Pause, then overwrite: the overwrite must not reactivate.
	if _, err := repo.SetActive(ctx, tx, us.ID, false); err != nil {
		t.Fatalf("SetActive: %v", err)
	}
	second, err := repo.Upsert(ctx, tx, us.ID, []int{2}, []types.ScheduleTimeInput{{Time: "09:30"}, {Time: "21:00"}})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if second.ID != first.ID {
		t.Fatal("expected upsert to keep the schedule row")
	}
	if second.IsActive {
		t.Fatal("expected overwrite to preserve paused state")
	}

	sched, err := repo.GetByUserSupplementID(ctx, tx, us.ID)
	if err != nil {
		t.Fatalf("GetByUserSupplementID: %v", err)
	}
	if len(sched.Days) != 1 || sched.Days[0].DayOfWeek != 2 {
		t.Fatalf("expected days overwritten to [2], got %v", sched.Days)
	}
	if len(sched.Times) != 2 {
		t.Fatalf("expected 2 times after overwrite, got %d", len(sched.Times))
	}
}

func TestDeleteByUserSupplementID(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	repo := NewScheduleRepo(tx, testutil.Logger(t))

	user := testutil.SeedUser(t, ctx, tx, "sched-delete@example.com")
	supp := testutil.SeedSupplement(t, ctx, tx, "Melatonin", nil, types.SupplementStatusPublished)
	us := testutil.SeedUserSupplement(t, ctx, tx, user.ID, supp.ID, types.RelationUses)
	testutil.SeedSchedule(t, ctx, tx, us.ID, []int{0, 6}, []string{"22:00"})

	deleted, err := repo.DeleteByUserSupplementID(ctx, tx, us.ID)
	if err != nil {
		t.Fatalf("DeleteByUserSupplementID: %v", err)
	}
	if !deleted {
		t.Fatal("expected delete to report true")
	}

	var dayCount int64
	if err := tx.Model(&types.ScheduleDay{}).Count(&dayCount).Error; err != nil {
		t.Fatalf("count days: %v", err)
	}
	var timeCount int64
	if err := tx.Model(&types.ScheduleTime{}).Count(&timeCount).Error; err != nil {
		t.Fatalf("count times: %v", err)
	}
	if dayCount != 0 || timeCount != 0 {
		t.Fatalf("expected day and time rows removed, got %d days %d times", dayCount, timeCount)
	}

	again, err := repo.DeleteByUserSupplementID(ctx, tx, us.ID)
	if err != nil {
		t.Fatalf("DeleteByUserSupplementID: %v", err)
	}
	if again {
		t.Fatal("expected second delete to report false")
	}
}
