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

func seedPairing(t *testing.T, ctx context.Context, env *testEnv, email string) (uuid.UUID, uuid.UUID) {
	t.Helper()
	user := testutil.SeedUser(t, ctx, env.tx, email)
	supp := testutil.SeedSupplement(t, ctx, env.tx, "Rhodiola", nil, types.SupplementStatusPublished)
	us := testutil.SeedUserSupplement(t, ctx, env.tx, user.ID, supp.ID, types.RelationUses)
	return user.ID, us.ID
}

func TestScheduleUpsertNormalizesInput(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	userID, usID := seedPairing(t, ctx, env, "sched-normalize@example.com")

	view, err := env.schedule.Upsert(ctx, userID, usID, types.ScheduleInput{
		Days: []int{5, 1, 3, 1},
		Times: []types.ScheduleTimeInput{
			{Time: "20:00"},
			{Time: "08:00", Label: testutil.PtrString("with breakfast")},
			{Time: "08:00"},
		},
	})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if len(view.Days) != 3 || view.Days[0] != 1 || view.Days[1] != 3 || view.Days[2] != 5 {
		t.Fatalf("expected sorted deduped days [1 3 5], got %v", view.Days)
	}
	if len(view.Times) != 2 || view.Times[0].Time != "08:00" || view.Times[1].Time != "20:00" {
		t.Fatalf("expected sorted deduped times, got %v", view.Times)
	}
	if view.Times[0].Label == nil || *view.Times[0].Label != "with breakfast" {
		t.Fatal("expected first occurrence of a duplicate time to win")
	}
	if !view.IsActive {
		t.Fatal("expected new schedule active")
	}
}

func TestScheduleUpsertRejectsInvalidInput(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	userID, usID := seedPairing(t, ctx, env, "sched-invalid@example.com")

	cases := []types.ScheduleInput{
		{Days: nil, Times: []types.ScheduleTimeInput{{Time: "08:00"}}},
		{Days: []int{1}, Times: nil},
		{Days: []int{7}, Times: []types.ScheduleTimeInput{{Time: "08:00"}}},
		{Days: []int{-1}, Times: []types.ScheduleTimeInput{{Time: "08:00"}}},
		{Days: []int{1}, Times: []types.ScheduleTimeInput{{Time: "24:00"}}},
		{Days: []int{1}, Times: []types.ScheduleTimeInput{{Time: "8am"}}},
		// Single-digit hours would never match a log stored as "08:00".
		{Days: []int{1}, Times: []types.ScheduleTimeInput{{Time: "8:00"}}},
	}
	for i, input := range cases {
		if _, err := env.schedule.Upsert(ctx, userID, usID, input); !stderrors.Is(err, errors.ErrInvalidArgument) {
			t.Fatalf("case %d: expected invalid argument, got %v", i, err)
		}
	}
}

func TestScheduleOperationsHideOtherUsersPairings(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	_, usID := seedPairing(t, ctx, env, "sched-owner@example.com")
	stranger := testutil.SeedUser(t, ctx, env.tx, "sched-stranger@example.com")

	input := types.ScheduleInput{Days: []int{1}, Times: []types.ScheduleTimeInput{{Time: "08:00"}}}
	if _, err := env.schedule.Upsert(ctx, stranger.ID, usID, input); !stderrors.Is(err, errors.ErrNotFound) {
		t.Fatalf("expected not found on upsert, got %v", err)
	}
	deleted, err := env.schedule.Delete(ctx, stranger.ID, usID)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if deleted {
		t.Fatal("expected delete to report false for another user's pairing")
	}
	if err := env.schedule.SetActive(ctx, stranger.ID, usID, false); !stderrors.Is(err, errors.ErrNotFound) {
		t.Fatalf("expected not found on toggle, got %v", err)
	}
}

func TestScheduleOperationsRequireUsesRelation(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	user := testutil.SeedUser(t, ctx, env.tx, "sched-submitted@example.com")
	supp := testutil.SeedSupplement(t, ctx, env.tx, "Ashwagandha", nil, types.SupplementStatusPending)
	submitted := testutil.SeedUserSupplement(t, ctx, env.tx, user.ID, supp.ID, types.RelationSubmitted)

	input := types.ScheduleInput{Days: []int{1}, Times: []types.ScheduleTimeInput{{Time: "08:00"}}}
	if _, err := env.schedule.Upsert(ctx, user.ID, submitted.ID, input); !stderrors.Is(err, errors.ErrNotFound) {
		t.Fatalf("expected not found for submitted pairing, got %v", err)
	}
	if _, err := env.schedule.Get(ctx, user.ID, submitted.ID); !stderrors.Is(err, errors.ErrNotFound) {
		t.Fatalf("expected not found on get, got %v", err)
	}
	if err := env.schedule.SetActive(ctx, user.ID, submitted.ID, false); !stderrors.Is(err, errors.ErrNotFound) {
		t.Fatalf("expected not found on toggle, got %v", err)
	}
	deleted, err := env.schedule.Delete(ctx, user.ID, submitted.ID)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if deleted {
		t.Fatal("expected delete to report false for a submitted pairing")
	}
}

func TestScheduleDeleteAndToggle(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	userID, usID := seedPairing(t, ctx, env, "sched-lifecycle@example.com")

	input := types.ScheduleInput{Days: []int{6}, Times: []types.ScheduleTimeInput{{Time: "09:00"}}}
	if _, err := env.schedule.Upsert(ctx, userID, usID, input); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	// testNow is a Saturday (weekday 6).
	if err := env.schedule.SetActive(ctx, userID, usID, false); err != nil {
		t.Fatalf("SetActive: %v", err)
	}
	slots, err := env.dose.ResolveDay(ctx, userID, testNow.Format(dateLayout))
	if err != nil {
		t.Fatalf("ResolveDay: %v", err)
	}
	if len(slots) != 0 {
		t.Fatalf("expected paused schedule to produce no slots, got %d", len(slots))
	}

	if err := env.schedule.SetActive(ctx, userID, usID, true); err != nil {
		t.Fatalf("SetActive: %v", err)
	}
	slots, err = env.dose.ResolveDay(ctx, userID, testNow.Format(dateLayout))
	if err != nil {
		t.Fatalf("ResolveDay: %v", err)
	}
	if len(slots) != 1 {
		t.Fatalf("expected resumed schedule to produce slots, got %d", len(slots))
	}

	deleted, err := env.schedule.Delete(ctx, userID, usID)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if !deleted {
		t.Fatal("expected delete to report the removal")
	}
	if _, err := env.schedule.Get(ctx, userID, usID); !stderrors.Is(err, errors.ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}

	// A second delete has nothing to remove.
	deleted, err = env.schedule.Delete(ctx, userID, usID)
	if err != nil {
		t.Fatalf("Delete again: %v", err)
	}
	if deleted {
		t.Fatal("expected second delete to report false")
	}
}
