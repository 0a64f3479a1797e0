package services

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stackcare/stackcare-backend/internal/data/repos/testutil"
	"github.com/stackcare/stackcare-backend/internal/pkg/errors"
	"github.com/stackcare/stackcare-backend/internal/types"
)

func TestAddToStackIsIdempotent(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	user := testutil.SeedUser(t, ctx, env.tx, "stack-add@example.com")
	supp := testutil.SeedSupplement(t, ctx, env.tx, "CoQ10", nil, types.SupplementStatusPublished)

	first, err := env.catalog.AddToStack(ctx, user.ID, supp.ID)
	if err != nil {
		t.Fatalf("AddToStack: %v", err)
	}
	second, err := env.catalog.AddToStack(ctx, user.ID, supp.ID)
	if err != nil {
		t.Fatalf("AddToStack again: %v", err)
	}
	if first.ID != second.ID {
		t.Fatal("expected repeated add to return the same pairing")
	}

	stack, err := env.catalog.ListStack(ctx, user.ID)
	if err != nil {
		t.Fatalf("ListStack: %v", err)
	}
	if len(stack) != 1 {
		t.Fatalf("expected 1 stack entry, got %d", len(stack))
	}
}

func TestAddToStackRejectsRejectedEntries(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	user := testutil.SeedUser(t, ctx, env.tx, "stack-rejected@example.com")
	rejected := testutil.SeedSupplement(t, ctx, env.tx, "Banned Blend", nil, types.SupplementStatusRejected)

	if _, err := env.catalog.AddToStack(ctx, user.ID, rejected.ID); !stderrors.Is(err, errors.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
}

func TestRemoveFromStackCascades(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	user := testutil.SeedUser(t, ctx, env.tx, "stack-remove@example.com")
	supp := testutil.SeedSupplement(t, ctx, env.tx, "NAC", nil, types.SupplementStatusPublished)
	us := testutil.SeedUserSupplement(t, ctx, env.tx, user.ID, supp.ID, types.RelationUses)
	testutil.SeedSchedule(t, ctx, env.tx, us.ID, []int{1, 2}, []string{"08:00"})
	testutil.SeedDoseLog(t, ctx, env.tx, us.ID, "08:00", time.Date(2026, 3, 9, 8, 0, 0, 0, time.UTC))

	if err := env.catalog.RemoveFromStack(ctx, user.ID, us.ID); err != nil {
		t.Fatalf("RemoveFromStack: %v", err)
	}

	var logs int64
	if err := env.tx.Model(&types.DoseLog{}).Where("user_supplement_id = ?", us.ID).Count(&logs).Error; err != nil {
		t.Fatalf("count logs: %v", err)
	}
	var schedules int64
	if err := env.tx.Model(&types.SupplementSchedule{}).Where("user_supplement_id = ?", us.ID).Count(&schedules).Error; err != nil {
		t.Fatalf("count schedules: %v", err)
	}
	var pairings int64
	if err := env.tx.Model(&types.UserSupplement{}).Where("id = ?", us.ID).Count(&pairings).Error; err != nil {
		t.Fatalf("count pairings: %v", err)
	}
	if logs != 0 || schedules != 0 || pairings != 0 {
		t.Fatalf("expected full cascade, got %d logs %d schedules %d pairings", logs, schedules, pairings)
	}

	// The catalog entry itself survives.
	supplement, err := env.catalog.GetSupplement(ctx, supp.ID)
	if err != nil {
		t.Fatalf("GetSupplement: %v", err)
	}
	if supplement == nil {
		t.Fatal("expected catalog entry untouched")
	}
}

func TestPublishReclassifiesSubmitterLinks(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	admin := testutil.SeedUser(t, ctx, env.tx, "catalog-admin@example.com")
	submitter := testutil.SeedUser(t, ctx, env.tx, "catalog-submitter@example.com")

	resolution, err := env.catalog.Submit(ctx, submitter.ID, types.RecognizedProduct{Name: "New Nootropic"})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if resolution.Status != types.ResolutionPending {
		t.Fatalf("expected pending, got %s", resolution.Status)
	}

	pending, err := env.catalog.ListPending(ctx, 0)
	if err != nil {
		t.Fatalf("ListPending: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("expected 1 pending entry, got %d", len(pending))
	}

	if err := env.catalog.Publish(ctx, admin.ID, *resolution.SupplementID); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	stack, err := env.catalog.ListStack(ctx, submitter.ID)
	if err != nil {
		t.Fatalf("ListStack: %v", err)
	}
	if len(stack) != 1 {
		t.Fatalf("expected submission promoted into stack, got %d entries", len(stack))
	}

	// A second publish of the same entry reports not found.
	if err := env.catalog.Publish(ctx, admin.ID, *resolution.SupplementID); !stderrors.Is(err, errors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRejectLeavesSubmitterLinksAlone(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	admin := testutil.SeedUser(t, ctx, env.tx, "reject-admin@example.com")
	submitter := testutil.SeedUser(t, ctx, env.tx, "reject-submitter@example.com")

	resolution, err := env.catalog.Submit(ctx, submitter.ID, types.RecognizedProduct{Name: "Sketchy Blend"})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if err := env.catalog.Reject(ctx, admin.ID, *resolution.SupplementID, testutil.PtrString("unverifiable label")); err != nil {
		t.Fatalf("Reject: %v", err)
	}

	stack, err := env.catalog.ListStack(ctx, submitter.ID)
	if err != nil {
		t.Fatalf("ListStack: %v", err)
	}
	if len(stack) != 0 {
		t.Fatalf("expected rejected submission out of stack, got %d entries", len(stack))
	}
}
