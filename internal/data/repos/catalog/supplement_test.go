package catalog

import (
	"context"
	"testing"

	"github.com/stackcare/stackcare-backend/internal/data/repos/testutil"
	"github.com/stackcare/stackcare-backend/internal/types"
)

func TestFindPublishedByNameBrandIsCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	repo := NewSupplementRepo(tx, testutil.Logger(t))

	testutil.SeedSupplement(t, ctx, tx, "Fish Oil", testutil.PtrString("NordicCo"), types.SupplementStatusPublished)
	testutil.SeedSupplement(t, ctx, tx, "Fish Oil", testutil.PtrString("NordicCo"), types.SupplementStatusPending)

	found, err := repo.FindPublishedByNameBrand(ctx, tx, "fish oil", "NORDICCO")
	if err != nil {
		t.Fatalf("FindPublishedByNameBrand: %v", err)
	}
	if found == nil {
		t.Fatal("expected a match")
	}
	if found.Status != types.SupplementStatusPublished {
		t.Fatalf("expected published entry, got %s", found.Status)
	}

	missing, err := repo.FindPublishedByNameBrand(ctx, tx, "fish oil", "OtherBrand")
	if err != nil {
		t.Fatalf("FindPublishedByNameBrand: %v", err)
	}
	if missing != nil {
		t.Fatal("expected no match for unknown brand")
	}
}

func TestFindGenericPublishedByName(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	repo := NewSupplementRepo(tx, testutil.Logger(t))

	testutil.SeedSupplement(t, ctx, tx, "Magnesium Glycinate", nil, types.SupplementStatusPublished)
	testutil.SeedSupplement(t, ctx, tx, "Vitamin C", testutil.PtrString("generic"), types.SupplementStatusPublished)
	testutil.SeedSupplement(t, ctx, tx, "Vitamin K2", testutil.PtrString("BrandCo"), types.SupplementStatusPublished)

	nilBrand, err := repo.FindGenericPublishedByName(ctx, tx, "magnesium glycinate")
	if err != nil {
		t.Fatalf("FindGenericPublishedByName: %v", err)
	}
	if nilBrand == nil {
		t.Fatal("expected null-brand entry to match")
	}

	literal, err := repo.FindGenericPublishedByName(ctx, tx, "VITAMIN C")
	if err != nil {
		t.Fatalf("FindGenericPublishedByName: %v", err)
	}
	if literal == nil {
		t.Fatal("expected literal generic brand to match")
	}

	branded, err := repo.FindGenericPublishedByName(ctx, tx, "Vitamin K2")
	if err != nil {
		t.Fatalf("FindGenericPublishedByName: %v", err)
	}
	if branded != nil {
		t.Fatal("expected branded entry excluded from generic lookup")
	}
}

func TestPublishOnlyMovesPendingEntries(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	repo := NewSupplementRepo(tx, testutil.Logger(t))

	reviewer := testutil.SeedUser(t, ctx, tx, "reviewer@example.com")
	pending := testutil.SeedSupplement(t, ctx, tx, "New Blend", nil, types.SupplementStatusPending)

	published, err := repo.Publish(ctx, tx, pending.ID, reviewer.ID)
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if !published {
		t.Fatal("expected publish to report true")
	}

	reloaded, err := repo.GetByID(ctx, tx, pending.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if reloaded.Status != types.SupplementStatusPublished {
		t.Fatalf("expected published, got %s", reloaded.Status)
	}
	if reloaded.ReviewedBy == nil || *reloaded.ReviewedBy != reviewer.ID {
		t.Fatal("expected reviewer recorded")
	}

	// Publishing an already published entry is a no-op.
	again, err := repo.Publish(ctx, tx, pending.ID, reviewer.ID)
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if again {
		t.Fatal("expected second publish to report false")
	}
}

func TestRejectRecordsNotes(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	repo := NewSupplementRepo(tx, testutil.Logger(t))

	reviewer := testutil.SeedUser(t, ctx, tx, "reviewer-reject@example.com")
	pending := testutil.SeedSupplement(t, ctx, tx, "Dubious Blend", nil, types.SupplementStatusPending)

	rejected, err := repo.Reject(ctx, tx, pending.ID, reviewer.ID, testutil.PtrString("duplicate entry"))
	if err != nil {
		t.Fatalf("Reject: %v", err)
	}
	if !rejected {
		t.Fatal("expected reject to report true")
	}

	reloaded, err := repo.GetByID(ctx, tx, pending.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if reloaded.Status != types.SupplementStatusRejected {
		t.Fatalf("expected rejected, got %s", reloaded.Status)
	}
	if reloaded.ReviewNotes == nil || *reloaded.ReviewNotes != "duplicate entry" {
		t.Fatal("expected review notes recorded")
	}
}
