package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stackcare/stackcare-backend/internal/data/repos"
	"github.com/stackcare/stackcare-backend/internal/pkg/errors"
	"github.com/stackcare/stackcare-backend/internal/pkg/logger"
	"github.com/stackcare/stackcare-backend/internal/platform/cache"
	"github.com/stackcare/stackcare-backend/internal/types"
)

// CatalogService covers the public catalog, per-user stacks and the admin
// review queue. Stack membership is the "uses" relation; removing a pairing
// cascades its schedule and dose history in one transaction.
type CatalogService interface {
	ListPublished(ctx context.Context, limit int) ([]*types.Supplement, error)
	GetSupplement(ctx context.Context, supplementID uuid.UUID) (*types.Supplement, error)
	// Submit resolves a user-described product against the catalog, creating
	// a pending entry when nothing matches.
	Submit(ctx context.Context, userID uuid.UUID, product types.RecognizedProduct) (*types.Resolution, error)
	AddToStack(ctx context.Context, userID, supplementID uuid.UUID) (*types.UserSupplement, error)
	RemoveFromStack(ctx context.Context, userID, userSupplementID uuid.UUID) error
	ListStack(ctx context.Context, userID uuid.UUID) ([]*types.UserSupplement, error)
	ListPending(ctx context.Context, limit int) ([]*types.Supplement, error)
	// Publish approves a pending entry and upgrades every "submitted" link on
	// it to "uses" so submitters see it in their stacks.
	Publish(ctx context.Context, reviewerID, supplementID uuid.UUID) error
	Reject(ctx context.Context, reviewerID, supplementID uuid.UUID, notes *string) error
}

type catalogService struct {
	db                 *gorm.DB
	log                *logger.Logger
	supplementRepo     repos.SupplementRepo
	userSupplementRepo repos.UserSupplementRepo
	scheduleRepo       repos.ScheduleRepo
	doseLogRepo        repos.DoseLogRepo
	resolver           EntityResolver
	cache              *cache.Cache
}

func NewCatalogService(
	db *gorm.DB,
	log *logger.Logger,
	supplementRepo repos.SupplementRepo,
	userSupplementRepo repos.UserSupplementRepo,
	scheduleRepo repos.ScheduleRepo,
	doseLogRepo repos.DoseLogRepo,
	resolver EntityResolver,
	c *cache.Cache,
) CatalogService {
	return &catalogService{
		db:                 db,
		log:                log.With("service", "CatalogService"),
		supplementRepo:     supplementRepo,
		userSupplementRepo: userSupplementRepo,
		scheduleRepo:       scheduleRepo,
		doseLogRepo:        doseLogRepo,
		resolver:           resolver,
		cache:              c,
	}
}

func (cs *catalogService) ListPublished(ctx context.Context, limit int) ([]*types.Supplement, error) {
	return cs.supplementRepo.ListPublished(ctx, nil, limit)
}

func (cs *catalogService) GetSupplement(ctx context.Context, supplementID uuid.UUID) (*types.Supplement, error) {
	supplement, err := cs.supplementRepo.GetByID(ctx, nil, supplementID)
	if err != nil {
		return nil, fmt.Errorf("load supplement: %w", err)
	}
	if supplement == nil {
		return nil, fmt.Errorf("%w: supplement %s", errors.ErrNotFound, supplementID)
	}
	return supplement, nil
}

func (cs *catalogService) Submit(ctx context.Context, userID uuid.UUID, product types.RecognizedProduct) (*types.Resolution, error) {
	product.Name = strings.TrimSpace(product.Name)
	if product.Name == "" {
		return nil, fmt.Errorf("%w: name is required", errors.ErrInvalidArgument)
	}
	var resolution *types.Resolution
	err := cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		resolution, err = cs.resolver.Resolve(ctx, tx, userID, product)
		return err
	})
	if err != nil {
		return nil, err
	}
	return resolution, nil
}

func (cs *catalogService) AddToStack(ctx context.Context, userID, supplementID uuid.UUID) (*types.UserSupplement, error) {
	supplement, err := cs.supplementRepo.GetByID(ctx, nil, supplementID)
	if err != nil {
		return nil, fmt.Errorf("load supplement: %w", err)
	}
	if supplement == nil {
		return nil, fmt.Errorf("%w: supplement %s", errors.ErrNotFound, supplementID)
	}
	if supplement.Status == types.SupplementStatusRejected {
		return nil, fmt.Errorf("%w: supplement %s was rejected", errors.ErrInvalidArgument, supplementID)
	}

	if err := cs.userSupplementRepo.Link(ctx, nil, userID, supplementID, types.RelationUses); err != nil {
		return nil, fmt.Errorf("link supplement: %w", err)
	}
	pairing, err := cs.userSupplementRepo.GetByUserAndSupplement(ctx, nil, userID, supplementID, types.RelationUses)
	if err != nil {
		return nil, fmt.Errorf("reload pairing: %w", err)
	}
	if pairing == nil {
		return nil, fmt.Errorf("%w: pairing vanished after link", errors.ErrConflict)
	}

	cs.invalidate(ctx, userID)
	return pairing, nil
}

func (cs *catalogService) RemoveFromStack(ctx context.Context, userID, userSupplementID uuid.UUID) error {
	owned, err := cs.userSupplementRepo.GetOwned(ctx, nil, userSupplementID, userID)
	if err != nil {
		return fmt.Errorf("load user supplement: %w", err)
	}
	if owned == nil {
		return fmt.Errorf("%w: user supplement %s", errors.ErrNotFound, userSupplementID)
	}

	err = cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := cs.doseLogRepo.DeleteByUserSupplementID(ctx, tx, userSupplementID); err != nil {
			return fmt.Errorf("delete dose logs: %w", err)
		}
		if _, err := cs.scheduleRepo.DeleteByUserSupplementID(ctx, tx, userSupplementID); err != nil {
			return fmt.Errorf("delete schedule: %w", err)
		}
		if err := cs.userSupplementRepo.Delete(ctx, tx, userSupplementID); err != nil {
			return fmt.Errorf("delete pairing: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	cs.invalidate(ctx, userID)
	return nil
}

func (cs *catalogService) ListStack(ctx context.Context, userID uuid.UUID) ([]*types.UserSupplement, error) {
	return cs.userSupplementRepo.ListUses(ctx, nil, userID)
}

func (cs *catalogService) ListPending(ctx context.Context, limit int) ([]*types.Supplement, error) {
	return cs.supplementRepo.ListPending(ctx, nil, limit)
}

func (cs *catalogService) Publish(ctx context.Context, reviewerID, supplementID uuid.UUID) error {
	return cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		published, err := cs.supplementRepo.Publish(ctx, tx, supplementID, reviewerID)
		if err != nil {
			return fmt.Errorf("publish supplement: %w", err)
		}
		if !published {
			return fmt.Errorf("%w: pending supplement %s", errors.ErrNotFound, supplementID)
		}
		upgraded, err := cs.userSupplementRepo.ReclassifySubmittedToUses(ctx, tx, supplementID)
		if err != nil {
			return fmt.Errorf("reclassify submissions: %w", err)
		}
		cs.log.Info("supplement published",
			"supplement_id", supplementID,
			"reviewer_id", reviewerID,
			"upgraded_links", upgraded)
		return nil
	})
}

func (cs *catalogService) Reject(ctx context.Context, reviewerID, supplementID uuid.UUID, notes *string) error {
	rejected, err := cs.supplementRepo.Reject(ctx, nil, supplementID, reviewerID, notes)
	if err != nil {
		return fmt.Errorf("reject supplement: %w", err)
	}
	if !rejected {
		return fmt.Errorf("%w: pending supplement %s", errors.ErrNotFound, supplementID)
	}
	return nil
}

func (cs *catalogService) invalidate(ctx context.Context, userID uuid.UUID) {
	cs.cache.DeletePattern(ctx, fmt.Sprintf("dashboard:%s:*", userID))
}
