package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stackcare/stackcare-backend/internal/pkg/logger"
	"github.com/stackcare/stackcare-backend/internal/types"
)

type SupplementRepo interface {
	Create(ctx context.Context, tx *gorm.DB, supplement *types.Supplement) (*types.Supplement, error)
	GetByID(ctx context.Context, tx *gorm.DB, supplementID uuid.UUID) (*types.Supplement, error)
	List(ctx context.Context, tx *gorm.DB, limit int) ([]*types.Supplement, error)
	ListPublished(ctx context.Context, tx *gorm.DB, limit int) ([]*types.Supplement, error)
	ListPending(ctx context.Context, tx *gorm.DB, limit int) ([]*types.Supplement, error)
	// FindPublishedByNameBrand matches name and brand case-insensitively
	// against published entries only.
	FindPublishedByNameBrand(ctx context.Context, tx *gorm.DB, name, brand string) (*types.Supplement, error)
	// FindGenericPublishedByName matches published entries whose brand is
	// null or literally "generic".
	FindGenericPublishedByName(ctx context.Context, tx *gorm.DB, name string) (*types.Supplement, error)
	Publish(ctx context.Context, tx *gorm.DB, supplementID, reviewerID uuid.UUID) (bool, error)
	Reject(ctx context.Context, tx *gorm.DB, supplementID, reviewerID uuid.UUID, notes *string) (bool, error)
}

type supplementRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSupplementRepo(db *gorm.DB, baseLog *logger.Logger) SupplementRepo {
	return &supplementRepo{db: db, log: baseLog.With("repo", "SupplementRepo")}
}

func (sr *supplementRepo) Create(ctx context.Context, tx *gorm.DB, supplement *types.Supplement) (*types.Supplement, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	if err := transaction.WithContext(ctx).Create(supplement).Error; err != nil {
		return nil, err
	}
	return supplement, nil
}

func (sr *supplementRepo) GetByID(ctx context.Context, tx *gorm.DB, supplementID uuid.UUID) (*types.Supplement, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var result types.Supplement
	err := transaction.WithContext(ctx).
		Where("id = ?", supplementID).
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (sr *supplementRepo) List(ctx context.Context, tx *gorm.DB, limit int) ([]*types.Supplement, error) {
	return sr.listByStatus(ctx, tx, "", limit)
}

func (sr *supplementRepo) ListPublished(ctx context.Context, tx *gorm.DB, limit int) ([]*types.Supplement, error) {
	return sr.listByStatus(ctx, tx, types.SupplementStatusPublished, limit)
}

func (sr *supplementRepo) ListPending(ctx context.Context, tx *gorm.DB, limit int) ([]*types.Supplement, error) {
	return sr.listByStatus(ctx, tx, types.SupplementStatusPending, limit)
}

func (sr *supplementRepo) listByStatus(ctx context.Context, tx *gorm.DB, status string, limit int) ([]*types.Supplement, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	if limit <= 0 {
		limit = 100
	}
	query := transaction.WithContext(ctx).Model(&types.Supplement{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var results []*types.Supplement
	if err := query.Order("name").Limit(limit).Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (sr *supplementRepo) FindPublishedByNameBrand(ctx context.Context, tx *gorm.DB, name, brand string) (*types.Supplement, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var result types.Supplement
	err := transaction.WithContext(ctx).
		Where("status = ? AND LOWER(name) = LOWER(?) AND LOWER(brand) = LOWER(?)",
			types.SupplementStatusPublished, name, brand).
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (sr *supplementRepo) FindGenericPublishedByName(ctx context.Context, tx *gorm.DB, name string) (*types.Supplement, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var result types.Supplement
	err := transaction.WithContext(ctx).
		Where("status = ? AND LOWER(name) = LOWER(?) AND (brand IS NULL OR LOWER(brand) = ?)",
			types.SupplementStatusPublished, name, "generic").
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (sr *supplementRepo) Publish(ctx context.Context, tx *gorm.DB, supplementID, reviewerID uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	res := transaction.WithContext(ctx).
		Model(&types.Supplement{}).
		Where("id = ? AND status = ?", supplementID, types.SupplementStatusPending).
		Updates(map[string]any{
			"status":      types.SupplementStatusPublished,
			"reviewed_by": reviewerID,
			"updated_at":  time.Now().UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (sr *supplementRepo) Reject(ctx context.Context, tx *gorm.DB, supplementID, reviewerID uuid.UUID, notes *string) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	res := transaction.WithContext(ctx).
		Model(&types.Supplement{}).
		Where("id = ? AND status = ?", supplementID, types.SupplementStatusPending).
		Updates(map[string]any{
			"status":       types.SupplementStatusRejected,
			"reviewed_by":  reviewerID,
			"review_notes": notes,
			"updated_at":   time.Now().UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
