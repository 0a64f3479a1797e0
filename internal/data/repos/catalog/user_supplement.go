package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/stackcare/stackcare-backend/internal/pkg/logger"
	"github.com/stackcare/stackcare-backend/internal/types"
)

type UserSupplementRepo interface {
	// Link upserts the (user, supplement, relation) row; a duplicate link is
	// a no-op, not an error.
	Link(ctx context.Context, tx *gorm.DB, userID, supplementID uuid.UUID, relation string) error
	GetOwned(ctx context.Context, tx *gorm.DB, userSupplementID, userID uuid.UUID) (*types.UserSupplement, error)
	GetByUserAndSupplement(ctx context.Context, tx *gorm.DB, userID, supplementID uuid.UUID, relation string) (*types.UserSupplement, error)
	ListUses(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.UserSupplement, error)
	Delete(ctx context.Context, tx *gorm.DB, userSupplementID uuid.UUID) error
	// ReclassifySubmittedToUses flips every "submitted" link for a supplement
	// to "uses"; runs when a pending entry is published.
	ReclassifySubmittedToUses(ctx context.Context, tx *gorm.DB, supplementID uuid.UUID) (int64, error)
}

type userSupplementRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserSupplementRepo(db *gorm.DB, baseLog *logger.Logger) UserSupplementRepo {
	return &userSupplementRepo{db: db, log: baseLog.With("repo", "UserSupplementRepo")}
}

func (ur *userSupplementRepo) Link(ctx context.Context, tx *gorm.DB, userID, supplementID uuid.UUID, relation string) error {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}
	row := &types.UserSupplement{
		ID:           uuid.New(),
		UserID:       userID,
		SupplementID: supplementID,
		Relation:     relation,
	}
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "supplement_id"}, {Name: "relation"}},
			DoNothing: true,
		}).
		Create(row).Error
}

func (ur *userSupplementRepo) GetOwned(ctx context.Context, tx *gorm.DB, userSupplementID, userID uuid.UUID) (*types.UserSupplement, error) {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}
	var result types.UserSupplement
	err := transaction.WithContext(ctx).
		Where("id = ? AND user_id = ?", userSupplementID, userID).
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (ur *userSupplementRepo) GetByUserAndSupplement(ctx context.Context, tx *gorm.DB, userID, supplementID uuid.UUID, relation string) (*types.UserSupplement, error) {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}
	var result types.UserSupplement
	err := transaction.WithContext(ctx).
		Where("user_id = ? AND supplement_id = ? AND relation = ?", userID, supplementID, relation).
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (ur *userSupplementRepo) ListUses(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.UserSupplement, error) {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}
	var results []*types.UserSupplement
	if err := transaction.WithContext(ctx).
		Preload("Supplement").
		Where("user_id = ? AND relation = ?", userID, types.RelationUses).
		Order("created_at").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ur *userSupplementRepo) Delete(ctx context.Context, tx *gorm.DB, userSupplementID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", userSupplementID).
		Delete(&types.UserSupplement{}).Error
}

func (ur *userSupplementRepo) ReclassifySubmittedToUses(ctx context.Context, tx *gorm.DB, supplementID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}
	res := transaction.WithContext(ctx).
		Model(&types.UserSupplement{}).
		Where("supplement_id = ? AND relation = ?", supplementID, types.RelationSubmitted).
		Update("relation", types.RelationUses)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
