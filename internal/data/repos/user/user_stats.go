package user

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stackcare/stackcare-backend/internal/pkg/logger"
	"github.com/stackcare/stackcare-backend/internal/types"
)

type UserStatsRepo interface {
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.UserStats, error)
	// Upsert writes currentStreak and raises longest_streak when the new
	// current exceeds it.
	Upsert(ctx context.Context, tx *gorm.DB, userID uuid.UUID, currentStreak int) (*types.UserStats, error)
}

type userStatsRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserStatsRepo(db *gorm.DB, baseLog *logger.Logger) UserStatsRepo {
	return &userStatsRepo{db: db, log: baseLog.With("repo", "UserStatsRepo")}
}

func (sr *userStatsRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.UserStats, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var result types.UserStats
	err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (sr *userStatsRepo) Upsert(ctx context.Context, tx *gorm.DB, userID uuid.UUID, currentStreak int) (*types.UserStats, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	existing, err := sr.GetByUserID(ctx, transaction, userID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		created := &types.UserStats{
			ID:            uuid.New(),
			UserID:        userID,
			CurrentStreak: currentStreak,
			LongestStreak: currentStreak,
			UpdatedAt:     time.Now().UTC(),
		}
		if err := transaction.WithContext(ctx).Create(created).Error; err != nil {
			return nil, err
		}
		return created, nil
	}

	longest := existing.LongestStreak
	if currentStreak > longest {
		longest = currentStreak
	}
	if err := transaction.WithContext(ctx).
		Model(&types.UserStats{}).
		Where("user_id = ?", userID).
		Updates(map[string]any{
			"current_streak": currentStreak,
			"longest_streak": longest,
			"updated_at":     time.Now().UTC(),
		}).Error; err != nil {
		return nil, err
	}
	existing.CurrentStreak = currentStreak
	existing.LongestStreak = longest
	return existing, nil
}
