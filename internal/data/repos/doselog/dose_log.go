package doselog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stackcare/stackcare-backend/internal/pkg/logger"
	"github.com/stackcare/stackcare-backend/internal/types"
)

type DoseLogRepo interface {
	Create(ctx context.Context, tx *gorm.DB, log *types.DoseLog) (*types.DoseLog, error)
	GetByID(ctx context.Context, tx *gorm.DB, logID uuid.UUID) (*types.DoseLog, error)
	// FindEffective returns the most recent non-skipped log for the slot on
	// the given day, or nil. Duplicates should not exist under the
	// idempotency rule but are tolerated.
	FindEffective(ctx context.Context, tx *gorm.DB, userSupplementID uuid.UUID, scheduledTime string, dayStart, dayEnd time.Time) (*types.DoseLog, error)
	// ListForUserOnDay returns every non-skipped log for the user whose
	// taken_at falls inside [dayStart, dayEnd), most recent first.
	ListForUserOnDay(ctx context.Context, tx *gorm.DB, userID uuid.UUID, dayStart, dayEnd time.Time) ([]*types.DoseLog, error)
	CountForUserOnDay(ctx context.Context, tx *gorm.DB, userID uuid.UUID, dayStart, dayEnd time.Time) (int, error)
	Delete(ctx context.Context, tx *gorm.DB, logID uuid.UUID) (bool, error)
	DeleteByUserSupplementID(ctx context.Context, tx *gorm.DB, userSupplementID uuid.UUID) error
}

type doseLogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDoseLogRepo(db *gorm.DB, baseLog *logger.Logger) DoseLogRepo {
	return &doseLogRepo{db: db, log: baseLog.With("repo", "DoseLogRepo")}
}

func (dr *doseLogRepo) Create(ctx context.Context, tx *gorm.DB, log *types.DoseLog) (*types.DoseLog, error) {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}
	if err := transaction.WithContext(ctx).Create(log).Error; err != nil {
		return nil, err
	}
	return log, nil
}

func (dr *doseLogRepo) GetByID(ctx context.Context, tx *gorm.DB, logID uuid.UUID) (*types.DoseLog, error) {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}
	var results []*types.DoseLog
	if err := transaction.WithContext(ctx).
		Where("id = ?", logID).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (dr *doseLogRepo) FindEffective(ctx context.Context, tx *gorm.DB, userSupplementID uuid.UUID, scheduledTime string, dayStart, dayEnd time.Time) (*types.DoseLog, error) {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}
	var results []*types.DoseLog
	if err := transaction.WithContext(ctx).
		Where("user_supplement_id = ? AND scheduled_time = ? AND skipped = ? AND taken_at >= ? AND taken_at < ?",
			userSupplementID, scheduledTime, false, dayStart, dayEnd).
		Order("taken_at DESC").
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (dr *doseLogRepo) ListForUserOnDay(ctx context.Context, tx *gorm.DB, userID uuid.UUID, dayStart, dayEnd time.Time) ([]*types.DoseLog, error) {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}
	var results []*types.DoseLog
	if err := transaction.WithContext(ctx).
		Table("dose_log AS dl").
		Select("dl.*").
		Joins("JOIN user_supplement us ON us.id = dl.user_supplement_id").
		Where("us.user_id = ? AND dl.skipped = ? AND dl.taken_at >= ? AND dl.taken_at < ?",
			userID, false, dayStart, dayEnd).
		Order("dl.taken_at DESC").
		Scan(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (dr *doseLogRepo) CountForUserOnDay(ctx context.Context, tx *gorm.DB, userID uuid.UUID, dayStart, dayEnd time.Time) (int, error) {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Table("dose_log AS dl").
		Joins("JOIN user_supplement us ON us.id = dl.user_supplement_id").
		Where("us.user_id = ? AND dl.skipped = ? AND dl.taken_at >= ? AND dl.taken_at < ?",
			userID, false, dayStart, dayEnd).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}

func (dr *doseLogRepo) Delete(ctx context.Context, tx *gorm.DB, logID uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}
	res := transaction.WithContext(ctx).
		Where("id = ?", logID).
		Delete(&types.DoseLog{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (dr *doseLogRepo) DeleteByUserSupplementID(ctx context.Context, tx *gorm.DB, userSupplementID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}
	return transaction.WithContext(ctx).
		Where("user_supplement_id = ?", userSupplementID).
		Delete(&types.DoseLog{}).Error
}
