package types

import (
	"time"

	"github.com/google/uuid"
)

// DoseLog records one "dose taken" event against a scheduled slot. Logs are
// created by mark-taken and deleted by unmark, never updated in place.
type DoseLog struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserSupplementID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_supplement_id"`
	ScheduledTime    string    `gorm:"column:scheduled_time;not null" json:"scheduled_time"`
	TakenAt          time.Time `gorm:"column:taken_at;not null;index" json:"taken_at"`
	Skipped          bool      `gorm:"column:skipped;not null;default:false" json:"skipped"`
}

func (DoseLog) TableName() string { return "dose_log" }
