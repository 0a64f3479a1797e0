package types

import (
	"time"

	"github.com/google/uuid"
)

// UserStats is recomputed in full after every dose log mutation, never
// maintained incrementally.
type UserStats struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	CurrentStreak int       `gorm:"column:current_streak;not null;default:0" json:"current_streak"`
	LongestStreak int       `gorm:"column:longest_streak;not null;default:0" json:"longest_streak"`
	UpdatedAt     time.Time `gorm:"not null" json:"updated_at"`
}

func (UserStats) TableName() string { return "user_stats" }
