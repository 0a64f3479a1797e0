package types

import (
	"time"

	"github.com/google/uuid"
)

// SupplementSchedule is the weekly recurrence for one user-supplement
// pairing. Identity is 1:1 with the pairing; replacing the weekday/time sets
// goes through a full overwrite, never a merge.
type SupplementSchedule struct {
	ID               uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserSupplementID uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex" json:"user_supplement_id"`
	IsActive         bool           `gorm:"column:is_active;not null;default:true" json:"is_active"`
	Days             []ScheduleDay  `gorm:"constraint:OnDelete:CASCADE;foreignKey:ScheduleID;references:ID" json:"days,omitempty"`
	Times            []ScheduleTime `gorm:"constraint:OnDelete:CASCADE;foreignKey:ScheduleID;references:ID" json:"times,omitempty"`
	CreatedAt        time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"not null" json:"updated_at"`
}

func (SupplementSchedule) TableName() string { return "supplement_schedule" }

// ScheduleDay holds one active weekday, 0=Sunday through 6=Saturday.
type ScheduleDay struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ScheduleID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_schedule_day" json:"schedule_id"`
	DayOfWeek  int       `gorm:"column:day_of_week;not null;uniqueIndex:idx_schedule_day" json:"day_of_week"`
}

func (ScheduleDay) TableName() string { return "schedule_day" }

// ScheduleTime holds one time-of-day slot in 24-hour "HH:MM" form with an
// optional user label.
type ScheduleTime struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ScheduleID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_schedule_time" json:"schedule_id"`
	TimeOfDay  string    `gorm:"column:time_of_day;not null;uniqueIndex:idx_schedule_time" json:"time"`
	Label      *string   `gorm:"column:label" json:"label,omitempty"`
}

func (ScheduleTime) TableName() string { return "schedule_time" }
