package types

import (
	"time"

	"github.com/google/uuid"
)

// DoseSlot is derived, never persisted: the projection of one scheduled
// time-of-day for one user-supplement on a fixed date, reconciled against the
// dose log. Identity for a date is (UserSupplementID, ScheduledTime).
type DoseSlot struct {
	ID               string     `json:"id"`
	UserSupplementID uuid.UUID  `json:"user_supplement_id"`
	SupplementID     uuid.UUID  `json:"supplement_id"`
	SupplementName   string     `json:"supplement_name"`
	SupplementBrand  *string    `json:"supplement_brand,omitempty"`
	ScheduledTime    string     `json:"scheduled_time"`
	TimeLabel        string     `json:"time_label"`
	Taken            bool       `json:"taken"`
	TakenAt          *time.Time `json:"taken_at,omitempty"`
	LogID            *uuid.UUID `json:"log_id,omitempty"`
}

type WeeklyDay struct {
	Day   string `json:"day"`
	Date  string `json:"date"`
	Taken int    `json:"taken"`
	Total int    `json:"total"`
}

type DashboardStats struct {
	Taken             int `json:"taken"`
	Total             int `json:"total"`
	Streak            int `json:"streak"`
	WeeklyConsistency int `json:"weekly_consistency"`
}

type DashboardData struct {
	Stats      DashboardStats `json:"stats"`
	WeeklyData []WeeklyDay    `json:"weekly_data"`
	Doses      []DoseSlot     `json:"doses"`
}

type StreakSummary struct {
	CurrentStreak     int `json:"current_streak"`
	LongestStreak     int `json:"longest_streak"`
	WeeklyConsistency int `json:"weekly_consistency"`
}

type DoseLogReceipt struct {
	LogID   uuid.UUID `json:"log_id"`
	TakenAt time.Time `json:"taken_at"`
}
