package types

import "github.com/google/uuid"

type ScheduleTimeInput struct {
	Time  string  `json:"time"`
	Label *string `json:"label,omitempty"`
}

type ScheduleInput struct {
	Days  []int               `json:"days"`
	Times []ScheduleTimeInput `json:"times"`
}

// ScheduleView is the read shape handed to API callers: flattened weekday and
// time sets for one user-supplement pairing.
type ScheduleView struct {
	ID               uuid.UUID           `json:"id"`
	UserSupplementID uuid.UUID           `json:"user_supplement_id"`
	SupplementID     uuid.UUID           `json:"supplement_id"`
	IsActive         bool                `json:"is_active"`
	Days             []int               `json:"days"`
	Times            []ScheduleTimeInput `json:"times"`
}
