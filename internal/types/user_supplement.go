package types

import (
	"time"

	"github.com/google/uuid"
)

const (
	RelationAdded     = "added"
	RelationUses      = "uses"
	RelationFavorite  = "favorite"
	RelationSubmitted = "submitted"
)

// UserSupplement links a user to a catalog entry. The (user, supplement,
// relation) triple is unique; "uses" rows are the ones the scheduling engine
// selects from.
type UserSupplement struct {
	ID           uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_user_supplement_relation" json:"user_id"`
	SupplementID uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_user_supplement_relation" json:"supplement_id"`
	Relation     string      `gorm:"column:relation;not null;uniqueIndex:idx_user_supplement_relation" json:"relation"`
	Supplement   *Supplement `gorm:"constraint:OnDelete:CASCADE;foreignKey:SupplementID;references:ID" json:"supplement,omitempty"`
	CreatedAt    time.Time   `gorm:"not null" json:"created_at"`
}

func (UserSupplement) TableName() string { return "user_supplement" }
