package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	SupplementStatusPending   = "pending"
	SupplementStatusPublished = "published"
	SupplementStatusRejected  = "rejected"
)

type Supplement struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string         `gorm:"column:name;not null;index" json:"name"`
	Brand       *string        `gorm:"column:brand;index" json:"brand,omitempty"`
	Form        *string        `gorm:"column:form" json:"form,omitempty"`
	ServingSize *string        `gorm:"column:serving_size" json:"serving_size,omitempty"`
	ServingUnit *string        `gorm:"column:serving_unit" json:"serving_unit,omitempty"`
	PerServing  datatypes.JSON `gorm:"column:per_serving;type:jsonb" json:"per_serving,omitempty"`
	Status      string         `gorm:"column:status;not null;index" json:"status"`
	CreatedBy   *uuid.UUID     `gorm:"type:uuid;column:created_by" json:"created_by,omitempty"`
	ReviewedBy  *uuid.UUID     `gorm:"type:uuid;column:reviewed_by" json:"reviewed_by,omitempty"`
	ReviewNotes *string        `gorm:"column:review_notes" json:"review_notes,omitempty"`
	CreatedAt   time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null" json:"updated_at"`
}

func (Supplement) TableName() string { return "supplement" }
