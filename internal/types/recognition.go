package types

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// RecognizedProduct is one candidate description returned by the image
// classifier. The classifier is untrusted and best-effort; everything beyond
// the name is optional.
type RecognizedProduct struct {
	Name        string         `json:"name"`
	Brand       *string        `json:"brand,omitempty"`
	Form        *string        `json:"form,omitempty"`
	ServingSize *string        `json:"serving_size,omitempty"`
	ServingUnit *string        `json:"serving_unit,omitempty"`
	PerServing  datatypes.JSON `json:"per_serving,omitempty"`
}

const (
	ResolutionMatch             = "match"
	ResolutionGenericSuggestion = "generic_suggestion"
	ResolutionPending           = "pending"
	ResolutionNoMatch           = "no_match"
)

// Resolution is the outcome of matching a recognized product against the
// catalog.
type Resolution struct {
	Status       string            `json:"status"`
	Match        *Supplement       `json:"match,omitempty"`
	Generic      *Supplement       `json:"generic,omitempty"`
	Score        float64           `json:"score,omitempty"`
	SupplementID *uuid.UUID        `json:"supplement_id,omitempty"`
	Product      RecognizedProduct `json:"product"`
}
