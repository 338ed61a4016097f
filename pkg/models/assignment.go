package models

import (
	"time"

	"github.com/google/uuid"
)

// Category is the professional service category a victim can be routed to.
type Category string

const (
	CategoryCounsellor Category = "counsellor"
	CategoryLegal      Category = "legal"
)

// ValidCategories contains all routable categories.
var ValidCategories = []Category{CategoryCounsellor, CategoryLegal}

// IsValidCategory checks if the given category is routable.
func IsValidCategory(c Category) bool {
	for _, v := range ValidCategories {
		if v == c {
			return true
		}
	}
	return false
}

// Assignment is the stable pairing between a victim and a professional.
// At most one assignment exists per (victim, category); the pair is the
// natural key and is enforced by a unique constraint.
type Assignment struct {
	ID                     uuid.UUID  `json:"id"`
	VictimID               uuid.UUID  `json:"victimId"`
	AssignedProfessionalID uuid.UUID  `json:"assignedProfessionalId"`
	Category               Category   `json:"category"`
	IntakeSummary          string     `json:"intakeSummary"`
	AssignedAt             time.Time  `json:"assignedAt"`
	IsFirstContact         bool       `json:"isFirstContact"`
	TransferOrigin         *uuid.UUID `json:"transferOrigin,omitempty"`
	TransferReason         *string    `json:"transferReason,omitempty"`
	TransferredAt          *time.Time `json:"transferredAt,omitempty"`
}

// TransferEvent is one entry in the append-only transfer log. The
// assignment row keeps only the most recent transfer; the log keeps all
// of them for audit.
type TransferEvent struct {
	ID                 string    `json:"id"` // ULID, lexicographically time-ordered
	VictimID           uuid.UUID `json:"victimId"`
	Category           Category  `json:"category"`
	FromProfessionalID uuid.UUID `json:"fromProfessionalId"`
	ToProfessionalID   uuid.UUID `json:"toProfessionalId"`
	Reason             string    `json:"reason"`
	OccurredAt         time.Time `json:"occurredAt"`
}
