package models

import "github.com/google/uuid"

// Professional is a counsellor or legal advisor, owned by the directory
// service. The engine never writes professionals; it only routes victims
// to them.
type Professional struct {
	ID          uuid.UUID `json:"id"`
	DisplayName string    `json:"displayName"`
	Category    Category  `json:"category"`
	Email       string    `json:"email"`
}

// User is the directory's view of any account (victim or professional).
type User struct {
	ID          uuid.UUID `json:"id"`
	DisplayName string    `json:"displayName"`
	Email       string    `json:"email"`
}

// Caller roles issued by the identity provider.
const (
	RoleVictim     = "victim"
	RoleCounsellor = "counsellor"
	RoleLegal      = "legal"
)

// IsProfessionalRole reports whether the role may hold a caseload.
func IsProfessionalRole(role string) bool {
	return role == RoleCounsellor || role == RoleLegal
}
