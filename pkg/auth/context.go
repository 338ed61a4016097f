package auth

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// GetCallerIDFromContext extracts the caller's subject id from JWT claims
// in the context. Returns empty string if not authenticated.
func GetCallerIDFromContext(ctx context.Context) string {
	claims, ok := GetClaims(ctx)
	if !ok || claims == nil {
		return ""
	}
	return claims.Subject
}

// GetCallerRoleFromContext extracts the caller's role from JWT claims in
// the context. Returns empty string if not authenticated.
func GetCallerRoleFromContext(ctx context.Context) string {
	claims, ok := GetClaims(ctx)
	if !ok || claims == nil {
		return ""
	}
	return claims.Role
}

// RequireCallerUUIDFromContext extracts the caller id from context as a
// UUID and returns an error if it is missing or malformed. Use this when
// the caller identity is required for the operation.
func RequireCallerUUIDFromContext(ctx context.Context) (uuid.UUID, error) {
	callerID := GetCallerIDFromContext(ctx)
	if callerID == "" {
		return uuid.Nil, fmt.Errorf("authentication required: no claims in context")
	}

	id, err := uuid.Parse(callerID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid caller id format: %w", err)
	}

	return id, nil
}
