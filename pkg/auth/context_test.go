package auth

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestGetCallerIDFromContext(t *testing.T) {
	claims := &Claims{}
	claims.Subject = "user-123"
	ctx := context.WithValue(context.Background(), ClaimsKey, claims)

	if got := GetCallerIDFromContext(ctx); got != "user-123" {
		t.Errorf("expected 'user-123', got %q", got)
	}
}

func TestGetCallerIDFromContext_NoClaims(t *testing.T) {
	if got := GetCallerIDFromContext(context.Background()); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}

func TestGetCallerRoleFromContext(t *testing.T) {
	ctx := context.WithValue(context.Background(), ClaimsKey, &Claims{Role: "legal"})

	if got := GetCallerRoleFromContext(ctx); got != "legal" {
		t.Errorf("expected 'legal', got %q", got)
	}
}

func TestRequireCallerUUIDFromContext(t *testing.T) {
	id := uuid.New()
	claims := &Claims{}
	claims.Subject = id.String()
	ctx := context.WithValue(context.Background(), ClaimsKey, claims)

	got, err := RequireCallerUUIDFromContext(ctx)
	if err != nil {
		t.Fatalf("RequireCallerUUIDFromContext failed: %v", err)
	}
	if got != id {
		t.Errorf("expected %s, got %s", id, got)
	}
}

func TestRequireCallerUUIDFromContext_Missing(t *testing.T) {
	if _, err := RequireCallerUUIDFromContext(context.Background()); err == nil {
		t.Fatal("expected error for missing claims")
	}
}

func TestRequireCallerUUIDFromContext_NotAUUID(t *testing.T) {
	claims := &Claims{}
	claims.Subject = "not-a-uuid"
	ctx := context.WithValue(context.Background(), ClaimsKey, claims)

	if _, err := RequireCallerUUIDFromContext(ctx); err == nil {
		t.Fatal("expected error for malformed subject")
	}
}
