package models

import "testing"

func TestIsValidCategory(t *testing.T) {
	tests := []struct {
		category Category
		want     bool
	}{
		{CategoryCounsellor, true},
		{CategoryLegal, true},
		{Category(""), false},
		{Category("therapist"), false},
		{Category("Counsellor"), false},
	}

	for _, tt := range tests {
		if got := IsValidCategory(tt.category); got != tt.want {
			t.Errorf("IsValidCategory(%q) = %v, want %v", tt.category, got, tt.want)
		}
	}
}

func TestIsProfessionalRole(t *testing.T) {
	tests := []struct {
		role string
		want bool
	}{
		{RoleCounsellor, true},
		{RoleLegal, true},
		{RoleVictim, false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsProfessionalRole(tt.role); got != tt.want {
			t.Errorf("IsProfessionalRole(%q) = %v, want %v", tt.role, got, tt.want)
		}
	}
}
