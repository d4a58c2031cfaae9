package domain

import "testing"

func TestCanAct(t *testing.T) {
	tests := []struct {
		role     string
		required string
		want     bool
	}{
		{RoleSuperadmin, RoleSuperadmin, true},
		{RoleSuperadmin, RoleAdmin, true},
		{RoleSuperadmin, RoleVendor, true},
		{RoleSuperadmin, RoleAgent, false},
		{RoleAdmin, RoleAdmin, true},
		{RoleAdmin, RoleVendor, true},
		{RoleAdmin, RoleSuperadmin, false},
		{RoleVendor, RoleVendor, true},
		{RoleVendor, RoleAdmin, false},
		{RoleAgent, RoleAgent, true},
		{RoleAgent, RoleVendor, false},
		{RoleUser, RoleUser, false},
		{RoleUser, RoleVendor, false},
		{"", RoleVendor, false},
		{"overlord", RoleAdmin, false},
	}

	for _, tt := range tests {
		if got := CanAct(tt.role, tt.required); got != tt.want {
			t.Errorf("CanAct(%q, %q) = %v, want %v", tt.role, tt.required, got, tt.want)
		}
	}
}

func TestKnownRole(t *testing.T) {
	for _, role := range []string{RoleSuperadmin, RoleAdmin, RoleVendor, RoleAgent, RoleUser} {
		if !KnownRole(role) {
			t.Errorf("KnownRole(%q) = false", role)
		}
	}
	// Members authenticate through their own path, never via registration
	if KnownRole(RoleMember) {
		t.Error("member must not be assignable at registration")
	}
	if KnownRole("overlord") {
		t.Error("unknown role accepted")
	}
}
