package domain

// Roles
const (
	RoleSuperadmin = "superadmin"
	RoleAdmin      = "admin"
	RoleVendor     = "vendor"
	RoleAgent      = "agent"
	RoleUser       = "user"
	RoleMember     = "member"
)

// roleHierarchy maps a role to the set of required roles it may act as.
// Authorization decisions go through CanAct so the table stays the single
// source of truth.
var roleHierarchy = map[string][]string{
	RoleSuperadmin: {RoleSuperadmin, RoleAdmin, RoleVendor},
	RoleAdmin:      {RoleAdmin, RoleVendor},
	RoleVendor:     {RoleVendor},
	RoleAgent:      {RoleAgent},
}

// CanAct reports whether a principal holding `role` satisfies `required`.
func CanAct(role, required string) bool {
	for _, r := range roleHierarchy[role] {
		if r == required {
			return true
		}
	}
	return false
}

// KnownRole reports whether the role name exists in the identity space.
func KnownRole(role string) bool {
	switch role {
	case RoleSuperadmin, RoleAdmin, RoleVendor, RoleAgent, RoleUser:
		return true
	}
	return false
}
