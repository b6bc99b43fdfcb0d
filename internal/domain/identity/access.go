package identity

// EffectivePermissions resolves the full permission set of a user.
// Explicitly assigned roles win; a user with no assigned roles falls
// back to the defaults implied by their account role.
func EffectivePermissions(user *User, assignedRoles []*Role) []Permission {
	if len(assignedRoles) > 0 {
		seen := make(map[Permission]struct{})
		out := make([]Permission, 0)
		for _, role := range assignedRoles {
			for _, p := range role.Permissions {
				if _, ok := seen[p]; ok {
					continue
				}
				seen[p] = struct{}{}
				out = append(out, p)
			}
		}
		return out
	}
	defaults := DefaultRolePermissions[user.Role]
	out := make([]Permission, len(defaults))
	copy(out, defaults)
	return out
}

// HasPermission reports whether the user holds the given permission,
// either directly or via the manage action on the same resource.
// Admin accounts always pass.
func HasPermission(user *User, assignedRoles []*Role, required Permission) bool {
	if user.Role == AccountRoleAdmin {
		return true
	}
	manage := NewPermission(required.Resource(), ActionManage)
	for _, p := range EffectivePermissions(user, assignedRoles) {
		if p == required || p == manage {
			return true
		}
	}
	return false
}
