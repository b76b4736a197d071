package models

const (
	RoleUser  = "ROLE_USER"
	RoleAdmin = "ROLE_ADMIN"
)

// RolesFor returns the role set assigned at registration.
func RolesFor(isAdmin bool) []string {
	if isAdmin {
		return []string{RoleAdmin, RoleUser}
	}
	return []string{RoleUser}
}

// HasRole reports whether role appears in roles.
func HasRole(roles []string, role string) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
