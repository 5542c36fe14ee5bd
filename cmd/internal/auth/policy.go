package auth

import "sharpcut/cmd/internal/domain/entity"

// CanAccess decides whether a user may operate on a resource owned by
// ownerID. Owners and admins are allowed; everyone else is denied.
func CanAccess(user *entity.User, ownerID int) bool {
	return user.ID == ownerID || user.Role == entity.RoleAdmin
}

// RequireRole reports whether the user holds one of the allowed roles.
func RequireRole(user *entity.User, roles ...string) bool {
	for _, role := range roles {
		if user.Role == role {
			return true
		}
	}
	return false
}

// RequireEmailConfirmed gates flows that need a confirmed email address.
func RequireEmailConfirmed(user *entity.User) bool {
	return user.EmailConfirmed
}
