package model

// RoleHolder is anything that carries a role, e.g. a stored User or the
// Identity bound to the current request.
type RoleHolder interface {
	RoleName() Role
}

// Identity is the authenticated user of a single request.
type Identity struct {
	UserID int64
	Email  string
	Name   string
	Role   Role
}

// NewIdentity builds the request identity from a stored user
func NewIdentity(u User) Identity {
	return Identity{
		UserID: u.ID,
		Email:  u.Email,
		Name:   u.Name,
		Role:   u.Role,
	}
}

// RoleName implements RoleHolder
func (i Identity) RoleName() Role {
	return i.Role
}

// HasRole reports whether h holds role r. A nil holder has no role.
func HasRole(h RoleHolder, r Role) bool {
	if h == nil {
		return false
	}
	return h.RoleName() == r
}

// IsAdmin reports whether h holds the admin role
func IsAdmin(h RoleHolder) bool {
	return HasRole(h, RoleAdmin)
}
