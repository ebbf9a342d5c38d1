// AngelaMos | 2026
// authz.go

package authz

const (
	RoleUser      = "user"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

// Principal is the authenticated actor behind a request. A nil Principal is
// an anonymous caller. Role is loaded live from the user store on every
// request, never from token claims.
type Principal struct {
	ID        string
	Username  string
	Role      string
	Superuser bool
}

func (p *Principal) IsAuthenticated() bool {
	return p != nil && p.ID != ""
}

// IsAdmin covers both the admin role and the superuser flag.
func (p *Principal) IsAdmin() bool {
	return p != nil && (p.Superuser || p.Role == RoleAdmin)
}

func (p *Principal) IsModerator() bool {
	return p != nil && p.Role == RoleModerator
}

// CanManageCatalog gates mutating actions on categories, genres and titles.
// Read-only actions are exposed without any check at the routing layer.
func CanManageCatalog(p *Principal) bool {
	return p.IsAdmin()
}

// CanManageUsers gates mutating actions on the user collection. The /users/me
// operations bypass this by scoping strictly to the caller's own record.
func CanManageUsers(p *Principal) bool {
	return p.IsAdmin()
}

// CanCreateContent gates creation of reviews and comments. Ownership is
// trivially satisfied: the new resource's author is the requester.
func CanCreateContent(p *Principal) bool {
	return p.IsAuthenticated()
}

// CanModifyContent decides whether p may update or delete a review or
// comment authored by authorID. Checks short-circuit in order: superuser,
// then role, then ownership. Safe (read-only) methods never reach this.
func CanModifyContent(p *Principal, authorID string) bool {
	if !p.IsAuthenticated() {
		return false
	}
	if p.Superuser {
		return true
	}
	if p.Role == RoleAdmin || p.Role == RoleModerator {
		return true
	}
	return p.ID == authorID
}
