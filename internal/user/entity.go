// AngelaMos | 2026
// entity.go

package user

import (
	"time"

	"github.com/angelamos/reviewdeck/internal/authz"
)

type User struct {
	ID               string    `db:"id"`
	Username         string    `db:"username"`
	Email            string    `db:"email"`
	FirstName        string    `db:"first_name"`
	LastName         string    `db:"last_name"`
	Bio              string    `db:"bio"`
	Role             string    `db:"role"`
	IsSuperuser      bool      `db:"is_superuser"`
	ConfirmationCode string    `db:"confirmation_code"`
	CreatedAt        time.Time `db:"created_at"`
	UpdatedAt        time.Time `db:"updated_at"`
}

// IsAdmin is true for the admin role or the superuser flag.
func (u *User) IsAdmin() bool {
	return u.IsSuperuser || u.Role == authz.RoleAdmin
}

// IsModerator is true only for the moderator role; superusers and admins are
// covered by IsAdmin.
func (u *User) IsModerator() bool {
	return u.Role == authz.RoleModerator
}

func (u *User) Principal() *authz.Principal {
	return &authz.Principal{
		ID:        u.ID,
		Username:  u.Username,
		Role:      u.Role,
		Superuser: u.IsSuperuser,
	}
}
