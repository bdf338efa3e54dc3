package auth

import (
	"time"

	"github.com/gofrs/uuid"
)

// Role is a named staff capability. Users hold a set of roles instead of a
// single ambient staff flag, so the florist queue and courier tooling can be
// gated separately.
type Role string

const (
	RoleFlorist Role = "florist"
	RoleCourier Role = "courier"
	RoleAdmin   Role = "admin"
)

type User struct {
	ID           int64  `json:"id" db:"id"`
	Username     string `json:"username" db:"username"`
	PasswordHash string `json:"-" db:"password_hash"`
	Roles        []Role `json:"roles" db:"roles"`
}

// HasAnyRole reports whether the user holds at least one of the given roles.
func (u *User) HasAnyRole(roles ...Role) bool {
	for _, want := range roles {
		for _, have := range u.Roles {
			if have == want {
				return true
			}
		}
	}
	return false
}

type Session struct {
	Token     uuid.UUID `db:"token"`
	UserID    int64     `db:"user_id"`
	ExpiresAt time.Time `db:"expires_at"`
}
