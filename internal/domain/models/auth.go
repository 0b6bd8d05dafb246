package models

import "github.com/golang-jwt/jwt/v5"

// Role is the global role carried by an actor. Only RoleAdmin is special to
// the permission evaluator (blanket allow); the remaining roles gate who may
// issue structural mutations at all.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleReviewer Role = "reviewer"
	RoleUploader Role = "uploader"
	RoleViewer   Role = "viewer"
)

// CanMutate reports whether the role may issue structural mutations
// (create, rename, move, delete). Viewers are read-only.
func (r Role) CanMutate() bool {
	switch r {
	case RoleAdmin, RoleReviewer, RoleUploader:
		return true
	}
	return false
}

// Actor is the identity on whose behalf an operation is evaluated. It is an
// explicit value passed into every engine call; there is no ambient
// current-user state.
type Actor struct {
	ID   string `json:"id"`
	Role Role   `json:"role"`
}

// IsAdmin reports whether the actor holds the global administrator role.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// Claims is the JWT claims structure the auth boundary verifies. The subject
// is the actor id; the role claim carries the global role.
type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// Actor converts verified claims into the engine's actor value.
func (c *Claims) Actor() Actor {
	return Actor{ID: c.Subject, Role: Role(c.Role)}
}
