// Package access decides whether a session may perform an action that requires a
// given privilege level. It holds no state and performs no I/O.
package access

import (
	"context"
	"time"

	"pxltravel/shared/constant"
	"pxltravel/shared/failure"
)

// Role is the privilege of a user record. Roles are totally ordered:
// RoleRegular < RoleAdmin < RoleSuperAdmin.
type Role string

const (
	RoleRegular    Role = "regular"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
)

// Level is the privilege an action requires.
type Level string

const (
	LevelAuthenticated Level = "authenticated"
	LevelAdmin         Level = "admin"
	LevelSuperAdmin    Level = "super_admin"
)

const (
	MessageUnauthenticated = "authentication required"
	MessageSessionExpired  = "session has expired"
	MessageForbidden       = "you don't have the required role for this action"
)

var roleRank = map[Role]int{
	RoleRegular:    0,
	RoleAdmin:      1,
	RoleSuperAdmin: 2,
}

var levelMinimum = map[Level]Role{
	LevelAuthenticated: RoleRegular,
	LevelAdmin:         RoleAdmin,
	LevelSuperAdmin:    RoleSuperAdmin,
}

// ParseRole maps a stored role name onto a Role. Unknown names grant nothing beyond RoleRegular.
func ParseRole(name string) Role {
	role := Role(name)
	if _, ok := roleRank[role]; ok {
		return role
	}

	return RoleRegular
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	_, ok := roleRank[r]

	return ok
}

// AtLeast reports whether r ranks at or above other.
func (r Role) AtLeast(other Role) bool {
	return roleRank[ParseRole(string(r))] >= roleRank[ParseRole(string(other))]
}

// Valid reports whether l is one of the known levels.
func (l Level) Valid() bool {
	_, ok := levelMinimum[l]

	return ok
}

// Session is the authenticated state the guard evaluates. A nil *Session means no one is signed in.
type Session struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	TokenID   string    `json:"token_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Active reports whether the session identifies a user and has not expired at the given instant.
func (s *Session) Active(at time.Time) bool {
	return s != nil && s.UserID != constant.Empty && at.Before(s.ExpiresAt)
}

// Authorize returns nil when session satisfies required, otherwise a 401 failure for a missing
// or expired session and a 403 failure for an insufficient role.
func Authorize(session *Session, required Level) error {
	return AuthorizeAt(session, required, time.Now())
}

// AuthorizeAt is Authorize evaluated at a fixed instant.
func AuthorizeAt(session *Session, required Level, at time.Time) error {
	if session == nil || session.UserID == constant.Empty {
		return failure.Unauthorized(MessageUnauthenticated) // nolint:wrapcheck
	}

	if !session.Active(at) {
		return failure.Unauthorized(MessageSessionExpired) // nolint:wrapcheck
	}

	minimum, ok := levelMinimum[required]
	if !ok {
		return failure.Forbidden(MessageForbidden) // nolint:wrapcheck
	}

	if !session.Role.AtLeast(minimum) {
		return failure.Forbidden(MessageForbidden) // nolint:wrapcheck
	}

	return nil
}

// WithSession stores the session in ctx.
func WithSession(ctx context.Context, session *Session) context.Context {
	return context.WithValue(ctx, constant.ContextKeySession, session)
}

// FromContext returns the session stored by WithSession, or nil.
func FromContext(ctx context.Context) *Session {
	session, _ := ctx.Value(constant.ContextKeySession).(*Session)

	return session
}

// Actor returns the identifier recorded in created_by and modified_by columns.
func Actor(session *Session) string {
	if session == nil || session.UserID == constant.Empty {
		return constant.ContextGuest
	}

	return session.UserID
}
