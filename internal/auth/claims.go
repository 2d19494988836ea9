package auth

import "clubhouse/internal/constants"

// UserClaims is the authenticated identity carried by a request.
type UserClaims interface {
	UserID() uint
	Username() string
	Role() constants.Role
	SessionID() string
	IsAdmin() bool
}

// SessionClaims are built from a stored session on every request
type SessionClaims struct {
	UserIDValue   uint
	UsernameValue string
	RoleValue     constants.Role
	SessionIDVal  string
}

func (c *SessionClaims) UserID() uint         { return c.UserIDValue }
func (c *SessionClaims) Username() string     { return c.UsernameValue }
func (c *SessionClaims) Role() constants.Role { return c.RoleValue }
func (c *SessionClaims) SessionID() string    { return c.SessionIDVal }
func (c *SessionClaims) IsAdmin() bool        { return c.RoleValue == constants.RoleAdmin }
