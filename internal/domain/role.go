package domain

import (
	"errors"
	"fmt"
)

// ErrUnknownRole is returned when parsing a role string that is neither
// admin nor client.
var ErrUnknownRole = errors.New("unknown role")

// Role classifies an authenticated user for route guarding.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleClient Role = "client"
)

// Navigation destinations used by the route guard.
const (
	// LoginPath is where unauthenticated viewers are redirected.
	LoginPath = "/login"
	// AdminHomePath is the fallback destination for admin users.
	AdminHomePath = "/admin"
	// AccountHomePath is the fallback destination for non-admin users.
	AccountHomePath = "/account"
)

// ParseRole converts a string into a Role.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleClient:
		return RoleClient, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
	}
}

// Home returns the role-appropriate fallback destination used when a user is
// authenticated but not allowed to view a route.
func (r Role) Home() string {
	if r == RoleAdmin {
		return AdminHomePath
	}

	return AccountHomePath
}
