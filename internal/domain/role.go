// Package domain defines the bistro's core types and Mongo-backed repositories.
package domain

import "fmt"

// Role enumerates the access levels a user record can carry.
type Role string

const (
	// RoleUser is the default role assigned on first sign-in.
	RoleUser Role = "user"
	// RoleAdmin grants access to management endpoints.
	RoleAdmin Role = "admin"
)

// ParseRole validates a stored role string against the known set.
func ParseRole(value string) (Role, error) {
	switch Role(value) {
	case RoleUser:
		return RoleUser, nil
	case RoleAdmin:
		return RoleAdmin, nil
	default:
		return "", fmt.Errorf("unknown role %q", value)
	}
}

// IsAdmin reports whether the role grants access to admin-gated endpoints.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}
