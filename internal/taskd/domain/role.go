package domain

import (
	"errors"
	"fmt"
)

// Role is the closed set of account roles.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

var ErrInvalidRole = errors.New("domain: invalid role")

// ParseRole accepts exactly "USER" or "ADMIN".
func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleUser, RoleAdmin:
		return r, nil
	default:
		return "", fmt.Errorf("%w %q", ErrInvalidRole, s)
	}
}

func (r Role) String() string { return string(r) }
