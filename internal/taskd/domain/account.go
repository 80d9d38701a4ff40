package domain

import (
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	MinNameLength     = 2
	MinPasswordLength = 6
)

type Account struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string // argon2 encoded
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// View strips the password hash.
func (a Account) View() AccountView {
	return AccountView{
		ID:        a.ID,
		Name:      a.Name,
		Email:     a.Email,
		Role:      a.Role,
		CreatedAt: a.CreatedAt,
	}
}

// Identity returns the principal a session token for a is issued to.
func (a Account) Identity() Identity {
	return Identity{AccountID: a.ID, Email: a.Email, Role: a.Role}
}

// AccountView is the sanitized account returned to callers.
type AccountView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// Identity is an authenticated principal, recovered from a session token.
type Identity struct {
	AccountID string
	Email     string
	Role      Role
}

func (i Identity) IsAdmin() bool { return i.Role == RoleAdmin }

// Registration is the input of account registration. Role is optional; ""
// means the caller did not ask for one.
type Registration struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// Validate checks the registration shape. It returns a map of field names to
// error messages, or nil if every field is valid.
func (r Registration) Validate() map[string]string {
	errs := make(map[string]string)

	switch {
	case strings.TrimSpace(r.Name) == "":
		errs["name"] = "required"
	case utf8.RuneCountInString(r.Name) < MinNameLength:
		errs["name"] = "too short (min 2)"
	}

	if r.Email == "" {
		errs["email"] = "required"
	} else if !validEmail(r.Email) {
		errs["email"] = "must be a valid email address"
	}

	switch {
	case r.Password == "":
		errs["password"] = "required"
	case utf8.RuneCountInString(r.Password) < MinPasswordLength:
		errs["password"] = "too short (min 6)"
	}

	if r.Role != "" {
		if _, err := ParseRole(r.Role); err != nil {
			errs["role"] = "must be one of USER, ADMIN"
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// RequestedRole returns the parsed role, or "" when none was asked for.
// Call Validate first.
func (r Registration) RequestedRole() Role {
	role, _ := ParseRole(r.Role)
	return role
}

// validEmail accepts a bare addr-spec; display names and angle brackets are
// rejected.
func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return false
	}
	_, domain, ok := strings.Cut(addr.Address, "@")
	return ok && strings.Contains(domain, ".")
}
