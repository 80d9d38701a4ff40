package taskdsdk

import (
	"time"

	"github.com/aussiebroadwan/taskd/pkg/jwtx"
)

// Roles understood by the server.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// ErrorResponse is the JSON body of every error.
type ErrorResponse struct {
	Error            string            `json:"error" example:"validation_error"`
	ErrorDescription string            `json:"error_description" example:"validation failed"`
	Details          map[string]string `json:"details,omitempty"`
}

// RegisterRequest is the body of POST /v1/auth/register.
type RegisterRequest struct {
	Name     string `json:"name" example:"Ada Lovelace"`
	Email    string `json:"email" example:"ada@example.com"`
	Password string `json:"password" example:"s3cret!"`

	// Role is optional; only an ADMIN session may ask for anything but USER.
	Role string `json:"role,omitempty" example:"USER" enums:"USER,ADMIN"`
}

// LoginRequest is the body of POST /v1/auth/login.
type LoginRequest struct {
	Email    string `json:"email" example:"ada@example.com"`
	Password string `json:"password" example:"s3cret!"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	// Token is a signed JWT carrying sub, email and role
	Token   string  `json:"token"`
	Account Account `json:"account"`
}

// Account is the sanitized account view. Password material never leaves
// the server.
type Account struct {
	ID        string    `json:"id" example:"01J9Z3K6W3V1Q2X8Y7C5B4N3M2"`
	Name      string    `json:"name" example:"Ada Lovelace"`
	Email     string    `json:"email" example:"ada@example.com"`
	Role      string    `json:"role" example:"USER" enums:"USER,ADMIN"`
	CreatedAt time.Time `json:"createdAt"`
}

// AccountsResponse is returned by GET /v1/accounts.
type AccountsResponse struct {
	Accounts []Account `json:"accounts"`
}

type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title" example:"write report"`
	Description string    `json:"description,omitempty" example:"quarterly numbers"`
	IsCompleted bool      `json:"isCompleted"`
	OwnerID     string    `json:"ownerId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CreateTaskRequest is the body of POST /v1/tasks.
type CreateTaskRequest struct {
	Title       string `json:"title" example:"write report"`
	Description string `json:"description,omitempty" example:"quarterly numbers"`
}

// UpdateTaskRequest is the body of PATCH /v1/tasks/{id}. Nil fields are
// left untouched.
type UpdateTaskRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	IsCompleted *bool   `json:"isCompleted,omitempty"`
}

// TaskPage is one page of GET /v1/tasks.
type TaskPage struct {
	Data        []Task `json:"data"`
	Total       int    `json:"total"`
	Page        int    `json:"page"`
	Limit       int    `json:"limit"`
	TotalPages  int    `json:"totalPages"`
	HasNextPage bool   `json:"hasNextPage"`
	HasPrevPage bool   `json:"hasPrevPage"`
}

// HealthResponse is returned by /livez and /readyz.
type HealthResponse struct {
	Status  string        `json:"status" example:"ok"`
	Uptime  string        `json:"uptime,omitempty" example:"1h2m3s"`
	Version string        `json:"version,omitempty" example:"dev"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports the readiness of each dependency.
type HealthChecks struct {
	Database string `json:"database"`
	Signer   string `json:"signer"`
}

// JWKSResponse is the public key set at /.well-known/jwks.json.
type JWKSResponse jwtx.JWKS
