package service

import (
	"errors"
	"maps"
	"slices"
	"strings"
)

// Error kinds. Callers match these with errors.Is; the specific errors
// below carry the message and report their kind.
var (
	ErrValidation             = errors.New("validation failed")
	ErrConflict               = errors.New("conflict")
	ErrAuthenticationRequired = errors.New("authentication required")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrPermissionDenied       = errors.New("permission denied")
	ErrNotFound               = errors.New("not found")
)

var (
	ErrEmailInUse         = kindError(ErrConflict, "email already in use")
	ErrBootstrapContended = kindError(ErrConflict, "bootstrap already claimed by a concurrent registration")
	ErrRoleEscalation     = kindError(ErrPermissionDenied, "only an administrator may assign that role")
	ErrNotOwner           = kindError(ErrPermissionDenied, "task belongs to another account")
	ErrAccountNotFound    = kindError(ErrNotFound, "account not found")
	ErrTaskNotFound       = kindError(ErrNotFound, "task not found")
)

type kinded struct {
	kind error
	msg  string
}

func kindError(kind error, msg string) error {
	return &kinded{kind: kind, msg: msg}
}

func (e *kinded) Error() string        { return e.msg }
func (e *kinded) Is(target error) bool { return target == e.kind }

// ValidationError lists the offending fields and their messages.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := slices.Sorted(maps.Keys(e.Fields))
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// invalid wraps a field map from a domain Validate method, or returns nil.
func invalid(fields map[string]string) error {
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}
