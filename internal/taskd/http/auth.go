package http

import (
	"net/http"

	"github.com/aussiebroadwan/taskd/internal/taskd/domain"
	"github.com/aussiebroadwan/taskd/internal/taskd/service"
	"github.com/aussiebroadwan/taskd/pkg/httpx"
	"github.com/aussiebroadwan/taskd/pkg/taskdsdk"
)

type AuthHandler struct {
	IdentityService *service.IdentityService
}

// HandleRegister creates an account.
//
//	@Summary		Register an account
//	@Description	The first account registered on an empty deployment becomes ADMIN and needs no token.
//	@Description	After that a bearer token is required, and only an ADMIN may assign a role other than USER.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		taskdsdk.RegisterRequest	true	"Account details"
//	@Success		201		{object}	taskdsdk.AuthResponse		"Session token and account"
//	@Failure		400		{object}	taskdsdk.ErrorResponse		"Validation failed"
//	@Failure		401		{object}	taskdsdk.ErrorResponse		"Authentication required"
//	@Failure		403		{object}	taskdsdk.ErrorResponse		"Role escalation refused"
//	@Failure		409		{object}	taskdsdk.ErrorResponse		"Email in use or bootstrap contended"
//	@Router			/v1/auth/register [post].
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req taskdsdk.RegisterRequest
	if !decodeBody(w, r, &req) {
		return
	}

	var actor *domain.Identity
	if id, ok := callerIdentity(r); ok {
		actor = &id
	}

	res, err := h.IdentityService.Register(r.Context(), domain.Registration{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	}, actor)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, res)
}

// HandleLogin exchanges credentials for a session token.
//
//	@Summary		Log in
//	@Description	Unknown email and wrong password are indistinguishable.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		taskdsdk.LoginRequest	true	"Credentials"
//	@Success		200		{object}	taskdsdk.AuthResponse	"Session token and account"
//	@Failure		400		{object}	taskdsdk.ErrorResponse	"Malformed body"
//	@Failure		401		{object}	taskdsdk.ErrorResponse	"Invalid credentials"
//	@Router			/v1/auth/login [post].
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req taskdsdk.LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	res, err := h.IdentityService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, res)
}
