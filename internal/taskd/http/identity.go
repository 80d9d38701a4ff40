package http

import (
	"net/http"

	"github.com/aussiebroadwan/taskd/internal/taskd/domain"
	"github.com/aussiebroadwan/taskd/internal/taskd/service"
	"github.com/aussiebroadwan/taskd/pkg/httpx"
)

// callerIdentity returns the identity the authn middleware attached to r.
// ok is false for anonymous requests and for tokens with an unknown role.
func callerIdentity(r *http.Request) (domain.Identity, bool) {
	claims, ok := httpx.ClaimsFromContext(r.Context())
	if !ok {
		return domain.Identity{}, false
	}
	id, err := service.IdentityFromClaims(claims)
	if err != nil {
		return domain.Identity{}, false
	}
	return id, true
}

// requireCaller is callerIdentity for routes behind AuthnMiddleware. It
// writes the 401 itself.
func requireCaller(w http.ResponseWriter, r *http.Request) (domain.Identity, bool) {
	id, ok := callerIdentity(r)
	if !ok {
		writeServiceError(w, r, service.ErrAuthenticationRequired)
	}
	return id, ok
}
