package httpx_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/taskd/pkg/httpx"
	"github.com/aussiebroadwan/taskd/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func newKeys(t *testing.T) *jwtx.KeyManager {
	t.Helper()
	km, err := jwtx.NewKeyManager(jwtx.KeyManagerOptions{Issuer: "test", NumKeys: 1})
	require.NoError(t, err)
	return km
}

func sign(t *testing.T, km *jwtx.KeyManager, sub, role string) string {
	t.Helper()
	token, err := km.Sign(jwtx.NewSessionClaims(sub, sub+"@example.com", role, time.Minute, "test", time.Now()))
	require.NoError(t, err)
	return token
}

// echo reports the authenticated account id, or "anonymous".
func echo() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := httpx.AccountIDFromContext(r.Context())
		if id == "" {
			id = "anonymous"
		}
		_, _ = w.Write([]byte(id))
	})
}

func serve(h http.Handler, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if bearer != "" {
		req.Header.Set("Authorization", bearer)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestChainOrder(t *testing.T) {
	var order []string
	mark := func(name string) httpx.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	serve(httpx.Chain(echo(), mark("a"), mark("b"), mark("c")), "")
	require.Equal(t, []string{"a", "b", "c"}, order)
}

func TestAuthnMiddleware(t *testing.T) {
	km := newKeys(t)
	h := httpx.AuthnMiddleware(km.Verifier)(echo())

	t.Run("valid token", func(t *testing.T) {
		rec := serve(h, "Bearer "+sign(t, km, "acct-1", "USER"))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "acct-1", rec.Body.String())
	})

	t.Run("missing token", func(t *testing.T) {
		rec := serve(h, "")
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Contains(t, rec.Header().Get("WWW-Authenticate"), "invalid_token")
		require.Contains(t, rec.Body.String(), "authentication_required")
	})

	t.Run("wrong scheme", func(t *testing.T) {
		require.Equal(t, http.StatusUnauthorized, serve(h, "Basic Zm9vOmJhcg==").Code)
	})

	t.Run("token from another key set", func(t *testing.T) {
		other := newKeys(t)
		require.Equal(t, http.StatusUnauthorized, serve(h, "Bearer "+sign(t, other, "acct-1", "ADMIN")).Code)
	})
}

func TestOptionalAuthnMiddleware(t *testing.T) {
	km := newKeys(t)
	h := httpx.OptionalAuthnMiddleware(km.Verifier)(echo())

	require.Equal(t, "anonymous", serve(h, "").Body.String())
	require.Equal(t, "acct-2", serve(h, "Bearer "+sign(t, km, "acct-2", "USER")).Body.String())

	rec := serve(h, "Bearer garbage")
	require.Equal(t, http.StatusUnauthorized, rec.Code, "a bad token is not treated as anonymous")
}

func TestRequireRole(t *testing.T) {
	km := newKeys(t)
	h := httpx.Chain(echo(), httpx.AuthnMiddleware(km.Verifier), httpx.RequireRole("ADMIN"))

	require.Equal(t, http.StatusOK, serve(h, "Bearer "+sign(t, km, "admin", "ADMIN")).Code)

	rec := serve(h, "Bearer "+sign(t, km, "user", "USER"))
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.True(t, strings.Contains(rec.Body.String(), "permission_denied"))

	// without authn in front the guard still refuses
	require.Equal(t, http.StatusUnauthorized, serve(httpx.RequireRole("ADMIN")(echo()), "").Code)
}
