package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	taskdhttp "github.com/aussiebroadwan/taskd/internal/taskd/http"
	"github.com/aussiebroadwan/taskd/internal/taskd/metrics"
	"github.com/aussiebroadwan/taskd/internal/taskd/service"
	"github.com/aussiebroadwan/taskd/internal/taskd/store/drivers/memory"
	"github.com/aussiebroadwan/taskd/pkg/jwtx"
	"github.com/aussiebroadwan/taskd/pkg/slogx"
	"github.com/aussiebroadwan/taskd/pkg/taskdsdk"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

type plainHasher struct{}

func (plainHasher) Hash(pw string) (string, error) { return "plain:" + pw, nil }
func (plainHasher) Verify(pw, hash string) (bool, error) {
	return strings.TrimPrefix(hash, "plain:") == pw, nil
}
func (plainHasher) VerifyDummy(string) {}

func newRouter(t *testing.T, opts jwtx.KeyManagerOptions) *taskdhttp.Router {
	t.Helper()

	opts.Issuer = "taskd-test"
	km, err := jwtx.NewKeyManager(opts)
	require.NoError(t, err)

	st := memory.NewStore()
	reg := prometheus.NewRegistry()
	collector := metrics.NewCollector(reg)

	r := taskdhttp.NewRouter(km, "test", st, slogx.Discard())
	r.IdentityService = &service.IdentityService{
		Store:   st,
		Hasher:  plainHasher{},
		Tokens:  &service.TokenService{KeyManager: km, Issuer: opts.Issuer},
		Metrics: collector,
	}
	r.AccountService = &service.AccountService{Store: st}
	r.TaskService = &service.TaskService{Store: st, Ownership: &service.OwnershipEnforcer{Store: st}}
	r.Metrics = collector
	r.Gatherer = reg
	r.ApplyRoutes()
	return r
}

type client struct {
	t *testing.T
	h http.Handler
}

func (c client) do(method, path, token string, body any) *httptest.ResponseRecorder {
	c.t.Helper()

	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(c.t, json.NewEncoder(&buf).Encode(b))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	c.h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func requireError(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) taskdsdk.ErrorResponse {
	t.Helper()
	require.Equal(t, status, rec.Code, rec.Body.String())
	e := decode[taskdsdk.ErrorResponse](t, rec)
	require.Equal(t, code, e.Error)
	return e
}

func register(t *testing.T, c client, token, name, email, role string) *httptest.ResponseRecorder {
	t.Helper()
	return c.do(http.MethodPost, "/v1/auth/register", token, taskdsdk.RegisterRequest{
		Name: name, Email: email, Password: "secret1", Role: role,
	})
}

// seed bootstraps an admin and creates one USER, returning both tokens.
func seed(t *testing.T, c client) (admin, user taskdsdk.AuthResponse) {
	t.Helper()

	rec := register(t, c, "", "Root", "root@example.com", "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	admin = decode[taskdsdk.AuthResponse](t, rec)

	rec = register(t, c, admin.Token, "Bob", "bob@example.com", "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	user = decode[taskdsdk.AuthResponse](t, rec)
	return admin, user
}

func TestRegisterFlow(t *testing.T) {
	c := client{t, newRouter(t, jwtx.KeyManagerOptions{NumKeys: 1})}

	rec := register(t, c, "", "Root", "root@example.com", "USER")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	admin := decode[taskdsdk.AuthResponse](t, rec)
	require.Equal(t, taskdsdk.RoleAdmin, admin.Account.Role)
	require.NotEmpty(t, admin.Token)
	require.NotContains(t, rec.Body.String(), "password")

	rec = register(t, c, "", "Eve", "eve@example.com", "")
	requireError(t, rec, http.StatusUnauthorized, taskdsdk.ErrorCodeAuthenticationRequired)

	rec = register(t, c, "not-a-jwt", "Eve", "eve@example.com", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = register(t, c, admin.Token, "Bob", "bob@example.com", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	bob := decode[taskdsdk.AuthResponse](t, rec)
	require.Equal(t, taskdsdk.RoleUser, bob.Account.Role)

	rec = register(t, c, bob.Token, "Mallory", "mallory@example.com", "ADMIN")
	requireError(t, rec, http.StatusForbidden, taskdsdk.ErrorCodePermissionDenied)

	rec = register(t, c, bob.Token, "Carol", "carol@example.com", "USER")
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = register(t, c, admin.Token, "Dup", "bob@example.com", "")
	requireError(t, rec, http.StatusConflict, taskdsdk.ErrorCodeConflict)

	rec = register(t, c, admin.Token, "X", "nope", "ROOT")
	e := requireError(t, rec, http.StatusBadRequest, taskdsdk.ErrorCodeValidation)
	require.Contains(t, e.Details, "name")
	require.Contains(t, e.Details, "email")
	require.Contains(t, e.Details, "role")

	rec = c.do(http.MethodPost, "/v1/auth/register", admin.Token,
		`{"name":"Zed","email":"zed@example.com","password":"secret1","isAdmin":true}`)
	requireError(t, rec, http.StatusBadRequest, taskdsdk.ErrorCodeInvalidRequest)
}

func TestLogin(t *testing.T) {
	c := client{t, newRouter(t, jwtx.KeyManagerOptions{NumKeys: 1})}
	seed(t, c)

	rec := c.do(http.MethodPost, "/v1/auth/login", "", taskdsdk.LoginRequest{Email: "bob@example.com", Password: "secret1"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	res := decode[taskdsdk.AuthResponse](t, rec)
	require.Equal(t, "bob@example.com", res.Account.Email)

	wrong := requireError(t,
		c.do(http.MethodPost, "/v1/auth/login", "", taskdsdk.LoginRequest{Email: "bob@example.com", Password: "nope"}),
		http.StatusUnauthorized, taskdsdk.ErrorCodeInvalidCredentials)
	unknown := requireError(t,
		c.do(http.MethodPost, "/v1/auth/login", "", taskdsdk.LoginRequest{Email: "ghost@example.com", Password: "secret1"}),
		http.StatusUnauthorized, taskdsdk.ErrorCodeInvalidCredentials)
	require.Equal(t, wrong, unknown)
}

func TestAccounts(t *testing.T) {
	c := client{t, newRouter(t, jwtx.KeyManagerOptions{NumKeys: 1})}
	admin, user := seed(t, c)

	rec := c.do(http.MethodGet, "/v1/accounts/me", user.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, user.Account.ID, decode[taskdsdk.Account](t, rec).ID)

	requireError(t, c.do(http.MethodGet, "/v1/accounts/me", "", nil),
		http.StatusUnauthorized, taskdsdk.ErrorCodeAuthenticationRequired)

	requireError(t, c.do(http.MethodGet, "/v1/accounts", user.Token, nil),
		http.StatusForbidden, taskdsdk.ErrorCodePermissionDenied)

	rec = c.do(http.MethodGet, "/v1/accounts", admin.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, decode[taskdsdk.AccountsResponse](t, rec).Accounts, 2)

	rec = c.do(http.MethodGet, "/v1/accounts/"+user.Account.ID, admin.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "bob@example.com", decode[taskdsdk.Account](t, rec).Email)

	requireError(t, c.do(http.MethodGet, "/v1/accounts/missing", admin.Token, nil),
		http.StatusNotFound, taskdsdk.ErrorCodeNotFound)
}

func TestTasks(t *testing.T) {
	c := client{t, newRouter(t, jwtx.KeyManagerOptions{NumKeys: 1})}
	admin, user := seed(t, c)

	requireError(t, c.do(http.MethodPost, "/v1/tasks", user.Token, taskdsdk.CreateTaskRequest{}),
		http.StatusBadRequest, taskdsdk.ErrorCodeValidation)

	rec := c.do(http.MethodPost, "/v1/tasks", user.Token, taskdsdk.CreateTaskRequest{Title: "write report"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	task := decode[taskdsdk.Task](t, rec)
	require.False(t, task.IsCompleted)
	require.Equal(t, user.Account.ID, task.OwnerID)

	// Any authenticated caller may read.
	rec = c.do(http.MethodGet, "/v1/tasks/"+task.ID, admin.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	done := true
	patch := taskdsdk.UpdateTaskRequest{IsCompleted: &done}

	requireError(t, c.do(http.MethodPatch, "/v1/tasks/"+task.ID, admin.Token, patch),
		http.StatusForbidden, taskdsdk.ErrorCodePermissionDenied)
	requireError(t, c.do(http.MethodDelete, "/v1/tasks/"+task.ID, admin.Token, nil),
		http.StatusForbidden, taskdsdk.ErrorCodePermissionDenied)
	requireError(t, c.do(http.MethodPatch, "/v1/tasks/missing", user.Token, patch),
		http.StatusNotFound, taskdsdk.ErrorCodeNotFound)

	rec = c.do(http.MethodPatch, "/v1/tasks/"+task.ID, user.Token, patch)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.True(t, decode[taskdsdk.Task](t, rec).IsCompleted)

	requireError(t, c.do(http.MethodPatch, "/v1/tasks/"+task.ID, user.Token, `{"title":""}`),
		http.StatusBadRequest, taskdsdk.ErrorCodeValidation)

	rec = c.do(http.MethodGet, "/v1/tasks", user.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[taskdsdk.TaskPage](t, rec)
	require.Equal(t, 1, page.Total)
	require.Equal(t, 1, page.Page)
	require.Equal(t, 10, page.Limit)

	rec = c.do(http.MethodGet, "/v1/tasks", admin.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, decode[taskdsdk.TaskPage](t, rec).Data)

	rec = c.do(http.MethodGet, "/v1/tasks?limit=1000", user.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 100, decode[taskdsdk.TaskPage](t, rec).Limit)

	for _, q := range []string{"page=0", "limit=-1", "page=abc", "page=2305843009213693953&limit=8"} {
		requireError(t, c.do(http.MethodGet, "/v1/tasks?"+q, user.Token, nil),
			http.StatusBadRequest, taskdsdk.ErrorCodeValidation)
	}

	rec = c.do(http.MethodDelete, "/v1/tasks/"+task.ID, user.Token, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	requireError(t, c.do(http.MethodGet, "/v1/tasks/"+task.ID, user.Token, nil),
		http.StatusNotFound, taskdsdk.ErrorCodeNotFound)
}

func TestSystemEndpoints(t *testing.T) {
	c := client{t, newRouter(t, jwtx.KeyManagerOptions{NumKeys: 2})}

	rec := c.do(http.MethodGet, "/.well-known/jwks.json", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, decode[taskdsdk.JWKSResponse](t, rec).Keys, 2)

	rec = c.do(http.MethodGet, "/livez", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = c.do(http.MethodGet, "/readyz", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	health := decode[taskdsdk.HealthResponse](t, rec)
	require.Equal(t, "ok", health.Checks.Database)

	register(t, c, "", "Root", "root@example.com", "")
	rec = c.do(http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `taskd_registrations_total{outcome="bootstrap"} 1`)
	require.Contains(t, rec.Body.String(), `route="POST /v1/auth/register"`)
}

func TestHS256HasNoJWKS(t *testing.T) {
	c := client{t, newRouter(t, jwtx.KeyManagerOptions{
		Algorithm: jwtx.AlgorithmHS256,
		Secret:    []byte("0123456789abcdef0123456789abcdef"),
	})}

	require.Equal(t, http.StatusNotFound, c.do(http.MethodGet, "/.well-known/jwks.json", "", nil).Code)

	rec := register(t, c, "", "Root", "root@example.com", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	admin := decode[taskdsdk.AuthResponse](t, rec)

	rec = c.do(http.MethodGet, "/v1/accounts/me", admin.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
}
