package app

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/aussiebroadwan/taskd/pkg/taskdsdk"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) Config {
	dir := t.TempDir()
	return Config{
		Issuer:       "taskd-test",
		Algorithm:    "EdDSA",
		NumKeys:      1,
		DatabaseFile: filepath.Join(dir, "taskd.db"),
		PepperFile:   filepath.Join(dir, "pepper"),
		Env:          "test",
		LogLevel:     "error",
		LogFormat:    "text",
	}
}

func TestApplicationServesAPI(t *testing.T) {
	application, err := New(testConfig(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = application.db.Close() })

	srv := httptest.NewServer(application.Handler())
	defer srv.Close()

	ctx := t.Context()
	c := taskdsdk.NewClient(srv.URL)

	ready, err := c.GetReadiness(ctx)
	require.NoError(t, err)
	require.Equal(t, "ok", ready.Status)

	admin, err := c.Register(ctx, taskdsdk.RegisterRequest{Name: "Root", Email: "root@example.com", Password: "secret1"})
	require.NoError(t, err)
	require.Equal(t, taskdsdk.RoleAdmin, admin.Account.Role)

	// Argon2 round trip through the real hasher and pepper file.
	again, err := c.Login(ctx, "root@example.com", "secret1")
	require.NoError(t, err)
	require.Equal(t, admin.Account.ID, again.Account.ID)

	_, err = c.Login(ctx, "root@example.com", "wrong-password")
	require.ErrorIs(t, err, taskdsdk.ErrInvalidCredentials)

	verifier, err := c.NewVerifier(ctx, "taskd-test")
	require.NoError(t, err)
	claims, err := verifier.Verify(again.Token())
	require.NoError(t, err)
	require.Equal(t, admin.Account.ID, claims.Subject)
	require.Equal(t, taskdsdk.RoleAdmin, claims.Role)

	task, err := again.CreateTask(ctx, taskdsdk.CreateTaskRequest{Title: "first"})
	require.NoError(t, err)
	require.Equal(t, admin.Account.ID, task.OwnerID)

	resp, err := http.Get(srv.URL + "/swagger/doc.json")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestNewRejectsShortHMACSecret(t *testing.T) {
	cfg := testConfig(t)
	cfg.Algorithm = "HS256"
	cfg.HMACSecret = "too-short"

	_, err := New(cfg)
	require.Error(t, err)
}
