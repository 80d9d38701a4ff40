package service_test

import (
	"context"
	"strings"
	"testing"

	"github.com/aussiebroadwan/taskd/internal/taskd/domain"
	"github.com/aussiebroadwan/taskd/internal/taskd/service"
	"github.com/aussiebroadwan/taskd/internal/taskd/store"
	"github.com/aussiebroadwan/taskd/internal/taskd/store/drivers/memory"
	"github.com/aussiebroadwan/taskd/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

// plainHasher keeps tests fast; production uses cryptox.Argon2Hasher.
type plainHasher struct{ dummies int }

func (h *plainHasher) Hash(pw string) (string, error) { return "plain:" + pw, nil }

func (h *plainHasher) Verify(pw, hash string) (bool, error) {
	return strings.TrimPrefix(hash, "plain:") == pw, nil
}

func (h *plainHasher) VerifyDummy(string) { h.dummies++ }

type countingObserver struct{ outcomes []string }

func (o *countingObserver) ObserveRegistration(outcome string) {
	o.outcomes = append(o.outcomes, outcome)
}

type fixture struct {
	store    store.Store
	hasher   *plainHasher
	observer *countingObserver
	tokens   *service.TokenService
	identity *service.IdentityService
	accounts *service.AccountService
	tasks    *service.TaskService
}

func newFixture(t *testing.T, s store.Store) *fixture {
	t.Helper()

	km, err := jwtx.NewKeyManager(jwtx.KeyManagerOptions{Issuer: "taskd-test", NumKeys: 1})
	require.NoError(t, err)

	f := &fixture{
		store:    s,
		hasher:   &plainHasher{},
		observer: &countingObserver{},
		tokens:   &service.TokenService{KeyManager: km, Issuer: "taskd-test"},
	}
	f.identity = &service.IdentityService{Store: s, Hasher: f.hasher, Tokens: f.tokens, Metrics: f.observer}
	f.accounts = &service.AccountService{Store: s}
	f.tasks = &service.TaskService{Store: s, Ownership: &service.OwnershipEnforcer{Store: s}}
	return f
}

func newMemFixture(t *testing.T) *fixture {
	return newFixture(t, memory.NewStore())
}

func reg(name, email, role string) domain.Registration {
	return domain.Registration{Name: name, Email: email, Password: "secret1", Role: role}
}

// bootstrap registers the first account and returns its identity.
func (f *fixture) bootstrap(t *testing.T) domain.Identity {
	t.Helper()
	res, err := f.identity.Register(context.Background(), reg("Root", "root@example.com", ""), nil)
	require.NoError(t, err)
	return identityOf(t, f, res.Token)
}

func (f *fixture) user(t *testing.T, admin domain.Identity, email string) domain.Identity {
	t.Helper()
	res, err := f.identity.Register(context.Background(), reg("User "+email, email, ""), &admin)
	require.NoError(t, err)
	return identityOf(t, f, res.Token)
}

func identityOf(t *testing.T, f *fixture, token string) domain.Identity {
	t.Helper()
	id, err := f.tokens.Verify(token)
	require.NoError(t, err)
	return id
}
