package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/taskd/internal/taskd/domain"
	"github.com/aussiebroadwan/taskd/internal/taskd/store"
	"github.com/aussiebroadwan/taskd/pkg/idx"
	"github.com/aussiebroadwan/taskd/pkg/slogx"
)

// CredentialVerifier hashes and checks passwords.
type CredentialVerifier interface {
	Hash(password string) (string, error)
	// Verify returns (false, nil) on a plain mismatch.
	Verify(password, hash string) (bool, error)
	// VerifyDummy spends the cost of a Verify without a real hash.
	VerifyDummy(password string)
}

// RegistrationObserver is told how each registration ended.
type RegistrationObserver interface {
	ObserveRegistration(outcome string)
}

// Registration outcomes reported to the RegistrationObserver.
const (
	OutcomeBootstrap = "bootstrap"
	OutcomeCreated   = "created"
	OutcomeRejected  = "rejected"
	OutcomeFailed    = "failed"
)

// AuthResult is what register and login hand back.
type AuthResult struct {
	Token   string             `json:"token"`
	Account domain.AccountView `json:"account"`
}

type IdentityService struct {
	Store  store.Store
	Hasher CredentialVerifier
	Tokens TokenIssuer

	// Metrics is optional.
	Metrics RegistrationObserver

	// Now is overridable in tests.
	Now func() time.Time
}

func (s *IdentityService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *IdentityService) observe(outcome string) {
	if s.Metrics != nil {
		s.Metrics.ObserveRegistration(outcome)
	}
}

// Register creates an account. The first account ever becomes ADMIN
// whatever role was asked for. After that an authenticated actor is
// required, and only an ADMIN actor may hand out a role other than USER.
func (s *IdentityService) Register(
	ctx context.Context,
	reg domain.Registration,
	actor *domain.Identity,
) (AuthResult, error) {
	res, outcome, err := s.register(ctx, reg, actor)
	s.observe(outcome)
	return res, err
}

func (s *IdentityService) register(
	ctx context.Context,
	reg domain.Registration,
	actor *domain.Identity,
) (AuthResult, string, error) {
	l := slogx.FromContext(ctx)

	if err := invalid(reg.Validate()); err != nil {
		return AuthResult{}, OutcomeRejected, err
	}

	empty, err := s.Store.Accounts().IsEmpty(ctx)
	if err != nil {
		return AuthResult{}, OutcomeFailed, fmt.Errorf("count accounts: %w", err)
	}

	role, err := grantedRole(empty, reg.RequestedRole(), actor)
	if err != nil {
		return AuthResult{}, OutcomeRejected, err
	}

	if _, err := s.Store.Accounts().GetAccountByEmail(ctx, reg.Email); err == nil {
		return AuthResult{}, OutcomeRejected, ErrEmailInUse
	} else if !errors.Is(err, store.ErrNotFound) {
		return AuthResult{}, OutcomeFailed, fmt.Errorf("lookup email: %w", err)
	}

	hash, err := s.Hasher.Hash(reg.Password)
	if err != nil {
		return AuthResult{}, OutcomeFailed, fmt.Errorf("hash password: %w", err)
	}

	now := s.now().UTC()
	account := domain.Account{
		ID:           idx.NewAt(now).String(),
		Name:         reg.Name,
		Email:        reg.Email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if empty {
			if err := claimBootstrap(ctx, tx, account.ID, now); err != nil {
				return err
			}
		}
		if err := tx.Accounts().CreateAccount(ctx, account); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return ErrEmailInUse
			}
			return fmt.Errorf("create account: %w", err)
		}
		return nil
	})
	switch {
	case errors.Is(err, ErrConflict):
		l.Info("registration conflict", slog.String("reason", err.Error()))
		return AuthResult{}, OutcomeRejected, err
	case err != nil:
		return AuthResult{}, OutcomeFailed, err
	}

	outcome := OutcomeCreated
	if empty {
		outcome = OutcomeBootstrap
		l.Info("bootstrap administrator created", slog.String("account_id", account.ID))
	} else {
		l.Info("account registered",
			slog.String("account_id", account.ID),
			slog.String("role", string(role)),
			slog.String("by", actor.AccountID),
		)
	}

	token, err := s.Tokens.Issue(account.Identity())
	if err != nil {
		return AuthResult{}, OutcomeFailed, err
	}

	return AuthResult{Token: token, Account: account.View()}, outcome, nil
}

// grantedRole applies the bootstrap and escalation rule.
func grantedRole(empty bool, requested domain.Role, actor *domain.Identity) (domain.Role, error) {
	if empty {
		return domain.RoleAdmin, nil
	}
	if actor == nil {
		return "", ErrAuthenticationRequired
	}
	if requested == "" {
		requested = domain.RoleUser
	}
	if !actor.IsAdmin() && requested != domain.RoleUser {
		return "", ErrRoleEscalation
	}
	return requested, nil
}

// claimBootstrap takes the one-time bootstrap flag inside tx and re-checks
// that no account slipped in since the caller counted.
func claimBootstrap(ctx context.Context, tx store.Tx, accountID string, at time.Time) error {
	if err := tx.Bootstrap().Claim(ctx, accountID, at); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return ErrBootstrapContended
		}
		return fmt.Errorf("claim bootstrap: %w", err)
	}

	empty, err := tx.Accounts().IsEmpty(ctx)
	if err != nil {
		return fmt.Errorf("recount accounts: %w", err)
	}
	if !empty {
		return ErrBootstrapContended
	}
	return nil
}

// Login checks credentials and issues a token. Unknown email and wrong
// password fail identically.
func (s *IdentityService) Login(ctx context.Context, email, password string) (AuthResult, error) {
	account, ok, err := s.authenticate(ctx, email, password)
	if err != nil {
		return AuthResult{}, err
	}
	if !ok {
		slogx.FromContext(ctx).Info("login rejected")
		return AuthResult{}, ErrInvalidCredentials
	}

	token, err := s.Tokens.Issue(account.Identity())
	if err != nil {
		return AuthResult{}, err
	}
	return AuthResult{Token: token, Account: account.View()}, nil
}

// Validate reports whether the credentials are good, with the sanitized
// account when they are. A mismatch is (zero, false, nil).
func (s *IdentityService) Validate(ctx context.Context, email, password string) (domain.AccountView, bool, error) {
	account, ok, err := s.authenticate(ctx, email, password)
	if err != nil || !ok {
		return domain.AccountView{}, false, err
	}
	return account.View(), true, nil
}

func (s *IdentityService) authenticate(ctx context.Context, email, password string) (domain.Account, bool, error) {
	account, err := s.Store.Accounts().GetAccountByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		s.Hasher.VerifyDummy(password)
		return domain.Account{}, false, nil
	}
	if err != nil {
		return domain.Account{}, false, fmt.Errorf("lookup account: %w", err)
	}

	ok, err := s.Hasher.Verify(password, account.PasswordHash)
	if err != nil {
		return domain.Account{}, false, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return domain.Account{}, false, nil
	}
	return account, true, nil
}
