package service

import (
	"fmt"
	"time"

	"github.com/aussiebroadwan/taskd/internal/taskd/domain"
	"github.com/aussiebroadwan/taskd/pkg/jwtx"
)

// TokenIssuer signs session tokens for an authenticated identity.
type TokenIssuer interface {
	Issue(id domain.Identity) (string, error)
}

// TokenService issues and verifies session tokens through the key manager.
type TokenService struct {
	KeyManager *jwtx.KeyManager
	Issuer     string
	TTL        time.Duration

	// Now is overridable in tests.
	Now func() time.Time
}

func (s *TokenService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Issue signs {sub, email, role} plus the registered claims.
func (s *TokenService) Issue(id domain.Identity) (string, error) {
	claims := jwtx.NewSessionClaims(id.AccountID, id.Email, string(id.Role), s.TTL, s.Issuer, s.now().UTC())
	token, err := s.KeyManager.Sign(claims)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return token, nil
}

// Verify checks a token and recovers the identity it was issued to.
func (s *TokenService) Verify(token string) (domain.Identity, error) {
	claims, err := s.KeyManager.Verify(token)
	if err != nil {
		return domain.Identity{}, err
	}
	return IdentityFromClaims(claims)
}

// IdentityFromClaims maps verified claims to an Identity. A token carrying a
// role outside the closed set is rejected.
func IdentityFromClaims(c jwtx.Claims) (domain.Identity, error) {
	role, err := domain.ParseRole(c.Role)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%w: %v", jwtx.ErrInvalidClaim, err)
	}
	return domain.Identity{AccountID: c.Subject, Email: c.Email, Role: role}, nil
}
