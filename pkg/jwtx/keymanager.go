package jwtx

import (
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/aussiebroadwan/taskd/pkg/cryptox"
)

// Supported JWT signing algorithms
const (
	AlgorithmEdDSA = "EdDSA"
	AlgorithmHS256 = "HS256"
)

// KeyManager owns the signing keys and the matching verifier for an
// instance. EdDSA keys are ephemeral and published through KeySet; HS256
// uses a single configured secret and publishes nothing.
type KeyManager struct {
	Verifier  Verifier
	KeySet    *KeySet
	algorithm string

	signers []Signer
	mu      sync.RWMutex
}

// KeyManagerOptions configures the KeyManager.
type KeyManagerOptions struct {
	// Algorithm is "EdDSA" (default) or "HS256".
	Algorithm string

	// Issuer is the iss claim written into and required from tokens.
	Issuer string

	// NumKeys is how many EdDSA keys to generate. Defaults to 3, capped at 10.
	NumKeys int

	// Secret is the HS256 shared secret, at least 32 bytes.
	Secret []byte
}

// NewKeyManager builds a KeyManager for the configured algorithm. EdDSA keys
// are generated on the fly and only exist in memory, so every token becomes
// invalid when the process restarts.
func NewKeyManager(opts KeyManagerOptions) (*KeyManager, error) {
	if opts.Issuer == "" {
		return nil, fmt.Errorf("jwtx: Issuer is required")
	}
	if opts.Algorithm == "" {
		opts.Algorithm = AlgorithmEdDSA
	}

	switch opts.Algorithm {
	case AlgorithmEdDSA:
		return newEdDSAKeyManager(opts)
	case AlgorithmHS256:
		signer, err := NewSignerHS256("", opts.Secret)
		if err != nil {
			return nil, err
		}
		return &KeyManager{
			Verifier:  NewVerifierHS256(opts.Secret, opts.Issuer),
			KeySet:    NewKeySet(),
			algorithm: AlgorithmHS256,
			signers:   []Signer{signer},
		}, nil
	default:
		return nil, fmt.Errorf("jwtx: unsupported algorithm %q (supported: EdDSA, HS256)", opts.Algorithm)
	}
}

func newEdDSAKeyManager(opts KeyManagerOptions) (*KeyManager, error) {
	numKeys := opts.NumKeys
	if numKeys <= 0 {
		numKeys = 3
	}
	if numKeys > 10 {
		numKeys = 10
	}

	keyset := NewKeySet()
	signers := make([]Signer, 0, numKeys)

	for i := range numKeys {
		keyID, err := generateRandomKeyID()
		if err != nil {
			return nil, fmt.Errorf("jwtx: failed to generate key ID: %w", err)
		}

		pemBytes, err := cryptox.GenerateEd25519Key()
		if err != nil {
			return nil, fmt.Errorf("jwtx: failed to generate EdDSA key %d: %w", i+1, err)
		}

		signer, err := NewSignerEdDSA(keyID, pemBytes)
		if err != nil {
			return nil, fmt.Errorf("jwtx: failed to load signer %d: %w", i+1, err)
		}

		if err := keyset.AddSigner(signer); err != nil {
			return nil, fmt.Errorf("jwtx: failed to add signer %d to keyset: %w", i+1, err)
		}
		signers = append(signers, signer)
	}

	return &KeyManager{
		Verifier:  NewVerifierEdDSA(keyset, opts.Issuer),
		KeySet:    keyset,
		algorithm: AlgorithmEdDSA,
		signers:   signers,
	}, nil
}

// Algorithm returns the signing algorithm being used.
func (km *KeyManager) Algorithm() string {
	return km.algorithm
}

// IsReady reports whether the manager can sign tokens.
func (km *KeyManager) IsReady() bool {
	km.mu.RLock()
	defer km.mu.RUnlock()
	return len(km.signers) > 0
}

// PublishesKeys reports whether verification keys are exposed as a JWKS.
func (km *KeyManager) PublishesKeys() bool {
	return km.algorithm == AlgorithmEdDSA
}

// GetSigner returns a randomly selected signer from the active keys.
func (km *KeyManager) GetSigner() Signer {
	km.mu.RLock()
	defer km.mu.RUnlock()

	switch len(km.signers) {
	case 0:
		return nil
	case 1:
		return km.signers[0]
	}
	return km.signers[rand.IntN(len(km.signers))]
}

// NumSigners returns the number of active signing keys.
func (km *KeyManager) NumSigners() int {
	km.mu.RLock()
	defer km.mu.RUnlock()
	return len(km.signers)
}

// Sign signs claims with one of the active keys.
func (km *KeyManager) Sign(claims Claims) (string, error) {
	signer := km.GetSigner()
	if signer == nil {
		return "", fmt.Errorf("jwtx: no signing key available")
	}
	return signer.Sign(claims)
}

// Verify checks a token with the manager's verifier.
func (km *KeyManager) Verify(token string) (Claims, error) {
	return km.Verifier.Verify(token)
}

// generateRandomKeyID returns "taskd-" plus 128 random bits.
func generateRandomKeyID() (string, error) {
	token, err := cryptox.RandomToken(16)
	if err != nil {
		return "", fmt.Errorf("failed to generate random key ID: %w", err)
	}
	return fmt.Sprintf("taskd-%s", token), nil
}
