package app

import (
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/taskd/pkg/jwtx"
)

// InitAuthKeys builds the KeyManager for the configured algorithm.
//
// EdDSA keys are generated on startup and held only in memory, so every
// session token becomes invalid when the service restarts. HS256 uses
// AUTH_HMAC_SECRET and survives restarts, but publishes no JWKS.
func InitAuthKeys(cfg Config, logger *slog.Logger) (*jwtx.KeyManager, error) {
	km, err := jwtx.NewKeyManager(jwtx.KeyManagerOptions{
		Algorithm: cfg.Algorithm,
		Issuer:    cfg.Issuer,
		NumKeys:   cfg.NumKeys,
		Secret:    []byte(cfg.HMACSecret),
	})
	if err != nil {
		return nil, fmt.Errorf("init %s key manager: %w", cfg.Algorithm, err)
	}

	logger.Info("signing keys ready",
		slog.String("algorithm", km.Algorithm()),
		slog.Int("num_keys", km.NumSigners()),
		slog.Bool("jwks", km.PublishesKeys()),
	)
	return km, nil
}
