package app

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/ledger/pkg/cryptox"
	"github.com/aussiebroadwan/ledger/pkg/jwtx"
)

// InitSessionKeys builds the session signing keys for the configured
// algorithm.
//
//   - HS256 signs with JWT_SECRET. Outside prod an unset secret is replaced
//     by a random one, which invalidates every session on restart.
//   - EdDSA signs with the Ed25519 key in JWTKeyFile, generating and saving
//     one on first start.
func InitSessionKeys(cfg Config, logger *slog.Logger) (jwtx.KeyPair, error) {
	alg, err := jwtx.ParseAlg(cfg.JWTAlgorithm)
	if err != nil {
		return jwtx.KeyPair{}, err
	}

	switch alg {
	case jwtx.AlgEdDSA:
		pemKey, created, err := cryptox.LoadOrGenerateEd25519Key(cfg.JWTKeyFile)
		if err != nil {
			return jwtx.KeyPair{}, fmt.Errorf("failed to load signing key: %w", err)
		}
		if created {
			logger.Info("generated new Ed25519 signing key", "path", cfg.JWTKeyFile)
		}

		keys, err := jwtx.NewEdDSA(pemKey, cfg.JWTIssuer)
		if err != nil {
			return jwtx.KeyPair{}, err
		}
		logger.Info("session keys ready", "algorithm", alg, "kid", keys.Signer.KID(), "issuer", cfg.JWTIssuer)
		return keys, nil

	default:
		secret := cfg.JWTSecret
		if secret == "" {
			if cfg.Env == "prod" {
				return jwtx.KeyPair{}, errors.New("JWT_SECRET is required in prod")
			}
			if secret, err = cryptox.GenerateToken(cryptox.TokenSize256); err != nil {
				return jwtx.KeyPair{}, err
			}
			logger.Warn("JWT_SECRET not set; using a random secret, sessions will not survive a restart")
		}

		keys, err := jwtx.NewHS256([]byte(secret), cfg.JWTIssuer)
		if err != nil {
			return jwtx.KeyPair{}, err
		}
		logger.Info("session keys ready", "algorithm", alg, "kid", keys.Signer.KID(), "issuer", cfg.JWTIssuer)
		return keys, nil
	}
}
