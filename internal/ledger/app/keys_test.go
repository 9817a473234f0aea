package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aussiebroadwan/ledger/pkg/jwtx"
	"github.com/aussiebroadwan/ledger/pkg/slogx"
	"github.com/stretchr/testify/require"
)

func TestInitSessionKeysHS256(t *testing.T) {
	cfg := Config{JWTAlgorithm: jwtx.AlgHS256, JWTSecret: "0123456789abcdef0123456789abcdef", JWTIssuer: "ledger", Env: "prod"}

	keys, err := InitSessionKeys(cfg, slogx.Discard())
	require.NoError(t, err)
	require.Equal(t, "HS256", keys.Signer.Alg())

	t.Run("random secret in dev", func(t *testing.T) {
		cfg := cfg
		cfg.JWTSecret = ""
		cfg.Env = "dev"
		keys, err := InitSessionKeys(cfg, slogx.Discard())
		require.NoError(t, err)
		require.NotNil(t, keys.Signer)
	})

	t.Run("secret required in prod", func(t *testing.T) {
		cfg := cfg
		cfg.JWTSecret = ""
		_, err := InitSessionKeys(cfg, slogx.Discard())
		require.Error(t, err)
	})
}

func TestInitSessionKeysEdDSA(t *testing.T) {
	file := filepath.Join(t.TempDir(), "keys", "jwt_ed25519.pem")
	cfg := Config{JWTAlgorithm: "EdDSA", JWTKeyFile: file, JWTIssuer: "ledger"}

	first, err := InitSessionKeys(cfg, slogx.Discard())
	require.NoError(t, err)
	require.Equal(t, "EdDSA", first.Signer.Alg())
	_, err = os.Stat(file)
	require.NoError(t, err)

	// The saved key is reused on the next start.
	second, err := InitSessionKeys(cfg, slogx.Discard())
	require.NoError(t, err)
	require.Equal(t, first.Signer.KID(), second.Signer.KID())
}
