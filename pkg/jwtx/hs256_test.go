package jwtx_test

import (
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/ledger/pkg/jwtx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const exampleIssuer = "ledger-test"

var exampleSecret = []byte(strings.Repeat("s", jwtx.MinHS256SecretLen))

func TestHS256SignAndVerify(t *testing.T) {
	kp, err := jwtx.NewHS256(exampleSecret, exampleIssuer)
	require.NoError(t, err)
	require.NoError(t, kp.Signer.Validate())
	require.Equal(t, "HS256", kp.Signer.Alg())
	require.NotEmpty(t, kp.Signer.KID())

	claims := jwtx.NewSessionClaims("user-123", exampleIssuer, time.Hour, time.Now().UTC())
	token, err := kp.Signer.Sign(claims)
	require.NoError(t, err)

	parsed, err := kp.Verifier.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "user-123", parsed.UserID)
	require.Equal(t, claims.ID, parsed.ID)
}

func TestHS256RejectsEmptySecret(t *testing.T) {
	_, err := jwtx.NewHS256(nil, exampleIssuer)
	require.Error(t, err)
}

func TestHS256VerifyFailures(t *testing.T) {
	kp, err := jwtx.NewHS256(exampleSecret, exampleIssuer)
	require.NoError(t, err)

	t.Run("expired", func(t *testing.T) {
		claims := jwtx.NewSessionClaims("u", exampleIssuer, time.Minute, time.Now().Add(-time.Hour))
		token, err := kp.Signer.Sign(claims)
		require.NoError(t, err)

		_, err = kp.Verifier.Verify(token)
		require.ErrorIs(t, err, jwtx.ErrExpired)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		claims := jwtx.NewSessionClaims("u", "someone-else", time.Hour, time.Now())
		token, err := kp.Signer.Sign(claims)
		require.NoError(t, err)

		_, err = kp.Verifier.Verify(token)
		require.ErrorIs(t, err, jwtx.ErrIssuer)
	})

	t.Run("different secret", func(t *testing.T) {
		other, err := jwtx.NewHS256([]byte(strings.Repeat("o", 32)), exampleIssuer)
		require.NoError(t, err)
		token, err := other.Signer.Sign(jwtx.NewSessionClaims("u", exampleIssuer, time.Hour, time.Now()))
		require.NoError(t, err)

		_, err = kp.Verifier.Verify(token)
		require.ErrorIs(t, err, jwtx.ErrUnknownKID)
	})

	t.Run("tampered payload", func(t *testing.T) {
		token, err := kp.Signer.Sign(jwtx.NewSessionClaims("u", exampleIssuer, time.Hour, time.Now()))
		require.NoError(t, err)
		parts := strings.Split(token, ".")
		forged, err := kp.Signer.Sign(jwtx.NewSessionClaims("admin", exampleIssuer, time.Hour, time.Now()))
		require.NoError(t, err)
		parts[1] = strings.Split(forged, ".")[1]

		_, err = kp.Verifier.Verify(strings.Join(parts, "."))
		require.ErrorIs(t, err, jwtx.ErrInvalidSig)
	})

	t.Run("missing user id", func(t *testing.T) {
		claims := jwtx.NewSessionClaims("", exampleIssuer, time.Hour, time.Now())
		token, err := kp.Signer.Sign(claims)
		require.NoError(t, err)

		_, err = kp.Verifier.Verify(token)
		require.ErrorIs(t, err, jwtx.ErrInvalidClaim)
	})

	t.Run("alg none", func(t *testing.T) {
		claims := jwtx.NewSessionClaims("u", exampleIssuer, time.Hour, time.Now())
		tok := jwt.NewWithClaims(jwt.SigningMethodNone, claims)
		tok.Header["kid"] = kp.Signer.KID()
		raw, err := tok.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = kp.Verifier.Verify(raw)
		require.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := kp.Verifier.Verify("not.a.jwt")
		require.ErrorIs(t, err, jwtx.ErrMalformed)
	})
}
