package service_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/ledger/internal/ledger/service"
	"github.com/aussiebroadwan/ledger/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestSessionIssuer(t *testing.T) {
	sessions := newSessions(t)
	now := time.Now()
	sessions.Now = func() time.Time { return now }

	token, exp, err := sessions.Issue("user-1")
	require.NoError(t, err)
	require.WithinDuration(t, now.Add(time.Hour), exp, time.Second)

	sessions.Now = nil
	id, err := sessions.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "user-1", id)

	t.Run("other key", func(t *testing.T) {
		keys, err := jwtx.NewHS256([]byte("ffffffffffffffffffffffffffffffff"), "ledger-test")
		require.NoError(t, err)
		other := &service.SessionIssuer{Keys: keys, Issuer: "ledger-test"}
		_, err = other.Verify(token)
		require.ErrorIs(t, err, service.ErrInvalidToken)
	})

	t.Run("other issuer", func(t *testing.T) {
		keys, err := jwtx.NewHS256([]byte(testSecret), "someone-else")
		require.NoError(t, err)
		other := &service.SessionIssuer{Keys: keys, Issuer: "someone-else"}
		_, err = other.Verify(token)
		require.ErrorIs(t, err, service.ErrInvalidToken)
	})
}
