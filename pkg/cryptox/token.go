package cryptox

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

const (
	// TokenSize256 is 256 bits of entropy, 43 characters once encoded.
	TokenSize256 = 32
	// TokenSize512 is 512 bits of entropy, 86 characters once encoded.
	TokenSize512 = 64
)

// GenerateToken returns size random bytes as unpadded base64url. The ledger
// uses it for throwaway HS256 secrets in dev.
func GenerateToken(size int) (string, error) {
	if size <= 0 {
		return "", fmt.Errorf("token size must be positive, got %d", size)
	}

	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate random token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
