package cryptox

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrMismatch is returned when a password does not match its digest.
	ErrMismatch = errors.New("password does not match")

	// ErrUnknownDigest is returned for digests in a format we cannot verify.
	ErrUnknownDigest = errors.New("cryptox: unknown digest format")
)

// HashPassword returns a PHC encoded Argon2id digest of password+pepper.
func HashPassword(password string) (string, error) {
	p, err := currentPepper()
	if err != nil {
		return "", fmt.Errorf("cryptox: load pepper: %w", err)
	}

	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	sum := argon2.IDKey([]byte(password+p), salt, iterations, memory, parallelism, keyLength)

	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		memory,
		iterations,
		parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(sum),
	), nil
}

// VerifyPassword checks password against digest. Argon2id digests are
// produced by HashPassword. Bcrypt digests ($2a$, $2b$, $2y$) are accepted
// for accounts imported from the previous system, which never peppered.
func VerifyPassword(password, digest string) error {
	switch {
	case strings.HasPrefix(digest, "$argon2id$"):
		return verifyArgon2id(password, digest)
	case IsLegacyDigest(digest):
		if err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)); err != nil {
			if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
				return ErrMismatch
			}
			return fmt.Errorf("invalid hash format: %w", err)
		}
		return nil
	default:
		return ErrUnknownDigest
	}
}

// IsLegacyDigest reports whether digest is a bcrypt digest that should be
// upgraded to Argon2id after the next successful login.
func IsLegacyDigest(digest string) bool {
	return strings.HasPrefix(digest, "$2a$") ||
		strings.HasPrefix(digest, "$2b$") ||
		strings.HasPrefix(digest, "$2y$")
}

func verifyArgon2id(password, digest string) error {
	// "", "argon2id", "v=19", "m=..,t=..,p=..", salt, hash
	parts := strings.Split(digest, "$")
	if len(parts) != 6 {
		return errors.New("invalid hash format: expected 6 parts")
	}
	if parts[2] != fmt.Sprintf("v=%d", argon2.Version) {
		return errors.New("invalid hash format: wrong version")
	}

	var mem, iters uint32
	var par uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &mem, &iters, &par); err != nil {
		return fmt.Errorf("invalid hash format: failed to parse parameters: %w", err)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return fmt.Errorf("invalid hash format: failed to decode salt: %w", err)
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return fmt.Errorf("invalid hash format: failed to decode hash: %w", err)
	}

	p, err := currentPepper()
	if err != nil {
		return fmt.Errorf("cryptox: load pepper: %w", err)
	}

	got := argon2.IDKey([]byte(password+p), salt, iters, mem, par, uint32(len(want))) // #nosec G115
	if subtle.ConstantTimeCompare(got, want) != 1 {
		return ErrMismatch
	}
	return nil
}
