package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Params are the Argon2id cost settings recorded in every PHC string.
type Params struct {
	Time    uint32
	Memory  uint32 // KiB
	Threads uint8
	KeyLen  uint32
	SaltLen int
}

// DefaultParams follows the OWASP Argon2id recommendation.
var DefaultParams = Params{
	Time:    3,
	Memory:  64 * 1024,
	Threads: 1,
	KeyLen:  32,
	SaltLen: 16,
}

// Hasher hashes and verifies passwords with fixed Argon2id parameters.
// Verification always uses the parameters stored in the hash, so changing
// Params only affects new hashes.
type Hasher struct {
	params Params
}

// NewHasher creates a Hasher with the given parameters.
func NewHasher(p Params) *Hasher {
	return &Hasher{params: p}
}

// HashPassword hashes a password with DefaultParams.
func HashPassword(password string) (string, error) {
	return NewHasher(DefaultParams).Hash(password)
}

// VerifyPassword checks a password against a PHC string produced by any Hasher.
func VerifyPassword(password, encodedHash string) (bool, error) {
	return NewHasher(DefaultParams).Verify(password, encodedHash)
}

// Hash returns the password in PHC string format:
// $argon2id$v=19$m=65536,t=3,p=1$<salt>$<hash>
func (h *Hasher) Hash(password string) (string, error) {
	salt := make([]byte, h.params.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt, h.params.Time, h.params.Memory, h.params.Threads, h.params.KeyLen)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		h.params.Memory, h.params.Time, h.params.Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify reports whether password matches encodedHash, in constant time.
func (h *Hasher) Verify(password, encodedHash string) (bool, error) {
	stored, err := decodePHC(encodedHash)
	if err != nil {
		return false, err
	}

	candidate := argon2.IDKey([]byte(password), stored.salt,
		stored.params.Time, stored.params.Memory, stored.params.Threads,
		uint32(len(stored.key))) //nolint:gosec // G115: key length always fits uint32

	return subtle.ConstantTimeCompare(stored.key, candidate) == 1, nil
}

// NeedsRehash reports whether encodedHash was produced with weaker or
// different parameters than this Hasher's.
func (h *Hasher) NeedsRehash(encodedHash string) bool {
	stored, err := decodePHC(encodedHash)
	if err != nil {
		return true
	}
	p := stored.params
	return p.Time != h.params.Time || p.Memory != h.params.Memory || p.Threads != h.params.Threads ||
		uint32(len(stored.key)) != h.params.KeyLen //nolint:gosec // G115: key length always fits uint32
}

type phcHash struct {
	params Params
	salt   []byte
	key    []byte
}

// decodePHC parses an Argon2id PHC string.
func decodePHC(encoded string) (phcHash, error) {
	var out phcHash

	parts := strings.Split(encoded, "$")
	if len(parts) != 6 { //nolint:mnd // PHC format has exactly 6 $-delimited parts
		return out, fmt.Errorf("invalid PHC hash format")
	}
	if parts[1] != "argon2id" {
		return out, fmt.Errorf("unsupported algorithm: %s", parts[1])
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return out, fmt.Errorf("parsing version: %w", err)
	}
	if version != argon2.Version {
		return out, fmt.Errorf("unsupported argon2 version: %d", version)
	}

	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d",
		&out.params.Memory, &out.params.Time, &out.params.Threads); err != nil {
		return out, fmt.Errorf("parsing parameters: %w", err)
	}

	var err error
	if out.salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil {
		return out, fmt.Errorf("decoding salt: %w", err)
	}
	if out.key, err = base64.RawStdEncoding.DecodeString(parts[5]); err != nil {
		return out, fmt.Errorf("decoding hash: %w", err)
	}
	if len(out.key) == 0 {
		return out, fmt.Errorf("decoding hash: empty key")
	}

	return out, nil
}
