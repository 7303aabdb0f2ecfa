// Package fingerprint hashes raw bytes into fixed-length hex digests.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/pkg/errors"
	"github.com/zeebo/blake3"
)

const (
	SHA256 = "sha256"
	BLAKE3 = "blake3"
)

// Hasher content fingerprint function.
type Hasher interface {
	// Name returns the algorithm identifier.
	Name() string
	// Sum returns the lower-case hex digest of data.
	Sum(data []byte) string
}

// New returns the hasher for the given algorithm name. Empty selects SHA256.
func New(algorithm string) (Hasher, error) {
	switch strings.ToLower(strings.TrimSpace(algorithm)) {
	case "", SHA256:
		return sha256Hasher{}, nil
	case BLAKE3:
		return blake3Hasher{}, nil
	default:
		return nil, errors.Errorf("unsupported hash algorithm: %s", algorithm)
	}
}

type sha256Hasher struct{}

func (sha256Hasher) Name() string { return SHA256 }

func (sha256Hasher) Sum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

type blake3Hasher struct{}

func (blake3Hasher) Name() string { return BLAKE3 }

func (blake3Hasher) Sum(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}
