// Package password wraps bcrypt hashing behind a small, injectable hasher.
// Hash records are self-describing: the algorithm version, cost factor, and
// per-credential random salt are all embedded in the encoded string, so no
// extra storage or configuration is needed to verify later.
package password

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt cost factor used for new hashes. Deliberately
// slow to resist offline brute force; raise it as hardware improves.
const DefaultCost = 10

// Hasher creates and verifies salted password hashes.
type Hasher struct {
	cost int
}

// NewHasher returns a Hasher with the given bcrypt cost factor.
// Costs below the bcrypt minimum fall back to DefaultCost.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost {
		cost = DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash produces a salted hash record for the plaintext. The salt is
// generated fresh on every call, so hashing the same password twice yields
// different records.
func (h *Hasher) Hash(plaintext string) (string, error) {
	if plaintext == "" {
		return "", errors.New("password must not be empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify reports whether plaintext matches the given hash record.
// Mismatches, malformed records, and unknown algorithm prefixes all return
// false; verification failure is never an error.
func (h *Hasher) Verify(plaintext, record string) bool {
	return bcrypt.CompareHashAndPassword([]byte(record), []byte(plaintext)) == nil
}
