package password

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// Hasher defines password hashing contract.
type Hasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// BcryptHasher implements Hasher using bcrypt.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a bcrypt-backed password hasher. A zero cost selects
// bcrypt.DefaultCost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash converts plain password into hash.
func (h *BcryptHasher) Hash(password string) (string, error) {
	if password == "" {
		return "", errors.New("password: empty password")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Compare checks if provided password matches stored hash.
func (h *BcryptHasher) Compare(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// SharedSecret checks every login against one demo password. The hash is computed once
// so the plain value is not kept around after start-up.
type SharedSecret struct {
	hasher Hasher
	hash   string
}

// NewSharedSecret hashes secret with hasher.
func NewSharedSecret(hasher Hasher, secret string) (*SharedSecret, error) {
	hash, err := hasher.Hash(secret)
	if err != nil {
		return nil, err
	}
	return &SharedSecret{hasher: hasher, hash: hash}, nil
}

// Matches reports whether candidate equals the configured secret.
func (s *SharedSecret) Matches(candidate string) bool {
	if candidate == "" {
		return false
	}
	return s.hasher.Compare(s.hash, candidate) == nil
}
