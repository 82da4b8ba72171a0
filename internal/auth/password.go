package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"quiz-backend/pkg/apierror"
)

const DefaultCost = bcrypt.DefaultCost

// MaxPasswordBytes is the longest input bcrypt accepts.
const MaxPasswordBytes = 72

// Hasher hashes and verifies passwords with bcrypt. It is immutable after
// construction and safe for concurrent use.
type Hasher struct {
	cost  int
	dummy []byte
}

// NewHasher builds a Hasher for the given bcrypt cost. It computes one dummy
// hash up front, used to equalize the cost of failed verifications.
func NewHasher(cost int) (*Hasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost %d out of range [%d, %d]", cost, bcrypt.MinCost, bcrypt.MaxCost)
	}

	dummy, err := bcrypt.GenerateFromPassword([]byte("dummy-password-for-timing"), cost)
	if err != nil {
		return nil, apierror.Crypto(err)
	}

	return &Hasher{cost: cost, dummy: dummy}, nil
}

func (h *Hasher) Cost() int {
	return h.cost
}

// Hash returns a salted bcrypt hash of password. Passwords over bcrypt's
// 72-byte input limit are a BAD_REQUEST; any other failure is CRYPTO_ERROR.
func (h *Hasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", apierror.BadRequest("password too long", fmt.Sprintf("at most %d bytes", MaxPasswordBytes))
	}
	if err != nil {
		return "", apierror.Crypto(err)
	}
	return string(hash), nil
}

// Verify reports whether password matches hash. A malformed hash is a failed
// verification and still costs one full comparison.
func (h *Hasher) Verify(password string, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err == nil {
		return true
	}

	if !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		h.Burn(password)
	}
	return false
}

// Burn performs one comparison against the dummy hash and discards the result.
func (h *Hasher) Burn(password string) {
	_ = bcrypt.CompareHashAndPassword(h.dummy, []byte(password))
}
