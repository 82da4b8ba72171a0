package auth

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"quiz-backend/pkg/apierror"
)

func newTestHasher(t *testing.T) *Hasher {
	t.Helper()

	hasher, err := NewHasher(bcrypt.MinCost)
	require.NoError(t, err)
	return hasher
}

func TestHasherRoundTrip(t *testing.T) {
	t.Parallel()

	hasher := newTestHasher(t)

	for _, password := range []string{"hunter22", "correct horse battery staple", "ünïcödé-pässwörd", " "} {
		hash, err := hasher.Hash(password)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(hash, "$2a$"), hash)
		assert.NotContains(t, hash, password)
		assert.True(t, hasher.Verify(password, hash))
		assert.False(t, hasher.Verify(password+"x", hash))
	}
}

func TestHasherSaltsEveryHash(t *testing.T) {
	t.Parallel()

	hasher := newTestHasher(t)

	first, err := hasher.Hash("same-password")
	require.NoError(t, err)
	second, err := hasher.Hash("same-password")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, hasher.Verify("same-password", first))
	assert.True(t, hasher.Verify("same-password", second))
}

func TestHasherMalformedHashIsFailure(t *testing.T) {
	t.Parallel()

	hasher := newTestHasher(t)

	for _, hash := range []string{"", "not-a-hash", "$2a$04$tooshort", "plaintext-password"} {
		assert.False(t, hasher.Verify("plaintext-password", hash), hash)
	}
}

func TestHasherRejectsOverlongPassword(t *testing.T) {
	t.Parallel()

	hasher := newTestHasher(t)

	_, err := hasher.Hash(strings.Repeat("a", MaxPasswordBytes+1))
	require.Error(t, err)
	assert.Equal(t, apierror.KindBadRequest, apierror.KindOf(err))
	assert.Equal(t, http.StatusBadRequest, apierror.KindOf(err).HTTPStatus())

	// Multi-byte runes count in bytes, not characters.
	_, err = hasher.Hash(strings.Repeat("ü", 37))
	assert.Equal(t, apierror.KindBadRequest, apierror.KindOf(err))

	_, err = hasher.Hash(strings.Repeat("a", MaxPasswordBytes))
	require.NoError(t, err)
}

func TestNewHasherValidatesCost(t *testing.T) {
	t.Parallel()

	_, err := NewHasher(bcrypt.MaxCost + 1)
	require.Error(t, err)

	_, err = NewHasher(1)
	require.Error(t, err)

	hasher := newTestHasher(t)
	assert.Equal(t, bcrypt.MinCost, hasher.Cost())
}
