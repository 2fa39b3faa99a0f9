package auth

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/vbonduro/homeinv/internal/domain"
)

func TestBcrypt_HashAndVerify(t *testing.T) {
	b := &Bcrypt{Cost: bcrypt.MinCost}

	h, err := b.Hash("secret1")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", h)
	assert.True(t, b.Verify(h, "secret1"))
	assert.False(t, b.Verify(h, "secret2"))
	assert.False(t, b.Verify("not-a-hash", "secret1"))
}

func TestBcrypt_LongPasswordIsValidationError(t *testing.T) {
	b := &Bcrypt{Cost: bcrypt.MinCost}

	_, err := b.Hash(strings.Repeat("a", 73))
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = b.Hash(strings.Repeat("a", 72))
	assert.NoError(t, err)
}

func TestNewVerificationCode(t *testing.T) {
	six := regexp.MustCompile(`^\d{6}$`)
	for i := 0; i < 50; i++ {
		code, err := NewVerificationCode(6)
		require.NoError(t, err)
		assert.Regexp(t, six, code)
	}

	_, err := NewVerificationCode(0)
	assert.Error(t, err)
}

func TestTokens_IssueAndParse(t *testing.T) {
	tok := NewTokens("s3cret", time.Minute, time.Hour)

	pair, err := tok.Issue(42)
	require.NoError(t, err)
	assert.Equal(t, int64(42), pair.UserID)

	id, err := tok.Parse(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
}

func TestTokens_RefreshTokenIsNotAccess(t *testing.T) {
	tok := NewTokens("s3cret", time.Minute, time.Hour)
	pair, err := tok.Issue(42)
	require.NoError(t, err)

	_, err = tok.Parse(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	renewed, err := tok.Refresh(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, int64(42), renewed.UserID)

	_, err = tok.Refresh(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokens_RejectsExpired(t *testing.T) {
	tok := NewTokens("s3cret", time.Minute, time.Hour)
	issued := time.Now().Add(-2 * time.Minute)
	tok.now = func() time.Time { return issued }
	pair, err := tok.Issue(1)
	require.NoError(t, err)

	tok.now = time.Now
	_, err = tok.Parse(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokens_RejectsWrongSecretAndAlgorithm(t *testing.T) {
	pair, err := NewTokens("one", time.Minute, time.Hour).Issue(1)
	require.NoError(t, err)

	_, err = NewTokens("two", time.Minute, time.Hour).Parse(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{Type: TokenAccess}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = NewTokens("one", time.Minute, time.Hour).Parse(none)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
