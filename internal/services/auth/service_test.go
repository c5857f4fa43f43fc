package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/typeracehq/typerace/internal/model"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	service, err := New(Config{Secret: "test-secret-for-unit-tests-only", TokenDuration: time.Hour})
	require.NoError(t, err)
	return service
}

func TestNewRequiresSecret(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}

func TestVerifyRoundTrip(t *testing.T) {
	service := newTestService(t)

	token, err := service.GenerateToken(Identity{
		UserID: "user-1",
		Name:   "Alice",
		Email:  "alice@example.com",
	})
	require.NoError(t, err)

	identity, err := service.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, model.UserID("user-1"), identity.UserID)
	assert.Equal(t, "Alice", identity.Name)
	assert.Equal(t, "alice@example.com", identity.Email)
}

func TestVerifyEmptyToken(t *testing.T) {
	service := newTestService(t)

	_, err := service.Verify("")
	assert.ErrorIs(t, err, ErrMissingToken)
}

func TestVerifyGarbageToken(t *testing.T) {
	service := newTestService(t)

	_, err := service.Verify("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyWrongSecret(t *testing.T) {
	other, err := New(Config{Secret: "a-completely-different-secret"})
	require.NoError(t, err)

	token, err := other.GenerateToken(Identity{UserID: "user-1", Name: "Alice"})
	require.NoError(t, err)

	service := newTestService(t)
	_, err = service.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyExpiredToken(t *testing.T) {
	service := newTestService(t)

	claims := &Claims{
		Name: "Alice",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte("test-secret-for-unit-tests-only"))
	require.NoError(t, err)

	_, err = service.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsMissingSubject(t *testing.T) {
	service := newTestService(t)

	claims := &Claims{
		Name: "Alice",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte("test-secret-for-unit-tests-only"))
	require.NoError(t, err)

	_, err = service.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsUnsignedToken(t *testing.T) {
	service := newTestService(t)

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1"},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = service.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
