package auth

import (
	"errors"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/factory-ops/internal/domain"
)

const testSecret = "unit-test-secret"

func signClaims(t *testing.T, secret string, claims *Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestGenerateAndParse(t *testing.T) {
	tm := NewTokenManager(testSecret, 60)
	user := &domain.User{ID: "u-1", Email: "amira@example.com", Role: domain.RoleManager}

	tokenStr, expiresAt, err := tm.GenerateToken(user)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)

	claims, err := tm.ParseToken(tokenStr)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "manager", claims.Role)
	assert.Equal(t, "amira@example.com", claims.Email)
}

func TestParseNormalizesRoleCase(t *testing.T) {
	// tokens issued by older code paths may carry mixed-case roles
	tokenStr := signClaims(t, testSecret, &Claims{
		UserID: "u-2",
		Role:   "Admin",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	tm := NewTokenManager(testSecret, 60)
	claims, err := tm.ParseToken(tokenStr)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, domain.RoleAdmin, claims.Actor().Role)
}

func TestParseRejectsExpired(t *testing.T) {
	tokenStr := signClaims(t, testSecret, &Claims{
		UserID: "u-3",
		Role:   "staff",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})

	tm := NewTokenManager(testSecret, 60)
	claims, err := tm.ParseToken(tokenStr)
	assert.Nil(t, claims)
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestParseRejectsWrongSignature(t *testing.T) {
	tokenStr := signClaims(t, "other-secret", &Claims{
		UserID: "u-4",
		Role:   "staff",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	tm := NewTokenManager(testSecret, 60)
	claims, err := tm.ParseToken(tokenStr)
	assert.Nil(t, claims)
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestParseRejectsGarbage(t *testing.T) {
	tm := NewTokenManager(testSecret, 60)
	for _, raw := range []string{"", "not-a-token", "a.b.c"} {
		claims, err := tm.ParseToken(raw)
		assert.Nil(t, claims, "raw=%q", raw)
		assert.True(t, errors.Is(err, ErrInvalidToken), "raw=%q", raw)
	}
}

func TestParseRejectsUnknownRole(t *testing.T) {
	tokenStr := signClaims(t, testSecret, &Claims{
		UserID: "u-5",
		Role:   "superuser",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	tm := NewTokenManager(testSecret, 60)
	claims, err := tm.ParseToken(tokenStr)
	assert.Nil(t, claims)
	assert.True(t, errors.Is(err, ErrInvalidToken))
}
