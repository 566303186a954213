package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/factory-ops/internal/domain"
)

// ErrInvalidToken covers every verification failure: malformed encoding,
// wrong signing method, bad signature and expiry. Callers must not be able
// to tell them apart.
var ErrInvalidToken = errors.New("invalid token")

// TokenManager handles issuing and validating JWT access tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager builds a new manager.
func NewTokenManager(secret string, ttlMinutes int) *TokenManager {
	if ttlMinutes <= 0 {
		ttlMinutes = 60
	}
	return &TokenManager{secret: []byte(secret), ttl: time.Duration(ttlMinutes) * time.Minute}
}

// Claims is the identity claim set carried by a token: who the caller is,
// their role and email. Derived per request and never persisted.
type Claims struct {
	UserID string `json:"uid"`
	Role   string `json:"role"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// Actor converts verified claims into the service-layer actor identity.
// Role is re-normalized here; claims issued by older code paths may carry
// mixed case.
func (c *Claims) Actor() domain.Actor {
	role, _ := domain.ParseRole(c.Role)
	return domain.Actor{ID: c.UserID, Role: role, Email: c.Email}
}

// GenerateToken builds and signs a JWT for the user. The role claim is
// lowercased at issuance.
func (tm *TokenManager) GenerateToken(user *domain.User) (string, time.Time, error) {
	expiresAt := time.Now().Add(tm.ttl)
	role, ok := domain.ParseRole(string(user.Role))
	if !ok {
		return "", time.Time{}, errors.New("user has no valid role")
	}
	claims := &Claims{
		UserID: user.ID,
		Role:   string(role),
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseToken validates a token and returns normalized claims. Any failure
// yields ErrInvalidToken wrapping the cause; the cause is for logs only.
func (tm *TokenManager) ParseToken(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secret, nil
	})
	if err != nil {
		return nil, errors.Join(ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	role, ok := domain.ParseRole(claims.Role)
	if !ok {
		return nil, errors.Join(ErrInvalidToken, errors.New("unknown role claim"))
	}
	claims.Role = string(role)
	return claims, nil
}
