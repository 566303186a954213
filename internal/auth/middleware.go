package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	apperrors "github.com/spec-kit/factory-ops/pkg/util"
)

const claimsKey = "auth_claims"

// The scheme prefix is matched case-sensitively. "bearer x" is treated the
// same as no header at all.
const bearerPrefix = "Bearer "

// AuthMiddleware verifies bearer credentials and attaches the resulting
// claim set to the request context.
type AuthMiddleware struct {
	tokens *TokenManager
	logger *zap.Logger
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, logger: logger}
}

// Handle enforces authentication for protected routes. The two rejection
// messages are deliberately generic; the precise cause goes to the debug
// log only.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	header := c.Get(fiber.HeaderAuthorization)
	if !strings.HasPrefix(header, bearerPrefix) {
		m.logger.Debug("authorization header missing or wrong scheme", zap.String("path", c.Path()))
		return apperrors.NewUnauthorized("missing token")
	}

	claims, err := m.tokens.ParseToken(header[len(bearerPrefix):])
	if err != nil {
		m.logger.Debug("token rejected", zap.String("path", c.Path()), zap.Error(err))
		return apperrors.NewUnauthorized("invalid token")
	}

	c.Locals(claimsKey, claims)
	return c.Next()
}

// ClaimsFromContext retrieves the verified claim set for the request.
func ClaimsFromContext(c *fiber.Ctx) (*Claims, bool) {
	val := c.Locals(claimsKey)
	if val == nil {
		return nil, false
	}
	claims, ok := val.(*Claims)
	return claims, ok
}
