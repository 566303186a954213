package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/factory-ops/internal/domain"
	apperrors "github.com/spec-kit/factory-ops/pkg/util"
)

// Authorize is the role gate: it permits claims whose role is in the
// allow-set. Nil claims or an empty role means the route ran without the
// credential middleware, which is reported as unauthenticated rather than
// forbidden. Comparison is case-insensitive on both sides; the allow-set is
// re-normalized at every call.
func Authorize(claims *Claims, allowed ...domain.Role) error {
	if claims == nil || claims.Role == "" {
		return apperrors.NewUnauthorized("authentication required")
	}
	role, ok := domain.ParseRole(claims.Role)
	if !ok {
		return apperrors.NewForbidden("permission denied")
	}
	for _, a := range allowed {
		want, ok := domain.ParseRole(string(a))
		if ok && want == role {
			return nil
		}
	}
	return apperrors.NewForbidden("permission denied")
}

// RequireRoles builds a fiber handler from the Authorize predicate. Route
// groups may stack several of these for different sub-actions.
func RequireRoles(allowed ...domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, _ := ClaimsFromContext(c)
		if err := Authorize(claims, allowed...); err != nil {
			return err
		}
		return c.Next()
	}
}

// RequireElevated is shorthand for the admin/manager allow-set.
func RequireElevated() fiber.Handler {
	return RequireRoles(domain.RoleAdmin, domain.RoleManager)
}
