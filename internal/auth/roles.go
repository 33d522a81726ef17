package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/chat-service/internal/domain"
	apperrors "github.com/spec-kit/chat-service/pkg/util/errorutil"
)

// RequireAdmin ensures the authenticated caller is an administrator.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if principal.SubjectType != domain.SubjectTypeAdmin {
			return apperrors.NewForbidden(apperrors.CodeForbidden, "admin privileges required")
		}
		return c.Next()
	}
}

// AdminGuard returns the handler chain protecting admin routes. When enforce is
// false the chain is empty and admin routes stay open.
func AdminGuard(m *AuthMiddleware, enforce bool) []fiber.Handler {
	if !enforce || m == nil {
		return nil
	}
	return []fiber.Handler{m.Handle, RequireAdmin()}
}
