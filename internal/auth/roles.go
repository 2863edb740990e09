package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/repair-service/internal/domain"
	apperrors "github.com/spec-kit/repair-service/pkg/util/errorutil"
)

// RequireRole checks the session user's role.
func RequireRole(user *domain.User, role domain.Role) error {
	if user == nil {
		return apperrors.NewNoSession()
	}
	if user.Role != role {
		return apperrors.NewForbidden("Admin only area")
	}
	return nil
}

// RequireRoleHandler sends users without role back to the dashboard.
func RequireRoleHandler(role domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, _ := UserFromContext(c)
		if err := RequireRole(user, role); err != nil {
			if apperrors.HasCode(err, apperrors.CodeNoSession) {
				return c.Redirect(LoginPath, fiber.StatusSeeOther)
			}
			return c.Redirect(DashboardPath, fiber.StatusSeeOther)
		}
		return c.Next()
	}
}
