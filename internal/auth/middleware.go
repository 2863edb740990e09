package auth

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/repair-service/internal/domain"
	apperrors "github.com/spec-kit/repair-service/pkg/util/errorutil"
)

const (
	userKey = "auth_user"

	// CookieName carries the session token for browser clients.
	CookieName = "vrs_session"

	// LoginPath and DashboardPath are the redirect targets for missing
	// sessions and missing roles.
	LoginPath     = "/login"
	DashboardPath = "/dashboard"
)

// SessionResolver turns a session token into the logged-in user.
type SessionResolver interface {
	RequireSession(ctx context.Context, token string) (*domain.User, error)
}

// SessionMiddleware loads the session user for protected routes.
type SessionMiddleware struct {
	sessions SessionResolver
}

// NewSessionMiddleware constructs middleware.
func NewSessionMiddleware(sessions SessionResolver) *SessionMiddleware {
	return &SessionMiddleware{sessions: sessions}
}

// Handle redirects to the login entry point when no session is active.
func (m *SessionMiddleware) Handle(c *fiber.Ctx) error {
	token := TokenFromRequest(c)
	user, err := m.sessions.RequireSession(c.UserContext(), token)
	if err != nil {
		if apperrors.HasCode(err, apperrors.CodeNoSession) {
			return c.Redirect(LoginPath, fiber.StatusSeeOther)
		}
		return err
	}

	c.Locals(userKey, user)
	return c.Next()
}

// TokenFromRequest reads the session token from the Authorization header or
// the session cookie.
func TokenFromRequest(c *fiber.Ctx) string {
	if header := c.Get(fiber.HeaderAuthorization); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
	}
	return c.Cookies(CookieName)
}

// UserFromContext retrieves the session user.
func UserFromContext(c *fiber.Ctx) (*domain.User, bool) {
	user, ok := c.Locals(userKey).(*domain.User)
	return user, ok && user != nil
}
