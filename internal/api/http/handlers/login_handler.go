package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/repair-service/internal/api/dto"
	"github.com/spec-kit/repair-service/internal/auth"
	"github.com/spec-kit/repair-service/internal/badge"
	"github.com/spec-kit/repair-service/internal/domain"
	"github.com/spec-kit/repair-service/internal/service"
	apperrors "github.com/spec-kit/repair-service/pkg/util/errorutil"
)

// LoginHandler serves the unauthenticated login screen.
type LoginHandler struct {
	service *service.AuthService
	reader  *badge.Queue
}

// NewLoginHandler constructs handler. reader may be nil when badges come
// from real hardware only.
func NewLoginHandler(authService *service.AuthService, reader *badge.Queue) *LoginHandler {
	return &LoginHandler{service: authService, reader: reader}
}

// Page GET /login.
func (h *LoginHandler) Page(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": fiber.Map{
		"methods":       []string{service.LoginMethodPIN, service.LoginMethodBadge},
		"badgeSimulate": h.reader != nil,
	}})
}

// LoginByPin POST /login/pin.
func (h *LoginHandler) LoginByPin(c *fiber.Ctx) error {
	var req dto.PinLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	user, session, err := h.service.LoginByPin(c.UserContext(), strings.TrimSpace(req.PIN))
	return h.respond(c, user, session, err)
}

// LoginByBadge POST /login/badge.
func (h *LoginHandler) LoginByBadge(c *fiber.Ctx) error {
	var req dto.BadgeLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	user, session, err := h.service.LoginByBadge(c.UserContext(), req.BadgeID)
	return h.respond(c, user, session, err)
}

// LoginByBadgeScan POST /login/badge/scan. Blocks until a badge is read or
// the scan times out.
func (h *LoginHandler) LoginByBadgeScan(c *fiber.Ctx) error {
	user, session, err := h.service.LoginByBadgeScan(c.UserContext())
	return h.respond(c, user, session, err)
}

// SimulateBadge POST /badge/simulate hands badge text to the pending scan.
func (h *LoginHandler) SimulateBadge(c *fiber.Ctx) error {
	if h.reader == nil {
		return apperrors.NewTransportError(errors.New("badge simulation unavailable"))
	}
	var req dto.SimulateBadgeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Text) == "" {
		return apperrors.NewValidationError("text required", nil)
	}
	if err := h.reader.Present(req.Text); err != nil {
		if errors.Is(err, badge.ErrNoReader) {
			return apperrors.NewValidationError("No badge scan in progress", nil)
		}
		return apperrors.NewTransportError(err)
	}
	return c.SendStatus(fiber.StatusAccepted)
}

// Logout POST /logout.
func (h *LoginHandler) Logout(c *fiber.Ctx) error {
	if err := h.service.Logout(c.UserContext(), auth.TokenFromRequest(c)); err != nil {
		return err
	}
	clearSessionCookie(c)
	return c.Redirect(auth.LoginPath, fiber.StatusSeeOther)
}

func (h *LoginHandler) respond(c *fiber.Ctx, user *domain.User, session *domain.Session, err error) error {
	if err != nil {
		return err
	}
	setSessionCookie(c, session)
	return c.JSON(fiber.Map{"data": loginResponse(user, session)})
}
