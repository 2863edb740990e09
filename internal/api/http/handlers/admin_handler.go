package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/repair-service/internal/api/dto"
	"github.com/spec-kit/repair-service/internal/service"
	apperrors "github.com/spec-kit/repair-service/pkg/util/errorutil"
)

// AdminHandler manages staff accounts and badge enrollment.
type AdminHandler struct {
	service *service.AdminService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(adminService *service.AdminService) *AdminHandler {
	return &AdminHandler{service: adminService}
}

// ListUsers GET /admin/users.
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.service.ListUsers(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		items = append(items, userResponse(&users[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// CreateUser POST /admin/users.
func (h *AdminHandler) CreateUser(c *fiber.Ctx) error {
	var req dto.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	name, role, pin, err := service.ValidateNewUser(req.Name, req.Role, req.PIN)
	if err != nil {
		return err
	}
	user, err := h.service.AddUser(actorContext(c), name, role, pin)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": userResponse(user)})
}

// RemoveUser DELETE /admin/users/:id.
func (h *AdminHandler) RemoveUser(c *fiber.Ctx) error {
	if err := h.service.RemoveUser(actorContext(c), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Enroll POST /admin/users/:id/enroll writes the user's id to a presented badge.
func (h *AdminHandler) Enroll(c *fiber.Ctx) error {
	id := c.Params("id")
	badgeID, err := h.service.Enroll(actorContext(c), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.EnrollResponse{UserID: id, BadgeID: badgeID}})
}
