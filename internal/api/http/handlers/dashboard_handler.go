package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/repair-service/internal/api/dto"
	"github.com/spec-kit/repair-service/internal/domain"
	"github.com/spec-kit/repair-service/internal/service"
	"github.com/spec-kit/repair-service/internal/vin"
	apperrors "github.com/spec-kit/repair-service/pkg/util/errorutil"
)

// DashboardHandler serves ticket intake and the ticket list.
type DashboardHandler struct {
	service *service.TicketService
}

// NewDashboardHandler constructs handler.
func NewDashboardHandler(ticketService *service.TicketService) *DashboardHandler {
	return &DashboardHandler{service: ticketService}
}

// Whoami GET /dashboard.
func (h *DashboardHandler) Whoami(c *fiber.Ctx) error {
	user, err := sessionUser(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.DashboardResponse{
		User:      userResponse(user),
		ShowAdmin: user.IsAdmin(),
	}})
}

// ListTickets GET /tickets?q=.
func (h *DashboardHandler) ListTickets(c *fiber.Ctx) error {
	tickets, err := h.service.Search(c.UserContext(), c.Query("q"))
	if err != nil {
		return err
	}
	items := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, ticketResponse(&tickets[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// CreateTicket POST /tickets.
func (h *DashboardHandler) CreateTicket(c *fiber.Ctx) error {
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	input, err := service.ValidateIntake(service.TicketCreateInput{
		VIN:      req.VIN,
		Customer: req.Customer,
		Phone:    req.Phone,
		Notes:    req.Notes,
	})
	if err != nil {
		return err
	}
	ticket, err := h.service.Create(actorContext(c), input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// UpdateStatus PATCH /tickets/:id/status. Unknown ids are ignored.
func (h *DashboardHandler) UpdateStatus(c *fiber.Ctx) error {
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if !req.Status.Valid() {
		return apperrors.NewValidationError("unknown status", map[string]any{
			"status":  req.Status,
			"allowed": domain.TicketStatuses,
		})
	}
	if err := h.service.SetStatus(actorContext(c), c.Params("id"), req.Status); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ScanVIN POST /vin/scan normalizes scanner input for the intake form.
func (h *DashboardHandler) ScanVIN(c *fiber.Ctx) error {
	var req dto.VINScanRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	buf := vin.NewScanBuffer(req.AutoComplete)
	buf.Feed(req.Text)

	resp := dto.VINScanResponse{
		VIN:      buf.Value(),
		Length:   len(buf.Value()),
		Complete: buf.Complete(),
		Scanned:  buf.Done(),
	}
	if !resp.Complete {
		resp.Message = vin.IncompleteMessage
	}
	return c.JSON(fiber.Map{"data": resp})
}
