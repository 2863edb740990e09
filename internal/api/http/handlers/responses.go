package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/repair-service/internal/api/dto"
	"github.com/spec-kit/repair-service/internal/auth"
	"github.com/spec-kit/repair-service/internal/domain"
	"github.com/spec-kit/repair-service/internal/events"
	apperrors "github.com/spec-kit/repair-service/pkg/util/errorutil"
)

func userResponse(user *domain.User) dto.UserResponse {
	return dto.UserResponse{
		ID:    user.ID,
		Name:  user.Name,
		Role:  user.Role,
		NfcID: user.NfcID,
	}
}

func ticketResponse(ticket *domain.Ticket) dto.TicketResponse {
	return dto.TicketResponse{
		ID:        ticket.ID,
		CreatedAt: ticket.CreatedAt,
		Status:    ticket.Status,
		VIN:       ticket.VIN,
		Customer:  ticket.Customer,
		Phone:     ticket.Phone,
		Notes:     ticket.Notes,
	}
}

func loginResponse(user *domain.User, session *domain.Session) dto.LoginResponse {
	return dto.LoginResponse{
		User: userResponse(user),
		Session: dto.SessionResponse{
			Token:     session.Token,
			ExpiresAt: session.ExpiresAt,
		},
	}
}

// sessionUser returns the user loaded by the session middleware.
func sessionUser(c *fiber.Ctx) (*domain.User, error) {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return nil, apperrors.NewNoSession()
	}
	return user, nil
}

// actorContext attributes events published while serving c to the session user.
func actorContext(c *fiber.Ctx) context.Context {
	ctx := c.UserContext()
	if user, ok := auth.UserFromContext(c); ok {
		ctx = events.ContextWithActor(ctx, events.ActorFor(user))
	}
	return ctx
}

func setSessionCookie(c *fiber.Ctx, session *domain.Session) {
	c.Cookie(&fiber.Cookie{
		Name:     auth.CookieName,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HTTPOnly: true,
		Secure:   c.Protocol() == "https",
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func clearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
