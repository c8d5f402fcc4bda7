package handlers

import (
	"github.com/ahmetcoskunkizilkaya/finovo/internal/dto"
	"github.com/ahmetcoskunkizilkaya/finovo/internal/services"
	"github.com/gofiber/fiber/v2"
)

type AdminHandler struct {
	subscriptionService *services.SubscriptionService
}

func NewAdminHandler(subscriptionService *services.SubscriptionService) *AdminHandler {
	return &AdminHandler{subscriptionService: subscriptionService}
}

func (h *AdminHandler) ListRequests(c *fiber.Ctx) error {
	requests, err := h.subscriptionService.ListRequests(c.UserContext())
	if err != nil {
		return RespondError(c, err)
	}

	out := make([]dto.RequestResponse, 0, len(requests))
	for i := range requests {
		out = append(out, dto.NewRequestResponse(&requests[i]))
	}
	return c.JSON(out)
}

func (h *AdminHandler) ResolveRequest(c *fiber.Ctx) error {
	var body dto.ResolveRequestBody
	if err := Bind(c, &body); err != nil {
		return RespondError(c, err)
	}

	req, err := h.subscriptionService.Resolve(c.UserContext(), body.RequestID, body.Action, body.AdminNotes)
	if err != nil {
		return RespondError(c, err)
	}
	return c.JSON(dto.NewRequestResponse(req))
}

func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.subscriptionService.ListUsers(c.UserContext())
	if err != nil {
		return RespondError(c, err)
	}
	return c.JSON(users)
}
