package handlers

import (
	"github.com/ahmetcoskunkizilkaya/finovo/internal/dto"
	"github.com/ahmetcoskunkizilkaya/finovo/internal/services"
	"github.com/ahmetcoskunkizilkaya/finovo/internal/session"
	"github.com/ahmetcoskunkizilkaya/finovo/internal/subscription"
	"github.com/gofiber/fiber/v2"
)

type SubscriptionHandler struct {
	subscriptionService *services.SubscriptionService
}

func NewSubscriptionHandler(subscriptionService *services.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptionService: subscriptionService}
}

// Get returns the caller's subscription as stored, not as carried in the token.
func (h *SubscriptionHandler) Get(c *fiber.Ctx) error {
	userID, err := session.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	info, err := h.subscriptionService.GetInfo(c.UserContext(), userID)
	if err != nil {
		return RespondError(c, err)
	}
	return c.JSON(info)
}

func (h *SubscriptionHandler) Submit(c *fiber.Ctx) error {
	userID, err := session.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var body dto.SubmitRequestBody
	if err := Bind(c, &body); err != nil {
		return RespondError(c, err)
	}

	req, err := h.subscriptionService.Submit(c.UserContext(), userID, body.SubscriptionType, body.Reason)
	if err != nil {
		return RespondError(c, err)
	}

	return c.JSON(dto.SubmitResponse{
		Message: "Subscription request submitted successfully",
		Request: dto.NewRequestResponse(req),
	})
}

func (h *SubscriptionHandler) Plans(c *fiber.Ctx) error {
	return c.JSON(subscription.Plans())
}
