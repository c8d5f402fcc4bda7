package expenses

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/finovo/internal/dto"
	"github.com/ahmetcoskunkizilkaya/finovo/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/finovo/internal/session"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ExpenseHandler struct {
	service *ExpenseService
}

func NewExpenseHandler(service *ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{service: service}
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Error: true, Message: "Unauthorized",
	})
}

func (h *ExpenseHandler) List(c *fiber.Ctx) error {
	userID, err := session.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	filter := ListFilter{Category: c.Query("category")}
	if raw := c.Query("startDate"); raw != "" {
		start, err := ParseDate(raw, false)
		if err != nil {
			return handlers.RespondError(c, err)
		}
		filter.Start = &start
	}
	if raw := c.Query("endDate"); raw != "" {
		end, err := ParseDate(raw, true)
		if err != nil {
			return handlers.RespondError(c, err)
		}
		filter.End = &end
	}

	expenses, err := h.service.List(c.UserContext(), userID, filter)
	if err != nil {
		return handlers.RespondError(c, err)
	}
	return c.JSON(expenses)
}

func (h *ExpenseHandler) Create(c *fiber.Ctx) error {
	userID, err := session.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req ExpenseRequest
	if err := handlers.Bind(c, &req); err != nil {
		return handlers.RespondError(c, err)
	}

	expense, err := h.service.Create(c.UserContext(), userID, req)
	if err != nil {
		return handlers.RespondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(expense)
}

func (h *ExpenseHandler) Update(c *fiber.Ctx) error {
	userID, err := session.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	expenseID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "Expense not found",
		})
	}

	var req ExpenseRequest
	if err := handlers.Bind(c, &req); err != nil {
		return handlers.RespondError(c, err)
	}

	expense, err := h.service.Update(c.UserContext(), userID, expenseID, req)
	if err != nil {
		return handlers.RespondError(c, err)
	}
	return c.JSON(expense)
}

func (h *ExpenseHandler) Delete(c *fiber.Ctx) error {
	userID, err := session.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	expenseID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "Expense not found",
		})
	}

	if err := h.service.Delete(c.UserContext(), userID, expenseID); err != nil {
		return handlers.RespondError(c, err)
	}
	return c.JSON(DeleteExpenseResponse{Message: "Expense deleted successfully"})
}

func (h *ExpenseHandler) Stats(c *fiber.Ctx) error {
	userID, err := session.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	stats, err := h.service.Stats(c.UserContext(), userID)
	if err != nil {
		return handlers.RespondError(c, err)
	}
	return c.JSON(stats)
}

func (h *ExpenseHandler) Export(c *fiber.Ctx) error {
	userID, err := session.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	csvBytes, err := h.service.Export(c.UserContext(), userID)
	if err != nil {
		return handlers.RespondError(c, err)
	}

	filename := "finovo-expenses-" + time.Now().UTC().Format(dateOnly) + ".csv"
	c.Set("Content-Type", "text/csv")
	c.Set("Content-Disposition", "attachment; filename="+filename)
	c.Set("Cache-Control", "no-cache")

	return c.Send(csvBytes)
}

func (h *ExpenseHandler) Insights(c *fiber.Ctx) error {
	userID, err := session.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	insights, err := h.service.Insights(c.UserContext(), userID)
	if err != nil {
		return handlers.RespondError(c, err)
	}
	return c.JSON(insights)
}

func (h *ExpenseHandler) Dashboard(c *fiber.Ctx) error {
	userID, err := session.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	dashboard, err := h.service.Dashboard(c.UserContext(), userID)
	if err != nil {
		return handlers.RespondError(c, err)
	}
	return c.JSON(dashboard)
}

func (h *ExpenseHandler) Overview(c *fiber.Ctx) error {
	overview, err := h.service.Overview(c.UserContext())
	if err != nil {
		return handlers.RespondError(c, err)
	}
	return c.JSON(overview)
}
