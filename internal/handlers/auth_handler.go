package handlers

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/finovo/internal/config"
	"github.com/ahmetcoskunkizilkaya/finovo/internal/dto"
	"github.com/ahmetcoskunkizilkaya/finovo/internal/services"
	"github.com/ahmetcoskunkizilkaya/finovo/internal/session"
	"github.com/gofiber/fiber/v2"
)

const sessionCookie = "session_token"

type AuthHandler struct {
	authService *services.AuthService
	cfg         *config.Config
}

func NewAuthHandler(authService *services.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{authService: authService, cfg: cfg}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := Bind(c, &req); err != nil {
		return RespondError(c, err)
	}

	user, err := h.authService.Register(c.UserContext(), &req)
	if err != nil {
		return RespondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User created successfully",
		"user":    user,
	})
}

// Login returns the token pair and also sets the access token as an
// HTTP-only cookie for page routes.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := Bind(c, &req); err != nil {
		return RespondError(c, err)
	}

	resp, err := h.authService.Login(c.UserContext(), &req)
	if err != nil {
		return RespondError(c, err)
	}

	h.setSessionCookie(c, resp.AccessToken, resp.ExpiresAt)
	return c.JSON(resp)
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if err := Bind(c, &req); err != nil {
		return RespondError(c, err)
	}

	resp, err := h.authService.Refresh(c.UserContext(), &req)
	if err != nil {
		return RespondError(c, err)
	}

	h.setSessionCookie(c, resp.AccessToken, resp.ExpiresAt)
	return c.JSON(resp)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	var req dto.LogoutRequest
	if err := Bind(c, &req); err != nil {
		return RespondError(c, err)
	}

	if err := h.authService.Logout(c.UserContext(), &req); err != nil {
		return RespondError(c, err)
	}

	c.ClearCookie(sessionCookie)
	return c.JSON(fiber.Map{"message": "Logged out successfully"})
}

// Profile serves both GET /api/user/profile and the /profile page.
func (h *AuthHandler) Profile(c *fiber.Ctx) error {
	userID, err := session.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	profile, err := h.authService.Profile(c.UserContext(), userID)
	if err != nil {
		return RespondError(c, err)
	}
	return c.JSON(profile)
}

func (h *AuthHandler) setSessionCookie(c *fiber.Ctx, token string, expires time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HTTPOnly: true,
		Secure:   h.cfg.IsProduction(),
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
