package middleware

import (
	"github.com/ahmetcoskunkizilkaya/finovo/internal/config"
	"github.com/ahmetcoskunkizilkaya/finovo/internal/dto"
	"github.com/ahmetcoskunkizilkaya/finovo/internal/session"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
)

// Browsers send the cookie, API clients the bearer header. A custom
// TokenLookup disables the default auth scheme, so it is set explicitly.
const (
	tokenLookup = "header:Authorization,cookie:session_token"
	authScheme  = "Bearer"
)

// JWTProtected rejects requests without a valid session token with 401.
func JWTProtected(cfg *config.Config) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:  jwtware.SigningKey{Key: []byte(cfg.JWTSecret)},
		TokenLookup: tokenLookup,
		AuthScheme:  authScheme,
		ContextKey:  session.LocalsKey,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error:   true,
				Message: "Unauthorized: invalid or expired token",
			})
		},
	})
}

// SessionOptional parses the session token when one is present and valid,
// and otherwise lets the request through anonymously. Whatever runs next
// decides what an anonymous request may do.
func SessionOptional(cfg *config.Config) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:  jwtware.SigningKey{Key: []byte(cfg.JWTSecret)},
		TokenLookup: tokenLookup,
		AuthScheme:  authScheme,
		ContextKey:  session.LocalsKey,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Next()
		},
	})
}
