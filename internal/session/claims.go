package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/ahmetcoskunkizilkaya/finovo/internal/models"
	"github.com/ahmetcoskunkizilkaya/finovo/internal/subscription"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Locals key the JWT middleware stores the parsed token under.
const LocalsKey = "user"

const (
	claimSubject          = "sub"
	claimEmail            = "email"
	claimName             = "name"
	claimIsAdmin          = "is_admin"
	claimSubscriptionType = "subscription_type"
	claimSubscriptionEnd  = "subscription_end"
)

var (
	ErrNoSession     = errors.New("no session token in context")
	ErrInvalidClaims = errors.New("invalid session claims")
)

// Claims is the identity and subscription snapshot carried by an access
// token. It is only as fresh as the last token issuance.
type Claims struct {
	UserID           uuid.UUID
	Email            string
	Name             string
	IsAdmin          bool
	SubscriptionType subscription.Type
	SubscriptionEnd  *time.Time
}

// ClaimsFor builds access token claims from the authoritative user row.
func ClaimsFor(user *models.User, issuedAt time.Time, ttl time.Duration) jwt.MapClaims {
	claims := jwt.MapClaims{
		claimSubject:          user.ID.String(),
		claimEmail:            user.Email,
		claimName:             user.Name,
		claimIsAdmin:          user.IsAdmin,
		claimSubscriptionType: string(user.SubscriptionType),
		"iat":                 issuedAt.Unix(),
		"exp":                 issuedAt.Add(ttl).Unix(),
	}
	if user.SubscriptionEnd != nil {
		claims[claimSubscriptionEnd] = user.SubscriptionEnd.UTC().Format(time.RFC3339Nano)
	}
	return claims
}

// Parse reads Claims out of a MapClaims set. A missing or unknown
// subscription type is read as NONE.
func Parse(mc jwt.MapClaims) (*Claims, error) {
	sub, _ := mc[claimSubject].(string)
	userID, err := uuid.Parse(sub)
	if err != nil {
		return nil, fmt.Errorf("%w: sub: %v", ErrInvalidClaims, err)
	}

	claims := &Claims{UserID: userID}
	claims.Email, _ = mc[claimEmail].(string)
	claims.Name, _ = mc[claimName].(string)
	claims.IsAdmin, _ = mc[claimIsAdmin].(bool)

	rawType, _ := mc[claimSubscriptionType].(string)
	claims.SubscriptionType, err = subscription.ParseType(rawType)
	if err != nil {
		claims.SubscriptionType = subscription.TypeNone
	}

	if rawEnd, ok := mc[claimSubscriptionEnd].(string); ok && rawEnd != "" {
		end, err := time.Parse(time.RFC3339Nano, rawEnd)
		if err != nil {
			return nil, fmt.Errorf("%w: subscription_end: %v", ErrInvalidClaims, err)
		}
		claims.SubscriptionEnd = &end
	}
	return claims, nil
}

// FromContext extracts Claims from the token the JWT middleware stored.
func FromContext(c *fiber.Ctx) (*Claims, error) {
	token, ok := c.Locals(LocalsKey).(*jwt.Token)
	if !ok || token == nil {
		return nil, ErrNoSession
	}
	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidClaims
	}
	return Parse(mc)
}

// GetUserID extracts the user UUID from the session in context.
func GetUserID(c *fiber.Ctx) (uuid.UUID, error) {
	claims, err := FromContext(c)
	if err != nil {
		return uuid.Nil, err
	}
	return claims.UserID, nil
}
