package middleware

import (
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/finovo/internal/dto"
	"github.com/ahmetcoskunkizilkaya/finovo/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/finovo/internal/session"
	"github.com/ahmetcoskunkizilkaya/finovo/internal/subscription"
	"github.com/gofiber/fiber/v2"
)

const (
	SignInPath         = "/auth/signin"
	NoSubscriptionPath = "/subscription?no-subscription=true"
	ExpiredPath        = "/subscription?expired=true"
	UpgradePath        = "/subscription"
)

// GateMode selects how a denial is delivered.
type GateMode int

const (
	// GateRedirect answers 302 with Location, for page routes.
	GateRedirect GateMode = iota
	// GateJSON answers 401/403 with the redirect target in the body, for API routes.
	GateJSON
)

var defaultPublicPaths = []string{"/", SignInPath, "/auth/signup"}

type GateConfig struct {
	Mode        GateMode
	PublicPaths []string
	// Protected lists path prefixes the gate enforces. Nil enforces every
	// path that is not public.
	Protected []string
	// Now is overridable in tests.
	Now func() time.Time
}

type gateOutcome string

const (
	outcomePublic         gateOutcome = "public"
	outcomeAllowed        gateOutcome = "allowed"
	outcomeNoSession      gateOutcome = "no_session"
	outcomeNoSubscription gateOutcome = "no_subscription"
	outcomeTrialExpired   gateOutcome = "trial_expired"
	outcomeExpired        gateOutcome = "expired"
)

// SubscriptionGate admits a request only when the session's subscription
// snapshot grants basic access. It reads token claims only and never writes.
func SubscriptionGate(cfg GateConfig) fiber.Handler {
	public := cfg.PublicPaths
	if public == nil {
		public = defaultPublicPaths
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return func(c *fiber.Ctx) error {
		path := c.Path()
		if cfg.Protected != nil && !hasAnyPrefix(path, cfg.Protected) {
			return c.Next()
		}
		if contains(public, path) {
			metrics.GateDecisions.WithLabelValues(string(outcomePublic)).Inc()
			return c.Next()
		}

		claims, err := session.FromContext(c)
		if err != nil {
			return deny(c, cfg.Mode, outcomeNoSession, SignInPath)
		}

		outcome := evaluate(claims.SubscriptionType, claims.SubscriptionEnd, now())
		switch outcome {
		case outcomeNoSubscription:
			return deny(c, cfg.Mode, outcome, NoSubscriptionPath)
		case outcomeTrialExpired, outcomeExpired:
			return deny(c, cfg.Mode, outcome, ExpiredPath)
		}

		metrics.GateDecisions.WithLabelValues(string(outcomeAllowed)).Inc()
		return c.Next()
	}
}

// hasAnyPrefix matches whole path segments: /profile covers /profile and
// /profile/settings but not /profiles.
func hasAnyPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	return false
}

func evaluate(t subscription.Type, end *time.Time, now time.Time) gateOutcome {
	if t == subscription.TypeNone {
		return outcomeNoSubscription
	}
	if subscription.ShouldDeleteUserDataAt(t, end, now) {
		return outcomeTrialExpired
	}
	if !subscription.CanAccessAt(t, end, subscription.TierBasic, now) {
		return outcomeExpired
	}
	return outcomeAllowed
}

func deny(c *fiber.Ctx, mode GateMode, outcome gateOutcome, target string) error {
	metrics.GateDecisions.WithLabelValues(string(outcome)).Inc()

	if mode == GateRedirect {
		return c.Redirect(target, fiber.StatusFound)
	}

	status := fiber.StatusForbidden
	message := "An active subscription is required"
	switch outcome {
	case outcomeNoSession:
		status = fiber.StatusUnauthorized
		message = "Unauthorized"
	case outcomeNoSubscription:
		message = "Please request a subscription to continue"
	case outcomeTrialExpired:
		message = "Your free trial has expired"
	}

	return c.Status(status).JSON(dto.GateResponse{
		Error:    true,
		Message:  message,
		Redirect: target,
	})
}

// RequireFeature gates a route on a plan tier above basic. It assumes the
// session is already established.
func RequireFeature(tier subscription.Tier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := session.FromContext(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}

		if !subscription.CanAccess(claims.SubscriptionType, claims.SubscriptionEnd, tier) {
			metrics.GateDecisions.WithLabelValues("feature_denied").Inc()
			return c.Status(fiber.StatusForbidden).JSON(dto.GateResponse{
				Error:    true,
				Message:  "Your plan does not include this feature",
				Redirect: UpgradePath,
			})
		}
		return c.Next()
	}
}
