package subscription

import (
	"errors"
	"fmt"
)

// Type is a subscription tier stored on the user row and carried in session claims.
type Type string

const (
	TypeNone      Type = "NONE"
	TypeFreeTrial Type = "FREE_TRIAL"
	TypePro       Type = "PRO"
	TypeUltimate  Type = "ULTIMATE"
)

// Types lists every recognized subscription type in catalog order.
var Types = []Type{TypeNone, TypeFreeTrial, TypePro, TypeUltimate}

var ErrUnknownType = errors.New("invalid subscription type")

// ParseType validates a raw enum value.
func ParseType(s string) (Type, error) {
	for _, t := range Types {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownType, s)
}

func (t Type) Valid() bool {
	_, err := ParseType(string(t))
	return err == nil
}

// Plan is an immutable catalog entry. Prices are for display only.
type Plan struct {
	Type         Type     `json:"type"`
	Name         string   `json:"name"`
	DurationDays int      `json:"duration"`
	Price        float64  `json:"price"`
	Features     []string `json:"features"`
	Description  string   `json:"description"`
	tier         Tier
}

var plans = map[Type]Plan{
	TypeNone: {
		Type:         TypeNone,
		Name:         "No Plan",
		DurationDays: 0,
		Price:        0,
		Features:     []string{},
		Description:  "Request a free trial to start tracking expenses",
		tier:         tierNone,
	},
	TypeFreeTrial: {
		Type:         TypeFreeTrial,
		Name:         "Free Trial",
		DurationDays: 1,
		Price:        0,
		Features: []string{
			"Basic expense tracking",
			"Expense categories",
			"Monthly overview",
		},
		Description: "Try Finovo for one day. Data is removed when the trial ends.",
		tier:        TierBasic,
	},
	TypePro: {
		Type:         TypePro,
		Name:         "Pro",
		DurationDays: 30,
		Price:        9.99,
		Features: []string{
			"Basic expense tracking",
			"Advanced reports",
			"Data export",
			"Unlimited history",
		},
		Description: "For people who want reports and exports",
		tier:        TierAdvanced,
	},
	TypeUltimate: {
		Type:         TypeUltimate,
		Name:         "Ultimate",
		DurationDays: 30,
		Price:        19.99,
		Features: []string{
			"Basic expense tracking",
			"Advanced reports",
			"Data export",
			"AI expense analyzer",
			"Smart insights",
			"Priority support",
		},
		Description: "Everything in Pro plus AI-powered insights",
		tier:        TierAI,
	},
}

// PlanFor returns the catalog entry for t. Unknown types resolve to the NONE plan.
func PlanFor(t Type) Plan {
	if p, ok := plans[t]; ok {
		return p
	}
	return plans[TypeNone]
}

// Plans returns the whole catalog in display order.
func Plans() []Plan {
	result := make([]Plan, 0, len(Types))
	for _, t := range Types {
		result = append(result, plans[t])
	}
	return result
}
