package subscription

import (
	"fmt"
	"math"
	"time"
)

// Tier is a feature level. Tiers are ordered: basic < advanced < ai.
type Tier string

const (
	tierNone     Tier = ""
	TierBasic    Tier = "basic"
	TierAdvanced Tier = "advanced"
	TierAI       Tier = "ai"
)

var tierRank = map[Tier]int{
	TierBasic:    1,
	TierAdvanced: 2,
	TierAI:       3,
}

// ParseTier validates a feature tier name.
func ParseTier(s string) (Tier, error) {
	t := Tier(s)
	if _, ok := tierRank[t]; !ok {
		return "", fmt.Errorf("unknown feature tier %q", s)
	}
	return t, nil
}

// Info is the derived, never-persisted view of a user's subscription.
type Info struct {
	Type          Type       `json:"type"`
	StartDate     time.Time  `json:"startDate"`
	EndDate       *time.Time `json:"endDate"`
	IsActive      bool       `json:"isActive"`
	DaysRemaining *int       `json:"daysRemaining"`
	Features      []string   `json:"features"`
}

// EndDateFor returns start plus the plan duration. For NONE this equals start,
// which must not be read as "active".
func EndDateFor(t Type, start time.Time) time.Time {
	return start.AddDate(0, 0, PlanFor(t).DurationDays)
}

func IsActive(t Type, end *time.Time) bool {
	return IsActiveAt(t, end, time.Now())
}

// IsActiveAt does not look at t; callers combine it with the NONE check.
func IsActiveAt(_ Type, end *time.Time, now time.Time) bool {
	if end == nil {
		return false
	}
	return now.Before(*end)
}

func DaysRemaining(end *time.Time) *int {
	return DaysRemainingAt(end, time.Now())
}

// DaysRemainingAt rounds partial days up and never goes below zero.
func DaysRemainingAt(end *time.Time, now time.Time) *int {
	if end == nil {
		return nil
	}
	days := int(math.Ceil(end.Sub(now).Hours() / 24))
	if days < 0 {
		days = 0
	}
	return &days
}

func InfoFor(t Type, start time.Time, end *time.Time) Info {
	return InfoAt(t, start, end, time.Now())
}

func InfoAt(t Type, start time.Time, end *time.Time, now time.Time) Info {
	plan := PlanFor(t)
	features := make([]string, len(plan.Features))
	copy(features, plan.Features)

	return Info{
		Type:          t,
		StartDate:     start,
		EndDate:       end,
		IsActive:      IsActiveAt(t, end, now),
		DaysRemaining: DaysRemainingAt(end, now),
		Features:      features,
	}
}

func CanAccess(t Type, end *time.Time, tier Tier) bool {
	return CanAccessAt(t, end, tier, time.Now())
}

// CanAccessAt denies NONE before looking at dates: legacy rows may carry a
// stale end date on a NONE user.
func CanAccessAt(t Type, end *time.Time, tier Tier, now time.Time) bool {
	if t == TypeNone {
		return false
	}
	if !IsActiveAt(t, end, now) {
		return false
	}
	want, ok := tierRank[tier]
	if !ok {
		return false
	}
	return tierRank[PlanFor(t).tier] >= want
}
