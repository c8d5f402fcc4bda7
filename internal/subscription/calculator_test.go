package subscription

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func at(d time.Duration) *time.Time {
	t := now.Add(d)
	return &t
}

func TestEndDateFor(t *testing.T) {
	start := time.Date(2026, 1, 31, 8, 30, 0, 0, time.UTC)

	assert.Equal(t, start.AddDate(0, 0, 30), EndDateFor(TypePro, start))
	assert.Equal(t, start.AddDate(0, 0, 1), EndDateFor(TypeFreeTrial, start))
	assert.Equal(t, start.AddDate(0, 0, 30), EndDateFor(TypeUltimate, start))
	assert.Equal(t, start, EndDateFor(TypeNone, start))
}

func TestIsActiveAt(t *testing.T) {
	for _, typ := range Types {
		t.Run(string(typ), func(t *testing.T) {
			assert.False(t, IsActiveAt(typ, nil, now), "nil end is never active")
			assert.False(t, IsActiveAt(typ, at(-time.Second), now))
			assert.False(t, IsActiveAt(typ, at(-48*time.Hour), now))
			assert.False(t, IsActiveAt(typ, at(0), now), "end equal to now is expired")
			assert.True(t, IsActiveAt(typ, at(time.Minute), now))
		})
	}
}

func TestDaysRemainingAt(t *testing.T) {
	tests := []struct {
		name string
		end  *time.Time
		want *int
	}{
		{"nil end", nil, nil},
		{"expired long ago", at(-72 * time.Hour), intPtr(0)},
		{"expired just now", at(-time.Millisecond), intPtr(0)},
		{"exactly now", at(0), intPtr(0)},
		{"one hour left rounds up", at(time.Hour), intPtr(1)},
		{"exactly one day", at(24 * time.Hour), intPtr(1)},
		{"one day and a minute", at(24*time.Hour + time.Minute), intPtr(2)},
		{"thirty days", at(30 * 24 * time.Hour), intPtr(30)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DaysRemainingAt(tt.end, now)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
			assert.GreaterOrEqual(t, *got, 0)
		})
	}
}

func TestInfoAt(t *testing.T) {
	start := now.Add(-24 * time.Hour)
	end := at(29 * 24 * time.Hour)

	info := InfoAt(TypePro, start, end, now)

	assert.Equal(t, TypePro, info.Type)
	assert.Equal(t, start, info.StartDate)
	assert.Equal(t, end, info.EndDate)
	assert.True(t, info.IsActive)
	require.NotNil(t, info.DaysRemaining)
	assert.Equal(t, 29, *info.DaysRemaining)
	assert.Equal(t, PlanFor(TypePro).Features, info.Features)

	info.Features[0] = "mutated"
	assert.NotEqual(t, "mutated", PlanFor(TypePro).Features[0], "catalog must not be shared")
}

func TestInfoAt_NeverSubscribed(t *testing.T) {
	info := InfoAt(TypeNone, now, nil, now)

	assert.False(t, info.IsActive)
	assert.Nil(t, info.DaysRemaining)
	assert.Empty(t, info.Features)
}

func TestCanAccessAt(t *testing.T) {
	active := at(10 * 24 * time.Hour)
	expired := at(-time.Hour)

	tests := []struct {
		typ   Type
		end   *time.Time
		tier  Tier
		allow bool
	}{
		{TypeFreeTrial, active, TierBasic, true},
		{TypeFreeTrial, active, TierAdvanced, false},
		{TypeFreeTrial, active, TierAI, false},
		{TypePro, active, TierBasic, true},
		{TypePro, active, TierAdvanced, true},
		{TypePro, active, TierAI, false},
		{TypeUltimate, active, TierBasic, true},
		{TypeUltimate, active, TierAdvanced, true},
		{TypeUltimate, active, TierAI, true},
		{TypeUltimate, expired, TierBasic, false},
		{TypePro, expired, TierBasic, false},
		{TypePro, nil, TierBasic, false},
		{TypePro, active, Tier("premium"), false},
	}

	for _, tt := range tests {
		name := string(tt.typ) + "/" + string(tt.tier)
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.allow, CanAccessAt(tt.typ, tt.end, tt.tier, now))
		})
	}
}

func TestCanAccessAt_NoneNeverAllowed(t *testing.T) {
	ends := []*time.Time{nil, at(-time.Hour), at(0), at(time.Hour), at(365 * 24 * time.Hour)}
	for _, end := range ends {
		for _, tier := range []Tier{TierBasic, TierAdvanced, TierAI} {
			assert.False(t, CanAccessAt(TypeNone, end, tier, now))
		}
	}
}

func TestParseType(t *testing.T) {
	for _, typ := range Types {
		got, err := ParseType(string(typ))
		require.NoError(t, err)
		assert.Equal(t, typ, got)
	}

	_, err := ParseType("GOLD")
	assert.ErrorIs(t, err, ErrUnknownType)
	_, err = ParseType("pro")
	assert.ErrorIs(t, err, ErrUnknownType)
	_, err = ParseType("")
	assert.ErrorIs(t, err, ErrUnknownType)
}

func TestParseTier(t *testing.T) {
	tier, err := ParseTier("advanced")
	require.NoError(t, err)
	assert.Equal(t, TierAdvanced, tier)

	_, err = ParseTier("")
	assert.Error(t, err)
}

func TestPlans(t *testing.T) {
	all := Plans()
	require.Len(t, all, 4)
	for i, p := range all {
		assert.Equal(t, Types[i], p.Type)
	}
	assert.Equal(t, 0, PlanFor(TypeNone).DurationDays)
	assert.Equal(t, PlanFor(TypeNone), PlanFor(Type("BOGUS")))
}

func intPtr(n int) *int { return &n }
