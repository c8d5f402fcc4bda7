package subscription

import "time"

func ShouldDeleteUserData(t Type, end *time.Time) bool {
	return ShouldDeleteUserDataAt(t, end, time.Now())
}

// ShouldDeleteUserDataAt is true only for lapsed free trials. Paid tiers keep
// their data after expiry so the user can resubscribe.
func ShouldDeleteUserDataAt(t Type, end *time.Time, now time.Time) bool {
	if t != TypeFreeTrial || end == nil {
		return false
	}
	return now.After(*end)
}
