package auction

import "time"

// Classify derives the lifecycle role from the clock. Ties resolve toward the
// later state: an auction is processing at exactly starts and closed at
// exactly closes.
func Classify(now, starts, closes time.Time) Role {
	switch {
	case now.Before(starts):
		return RolePending
	case now.Before(closes):
		return RoleProcessing
	default:
		return RoleClosed
	}
}
