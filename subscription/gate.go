// Package subscription decides whether a restaurant's dashboard is locked
// behind the paywall, and how manual access grants extend the window.
package subscription

import "time"

// Mode is the dashboard access state derived from the subscription window
type Mode string

const (
	// ModeActive: access window still open, no paywall
	ModeActive Mode = "active"
	// ModePaywall: window expired, self-service unlock request available
	ModePaywall Mode = "paywall"
	// ModePaywallPending: window expired and an unlock request is already
	// waiting for manager approval, so the control is disabled
	ModePaywallPending Mode = "paywall_pending"
)

// Evaluate is a pure function of (now, stored expiry, unlock-requested)
func Evaluate(now, validUntil time.Time, unlockRequested bool) Mode {
	if !now.After(validUntil) {
		return ModeActive
	}
	if unlockRequested {
		return ModePaywallPending
	}
	return ModePaywall
}

// LifetimeDays is the threshold at which a grant is treated as permanent.
// Grants at or above it get the Lifetime window instead of a literal day count.
const LifetimeDays = 36500

// Lifetime is the effective duration of a permanent grant (~100 years)
const Lifetime = 100 * 365 * 24 * time.Hour

// GrantWindow returns the new access expiry for a manual grant of the given
// number of days, mapping the sentinel onto the explicit Lifetime duration.
func GrantWindow(now time.Time, days int) time.Time {
	if days >= LifetimeDays {
		return now.Add(Lifetime)
	}
	return now.AddDate(0, 0, days)
}
