// Package broadcast implements the audience matching rule for manager
// announcements.
package broadcast

import "epraja-api/models"

// Matches reports whether a message is addressed to the given restaurant:
// the wildcard audience, the restaurant's payment status, or its operating
// status. Anything else never matches.
func Matches(msg models.BroadcastMessage, r models.Restaurant) bool {
	switch msg.Audience {
	case models.AudienceAll:
		return true
	case string(r.PaymentStatus):
		return true
	case string(r.Status):
		return true
	}
	return false
}

// Filter returns the subset of messages addressed to the restaurant,
// preserving order.
func Filter(msgs []models.BroadcastMessage, r models.Restaurant) []models.BroadcastMessage {
	var out []models.BroadcastMessage
	for _, m := range msgs {
		if Matches(m, r) {
			out = append(out, m)
		}
	}
	return out
}
