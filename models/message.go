package models

import "time"

// AudienceAll targets every restaurant; any other tag matches a restaurant's
// payment status or operating status.
const AudienceAll = "all"

// BroadcastMessage is an append-only manager announcement. Never mutated or
// deleted; restaurants filter the collection client-side style via the
// broadcast package.
type BroadcastMessage struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Audience  string    `json:"audience" gorm:"not null"`
	Text      string    `json:"text" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
}
