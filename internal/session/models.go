package session

import "time"

// Session represents an authenticated user session stored in Redis.
// Nickname and PhotoURL are carried so comment authorship can be stamped
// without a user lookup per request.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Nickname  string    `json:"nickname"`
	PhotoURL  string    `json:"photo_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}
