package models

import "time"

// AccessToken is a ShotGrid API token held in memory for the life of the
// process. It is never persisted.
type AccessToken struct {
	Token     string
	TokenType string
	ExpiresAt time.Time
}

func (t *AccessToken) IsExpired() bool {
	return time.Now().After(t.ExpiresAt)
}

func (t *AccessToken) ShouldRefresh() bool {
	// Refresh 1 minute before expiry
	return time.Now().Add(1 * time.Minute).After(t.ExpiresAt)
}
