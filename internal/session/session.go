package session

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("session not found")

// Session is a server-side record of an issued refresh token. Only the
// SHA-256 hash of the token is stored.
type Session struct {
	ID               string
	UserID           string
	RefreshTokenHash string
	UserAgent        string
	IPAddress        string
	ExpiresAt        time.Time
	CreatedAt        time.Time
}
