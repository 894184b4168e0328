// Package session tracks RPC client sessions keyed by the Loom-Session-Id
// header, with an in-memory TTL store.
package session

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// HeaderName is the HTTP header carrying the session ID.
const HeaderName = "Loom-Session-Id"

// DefaultTTL is how long an idle session survives between requests.
const DefaultTTL = 30 * time.Minute

// ErrSessionNotFound is returned when a session ID has no live entry.
var ErrSessionNotFound = errors.New("session not found")

// Session is the per-client bookkeeping record.
type Session struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	LastSeen  time.Time `json:"lastSeen"`
	// Requests counts messages dispatched under this session.
	Requests int `json:"requests"`
}

// NewID generates a fresh session ID.
func NewID() string {
	return uuid.New().String()
}
