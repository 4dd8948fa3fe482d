package ports

import (
	"context"
	"errors"
	"time"
)

// ErrNoValue indicates the session store holds nothing (or nothing live) for
// the requested key.
var ErrNoValue = errors.New("session: no value")

// SessionStore is a keyed scratch store with per-request lifetime. Values are
// JSON-serializable; each entry may carry its own time-to-live.
type SessionStore interface {
	// Put stores value under (sessionID, key). ttl <= 0 means no expiry.
	Put(ctx context.Context, sessionID, key string, value any, ttl time.Duration) error

	// Get loads the value under (sessionID, key) into dest. Expired or
	// missing entries yield ErrNoValue.
	Get(ctx context.Context, sessionID, key string, dest any) error

	// Clear drops every entry belonging to the session.
	Clear(ctx context.Context, sessionID string) error
}
