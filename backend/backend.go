// Package backend holds the session-lifetime durable stores a property store mirrors
// its snapshot into. Every call is attempted once, failures are returned as is.
package backend

import (
	"context"
	"github.com/google/uuid"
)

type Backend interface {
	// Read returns nil, nil when key is absent.
	Read(ctx context.Context, key string) ([]byte, error)
	// Write replaces whatever is stored under key.
	Write(ctx context.Context, key string, blob []byte) error
	// Delete does not fail on an absent key.
	Delete(ctx context.Context, key string) error
	Close() error
}

// NewSessionID returns an identifier for a fresh session.
func NewSessionID() string {
	return uuid.NewString()
}
