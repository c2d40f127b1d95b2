package session

import "context"

// Durable keys.
const (
	KeyToken  = "token"
	KeyUser   = "user"
	KeyUserID = "userId"
)

// Keys lists every durable key owned by a session.
var Keys = []string{KeyToken, KeyUser, KeyUserID}

// Store is a key/value backend. Get returns (nil, nil) for an absent key.
// SetAll writes all pairs atomically.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetAll(ctx context.Context, values map[string][]byte) error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}
