package session

import (
	"context"
	"fmt"
)

type Options struct {
	Backend   string
	DSN       string
	RedisAddr string
}

// OpenStore opens the backend named by opts.Backend: "sqlite" (default),
// "redis" or "memory".
func OpenStore(ctx context.Context, opts Options) (Store, error) {
	switch opts.Backend {
	case "", "sqlite":
		return OpenSQLite(ctx, opts.DSN)
	case "redis":
		return OpenRedis(ctx, opts.RedisAddr)
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown session backend %q", opts.Backend)
	}
}
