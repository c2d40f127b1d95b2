package stores

import (
	"context"
	"io"

	"github.com/dmitrijs2005/spicestore/internal/client/api"
	"github.com/dmitrijs2005/spicestore/internal/client/models"
	"github.com/dmitrijs2005/spicestore/internal/client/session"
)

// Transport is implemented by *api.Client.
type Transport interface {
	Do(ctx context.Context, req api.Request, out any) error
	Download(ctx context.Context, path string, w io.Writer) (int64, error)
}

// TokenSource reports the current bearer token, "" when signed out.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// SessionStorage is implemented by *session.Storage.
type SessionStorage interface {
	TokenSource
	SetSession(ctx context.Context, user models.User, token string) error
	SetUser(ctx context.Context, user models.User) error
	ClearSession(ctx context.Context) error
	Load(ctx context.Context) (session.Snapshot, error)
}
