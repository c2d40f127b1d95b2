package stores

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/spicestore/internal/client/api"
	"github.com/dmitrijs2005/spicestore/internal/client/events"
	"github.com/dmitrijs2005/spicestore/internal/client/fakeapi"
	"github.com/dmitrijs2005/spicestore/internal/client/models"
	"github.com/dmitrijs2005/spicestore/internal/client/navigation"
	"github.com/dmitrijs2005/spicestore/internal/client/session"
	"github.com/dmitrijs2005/spicestore/internal/logging"
	"github.com/stretchr/testify/require"
)

// env is a full client stack against a fake backend.
type env struct {
	srv     *fakeapi.Server
	mem     *session.MemoryStore
	storage *session.Storage
	bus     *events.Bus
	nav     *navigation.Recorder
	ended   []events.Event

	client  *api.Client
	auth    *AuthStore
	cart    *CartStore
	catalog *Catalog
	orders  *OrderStore
}

func newEnv(t *testing.T) *env {
	t.Helper()
	e := &env{
		srv: fakeapi.New(t),
		mem: session.NewMemoryStore(),
		bus: events.NewBus(),
		nav: &navigation.Recorder{},
	}
	e.storage = session.NewStorage(e.mem)
	e.bus.Subscribe(events.SessionEnded, func(ev events.Event) { e.ended = append(e.ended, ev) })

	log := logging.Nop()
	e.client = api.New(e.srv.URL(), e.storage, api.WithPublisher(e.bus), api.WithNavigator(e.nav), api.WithLogger(log))
	e.auth = NewAuthStore(e.client, e.storage, e.bus, e.nav, log)
	e.cart = NewCartStore(e.client, e.storage, e.bus, log)
	e.catalog = NewCatalog(e.client, log)
	e.orders = NewOrderStore(e.client, log)
	return e
}

var testUser = models.User{ID: "u1", Name: "Asha", Email: "a@b.com", Role: "user"}

// signIn persists a session and restores it into the auth store.
func (e *env) signIn(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, e.storage.SetSession(ctx, testUser, "tok"))
	require.NoError(t, e.auth.Restore(ctx))
}

func (e *env) storedToken(t *testing.T) string {
	t.Helper()
	tok, err := e.storage.Token(context.Background())
	require.NoError(t, err)
	return tok
}

func cartBody(items []map[string]any, total, discount, grand float64) map[string]any {
	return map[string]any{"cart": map[string]any{
		"user": "u1", "items": items, "totalPrice": total, "discount": discount, "grandTotal": grand, "status": "active",
	}}
}

func line(product string, qty int) map[string]any {
	return map[string]any{"product": product, "quantity": qty, "productSnapshot": map[string]any{"name": product, "price": 100}}
}
