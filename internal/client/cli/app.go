package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/dmitrijs2005/spicestore/internal/client/api"
	"github.com/dmitrijs2005/spicestore/internal/client/config"
	"github.com/dmitrijs2005/spicestore/internal/client/events"
	"github.com/dmitrijs2005/spicestore/internal/client/navigation"
	"github.com/dmitrijs2005/spicestore/internal/client/session"
	"github.com/dmitrijs2005/spicestore/internal/client/stores"
	"github.com/dmitrijs2005/spicestore/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// App is the storefront shell. It is also the Navigator handed to the stores,
// so route changes show up in the prompt.
type App struct {
	cfg     *config.Config
	log     logging.Logger
	store   session.Store
	storage *session.Storage
	bus     *events.Bus
	client  *api.Client
	metrics *prometheus.Registry

	auth    *stores.AuthStore
	cart    *stores.CartStore
	catalog *stores.Catalog
	orders  *stores.OrderStore

	in  *bufio.Scanner
	out io.Writer

	mu    sync.Mutex
	route string
}

// NewApp opens the configured session backend and wires the stores.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	log := logging.New(os.Stderr, c.LogLevel)

	store, err := session.OpenStore(ctx, session.Options{
		Backend:   c.SessionBackend,
		DSN:       c.SessionDSN,
		RedisAddr: c.RedisAddr,
	})
	if err != nil {
		log.Error(ctx, "error opening session store", "backend", c.SessionBackend, "error", err)
		return nil, err
	}

	return newApp(c, store, log, bufio.NewScanner(os.Stdin), os.Stdout), nil
}

func newApp(c *config.Config, store session.Store, log logging.Logger, in *bufio.Scanner, out io.Writer) *App {
	a := &App{
		cfg:     c,
		log:     log,
		store:   store,
		storage: session.NewStorage(store),
		bus:     events.NewBus(),
		metrics: prometheus.NewRegistry(),
		in:      in,
		out:     out,
		route:   navigation.RouteHome,
	}

	a.client = api.New(c.APIBaseURL, a.storage,
		api.WithTimeout(c.RequestTimeout),
		api.WithPublisher(a.bus),
		api.WithNavigator(a),
		api.WithLogger(log),
		api.WithMetrics(a.metrics),
	)

	a.auth = stores.NewAuthStore(a.client, a.storage, a.bus, a, log)
	a.cart = stores.NewCartStore(a.client, a.storage, a.bus, log)
	a.catalog = stores.NewCatalog(a.client, log)
	a.orders = stores.NewOrderStore(a.client, log)

	a.bus.Subscribe(events.SessionEnded, func(e events.Event) {
		if e.Reason == events.ReasonExpired {
			a.println("Your session has expired, please log in again.")
		}
	})
	return a
}

// Navigate implements navigation.Navigator.
func (a *App) Navigate(route string) {
	a.mu.Lock()
	changed := a.route != route
	a.route = route
	a.mu.Unlock()
	if changed {
		a.log.Debug(context.Background(), "navigate", "route", route)
	}
}

func (a *App) Route() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.route
}

// Run restores a persisted session and blocks in the REPL until the user
// exits or ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	defer a.store.Close()

	if err := a.auth.Restore(ctx); err != nil {
		a.log.Warn(ctx, "could not restore session", "error", err)
	}
	if a.isLoggedIn() {
		a.loadCart(ctx)
	}

	a.println("Welcome to the spicestore shell (type 'help' for commands)")
	runREPL(ctx, a, a.status, a.in)
}

func (a *App) isLoggedIn() bool {
	return a.auth.IsAuthenticated()
}

func (a *App) isAdmin() bool {
	u := a.auth.User()
	return u != nil && u.IsAdmin()
}

func (a *App) userID() string {
	if u := a.auth.User(); u != nil {
		return u.ID
	}
	return ""
}

func (a *App) status() string {
	s := a.Route()
	if u := a.auth.User(); u != nil {
		s = u.Email + " " + s
	}
	if n := a.cart.ItemCount(); n > 0 {
		s = fmt.Sprintf("%s [cart:%d]", s, n)
	}
	return s
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}
