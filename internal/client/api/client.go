package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/spicestore/internal/client/events"
	"github.com/dmitrijs2005/spicestore/internal/client/navigation"
	"github.com/dmitrijs2005/spicestore/internal/common"
	"github.com/dmitrijs2005/spicestore/internal/logging"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
)

// SessionProvider is the slice of session storage the client needs.
type SessionProvider interface {
	Token(ctx context.Context) (string, error)
	ClearSession(ctx context.Context) error
}

type Client struct {
	baseURL string
	http    *http.Client
	session SessionProvider
	events  events.Publisher
	nav     navigation.Navigator
	log     logging.Logger
	timeout time.Duration
	metrics *Metrics
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout bounds each request. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

func WithPublisher(p events.Publisher) Option {
	return func(c *Client) { c.events = p }
}

func WithNavigator(n navigation.Navigator) Option {
	return func(c *Client) { c.nav = n }
}

func WithLogger(l logging.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithMetrics instruments the transport and registers collectors on reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(c *Client) { c.metrics = NewMetrics(reg) }
}

func New(baseURL string, session SessionProvider, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		session: session,
		nav:     navigation.Nop,
		log:     logging.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.metrics != nil {
		hc := *c.http
		rt := hc.Transport
		if rt == nil {
			rt = http.DefaultTransport
		}
		hc.Transport = c.metrics.instrument(rt)
		c.http = &hc
	}
	return c
}

// Do sends req and decodes a JSON response into out, which may be nil.
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	resp, err := c.send(ctx, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode %s %s: %w", req.Method, req.Path, err)
	}
	return nil
}

// Download streams the body of GET path into w without interpreting it.
func (c *Client) Download(ctx context.Context, path string, w io.Writer) (int64, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	resp, err := c.send(ctx, Request{Method: http.MethodGet, Path: path})
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, fmt.Errorf("%w: %w", common.ErrNetwork, err)
	}
	return n, nil
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}

// send performs the round trip and applies the status policy. The returned
// response is always 2xx and its body must be closed by the caller.
func (c *Client) send(ctx context.Context, req Request) (*http.Response, error) {
	body, contentType, err := req.encode()
	if err != nil {
		return nil, err
	}

	u := c.baseURL + req.Path
	if len(req.Query) > 0 {
		u += "?" + req.Query.Encode()
	}

	hreq, err := http.NewRequestWithContext(ctx, req.Method, u, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	requestID := uuid.NewString()
	hreq.Header.Set(common.RequestIDHeaderName, requestID)
	hreq.Header.Set("Accept", "application/json")
	if contentType != "" {
		hreq.Header.Set("Content-Type", contentType)
	}

	token, err := c.session.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("read session token: %w", err)
	}
	if token != "" {
		hreq.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	}

	log := c.log.With("method", req.Method, "path", req.Path, "request_id", requestID)
	start := time.Now()

	resp, err := c.http.Do(hreq)
	if err != nil {
		log.Warn(ctx, "request failed", "error", err)
		return nil, fmt.Errorf("%w: %w", common.ErrNetwork, err)
	}
	log.Debug(ctx, "response", "status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized && !req.NoAuthRedirect {
		c.handleUnauthorized(ctx, log)
		return nil, common.ErrAuthExpired
	}
	return nil, mapStatus(resp)
}

// handleUnauthorized ends the session. It runs once per 401 response.
func (c *Client) handleUnauthorized(ctx context.Context, log logging.Logger) {
	// the session must go even if the request context is already done
	if err := c.session.ClearSession(context.WithoutCancel(ctx)); err != nil {
		log.Error(ctx, "failed to clear session after 401", "error", err)
	}
	if c.events != nil {
		c.events.Publish(events.Event{Kind: events.SessionEnded, Reason: events.ReasonExpired})
	}
	c.nav.Navigate(navigation.RouteLogin)
	log.Info(ctx, "session expired")
}

// mapStatus converts a non-2xx response into *common.APIError, taking the
// message from a JSON "message" (or "error") field when present.
func mapStatus(resp *http.Response) error {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	_ = json.Unmarshal(b, &payload)

	msg := payload.Message
	if msg == "" {
		msg = payload.Error
	}
	return &common.APIError{Status: resp.StatusCode, Message: msg}
}
