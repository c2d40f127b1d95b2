package stores

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"github.com/dmitrijs2005/spicestore/internal/client/api"
	"github.com/dmitrijs2005/spicestore/internal/client/events"
	"github.com/dmitrijs2005/spicestore/internal/client/models"
	"github.com/dmitrijs2005/spicestore/internal/common"
	"github.com/dmitrijs2005/spicestore/internal/logging"
)

type cartLine struct {
	UserID    string `json:"userId" validate:"required"`
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity,omitempty" validate:"gte=1"`
	Variant   string `json:"variant,omitempty"`
}

type cartRef struct {
	UserID    string `json:"userId" validate:"required"`
	ProductID string `json:"productId" validate:"required"`
}

type couponInput struct {
	UserID string `json:"userId" validate:"required"`
	Code   string `json:"code" validate:"required"`
}

// CartStore mirrors the server's cart. Every call replaces the whole cart
// with the server response; nothing is computed locally.
//
// Responses are sequenced: each call takes the next number and a response
// is applied only if no later call has been applied already, so a slow
// reply can never overwrite a newer cart.
type CartStore struct {
	t       Transport
	session TokenSource
	log     logging.Logger

	mu       sync.Mutex
	cart     models.Cart
	inflight int
	err      string
	updating map[string]int
	issued   uint64
	applied  uint64
}

// NewCartStore returns an empty cart that resets itself whenever sub
// reports SessionEnded.
func NewCartStore(t Transport, session TokenSource, sub events.Subscriber, log logging.Logger) *CartStore {
	c := &CartStore{
		t:        t,
		session:  session,
		log:      log,
		cart:     models.EmptyCart(),
		updating: make(map[string]int),
	}
	sub.Subscribe(events.SessionEnded, func(events.Event) { c.Reset() })
	return c
}

func (c *CartStore) FetchCart(ctx context.Context, userID string) error {
	return c.call(ctx, userID, "", nil, api.Request{
		Method: http.MethodGet,
		Path:   "/cart/" + url.PathEscape(userID),
	})
}

func (c *CartStore) AddItem(ctx context.Context, userID, productID string, qty int, variant string) error {
	in := cartLine{UserID: userID, ProductID: productID, Quantity: qty, Variant: variant}
	return c.call(ctx, userID, productID, in, api.Request{Method: http.MethodPost, Path: "/cart/add", Body: in})
}

// UpdateItem sets the quantity of a line. Use RemoveItem to drop it.
func (c *CartStore) UpdateItem(ctx context.Context, userID, productID string, qty int) error {
	in := cartLine{UserID: userID, ProductID: productID, Quantity: qty}
	return c.call(ctx, userID, productID, in, api.Request{Method: http.MethodPut, Path: "/cart/update", Body: in})
}

func (c *CartStore) RemoveItem(ctx context.Context, userID, productID string) error {
	in := cartRef{UserID: userID, ProductID: productID}
	return c.call(ctx, userID, productID, in, api.Request{Method: http.MethodDelete, Path: "/cart/remove", Body: in})
}

func (c *CartStore) ApplyCoupon(ctx context.Context, userID, code string) error {
	in := couponInput{UserID: userID, Code: code}
	return c.call(ctx, userID, "", in, api.Request{Method: http.MethodPost, Path: "/cart/apply-coupon", Body: in})
}

// ClearCart empties the cart. A confirmation without a cart body leaves an
// empty cart for userID.
func (c *CartStore) ClearCart(ctx context.Context, userID string) error {
	return c.exchange(ctx, userID, "", nil, api.Request{
		Method: http.MethodDelete,
		Path:   "/cart/clear/" + url.PathEscape(userID),
	}, func(raw json.RawMessage, out *models.Cart) error {
		err := decodeCart(raw, out)
		if errors.Is(err, errNoEntity) {
			*out = models.EmptyCart()
			out.User = userID
			return nil
		}
		return err
	})
}

// Increment adds one unit of productID, creating the line if needed.
func (c *CartStore) Increment(ctx context.Context, userID, productID string) error {
	item, ok := c.Cart().Item(productID)
	if !ok {
		return c.AddItem(ctx, userID, productID, 1, "")
	}
	return c.UpdateItem(ctx, userID, productID, item.Quantity+1)
}

// Decrement removes one unit; the last unit removes the line.
func (c *CartStore) Decrement(ctx context.Context, userID, productID string) error {
	item, ok := c.Cart().Item(productID)
	if !ok {
		err := fmt.Errorf("cart line %s: %w", productID, common.ErrNotFound)
		c.setError(err)
		return err
	}
	if item.Quantity <= 1 {
		return c.RemoveItem(ctx, userID, productID)
	}
	return c.UpdateItem(ctx, userID, productID, item.Quantity-1)
}

// call runs one guarded round trip. input, when non-nil, is validated
// after the session guard.
func (c *CartStore) call(ctx context.Context, userID, productID string, input any, req api.Request) error {
	return c.exchange(ctx, userID, productID, input, req, decodeCart)
}

func (c *CartStore) exchange(ctx context.Context, userID, productID string, input any, req api.Request,
	decode func(json.RawMessage, *models.Cart) error) error {
	if err := c.guard(ctx, userID); err != nil {
		c.setError(err)
		return err
	}
	if input != nil {
		if err := check(input); err != nil {
			c.setError(err)
			return err
		}
	}

	seq := c.begin(productID)

	var raw json.RawMessage
	err := c.t.Do(ctx, req, &raw)
	var cart models.Cart
	if err == nil {
		err = decode(raw, &cart)
	}

	return c.finish(ctx, seq, productID, cart, err)
}

func (c *CartStore) guard(ctx context.Context, userID string) error {
	token, err := c.session.Token(ctx)
	if err != nil {
		return err
	}
	if token == "" || userID == "" {
		return common.ErrNoSession
	}
	return nil
}

func (c *CartStore) begin(productID string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.issued++
	c.inflight++
	if productID != "" {
		c.updating[productID]++
	}
	return c.issued
}

func (c *CartStore) finish(ctx context.Context, seq uint64, productID string, cart models.Cart, err error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if productID != "" {
		if n := c.updating[productID]; n <= 1 {
			delete(c.updating, productID)
		} else {
			c.updating[productID] = n - 1
		}
	}
	c.inflight--

	if seq <= c.applied {
		c.log.Debug(ctx, "discarding stale cart response", "seq", seq, "applied", c.applied)
		return err
	}
	if err != nil {
		c.err = common.UserMessage(err)
		return err
	}

	c.applied = seq
	c.cart = cart
	c.err = ""
	return nil
}

// decodeCart accepts {"cart": {...}} or a bare cart. A {success:false} reply
// is a rejection, and a body that is neither form carries no cart.
func decodeCart(raw json.RawMessage, out *models.Cart) error {
	if err := rejected(raw); err != nil {
		return err
	}
	body := unwrap(raw, "cart", "data")
	if !hasAnyKey(body, "items", "totalPrice", "grandTotal") {
		return errNoEntity
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if out.Items == nil {
		out.Items = []models.CartItem{}
	}
	if out.Status == "" {
		out.Status = models.CartStatusActive
	}
	return nil
}

// Reset drops the cart and discards every response still in flight.
func (c *CartStore) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cart = models.EmptyCart()
	c.applied = c.issued
	c.updating = make(map[string]int)
	c.err = ""
}

func (c *CartStore) setError(err error) {
	c.mu.Lock()
	c.err = common.UserMessage(err)
	c.mu.Unlock()
}

// Cart returns a copy of the current cart.
func (c *CartStore) Cart() models.Cart {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cart.Clone()
}

// CalculateTotals reads the server-computed totals verbatim.
func (c *CartStore) CalculateTotals() models.Totals {
	c.mu.Lock()
	defer c.mu.Unlock()
	return models.Totals{
		TotalPrice: c.cart.TotalPrice,
		Discount:   c.cart.Discount,
		GrandTotal: c.cart.GrandTotal,
	}
}

// ItemCount is the total number of units across all lines.
func (c *CartStore) ItemCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, it := range c.cart.Items {
		n += it.Quantity
	}
	return n
}

// Updating reports whether a call touching productID is in flight.
func (c *CartStore) Updating(productID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.updating[productID] > 0
}

func (c *CartStore) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inflight > 0
}

func (c *CartStore) Error() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}
