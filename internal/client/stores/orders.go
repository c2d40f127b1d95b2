package stores

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/spicestore/internal/client/api"
	"github.com/dmitrijs2005/spicestore/internal/client/models"
	"github.com/dmitrijs2005/spicestore/internal/common"
	"github.com/dmitrijs2005/spicestore/internal/logging"
)

// OrderStore is the admin view over all orders. Filtering, sorting and
// paging run locally over the fetched list.
type OrderStore struct {
	t   Transport
	log logging.Logger

	mu      sync.Mutex
	orders  []models.Order
	loading bool
	err     string
}

func NewOrderStore(t Transport, log logging.Logger) *OrderStore {
	return &OrderStore{t: t, log: log, orders: []models.Order{}}
}

func (s *OrderStore) FetchAllOrders(ctx context.Context) error {
	s.setLoading(true)
	defer s.setLoading(false)

	var raw json.RawMessage
	err := s.t.Do(ctx, api.Request{Method: http.MethodGet, Path: "/orders"}, &raw)
	var list []models.Order
	if err == nil {
		list, err = decodeList[models.Order](raw, "orders", "data")
	}
	if err != nil {
		return s.fail(err)
	}

	s.mu.Lock()
	s.orders = list
	s.err = ""
	s.mu.Unlock()
	return nil
}

// UpdateOrder changes the order and/or payment status of id.
func (s *OrderStore) UpdateOrder(ctx context.Context, id string, upd models.StatusUpdate) error {
	if err := validateStatusUpdate(id, upd); err != nil {
		return s.fail(err)
	}

	s.setLoading(true)
	defer s.setLoading(false)

	var raw json.RawMessage
	err := s.t.Do(ctx, api.Request{Method: http.MethodPut, Path: "/orders/" + url.PathEscape(id), Body: upd}, &raw)
	if err != nil {
		return s.fail(err)
	}

	var echoed models.Order
	if err := decodeOne(raw, &echoed, "order", "data"); err != nil || echoed.ID != id {
		echoed = models.Order{}
	}

	s.mu.Lock()
	for i := range s.orders {
		if s.orders[i].ID != id {
			continue
		}
		if echoed.ID != "" {
			s.orders[i] = echoed
			break
		}
		if upd.OrderStatus != "" {
			s.orders[i].OrderStatus = upd.OrderStatus
		}
		if upd.PaymentStatus != "" {
			s.orders[i].PaymentStatus = upd.PaymentStatus
		}
		break
	}
	s.err = ""
	s.mu.Unlock()
	return nil
}

func validateStatusUpdate(id string, upd models.StatusUpdate) error {
	switch {
	case id == "":
		return fmt.Errorf("%w: order id is required", common.ErrInvalidInput)
	case upd.OrderStatus == "" && upd.PaymentStatus == "":
		return fmt.Errorf("%w: nothing to update", common.ErrInvalidInput)
	case upd.OrderStatus != "" && !upd.OrderStatus.Valid():
		return fmt.Errorf("%w: unknown order status %q", common.ErrInvalidInput, upd.OrderStatus)
	case upd.PaymentStatus != "" && !upd.PaymentStatus.Valid():
		return fmt.Errorf("%w: unknown payment status %q", common.ErrInvalidInput, upd.PaymentStatus)
	}
	return nil
}

func (s *OrderStore) DeleteOrder(ctx context.Context, id string) error {
	if id == "" {
		return s.fail(fmt.Errorf("%w: order id is required", common.ErrInvalidInput))
	}

	s.setLoading(true)
	defer s.setLoading(false)

	if err := s.t.Do(ctx, api.Request{Method: http.MethodDelete, Path: "/orders/" + url.PathEscape(id)}, nil); err != nil {
		return s.fail(err)
	}

	s.mu.Lock()
	kept := s.orders[:0:0]
	for _, o := range s.orders {
		if o.ID != id {
			kept = append(kept, o)
		}
	}
	s.orders = kept
	s.err = ""
	s.mu.Unlock()
	return nil
}

// GenerateInvoice streams the invoice for orderID into w as is.
func (s *OrderStore) GenerateInvoice(ctx context.Context, orderID string, w io.Writer) (int64, error) {
	if orderID == "" {
		return 0, s.fail(fmt.Errorf("%w: order id is required", common.ErrInvalidInput))
	}
	n, err := s.t.Download(ctx, "/orders/invoice/"+url.PathEscape(orderID), w)
	if err != nil {
		return n, s.fail(err)
	}
	s.log.Debug(ctx, "invoice downloaded", "order_id", orderID, "bytes", n)
	return n, nil
}

// Orders returns a copy of the fetched orders.
func (s *OrderStore) Orders() []models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Order(nil), s.orders...)
}

// Filter applies q to the fetched orders.
func (s *OrderStore) Filter(q OrderQuery) OrderPage {
	return FilterOrders(s.Orders(), q)
}

func (s *OrderStore) fail(err error) error {
	s.mu.Lock()
	s.err = common.UserMessage(err)
	s.mu.Unlock()
	return err
}

func (s *OrderStore) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

func (s *OrderStore) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *OrderStore) Error() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

type OrderSort string

const (
	SortNewest    OrderSort = "date_desc"
	SortOldest    OrderSort = "date_asc"
	SortTotalAsc  OrderSort = "total_asc"
	SortTotalDesc OrderSort = "total_desc"
)

const DefaultPageLimit = 20

// OrderQuery selects a page of orders. Zero values match everything; From
// and To bound CreatedAt inclusively.
type OrderQuery struct {
	Status        models.OrderStatus
	PaymentStatus models.PaymentStatus
	From          time.Time
	To            time.Time
	Text          string
	Sort          OrderSort
	Page          int
	Limit         int
}

type OrderPage struct {
	Orders []models.Order
	Total  int
	Page   int
	Limit  int
	Pages  int
}

// FilterOrders is the pure filter/sort/page step behind OrderStore.Filter.
func FilterOrders(orders []models.Order, q OrderQuery) OrderPage {
	text := strings.ToLower(strings.TrimSpace(q.Text))

	matched := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		if q.Status != "" && o.OrderStatus != q.Status {
			continue
		}
		if q.PaymentStatus != "" && o.PaymentStatus != q.PaymentStatus {
			continue
		}
		if !q.From.IsZero() && o.CreatedAt.Before(q.From) {
			continue
		}
		if !q.To.IsZero() && o.CreatedAt.After(q.To) {
			continue
		}
		if text != "" && !matchesText(o, text) {
			continue
		}
		matched = append(matched, o)
	}

	sortOrders(matched, q.Sort)

	page, limit := q.Page, q.Limit
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if page <= 0 {
		page = 1
	}
	pages := len(matched) / limit
	if len(matched)%limit != 0 {
		pages++
	}

	out := OrderPage{Total: len(matched), Page: page, Limit: limit, Pages: pages, Orders: []models.Order{}}
	// page <= pages keeps the offset below len(matched), so it cannot overflow.
	if page <= pages {
		offset := (page - 1) * limit
		out.Orders = matched[offset : offset+min(limit, len(matched)-offset)]
	}
	return out
}

func matchesText(o models.Order, text string) bool {
	for _, field := range []string{o.ID, o.User.ID, o.User.Name, o.User.Email, o.Address.String()} {
		if strings.Contains(strings.ToLower(field), text) {
			return true
		}
	}
	return false
}

func sortOrders(orders []models.Order, by OrderSort) {
	var less func(a, b models.Order) bool
	switch by {
	case SortOldest:
		less = func(a, b models.Order) bool { return a.CreatedAt.Before(b.CreatedAt) }
	case SortTotalAsc:
		less = func(a, b models.Order) bool { return a.GrandTotal < b.GrandTotal }
	case SortTotalDesc:
		less = func(a, b models.Order) bool { return a.GrandTotal > b.GrandTotal }
	default:
		less = func(a, b models.Order) bool { return a.CreatedAt.After(b.CreatedAt) }
	}
	sort.SliceStable(orders, func(i, j int) bool { return less(orders[i], orders[j]) })
}
