package stores

import (
	"bytes"
	"context"
	"math"
	"net/http"
	"testing"
	"time"

	"github.com/dmitrijs2005/spicestore/internal/client/models"
	"github.com/dmitrijs2005/spicestore/internal/common"
	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int) time.Time { return time.Date(2025, 1, d, 10, 0, 0, 0, time.UTC) }

func sampleOrders() []models.Order {
	return []models.Order{
		{ID: "o1", User: models.Ref{ID: "u1", Name: "Asha", Email: "asha@b.com"}, OrderStatus: models.OrderStatusProcessing,
			PaymentStatus: models.PaymentStatusPaid, GrandTotal: 300, CreatedAt: day(1), Address: models.Address{City: "Kochi"}},
		{ID: "o2", User: models.Ref{ID: "u2", Name: "Ravi", Email: "ravi@b.com"}, OrderStatus: models.OrderStatusShipped,
			PaymentStatus: models.PaymentStatusPaid, GrandTotal: 100, CreatedAt: day(5), Address: models.Address{City: "Delhi"}},
		{ID: "o3", User: models.Ref{ID: "u1", Name: "Asha", Email: "asha@b.com"}, OrderStatus: models.OrderStatusProcessing,
			PaymentStatus: models.PaymentStatusPending, GrandTotal: 200, CreatedAt: day(9), Address: models.Address{City: "Mumbai"}},
		{ID: "o4", User: models.Ref{ID: "u3", Name: "Meera", Email: "meera@b.com"}, OrderStatus: models.OrderStatusCancelled,
			PaymentStatus: models.PaymentStatusFailed, GrandTotal: 50, CreatedAt: day(12), Address: models.Address{City: "Kochi"}},
	}
}

func orderIDs(os []models.Order) []string {
	out := make([]string, len(os))
	for i, o := range os {
		out[i] = o.ID
	}
	return out
}

func TestFilterOrders(t *testing.T) {
	tests := []struct {
		name  string
		q     OrderQuery
		want  []string
		total int
		pages int
	}{
		{name: "default newest first", q: OrderQuery{}, want: []string{"o4", "o3", "o2", "o1"}, total: 4, pages: 1},
		{name: "status", q: OrderQuery{Status: models.OrderStatusProcessing}, want: []string{"o3", "o1"}, total: 2, pages: 1},
		{name: "payment status", q: OrderQuery{PaymentStatus: models.PaymentStatusPaid, Sort: SortOldest}, want: []string{"o1", "o2"}, total: 2, pages: 1},
		{name: "date range inclusive", q: OrderQuery{From: day(5), To: day(9)}, want: []string{"o3", "o2"}, total: 2, pages: 1},
		{name: "text on email", q: OrderQuery{Text: "ASHA@"}, want: []string{"o3", "o1"}, total: 2, pages: 1},
		{name: "text on address", q: OrderQuery{Text: "kochi", Sort: SortTotalAsc}, want: []string{"o4", "o1"}, total: 2, pages: 1},
		{name: "text on id", q: OrderQuery{Text: "o2"}, want: []string{"o2"}, total: 1, pages: 1},
		{name: "total desc", q: OrderQuery{Sort: SortTotalDesc}, want: []string{"o1", "o3", "o2", "o4"}, total: 4, pages: 1},
		{name: "page 2 of 2", q: OrderQuery{Sort: SortOldest, Page: 2, Limit: 3}, want: []string{"o4"}, total: 4, pages: 2},
		{name: "page past end", q: OrderQuery{Page: 5, Limit: 2}, want: []string{}, total: 4, pages: 2},
		{name: "no match", q: OrderQuery{Text: "zzz"}, want: []string{}, total: 0, pages: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := FilterOrders(sampleOrders(), tt.q)
			assert.Empty(t, cmp.Diff(tt.want, orderIDs(page.Orders)))
			assert.Equal(t, tt.total, page.Total)
			assert.Equal(t, tt.pages, page.Pages)
		})
	}
}

func TestFilterOrders_DefaultPaging(t *testing.T) {
	page := FilterOrders(sampleOrders(), OrderQuery{Page: -1})
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, DefaultPageLimit, page.Limit)
}

func TestFilterOrders_ExtremePaging(t *testing.T) {
	tests := []struct {
		name  string
		q     OrderQuery
		want  []string
		pages int
	}{
		{name: "max page", q: OrderQuery{Sort: SortOldest, Page: math.MaxInt, Limit: 20}, want: []string{}, pages: 1},
		{name: "max limit", q: OrderQuery{Sort: SortOldest, Page: 1, Limit: math.MaxInt}, want: []string{"o1", "o2", "o3", "o4"}, pages: 1},
		{name: "max both", q: OrderQuery{Page: math.MaxInt, Limit: math.MaxInt}, want: []string{}, pages: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var page OrderPage
			require.NotPanics(t, func() { page = FilterOrders(sampleOrders(), tt.q) })
			assert.Empty(t, cmp.Diff(tt.want, orderIDs(page.Orders)))
			assert.Equal(t, 4, page.Total)
			assert.Equal(t, tt.pages, page.Pages)
		})
	}
}

func TestFilterOrders_DoesNotReorderInput(t *testing.T) {
	in := sampleOrders()
	FilterOrders(in, OrderQuery{Sort: SortTotalAsc})
	assert.Equal(t, []string{"o1", "o2", "o3", "o4"}, orderIDs(in))
}

func adminEnv(t *testing.T) *env {
	t.Helper()
	e := newEnv(t)
	e.signIn(t)
	e.srv.Stub(http.MethodGet, "/orders", http.StatusOK, gin.H{"orders": sampleOrders()})
	require.NoError(t, e.orders.FetchAllOrders(context.Background()))
	return e
}

func TestOrderStore_Fetch(t *testing.T) {
	e := adminEnv(t)
	assert.Equal(t, []string{"o1", "o2", "o3", "o4"}, orderIDs(e.orders.Orders()))
	assert.Equal(t, "asha@b.com", e.orders.Orders()[0].User.Email)

	page := e.orders.Filter(OrderQuery{Status: models.OrderStatusCancelled})
	assert.Equal(t, []string{"o4"}, orderIDs(page.Orders))
}

func TestOrderStore_UpdateOrder(t *testing.T) {
	t.Run("echoed", func(t *testing.T) {
		e := adminEnv(t)
		echoed := sampleOrders()[1]
		echoed.OrderStatus = models.OrderStatusDelivered
		e.srv.Stub(http.MethodPut, "/orders/o2", http.StatusOK, gin.H{"order": echoed})

		require.NoError(t, e.orders.UpdateOrder(context.Background(), "o2", models.StatusUpdate{OrderStatus: models.OrderStatusDelivered}))
		assert.Equal(t, models.OrderStatusDelivered, e.orders.Orders()[1].OrderStatus)
		assert.JSONEq(t, `{"orderStatus":"delivered"}`, string(e.srv.Last(t).Body))
	})

	t.Run("not echoed", func(t *testing.T) {
		e := adminEnv(t)
		e.srv.Stub(http.MethodPut, "/orders/o3", http.StatusOK, gin.H{"message": "updated"})

		require.NoError(t, e.orders.UpdateOrder(context.Background(), "o3", models.StatusUpdate{PaymentStatus: models.PaymentStatusPaid}))
		o := e.orders.Orders()[2]
		assert.Equal(t, models.PaymentStatusPaid, o.PaymentStatus)
		assert.Equal(t, models.OrderStatusProcessing, o.OrderStatus)
	})

	t.Run("rejected", func(t *testing.T) {
		e := adminEnv(t)
		e.srv.Stub(http.MethodPut, "/orders/o1", http.StatusBadRequest, gin.H{"message": "Cannot ship cancelled order"})

		err := e.orders.UpdateOrder(context.Background(), "o1", models.StatusUpdate{OrderStatus: models.OrderStatusShipped})
		require.Error(t, err)
		assert.Equal(t, "Cannot ship cancelled order", e.orders.Error())
		assert.Equal(t, models.OrderStatusProcessing, e.orders.Orders()[0].OrderStatus)
	})
}

func TestOrderStore_UpdateOrderValidation(t *testing.T) {
	e := adminEnv(t)
	ctx := context.Background()
	before := len(e.srv.Requests())

	cases := []struct {
		id  string
		upd models.StatusUpdate
	}{
		{id: "", upd: models.StatusUpdate{OrderStatus: models.OrderStatusShipped}},
		{id: "o1", upd: models.StatusUpdate{}},
		{id: "o1", upd: models.StatusUpdate{OrderStatus: "returned"}},
		{id: "o1", upd: models.StatusUpdate{PaymentStatus: "refunded"}},
	}
	for _, c := range cases {
		require.ErrorIs(t, e.orders.UpdateOrder(ctx, c.id, c.upd), common.ErrInvalidInput)
	}
	assert.Len(t, e.srv.Requests(), before)
	assert.Contains(t, e.orders.Error(), "unknown payment status")
}

func TestOrderStore_DeleteOrder(t *testing.T) {
	e := adminEnv(t)
	e.srv.Stub(http.MethodDelete, "/orders/o2", http.StatusOK, gin.H{"message": "deleted"})

	require.NoError(t, e.orders.DeleteOrder(context.Background(), "o2"))
	assert.Equal(t, []string{"o1", "o3", "o4"}, orderIDs(e.orders.Orders()))
}

func TestOrderStore_GenerateInvoice(t *testing.T) {
	e := adminEnv(t)
	pdf := []byte("%PDF-1.7\n\x00\xff binary")
	e.srv.StubRaw(http.MethodGet, "/orders/invoice/o1", http.StatusOK, "application/pdf", pdf)

	var buf bytes.Buffer
	n, err := e.orders.GenerateInvoice(context.Background(), "o1", &buf)

	require.NoError(t, err)
	assert.Equal(t, int64(len(pdf)), n)
	assert.Equal(t, pdf, buf.Bytes())
}

func TestOrderStore_GenerateInvoiceNotFound(t *testing.T) {
	e := adminEnv(t)
	e.srv.Stub(http.MethodGet, "/orders/invoice/zz", http.StatusNotFound, gin.H{"message": "Order not found"})

	var buf bytes.Buffer
	_, err := e.orders.GenerateInvoice(context.Background(), "zz", &buf)

	require.ErrorIs(t, err, common.ErrNotFound)
	assert.Equal(t, "Order not found", e.orders.Error())
	assert.Zero(t, buf.Len())
}
