package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/spicestore/internal/client/export"
	"github.com/dmitrijs2005/spicestore/internal/client/models"
	"github.com/dmitrijs2005/spicestore/internal/client/stores"
	"github.com/dmitrijs2005/spicestore/internal/filex"
)

const dateLayout = "2006-01-02"

const ordersUsage = "orders [status=..] [payment=..] [from=YYYY-MM-DD] [to=YYYY-MM-DD] [q=..] [sort=..] [page=N] [limit=N]"

// parseOrderQuery builds a query from "key=value" arguments. A bare word is
// taken as free text.
func parseOrderQuery(args []string) (stores.OrderQuery, error) {
	opts, rest := parseOptions(args)
	if v := opts["q"]; v != "" {
		rest = append(rest, v)
	}
	q := stores.OrderQuery{
		Status:        models.OrderStatus(opts["status"]),
		PaymentStatus: models.PaymentStatus(opts["payment"]),
		Text:          strings.Join(rest, " "),
		Sort:          stores.OrderSort(opts["sort"]),
	}

	if q.Status != "" && !q.Status.Valid() {
		return q, usage(ordersUsage)
	}
	if q.PaymentStatus != "" && !q.PaymentStatus.Valid() {
		return q, usage(ordersUsage)
	}

	var err error
	if v := opts["from"]; v != "" {
		if q.From, err = time.Parse(dateLayout, v); err != nil {
			return q, usage(ordersUsage)
		}
	}
	if v := opts["to"]; v != "" {
		if q.To, err = time.Parse(dateLayout, v); err != nil {
			return q, usage(ordersUsage)
		}
		// whole day
		q.To = q.To.Add(24*time.Hour - time.Nanosecond)
	}
	if v := opts["page"]; v != "" {
		if q.Page, err = strconv.Atoi(v); err != nil || q.Page < 1 {
			return q, usage(ordersUsage)
		}
	}
	if v := opts["limit"]; v != "" {
		if q.Limit, err = strconv.Atoi(v); err != nil || q.Limit < 1 {
			return q, usage(ordersUsage)
		}
	}
	return q, nil
}

// Orders fetches every order and prints the requested page.
func (a *App) Orders(ctx context.Context, args []string) error {
	if err := a.requireAdmin(); err != nil {
		return err
	}
	q, err := parseOrderQuery(args)
	if err != nil {
		return err
	}
	if err := a.orders.FetchAllOrders(ctx); err != nil {
		return err
	}

	page := a.orders.Filter(q)
	if page.Total == 0 {
		a.println("No orders found")
		return nil
	}

	tw := a.table()
	fmt.Fprintln(tw, "ID\tDATE\tCUSTOMER\tSTATUS\tPAYMENT\tTOTAL")
	for _, o := range page.Orders {
		customer := o.User.Email
		if customer == "" {
			customer = o.User.ID
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%.2f\n",
			o.ID, o.CreatedAt.Format(dateLayout), customer, o.OrderStatus, o.PaymentStatus, o.GrandTotal)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	a.printf("Page %d of %d (%d orders)\n", page.Page, page.Pages, page.Total)
	return nil
}

func (a *App) OrderStatus(ctx context.Context, args []string) error {
	if err := a.requireAdmin(); err != nil {
		return err
	}
	if len(args) < 2 {
		return usage("order-status <id> <order-status> [payment-status]")
	}

	upd := models.StatusUpdate{OrderStatus: models.OrderStatus(args[1])}
	if len(args) > 2 {
		upd.PaymentStatus = models.PaymentStatus(args[2])
	}
	if err := a.orders.UpdateOrder(ctx, args[0], upd); err != nil {
		return err
	}
	a.printf("Order %s updated\n", args[0])
	return nil
}

func (a *App) DeleteOrder(ctx context.Context, args []string) error {
	if err := a.requireAdmin(); err != nil {
		return err
	}
	if len(args) == 0 {
		return usage("delete-order <id>")
	}
	if err := a.orders.DeleteOrder(ctx, args[0]); err != nil {
		return err
	}
	a.printf("Order %s deleted\n", args[0])
	return nil
}

// Invoice downloads the PDF invoice into the configured invoice directory.
func (a *App) Invoice(ctx context.Context, args []string) error {
	if err := a.requireAdmin(); err != nil {
		return err
	}
	if len(args) == 0 {
		return usage("invoice <id>")
	}

	path, err := filex.SaveStream(a.cfg.InvoiceDir, "invoice-"+args[0]+".pdf", func(w io.Writer) error {
		_, err := a.orders.GenerateInvoice(ctx, args[0], w)
		return err
	})
	if err != nil {
		return err
	}
	a.println("Invoice saved to", path)
	return nil
}

// Export writes the fetched orders, after the same filters as Orders, to an
// xlsx workbook in the invoice directory.
func (a *App) Export(ctx context.Context, args []string) error {
	if err := a.requireAdmin(); err != nil {
		return err
	}

	name := "orders.xlsx"
	filters := make([]string, 0, len(args))
	for _, arg := range args {
		if !strings.Contains(arg, "=") && strings.HasSuffix(arg, ".xlsx") {
			name = arg
			continue
		}
		filters = append(filters, arg)
	}

	q, err := parseOrderQuery(filters)
	if err != nil {
		return err
	}
	if err := a.orders.FetchAllOrders(ctx); err != nil {
		return err
	}
	q.Page, q.Limit = 1, len(a.orders.Orders())
	page := a.orders.Filter(q)

	path, err := filex.SaveStream(a.cfg.InvoiceDir, name, func(w io.Writer) error {
		return export.WriteOrdersXLSX(w, page.Orders)
	})
	if err != nil {
		return err
	}
	a.printf("Exported %d orders to %s\n", len(page.Orders), path)
	return nil
}
