package cli

import (
	"context"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/dmitrijs2005/spicestore/internal/client/stores"
)

func (a *App) table() *tabwriter.Writer {
	return tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
}

// loadCart refreshes the cart after sign-in. Failures are logged only; the
// shell still starts with an empty cart.
func (a *App) loadCart(ctx context.Context) {
	if err := a.cart.FetchCart(ctx, a.userID()); err != nil {
		a.log.Warn(ctx, "could not load cart", "error", err)
	}
}

// Products lists the catalog, optionally restricted to one category id.
func (a *App) Products(ctx context.Context, args []string) error {
	if err := a.catalog.Products.Fetch(ctx); err != nil {
		return err
	}

	tw := a.table()
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tPRICE")
	n := 0
	for _, p := range a.catalog.Products.Items() {
		if len(args) > 0 && p.Category.ID != args[0] {
			continue
		}
		category := p.Category.Name
		if category == "" {
			category = p.Category.ID
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.2f\n", p.ID, p.Name, category, p.Price)
		n++
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if n == 0 {
		a.println("No products found")
	}
	return nil
}

func (a *App) Categories(ctx context.Context, _ []string) error {
	if err := a.catalog.Categories.Fetch(ctx); err != nil {
		return err
	}
	if a.catalog.Categories.Len() == 0 {
		a.println("No categories found")
		return nil
	}

	tw := a.table()
	fmt.Fprintln(tw, "ID\tNAME")
	for _, c := range a.catalog.Categories.Items() {
		fmt.Fprintf(tw, "%s\t%s\n", c.ID, c.Name)
	}
	return tw.Flush()
}

func (a *App) Subscribe(ctx context.Context, args []string) error {
	email, err := a.argOrPrompt(args, "Enter email")
	if err != nil {
		return err
	}
	if err := a.catalog.SubscribeEmail(ctx, email); err != nil {
		return err
	}
	a.println("Subscribed", email)
	return nil
}

// Distributor fills in the public distributor application.
func (a *App) Distributor(ctx context.Context, _ []string) error {
	var app stores.DistributorApplication
	fields := []struct {
		prompt string
		dst    *string
	}{
		{"Name", &app.Name},
		{"Email", &app.Email},
		{"Phone", &app.Phone},
		{"City (optional)", &app.City},
		{"Message (optional)", &app.Message},
	}
	for _, f := range fields {
		v, err := getSimpleText(a.in, f.prompt, a.out)
		if err != nil {
			return err
		}
		*f.dst = v
	}

	if !a.catalog.SubmitDistributor(ctx, app) {
		a.println("Application failed:", a.catalog.Distributors.Error())
		return nil
	}
	a.println("Application sent. We will contact you soon.")
	return nil
}

// Cart reloads the cart from the server and prints it.
func (a *App) Cart(ctx context.Context, _ []string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	if err := a.cart.FetchCart(ctx, a.userID()); err != nil {
		return err
	}
	return a.printCart()
}

func (a *App) printCart() error {
	cart := a.cart.Cart()
	if len(cart.Items) == 0 {
		a.println("Your cart is empty")
		return nil
	}

	tw := a.table()
	fmt.Fprintln(tw, "PRODUCT\tNAME\tVARIANT\tQTY\tPRICE")
	for _, it := range cart.Items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%.2f\n", it.Product.ID, it.ProductSnapshot.Name, it.Variant, it.Quantity, it.ProductSnapshot.Price)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	t := a.cart.CalculateTotals()
	a.printf("Subtotal: %.2f  Discount: %.2f  Total: %.2f\n", t.TotalPrice, t.Discount, t.GrandTotal)
	if cart.Coupon != "" {
		a.printf("Coupon: %s\n", cart.Coupon)
	}
	return nil
}

func (a *App) Add(ctx context.Context, args []string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	if len(args) == 0 {
		return usage("add <product-id> [qty] [variant]")
	}

	qty := 1
	if len(args) > 1 {
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return usage("add <product-id> [qty] [variant]")
		}
		qty = n
	}
	variant := ""
	if len(args) > 2 {
		variant = args[2]
	}

	if err := a.cart.AddItem(ctx, a.userID(), args[0], qty, variant); err != nil {
		return err
	}
	return a.printCart()
}

func (a *App) Inc(ctx context.Context, args []string) error {
	return a.cartLine(ctx, args, "inc <product-id>", a.cart.Increment)
}

func (a *App) Dec(ctx context.Context, args []string) error {
	return a.cartLine(ctx, args, "dec <product-id>", a.cart.Decrement)
}

func (a *App) Remove(ctx context.Context, args []string) error {
	return a.cartLine(ctx, args, "remove <product-id>", a.cart.RemoveItem)
}

func (a *App) cartLine(ctx context.Context, args []string, help string, op func(ctx context.Context, userID, productID string) error) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	if len(args) == 0 {
		return usage(help)
	}
	if err := op(ctx, a.userID(), args[0]); err != nil {
		return err
	}
	return a.printCart()
}

func (a *App) Coupon(ctx context.Context, args []string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	if len(args) == 0 {
		return usage("coupon <code>")
	}
	if err := a.cart.ApplyCoupon(ctx, a.userID(), args[0]); err != nil {
		return err
	}
	return a.printCart()
}

func (a *App) Clear(ctx context.Context, _ []string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	if err := a.cart.ClearCart(ctx, a.userID()); err != nil {
		return err
	}
	a.println("Cart cleared")
	return nil
}
