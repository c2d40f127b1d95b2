package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/spicestore/internal/common"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	isAdmin() bool

	Login(ctx context.Context, args []string) error
	Signup(ctx context.Context, args []string) error
	Forgot(ctx context.Context, args []string) error
	Logout(ctx context.Context, args []string) error
	Profile(ctx context.Context, args []string) error

	Products(ctx context.Context, args []string) error
	Categories(ctx context.Context, args []string) error
	Subscribe(ctx context.Context, args []string) error
	Distributor(ctx context.Context, args []string) error

	Cart(ctx context.Context, args []string) error
	Add(ctx context.Context, args []string) error
	Inc(ctx context.Context, args []string) error
	Dec(ctx context.Context, args []string) error
	Remove(ctx context.Context, args []string) error
	Coupon(ctx context.Context, args []string) error
	Clear(ctx context.Context, args []string) error

	Orders(ctx context.Context, args []string) error
	OrderStatus(ctx context.Context, args []string) error
	DeleteOrder(ctx context.Context, args []string) error
	Invoice(ctx context.Context, args []string) error
	Export(ctx context.Context, args []string) error
}

const (
	helpGuest = "Available commands: login, signup, forgot, products, categories, subscribe, distributor, exit"
	helpUser  = "Available commands: products, categories, cart, add, inc, dec, remove, coupon, clear, profile, subscribe, distributor, logout, exit"
	helpAdmin = "Admin commands: orders, order-status, delete-order, invoice, export"
)

// runREPL starts a read-eval-print loop for the storefront shell.
//
// It reads a line from the provided scanner, parses the first token as the
// command and passes the remaining tokens to the matching method on 'a'.
// Handler errors are reported with their user-facing message and never stop
// the loop. The loop exits on scanner EOF, when ctx is done, or when the user
// types "exit" or "quit".
//
//	Anyone:
//	  - help                          show available commands
//	  - login [email]                 sign in
//	  - signup                        register with an emailed OTP
//	  - forgot [email]                reset the password with an emailed OTP
//	  - products [category-id]        list products
//	  - categories                    list categories
//	  - subscribe <email>             join the newsletter
//	  - distributor                   apply as a distributor
//	  - exit | quit                   leave the program
//
//	Signed in:
//	  - cart                          show the cart
//	  - add <product-id> [qty] [variant]
//	  - inc | dec | remove <product-id>
//	  - coupon <code>, clear
//	  - profile <name> [image-path]
//	  - logout
//
//	Admin:
//	  - orders [status=..] [payment=..] [from=YYYY-MM-DD] [to=YYYY-MM-DD] [q=..] [sort=..] [page=N] [limit=N]
//	  - order-status <id> <order-status> [payment-status]
//	  - delete-order <id>
//	  - invoice <id>
//	  - export [file.xlsx]
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("spice %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := strings.ToLower(parts[0]), parts[1:]

		var handler func(context.Context, []string) error

		switch cmd {
		case "help":
			switch {
			case a.isAdmin():
				printlnFn(helpUser)
				printlnFn(helpAdmin)
			case a.isLoggedIn():
				printlnFn(helpUser)
			default:
				printlnFn(helpGuest)
			}
			continue

		case "login":
			handler = a.Login
		case "signup", "register":
			handler = a.Signup
		case "forgot":
			handler = a.Forgot
		case "logout":
			handler = a.Logout
		case "profile":
			handler = a.Profile

		case "products", "p":
			handler = a.Products
		case "categories":
			handler = a.Categories
		case "subscribe":
			handler = a.Subscribe
		case "distributor":
			handler = a.Distributor

		case "cart", "c":
			handler = a.Cart
		case "add":
			handler = a.Add
		case "inc", "+":
			handler = a.Inc
		case "dec", "-":
			handler = a.Dec
		case "remove", "rm":
			handler = a.Remove
		case "coupon":
			handler = a.Coupon
		case "clear":
			handler = a.Clear

		case "orders":
			handler = a.Orders
		case "order-status":
			handler = a.OrderStatus
		case "delete-order":
			handler = a.DeleteOrder
		case "invoice":
			handler = a.Invoice
		case "export":
			handler = a.Export

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
			continue
		}

		if err := handler(ctx, args); err != nil {
			printlnFn("Error:", common.UserMessage(err))
		}
	}
}
