// Package cli provides the interactive spicestore storefront shell.
//
// It wires configuration, the durable session store, the HTTP client and the
// client stores, then runs a REPL on top of them. The shell only talks to the
// stores; every request, token and 401 decision lives below it.
//
// Key features:
//   - Login / Signup (OTP) / password reset / Logout
//   - Browse products and categories
//   - Cart: add, increment, decrement, remove, coupon, clear
//   - Newsletter and distributor forms
//   - Admin: list and filter orders, update status, delete, invoice download
//     and xlsx export
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
