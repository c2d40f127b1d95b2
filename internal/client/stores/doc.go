// Package stores holds the client-side state for the storefront: the
// signed-in user, the cart, the catalog collections and the admin order
// list.
//
// Every store keeps its state behind a mutex that is never held across a
// network call, and replaces state only after the backend confirms. Errors
// are recorded on the store (Error/Message) and also returned, so a front
// end can either poll the store or branch on the result.
package stores
