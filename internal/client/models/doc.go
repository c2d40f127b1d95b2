// Package models defines the storefront records exchanged with the REST
// backend: the session user, the cart, catalog entities and admin orders.
//
// Records carry their backend identifier in the opaque "_id" field; the
// client never generates identifiers itself.
package models
