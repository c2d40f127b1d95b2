// Package session persists the signed-in identity across restarts.
//
// A Store is a small key/value backend (SQLite, Redis or memory). Storage
// sits on top of it and exposes the session as the rest of the client sees
// it: a bearer token, the user record and the user id, stored under the
// durable keys "token", "user" and "userId".
package session
