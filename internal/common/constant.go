// Package common contains shared constants and sentinel errors used across
// spicestore components.
package common

// Outbound header names used by the API transport.
const (
	AuthorizationHeaderName = "Authorization"
	BearerPrefix            = "Bearer "
	RequestIDHeaderName     = "X-Request-ID"
)

// GenericFailureMessage is shown to the user when a request failed before
// any response arrived.
const GenericFailureMessage = "something went wrong"
