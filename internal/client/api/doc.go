// Package api is the HTTP wrapper every store talks through.
//
// The Client attaches "Authorization: Bearer <token>" whenever the session
// provider holds a token and owns the one cross-cutting auth policy: on a
// 401 it clears the stored session, publishes events.SessionEnded with
// reason "expired" and navigates to the login route, all before the call
// returns common.ErrAuthExpired. Requests that authenticate the user
// (login, OTP) opt out with Request.NoAuthRedirect so a rejected password
// surfaces as a plain *common.APIError.
//
// Non-2xx responses become *common.APIError carrying the backend message
// verbatim. Transport failures wrap common.ErrNetwork.
package api
