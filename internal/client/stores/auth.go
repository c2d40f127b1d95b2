package stores

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/dmitrijs2005/spicestore/internal/client/api"
	"github.com/dmitrijs2005/spicestore/internal/client/events"
	"github.com/dmitrijs2005/spicestore/internal/client/models"
	"github.com/dmitrijs2005/spicestore/internal/client/navigation"
	"github.com/dmitrijs2005/spicestore/internal/common"
	"github.com/dmitrijs2005/spicestore/internal/logging"
)

// SuggestResetAfter is the number of consecutive rejected logins after
// which the UI should offer a password reset. It is not a lockout.
const SuggestResetAfter = 3

// Signup steps.
const (
	StepEmail  = 1
	StepVerify = 2
)

type ResultKind string

const (
	ResultOK                 ResultKind = "ok"
	ResultInvalidCredentials ResultKind = "invalid_credentials"
	ResultInvalidInput       ResultKind = "invalid_input"
	ResultFailed             ResultKind = "failed"
)

type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResult is returned instead of an error so the caller can render the
// failure inline. Redirect is the route to open on success.
type LoginResult struct {
	Success  bool
	User     *models.User
	Token    string
	Message  string
	Kind     ResultKind
	Redirect string
}

type SignupData struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Phone    string `json:"phone,omitempty"`
	Otp      string `json:"otp" validate:"required,numeric,min=4,max=8"`
}

type ResetData struct {
	Email       string `json:"email" validate:"required,email"`
	Otp         string `json:"otp" validate:"required,numeric,min=4,max=8"`
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}

type emailInput struct {
	Email string `json:"email" validate:"required,email"`
}

type authResponse struct {
	ack
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// AuthStore owns the signed-in identity and the OTP signup flow.
type AuthStore struct {
	t       Transport
	storage SessionStorage
	pub     events.Publisher
	nav     navigation.Navigator
	log     logging.Logger

	mu      sync.Mutex
	user    *models.User
	token   string
	step    int
	failed  int
	loading bool
	message string
}

// NewAuthStore wires the store to bus: it publishes SessionEnded on logout
// and drops its in-memory identity when the HTTP client ends the session.
func NewAuthStore(t Transport, storage SessionStorage, bus events.Broker, nav navigation.Navigator, log logging.Logger) *AuthStore {
	a := &AuthStore{t: t, storage: storage, pub: bus, nav: nav, log: log, step: StepEmail}
	bus.Subscribe(events.SessionEnded, func(e events.Event) {
		if e.Reason == events.ReasonExpired {
			a.forget("session expired, please log in again")
		}
	})
	return a
}

// Restore loads a persisted session, if any.
func (a *AuthStore) Restore(ctx context.Context) error {
	snap, err := a.storage.Load(ctx)
	if errors.Is(err, common.ErrAuthExpired) {
		a.forget(common.UserMessage(err))
		return nil
	}
	if err != nil {
		a.setMessage(err)
		return err
	}
	if !snap.Valid() {
		return nil
	}

	a.mu.Lock()
	a.user, a.token = snap.User, snap.Token
	a.mu.Unlock()
	a.log.Debug(ctx, "session restored", "user_id", snap.User.ID)
	return nil
}

func (a *AuthStore) Login(ctx context.Context, cred Credentials) LoginResult {
	cred.Email = strings.TrimSpace(cred.Email)
	if err := check(cred); err != nil {
		msg := a.setMessage(err)
		return LoginResult{Message: msg, Kind: ResultInvalidInput}
	}

	a.setLoading(true)
	defer a.setLoading(false)

	var resp authResponse
	err := a.t.Do(ctx, api.Request{Method: http.MethodPost, Path: "/user/login", Body: cred, NoAuthRedirect: true}, &resp)
	if err == nil && (resp.failed() || resp.Token == "" || resp.User == nil) {
		msg := resp.Message
		if msg == "" {
			msg = common.ErrInvalidCredentials.Error()
		}
		err = &common.APIError{Status: http.StatusUnauthorized, Message: msg}
	}
	if err != nil {
		return a.loginFailed(ctx, err)
	}
	if resp.User.ID == "" {
		a.log.Warn(ctx, "login response without user id")
		return LoginResult{Message: a.setMessage(fmt.Errorf("%w: user id missing", errNoEntity)), Kind: ResultFailed}
	}

	if err := a.storage.SetSession(ctx, *resp.User, resp.Token); err != nil {
		a.log.Error(ctx, "failed to persist session", "error", err)
		return LoginResult{Message: a.setMessage(err), Kind: ResultFailed}
	}

	u := *resp.User
	a.mu.Lock()
	a.user, a.token = &u, resp.Token
	a.failed = 0
	a.message = ""
	a.mu.Unlock()

	redirect := navigation.RouteHome
	if u.IsAdmin() {
		redirect = navigation.RouteAdmin
	}
	a.log.Info(ctx, "logged in", "user_id", u.ID, "role", u.Role)
	return LoginResult{Success: true, User: &u, Token: resp.Token, Kind: ResultOK, Redirect: redirect}
}

func (a *AuthStore) loginFailed(ctx context.Context, err error) LoginResult {
	kind := ResultFailed
	var apiErr *common.APIError
	if errors.As(err, &apiErr) && apiErr.Status < http.StatusInternalServerError {
		kind = ResultInvalidCredentials
	}

	a.mu.Lock()
	if kind == ResultInvalidCredentials {
		a.failed++
	}
	attempts := a.failed
	a.mu.Unlock()

	msg := a.setMessage(err)
	a.log.Info(ctx, "login rejected", "kind", kind, "attempts", attempts)
	return LoginResult{Message: msg, Kind: kind}
}

// SendOtp requests a signup code for email and moves to StepVerify.
func (a *AuthStore) SendOtp(ctx context.Context, email string) error {
	in := emailInput{Email: strings.TrimSpace(email)}
	if err := a.post(ctx, "/auth/send-otp", in); err != nil {
		return err
	}
	a.mu.Lock()
	a.step = StepVerify
	a.mu.Unlock()
	return nil
}

// VerifyOtp completes registration. On success the flow goes back to
// StepEmail and the user is sent to the login route. An expired code also
// resets the flow, since a new code has to be requested.
func (a *AuthStore) VerifyOtp(ctx context.Context, data SignupData) (bool, error) {
	data.Email = strings.TrimSpace(data.Email)
	if err := a.post(ctx, "/auth/verify-otp", data); err != nil {
		if otpExpired(err) {
			a.Back()
		}
		return false, err
	}

	a.Back()
	a.nav.Navigate(navigation.RouteLogin)
	return true, nil
}

func otpExpired(err error) bool {
	var apiErr *common.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Status == http.StatusGone || strings.Contains(strings.ToLower(apiErr.Message), "expired")
}

// Back returns the signup flow to StepEmail.
func (a *AuthStore) Back() {
	a.mu.Lock()
	a.step = StepEmail
	a.mu.Unlock()
}

func (a *AuthStore) ForgotPassword(ctx context.Context, email string) error {
	return a.post(ctx, "/auth/forgot-password", emailInput{Email: strings.TrimSpace(email)})
}

func (a *AuthStore) ResetPassword(ctx context.Context, data ResetData) error {
	if err := a.post(ctx, "/auth/reset-password", data); err != nil {
		return err
	}
	a.mu.Lock()
	a.failed = 0
	a.mu.Unlock()
	return nil
}

// post sends an unauthenticated auth-flow request and records the outcome
// on Message.
func (a *AuthStore) post(ctx context.Context, path string, body any) error {
	if err := check(body); err != nil {
		a.setMessage(err)
		return err
	}

	a.setLoading(true)
	defer a.setLoading(false)

	var resp ack
	err := a.t.Do(ctx, api.Request{Method: http.MethodPost, Path: path, Body: body, NoAuthRedirect: true}, &resp)
	if err == nil && resp.failed() {
		err = resp.err()
	}
	if err != nil {
		a.setMessage(err)
		return err
	}

	a.mu.Lock()
	a.message = resp.Message
	a.mu.Unlock()
	return nil
}

// Logout clears the persisted session and the in-memory identity, then
// publishes SessionEnded so dependent stores reset.
func (a *AuthStore) Logout(ctx context.Context) error {
	err := a.storage.ClearSession(ctx)
	if err != nil {
		a.log.Error(ctx, "failed to clear session", "error", err)
	}
	a.forget("")
	a.pub.Publish(events.Event{Kind: events.SessionEnded, Reason: events.ReasonLogout})
	return err
}

func (a *AuthStore) forget(msg string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.user, a.token = nil, ""
	a.failed = 0
	a.message = msg
}

// UpdateUser sends a multipart profile update. file may be nil.
func (a *AuthStore) UpdateUser(ctx context.Context, id string, fields map[string]string, file *api.FilePart) error {
	if a.Token() == "" {
		a.setMessage(common.ErrNoSession)
		return common.ErrNoSession
	}
	if id == "" {
		err := fmt.Errorf("%w: user id is required", common.ErrInvalidInput)
		a.setMessage(err)
		return err
	}

	a.setLoading(true)
	defer a.setLoading(false)

	var raw json.RawMessage
	err := a.t.Do(ctx, api.Request{
		Method: http.MethodPut,
		Path:   "/user/" + url.PathEscape(id),
		Form:   &api.Form{Fields: fields, File: file},
	}, &raw)

	var u models.User
	if err == nil {
		err = decodeOne(raw, &u, "user", "data")
	}
	if err == nil && u.ID == "" {
		err = errNoEntity
	}
	if err == nil {
		err = a.storage.SetUser(ctx, u)
	}
	if err != nil {
		a.setMessage(err)
		return err
	}

	a.mu.Lock()
	a.user = &u
	a.message = ""
	a.mu.Unlock()
	return nil
}

func (a *AuthStore) setLoading(v bool) {
	a.mu.Lock()
	a.loading = v
	a.mu.Unlock()
}

func (a *AuthStore) setMessage(err error) string {
	msg := common.UserMessage(err)
	a.mu.Lock()
	a.message = msg
	a.mu.Unlock()
	return msg
}

// User returns a copy of the signed-in user, or nil.
func (a *AuthStore) User() *models.User {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.user == nil {
		return nil
	}
	u := *a.user
	return &u
}

func (a *AuthStore) Token() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.token
}

func (a *AuthStore) IsAuthenticated() bool { return a.Token() != "" }

func (a *AuthStore) Step() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.step
}

func (a *AuthStore) FailedAttempts() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.failed
}

func (a *AuthStore) SuggestReset() bool { return a.FailedAttempts() >= SuggestResetAfter }

func (a *AuthStore) Loading() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.loading
}

// Message is the last error or notice, "" when there is none.
func (a *AuthStore) Message() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.message
}
