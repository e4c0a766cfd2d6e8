// Package authclient talks to the remote authentication service: register,
// login with an optional second factor, TOTP enrollment, and profile fetch.
// Every operation is a single request/response exchange with no retry policy;
// transport and service failures map onto a uniform error taxonomy.
package authclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-auth-client/internal/utils"
	"github.com/jrsteele09/go-auth-client/session"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Service routes, relative to the configured base URL.
const (
	RouteRegister      = "/auth/register"
	RouteLogin         = "/auth/login"
	RouteEnable2FA     = "/auth/enable-2fa"
	RouteCurrentUser   = "/auth/me"
	RouteHealth        = "/health"
	headerRequestID    = "X-Request-ID"
	contentTypeJSON    = "application/json"
	contentTypeForm    = "application/x-www-form-urlencoded"
	secondFactorDetail = "2FA code required"
)

// TokenSource supplies the current session at call time, so a token replaced
// mid-session is picked up on the very next request.
type TokenSource interface {
	Current() *session.TokenPair
}

// Client is the stateless request/response half of the authentication core.
// It holds no token copies of its own; the bearer header is sourced from the
// TokenSource on every call.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	log        zerolog.Logger
}

// ClientOption defines a function type to modify the Client instance.
type ClientOption func(*Client)

// WithHTTPClient replaces the transport. The default http.Client carries no
// timeout, matching the underlying-transport-default policy of the core.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger sets the request-level debug logger.
func WithLogger(log zerolog.Logger) ClientOption {
	return func(c *Client) {
		c.log = log
	}
}

// NewClient initializes a Client for the service at baseURL.
func NewClient(baseURL string, tokens TokenSource, options ...ClientOption) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("[NewClient] baseURL is required")
	}
	if tokens == nil {
		return nil, errors.New("[NewClient] token source is required")
	}

	client := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		tokens:     tokens,
		log:        zerolog.Nop(),
	}
	for _, opt := range options {
		opt(client)
	}
	return client, nil
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates a new account. The caller is responsible for password
// policy validation before calling.
func (c *Client) Register(ctx context.Context, email, password string) (*User, error) {
	payload, err := json.Marshal(registerRequest{Email: email, Password: password})
	if err != nil {
		return nil, errors.Wrap(err, "[Client.Register] marshal")
	}

	status, body, err := c.do(ctx, http.MethodPost, RouteRegister, contentTypeJSON, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	if !successStatus(status) {
		return nil, serviceError(status, body)
	}

	var user User
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, &TransportError{Err: errors.Wrap(err, "decode register response")}
	}
	return &user, nil
}

type loginResponse struct {
	AccessToken  *string `json:"access_token"`
	RefreshToken *string `json:"refresh_token"`
	TokenType    *string `json:"token_type"`
	User         *User   `json:"user"`
}

// Login performs the credential exchange. totpCode may be empty on the first
// attempt; when the account has a second factor enabled the service withholds
// tokens and the result carries SecondFactorRequired instead.
//
// Pinned wire contract: the reference variants disagree on the credential
// encoding, so this client commits to the form-urlencoded OAuth2 password
// shape (fields "username", "password", optional "totp_code") and to the
// status-code signal for the second-factor branch (HTTP 403 with detail
// "2FA code required").
func (c *Client) Login(ctx context.Context, email, password, totpCode string) (*LoginResult, error) {
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)
	if totpCode != "" {
		form.Set("totp_code", totpCode)
	}

	status, body, err := c.do(ctx, http.MethodPost, RouteLogin, contentTypeForm, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	if !successStatus(status) {
		svcErr := serviceError(status, body)
		if status == http.StatusForbidden && svcErr.Message == secondFactorDetail {
			return &LoginResult{SecondFactorRequired: true}, nil
		}
		return nil, svcErr
	}

	var resp loginResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &TransportError{Err: errors.Wrap(err, "decode login response")}
	}

	pair := &session.TokenPair{
		AccessToken:  utils.Value(resp.AccessToken),
		RefreshToken: utils.Value(resp.RefreshToken),
		TokenType:    utils.Value(resp.TokenType),
	}
	if !pair.Valid() {
		return nil, &TransportError{Err: errors.New("login response missing token fields")}
	}
	return &LoginResult{Tokens: pair, User: resp.User}, nil
}

// EnableTwoFactor starts TOTP enrollment for the authenticated account and
// returns the shared secret plus the otpauth URI for QR rendering.
func (c *Client) EnableTwoFactor(ctx context.Context) (*TwoFactorEnrollment, error) {
	status, body, err := c.do(ctx, http.MethodPost, RouteEnable2FA, "", nil)
	if err != nil {
		return nil, err
	}
	if !successStatus(status) {
		return nil, serviceError(status, body)
	}

	var enrollment TwoFactorEnrollment
	if err := json.Unmarshal(body, &enrollment); err != nil {
		return nil, &TransportError{Err: errors.Wrap(err, "decode enrollment response")}
	}
	return &enrollment, nil
}

// CurrentUser fetches the profile for the current session. Callers restoring
// a persisted session must treat any failure as session-invalid; RestoreUser
// packages that policy.
func (c *Client) CurrentUser(ctx context.Context) (*User, error) {
	status, body, err := c.do(ctx, http.MethodGet, RouteCurrentUser, "", nil)
	if err != nil {
		return nil, err
	}
	if !successStatus(status) {
		return nil, serviceError(status, body)
	}

	var user User
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, &TransportError{Err: errors.Wrap(err, "decode user response")}
	}
	return &user, nil
}

// Health checks service liveness. Informational only; not part of the
// authentication flows.
func (c *Client) Health(ctx context.Context) error {
	status, body, err := c.do(ctx, http.MethodGet, RouteHealth, "", nil)
	if err != nil {
		return err
	}
	if !successStatus(status) {
		return serviceError(status, body)
	}
	return nil
}

// RestoreUser fetches the profile for the persisted session. On any failure
// the session is cleared and SessionInvalidErr reported, putting the caller
// into the "please log in again" state.
func RestoreUser(ctx context.Context, client *Client, store *session.Store) (*User, error) {
	user, err := client.CurrentUser(ctx)
	if err != nil {
		if logoutErr := store.Logout(ctx); logoutErr != nil {
			client.log.Debug().Err(logoutErr).Msg("clearing invalid session failed")
		}
		return nil, errors.WithMessage(SessionInvalidErr, err.Error())
	}
	return user, nil
}

func (c *Client) do(ctx context.Context, method, route, contentType string, body io.Reader) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+route, body)
	if err != nil {
		return 0, nil, &TransportError{Err: err}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set(headerRequestID, uuid.New().String())

	// Bearer header sourced at call time. When no session exists the header
	// is omitted entirely.
	if pair := c.tokens.Current(); pair.Valid() {
		req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Debug().Err(err).Str("route", route).Msg("request failed")
		return 0, nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, &TransportError{Err: errors.Wrap(err, "read response body")}
	}

	c.log.Debug().Str("route", route).Int("status", resp.StatusCode).Msg("exchange complete")
	return resp.StatusCode, raw, nil
}

func successStatus(status int) bool {
	return status >= 200 && status < 300
}

type errorBody struct {
	Detail string `json:"detail"`
}

func serviceError(status int, body []byte) *ServiceError {
	var parsed errorBody
	if err := json.Unmarshal(body, &parsed); err == nil && strings.TrimSpace(parsed.Detail) != "" {
		return &ServiceError{StatusCode: status, Message: strings.TrimSpace(parsed.Detail)}
	}
	return &ServiceError{StatusCode: status, Message: fmt.Sprintf("HTTP %d", status)}
}
