// Package loginflow drives the two-phase login handshake: a password
// submission, an optional second-factor challenge, and token issuance into
// the session store. The controller performs exactly one network attempt per
// user-initiated submission; there are no retries and no backoff.
package loginflow

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-auth-client/authclient"
	"github.com/jrsteele09/go-auth-client/session"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// State is the position of a flow instance in the handshake.
type State int

const (
	AwaitingCredentials State = iota
	AwaitingSecondFactor
	Authenticated
)

func (s State) String() string {
	switch s {
	case AwaitingCredentials:
		return "awaiting_credentials"
	case AwaitingSecondFactor:
		return "awaiting_second_factor"
	case Authenticated:
		return "authenticated"
	}
	return "unknown"
}

var (
	// FlowCompletedErr is returned when a submission arrives on a flow that
	// already authenticated. A fresh instance is created per login attempt.
	FlowCompletedErr = errors.New("login flow already completed")

	// NoPendingChallengeErr is returned when a second-factor code is
	// submitted without a pending challenge.
	NoPendingChallengeErr = errors.New("no second factor challenge pending")

	// AttemptCancelledErr is returned when a response resolves after the
	// attempt it belonged to was cancelled. The response is discarded and
	// the session store is left untouched.
	AttemptCancelledErr = errors.New("login attempt cancelled")

	// SecondFactorRejectedErr covers the service re-issuing a challenge in
	// response to a code submission.
	SecondFactorRejectedErr = errors.New("second factor verification failed")
)

// Fallback messages when a failure carries no service-reported detail.
const (
	genericLoginFailure  = "login failed, please try again"
	genericVerifyFailure = "verification failed, please try again"
)

// AuthClient is the slice of the auth client the controller depends on.
type AuthClient interface {
	Login(ctx context.Context, email, password, totpCode string) (*authclient.LoginResult, error)
}

// TokenSink receives the issued token pair on success.
type TokenSink interface {
	Set(ctx context.Context, tokens *session.TokenPair) error
}

// Controller holds the ephemeral state of one login attempt. It is never
// persisted; navigating away simply drops the instance (or calls Cancel).
//
// The pinned login encoding resubmits the password alongside the TOTP code,
// so the controller retains the pending password for the lifetime of the
// attempt and zeroes it on every terminal transition.
type Controller struct {
	id     string
	client AuthClient
	store  TokenSink
	log    zerolog.Logger

	lock       sync.Mutex
	state      State
	generation int
	email      string
	password   string
	lastError  string
}

// ControllerOption defines a function type to modify the Controller instance.
type ControllerOption func(*Controller)

// WithLogger sets the transition logger.
func WithLogger(log zerolog.Logger) ControllerOption {
	return func(c *Controller) {
		c.log = log
	}
}

// New initializes a Controller in AwaitingCredentials.
func New(client AuthClient, store TokenSink, options ...ControllerOption) (*Controller, error) {
	if client == nil {
		return nil, errors.New("[loginflow.New] auth client is required")
	}
	if store == nil {
		return nil, errors.New("[loginflow.New] token sink is required")
	}

	controller := &Controller{
		id:     uuid.New().String(),
		client: client,
		store:  store,
		log:    zerolog.Nop(),
		state:  AwaitingCredentials,
	}
	for _, opt := range options {
		opt(controller)
	}
	return controller, nil
}

// State returns the current flow state.
func (c *Controller) State() State {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.state
}

// Email returns the identity of the pending attempt, empty when none.
func (c *Controller) Email() string {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.email
}

// LastError returns the message of the most recent network failure, cleared
// on every successful transition.
func (c *Controller) LastError() string {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.lastError
}

// SubmitCredentials runs the password phase. Validation failures are
// reported without touching the network and leave all state unchanged.
// Submitting credentials while a second-factor challenge is pending starts a
// fresh attempt, superseding the pending one.
func (c *Controller) SubmitCredentials(ctx context.Context, email, password string) error {
	if err := ValidateEmail(email); err != nil {
		return err
	}
	if err := ValidatePassword(password, MinLoginPasswordLength); err != nil {
		return err
	}

	c.lock.Lock()
	if c.state == Authenticated {
		c.lock.Unlock()
		return FlowCompletedErr
	}
	c.generation++
	generation := c.generation
	c.state = AwaitingCredentials
	c.email = email
	c.password = password
	c.lock.Unlock()

	result, err := c.client.Login(ctx, email, password, "")
	return c.applyLoginOutcome(ctx, generation, result, err, genericLoginFailure)
}

// SubmitSecondFactor runs the TOTP phase. The code is sanitized the way the
// input mask does (digits only, truncated to six) and must be exactly six
// digits after sanitization.
func (c *Controller) SubmitSecondFactor(ctx context.Context, code string) error {
	c.lock.Lock()
	if c.state == Authenticated {
		c.lock.Unlock()
		return FlowCompletedErr
	}
	if c.state != AwaitingSecondFactor {
		c.lock.Unlock()
		return NoPendingChallengeErr
	}
	generation := c.generation
	email := c.email
	password := c.password
	c.lock.Unlock()

	sanitized := SanitizeCode(code)
	if len(sanitized) != SecondFactorCodeLength {
		return &ValidationError{Field: "code", Message: "enter the 6-digit code"}
	}

	result, err := c.client.Login(ctx, email, password, sanitized)
	return c.applyLoginOutcome(ctx, generation, result, err, genericVerifyFailure)
}

// Cancel discards the pending attempt. Any in-flight response from the
// attempt is ignored when it resolves, and the session store is not updated
// by it. Cancelling an authenticated flow is a no-op.
func (c *Controller) Cancel() {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.state == Authenticated {
		return
	}
	c.generation++
	c.state = AwaitingCredentials
	c.email = ""
	c.password = ""
	c.lastError = ""
	c.log.Debug().Str("flow_id", c.id).Msg("login attempt cancelled")
}

func (c *Controller) applyLoginOutcome(ctx context.Context, generation int, result *authclient.LoginResult, exchangeErr error, fallback string) error {
	c.lock.Lock()

	if generation != c.generation || c.state == Authenticated {
		c.lock.Unlock()
		return AttemptCancelledErr
	}

	if exchangeErr != nil {
		// Network failures leave the state unchanged; the user retries the
		// same phase.
		c.lastError = failureMessage(exchangeErr, fallback)
		c.lock.Unlock()
		return exchangeErr
	}

	if result.SecondFactorRequired {
		if c.state == AwaitingSecondFactor {
			// A code submission answered with another challenge means the
			// service rejected it without detail.
			c.lastError = genericVerifyFailure
			c.lock.Unlock()
			return SecondFactorRejectedErr
		}
		c.state = AwaitingSecondFactor
		c.lastError = ""
		c.log.Debug().Str("flow_id", c.id).Str("email", c.email).Msg("second factor required")
		c.lock.Unlock()
		return nil
	}

	c.state = Authenticated
	c.password = ""
	c.lastError = ""
	c.log.Debug().Str("flow_id", c.id).Str("email", c.email).Msg("authenticated")
	c.lock.Unlock()

	if err := c.store.Set(ctx, result.Tokens); err != nil {
		// The in-memory session is already current; only the persistence
		// write failed.
		return errors.Wrap(err, "[Controller] store.Set")
	}
	return nil
}

func failureMessage(err error, fallback string) string {
	var svcErr *authclient.ServiceError
	if errors.As(err, &svcErr) && svcErr.Message != "" {
		return svcErr.Message
	}
	return fallback
}
