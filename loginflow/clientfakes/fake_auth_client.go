package clientfakes

import (
	"context"
	"sync"

	"github.com/jrsteele09/go-auth-client/authclient"
	"github.com/pkg/errors"
)

// LoginCall records the arguments of one Login invocation.
type LoginCall struct {
	Email    string
	Password string
	TOTPCode string
}

type loginStub struct {
	result *authclient.LoginResult
	err    error
}

// FakeAuthClient replays scripted login outcomes in order and records every
// call it receives.
type FakeAuthClient struct {
	lock  sync.Mutex
	stubs []loginStub
	calls []LoginCall
}

func NewFakeAuthClient() *FakeAuthClient {
	return &FakeAuthClient{}
}

// StubLogin appends an outcome for the next unconsumed Login call.
func (f *FakeAuthClient) StubLogin(result *authclient.LoginResult, err error) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.stubs = append(f.stubs, loginStub{result: result, err: err})
}

// Calls returns the recorded invocations.
func (f *FakeAuthClient) Calls() []LoginCall {
	f.lock.Lock()
	defer f.lock.Unlock()
	calls := make([]LoginCall, len(f.calls))
	copy(calls, f.calls)
	return calls
}

func (f *FakeAuthClient) Login(_ context.Context, email, password, totpCode string) (*authclient.LoginResult, error) {
	f.lock.Lock()
	defer f.lock.Unlock()

	f.calls = append(f.calls, LoginCall{Email: email, Password: password, TOTPCode: totpCode})
	if len(f.stubs) == 0 {
		return nil, errors.New("FakeAuthClient: no stubbed outcome")
	}
	stub := f.stubs[0]
	f.stubs = f.stubs[1:]
	return stub.result, stub.err
}
