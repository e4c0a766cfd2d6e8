package repofakes

import (
	"context"
	"sync"

	"github.com/jrsteele09/go-auth-client/session"
)

var _ session.Repo = (*FakeSessionRepo)(nil)

// FakeSessionRepo is an in-memory session slot for tests.
type FakeSessionRepo struct {
	lock   sync.RWMutex
	value  string
	stored bool

	// Optional injected failures.
	GetErr    error
	PutErr    error
	DeleteErr error
}

func NewFakeSessionRepo() *FakeSessionRepo {
	return &FakeSessionRepo{}
}

// Seed preloads the slot with a raw value, bypassing Put error injection.
func (r *FakeSessionRepo) Seed(value string) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.value = value
	r.stored = true
}

func (r *FakeSessionRepo) Get(_ context.Context) (string, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	if r.GetErr != nil {
		return "", r.GetErr
	}
	if !r.stored {
		return "", session.NoSessionErr
	}
	return r.value, nil
}

func (r *FakeSessionRepo) Put(_ context.Context, value string) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	if r.PutErr != nil {
		return r.PutErr
	}
	r.value = value
	r.stored = true
	return nil
}

func (r *FakeSessionRepo) Delete(_ context.Context) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	if r.DeleteErr != nil {
		return r.DeleteErr
	}
	if !r.stored {
		return session.NoSessionErr
	}
	r.value = ""
	r.stored = false
	return nil
}
