package session

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Store owns the current session. All mutation goes through Set/Logout; no
// other component keeps a TokenPair beyond the lifetime of a single request.
type Store struct {
	repo        Repo
	log         zerolog.Logger
	lock        sync.RWMutex
	current     *TokenPair
	subscribers []func(*TokenPair)
}

// StoreOption defines a function type to modify the Store instance.
type StoreOption func(*Store)

// WithLogger sets the logger used for persistence diagnostics.
func WithLogger(log zerolog.Logger) StoreOption {
	return func(s *Store) {
		s.log = log
	}
}

// NewStore initializes a Store backed by the given persistence slot.
func NewStore(repo Repo, options ...StoreOption) (*Store, error) {
	if repo == nil {
		return nil, errors.New("[NewStore] repo is required")
	}

	store := &Store{
		repo: repo,
		log:  zerolog.Nop(),
	}
	for _, opt := range options {
		opt(store)
	}
	return store, nil
}

// Load reads the persisted slot and makes its value current. A missing slot
// or one holding malformed data yields nil; malformed data is treated as
// absent, never surfaced as an error the caller must handle.
func (s *Store) Load(ctx context.Context) *TokenPair {
	raw, err := s.repo.Get(ctx)
	if err != nil {
		if !errors.Is(err, NoSessionErr) {
			s.log.Debug().Err(err).Msg("session slot read failed, treating as absent")
		}
		s.setCurrent(nil)
		return nil
	}

	var pair TokenPair
	if err := json.Unmarshal([]byte(raw), &pair); err != nil || !pair.Valid() {
		s.log.Debug().Msg("session slot malformed, treating as absent")
		s.setCurrent(nil)
		return nil
	}

	s.setCurrent(&pair)
	return &pair
}

// Set replaces the current session. A nil pair removes the slot entirely.
// The in-memory value is updated and subscribers are notified before the
// persistence write, so observers see the change even if the write fails.
func (s *Store) Set(ctx context.Context, tokens *TokenPair) error {
	if tokens != nil && !tokens.Valid() {
		return errors.New("[Store.Set] refusing to persist a partial token pair")
	}

	s.setCurrent(tokens)

	if tokens == nil {
		if err := s.repo.Delete(ctx); err != nil && !errors.Is(err, NoSessionErr) {
			return errors.Wrap(err, "[Store.Set] repo.Delete")
		}
		return nil
	}

	raw, err := json.Marshal(tokens)
	if err != nil {
		return errors.Wrap(err, "[Store.Set] marshal token pair")
	}
	if err := s.repo.Put(ctx, string(raw)); err != nil {
		return errors.Wrap(err, "[Store.Set] repo.Put")
	}
	return nil
}

// Current returns the in-memory session without touching persistence.
func (s *Store) Current() *TokenPair {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.current
}

// Logout clears the session and removes the persisted slot.
func (s *Store) Logout(ctx context.Context) error {
	return s.Set(ctx, nil)
}

// Subscribe registers a callback invoked on every session change with the
// new value (nil on logout). Callbacks run synchronously on the mutating
// goroutine, mirroring how the reference UI re-renders before the call
// returns.
func (s *Store) Subscribe(fn func(*TokenPair)) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

func (s *Store) setCurrent(tokens *TokenPair) {
	s.lock.Lock()
	s.current = tokens
	subscribers := make([]func(*TokenPair), len(s.subscribers))
	copy(subscribers, s.subscribers)
	s.lock.Unlock()

	for _, fn := range subscribers {
		fn(tokens)
	}
}
