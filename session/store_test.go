package session_test

import (
	"context"
	"testing"

	"github.com/jrsteele09/go-auth-client/session"
	"github.com/jrsteele09/go-auth-client/session/repofakes"
	"github.com/stretchr/testify/require"
)

func testPair() *session.TokenPair {
	return &session.TokenPair{
		AccessToken:  "access-token-1",
		RefreshToken: "refresh-token-1",
		TokenType:    "bearer",
	}
}

func newStore(t *testing.T) (*session.Store, *repofakes.FakeSessionRepo) {
	t.Helper()
	repo := repofakes.NewFakeSessionRepo()
	store, err := session.NewStore(repo)
	require.NoError(t, err)
	return store, repo
}

func TestStore_PersistenceRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, repo := newStore(t)

	pair := testPair()
	require.NoError(t, store.Set(ctx, pair))
	require.Equal(t, pair, store.Current())

	// A fresh store over the same slot sees the persisted value.
	reloaded, err := session.NewStore(repo)
	require.NoError(t, err)
	got := reloaded.Load(ctx)
	require.NotNil(t, got)
	require.Equal(t, *pair, *got)
}

func TestStore_LogoutRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, repo := newStore(t)

	require.NoError(t, store.Set(ctx, testPair()))
	require.NoError(t, store.Logout(ctx))
	require.Nil(t, store.Current())

	reloaded, err := session.NewStore(repo)
	require.NoError(t, err)
	require.Nil(t, reloaded.Load(ctx))
}

func TestStore_MalformedSlotTreatedAsAbsent(t *testing.T) {
	ctx := context.Background()

	for name, raw := range map[string]string{
		"not json":     "]]]garbage",
		"empty object": "{}",
		"partial pair": `{"access_token":"a","token_type":"bearer"}`,
		"wrong shape":  `[1,2,3]`,
	} {
		t.Run(name, func(t *testing.T) {
			repo := repofakes.NewFakeSessionRepo()
			repo.Seed(raw)
			store, err := session.NewStore(repo)
			require.NoError(t, err)
			require.Nil(t, store.Load(ctx))
			require.Nil(t, store.Current())
		})
	}
}

func TestStore_SetRejectsPartialPair(t *testing.T) {
	ctx := context.Background()
	store, _ := newStore(t)

	err := store.Set(ctx, &session.TokenPair{AccessToken: "only-access"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "partial token pair")
}

func TestStore_SubscribersNotifiedBeforeSetReturns(t *testing.T) {
	ctx := context.Background()
	store, _ := newStore(t)

	var observed []*session.TokenPair
	store.Subscribe(func(pair *session.TokenPair) {
		observed = append(observed, pair)
	})

	pair := testPair()
	require.NoError(t, store.Set(ctx, pair))
	require.NoError(t, store.Logout(ctx))

	require.Len(t, observed, 2)
	require.Equal(t, pair, observed[0])
	require.Nil(t, observed[1])
}

func TestStore_InMemoryValueUpdatedEvenWhenPersistenceFails(t *testing.T) {
	ctx := context.Background()
	repo := repofakes.NewFakeSessionRepo()
	repo.PutErr = context.DeadlineExceeded
	store, err := session.NewStore(repo)
	require.NoError(t, err)

	pair := testPair()
	require.Error(t, store.Set(ctx, pair))
	require.Equal(t, pair, store.Current())
}
