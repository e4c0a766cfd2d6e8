package session

import (
	"context"

	"github.com/pkg/errors"
)

// NoSessionErr is returned by Repo implementations when the slot is empty.
var NoSessionErr = errors.New("no session stored")

// Repo persists the single serialized session slot. Implementations hold
// exactly one value; there is no keyspace beyond the slot itself.
type Repo interface {
	Get(ctx context.Context) (string, error)
	Put(ctx context.Context, value string) error
	Delete(ctx context.Context) error
}
