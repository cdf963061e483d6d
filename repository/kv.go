package repository

import (
	"context"
)

// kvTx is one open transaction against a key-value backend. Writes become
// visible to other transactions only after Commit.
type kvTx interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// kvBackend opens transactions. Implementations serialize transactions
// so that each one sees a ledger no other writer is touching.
type kvBackend interface {
	Begin(ctx context.Context) (kvTx, error)
	Name() string
}
