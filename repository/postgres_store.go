package repository

import (
	"context"
	"errors"
	"fmt"

	"dicewager/database"

	"github.com/jackc/pgx/v5"
)

// ledgerLockKey is the advisory lock taken by every ledger transaction
const ledgerLockKey int64 = 0x646963650001

// postgresBackend stores the ledger in a shared Postgres database. Each
// transaction takes a transaction-scoped advisory lock so that several
// processes pointed at the same database still see serialized updates.
type postgresBackend struct {
	db *database.DB
}

func (b *postgresBackend) Name() string {
	return "postgres"
}

func (b *postgresBackend) Begin(ctx context.Context) (kvTx, error) {
	tx, err := b.db.Begin(ctx)
	if err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, ledgerLockKey); err != nil {
		_ = tx.Rollback(ctx)
		return nil, fmt.Errorf("failed to acquire ledger lock: %w", err)
	}

	return &postgresTx{tx: tx}, nil
}

type postgresTx struct {
	tx pgx.Tx
}

func (t *postgresTx) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := t.tx.QueryRow(ctx, `SELECT value FROM ledger_kv WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read key %s: %w", key, err)
	}
	return value, true, nil
}

func (t *postgresTx) Set(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO ledger_kv (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET
			value = EXCLUDED.value,
			updated_at = NOW()
	`
	if _, err := t.tx.Exec(ctx, query, key, value); err != nil {
		return fmt.Errorf("failed to write key %s: %w", key, err)
	}
	return nil
}

func (t *postgresTx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

func (t *postgresTx) Rollback(ctx context.Context) error {
	err := t.tx.Rollback(ctx)
	if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return err
	}
	return nil
}
