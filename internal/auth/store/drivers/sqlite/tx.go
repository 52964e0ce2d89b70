package sqlite

import (
	"context"
	"database/sql"

	"github.com/capmanage/capmanage/internal/auth/store"
)

type txStore struct {
	tx *sql.Tx
}

func newTx(tx *sql.Tx) *txStore {
	return &txStore{tx: tx}
}

func (t *txStore) Commit() error { return t.tx.Commit() }

// Rollback after Commit reports sql.ErrTxDone, which callers ignore.
func (t *txStore) Rollback() error { return t.tx.Rollback() }

func (t *txStore) Close() error { return nil } // nothing to close; caller will commit/rollback and outer DB stays open

func (t *txStore) Ping(ctx context.Context) error { return nil }

func (t *txStore) Tx(ctx context.Context) (store.Tx, error) {
	// Nested tx not supported; could emulate with SAVEPOINT if needed
	return nil, sql.ErrTxDone
}

func (t *txStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return sql.ErrTxDone
}

func (t *txStore) Users() store.Users                     { return &usersRepo{db: t.tx} }
func (t *txStore) RefreshTokens() store.RefreshTokens     { return &refreshTokensRepo{db: t.tx} }
func (t *txStore) Redemptions() store.Redemptions         { return &redemptionsRepo{db: t.tx} }
func (t *txStore) FacultyRequests() store.FacultyRequests { return &facultyRequestsRepo{db: t.tx} }

func (t *txStore) ApplyMigrations() error { return nil } // migrations run before any tx
