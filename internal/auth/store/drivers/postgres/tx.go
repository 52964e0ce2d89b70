package postgres

import (
	"context"
	"database/sql"

	"github.com/capmanage/capmanage/internal/auth/store"
)

type txStore struct {
	tx *sql.Tx
}

func (t *txStore) Commit() error   { return t.tx.Commit() }
func (t *txStore) Rollback() error { return t.tx.Rollback() }

func (t *txStore) Close() error                   { return nil }
func (t *txStore) Ping(ctx context.Context) error { return nil }
func (t *txStore) ApplyMigrations() error         { return nil }

func (t *txStore) Tx(ctx context.Context) (store.Tx, error) { return nil, sql.ErrTxDone }

func (t *txStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return sql.ErrTxDone
}

func (t *txStore) Users() store.Users                     { return &usersRepo{db: t.tx} }
func (t *txStore) RefreshTokens() store.RefreshTokens     { return &refreshTokensRepo{db: t.tx} }
func (t *txStore) Redemptions() store.Redemptions         { return &redemptionsRepo{db: t.tx} }
func (t *txStore) FacultyRequests() store.FacultyRequests { return &facultyRequestsRepo{db: t.tx} }
