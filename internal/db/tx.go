package db

import (
	"context"
	"database/sql"
)

// MakeTx is a function that creates a db transaction
type MakeTx = func(ctx context.Context) (tx *Queries, discard, commit func() error, err error)

// NewMakeTx creates a MakeTx over conn. wrap, if not nil, decorates the
// transaction before queries are bound to it.
func NewMakeTx(conn *sql.DB, wrap func(DBTX) DBTX) MakeTx {
	return func(ctx context.Context) (tx *Queries, discard, commit func() error, err error) {
		sqltx, err := conn.BeginTx(ctx, nil)
		if err != nil {
			return nil, nil, nil, err
		}
		var dbtx DBTX = sqltx
		if wrap != nil {
			dbtx = wrap(sqltx)
		}
		return New(dbtx),
			func() error {
				return sqltx.Rollback()
			},
			func() error {
				return sqltx.Commit()
			},
			nil
	}
}
