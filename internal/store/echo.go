package store

import (
	"context"
	"database/sql"

	"ketscraper/internal/components/telemetry"
	"ketscraper/internal/db"
)

// echoDBTX reports every statement before handing it to the wrapped DBTX.
type echoDBTX struct {
	inner db.DBTX
	tel   telemetry.API
}

func (e echoDBTX) report(query string, args []any) {
	e.tel.ReportDebug("sql", query, summarizeArgs(args))
}

// blobs are replaced by their length, they are usually base64 images.
func summarizeArgs(args []any) []any {
	out := make([]any, len(args))
	for i, a := range args {
		if b, ok := a.([]byte); ok {
			out[i] = len(b)
			continue
		}
		out[i] = a
	}
	return out
}

func (e echoDBTX) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	e.report(query, args)
	return e.inner.ExecContext(ctx, query, args...)
}

func (e echoDBTX) PrepareContext(ctx context.Context, query string) (*sql.Stmt, error) {
	e.report(query, nil)
	return e.inner.PrepareContext(ctx, query)
}

func (e echoDBTX) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	e.report(query, args)
	return e.inner.QueryContext(ctx, query, args...)
}

func (e echoDBTX) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	e.report(query, args)
	return e.inner.QueryRowContext(ctx, query, args...)
}
