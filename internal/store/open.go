package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"ketscraper/internal/db"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

const DefaultDSN = "sqlite:///ket.db"

const (
	driverSqlite = "sqlite"
	driverLibsql = "libsql"
)

// ResolveDSN maps a connection string to a database/sql driver name and data
// source.
//
// sqlite:///<path>, sqlite:// (in memory), :memory: and bare paths open a local
// sqlite file. libsql://, http(s):// and ws(s):// go to a libsql server.
func ResolveDSN(dsn string) (driver, source string, err error) {
	if dsn == "" {
		dsn = DefaultDSN
	}

	switch {
	case dsn == ":memory:", dsn == "sqlite://", dsn == "sqlite:///:memory:":
		return driverSqlite, ":memory:", nil
	case strings.HasPrefix(dsn, "sqlite:///"):
		return driverSqlite, strings.TrimPrefix(dsn, "sqlite:///"), nil
	case strings.HasPrefix(dsn, "libsql://"),
		strings.HasPrefix(dsn, "http://"),
		strings.HasPrefix(dsn, "https://"),
		strings.HasPrefix(dsn, "ws://"),
		strings.HasPrefix(dsn, "wss://"):
		return driverLibsql, dsn, nil
	case strings.Contains(dsn, "://"):
		return "", "", fmt.Errorf("unsupported database connection string: %s", dsn)
	}
	return driverSqlite, dsn, nil
}

func wrapOpenDB(err error) error {
	return fmt.Errorf("open db: %w", err)
}

// OpenDB opens the database behind dsn and creates the schema if it is absent.
func OpenDB(ctx context.Context, dsn string) (*sql.DB, error) {
	driver, source, err := ResolveDSN(dsn)
	if err != nil {
		return nil, wrapOpenDB(err)
	}

	if driver == driverSqlite && source != ":memory:" {
		err = os.MkdirAll(filepath.Dir(source), 0777)
		if err != nil {
			return nil, wrapOpenDB(err)
		}
	}

	conn, err := sql.Open(driver, source)
	if err != nil {
		return nil, wrapOpenDB(err)
	}

	if driver == driverSqlite {
		// see this stackoverflow post for information on why the following
		// lines exist: https://stackoverflow.com/questions/35804884/sqlite-concurrent-writing-performance
		// an in memory database also lives and dies with its single connection.
		conn.SetMaxOpenConns(1)
		pragmas := []string{"PRAGMA foreign_keys = ON"}
		if source != ":memory:" {
			pragmas = append(pragmas, "PRAGMA journal_mode=WAL")
		}
		for _, pragma := range pragmas {
			_, err = conn.ExecContext(ctx, pragma)
			if err != nil {
				conn.Close()
				return nil, wrapOpenDB(err)
			}
		}
	}

	for _, stmt := range db.SchemaStatements() {
		_, err = conn.ExecContext(ctx, stmt)
		if err != nil {
			conn.Close()
			return nil, wrapOpenDB(fmt.Errorf("apply schema: %w", err))
		}
	}

	return conn, nil
}
