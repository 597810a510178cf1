package db

import (
	"context"
	"database/sql"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// DriverFor picks the storage driver from the database URL: postgres:// and
// postgresql:// go to PostgreSQL, anything else is a local SQLite file.
func DriverFor(databaseURL string) string {
	u := strings.ToLower(databaseURL)
	if strings.HasPrefix(u, "postgres://") || strings.HasPrefix(u, "postgresql://") {
		return DriverPostgres
	}
	return DriverSQLite
}

// Handle is the process-wide storage handle. Exactly one of SQL and Pool is set.
type Handle struct {
	Driver string
	SQL    *sql.DB
	Pool   *pgxpool.Pool
}

// Open connects to the database named by databaseURL. maxConns and minConns
// only apply to PostgreSQL.
func Open(ctx context.Context, databaseURL string, maxConns, minConns int32) (*Handle, error) {
	if DriverFor(databaseURL) == DriverPostgres {
		pool, err := openPostgres(ctx, databaseURL, maxConns, minConns)
		if err != nil {
			return nil, err
		}
		return &Handle{Driver: DriverPostgres, Pool: pool}, nil
	}

	conn, err := OpenSQLite(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	return &Handle{Driver: DriverSQLite, SQL: conn}, nil
}

func (h *Handle) Ping(ctx context.Context) error {
	if h.Pool != nil {
		return h.Pool.Ping(ctx)
	}
	return h.SQL.PingContext(ctx)
}

func (h *Handle) Close() error {
	if h.Pool != nil {
		h.Pool.Close()
		return nil
	}
	if h.SQL != nil {
		return h.SQL.Close()
	}
	return nil
}
