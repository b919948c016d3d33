package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/denisenkom/go-mssqldb"

	"schemareport/internal/logger"
	"schemareport/pkg/config"
)

// Querier is the read-only surface the catalog queries run against.
// *sql.DB, *sql.Conn and *sql.Tx all satisfy it.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Connect opens the database and pings it within timeoutSec seconds.
// The returned pool is closed again when the ping fails.
func Connect(ctx context.Context, driver, dsn string, timeoutSec int) (*sql.DB, error) {
	driver = config.NormalizeDriver(driver)
	dbConn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, time.Duration(timeoutSec)*time.Second)
	defer cancel()
	if err := dbConn.PingContext(pingCtx); err != nil {
		dbConn.Close()
		return nil, fmt.Errorf("connect %s: %w", driver, err)
	}
	logger.Debug("connected using driver %s", driver)
	return dbConn, nil
}

// Session takes one connection out of the pool for exclusive use.
// The caller must Close it to return it to the pool.
func Session(ctx context.Context, dbConn *sql.DB) (*sql.Conn, error) {
	conn, err := dbConn.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire session: %w", err)
	}
	return conn, nil
}
