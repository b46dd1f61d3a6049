package database

import (
	"context"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ridoystarlord/sqlamodel/utils"
)

var (
	pool     *pgxpool.Pool
	poolOnce sync.Once
	poolErr  error
)

// Pool returns a singleton connection pool for the configured DATABASE_URL.
func Pool(ctx context.Context) (*pgxpool.Pool, error) {
	poolOnce.Do(func() {
		connStr, err := utils.GetDatabaseURL()
		if err != nil {
			poolErr = err
			return
		}

		cfg, err := pgxpool.ParseConfig(connStr)
		if err != nil {
			poolErr = fmt.Errorf("parsing DATABASE_URL: %v", err)
			return
		}
		cfg.ConnConfig.RuntimeParams["application_name"] = "sqlamodel"

		pool, poolErr = pgxpool.NewWithConfig(ctx, cfg)
		if poolErr != nil {
			poolErr = fmt.Errorf("unable to create connection pool: %v", poolErr)
			return
		}

		// Test the connection
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			pool = nil
			poolErr = fmt.Errorf("unable to ping database: %v", err)
			return
		}
	})

	return pool, poolErr
}

// Close closes the connection pool (called on command shutdown).
func Close() {
	if pool != nil {
		pool.Close()
	}
}
