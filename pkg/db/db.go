package db

import (
	"context"
	"database/sql"
	"fmt"

	"pushreg/config"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// NewBunDB opens and pings the database described by cfg.
func NewBunDB(ctx context.Context, cfg config.BunConfig) (*bun.DB, error) {
	var db *bun.DB

	switch cfg.Driver {
	case config.DriverPostgres:
		connector := pgdriver.NewConnector(pgdriver.WithDSN(cfg.DSN))
		db = bun.NewDB(sql.OpenDB(connector), pgdialect.New())
	case config.DriverSQLite:
		sqlDB, err := sql.Open(sqliteshim.ShimName, cfg.DSN)
		if err != nil {
			return nil, errors.Wrap(err, "db.NewBunDB.Open")
		}
		// sqlite allows one writer; a single connection also keeps
		// in-memory databases alive and shared
		sqlDB.SetMaxOpenConns(1)
		db = bun.NewDB(sqlDB, sqlitedialect.New())
	default:
		return nil, fmt.Errorf("db: unsupported driver %q", cfg.Driver)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "db.NewBunDB.Ping")
	}
	return db, nil
}
