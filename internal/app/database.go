package app

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"

	"github.com/Freeeeeet/degustation_uploader/internal/config"
	"github.com/Freeeeeet/degustation_uploader/internal/repository"
	"github.com/Freeeeeet/degustation_uploader/internal/service"
)

// Database bundles the repositories of the configured destination
type Database struct {
	Tables  service.TableStore
	Queries service.QueryExecutor

	sqlDB   *sql.DB
	dialect string
	closers []func()
}

// OpenDatabase connects to postgres or opens the sqlite file
func OpenDatabase(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (*Database, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		pool, err := pgxpool.New(ctx, cfg.GetDSN())
		if err != nil {
			return nil, fmt.Errorf("create pool: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("ping database: %w", err)
		}

		// goose works with *sql.DB
		sqlDB := stdlib.OpenDBFromPool(pool)

		logger.Info("Connected to postgres")
		return &Database{
			Tables:  repository.NewTableRepository(pool, logger),
			Queries: repository.NewQueryRepository(pool),
			sqlDB:   sqlDB,
			dialect: "postgres",
			closers: []func(){func() { sqlDB.Close() }, pool.Close},
		}, nil

	case config.DriverSQLite:
		db, err := repository.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}

		logger.Info("Opened sqlite database", zap.String("path", cfg.SQLitePath))
		return &Database{
			Tables:  repository.NewSQLiteTableRepository(db, logger),
			Queries: repository.NewSQLiteQueryRepository(db),
			sqlDB:   db,
			dialect: "sqlite3",
			closers: []func(){func() { db.Close() }},
		}, nil
	}

	return nil, fmt.Errorf("unsupported driver %q", cfg.Driver)
}

// Migrate applies the embedded migrations
func (d *Database) Migrate(ctx context.Context, logger *zap.Logger) error {
	migrator, err := NewMigrator(d.sqlDB, d.dialect, logger)
	if err != nil {
		return err
	}
	return migrator.Run(ctx)
}

// Close releases every connection
func (d *Database) Close() {
	for _, c := range d.closers {
		c()
	}
}
