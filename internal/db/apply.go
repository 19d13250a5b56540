package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"erdsql/internal/logger"
)

// Apply runs a DDL script against a PostgreSQL database in one transaction.
// Nothing is left behind if any statement fails.
func Apply(ctx context.Context, dsn, script string) error {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return fmt.Errorf("failed to parse connection string: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	defer pool.Close()

	// without arguments pgx uses the simple protocol, which accepts a
	// multi-statement script
	err = pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, script)
		return err
	})
	if err != nil {
		return fmt.Errorf("apply script: %w", err)
	}
	logger.Info("applied script to %s", config.ConnConfig.Database)
	return nil
}
