package database

import (
	"context"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"
)

// Migrate creates or updates every application table.
func Migrate(ctx context.Context, db *DB) error {
	drv := entsql.OpenDB(db.Dialect, db.DB)
	migrate, err := schema.NewMigrate(drv, schema.WithForeignKeys(true))
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	if err := migrate.Create(ctx, Tables...); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}
