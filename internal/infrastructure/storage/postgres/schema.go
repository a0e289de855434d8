package postgres

import (
	"context"
	_ "embed"

	"barkeep/internal/core/apperror"
)

//go:embed schema.sql
var schemaSQL string

// EnsureSchema applies the embedded schema. Every statement is written to be
// idempotent, so running it on every startup is safe.
func EnsureSchema(ctx context.Context, pool *Pool) error {
	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		return apperror.NewStorage(err).WithDetail("operation", "apply schema")
	}
	return nil
}
