package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"barkeep/internal/core/apperror"
)

// PostgreSQL error codes
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

// translateError maps low-level pgx errors onto structured application
// errors. Unique violations become DUPLICATE_ENTRY (the constraint name is
// kept in details so callers can tell a duplicate SKU from a duplicate
// sale number), foreign key violations become conflicts, everything else
// is a storage failure.
func translateError(err error, entity string) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return apperror.NewDuplicate(entity, constraintField(pgErr.ConstraintName), "").
				WithDetail("constraint", pgErr.ConstraintName).
				WithCause(err)
		case pgForeignKeyViolation:
			return apperror.NewConflict("operation violates a reference to existing records").
				WithDetail("entity", entity).
				WithDetail("constraint", pgErr.ConstraintName).
				WithCause(err)
		case pgCheckViolation:
			return apperror.NewValidation("stored value violates a database constraint").
				WithDetail("entity", entity).
				WithDetail("constraint", pgErr.ConstraintName).
				WithCause(err)
		}
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return apperror.NewStorage(err).WithDetail("entity", entity)
	}

	return apperror.NewStorage(err).WithDetail("entity", entity)
}

// constraintField guesses the offending field from a conventional
// constraint name like products_sku_key or sales_sale_number_key.
func constraintField(constraint string) string {
	switch constraint {
	case "products_sku_key":
		return "sku"
	case "products_barcode_key":
		return "barcode"
	case "sales_sale_number_key":
		return "sale_number"
	default:
		return "key"
	}
}
