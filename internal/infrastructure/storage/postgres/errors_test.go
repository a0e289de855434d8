package postgres

import (
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"barkeep/internal/core/apperror"
)

func pgError(code, constraint string) error {
	return &pgconn.PgError{Code: code, ConstraintName: constraint}
}

func TestTranslateError_UniqueViolation(t *testing.T) {
	tests := []struct {
		name       string
		entity     string
		constraint string
		field      string
	}{
		{"duplicate sale number", "sale", "sales_sale_number_key", "sale_number"},
		{"duplicate sku", "product", "products_sku_key", "sku"},
		{"duplicate barcode", "product", "products_barcode_key", "barcode"},
		{"unknown constraint", "cash_session", "cash_sessions_open_key", "key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := translateError(pgError(pgUniqueViolation, tt.constraint), tt.entity)

			appErr, ok := apperror.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, apperror.CodeDuplicate, appErr.Code)
			assert.Equal(t, tt.field, appErr.Details["field"])
			assert.Equal(t, tt.constraint, appErr.Details["constraint"])
		})
	}
}

func TestTranslateError_UniqueViolationThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("insert sale: %w", pgError(pgUniqueViolation, "sales_sale_number_key"))

	err := translateError(wrapped, "sale")
	assert.True(t, apperror.IsCode(err, apperror.CodeDuplicate))
}

func TestTranslateError_ForeignKeyViolation(t *testing.T) {
	err := translateError(pgError(pgForeignKeyViolation, "sale_items_product_id_fkey"), "sale_item")

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeConflict, appErr.Code)
	assert.Equal(t, "sale_items_product_id_fkey", appErr.Details["constraint"])
}

func TestTranslateError_CheckViolation(t *testing.T) {
	err := translateError(pgError(pgCheckViolation, "stock_movements_quantity_check"), "stock_movement")

	assert.True(t, apperror.IsCode(err, apperror.CodeInvalidInput))
}

func TestTranslateError_PlainErrorBecomesStorage(t *testing.T) {
	cause := fmt.Errorf("dial tcp 127.0.0.1:5432: connection refused")
	err := translateError(cause, "inventory")

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeStorage, appErr.Code)
	assert.Equal(t, "inventory", appErr.Details["entity"])
	assert.ErrorIs(t, err, cause)
}

func TestTranslateError_Nil(t *testing.T) {
	assert.NoError(t, translateError(nil, "inventory"))
}
