package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"barkeep/internal/core/id"
	"barkeep/internal/domain/ledger"
)

func TestMovementsQuery_Shape(t *testing.T) {
	repo := NewLedgerRepo(nil)

	sql, args, err := repo.movementsQuery(ledger.MovementFilter{}).ToSql()
	require.NoError(t, err)
	assert.Empty(t, args)
	assert.Contains(t, sql, "FROM stock_movements")
	assert.Contains(t, sql, "ORDER BY created_at DESC, id DESC")
	assert.NotContains(t, sql, "LIMIT")
}

func TestMovementsQuery_Filters(t *testing.T) {
	repo := NewLedgerRepo(nil)

	productID := id.New()
	movementType := ledger.MovementOut
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	sql, args, err := repo.movementsQuery(ledger.MovementFilter{
		ProductID: &productID,
		Type:      &movementType,
		FromDate:  &from,
		ToDate:    &to,
		Limit:     50,
	}).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "product_id = $1")
	assert.Contains(t, sql, "movement_type = $2")
	assert.Contains(t, sql, "created_at >= $3")
	assert.Contains(t, sql, "created_at < $4")
	assert.Contains(t, sql, "LIMIT 50")
	assert.Len(t, args, 4)
}
