package reports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"barkeep/internal/core/apperror"
	"barkeep/internal/core/types"
)

// fakeRepo returns canned aggregates and records the arguments it saw.
type fakeRepo struct {
	topSellers []TopSeller
	sales      SalesSummary
	spendings  SpendingSummary
	lowStock   []LowStockItem

	lastRange Range
	lastLimit int
}

func (r *fakeRepo) TopSellers(ctx context.Context, rng Range, limit int) ([]TopSeller, error) {
	r.lastRange = rng
	r.lastLimit = limit
	return r.topSellers, nil
}

func (r *fakeRepo) SalesSummary(ctx context.Context, rng Range) (SalesSummary, error) {
	r.lastRange = rng
	return r.sales, nil
}

func (r *fakeRepo) SpendingSummary(ctx context.Context, rng Range) (SpendingSummary, error) {
	return r.spendings, nil
}

func (r *fakeRepo) LowStock(ctx context.Context) ([]LowStockItem, error) {
	return r.lowStock, nil
}

func testRange() Range {
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return Range{From: from, To: from.AddDate(0, 1, 0)}
}

func TestTopSellers_LimitClamps(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)
	ctx := context.Background()

	_, err := svc.TopSellers(ctx, testRange(), 0)
	require.NoError(t, err)
	assert.Equal(t, 10, repo.lastLimit)

	_, err = svc.TopSellers(ctx, testRange(), 500)
	require.NoError(t, err)
	assert.Equal(t, 100, repo.lastLimit)

	_, err = svc.TopSellers(ctx, testRange(), 25)
	require.NoError(t, err)
	assert.Equal(t, 25, repo.lastLimit)
}

func TestTopSellers_EmptyNotNil(t *testing.T) {
	svc := NewService(&fakeRepo{})

	rows, err := svc.TopSellers(context.Background(), testRange(), 10)
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestLowStock_EmptyNotNil(t *testing.T) {
	svc := NewService(&fakeRepo{})

	rows, err := svc.LowStock(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestRangeValidation(t *testing.T) {
	svc := NewService(&fakeRepo{})
	ctx := context.Background()

	_, err := svc.SalesSummary(ctx, Range{})
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeInvalidInput))

	inverted := Range{
		From: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	_, err = svc.SpendingSummary(ctx, inverted)
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeInvalidInput))
}

func TestDailySummary(t *testing.T) {
	repo := &fakeRepo{
		sales:     SalesSummary{Count: 12, TotalAmount: types.MustMoney("4250.00")},
		spendings: SpendingSummary{Count: 3, TotalAmount: types.MustMoney("1100.00")},
	}
	svc := NewService(repo)

	date := time.Date(2026, 1, 15, 18, 30, 0, 0, time.UTC)
	summary, err := svc.DailySummary(context.Background(), date)
	require.NoError(t, err)

	// Queried with the half-open midnight-to-midnight window of that day.
	assert.Equal(t, time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC), repo.lastRange.From)
	assert.Equal(t, time.Date(2026, 1, 16, 0, 0, 0, 0, time.UTC), repo.lastRange.To)

	assert.Equal(t, int64(12), summary.Sales.Count)
	assert.Equal(t, "3150", summary.Net.String())
}
