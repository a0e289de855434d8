package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"barkeep/internal/core/apperror"
	"barkeep/internal/core/id"
)

// fakeTxManager runs the function directly; there is no real transaction
// in unit tests.
type fakeTxManager struct {
	calls int
}

func (m *fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	return fn(ctx)
}

// fakeRepo is an in-memory ledger.Repository.
type fakeRepo struct {
	records   map[id.ID]InventoryRecord
	movements []StockMovement

	failUpdate error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{records: make(map[id.ID]InventoryRecord)}
}

func (r *fakeRepo) CreateInventory(ctx context.Context, productID id.ID) error {
	r.records[productID] = InventoryRecord{ProductID: productID, UpdatedAt: time.Now().UTC()}
	return nil
}

func (r *fakeRepo) GetInventory(ctx context.Context, productID id.ID) (InventoryRecord, error) {
	rec, ok := r.records[productID]
	if !ok {
		return InventoryRecord{}, apperror.NewNotFound("inventory", productID.String())
	}
	return rec, nil
}

func (r *fakeRepo) GetInventoryForUpdate(ctx context.Context, productID id.ID) (InventoryRecord, error) {
	return r.GetInventory(ctx, productID)
}

func (r *fakeRepo) UpdateInventory(ctx context.Context, rec InventoryRecord) error {
	if r.failUpdate != nil {
		return r.failUpdate
	}
	r.records[rec.ProductID] = rec
	return nil
}

func (r *fakeRepo) ListInventory(ctx context.Context) ([]InventoryRecord, error) {
	out := make([]InventoryRecord, 0, len(r.records))
	for _, rec := range r.records {
		out = append(out, rec)
	}
	return out, nil
}

func (r *fakeRepo) CreateMovement(ctx context.Context, m StockMovement) error {
	r.movements = append(r.movements, m)
	return nil
}

func (r *fakeRepo) ListMovements(ctx context.Context, filter MovementFilter) ([]StockMovement, error) {
	return r.movements, nil
}

func newTestService(t *testing.T, cfg Config) (*Service, *fakeRepo, id.ID) {
	t.Helper()
	repo := newFakeRepo()
	svc := NewService(repo, &fakeTxManager{}, cfg)

	productID := id.New()
	require.NoError(t, repo.CreateInventory(context.Background(), productID))
	return svc, repo, productID
}

func setStock(repo *fakeRepo, productID id.ID, godown, counter int64) {
	rec := repo.records[productID]
	rec.GodownStock = godown
	rec.CounterStock = counter
	repo.records[productID] = rec
}

func TestTransfer_MovesStockAndAppendsMovement(t *testing.T) {
	svc, repo, productID := newTestService(t, Config{})
	setStock(repo, productID, 10, 2)
	ctx := context.Background()

	err := svc.Transfer(ctx, productID, 4, LocationGodown, LocationCounter)
	require.NoError(t, err)

	rec := repo.records[productID]
	assert.Equal(t, int64(6), rec.GodownStock)
	assert.Equal(t, int64(6), rec.CounterStock)

	require.Len(t, repo.movements, 1)
	m := repo.movements[0]
	assert.Equal(t, MovementTransfer, m.Type)
	assert.Equal(t, int64(4), m.Quantity)
	require.NotNil(t, m.FromLocation)
	require.NotNil(t, m.ToLocation)
	assert.Equal(t, LocationGodown, *m.FromLocation)
	assert.Equal(t, LocationCounter, *m.ToLocation)
}

func TestTransfer_PreservesTotalStock(t *testing.T) {
	svc, repo, productID := newTestService(t, Config{})
	setStock(repo, productID, 7, 3)
	ctx := context.Background()

	require.NoError(t, svc.Transfer(ctx, productID, 5, LocationGodown, LocationCounter))
	require.NoError(t, svc.Transfer(ctx, productID, 2, LocationCounter, LocationGodown))

	rec := repo.records[productID]
	assert.Equal(t, int64(10), rec.Total())
}

func TestTransfer_InsufficientStock(t *testing.T) {
	svc, repo, productID := newTestService(t, Config{})
	setStock(repo, productID, 3, 0)
	ctx := context.Background()

	err := svc.Transfer(ctx, productID, 5, LocationGodown, LocationCounter)
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeInsufficientStock))

	// Nothing changed, no movement written.
	rec := repo.records[productID]
	assert.Equal(t, int64(3), rec.GodownStock)
	assert.Equal(t, int64(0), rec.CounterStock)
	assert.Empty(t, repo.movements)
}

func TestTransfer_AllowNegativeStock(t *testing.T) {
	svc, repo, productID := newTestService(t, Config{AllowNegativeStock: true})
	setStock(repo, productID, 3, 0)
	ctx := context.Background()

	err := svc.Transfer(ctx, productID, 5, LocationGodown, LocationCounter)
	require.NoError(t, err)

	rec := repo.records[productID]
	assert.Equal(t, int64(-2), rec.GodownStock)
	assert.Equal(t, int64(5), rec.CounterStock)
	assert.Len(t, repo.movements, 1)
}

func TestTransfer_Validation(t *testing.T) {
	svc, _, productID := newTestService(t, Config{})
	ctx := context.Background()

	tests := []struct {
		name     string
		quantity int64
		from, to Location
	}{
		{"zero quantity", 0, LocationGodown, LocationCounter},
		{"negative quantity", -1, LocationGodown, LocationCounter},
		{"same location", 5, LocationCounter, LocationCounter},
		{"unknown location", 5, Location("bar"), LocationCounter},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := svc.Transfer(ctx, productID, tc.quantity, tc.from, tc.to)
			require.Error(t, err)
			assert.True(t, apperror.IsCode(err, apperror.CodeInvalidInput))
		})
	}
}

func TestReceive_AddsStockWithInMovement(t *testing.T) {
	svc, repo, productID := newTestService(t, Config{})
	ctx := context.Background()

	err := svc.Receive(ctx, productID, 24, LocationGodown, "supplier delivery")
	require.NoError(t, err)

	rec := repo.records[productID]
	assert.Equal(t, int64(24), rec.GodownStock)

	require.Len(t, repo.movements, 1)
	m := repo.movements[0]
	assert.Equal(t, MovementIn, m.Type)
	assert.Nil(t, m.FromLocation)
	assert.Equal(t, LocationGodown, *m.ToLocation)
	assert.Equal(t, "supplier delivery", m.Notes)
}

func TestAdjustStock_AlwaysWritesMovement(t *testing.T) {
	svc, repo, productID := newTestService(t, Config{})
	setStock(repo, productID, 10, 5)
	ctx := context.Background()

	rec, err := svc.AdjustStock(ctx, productID, 8, 4, "stocktake")
	require.NoError(t, err)
	assert.Equal(t, int64(8), rec.GodownStock)
	assert.Equal(t, int64(4), rec.CounterStock)

	require.Len(t, repo.movements, 1)
	m := repo.movements[0]
	assert.Equal(t, MovementAdjustment, m.Type)
	assert.Equal(t, int64(3), m.Quantity)
	assert.Contains(t, m.Notes, "stocktake")
}

func TestAdjustStock_ZeroDeltaStillAudited(t *testing.T) {
	svc, repo, productID := newTestService(t, Config{})
	setStock(repo, productID, 10, 5)
	ctx := context.Background()

	// Rebalance between locations: total unchanged.
	_, err := svc.AdjustStock(ctx, productID, 5, 10, "")
	require.NoError(t, err)

	require.Len(t, repo.movements, 1)
	assert.Equal(t, MovementAdjustment, repo.movements[0].Type)
	assert.Equal(t, int64(1), repo.movements[0].Quantity)
}

func TestAdjustStock_RejectsNegativeCounters(t *testing.T) {
	svc, _, productID := newTestService(t, Config{})

	_, err := svc.AdjustStock(context.Background(), productID, -1, 0, "")
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeInvalidInput))
}

func TestRecordSaleDeduction(t *testing.T) {
	svc, repo, productID := newTestService(t, Config{})
	setStock(repo, productID, 0, 10)
	saleID := id.New()
	ctx := context.Background()

	err := svc.RecordSaleDeduction(ctx, productID, 3, saleID)
	require.NoError(t, err)

	rec := repo.records[productID]
	assert.Equal(t, int64(7), rec.CounterStock)

	require.Len(t, repo.movements, 1)
	m := repo.movements[0]
	assert.Equal(t, MovementOut, m.Type)
	require.NotNil(t, m.ReferenceID)
	assert.Equal(t, saleID, *m.ReferenceID)
	assert.Equal(t, LocationCounter, *m.FromLocation)
}

func TestRecordSaleDeduction_CounterFloor(t *testing.T) {
	svc, repo, productID := newTestService(t, Config{})
	// Plenty in the godown must not save a short counter.
	setStock(repo, productID, 100, 2)
	ctx := context.Background()

	err := svc.RecordSaleDeduction(ctx, productID, 3, id.New())
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInsufficientStock, appErr.Code)
	assert.Equal(t, int64(2), appErr.Details["available"])
	assert.Equal(t, int64(3), appErr.Details["requested"])
}

func TestSetReorderLevels(t *testing.T) {
	svc, repo, productID := newTestService(t, Config{})
	ctx := context.Background()

	require.NoError(t, svc.SetReorderLevels(ctx, productID, 5, 50))
	rec := repo.records[productID]
	assert.Equal(t, int64(5), rec.MinStockLevel)
	assert.Equal(t, int64(50), rec.MaxStockLevel)

	err := svc.SetReorderLevels(ctx, productID, 60, 50)
	require.Error(t, err)
}

func TestTransactionError_WrapsRawErrors(t *testing.T) {
	svc, repo, productID := newTestService(t, Config{})
	setStock(repo, productID, 10, 0)
	repo.failUpdate = assert.AnError

	err := svc.Transfer(context.Background(), productID, 1, LocationGodown, LocationCounter)
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeTransaction))

	appErr, _ := apperror.AsAppError(err)
	assert.ErrorIs(t, appErr.Err, assert.AnError)
}

func TestInventoryRecord_IsLow(t *testing.T) {
	rec := InventoryRecord{GodownStock: 3, CounterStock: 2, MinStockLevel: 5}
	assert.True(t, rec.IsLow())

	rec.GodownStock = 10
	assert.False(t, rec.IsLow())
}
