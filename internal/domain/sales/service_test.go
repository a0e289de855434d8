package sales

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"barkeep/internal/core/apperror"
	"barkeep/internal/core/id"
	"barkeep/internal/core/types"
	"barkeep/internal/domain/ledger"
	"barkeep/pkg/numerator"
)

// txKey marks an active fake transaction in context.
type txKey struct{}

// fakeTxManager mimics the nested-call behavior of the real manager:
// an inner RunInTransaction joins the transaction already in context.
// On error it restores the snapshots taken at transaction start, so
// tests can observe rollback semantics.
type fakeTxManager struct {
	sales     *fakeSalesRepo
	stock     *fakeStockRepo
	rollbacks int
	commits   int
}

func (m *fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	salesSnap := m.sales.snapshot()
	stockSnap := m.stock.snapshot()

	err := fn(context.WithValue(ctx, txKey{}, struct{}{}))
	if err != nil {
		m.sales.restore(salesSnap)
		m.stock.restore(stockSnap)
		m.rollbacks++
		return err
	}
	m.commits++
	return nil
}

// fakeStockRepo is an in-memory ledger.Repository for the stock service.
type fakeStockRepo struct {
	records   map[id.ID]ledger.InventoryRecord
	movements []ledger.StockMovement
}

type stockSnapshot struct {
	records   map[id.ID]ledger.InventoryRecord
	movements []ledger.StockMovement
}

func newFakeStockRepo() *fakeStockRepo {
	return &fakeStockRepo{records: make(map[id.ID]ledger.InventoryRecord)}
}

func (r *fakeStockRepo) snapshot() stockSnapshot {
	records := make(map[id.ID]ledger.InventoryRecord, len(r.records))
	for k, v := range r.records {
		records[k] = v
	}
	return stockSnapshot{records: records, movements: append([]ledger.StockMovement(nil), r.movements...)}
}

func (r *fakeStockRepo) restore(s stockSnapshot) {
	r.records = s.records
	r.movements = s.movements
}

func (r *fakeStockRepo) CreateInventory(ctx context.Context, productID id.ID) error {
	r.records[productID] = ledger.InventoryRecord{ProductID: productID}
	return nil
}

func (r *fakeStockRepo) GetInventory(ctx context.Context, productID id.ID) (ledger.InventoryRecord, error) {
	rec, ok := r.records[productID]
	if !ok {
		return ledger.InventoryRecord{}, apperror.NewNotFound("inventory", productID.String())
	}
	return rec, nil
}

func (r *fakeStockRepo) GetInventoryForUpdate(ctx context.Context, productID id.ID) (ledger.InventoryRecord, error) {
	return r.GetInventory(ctx, productID)
}

func (r *fakeStockRepo) UpdateInventory(ctx context.Context, rec ledger.InventoryRecord) error {
	r.records[rec.ProductID] = rec
	return nil
}

func (r *fakeStockRepo) ListInventory(ctx context.Context) ([]ledger.InventoryRecord, error) {
	return nil, nil
}

func (r *fakeStockRepo) CreateMovement(ctx context.Context, m ledger.StockMovement) error {
	r.movements = append(r.movements, m)
	return nil
}

func (r *fakeStockRepo) ListMovements(ctx context.Context, filter ledger.MovementFilter) ([]ledger.StockMovement, error) {
	return r.movements, nil
}

// fakeSalesRepo is an in-memory sales.Repository.
type fakeSalesRepo struct {
	sales map[id.ID]*Sale
	bills map[id.ID]*PendingBill

	failCreateItems error
}

type salesSnapshot struct {
	sales map[id.ID]*Sale
	bills map[id.ID]*PendingBill
}

func newFakeSalesRepo() *fakeSalesRepo {
	return &fakeSalesRepo{
		sales: make(map[id.ID]*Sale),
		bills: make(map[id.ID]*PendingBill),
	}
}

func (r *fakeSalesRepo) snapshot() salesSnapshot {
	s := salesSnapshot{sales: make(map[id.ID]*Sale), bills: make(map[id.ID]*PendingBill)}
	for k, v := range r.sales {
		s.sales[k] = v
	}
	for k, v := range r.bills {
		s.bills[k] = v
	}
	return s
}

func (r *fakeSalesRepo) restore(s salesSnapshot) {
	r.sales = s.sales
	r.bills = s.bills
}

func (r *fakeSalesRepo) CreateSale(ctx context.Context, sale *Sale) error {
	for _, existing := range r.sales {
		if existing.SaleNumber == sale.SaleNumber {
			return apperror.NewDuplicate("sale", "sale_number", sale.SaleNumber)
		}
	}
	r.sales[sale.ID] = sale
	return nil
}

func (r *fakeSalesRepo) CreateSaleItems(ctx context.Context, saleID id.ID, items []SaleItem) error {
	return r.failCreateItems
}

func (r *fakeSalesRepo) GetSale(ctx context.Context, saleID id.ID) (*Sale, error) {
	sale, ok := r.sales[saleID]
	if !ok {
		return nil, apperror.NewNotFound("sale", saleID.String())
	}
	return sale, nil
}

func (r *fakeSalesRepo) GetSaleByNumber(ctx context.Context, saleNumber string) (*Sale, error) {
	for _, sale := range r.sales {
		if sale.SaleNumber == saleNumber {
			return sale, nil
		}
	}
	return nil, apperror.NewNotFound("sale", saleNumber)
}

func (r *fakeSalesRepo) ListSales(ctx context.Context, filter SaleFilter) ([]*Sale, error) {
	out := make([]*Sale, 0, len(r.sales))
	for _, sale := range r.sales {
		out = append(out, sale)
	}
	return out, nil
}

func (r *fakeSalesRepo) CreatePendingBill(ctx context.Context, bill *PendingBill) error {
	r.bills[bill.ID] = bill
	return nil
}

func (r *fakeSalesRepo) UpdatePendingBill(ctx context.Context, bill *PendingBill) error {
	if _, ok := r.bills[bill.ID]; !ok {
		return apperror.NewNotFound("pending_bill", bill.ID.String())
	}
	r.bills[bill.ID] = bill
	return nil
}

func (r *fakeSalesRepo) GetPendingBill(ctx context.Context, billID id.ID) (*PendingBill, error) {
	bill, ok := r.bills[billID]
	if !ok {
		return nil, apperror.NewNotFound("pending_bill", billID.String())
	}
	return bill, nil
}

func (r *fakeSalesRepo) ListPendingBills(ctx context.Context) ([]*PendingBill, error) {
	out := make([]*PendingBill, 0, len(r.bills))
	for _, bill := range r.bills {
		out = append(out, bill)
	}
	return out, nil
}

func (r *fakeSalesRepo) DeletePendingBill(ctx context.Context, billID id.ID) error {
	if _, ok := r.bills[billID]; !ok {
		return apperror.NewNotFound("pending_bill", billID.String())
	}
	delete(r.bills, billID)
	return nil
}

// fakeRow and fakeQuerier back the numerator with an in-memory sequence.
type fakeRow struct {
	val int64
}

func (r *fakeRow) Scan(dest ...any) error {
	if len(dest) > 0 {
		if ptr, ok := dest[0].(*int64); ok {
			*ptr = r.val
		}
	}
	return nil
}

type fakeQuerier struct {
	current int64
}

func (q *fakeQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	q.current++
	return &fakeRow{val: q.current}
}

// fakeArchiver records archive calls.
type fakeArchiver struct {
	archived []id.ID
}

func (a *fakeArchiver) ArchiveClearedBill(ctx context.Context, bill *PendingBill, saleID id.ID, saleNumber string) error {
	a.archived = append(a.archived, bill.ID)
	return nil
}

type testEnv struct {
	processor *Processor
	salesRepo *fakeSalesRepo
	stockRepo *fakeStockRepo
	txm       *fakeTxManager
	archiver  *fakeArchiver
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	salesRepo := newFakeSalesRepo()
	stockRepo := newFakeStockRepo()
	txm := &fakeTxManager{sales: salesRepo, stock: stockRepo}
	archiver := &fakeArchiver{}

	stockService := ledger.NewService(stockRepo, txm, ledger.Config{})
	num := numerator.New(&fakeQuerier{})

	return &testEnv{
		processor: NewProcessor(salesRepo, stockService, num, archiver, txm),
		salesRepo: salesRepo,
		stockRepo: stockRepo,
		txm:       txm,
		archiver:  archiver,
	}
}

func (e *testEnv) addProduct(t *testing.T, counterStock int64) id.ID {
	t.Helper()
	productID := id.New()
	require.NoError(t, e.stockRepo.CreateInventory(context.Background(), productID))
	rec := e.stockRepo.records[productID]
	rec.CounterStock = counterStock
	e.stockRepo.records[productID] = rec
	return productID
}

func testSale(productID id.ID, quantity int64) *Sale {
	sale := NewSale("010126-001", SaleTypeParcel)
	sale.PaymentMethod = "cash"
	sale.AddItem(productID, quantity, types.MustMoney("180.00"))
	return sale
}

func TestCreateSale_DeductsCounterStock(t *testing.T) {
	env := newTestEnv(t)
	productID := env.addProduct(t, 10)
	ctx := context.Background()

	created, err := env.processor.CreateSale(ctx, testSale(productID, 3))
	require.NoError(t, err)

	assert.Equal(t, types.MustMoney("540.00").String(), created.TotalAmount.String())
	assert.Equal(t, int64(7), env.stockRepo.records[productID].CounterStock)

	require.Len(t, env.stockRepo.movements, 1)
	m := env.stockRepo.movements[0]
	assert.Equal(t, ledger.MovementOut, m.Type)
	require.NotNil(t, m.ReferenceID)
	assert.Equal(t, created.ID, *m.ReferenceID)
	assert.Equal(t, 1, env.txm.commits)
}

func TestCreateSale_TwoLineItems(t *testing.T) {
	env := newTestEnv(t)
	productID := env.addProduct(t, 10)
	ctx := context.Background()

	sale := NewSale("010126-001", SaleTypeParcel)
	sale.PaymentMethod = "cash"
	sale.AddItem(productID, 2, types.MustMoney("180.00"))
	sale.AddItem(productID, 1, types.MustMoney("40.00"))

	created, err := env.processor.CreateSale(ctx, sale)
	require.NoError(t, err)

	// Each line deducts independently: 10 - 2 - 1.
	assert.Equal(t, int64(7), env.stockRepo.records[productID].CounterStock)
	assert.Equal(t, types.MustMoney("400.00").String(), created.TotalAmount.String())

	// One out movement per line, all referencing the sale.
	require.Len(t, env.stockRepo.movements, 2)
	quantities := []int64{}
	for _, m := range env.stockRepo.movements {
		assert.Equal(t, ledger.MovementOut, m.Type)
		require.NotNil(t, m.ReferenceID)
		assert.Equal(t, created.ID, *m.ReferenceID)
		quantities = append(quantities, m.Quantity)
	}
	assert.ElementsMatch(t, []int64{2, 1}, quantities)
}

func TestCreateSale_SecondItemUnknownProductRollsBack(t *testing.T) {
	env := newTestEnv(t)
	productID := env.addProduct(t, 10)
	ctx := context.Background()

	sale := NewSale("010126-001", SaleTypeParcel)
	sale.PaymentMethod = "cash"
	sale.AddItem(productID, 2, types.MustMoney("180.00"))
	sale.AddItem(id.New(), 1, types.MustMoney("40.00"))

	_, err := env.processor.CreateSale(ctx, sale)
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))

	// The first item's deduction does not survive the failed second.
	assert.Equal(t, int64(10), env.stockRepo.records[productID].CounterStock)
	assert.Empty(t, env.stockRepo.movements)
	assert.Empty(t, env.salesRepo.sales)
	assert.Equal(t, 1, env.txm.rollbacks)
}

func TestCreateSale_InsufficientStockRollsBack(t *testing.T) {
	env := newTestEnv(t)
	productID := env.addProduct(t, 2)
	ctx := context.Background()

	_, err := env.processor.CreateSale(ctx, testSale(productID, 5))
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeInsufficientStock))

	// Whole transaction rolled back: no sale row, no stock change.
	assert.Empty(t, env.salesRepo.sales)
	assert.Equal(t, int64(2), env.stockRepo.records[productID].CounterStock)
	assert.Empty(t, env.stockRepo.movements)
	assert.Equal(t, 1, env.txm.rollbacks)
}

func TestCreateSale_ItemFailureRollsBack(t *testing.T) {
	env := newTestEnv(t)
	productID := env.addProduct(t, 10)
	env.salesRepo.failCreateItems = fmt.Errorf("disk full")
	ctx := context.Background()

	_, err := env.processor.CreateSale(ctx, testSale(productID, 1))
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeTransaction))

	assert.Empty(t, env.salesRepo.sales)
	assert.Equal(t, int64(10), env.stockRepo.records[productID].CounterStock)
}

func TestCreateSale_DuplicateNumber(t *testing.T) {
	env := newTestEnv(t)
	productID := env.addProduct(t, 10)
	ctx := context.Background()

	_, err := env.processor.CreateSale(ctx, testSale(productID, 1))
	require.NoError(t, err)

	_, err = env.processor.CreateSale(ctx, testSale(productID, 1))
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeDuplicate))
}

func TestCreateSale_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	sale := NewSale("", SaleTypeParcel)
	_, err := env.processor.CreateSale(ctx, sale)
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeInvalidInput))

	tableSale := NewSale("010126-002", SaleTypeTable)
	tableSale.AddItem(id.New(), 1, types.MustMoney("10"))
	_, err = env.processor.CreateSale(ctx, tableSale)
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeInvalidInput))
}

func testBill(productID id.ID, quantity int64) *PendingBill {
	bill := NewPendingBill(SaleTypeTable)
	table := 4
	bill.TableNumber = &table
	bill.PaymentMethod = "cash"
	unitPrice := types.MustMoney("110.00")
	linePrice := unitPrice.Mul(types.MoneyFromInt(quantity))
	bill.Items = append(bill.Items, PendingItem{
		ProductID:  productID,
		Quantity:   quantity,
		UnitPrice:  unitPrice,
		TotalPrice: linePrice,
	})
	bill.TotalAmount = linePrice
	return bill
}

func TestClearPendingBill_PromotesDraft(t *testing.T) {
	env := newTestEnv(t)
	productID := env.addProduct(t, 10)
	ctx := context.Background()

	bill := testBill(productID, 2)
	require.NoError(t, env.processor.SavePendingBill(ctx, bill))

	result, err := env.processor.ClearPendingBill(ctx, bill.ID)
	require.NoError(t, err)

	// Sale number in the DDMMYY-NNN business shape from the sequence.
	expected := time.Now().Format("020106") + "-001"
	assert.Equal(t, expected, result.SaleNumber)

	// Draft is gone, sale exists, stock deducted, draft archived.
	assert.Empty(t, env.salesRepo.bills)
	assert.Len(t, env.salesRepo.sales, 1)
	assert.Equal(t, int64(8), env.stockRepo.records[productID].CounterStock)
	assert.Equal(t, []id.ID{bill.ID}, env.archiver.archived)

	// Promoted sale carries the draft's fields.
	require.NotNil(t, result.Sale.TableNumber)
	assert.Equal(t, 4, *result.Sale.TableNumber)
	assert.Equal(t, SaleTypeTable, result.Sale.SaleType)
}

func TestClearPendingBill_NotFound(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.processor.ClearPendingBill(context.Background(), id.New())
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestClearPendingBill_FailureKeepsDraft(t *testing.T) {
	env := newTestEnv(t)
	productID := env.addProduct(t, 1)
	ctx := context.Background()

	bill := testBill(productID, 5)
	require.NoError(t, env.processor.SavePendingBill(ctx, bill))

	_, err := env.processor.ClearPendingBill(ctx, bill.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeInsufficientStock))

	// The draft survives a failed promotion for retry.
	assert.Len(t, env.salesRepo.bills, 1)
	assert.Empty(t, env.salesRepo.sales)
	assert.Equal(t, int64(1), env.stockRepo.records[productID].CounterStock)
}

func TestClearPendingBill_BurnedNumbersStayUnique(t *testing.T) {
	env := newTestEnv(t)
	productID := env.addProduct(t, 3)
	ctx := context.Background()

	short := testBill(productID, 5)
	require.NoError(t, env.processor.SavePendingBill(ctx, short))
	_, err := env.processor.ClearPendingBill(ctx, short.ID)
	require.Error(t, err)

	ok := testBill(productID, 2)
	require.NoError(t, env.processor.SavePendingBill(ctx, ok))
	result, err := env.processor.ClearPendingBill(ctx, ok.ID)
	require.NoError(t, err)

	// The failed attempt burned -001; the next sale gets -002.
	expected := time.Now().Format("020106") + "-002"
	assert.Equal(t, expected, result.SaleNumber)
}

func TestPendingBillLifecycle(t *testing.T) {
	env := newTestEnv(t)
	productID := env.addProduct(t, 10)
	ctx := context.Background()

	bill := testBill(productID, 1)
	require.NoError(t, env.processor.SavePendingBill(ctx, bill))

	got, err := env.processor.GetPendingBill(ctx, bill.ID)
	require.NoError(t, err)
	assert.Equal(t, bill.ID, got.ID)

	list, err := env.processor.ListPendingBills(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, env.processor.DeletePendingBill(ctx, bill.ID))
	_, err = env.processor.GetPendingBill(ctx, bill.ID)
	assert.True(t, apperror.IsNotFound(err))
}
