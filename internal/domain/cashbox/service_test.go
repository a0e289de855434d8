package cashbox

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"barkeep/internal/core/apperror"
	"barkeep/internal/core/types"
)

type fakeTxManager struct{}

func (fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// fakeRepo stores sessions in order and serves cash totals per day.
type fakeRepo struct {
	sessions  []*CashSession
	cashSales types.Money
}

func (r *fakeRepo) Create(ctx context.Context, session *CashSession) error {
	r.sessions = append(r.sessions, session)
	return nil
}

func (r *fakeRepo) Update(ctx context.Context, session *CashSession) error {
	for i, s := range r.sessions {
		if s.ID == session.ID {
			r.sessions[i] = session
			return nil
		}
	}
	return apperror.NewNotFound("cash_session", session.ID.String())
}

func (r *fakeRepo) GetOpen(ctx context.Context) (*CashSession, error) {
	for _, s := range r.sessions {
		if !s.IsClosed() {
			return s, nil
		}
	}
	return nil, apperror.NewNotFound("cash_session", "open")
}

func (r *fakeRepo) List(ctx context.Context, from, to time.Time) ([]*CashSession, error) {
	return r.sessions, nil
}

func (r *fakeRepo) CashSalesTotal(ctx context.Context, businessDate time.Time) (types.Money, error) {
	return r.cashSales, nil
}

func businessDate() time.Time {
	return time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
}

func TestOpenDay(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, fakeTxManager{})
	ctx := context.Background()

	session, err := svc.OpenDay(ctx, businessDate(), types.MustMoney("2000.00"))
	require.NoError(t, err)
	assert.False(t, session.IsClosed())
	assert.Equal(t, "2000", session.OpeningAmount.String())

	current, err := svc.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, session.ID, current.ID)
}

func TestOpenDay_RejectsSecondOpenSession(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, fakeTxManager{})
	ctx := context.Background()

	first, err := svc.OpenDay(ctx, businessDate(), types.MustMoney("2000"))
	require.NoError(t, err)

	_, err = svc.OpenDay(ctx, businessDate().AddDate(0, 0, 1), types.MustMoney("2000"))
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeConflict, appErr.Code)
	assert.Equal(t, first.ID.String(), appErr.Details["session_id"])
	assert.Len(t, repo.sessions, 1)
}

func TestOpenDay_Validation(t *testing.T) {
	svc := NewService(&fakeRepo{}, fakeTxManager{})
	ctx := context.Background()

	_, err := svc.OpenDay(ctx, time.Time{}, types.MustMoney("100"))
	assert.True(t, apperror.IsCode(err, apperror.CodeInvalidInput))

	_, err = svc.OpenDay(ctx, businessDate(), types.MustMoney("-1"))
	assert.True(t, apperror.IsCode(err, apperror.CodeInvalidInput))
}

func TestCloseDay_CapturesCashSalesAndVariance(t *testing.T) {
	repo := &fakeRepo{cashSales: types.MustMoney("3250.00")}
	svc := NewService(repo, fakeTxManager{})
	ctx := context.Background()

	_, err := svc.OpenDay(ctx, businessDate(), types.MustMoney("2000.00"))
	require.NoError(t, err)

	closed, err := svc.CloseDay(ctx, types.MustMoney("5200.00"), "50 short, note stuck in drawer")
	require.NoError(t, err)

	assert.True(t, closed.IsClosed())
	assert.Equal(t, "3250", closed.CashSales.String())
	// Expected 2000 + 3250 = 5250; counted 5200.
	assert.Equal(t, "5250", closed.Expected().String())
	assert.Equal(t, "-50", closed.Variance().String())
	assert.Equal(t, "50 short, note stuck in drawer", closed.Notes)

	_, err = svc.Current(ctx)
	assert.True(t, apperror.IsNotFound(err))
}

func TestCloseDay_NoOpenSession(t *testing.T) {
	svc := NewService(&fakeRepo{}, fakeTxManager{})

	_, err := svc.CloseDay(context.Background(), types.MustMoney("100"), "")
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestCloseDay_RejectsNegativeCount(t *testing.T) {
	svc := NewService(&fakeRepo{}, fakeTxManager{})

	_, err := svc.CloseDay(context.Background(), types.MustMoney("-10"), "")
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeInvalidInput))
}

func TestVariance_ZeroWhileOpen(t *testing.T) {
	session := NewSession(businessDate(), types.MustMoney("1000"))
	assert.True(t, session.Variance().IsZero())
}
