package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/declaramei/express-api/internal/application/service"
	"github.com/declaramei/express-api/internal/domain/enum"
	"github.com/declaramei/express-api/internal/infrastructure/memory"
	"github.com/declaramei/express-api/pkg/apperror"
	"github.com/declaramei/express-api/pkg/pagination"
)

func TestCashSessionService_Open(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		operator string
		balance  string
		wantErr  error
	}{
		{name: "zero balance", operator: "Maria", balance: "0"},
		{name: "positive balance", operator: "Maria", balance: "100.00"},
		{name: "negative balance", operator: "Maria", balance: "-0.01", wantErr: apperror.ErrInvalidOpeningBalance},
		{name: "missing operator", operator: "  ", balance: "10", wantErr: apperror.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := newHarness(t)
			session, err := h.cash.Open(context.Background(), tt.operator, dec(tt.balance))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				_, ok := h.cash.CurrentID()
				assert.False(t, ok)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, enum.CashSessionOpen, session.Status)
			require.Len(t, session.Transactions, 1)
			assert.Equal(t, enum.CashTransactionOpening, session.Transactions[0].Type)

			id, ok := h.cash.CurrentID()
			require.True(t, ok)
			assert.Equal(t, session.ID, id)
		})
	}
}

func TestCashSessionService_OpenTwice(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.open(t, "100")

	_, err := h.cash.Open(context.Background(), "Joana", dec("50"))
	require.ErrorIs(t, err, apperror.ErrCashSessionOpen)
}

func TestCashSessionService_PostMovement(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		txType      enum.CashTransactionType
		amount      string
		description string
		wantErr     error
	}{
		{name: "supply", txType: enum.CashTransactionSupply, amount: "50", description: "Troco"},
		{name: "withdrawal", txType: enum.CashTransactionWithdrawal, amount: "30", description: "Deposito"},
		{name: "withdrawal of the whole drawer", txType: enum.CashTransactionWithdrawal, amount: "100", description: "Deposito"},
		{name: "withdrawal above balance", txType: enum.CashTransactionWithdrawal, amount: "100.01", description: "Deposito", wantErr: apperror.ErrValidation},
		{name: "zero supply", txType: enum.CashTransactionSupply, amount: "0", description: "Troco", wantErr: apperror.ErrValidation},
		{name: "missing description", txType: enum.CashTransactionSupply, amount: "10", description: " ", wantErr: apperror.ErrValidation},
		{name: "sale posted by hand", txType: enum.CashTransactionSale, amount: "10", description: "Venda", wantErr: apperror.ErrValidation},
		{name: "opening posted by hand", txType: enum.CashTransactionOpening, amount: "10", description: "Abertura", wantErr: apperror.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx := context.Background()
			h := newHarness(t)
			session := h.open(t, "100")

			posted, err := h.cash.PostMovement(ctx, &service.MovementInput{
				SessionID:   session.ID,
				Type:        tt.txType,
				Amount:      dec(tt.amount),
				Description: tt.description,
			})

			stored, getErr := h.cash.Get(ctx, session.ID)
			require.NoError(t, getErr)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Len(t, stored.Transactions, 1, "rejected movements leave the ledger unchanged")
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "Maria", posted.OperatorName)
			require.Len(t, stored.Transactions, 2)
			assert.Equal(t, posted.ID, stored.Transactions[1].ID)
		})
	}
}

func TestCashSessionService_Totals(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	h := newHarness(t)
	session := h.open(t, "100")

	movements := []service.MovementInput{
		{Type: enum.CashTransactionSupply, Amount: dec("50"), Description: "Troco"},
		{Type: enum.CashTransactionWithdrawal, Amount: dec("20"), Description: "Deposito"},
		{Type: enum.CashTransactionSupply, Amount: dec("5.50"), Description: "Moedas"},
	}
	for _, m := range movements {
		m.SessionID = session.ID
		_, err := h.cash.PostMovement(ctx, &m)
		require.NoError(t, err)
	}

	totals, err := h.cash.Totals(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, "100.00", totals.OpeningBalance.StringFixed(2))
	assert.Equal(t, "55.50", totals.Supplies.StringFixed(2))
	assert.Equal(t, "20.00", totals.Withdrawals.StringFixed(2))
	assert.Equal(t, "0.00", totals.Sales.StringFixed(2))
	assert.Equal(t, "135.50", totals.Expected.StringFixed(2))
}

func TestCashSessionService_CloseWithShortage(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	h := newHarness(t)
	session := h.open(t, "100")

	_, err := h.cash.PostMovement(ctx, &service.MovementInput{
		SessionID:   session.ID,
		Type:        enum.CashTransactionSupply,
		Amount:      dec("50"),
		Description: "Troco",
	})
	require.NoError(t, err)

	_, err = h.cash.Close(ctx, session.ID, dec("145"), false)
	require.ErrorIs(t, err, apperror.ErrConfirmationRequired)

	_, err = h.cash.Close(ctx, session.ID, dec("-1"), true)
	require.ErrorIs(t, err, apperror.ErrInvalidCountedBalance)

	closed, err := h.cash.Close(ctx, session.ID, dec("145"), true)
	require.NoError(t, err)
	assert.Equal(t, enum.CashSessionClosed, closed.Status)
	assert.Equal(t, "150.00", closed.ExpectedBalance.StringFixed(2))
	assert.Equal(t, "-5.00", closed.Difference.StringFixed(2))
	require.NotNil(t, closed.ClosedAt)

	_, ok := h.cash.CurrentID()
	assert.False(t, ok)

	_, err = h.cash.Close(ctx, session.ID, dec("150"), true)
	require.ErrorIs(t, err, apperror.ErrCashSessionClosed)

	_, err = h.cash.PostMovement(ctx, &service.MovementInput{
		SessionID:   session.ID,
		Type:        enum.CashTransactionSupply,
		Amount:      dec("10"),
		Description: "Troco",
	})
	require.ErrorIs(t, err, apperror.ErrCashSessionClosed)

	_, err = h.cash.Current(ctx)
	require.ErrorIs(t, err, apperror.ErrNoOpenCashSession)

	reopened := h.open(t, "145")
	assert.NotEqual(t, session.ID, reopened.ID)
}

func TestCashSessionService_CloseUnknown(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	_, err := h.cash.Close(context.Background(), uuid.New(), dec("10"), true)
	require.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestCashSessionService_Restore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	h := newHarness(t)
	session := h.open(t, "80")

	restarted := service.NewCashSessionService(h.sessionRepo, memory.NewTransactor(h.store))
	_, ok := restarted.CurrentID()
	require.False(t, ok)

	require.NoError(t, restarted.Restore(ctx))
	id, ok := restarted.CurrentID()
	require.True(t, ok)
	assert.Equal(t, session.ID, id)

	current, err := restarted.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Maria", current.OperatorName)
}

func TestCashSessionService_List(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	h := newHarness(t)
	first := h.open(t, "10")
	_, err := h.cash.Close(ctx, first.ID, dec("10"), true)
	require.NoError(t, err)
	h.open(t, "20")

	all, err := h.cash.List(ctx, pagination.DefaultPagination(), nil)
	require.NoError(t, err)
	assert.EqualValues(t, 2, all.Pagination.Total)

	closed := enum.CashSessionClosed
	onlyClosed, err := h.cash.List(ctx, pagination.DefaultPagination(), &closed)
	require.NoError(t, err)
	require.Len(t, onlyClosed.Items, 1)
	assert.Equal(t, first.ID, onlyClosed.Items[0].ID)
}
