package entity_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/declaramei/express-api/internal/domain/entity"
	"github.com/declaramei/express-api/internal/domain/enum"
	"github.com/declaramei/express-api/pkg/apperror"
)

var openedAt = time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func openSession(t *testing.T, opening string) *entity.CashSession {
	t.Helper()

	s, err := entity.OpenCashSession("Maria", dec(opening), openedAt)
	require.NoError(t, err)
	return s
}

func TestOpenCashSession(t *testing.T) {
	t.Parallel()

	s := openSession(t, "100.00")
	require.True(t, s.IsOpen())
	require.Len(t, s.Transactions, 1)
	assert.Equal(t, enum.CashTransactionOpening, s.Transactions[0].Type)
	assert.True(t, s.Transactions[0].Amount.Equal(dec("100")))
	assert.Equal(t, s.ID, s.Transactions[0].CashSessionID)

	_, err := entity.OpenCashSession("Maria", dec("-0.01"), openedAt)
	require.ErrorIs(t, err, apperror.ErrInvalidOpeningBalance)

	_, err = entity.OpenCashSession("   ", dec("10"), openedAt)
	require.ErrorIs(t, err, apperror.ErrValidation)

	zero, err := entity.OpenCashSession("Maria", decimal.Zero, openedAt)
	require.NoError(t, err)
	assert.True(t, zero.Totals().Expected.IsZero())
}

func TestCashSession_Record(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		name    string
		entry   entity.CashEntry
		wantErr error
	}{
		{
			name:  "sale posting",
			entry: entity.CashEntry{Type: enum.CashTransactionSale, Amount: dec("40"), Description: "Venda VND-1"},
		},
		{
			name:  "zero sale posting is allowed",
			entry: entity.CashEntry{Type: enum.CashTransactionSale, Amount: decimal.Zero},
		},
		{
			name:  "supply",
			entry: entity.CashEntry{Type: enum.CashTransactionSupply, Amount: dec("20"), Description: "Troco"},
		},
		{
			name:    "supply without description",
			entry:   entity.CashEntry{Type: enum.CashTransactionSupply, Amount: dec("20"), Description: "  "},
			wantErr: apperror.ErrValidation,
		},
		{
			name:    "withdrawal with zero amount",
			entry:   entity.CashEntry{Type: enum.CashTransactionWithdrawal, Amount: decimal.Zero, Description: "Sangria"},
			wantErr: apperror.ErrValidation,
		},
		{
			name:    "withdrawal above drawer balance",
			entry:   entity.CashEntry{Type: enum.CashTransactionWithdrawal, Amount: dec("100.01"), Description: "Sangria"},
			wantErr: apperror.ErrValidation,
		},
		{
			name:  "withdrawal of the whole drawer",
			entry: entity.CashEntry{Type: enum.CashTransactionWithdrawal, Amount: dec("100"), Description: "Sangria"},
		},
		{
			name:    "opening cannot be posted",
			entry:   entity.CashEntry{Type: enum.CashTransactionOpening, Amount: dec("10"), Description: "x"},
			wantErr: apperror.ErrValidation,
		},
		{
			name:    "negative amount",
			entry:   entity.CashEntry{Type: enum.CashTransactionSale, Amount: dec("-1")},
			wantErr: apperror.ErrValidation,
		},
		{
			name:    "unknown type",
			entry:   entity.CashEntry{Type: "refund", Amount: dec("1"), Description: "x"},
			wantErr: apperror.ErrValidation,
		},
	} {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := openSession(t, "100")
			tx, err := s.Record(tt.entry, openedAt.Add(time.Hour))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				require.Len(t, s.Transactions, 1)
				return
			}

			require.NoError(t, err)
			require.Len(t, s.Transactions, 2)
			assert.Equal(t, tt.entry.Type, tx.Type)
			assert.Equal(t, "Maria", tx.OperatorName)
			assert.Equal(t, s.ID, tx.CashSessionID)
		})
	}
}

func TestCashSession_Totals(t *testing.T) {
	t.Parallel()

	s := openSession(t, "100")
	at := openedAt.Add(time.Minute)

	entries := []entity.CashEntry{
		{Type: enum.CashTransactionSale, Amount: dec("40")},
		{Type: enum.CashTransactionSale, Amount: dec("12.50")},
		{Type: enum.CashTransactionSupply, Amount: dec("30"), Description: "Reforco"},
		{Type: enum.CashTransactionWithdrawal, Amount: dec("25.25"), Description: "Sangria"},
		{Type: enum.CashTransactionWithdrawal, Amount: dec("10"), Description: "Fornecedor"},
	}
	for _, e := range entries {
		_, err := s.Record(e, at)
		require.NoError(t, err)
	}

	totals := s.Totals()
	assert.True(t, totals.OpeningBalance.Equal(dec("100")))
	assert.True(t, totals.Sales.Equal(dec("52.50")))
	assert.True(t, totals.Supplies.Equal(dec("30")))
	assert.True(t, totals.Withdrawals.Equal(dec("35.25")))

	want := totals.OpeningBalance.Add(totals.Sales).Add(totals.Supplies).Sub(totals.Withdrawals)
	assert.True(t, totals.Expected.Equal(want))
	assert.True(t, totals.Expected.Equal(dec("147.25")))
}

func TestCashSession_Close(t *testing.T) {
	t.Parallel()

	s := openSession(t, "100")
	_, err := s.Record(entity.CashEntry{Type: enum.CashTransactionSale, Amount: dec("50")}, openedAt)
	require.NoError(t, err)
	require.True(t, s.Totals().Expected.Equal(dec("150")))

	require.ErrorIs(t, s.Close(dec("-1"), openedAt), apperror.ErrInvalidCountedBalance)
	require.True(t, s.IsOpen())

	closedAt := openedAt.Add(8 * time.Hour)
	require.NoError(t, s.Close(dec("145"), closedAt))

	assert.Equal(t, enum.CashSessionClosed, s.Status)
	require.NotNil(t, s.ClosedAt)
	assert.Equal(t, closedAt, *s.ClosedAt)
	assert.True(t, s.ClosingBalance.Equal(dec("145")))
	assert.True(t, s.ExpectedBalance.Equal(dec("150")))
	assert.True(t, s.Difference.Equal(dec("-5")))

	require.ErrorIs(t, s.Close(dec("150"), closedAt), apperror.ErrCashSessionClosed)

	_, err = s.Record(entity.CashEntry{Type: enum.CashTransactionSupply, Amount: dec("1"), Description: "x"}, closedAt)
	require.ErrorIs(t, err, apperror.ErrCashSessionClosed)
	assert.Len(t, s.Transactions, 2)
}
