package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/declaramei/express-api/internal/application/service"
	"github.com/declaramei/express-api/internal/domain/enum"
	"github.com/declaramei/express-api/internal/infrastructure/fixtures"
	"github.com/declaramei/express-api/pkg/apperror"
	"github.com/declaramei/express-api/pkg/gateway"
	"github.com/declaramei/express-api/pkg/pagination"
)

var (
	coffee = fixtures.Products()[3] // 25.00, stock 15
	soap   = fixtures.Products()[4] // 9.90, stock 4
	repair = fixtures.Services()[2] // 80.00
	ana    = fixtures.Customers()[0]
)

func tomorrow() time.Time {
	return time.Now().AddDate(0, 0, 1).Truncate(24 * time.Hour)
}

func TestCheckout_CashSaleWithChange(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	h := newHarness(t)
	session := h.open(t, "100.00")

	_, err := h.checkout.AddItem(ctx, enum.ItemKindProduct, coffee.ID)
	require.NoError(t, err)
	state, err := h.checkout.AddItem(ctx, enum.ItemKindProduct, coffee.ID)
	require.NoError(t, err)
	require.Len(t, state.Lines, 1)
	assert.Equal(t, 2, state.Lines[0].Quantity)
	assert.Equal(t, "50.00", state.Total.StringFixed(2))

	_, err = h.checkout.AddPayment(ctx, enum.PaymentMethodCash, nil)
	require.NoError(t, err)
	state, err = h.checkout.SetTendered(ctx, ptr(dec("60.00")))
	require.NoError(t, err)
	assert.Equal(t, "10.00", state.ChangeDue.StringFixed(2))
	assert.True(t, state.CanFinalize)

	result, err := h.checkout.Finalize(ctx)
	require.NoError(t, err)
	assert.Nil(t, result.Receivable)

	sale := result.Sale
	assert.Equal(t, "50.00", sale.Total.StringFixed(2))
	assert.Equal(t, "10.00", sale.ChangeDue.StringFixed(2))
	assert.Equal(t, "60.00", sale.Tendered.StringFixed(2))
	assert.Equal(t, "Maria", sale.OperatorName)
	assert.Regexp(t, `^VND-[0-9A-F]{8}$`, sale.Number)

	stored, err := h.cash.Get(ctx, session.ID)
	require.NoError(t, err)
	require.Len(t, stored.Transactions, 2)
	posted := stored.Transactions[1]
	assert.Equal(t, enum.CashTransactionSale, posted.Type)
	assert.Equal(t, "40.00", posted.Amount.StringFixed(2))
	require.NotNil(t, posted.SaleID)
	assert.Equal(t, sale.ID, *posted.SaleID)

	product, err := h.products.GetByID(ctx, coffee.ID)
	require.NoError(t, err)
	assert.Equal(t, coffee.Stock-2, product.Stock)

	state, err = h.checkout.State(ctx)
	require.NoError(t, err)
	assert.Empty(t, state.Lines)
	assert.Empty(t, state.Payments)

	history, err := h.sales.GetSale(ctx, sale.ID)
	require.NoError(t, err)
	assert.Len(t, history.Lines, 1)
	assert.Len(t, history.Payments, 1)
}

func TestCheckout_SplitPixAndOnAccount(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	h := newHarness(t)
	session := h.open(t, "100.00")
	due := tomorrow()

	_, err := h.checkout.AddItem(ctx, enum.ItemKindService, repair.ID)
	require.NoError(t, err)
	_, err = h.checkout.SetCustomer(ctx, &ana.ID)
	require.NoError(t, err)
	_, err = h.checkout.SetDueDate(ctx, &due)
	require.NoError(t, err)

	_, err = h.checkout.AddPayment(ctx, enum.PaymentMethodPix, ptr(dec("30.00")))
	require.NoError(t, err)
	state, err := h.checkout.AddPayment(ctx, enum.PaymentMethodOnAccount, nil)
	require.NoError(t, err)
	require.Len(t, state.Payments, 2)
	assert.Equal(t, "50.00", state.Payments[1].Amount.StringFixed(2))
	assert.Equal(t, "0.00", state.ChangeDue.StringFixed(2))

	result, err := h.checkout.Finalize(ctx)
	require.NoError(t, err)
	require.NotNil(t, result.Receivable)

	r := result.Receivable
	assert.Equal(t, "50.00", r.Amount.StringFixed(2))
	assert.Equal(t, ana.ID, r.CustomerID)
	assert.True(t, due.Equal(r.DueDate))
	assert.Equal(t, enum.ReceivablePending, r.Status)
	assert.Equal(t, result.Sale.ID, r.SaleID)
	assert.True(t, result.Sale.Date.Equal(r.IssueDate))
	require.NotNil(t, result.Sale.CustomerID)
	assert.Equal(t, ana.ID, *result.Sale.CustomerID)

	stored, err := h.cash.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Transactions, 1, "no cash was taken")

	paid, err := h.receivables.MarkPaid(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.ReceivablePaid, paid.Status)
	require.NotNil(t, paid.PaymentDate)

	_, err = h.receivables.MarkPaid(ctx, r.ID)
	require.ErrorIs(t, err, apperror.ErrAlreadyPaid)
}

func TestCheckout_CartCannotShrinkBelowPaid(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	h := newHarness(t)
	h.open(t, "0")
	due := tomorrow()

	_, err := h.checkout.AddItem(ctx, enum.ItemKindProduct, coffee.ID)
	require.NoError(t, err)
	_, err = h.checkout.AddItem(ctx, enum.ItemKindProduct, coffee.ID)
	require.NoError(t, err)
	_, err = h.checkout.SetCustomer(ctx, &ana.ID)
	require.NoError(t, err)
	_, err = h.checkout.SetDueDate(ctx, &due)
	require.NoError(t, err)
	_, err = h.checkout.AddPayment(ctx, enum.PaymentMethodOnAccount, nil)
	require.NoError(t, err)

	for _, quantity := range []int{1, 0} {
		_, err = h.checkout.SetQuantity(ctx, enum.ItemKindProduct, coffee.ID, quantity)
		require.ErrorIs(t, err, apperror.ErrValidation)
	}

	state, err := h.checkout.State(ctx)
	require.NoError(t, err)
	assert.Equal(t, "50.00", state.Total.StringFixed(2))
	assert.Equal(t, "50.00", state.TotalPaid.StringFixed(2))

	state, err = h.checkout.SetQuantity(ctx, enum.ItemKindProduct, coffee.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, "25.00", state.Remaining.StringFixed(2))

	_, err = h.checkout.RemovePayment(ctx, 0)
	require.NoError(t, err)
	_, err = h.checkout.SetQuantity(ctx, enum.ItemKindProduct, coffee.ID, 1)
	require.NoError(t, err)
	_, err = h.checkout.AddPayment(ctx, enum.PaymentMethodOnAccount, nil)
	require.NoError(t, err)

	result, err := h.checkout.Finalize(ctx)
	require.NoError(t, err)
	require.NotNil(t, result.Receivable)
	assert.Equal(t, "25.00", result.Sale.Total.StringFixed(2))
	assert.Equal(t, "25.00", result.Receivable.Amount.StringFixed(2))
}

func TestCheckout_PaymentWhenNothingRemains(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	h := newHarness(t)
	h.open(t, "0")

	_, err := h.checkout.AddItem(ctx, enum.ItemKindProduct, coffee.ID)
	require.NoError(t, err)
	_, err = h.checkout.AddPayment(ctx, enum.PaymentMethodPix, nil)
	require.NoError(t, err)

	_, err = h.checkout.AddPayment(ctx, enum.PaymentMethodCash, nil)
	require.ErrorIs(t, err, apperror.ErrInvalidPayment)

	state, err := h.checkout.State(ctx)
	require.NoError(t, err)
	assert.Len(t, state.Payments, 1)
}

func TestCheckout_RequiresOpenSession(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	h := newHarness(t)

	_, err := h.checkout.AddItem(ctx, enum.ItemKindProduct, coffee.ID)
	require.ErrorIs(t, err, apperror.ErrNoOpenCashSession)
	_, err = h.checkout.State(ctx)
	require.ErrorIs(t, err, apperror.ErrNoOpenCashSession)
	_, err = h.checkout.Finalize(ctx)
	require.ErrorIs(t, err, apperror.ErrNoOpenCashSession)
}

func TestCheckout_FinalizeRejections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		setup   func(t *testing.T, h *harness)
		wantErr error
	}{
		{
			name:    "empty cart",
			setup:   func(t *testing.T, h *harness) {},
			wantErr: apperror.ErrEmptyCart,
		},
		{
			name: "payments short of total",
			setup: func(t *testing.T, h *harness) {
				ctx := context.Background()
				_, err := h.checkout.AddItem(ctx, enum.ItemKindProduct, coffee.ID)
				require.NoError(t, err)
				_, err = h.checkout.AddPayment(ctx, enum.PaymentMethodPix, ptr(dec("20")))
				require.NoError(t, err)
			},
			wantErr: apperror.ErrPaymentIncomplete,
		},
		{
			name: "tendered below cash payment",
			setup: func(t *testing.T, h *harness) {
				ctx := context.Background()
				_, err := h.checkout.AddItem(ctx, enum.ItemKindProduct, coffee.ID)
				require.NoError(t, err)
				_, err = h.checkout.AddPayment(ctx, enum.PaymentMethodCash, nil)
				require.NoError(t, err)
				_, err = h.checkout.SetTendered(ctx, ptr(dec("20")))
				require.NoError(t, err)
			},
			wantErr: apperror.ErrValidation,
		},
		{
			name: "stock shortfall",
			setup: func(t *testing.T, h *harness) {
				ctx := context.Background()
				_, err := h.checkout.AddItem(ctx, enum.ItemKindProduct, soap.ID)
				require.NoError(t, err)
				_, err = h.checkout.AddItem(ctx, enum.ItemKindProduct, coffee.ID)
				require.NoError(t, err)
				_, err = h.checkout.SetQuantity(ctx, enum.ItemKindProduct, soap.ID, soap.Stock+1)
				require.NoError(t, err)
				_, err = h.checkout.AddPayment(ctx, enum.PaymentMethodCash, nil)
				require.NoError(t, err)
			},
			wantErr: apperror.ErrInsufficientStock,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx := context.Background()
			h := newHarness(t)
			session := h.open(t, "100")
			tt.setup(t, h)

			before, err := h.checkout.State(ctx)
			require.NoError(t, err)

			_, err = h.checkout.Finalize(ctx)
			require.ErrorIs(t, err, tt.wantErr)

			after, err := h.checkout.State(ctx)
			require.NoError(t, err)
			assert.Equal(t, before, after, "a failed finalize keeps the sale in progress")

			stored, err := h.cash.Get(ctx, session.ID)
			require.NoError(t, err)
			assert.Len(t, stored.Transactions, 1)

			for _, p := range fixtures.Products() {
				got, err := h.products.GetByID(ctx, p.ID)
				require.NoError(t, err)
				assert.Equal(t, p.Stock, got.Stock, p.SKU)
			}

			sales, err := h.sales.ListSales(ctx, pagination.DefaultPagination(), service.SaleFilter{})
			require.NoError(t, err)
			assert.Empty(t, sales.Items)
		})
	}
}

func TestCheckout_StockShortfallNamesProduct(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	h := newHarness(t)
	h.open(t, "0")

	_, err := h.checkout.AddItem(ctx, enum.ItemKindProduct, soap.ID)
	require.NoError(t, err)
	_, err = h.checkout.SetQuantity(ctx, enum.ItemKindProduct, soap.ID, soap.Stock+1)
	require.NoError(t, err)
	_, err = h.checkout.AddPayment(ctx, enum.PaymentMethodPix, nil)
	require.NoError(t, err)

	_, err = h.checkout.Finalize(ctx)
	require.ErrorIs(t, err, apperror.ErrInsufficientStock)
	assert.Contains(t, err.Error(), soap.Name)
}

func TestCheckout_CardApproved(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	h := newHarness(t)
	h.open(t, "0")

	h.auth.On("Authorize", mock.Anything, mock.MatchedBy(func(req gateway.Request) bool {
		return req.Method == "credit_card" && req.Amount.Equal(dec("25")) && req.Reference != ""
	})).Return(gateway.Authorization{Code: "SIM0A1B2C", ApprovedAt: time.Now()}, nil).Once()

	_, err := h.checkout.AddItem(ctx, enum.ItemKindProduct, coffee.ID)
	require.NoError(t, err)
	state, err := h.checkout.AddPayment(ctx, enum.PaymentMethodCreditCard, nil)
	require.NoError(t, err)
	require.Len(t, state.Payments, 1)
	assert.Equal(t, "SIM0A1B2C", state.Payments[0].AuthorizationCode)
	assert.False(t, state.PaymentPending)

	result, err := h.checkout.Finalize(ctx)
	require.NoError(t, err)
	assert.Equal(t, "SIM0A1B2C", result.Sale.Payments[0].AuthorizationCode)
	h.auth.AssertExpectations(t)
}

func TestCheckout_CardDeclined(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	h := newHarness(t)
	h.open(t, "0")

	h.auth.On("Authorize", mock.Anything, mock.Anything).
		Return(gateway.Authorization{}, &gateway.DeclinedError{Message: "saldo insuficiente"}).Once()

	_, err := h.checkout.AddItem(ctx, enum.ItemKindProduct, coffee.ID)
	require.NoError(t, err)
	_, err = h.checkout.AddPayment(ctx, enum.PaymentMethodDebitCard, nil)
	require.ErrorIs(t, err, apperror.ErrPaymentDeclined)
	assert.Contains(t, err.Error(), "saldo insuficiente")

	state, err := h.checkout.State(ctx)
	require.NoError(t, err)
	assert.Empty(t, state.Payments)
	assert.False(t, state.PaymentPending)
}

func TestCheckout_CardGatewayFailure(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	h := newHarness(t)
	h.open(t, "0")

	h.auth.On("Authorize", mock.Anything, mock.Anything).
		Return(gateway.Authorization{}, context.DeadlineExceeded).Once()

	_, err := h.checkout.AddItem(ctx, enum.ItemKindProduct, coffee.ID)
	require.NoError(t, err)
	_, err = h.checkout.AddPayment(ctx, enum.PaymentMethodDebitCard, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))

	state, err := h.checkout.State(ctx)
	require.NoError(t, err)
	assert.Empty(t, state.Payments)
}

func TestCheckout_MutationsBlockedWhileCardPending(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	h := newHarness(t)
	h.open(t, "0")

	release := make(chan struct{})
	h.auth.On("Authorize", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { <-release }).
		Return(gateway.Authorization{Code: "SIM000001"}, nil).Once()

	_, err := h.checkout.AddItem(ctx, enum.ItemKindProduct, coffee.ID)
	require.NoError(t, err)

	var wg sync.WaitGroup
	var payErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, payErr = h.checkout.AddPayment(ctx, enum.PaymentMethodCreditCard, nil)
	}()

	require.Eventually(t, func() bool {
		state, err := h.checkout.State(ctx)
		return err == nil && state.PaymentPending
	}, time.Second, 5*time.Millisecond)

	_, err = h.checkout.AddItem(ctx, enum.ItemKindProduct, coffee.ID)
	require.ErrorIs(t, err, apperror.ErrPaymentPending)
	_, err = h.checkout.AddPayment(ctx, enum.PaymentMethodPix, nil)
	require.ErrorIs(t, err, apperror.ErrPaymentPending)
	_, err = h.checkout.Finalize(ctx)
	require.ErrorIs(t, err, apperror.ErrPaymentPending)
	_, err = h.checkout.Cancel(ctx, true)
	require.ErrorIs(t, err, apperror.ErrPaymentPending)

	close(release)
	wg.Wait()
	require.NoError(t, payErr)

	state, err := h.checkout.State(ctx)
	require.NoError(t, err)
	require.Len(t, state.Payments, 1)
	assert.Equal(t, "25.00", state.Payments[0].Amount.StringFixed(2))
}

func TestCheckout_OnAccountPreconditions(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	h := newHarness(t)
	h.open(t, "0")

	_, err := h.checkout.AddItem(ctx, enum.ItemKindService, repair.ID)
	require.NoError(t, err)

	_, err = h.checkout.AddPayment(ctx, enum.PaymentMethodOnAccount, nil)
	require.ErrorIs(t, err, apperror.ErrClientRequired)

	_, err = h.checkout.SetCustomer(ctx, &ana.ID)
	require.NoError(t, err)
	_, err = h.checkout.AddPayment(ctx, enum.PaymentMethodOnAccount, nil)
	require.ErrorIs(t, err, apperror.ErrDueDateRequired)

	past := time.Now().AddDate(0, 0, -1)
	_, err = h.checkout.SetDueDate(ctx, &past)
	require.ErrorIs(t, err, apperror.ErrValidation)

	unknown := uuid.New()
	_, err = h.checkout.SetCustomer(ctx, &unknown)
	require.ErrorIs(t, err, apperror.ErrNotFound)

	due := tomorrow()
	_, err = h.checkout.SetDueDate(ctx, &due)
	require.NoError(t, err)
	_, err = h.checkout.AddPayment(ctx, enum.PaymentMethodOnAccount, nil)
	require.NoError(t, err)

	_, err = h.checkout.SetCustomer(ctx, nil)
	require.ErrorIs(t, err, apperror.ErrValidation)
	_, err = h.checkout.SetDueDate(ctx, nil)
	require.ErrorIs(t, err, apperror.ErrValidation)
}

func TestCheckout_CancelAndRemovePayment(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	h := newHarness(t)
	h.open(t, "0")

	_, err := h.checkout.AddItem(ctx, enum.ItemKindProduct, coffee.ID)
	require.NoError(t, err)
	_, err = h.checkout.AddPayment(ctx, enum.PaymentMethodCash, ptr(dec("10")))
	require.NoError(t, err)

	state, err := h.checkout.RemovePayment(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, state.Payments)
	assert.Equal(t, "25.00", state.Remaining.StringFixed(2))

	_, err = h.checkout.RemovePayment(ctx, 3)
	require.ErrorIs(t, err, apperror.ErrNotFound)

	_, err = h.checkout.Cancel(ctx, false)
	require.ErrorIs(t, err, apperror.ErrConfirmationRequired)

	state, err = h.checkout.Cancel(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, state.Lines)
	assert.Equal(t, "0.00", state.Total.StringFixed(2))
}

func TestCheckout_CloseDiscardsSaleInProgress(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	h := newHarness(t)
	session := h.open(t, "50")

	_, err := h.checkout.AddItem(ctx, enum.ItemKindProduct, coffee.ID)
	require.NoError(t, err)

	_, err = h.cash.Close(ctx, session.ID, dec("50"), true)
	require.NoError(t, err)

	_, err = h.checkout.State(ctx)
	require.ErrorIs(t, err, apperror.ErrNoOpenCashSession)

	next := h.open(t, "50")
	state, err := h.checkout.State(ctx)
	require.NoError(t, err)
	assert.Equal(t, next.ID, state.CashSessionID)
	assert.Empty(t, state.Lines)
}

func TestCheckout_CloseRacingReadsLeavesNoTerminal(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	h := newHarness(t)

	for range 20 {
		session := h.open(t, "0")

		var wg sync.WaitGroup
		for range 4 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for range 50 {
					_, _ = h.checkout.State(ctx)
				}
			}()
		}

		_, err := h.cash.Close(ctx, session.ID, decimal.Zero, true)
		require.NoError(t, err)
		wg.Wait()

		assert.Zero(t, h.checkout.TerminalCount(), "closed session must not keep a sale in progress")
	}
}

func TestCheckout_ConcurrentFinalizeDoesNotOversell(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	h := newHarness(t)
	h.open(t, "0")

	const workers = 8
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = h.checkout.AddItem(ctx, enum.ItemKindProduct, soap.ID)
			_, _ = h.checkout.AddPayment(ctx, enum.PaymentMethodPix, nil)
			_, _ = h.checkout.Finalize(ctx)
		}()
	}
	wg.Wait()

	product, err := h.products.GetByID(ctx, soap.ID)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, product.Stock, 0)

	sales, err := h.sales.ListSales(ctx, pagination.DefaultPagination(), service.SaleFilter{})
	require.NoError(t, err)
	sold := 0
	for _, s := range sales.Items {
		sold += s.Lines[0].Quantity
	}
	assert.Equal(t, soap.Stock-product.Stock, sold)
}
