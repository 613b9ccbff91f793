package checkout_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/declaramei/express-api/internal/domain/checkout"
	"github.com/declaramei/express-api/internal/domain/enum"
	"github.com/declaramei/express-api/pkg/apperror"
)

func ptr(d decimal.Decimal) *decimal.Decimal {
	return &d
}

func TestCollector_Remaining(t *testing.T) {
	t.Parallel()

	c := checkout.NewCollector()
	total := dec("80")
	require.True(t, c.Remaining(total).Equal(total))

	_, err := c.AddPayment(enum.PaymentMethodPix, ptr(dec("30")), total)
	require.NoError(t, err)
	assert.True(t, c.Remaining(total).Equal(dec("50")))
	assert.False(t, c.CanFinalize(total))

	_, err = c.AddPayment(enum.PaymentMethodCash, nil, total)
	require.NoError(t, err)
	assert.True(t, c.Remaining(total).IsZero())
	assert.True(t, c.CanFinalize(total))

	// cart shrank after payment: still never negative
	assert.True(t, c.Remaining(dec("60")).IsZero())
}

func TestCollector_AddPayment_NothingLeft(t *testing.T) {
	t.Parallel()

	c := checkout.NewCollector()
	total := dec("50")
	_, err := c.AddPayment(enum.PaymentMethodPix, nil, total)
	require.NoError(t, err)

	before := c.Payments()
	_, err = c.AddPayment(enum.PaymentMethodCash, nil, total)
	require.ErrorIs(t, err, apperror.ErrInvalidPayment)
	assert.Equal(t, before, c.Payments())

	_, err = checkout.NewCollector().AddPayment(enum.PaymentMethodCash, nil, decimal.Zero)
	require.ErrorIs(t, err, apperror.ErrInvalidPayment)
}

func TestCollector_AddPayment_Validation(t *testing.T) {
	t.Parallel()

	due := time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC)
	client := uuid.New()

	for _, tt := range []struct {
		name    string
		setup   func(t *testing.T, c *checkout.Collector)
		method  enum.PaymentMethod
		amount  *decimal.Decimal
		wantErr error
	}{
		{
			name:    "on account without client",
			setup:   func(t *testing.T, c *checkout.Collector) { c.SetDueDate(&due) },
			method:  enum.PaymentMethodOnAccount,
			wantErr: apperror.ErrClientRequired,
		},
		{
			name:    "on account without due date",
			setup:   func(t *testing.T, c *checkout.Collector) { c.SetClient(&client) },
			method:  enum.PaymentMethodOnAccount,
			wantErr: apperror.ErrDueDateRequired,
		},
		{
			name: "on account with client and due date",
			setup: func(t *testing.T, c *checkout.Collector) {
				c.SetClient(&client)
				c.SetDueDate(&due)
			},
			method: enum.PaymentMethodOnAccount,
		},
		{
			name:    "amount above remaining",
			method:  enum.PaymentMethodPix,
			amount:  ptr(dec("100.01")),
			wantErr: apperror.ErrValidation,
		},
		{
			name:    "zero amount",
			method:  enum.PaymentMethodCash,
			amount:  ptr(decimal.Zero),
			wantErr: apperror.ErrValidation,
		},
		{
			name:    "unknown method",
			method:  "voucher",
			wantErr: apperror.ErrValidation,
		},
		{
			name: "duplicate method",
			setup: func(t *testing.T, c *checkout.Collector) {
				_, err := c.AddPayment(enum.PaymentMethodPix, ptr(dec("10")), dec("100"))
				require.NoError(t, err)
			},
			method:  enum.PaymentMethodPix,
			wantErr: apperror.ErrValidation,
		},
	} {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := checkout.NewCollector()
			if tt.setup != nil {
				tt.setup(t, c)
			}
			before := len(c.Payments())

			p, err := c.AddPayment(tt.method, tt.amount, dec("100"))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				require.Len(t, c.Payments(), before)
				return
			}
			require.NoError(t, err)
			assert.True(t, p.Amount.Equal(dec("100")))
			require.Len(t, c.Payments(), before+1)
		})
	}
}

func TestCollector_ChangeDue(t *testing.T) {
	t.Parallel()

	t.Run("cash with tendered above amount", func(t *testing.T) {
		t.Parallel()

		c := checkout.NewCollector()
		total := dec("50")
		_, err := c.AddPayment(enum.PaymentMethodCash, nil, total)
		require.NoError(t, err)
		require.NoError(t, c.SetTendered(ptr(dec("60"))))

		assert.True(t, c.ChangeDue(total).Equal(dec("10")))
	})

	t.Run("no tendered means exact cash", func(t *testing.T) {
		t.Parallel()

		c := checkout.NewCollector()
		_, err := c.AddPayment(enum.PaymentMethodCash, nil, dec("50"))
		require.NoError(t, err)

		assert.True(t, c.Tendered().Equal(dec("50")))
		assert.True(t, c.ChangeDue(dec("50")).IsZero())
	})

	t.Run("tendered below amount clamps to zero", func(t *testing.T) {
		t.Parallel()

		c := checkout.NewCollector()
		_, err := c.AddPayment(enum.PaymentMethodCash, nil, dec("50"))
		require.NoError(t, err)
		require.NoError(t, c.SetTendered(ptr(dec("20"))))

		assert.True(t, c.ChangeDue(dec("50")).IsZero())
	})

	t.Run("underpaid produces no change", func(t *testing.T) {
		t.Parallel()

		c := checkout.NewCollector()
		_, err := c.AddPayment(enum.PaymentMethodCash, ptr(dec("30")), dec("50"))
		require.NoError(t, err)
		require.NoError(t, c.SetTendered(ptr(dec("100"))))

		assert.True(t, c.ChangeDue(dec("50")).IsZero())
	})

	t.Run("overpaid without cash produces no change", func(t *testing.T) {
		t.Parallel()

		c := checkout.NewCollector()
		_, err := c.AddPayment(enum.PaymentMethodPix, nil, dec("50"))
		require.NoError(t, err)

		// cart shrank after the pix was taken
		assert.True(t, c.TotalPaid().GreaterThan(dec("40")))
		assert.True(t, c.ChangeDue(dec("40")).IsZero())
	})

	t.Run("split with pix", func(t *testing.T) {
		t.Parallel()

		c := checkout.NewCollector()
		total := dec("80")
		_, err := c.AddPayment(enum.PaymentMethodPix, ptr(dec("30")), total)
		require.NoError(t, err)
		_, err = c.AddPayment(enum.PaymentMethodCash, nil, total)
		require.NoError(t, err)
		require.NoError(t, c.SetTendered(ptr(dec("100"))))

		assert.True(t, c.ChangeDue(total).Equal(dec("50")))
	})
}

func TestCollector_RemovePayment(t *testing.T) {
	t.Parallel()

	client := uuid.New()
	due := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	total := dec("90")

	c := checkout.NewCollector()
	c.SetClient(&client)
	c.SetDueDate(&due)

	_, err := c.AddPayment(enum.PaymentMethodCash, ptr(dec("40")), total)
	require.NoError(t, err)
	require.NoError(t, c.SetTendered(ptr(dec("50"))))
	_, err = c.AddPayment(enum.PaymentMethodOnAccount, nil, total)
	require.NoError(t, err)

	removed, err := c.RemovePayment(0)
	require.NoError(t, err)
	assert.Equal(t, enum.PaymentMethodCash, removed.Method)
	assert.False(t, c.HasExplicitTendered())
	assert.NotNil(t, c.DueDate())

	removed, err = c.RemovePayment(0)
	require.NoError(t, err)
	assert.Equal(t, enum.PaymentMethodOnAccount, removed.Method)
	assert.Nil(t, c.DueDate())
	assert.NotNil(t, c.ClientID())

	_, err = c.RemovePayment(0)
	require.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestCollector_SetTendered(t *testing.T) {
	t.Parallel()

	c := checkout.NewCollector()
	require.ErrorIs(t, c.SetTendered(ptr(dec("-5"))), apperror.ErrValidation)
	assert.False(t, c.HasExplicitTendered())

	require.NoError(t, c.SetTendered(ptr(decimal.Zero)))
	assert.True(t, c.HasExplicitTendered())

	require.NoError(t, c.SetTendered(nil))
	assert.False(t, c.HasExplicitTendered())
}

func TestCollector_Reset(t *testing.T) {
	t.Parallel()

	client := uuid.New()
	c := checkout.NewCollector()
	c.SetClient(&client)
	_, err := c.AddPayment(enum.PaymentMethodPix, nil, dec("10"))
	require.NoError(t, err)

	c.Reset()
	assert.Empty(t, c.Payments())
	assert.Nil(t, c.ClientID())
	assert.True(t, c.TotalPaid().IsZero())
}

func TestCollector_Overpaid(t *testing.T) {
	t.Parallel()

	c := checkout.NewCollector()
	_, err := c.AddPayment(enum.PaymentMethodPix, nil, dec("50.00"))
	require.NoError(t, err)

	tests := []struct {
		total string
		want  bool
	}{
		{total: "50.00", want: false},
		{total: "60.00", want: false},
		{total: "49.999", want: false},
		{total: "49.99", want: true},
		{total: "25.00", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.total, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, c.Overpaid(dec(tt.total)))
		})
	}
}
