package entity_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/declaramei/express-api/internal/domain/entity"
	"github.com/declaramei/express-api/internal/domain/enum"
	"github.com/declaramei/express-api/pkg/apperror"
)

func TestAccountReceivable_IsOverdue(t *testing.T) {
	t.Parallel()

	due := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		status enum.ReceivableStatus
		now    time.Time
		want   bool
	}{
		{name: "before due date", status: enum.ReceivablePending, now: due.Add(-time.Hour), want: false},
		{name: "during the due day", status: enum.ReceivablePending, now: due.Add(20 * time.Hour), want: false},
		{name: "day after due date", status: enum.ReceivablePending, now: due.AddDate(0, 0, 1).Add(time.Minute), want: true},
		{name: "paid late", status: enum.ReceivablePaid, now: due.AddDate(0, 1, 0), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := &entity.AccountReceivable{DueDate: due, Status: tt.status}
			assert.Equal(t, tt.want, r.IsOverdue(tt.now))
		})
	}
}

func TestAccountReceivable_MarkPaid(t *testing.T) {
	t.Parallel()

	r := &entity.AccountReceivable{Status: enum.ReceivablePending, Overdue: true}
	paidAt := time.Date(2026, time.April, 1, 15, 0, 0, 0, time.UTC)

	require.NoError(t, r.MarkPaid(paidAt))
	assert.Equal(t, enum.ReceivablePaid, r.Status)
	require.NotNil(t, r.PaymentDate)
	assert.True(t, paidAt.Equal(*r.PaymentDate))
	assert.False(t, r.Overdue)

	require.ErrorIs(t, r.MarkPaid(paidAt.Add(time.Hour)), apperror.ErrAlreadyPaid)
	assert.True(t, paidAt.Equal(*r.PaymentDate), "a second payment keeps the first date")
}
