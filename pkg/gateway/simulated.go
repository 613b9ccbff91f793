package gateway

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Simulated approves every request after a fixed delay. With a decline
// threshold set, amounts above it are declined.
type Simulated struct {
	delay            time.Duration
	declineThreshold *decimal.Decimal
	now              func() time.Time
}

// NewSimulated creates a simulated authorizer
func NewSimulated(delay time.Duration, declineThreshold *decimal.Decimal) *Simulated {
	return &Simulated{
		delay:            delay,
		declineThreshold: declineThreshold,
		now:              time.Now,
	}
}

func (s *Simulated) Authorize(ctx context.Context, req Request) (Authorization, error) {
	if s.delay > 0 {
		timer := time.NewTimer(s.delay)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return Authorization{}, ctx.Err()
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return Authorization{}, err
	}

	if s.declineThreshold != nil && req.Amount.GreaterThan(*s.declineThreshold) {
		return Authorization{}, &DeclinedError{Message: "amount above limit"}
	}

	code := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return Authorization{Code: "SIM" + code, ApprovedAt: s.now()}, nil
}
