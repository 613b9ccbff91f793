package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/declaramei/express-api/internal/domain/checkout"
	"github.com/declaramei/express-api/internal/domain/entity"
	"github.com/declaramei/express-api/internal/domain/enum"
	"github.com/declaramei/express-api/internal/domain/repository"
	"github.com/declaramei/express-api/pkg/apperror"
	"github.com/declaramei/express-api/pkg/gateway"
	"github.com/declaramei/express-api/pkg/logger"
	"github.com/declaramei/express-api/pkg/utils"
)

// terminal is the sale being rung up against one open cash session.
type terminal struct {
	mu        sync.Mutex
	sessionID uuid.UUID
	cart      *checkout.Cart
	payments  *checkout.Collector

	// pending is set while a card authorization runs outside the mutex
	pending   bool
	discarded bool
}

// CheckoutService drives the sale in progress: cart edits, split payments and
// finalization. Each open cash session has exactly one terminal.
type CheckoutService struct {
	catalog        *CatalogService
	cash           *CashSessionService
	customerRepo   repository.CustomerRepository
	productRepo    repository.ProductRepository
	saleRepo       repository.SaleRepository
	receivableRepo repository.ReceivableRepository
	authorizer     gateway.Authorizer
	tx             repository.Transactor

	mu        sync.Mutex
	terminals map[uuid.UUID]*terminal
}

// NewCheckoutService creates a new checkout service. Closing a cash session
// discards the sale in progress on it.
func NewCheckoutService(
	catalog *CatalogService,
	cash *CashSessionService,
	customerRepo repository.CustomerRepository,
	productRepo repository.ProductRepository,
	saleRepo repository.SaleRepository,
	receivableRepo repository.ReceivableRepository,
	authorizer gateway.Authorizer,
	tx repository.Transactor,
) *CheckoutService {
	s := &CheckoutService{
		catalog:        catalog,
		cash:           cash,
		customerRepo:   customerRepo,
		productRepo:    productRepo,
		saleRepo:       saleRepo,
		receivableRepo: receivableRepo,
		authorizer:     authorizer,
		tx:             tx,
		terminals:      make(map[uuid.UUID]*terminal),
	}
	cash.OnClose(s.discard)
	return s
}

// CheckoutState is a snapshot of the sale in progress
type CheckoutState struct {
	CashSessionID  uuid.UUID          `json:"cash_session_id"`
	Lines          []checkout.Line    `json:"lines"`
	Subtotal       decimal.Decimal    `json:"subtotal"`
	Discount       decimal.Decimal    `json:"discount"`
	Total          decimal.Decimal    `json:"total"`
	Payments       []checkout.Payment `json:"payments"`
	TotalPaid      decimal.Decimal    `json:"total_paid"`
	Remaining      decimal.Decimal    `json:"remaining"`
	Tendered       decimal.Decimal    `json:"tendered"`
	ChangeDue      decimal.Decimal    `json:"change_due"`
	CustomerID     *uuid.UUID         `json:"customer_id,omitempty"`
	DueDate        *time.Time         `json:"due_date,omitempty"`
	CanFinalize    bool               `json:"can_finalize"`
	PaymentPending bool               `json:"payment_pending"`
}

func (t *terminal) state() *CheckoutState {
	total := t.cart.Total()
	return &CheckoutState{
		CashSessionID:  t.sessionID,
		Lines:          t.cart.Lines(),
		Subtotal:       t.cart.Subtotal(),
		Discount:       t.cart.Discount(),
		Total:          total,
		Payments:       t.payments.Payments(),
		TotalPaid:      t.payments.TotalPaid(),
		Remaining:      t.payments.Remaining(total),
		Tendered:       t.payments.Tendered(),
		ChangeDue:      t.payments.ChangeDue(total),
		CustomerID:     t.payments.ClientID(),
		DueDate:        t.payments.DueDate(),
		CanFinalize:    !t.cart.IsEmpty() && t.payments.CanFinalize(total),
		PaymentPending: t.pending,
	}
}

// lock returns the terminal of the open session, locked. The caller unlocks.
// The session is read under s.mu so a concurrent close either sees the new
// terminal in discard or leaves no session to create one for.
func (s *CheckoutService) lock() (*terminal, error) {
	s.mu.Lock()
	sessionID, ok := s.cash.CurrentID()
	if !ok {
		s.mu.Unlock()
		return nil, apperror.ErrNoOpenCashSession
	}

	t, ok := s.terminals[sessionID]
	if !ok {
		t = &terminal{
			sessionID: sessionID,
			cart:      checkout.NewCart(),
			payments:  checkout.NewCollector(),
		}
		s.terminals[sessionID] = t
	}
	s.mu.Unlock()

	t.mu.Lock()
	if t.discarded {
		t.mu.Unlock()
		return nil, apperror.ErrNoOpenCashSession
	}
	return t, nil
}

// lockIdle is lock, failing while a card authorization is pending
func (s *CheckoutService) lockIdle() (*terminal, error) {
	t, err := s.lock()
	if err != nil {
		return nil, err
	}
	if t.pending {
		t.mu.Unlock()
		return nil, apperror.ErrPaymentPending
	}
	return t, nil
}

func (s *CheckoutService) discard(sessionID uuid.UUID) {
	s.mu.Lock()
	t, ok := s.terminals[sessionID]
	delete(s.terminals, sessionID)
	s.mu.Unlock()
	if !ok {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.discarded = true
	t.cart.Clear()
	t.payments.Reset()
}

// State returns the sale in progress
func (s *CheckoutService) State(ctx context.Context) (*CheckoutState, error) {
	t, err := s.lock()
	if err != nil {
		return nil, err
	}
	defer t.mu.Unlock()
	return t.state(), nil
}

// AddItem adds one unit of a product or service to the cart. Stock is
// checked when the sale is finalized.
func (s *CheckoutService) AddItem(ctx context.Context, kind enum.ItemKind, id uuid.UUID) (*CheckoutState, error) {
	item, err := s.catalog.GetSellable(ctx, kind, id)
	if err != nil {
		return nil, err
	}

	t, err := s.lockIdle()
	if err != nil {
		return nil, err
	}
	defer t.mu.Unlock()

	t.cart.AddItem(item)
	return t.state(), nil
}

// SetQuantity changes a cart line; zero or less removes it
func (s *CheckoutService) SetQuantity(ctx context.Context, kind enum.ItemKind, id uuid.UUID, quantity int) (*CheckoutState, error) {
	if err := kind.Validate(); err != nil {
		return nil, apperror.NewFieldError("kind", err.Error())
	}

	t, err := s.lockIdle()
	if err != nil {
		return nil, err
	}
	defer t.mu.Unlock()

	total, err := t.cart.TotalAfter(kind, id, quantity)
	if err != nil {
		return nil, err
	}
	if t.payments.Overpaid(total) {
		return nil, apperror.NewFieldError("quantity", "Remove a payment before lowering the total below the amount paid")
	}
	if err := t.cart.SetQuantity(kind, id, quantity); err != nil {
		return nil, err
	}
	return t.state(), nil
}

// AddPayment collects a payment against the remaining balance. A nil amount
// pays the whole remaining balance. Card payments are authorized by the
// gateway first and only appended once approved.
func (s *CheckoutService) AddPayment(ctx context.Context, method enum.PaymentMethod, amount *decimal.Decimal) (*CheckoutState, error) {
	t, err := s.lockIdle()
	if err != nil {
		return nil, err
	}

	total := t.cart.Total()
	payment, err := t.payments.Prepare(method, amount, total)
	if err != nil {
		t.mu.Unlock()
		return nil, err
	}

	if !method.IsCard() {
		defer t.mu.Unlock()
		if err := t.payments.Append(payment, total); err != nil {
			return nil, err
		}
		return t.state(), nil
	}

	t.pending = true
	t.mu.Unlock()

	ctx = logger.WithSessionID(ctx, t.sessionID.String())
	auth, authErr := s.authorizer.Authorize(ctx, gateway.Request{
		Reference: uuid.NewString(),
		Method:    method.String(),
		Amount:    payment.Amount,
	})

	t.mu.Lock()
	defer t.mu.Unlock()
	t.pending = false

	if authErr != nil {
		var declined *gateway.DeclinedError
		if errors.As(authErr, &declined) {
			slog.InfoContext(ctx, "card payment declined",
				"method", method,
				"amount", payment.Amount.StringFixed(2),
				"reason", declined.Message)
			return nil, apperror.NewPaymentDeclinedError(declined.Message)
		}
		slog.ErrorContext(ctx, "card authorization failed", "method", method, "error", authErr)
		return nil, fmt.Errorf("card authorization: %w", authErr)
	}
	if t.discarded {
		slog.WarnContext(ctx, "card approved after the cash session closed",
			"authorization_code", auth.Code,
			"amount", payment.Amount.StringFixed(2))
		return nil, apperror.ErrCashSessionClosed
	}

	payment.AuthorizationCode = auth.Code
	if err := t.payments.Append(payment, total); err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "card payment approved",
		"method", method,
		"amount", payment.Amount.StringFixed(2),
		"authorization_code", auth.Code)
	return t.state(), nil
}

// RemovePayment drops a collected payment by position
func (s *CheckoutService) RemovePayment(ctx context.Context, index int) (*CheckoutState, error) {
	t, err := s.lockIdle()
	if err != nil {
		return nil, err
	}
	defer t.mu.Unlock()

	if _, err := t.payments.RemovePayment(index); err != nil {
		return nil, err
	}
	return t.state(), nil
}

// SetTendered records the cash handed over by the customer; nil clears it
func (s *CheckoutService) SetTendered(ctx context.Context, amount *decimal.Decimal) (*CheckoutState, error) {
	t, err := s.lockIdle()
	if err != nil {
		return nil, err
	}
	defer t.mu.Unlock()

	if err := t.payments.SetTendered(amount); err != nil {
		return nil, err
	}
	return t.state(), nil
}

// SetCustomer selects the customer of the sale; nil clears it
func (s *CheckoutService) SetCustomer(ctx context.Context, customerID *uuid.UUID) (*CheckoutState, error) {
	if customerID != nil {
		customer, err := s.customerRepo.GetByID(ctx, *customerID)
		if err != nil {
			return nil, err
		}
		if customer == nil {
			return nil, apperror.NewNotFoundError("Customer")
		}
	}

	t, err := s.lockIdle()
	if err != nil {
		return nil, err
	}
	defer t.mu.Unlock()

	if _, onAccount := t.payments.Payment(enum.PaymentMethodOnAccount); onAccount && customerID == nil {
		return nil, apperror.NewFieldError("customer_id", "Remove the on-account payment before clearing the customer")
	}
	t.payments.SetClient(customerID)
	return t.state(), nil
}

// SetDueDate selects the on-account due date; nil clears it
func (s *CheckoutService) SetDueDate(ctx context.Context, dueDate *time.Time) (*CheckoutState, error) {
	if dueDate != nil && dueDate.Before(startOfDay(time.Now())) {
		return nil, apperror.NewFieldError("due_date", "Due date must not be in the past")
	}

	t, err := s.lockIdle()
	if err != nil {
		return nil, err
	}
	defer t.mu.Unlock()

	if _, onAccount := t.payments.Payment(enum.PaymentMethodOnAccount); onAccount && dueDate == nil {
		return nil, apperror.NewFieldError("due_date", "Remove the on-account payment before clearing the due date")
	}
	t.payments.SetDueDate(dueDate)
	return t.state(), nil
}

// Cancel abandons the sale in progress
func (s *CheckoutService) Cancel(ctx context.Context, confirm bool) (*CheckoutState, error) {
	if !confirm {
		return nil, apperror.ErrConfirmationRequired
	}

	t, err := s.lockIdle()
	if err != nil {
		return nil, err
	}
	defer t.mu.Unlock()

	t.cart.Clear()
	t.payments.Reset()
	slog.InfoContext(logger.WithSessionID(ctx, t.sessionID.String()), "sale cancelled")
	return t.state(), nil
}

// FinalizeResult is the outcome of a finalized sale
type FinalizeResult struct {
	Sale       *entity.Sale              `json:"sale"`
	Receivable *entity.AccountReceivable `json:"receivable,omitempty"`
}

// Finalize turns the sale in progress into a Sale. Stock decrement, the
// drawer posting, the sale and its receivable commit together or not at all.
func (s *CheckoutService) Finalize(ctx context.Context) (*FinalizeResult, error) {
	t, err := s.lockIdle()
	if err != nil {
		return nil, err
	}
	defer t.mu.Unlock()

	if t.cart.IsEmpty() {
		return nil, apperror.ErrEmptyCart
	}
	total := t.cart.Total()
	if t.payments.Overpaid(total) {
		return nil, apperror.NewFieldError("payments", "Payments exceed the sale total")
	}
	if !t.payments.CanFinalize(total) {
		return nil, apperror.ErrPaymentIncomplete
	}

	cash, hasCash := t.payments.Payment(enum.PaymentMethodCash)
	if hasCash && t.payments.HasExplicitTendered() && t.payments.Tendered().LessThan(cash.Amount) {
		return nil, apperror.NewFieldError("tendered", "Tendered amount is less than the cash payment")
	}

	now := time.Now()
	sale := t.buildSale(now)

	var receivable *entity.AccountReceivable
	err = s.tx.Transaction(ctx, func(ctx context.Context) error {
		session, err := s.cash.EnsureOpen(ctx, t.sessionID)
		if err != nil {
			return err
		}
		sale.OperatorName = session.OperatorName

		quantities := t.cart.ProductQuantities()
		if err := s.checkStock(ctx, quantities); err != nil {
			return err
		}

		if hasCash && cash.Amount.IsPositive() {
			retained := decimal.Max(decimal.Zero, cash.Amount.Sub(sale.ChangeDue))
			if _, err := s.cash.PostSale(ctx, t.sessionID, retained, sale.ID, sale.Number); err != nil {
				return err
			}
		}

		if len(quantities) > 0 {
			failedIDs, err := s.productRepo.AtomicDecrementBatch(ctx, quantities)
			if err != nil {
				return err
			}
			if len(failedIDs) > 0 {
				return s.stockError(ctx, failedIDs)
			}
		}

		if err := s.saleRepo.Create(ctx, sale); err != nil {
			return err
		}

		if onAccount, ok := t.payments.Payment(enum.PaymentMethodOnAccount); ok {
			receivable = &entity.AccountReceivable{
				SaleID:     sale.ID,
				CustomerID: *t.payments.ClientID(),
				Amount:     onAccount.Amount,
				IssueDate:  sale.Date,
				DueDate:    *t.payments.DueDate(),
				Status:     enum.ReceivablePending,
			}
			if err := s.receivableRepo.Create(ctx, receivable); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	t.cart.Clear()
	t.payments.Reset()

	slog.InfoContext(logger.WithSessionID(ctx, t.sessionID.String()), "sale finalized",
		"sale_id", sale.ID,
		"number", sale.Number,
		"total", sale.Total.StringFixed(2),
		"change_due", sale.ChangeDue.StringFixed(2),
		"payments", len(sale.Payments))
	return &FinalizeResult{Sale: sale, Receivable: receivable}, nil
}

func (t *terminal) buildSale(now time.Time) *entity.Sale {
	total := t.cart.Total()
	id := uuid.New()

	sale := &entity.Sale{
		ID:            id,
		Number:        utils.SaleNumber(id),
		CashSessionID: t.sessionID,
		CustomerID:    t.payments.ClientID(),
		Date:          now,
		Subtotal:      t.cart.Subtotal(),
		Discount:      t.cart.Discount(),
		Total:         total,
		Tendered:      t.payments.Tendered(),
		ChangeDue:     t.payments.ChangeDue(total),
	}
	for _, line := range t.cart.Lines() {
		sale.Lines = append(sale.Lines, entity.SaleLine{
			ID:        uuid.New(),
			SaleID:    id,
			ItemKind:  line.Item.Kind,
			ItemID:    line.Item.ID,
			SKU:       line.Item.SKU,
			Name:      line.Item.Name,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			LineTotal: line.LineTotal,
		})
	}
	for _, p := range t.payments.Payments() {
		sale.Payments = append(sale.Payments, entity.SalePayment{
			ID:                uuid.New(),
			SaleID:            id,
			Method:            p.Method,
			Amount:            p.Amount,
			AuthorizationCode: p.AuthorizationCode,
		})
	}
	return sale
}

// checkStock fails with the names of every product whose stock cannot cover the cart
func (s *CheckoutService) checkStock(ctx context.Context, quantities map[uuid.UUID]int) error {
	if len(quantities) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, 0, len(quantities))
	for id := range quantities {
		ids = append(ids, id)
	}
	products, err := s.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return err
	}

	found := make(map[uuid.UUID]bool, len(products))
	var short []string
	for _, p := range products {
		found[p.ID] = true
		if p.Stock < quantities[p.ID] {
			short = append(short, p.Name)
		}
	}
	for _, id := range ids {
		if !found[id] {
			return apperror.NewNotFoundError("Product")
		}
	}
	if len(short) > 0 {
		slices.Sort(short)
		return apperror.NewInsufficientStockError(short...)
	}
	return nil
}

func (s *CheckoutService) stockError(ctx context.Context, failedIDs []uuid.UUID) error {
	products, err := s.productRepo.GetByIDs(ctx, failedIDs)
	if err != nil || len(products) == 0 {
		return apperror.ErrInsufficientStock
	}
	names := make([]string, len(products))
	for i, p := range products {
		names[i] = p.Name
	}
	slices.Sort(names)
	return apperror.NewInsufficientStockError(names...)
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
