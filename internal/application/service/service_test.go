package service_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/declaramei/express-api/internal/application/service"
	"github.com/declaramei/express-api/internal/domain/entity"
	domainRepo "github.com/declaramei/express-api/internal/domain/repository"
	"github.com/declaramei/express-api/internal/infrastructure/memory"
	"github.com/declaramei/express-api/pkg/gateway"
	"github.com/declaramei/express-api/pkg/printer"
)

type mockAuthorizer struct {
	mock.Mock
}

func (m *mockAuthorizer) Authorize(ctx context.Context, req gateway.Request) (gateway.Authorization, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(gateway.Authorization), args.Error(1)
}

type harness struct {
	cash        *service.CashSessionService
	checkout    *service.CheckoutService
	sales       *service.SaleService
	receivables *service.ReceivableService
	printer     *service.PrinterService
	auth        *mockAuthorizer

	store       *memory.Store
	products    domainRepo.ProductRepository
	sessionRepo domainRepo.CashSessionRepository
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	store := memory.NewStore()
	store.SeedFixtures()

	tx := memory.NewTransactor(store)
	products := memory.NewProductRepository(store)
	customers := memory.NewCustomerRepository(store)
	sales := memory.NewSaleRepository(store)
	sessions := memory.NewCashSessionRepository(store)
	receivables := memory.NewReceivableRepository(store)
	auth := &mockAuthorizer{}

	catalog := service.NewCatalogService(products, memory.NewServiceRepository(store))
	cash := service.NewCashSessionService(sessions, tx)

	return &harness{
		cash:        cash,
		checkout:    service.NewCheckoutService(catalog, cash, customers, products, sales, receivables, auth, tx),
		sales:       service.NewSaleService(sales),
		receivables: service.NewReceivableService(receivables, tx),
		printer: service.NewPrinterService(printer.NewNullPrinter(), sales, receivables, sessions, service.PrinterOptions{
			Type:   printer.TypeNone,
			Width:  48,
			Header: entity.ReceiptHeader{StoreName: "Doces da Ana"},
		}),
		auth:        auth,
		store:       store,
		products:    products,
		sessionRepo: sessions,
	}
}

func (h *harness) open(t *testing.T, balance string) *entity.CashSession {
	t.Helper()

	session, err := h.cash.Open(context.Background(), "Maria", dec(balance))
	require.NoError(t, err)
	return session
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func ptr(d decimal.Decimal) *decimal.Decimal {
	return &d
}
