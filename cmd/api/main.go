package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/declaramei/express-api/internal/application/service"
	"github.com/declaramei/express-api/internal/config"
	"github.com/declaramei/express-api/internal/domain/entity"
	domainRepo "github.com/declaramei/express-api/internal/domain/repository"
	"github.com/declaramei/express-api/internal/infrastructure/database"
	"github.com/declaramei/express-api/internal/infrastructure/memory"
	"github.com/declaramei/express-api/internal/infrastructure/repository"
	"github.com/declaramei/express-api/internal/presentation/http/handler"
	"github.com/declaramei/express-api/internal/presentation/http/middleware"
	"github.com/declaramei/express-api/internal/presentation/http/routes"
	"github.com/declaramei/express-api/pkg/gateway"
	"github.com/declaramei/express-api/pkg/logger"
	"github.com/declaramei/express-api/pkg/printer"
)

// repositories is the storage backend chosen by configuration
type repositories struct {
	products    domainRepo.ProductRepository
	services    domainRepo.ServiceRepository
	customers   domainRepo.CustomerRepository
	sessions    domainRepo.CashSessionRepository
	sales       domainRepo.SaleRepository
	receivables domainRepo.ReceivableRepository
	idempotency domainRepo.IdempotencyRepository
	tx          domainRepo.Transactor
	pinger      handler.Pinger
}

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()

	if _, err := logger.New(cfg.Log.Level); err != nil {
		return fmt.Errorf("failed to configure logger: %w", err)
	}

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	repos, err := openStore(cfg)
	if err != nil {
		return err
	}

	authorizer, err := newAuthorizer(&cfg.Gateway)
	if err != nil {
		return err
	}

	thermalPrinter, err := printer.New(cfg.Printer.Type, cfg.Printer.USBPath, cfg.Printer.Address)
	if err != nil {
		slog.Warn("failed to initialize printer, printing disabled", "error", err)
		thermalPrinter = printer.NewNullPrinter()
	}
	defer thermalPrinter.Close()

	// Initialize services
	catalogService := service.NewCatalogService(repos.products, repos.services)
	customerService := service.NewCustomerService(repos.customers)
	cashService := service.NewCashSessionService(repos.sessions, repos.tx)
	checkoutService := service.NewCheckoutService(catalogService, cashService, repos.customers, repos.products, repos.sales, repos.receivables, authorizer, repos.tx)
	saleService := service.NewSaleService(repos.sales)
	receivableService := service.NewReceivableService(repos.receivables, repos.tx)
	printerService := service.NewPrinterService(thermalPrinter, repos.sales, repos.receivables, repos.sessions, service.PrinterOptions{
		Type:  cfg.Printer.Type,
		Width: cfg.Printer.Width,
		Header: entity.ReceiptHeader{
			StoreName: cfg.Printer.StoreName,
			Address:   cfg.Printer.StoreAddress,
			Phone:     cfg.Printer.StorePhone,
			CNPJ:      cfg.Printer.StoreCNPJ,
		},
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cashService.Restore(ctx); err != nil {
		return fmt.Errorf("failed to restore open cash session: %w", err)
	}

	rateLimiter := middleware.NewClientRateLimiter(middleware.RateLimiterConfigFrom(cfg.RateLimit))
	defer rateLimiter.Stop()

	handlers := &routes.Handlers{
		Health:      handler.NewHealthHandler(cfg.App.Name, cfg.Store.Driver, repos.pinger),
		Catalog:     handler.NewCatalogHandler(catalogService),
		Customer:    handler.NewCustomerHandler(customerService),
		CashSession: handler.NewCashSessionHandler(cashService),
		Checkout:    handler.NewCheckoutHandler(checkoutService),
		Sale:        handler.NewSaleHandler(saleService),
		Receivable:  handler.NewReceivableHandler(receivableService),
		Printer:     handler.NewPrinterHandler(printerService),
	}

	router := routes.Setup(handlers, &routes.Deps{
		Cfg:             cfg,
		IdempotencyRepo: repos.idempotency,
		RateLimiter:     rateLimiter,
	})

	go purgeIdempotencyKeys(ctx, repos.idempotency, time.Hour)

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting server", "name", cfg.App.Name, "port", port, "env", cfg.App.Env, "store", cfg.Store.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("failed to start server: %w", err)
	case <-ctx.Done():
	}

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

func openStore(cfg *config.Config) (*repositories, error) {
	switch cfg.Store.Driver {
	case "memory", "":
		store := memory.NewStore()
		if cfg.Store.Seed {
			store.SeedFixtures()
		}
		return &repositories{
			products:    memory.NewProductRepository(store),
			services:    memory.NewServiceRepository(store),
			customers:   memory.NewCustomerRepository(store),
			sessions:    memory.NewCashSessionRepository(store),
			sales:       memory.NewSaleRepository(store),
			receivables: memory.NewReceivableRepository(store),
			idempotency: memory.NewIdempotencyRepository(store),
			tx:          memory.NewTransactor(store),
		}, nil

	case "postgres":
		db, err := database.NewPostgresDB(&cfg.Database)
		if err != nil {
			return nil, err
		}
		if err := database.AutoMigrate(db); err != nil {
			return nil, err
		}
		if cfg.Store.Seed {
			if err := database.SeedFixtures(db); err != nil {
				slog.Warn("failed to seed fixtures", "error", err)
			}
		}
		return &repositories{
			products:    repository.NewProductRepository(db),
			services:    repository.NewServiceRepository(db),
			customers:   repository.NewCustomerRepository(db),
			sessions:    repository.NewCashSessionRepository(db),
			sales:       repository.NewSaleRepository(db),
			receivables: repository.NewReceivableRepository(db),
			idempotency: repository.NewIdempotencyRepository(db),
			tx:          repository.NewTransactor(db),
			pinger:      database.NewPinger(db),
		}, nil

	default:
		return nil, fmt.Errorf("unknown store driver %q (use memory or postgres)", cfg.Store.Driver)
	}
}

func newAuthorizer(cfg *config.GatewayConfig) (gateway.Authorizer, error) {
	switch cfg.Type {
	case "simulated", "":
		var threshold *decimal.Decimal
		if cfg.DeclineThreshold != "" {
			d, err := decimal.NewFromString(cfg.DeclineThreshold)
			if err != nil {
				return nil, fmt.Errorf("invalid GATEWAY_DECLINE_THRESHOLD: %w", err)
			}
			threshold = &d
		}
		return gateway.NewSimulated(cfg.Delay, threshold), nil

	case "http":
		if cfg.URL == "" {
			return nil, errors.New("GATEWAY_URL is required for the http gateway")
		}
		return gateway.NewHTTPClient(gateway.HTTPConfig{
			URL:      cfg.URL,
			APIKey:   cfg.APIKey,
			Timeout:  cfg.Timeout,
			RetryMax: cfg.RetryMax,
		}), nil

	default:
		return nil, fmt.Errorf("unknown gateway type %q (use simulated or http)", cfg.Type)
	}
}

func purgeIdempotencyKeys(ctx context.Context, repo domainRepo.IdempotencyRepository, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := repo.DeleteExpired(ctx); err != nil {
				slog.WarnContext(ctx, "failed to purge idempotency keys", "error", err)
			}
		}
	}
}
