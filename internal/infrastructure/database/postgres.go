package database

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/declaramei/express-api/internal/config"
	"github.com/declaramei/express-api/internal/domain/entity"
	"github.com/declaramei/express-api/internal/infrastructure/fixtures"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	logLevel := logger.Warn
	if cfg.Debug {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)

	slog.Info("connected to PostgreSQL", "host", cfg.Host, "database", cfg.Name)
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	slog.Info("running database migrations")

	err := db.AutoMigrate(
		// Catalog and client registry
		&entity.Product{},
		&entity.Service{},
		&entity.Customer{},

		// Cash drawer
		&entity.CashSession{},
		&entity.CashTransaction{},

		// Sales
		&entity.Sale{},
		&entity.SaleLine{},
		&entity.SalePayment{},
		&entity.AccountReceivable{},

		// System entities
		&entity.IdempotencyKey{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	slog.Info("database migrations completed")
	return nil
}

// SeedFixtures inserts the sample catalog and clients that are not stored yet
func SeedFixtures(db *gorm.DB) error {
	products := fixtures.Products()
	for i := range products {
		if err := db.Where("id = ?", products[i].ID).FirstOrCreate(&products[i]).Error; err != nil {
			return fmt.Errorf("failed to seed product %s: %w", products[i].SKU, err)
		}
	}

	services := fixtures.Services()
	for i := range services {
		if err := db.Where("id = ?", services[i].ID).FirstOrCreate(&services[i]).Error; err != nil {
			return fmt.Errorf("failed to seed service %s: %w", services[i].Name, err)
		}
	}

	customers := fixtures.Customers()
	for i := range customers {
		if err := db.Where("id = ?", customers[i].ID).FirstOrCreate(&customers[i]).Error; err != nil {
			return fmt.Errorf("failed to seed customer %s: %w", customers[i].Name, err)
		}
	}

	slog.Info("fixtures seeded",
		"products", len(products),
		"services", len(services),
		"customers", len(customers))
	return nil
}

// Pinger checks that the connection pool can reach the server
type Pinger struct {
	db *gorm.DB
}

// NewPinger creates a health pinger for db
func NewPinger(db *gorm.DB) *Pinger {
	return &Pinger{db: db}
}

// Ping round-trips to the database
func (p *Pinger) Ping(ctx context.Context) error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.PingContext(ctx)
}
