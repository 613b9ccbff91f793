package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/declaramei/express-api/internal/domain/entity"
	"github.com/declaramei/express-api/pkg/pagination"
)

// SaleRepository is the append-only sales history
type SaleRepository interface {
	// Create stores the sale with its lines and payments
	Create(ctx context.Context, sale *entity.Sale) error
	// GetByID returns the sale with lines, payments and customer
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Sale, error)
	List(ctx context.Context, params *SaleFilterParams) ([]entity.Sale, int64, error)
}

// SaleFilterParams contains filtering parameters for sale queries
type SaleFilterParams struct {
	Pagination    *pagination.PaginationParams
	CashSessionID *uuid.UUID
	CustomerID    *uuid.UUID
	StartDate     *time.Time
	EndDate       *time.Time
}
