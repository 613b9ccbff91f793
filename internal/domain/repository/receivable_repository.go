package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/declaramei/express-api/internal/domain/entity"
	"github.com/declaramei/express-api/internal/domain/enum"
	"github.com/declaramei/express-api/pkg/pagination"
)

// ReceivableRepository defines the interface for accounts receivable
type ReceivableRepository interface {
	Create(ctx context.Context, receivable *entity.AccountReceivable) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.AccountReceivable, error)
	GetBySaleID(ctx context.Context, saleID uuid.UUID) (*entity.AccountReceivable, error)
	Update(ctx context.Context, receivable *entity.AccountReceivable) error
	List(ctx context.Context, params *ReceivableFilterParams) ([]entity.AccountReceivable, int64, error)
}

// ReceivableFilterParams contains filtering parameters for receivable queries
type ReceivableFilterParams struct {
	Pagination *pagination.PaginationParams
	Status     *enum.ReceivableStatus
	CustomerID *uuid.UUID
}
