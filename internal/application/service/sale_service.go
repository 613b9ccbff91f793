package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/declaramei/express-api/internal/domain/entity"
	"github.com/declaramei/express-api/internal/domain/repository"
	"github.com/declaramei/express-api/pkg/apperror"
	"github.com/declaramei/express-api/pkg/pagination"
)

// SaleService reads the sales history
type SaleService struct {
	saleRepo repository.SaleRepository
}

// NewSaleService creates a new sale service
func NewSaleService(saleRepo repository.SaleRepository) *SaleService {
	return &SaleService{saleRepo: saleRepo}
}

// GetSale retrieves a sale with its lines and payments
func (s *SaleService) GetSale(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	sale, err := s.saleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, apperror.NewNotFoundError("Sale")
	}
	return sale, nil
}

// SaleFilter narrows the sales history
type SaleFilter struct {
	CashSessionID *uuid.UUID
	CustomerID    *uuid.UUID
	StartDate     *time.Time
	EndDate       *time.Time
}

// ListSales lists sales newest first
func (s *SaleService) ListSales(ctx context.Context, params *pagination.PaginationParams, filter SaleFilter) (*pagination.PaginatedResult[entity.Sale], error) {
	sales, total, err := s.saleRepo.List(ctx, &repository.SaleFilterParams{
		Pagination:    params,
		CashSessionID: filter.CashSessionID,
		CustomerID:    filter.CustomerID,
		StartDate:     filter.StartDate,
		EndDate:       filter.EndDate,
	})
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(sales, pag), nil
}
