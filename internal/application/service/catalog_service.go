package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/declaramei/express-api/internal/domain/entity"
	"github.com/declaramei/express-api/internal/domain/enum"
	"github.com/declaramei/express-api/internal/domain/repository"
	"github.com/declaramei/express-api/pkg/apperror"
	"github.com/declaramei/express-api/pkg/pagination"
)

// CatalogService handles product and service lookups
type CatalogService struct {
	productRepo repository.ProductRepository
	serviceRepo repository.ServiceRepository
}

// NewCatalogService creates a new catalog service
func NewCatalogService(productRepo repository.ProductRepository, serviceRepo repository.ServiceRepository) *CatalogService {
	return &CatalogService{
		productRepo: productRepo,
		serviceRepo: serviceRepo,
	}
}

// GetProduct retrieves a product by ID
func (s *CatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}

// ListProducts lists products by name or SKU, optionally only those at the stock alert
func (s *CatalogService) ListProducts(ctx context.Context, params *pagination.PaginationParams, search string, lowStock bool) (*pagination.PaginatedResult[entity.Product], error) {
	products, total, err := s.productRepo.List(ctx, &repository.ProductFilterParams{
		Pagination: params,
		Search:     search,
		LowStock:   lowStock,
	})
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(products, pag), nil
}

// GetService retrieves a service by ID
func (s *CatalogService) GetService(ctx context.Context, id uuid.UUID) (*entity.Service, error) {
	svc, err := s.serviceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if svc == nil {
		return nil, apperror.NewNotFoundError("Service")
	}
	return svc, nil
}

// ListServices lists services by name
func (s *CatalogService) ListServices(ctx context.Context, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.Service], error) {
	services, total, err := s.serviceRepo.List(ctx, params, search)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(services, pag), nil
}

// GetSellable resolves a cart item of either kind
func (s *CatalogService) GetSellable(ctx context.Context, kind enum.ItemKind, id uuid.UUID) (entity.SellableItem, error) {
	switch kind {
	case enum.ItemKindProduct:
		product, err := s.GetProduct(ctx, id)
		if err != nil {
			return entity.SellableItem{}, err
		}
		return product.Sellable(), nil
	case enum.ItemKindService:
		svc, err := s.GetService(ctx, id)
		if err != nil {
			return entity.SellableItem{}, err
		}
		return svc.Sellable(), nil
	default:
		return entity.SellableItem{}, apperror.NewFieldError("kind", "Kind must be product or service")
	}
}
