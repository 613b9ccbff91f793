package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/declaramei/express-api/internal/domain/entity"
	"github.com/declaramei/express-api/internal/domain/enum"
	"github.com/declaramei/express-api/internal/domain/repository"
	"github.com/declaramei/express-api/pkg/apperror"
	"github.com/declaramei/express-api/pkg/pagination"
)

// ReceivableService handles collection of on-account sales
type ReceivableService struct {
	receivableRepo repository.ReceivableRepository
	tx             repository.Transactor
}

// NewReceivableService creates a new receivable service
func NewReceivableService(receivableRepo repository.ReceivableRepository, tx repository.Transactor) *ReceivableService {
	return &ReceivableService{
		receivableRepo: receivableRepo,
		tx:             tx,
	}
}

// GetReceivable retrieves a receivable by ID
func (s *ReceivableService) GetReceivable(ctx context.Context, id uuid.UUID) (*entity.AccountReceivable, error) {
	receivable, err := s.receivableRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if receivable == nil {
		return nil, apperror.NewNotFoundError("Receivable")
	}
	receivable.Overdue = receivable.IsOverdue(time.Now())
	return receivable, nil
}

// ListReceivables lists receivables by due date, optionally filtered by status and customer
func (s *ReceivableService) ListReceivables(ctx context.Context, params *pagination.PaginationParams, status *enum.ReceivableStatus, customerID *uuid.UUID) (*pagination.PaginatedResult[entity.AccountReceivable], error) {
	receivables, total, err := s.receivableRepo.List(ctx, &repository.ReceivableFilterParams{
		Pagination: params,
		Status:     status,
		CustomerID: customerID,
	})
	if err != nil {
		return nil, err
	}

	now := time.Now()
	for i := range receivables {
		receivables[i].Overdue = receivables[i].IsOverdue(now)
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(receivables, pag), nil
}

// MarkPaid settles a pending receivable
func (s *ReceivableService) MarkPaid(ctx context.Context, id uuid.UUID) (*entity.AccountReceivable, error) {
	var paid *entity.AccountReceivable
	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		receivable, err := s.GetReceivable(ctx, id)
		if err != nil {
			return err
		}
		if err := receivable.MarkPaid(time.Now()); err != nil {
			return err
		}
		if err := s.receivableRepo.Update(ctx, receivable); err != nil {
			return err
		}
		paid = receivable
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "receivable paid",
		"receivable_id", paid.ID,
		"sale_id", paid.SaleID,
		"amount", paid.Amount.StringFixed(2))
	return paid, nil
}
