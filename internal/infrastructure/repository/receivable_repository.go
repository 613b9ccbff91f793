package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/declaramei/express-api/internal/domain/entity"
	domainRepo "github.com/declaramei/express-api/internal/domain/repository"
)

type receivableRepository struct {
	db *gorm.DB
}

// NewReceivableRepository creates a new accounts receivable repository
func NewReceivableRepository(db *gorm.DB) domainRepo.ReceivableRepository {
	return &receivableRepository{db: db}
}

func (r *receivableRepository) Create(ctx context.Context, receivable *entity.AccountReceivable) error {
	return conn(ctx, r.db).Omit("Customer").Create(receivable).Error
}

func (r *receivableRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.AccountReceivable, error) {
	var receivable entity.AccountReceivable
	err := conn(ctx, r.db).
		Preload("Customer").
		First(&receivable, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &receivable, err
}

func (r *receivableRepository) GetBySaleID(ctx context.Context, saleID uuid.UUID) (*entity.AccountReceivable, error) {
	var receivable entity.AccountReceivable
	err := conn(ctx, r.db).
		Preload("Customer").
		First(&receivable, "sale_id = ?", saleID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &receivable, err
}

func (r *receivableRepository) Update(ctx context.Context, receivable *entity.AccountReceivable) error {
	return conn(ctx, r.db).Omit("Customer").Save(receivable).Error
}

func (r *receivableRepository) List(ctx context.Context, params *domainRepo.ReceivableFilterParams) ([]entity.AccountReceivable, int64, error) {
	var receivables []entity.AccountReceivable
	var total int64

	query := conn(ctx, r.db).Model(&entity.AccountReceivable{})
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.CustomerID != nil {
		query = query.Where("customer_id = ?", *params.CustomerID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Scopes(PageScope(params.Pagination)).
		Preload("Customer").
		Order("due_date ASC").
		Find(&receivables).Error

	return receivables, total, err
}
