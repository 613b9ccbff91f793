package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/declaramei/express-api/internal/domain/entity"
	domainRepo "github.com/declaramei/express-api/internal/domain/repository"
	"github.com/declaramei/express-api/pkg/apperror"
	"github.com/declaramei/express-api/pkg/pagination"
)

type receivableRepository struct {
	s *Store
}

// NewReceivableRepository creates an accounts receivable repository over the store
func NewReceivableRepository(s *Store) domainRepo.ReceivableRepository {
	return &receivableRepository{s: s}
}

func (r *receivableRepository) Create(ctx context.Context, receivable *entity.AccountReceivable) error {
	return r.s.write(ctx, func(st *state) error {
		for _, existing := range st.receivables {
			if existing.SaleID == receivable.SaleID {
				return apperror.NewConflictError("Sale already has a receivable")
			}
		}
		if receivable.ID == uuid.Nil {
			receivable.ID = uuid.New()
		}
		now := r.s.now()
		receivable.CreatedAt, receivable.UpdatedAt = now, now

		stored := *receivable
		stored.Customer = nil
		st.receivables[receivable.ID] = stored
		return nil
	})
}

func loadReceivable(st *state, receivable entity.AccountReceivable) entity.AccountReceivable {
	if c, ok := st.customers[receivable.CustomerID]; ok {
		receivable.Customer = &c
	}
	return receivable
}

func (r *receivableRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.AccountReceivable, error) {
	var found *entity.AccountReceivable
	r.s.read(func(st *state) {
		if receivable, ok := st.receivables[id]; ok {
			loaded := loadReceivable(st, receivable)
			found = &loaded
		}
	})
	return found, nil
}

func (r *receivableRepository) GetBySaleID(ctx context.Context, saleID uuid.UUID) (*entity.AccountReceivable, error) {
	var found *entity.AccountReceivable
	r.s.read(func(st *state) {
		for _, receivable := range st.receivables {
			if receivable.SaleID == saleID {
				loaded := loadReceivable(st, receivable)
				found = &loaded
				return
			}
		}
	})
	return found, nil
}

func (r *receivableRepository) Update(ctx context.Context, receivable *entity.AccountReceivable) error {
	return r.s.write(ctx, func(st *state) error {
		if _, ok := st.receivables[receivable.ID]; !ok {
			return apperror.NewNotFoundError("Receivable")
		}
		receivable.UpdatedAt = r.s.now()
		stored := *receivable
		stored.Customer = nil
		st.receivables[receivable.ID] = stored
		return nil
	})
}

func (r *receivableRepository) List(ctx context.Context, params *domainRepo.ReceivableFilterParams) ([]entity.AccountReceivable, int64, error) {
	var receivables []entity.AccountReceivable
	r.s.read(func(st *state) {
		for _, receivable := range st.receivables {
			if params.Status != nil && receivable.Status != *params.Status {
				continue
			}
			if params.CustomerID != nil && receivable.CustomerID != *params.CustomerID {
				continue
			}
			receivables = append(receivables, loadReceivable(st, receivable))
		}
	})

	sort.Slice(receivables, func(i, j int) bool { return receivables[i].DueDate.Before(receivables[j].DueDate) })
	return pagination.Window(receivables, params.Pagination), int64(len(receivables)), nil
}
