package memory

import (
	"context"
	"slices"
	"sort"

	"github.com/google/uuid"

	"github.com/declaramei/express-api/internal/domain/entity"
	domainRepo "github.com/declaramei/express-api/internal/domain/repository"
	"github.com/declaramei/express-api/pkg/apperror"
	"github.com/declaramei/express-api/pkg/pagination"
)

type saleRepository struct {
	s *Store
}

// NewSaleRepository creates a sale repository over the store
func NewSaleRepository(s *Store) domainRepo.SaleRepository {
	return &saleRepository{s: s}
}

func (r *saleRepository) Create(ctx context.Context, sale *entity.Sale) error {
	return r.s.write(ctx, func(st *state) error {
		if sale.ID == uuid.Nil {
			sale.ID = uuid.New()
		}
		if _, exists := st.sales[sale.ID]; exists {
			return apperror.NewConflictError("Sale already exists")
		}
		for i := range sale.Lines {
			if sale.Lines[i].ID == uuid.Nil {
				sale.Lines[i].ID = uuid.New()
			}
			sale.Lines[i].SaleID = sale.ID
		}
		for i := range sale.Payments {
			if sale.Payments[i].ID == uuid.Nil {
				sale.Payments[i].ID = uuid.New()
			}
			sale.Payments[i].SaleID = sale.ID
		}
		if sale.CreatedAt.IsZero() {
			sale.CreatedAt = r.s.now()
		}

		stored := *sale
		stored.Customer = nil
		stored.Lines = slices.Clone(sale.Lines)
		stored.Payments = slices.Clone(sale.Payments)
		st.sales[sale.ID] = stored
		return nil
	})
}

// load copies a stored sale and attaches its customer. Callers hold the read lock.
func loadSale(st *state, sale entity.Sale) entity.Sale {
	sale.Lines = slices.Clone(sale.Lines)
	sale.Payments = slices.Clone(sale.Payments)
	if sale.CustomerID != nil {
		if c, ok := st.customers[*sale.CustomerID]; ok {
			sale.Customer = &c
		}
	}
	return sale
}

func (r *saleRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	var found *entity.Sale
	r.s.read(func(st *state) {
		if sale, ok := st.sales[id]; ok {
			loaded := loadSale(st, sale)
			found = &loaded
		}
	})
	return found, nil
}

func (r *saleRepository) List(ctx context.Context, params *domainRepo.SaleFilterParams) ([]entity.Sale, int64, error) {
	var sales []entity.Sale
	r.s.read(func(st *state) {
		for _, sale := range st.sales {
			if params.CashSessionID != nil && sale.CashSessionID != *params.CashSessionID {
				continue
			}
			if params.CustomerID != nil && (sale.CustomerID == nil || *sale.CustomerID != *params.CustomerID) {
				continue
			}
			if params.StartDate != nil && sale.Date.Before(*params.StartDate) {
				continue
			}
			if params.EndDate != nil && sale.Date.After(*params.EndDate) {
				continue
			}
			sales = append(sales, loadSale(st, sale))
		}
	})

	sort.Slice(sales, func(i, j int) bool { return sales[i].Date.After(sales[j].Date) })
	return pagination.Window(sales, params.Pagination), int64(len(sales)), nil
}
