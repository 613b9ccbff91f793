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

type productRepository struct {
	s *Store
}

// NewProductRepository creates a product repository over the store
func NewProductRepository(s *Store) domainRepo.ProductRepository {
	return &productRepository{s: s}
}

func (r *productRepository) Create(ctx context.Context, product *entity.Product) error {
	return r.s.write(ctx, func(st *state) error {
		if product.ID == uuid.Nil {
			product.ID = uuid.New()
		}
		for _, p := range st.products {
			if p.SKU == product.SKU {
				return apperror.NewConflictError("Product with SKU " + product.SKU + " already exists")
			}
		}
		now := r.s.now()
		product.CreatedAt, product.UpdatedAt = now, now
		st.products[product.ID] = *product
		return nil
	})
}

func (r *productRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	var found *entity.Product
	r.s.read(func(st *state) {
		if p, ok := st.products[id]; ok {
			found = &p
		}
	})
	return found, nil
}

func (r *productRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Product, error) {
	products := make([]entity.Product, 0, len(ids))
	r.s.read(func(st *state) {
		for _, id := range ids {
			if p, ok := st.products[id]; ok {
				products = append(products, p)
			}
		}
	})
	return products, nil
}

func (r *productRepository) List(ctx context.Context, params *domainRepo.ProductFilterParams) ([]entity.Product, int64, error) {
	var products []entity.Product
	r.s.read(func(st *state) {
		for _, p := range st.products {
			if !matches(params.Search, p.Name, p.SKU) {
				continue
			}
			if params.LowStock && !p.IsLowStock() {
				continue
			}
			products = append(products, p)
		}
	})

	sort.Slice(products, func(i, j int) bool { return products[i].Name < products[j].Name })

	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	return pagination.Window(products, params.Pagination), int64(len(products)), nil
}

// AtomicDecrementBatch checks every product before touching any of them
func (r *productRepository) AtomicDecrementBatch(ctx context.Context, decrements map[uuid.UUID]int) ([]uuid.UUID, error) {
	if len(decrements) == 0 {
		return nil, nil
	}

	var failedIDs []uuid.UUID
	err := r.s.write(ctx, func(st *state) error {
		for id, amount := range decrements {
			p, ok := st.products[id]
			if !ok || p.Stock < amount {
				failedIDs = append(failedIDs, id)
			}
		}
		if len(failedIDs) > 0 {
			return nil
		}

		now := r.s.now()
		for id, amount := range decrements {
			p := st.products[id]
			p.Stock -= amount
			p.UpdatedAt = now
			st.products[id] = p
		}
		return nil
	})
	return failedIDs, err
}

type serviceRepository struct {
	s *Store
}

// NewServiceRepository creates a service repository over the store
func NewServiceRepository(s *Store) domainRepo.ServiceRepository {
	return &serviceRepository{s: s}
}

func (r *serviceRepository) Create(ctx context.Context, service *entity.Service) error {
	return r.s.write(ctx, func(st *state) error {
		if service.ID == uuid.Nil {
			service.ID = uuid.New()
		}
		now := r.s.now()
		service.CreatedAt, service.UpdatedAt = now, now
		st.services[service.ID] = *service
		return nil
	})
}

func (r *serviceRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Service, error) {
	var found *entity.Service
	r.s.read(func(st *state) {
		if sv, ok := st.services[id]; ok {
			found = &sv
		}
	})
	return found, nil
}

func (r *serviceRepository) List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Service, int64, error) {
	var services []entity.Service
	r.s.read(func(st *state) {
		for _, sv := range st.services {
			if matches(search, sv.Name, deref(sv.Description)) {
				services = append(services, sv)
			}
		}
	})

	sort.Slice(services, func(i, j int) bool { return services[i].Name < services[j].Name })
	return pagination.Window(services, params), int64(len(services)), nil
}

type customerRepository struct {
	s *Store
}

// NewCustomerRepository creates a customer repository over the store
func NewCustomerRepository(s *Store) domainRepo.CustomerRepository {
	return &customerRepository{s: s}
}

func (r *customerRepository) Create(ctx context.Context, customer *entity.Customer) error {
	return r.s.write(ctx, func(st *state) error {
		if customer.ID == uuid.Nil {
			customer.ID = uuid.New()
		}
		now := r.s.now()
		customer.CreatedAt, customer.UpdatedAt = now, now
		st.customers[customer.ID] = *customer
		return nil
	})
}

func (r *customerRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	var found *entity.Customer
	r.s.read(func(st *state) {
		if c, ok := st.customers[id]; ok {
			found = &c
		}
	})
	return found, nil
}

func (r *customerRepository) List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Customer, int64, error) {
	var customers []entity.Customer
	r.s.read(func(st *state) {
		for _, c := range st.customers {
			if matches(search, c.Name, deref(c.Document), deref(c.Email), deref(c.Phone)) {
				customers = append(customers, c)
			}
		}
	})

	sort.Slice(customers, func(i, j int) bool { return customers[i].Name < customers[j].Name })
	return pagination.Window(customers, params), int64(len(customers)), nil
}
