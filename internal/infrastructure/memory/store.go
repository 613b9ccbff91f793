// Package memory is the in-process storage backend. All repositories share a
// Store; Store.Transaction serializes writers and restores a snapshot of every
// collection when the unit of work fails.
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/declaramei/express-api/internal/domain/entity"
	domainRepo "github.com/declaramei/express-api/internal/domain/repository"
	"github.com/declaramei/express-api/internal/infrastructure/fixtures"
)

type state struct {
	products    map[uuid.UUID]entity.Product
	services    map[uuid.UUID]entity.Service
	customers   map[uuid.UUID]entity.Customer
	sales       map[uuid.UUID]entity.Sale
	sessions    map[uuid.UUID]entity.CashSession
	receivables map[uuid.UUID]entity.AccountReceivable
	idempotency map[string]entity.IdempotencyKey
}

func newState() *state {
	return &state{
		products:    make(map[uuid.UUID]entity.Product),
		services:    make(map[uuid.UUID]entity.Service),
		customers:   make(map[uuid.UUID]entity.Customer),
		sales:       make(map[uuid.UUID]entity.Sale),
		sessions:    make(map[uuid.UUID]entity.CashSession),
		receivables: make(map[uuid.UUID]entity.AccountReceivable),
		idempotency: make(map[string]entity.IdempotencyKey),
	}
}

// clone copies every map. Stored values never share mutable slices with the
// live state because writers always replace slices instead of appending in place.
func (st *state) clone() *state {
	return &state{
		products:    cloneMap(st.products),
		services:    cloneMap(st.services),
		customers:   cloneMap(st.customers),
		sales:       cloneMap(st.sales),
		sessions:    cloneMap(st.sessions),
		receivables: cloneMap(st.receivables),
		idempotency: cloneMap(st.idempotency),
	}
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

type txKey struct{}

func inTx(ctx context.Context) bool {
	v, _ := ctx.Value(txKey{}).(bool)
	return v
}

// Store holds every collection of the memory backend
type Store struct {
	txMu sync.Mutex
	mu   sync.RWMutex
	data *state
	now  func() time.Time
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		data: newState(),
		now:  time.Now,
	}
}

// NewTransactor exposes the store's transactions to the services
func NewTransactor(s *Store) domainRepo.Transactor {
	return s
}

// Transaction runs fn with exclusive write access. A nested call joins the
// outer unit of work. If fn fails or panics the store is rolled back.
func (s *Store) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if inTx(ctx) {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	snapshot := s.data.clone()
	s.mu.RUnlock()

	committed := false
	defer func() {
		if !committed {
			s.mu.Lock()
			s.data = snapshot
			s.mu.Unlock()
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		return err
	}
	committed = true
	return nil
}

// write applies fn under the write lock. Outside a transaction it also takes
// the transaction lock so it cannot interleave with a unit of work.
func (s *Store) write(ctx context.Context, fn func(st *state) error) error {
	if !inTx(ctx) {
		s.txMu.Lock()
		defer s.txMu.Unlock()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.data)
}

func (s *Store) read(fn func(st *state)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.data)
}

// SeedFixtures loads the sample catalog and client registry
func (s *Store) SeedFixtures() {
	_ = s.write(context.Background(), func(st *state) error {
		now := s.now()
		for _, p := range fixtures.Products() {
			p.CreatedAt, p.UpdatedAt = now, now
			st.products[p.ID] = p
		}
		for _, sv := range fixtures.Services() {
			sv.CreatedAt, sv.UpdatedAt = now, now
			st.services[sv.ID] = sv
		}
		for _, c := range fixtures.Customers() {
			c.CreatedAt, c.UpdatedAt = now, now
			st.customers[c.ID] = c
		}
		return nil
	})
}

func matches(term string, fields ...string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
