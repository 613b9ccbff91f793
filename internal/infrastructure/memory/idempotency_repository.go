package memory

import (
	"context"

	"github.com/google/uuid"

	"github.com/declaramei/express-api/internal/domain/entity"
	domainRepo "github.com/declaramei/express-api/internal/domain/repository"
	"github.com/declaramei/express-api/pkg/apperror"
)

type idempotencyRepository struct {
	s *Store
}

// NewIdempotencyRepository creates an idempotency repository over the store
func NewIdempotencyRepository(s *Store) domainRepo.IdempotencyRepository {
	return &idempotencyRepository{s: s}
}

func idempotencyKey(key, endpoint string) string {
	return endpoint + "\x00" + key
}

func (r *idempotencyRepository) GetByKey(ctx context.Context, key, endpoint string) (*entity.IdempotencyKey, error) {
	var found *entity.IdempotencyKey
	r.s.read(func(st *state) {
		if ikey, ok := st.idempotency[idempotencyKey(key, endpoint)]; ok {
			found = &ikey
		}
	})
	return found, nil
}

func (r *idempotencyRepository) Create(ctx context.Context, ikey *entity.IdempotencyKey) error {
	return r.s.write(ctx, func(st *state) error {
		k := idempotencyKey(ikey.Key, ikey.Endpoint)
		if existing, exists := st.idempotency[k]; exists && !r.s.now().After(existing.ExpiresAt) {
			return apperror.NewConflictError("Idempotency key already used")
		}
		if ikey.ID == uuid.Nil {
			ikey.ID = uuid.New()
		}
		ikey.CreatedAt = r.s.now()
		st.idempotency[k] = *ikey
		return nil
	})
}

func (r *idempotencyRepository) DeleteExpired(ctx context.Context) error {
	return r.s.write(ctx, func(st *state) error {
		now := r.s.now()
		for k, ikey := range st.idempotency {
			if now.After(ikey.ExpiresAt) {
				delete(st.idempotency, k)
			}
		}
		return nil
	})
}
