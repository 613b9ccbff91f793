package memory

import (
	"context"
	"slices"
	"sort"

	"github.com/google/uuid"

	"github.com/declaramei/express-api/internal/domain/entity"
	"github.com/declaramei/express-api/internal/domain/enum"
	domainRepo "github.com/declaramei/express-api/internal/domain/repository"
	"github.com/declaramei/express-api/pkg/apperror"
	"github.com/declaramei/express-api/pkg/pagination"
)

type cashSessionRepository struct {
	s *Store
}

// NewCashSessionRepository creates a cash session repository over the store
func NewCashSessionRepository(s *Store) domainRepo.CashSessionRepository {
	return &cashSessionRepository{s: s}
}

func (r *cashSessionRepository) Create(ctx context.Context, session *entity.CashSession) error {
	return r.s.write(ctx, func(st *state) error {
		if session.ID == uuid.Nil {
			session.ID = uuid.New()
		}
		now := r.s.now()
		session.CreatedAt, session.UpdatedAt = now, now

		stored := *session
		stored.Transactions = slices.Clone(session.Transactions)
		st.sessions[session.ID] = stored
		return nil
	})
}

func (r *cashSessionRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.CashSession, error) {
	var found *entity.CashSession
	r.s.read(func(st *state) {
		if session, ok := st.sessions[id]; ok {
			session.Transactions = slices.Clone(session.Transactions)
			found = &session
		}
	})
	return found, nil
}

// GetForUpdate needs no lock here: writers are already serialized by the store
func (r *cashSessionRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*entity.CashSession, error) {
	return r.GetByID(ctx, id)
}

func (r *cashSessionRepository) GetOpen(ctx context.Context) (*entity.CashSession, error) {
	var found *entity.CashSession
	r.s.read(func(st *state) {
		for _, session := range st.sessions {
			if session.Status != enum.CashSessionOpen {
				continue
			}
			if found == nil || session.OpenedAt.After(found.OpenedAt) {
				s := session
				s.Transactions = slices.Clone(session.Transactions)
				found = &s
			}
		}
	})
	return found, nil
}

func (r *cashSessionRepository) AppendTransaction(ctx context.Context, tx *entity.CashTransaction) error {
	return r.s.write(ctx, func(st *state) error {
		session, ok := st.sessions[tx.CashSessionID]
		if !ok {
			return apperror.NewNotFoundError("Cash session")
		}
		if tx.ID == uuid.Nil {
			tx.ID = uuid.New()
		}
		// Clip forces a fresh backing array so snapshots keep their own ledger
		session.Transactions = append(slices.Clip(session.Transactions), *tx)
		session.UpdatedAt = r.s.now()
		st.sessions[session.ID] = session
		return nil
	})
}

func (r *cashSessionRepository) Update(ctx context.Context, session *entity.CashSession) error {
	return r.s.write(ctx, func(st *state) error {
		stored, ok := st.sessions[session.ID]
		if !ok {
			return apperror.NewNotFoundError("Cash session")
		}
		stored.Status = session.Status
		stored.ClosedAt = session.ClosedAt
		stored.ClosingBalance = session.ClosingBalance
		stored.ExpectedBalance = session.ExpectedBalance
		stored.Difference = session.Difference
		stored.UpdatedAt = r.s.now()
		st.sessions[session.ID] = stored
		return nil
	})
}

func (r *cashSessionRepository) List(ctx context.Context, params *domainRepo.CashSessionFilterParams) ([]entity.CashSession, int64, error) {
	var sessions []entity.CashSession
	r.s.read(func(st *state) {
		for _, session := range st.sessions {
			if params.Status != nil && session.Status != *params.Status {
				continue
			}
			session.Transactions = nil
			sessions = append(sessions, session)
		}
	})

	sort.Slice(sessions, func(i, j int) bool { return sessions[i].OpenedAt.After(sessions[j].OpenedAt) })
	return pagination.Window(sessions, params.Pagination), int64(len(sessions)), nil
}
