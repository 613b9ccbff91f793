package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/declaramei/express-api/internal/domain/entity"
	"github.com/declaramei/express-api/internal/domain/enum"
	domainRepo "github.com/declaramei/express-api/internal/domain/repository"
)

type cashSessionRepository struct {
	db *gorm.DB
}

// NewCashSessionRepository creates a new cash session repository
func NewCashSessionRepository(db *gorm.DB) domainRepo.CashSessionRepository {
	return &cashSessionRepository{db: db}
}

func (r *cashSessionRepository) Create(ctx context.Context, session *entity.CashSession) error {
	return conn(ctx, r.db).Create(session).Error
}

func preloadTransactions(db *gorm.DB) *gorm.DB {
	return db.Preload("Transactions", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at ASC")
	})
}

func (r *cashSessionRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.CashSession, error) {
	var session entity.CashSession
	err := conn(ctx, r.db).
		Scopes(preloadTransactions).
		First(&session, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &session, err
}

// GetForUpdate takes a row lock (SELECT ... FOR UPDATE) so concurrent postings
// and the closing count see the same ledger
func (r *cashSessionRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*entity.CashSession, error) {
	var session entity.CashSession
	err := conn(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&session, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	err = conn(ctx, r.db).
		Where("cash_session_id = ?", id).
		Order("created_at ASC").
		Find(&session.Transactions).Error
	return &session, err
}

func (r *cashSessionRepository) GetOpen(ctx context.Context) (*entity.CashSession, error) {
	var session entity.CashSession
	err := conn(ctx, r.db).
		Scopes(preloadTransactions).
		Where("status = ?", enum.CashSessionOpen).
		Order("opened_at DESC").
		First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &session, err
}

func (r *cashSessionRepository) AppendTransaction(ctx context.Context, tx *entity.CashTransaction) error {
	return conn(ctx, r.db).Create(tx).Error
}

func (r *cashSessionRepository) Update(ctx context.Context, session *entity.CashSession) error {
	return conn(ctx, r.db).Model(&entity.CashSession{}).
		Where("id = ?", session.ID).
		Updates(map[string]interface{}{
			"status":           session.Status,
			"closed_at":        session.ClosedAt,
			"closing_balance":  session.ClosingBalance,
			"expected_balance": session.ExpectedBalance,
			"difference":       session.Difference,
		}).Error
}

func (r *cashSessionRepository) List(ctx context.Context, params *domainRepo.CashSessionFilterParams) ([]entity.CashSession, int64, error) {
	var sessions []entity.CashSession
	var total int64

	query := conn(ctx, r.db).Model(&entity.CashSession{})
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Scopes(PageScope(params.Pagination)).
		Order("opened_at DESC").
		Find(&sessions).Error

	return sessions, total, err
}
