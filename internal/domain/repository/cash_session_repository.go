package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/declaramei/express-api/internal/domain/entity"
	"github.com/declaramei/express-api/internal/domain/enum"
	"github.com/declaramei/express-api/pkg/pagination"
)

// CashSessionRepository defines the interface for cash session data operations
type CashSessionRepository interface {
	// Create stores the session together with its opening transaction
	Create(ctx context.Context, session *entity.CashSession) error
	// GetByID returns the session with its transactions in posting order
	GetByID(ctx context.Context, id uuid.UUID) (*entity.CashSession, error)
	// GetForUpdate is GetByID, locking the session row until the surrounding transaction ends
	GetForUpdate(ctx context.Context, id uuid.UUID) (*entity.CashSession, error)
	// GetOpen returns the open session, if any
	GetOpen(ctx context.Context) (*entity.CashSession, error)
	AppendTransaction(ctx context.Context, tx *entity.CashTransaction) error
	// Update persists the status and closing fields; transactions are untouched
	Update(ctx context.Context, session *entity.CashSession) error
	List(ctx context.Context, params *CashSessionFilterParams) ([]entity.CashSession, int64, error)
}

// CashSessionFilterParams contains filtering parameters for cash session queries
type CashSessionFilterParams struct {
	Pagination *pagination.PaginationParams
	Status     *enum.CashSessionStatus
}
