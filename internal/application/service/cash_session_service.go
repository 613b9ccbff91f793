package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/declaramei/express-api/internal/domain/entity"
	"github.com/declaramei/express-api/internal/domain/enum"
	"github.com/declaramei/express-api/internal/domain/repository"
	"github.com/declaramei/express-api/pkg/apperror"
	"github.com/declaramei/express-api/pkg/logger"
	"github.com/declaramei/express-api/pkg/pagination"
)

// CashSessionService owns the drawer lifecycle. The open session is held as
// an explicit reference: set by Open, cleared by Close, restored once by Restore.
type CashSessionService struct {
	sessionRepo repository.CashSessionRepository
	tx          repository.Transactor

	mu      sync.Mutex
	current uuid.UUID
	onClose []func(sessionID uuid.UUID)
}

// NewCashSessionService creates a new cash session service
func NewCashSessionService(sessionRepo repository.CashSessionRepository, tx repository.Transactor) *CashSessionService {
	return &CashSessionService{
		sessionRepo: sessionRepo,
		tx:          tx,
	}
}

// OnClose registers fn to run after a session is closed
func (s *CashSessionService) OnClose(fn func(sessionID uuid.UUID)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onClose = append(s.onClose, fn)
}

// Restore picks up a session left open by a previous run
func (s *CashSessionService) Restore(ctx context.Context) error {
	session, err := s.sessionRepo.GetOpen(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if session != nil {
		s.current = session.ID
		slog.InfoContext(ctx, "restored open cash session",
			"cash_session_id", session.ID,
			"operator", session.OperatorName)
	}
	return nil
}

// CurrentID returns the open session id, if any
func (s *CashSessionService) CurrentID() (uuid.UUID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current, s.current != uuid.Nil
}

// Open starts a new session. Only one session may be open at a time.
func (s *CashSessionService) Open(ctx context.Context, operatorName string, openingBalance decimal.Decimal) (*entity.CashSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != uuid.Nil {
		return nil, apperror.ErrCashSessionOpen
	}

	session, err := entity.OpenCashSession(operatorName, openingBalance, time.Now())
	if err != nil {
		return nil, err
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}
	s.current = session.ID

	slog.InfoContext(logger.WithSessionID(ctx, session.ID.String()), "cash session opened",
		"operator", session.OperatorName,
		"opening_balance", session.OpeningBalance.StringFixed(2))
	return session, nil
}

// Current returns the open session with its ledger
func (s *CashSessionService) Current(ctx context.Context) (*entity.CashSession, error) {
	id, ok := s.CurrentID()
	if !ok {
		return nil, apperror.ErrNoOpenCashSession
	}
	return s.Get(ctx, id)
}

// Get returns a session with its ledger
func (s *CashSessionService) Get(ctx context.Context, id uuid.UUID) (*entity.CashSession, error) {
	session, err := s.sessionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, apperror.NewNotFoundError("Cash session")
	}
	return session, nil
}

// Totals aggregates a session's ledger
func (s *CashSessionService) Totals(ctx context.Context, id uuid.UUID) (*entity.CashTotals, error) {
	session, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	totals := session.Totals()
	return &totals, nil
}

// List returns sessions newest first, optionally filtered by status
func (s *CashSessionService) List(ctx context.Context, params *pagination.PaginationParams, status *enum.CashSessionStatus) (*pagination.PaginatedResult[entity.CashSession], error) {
	sessions, total, err := s.sessionRepo.List(ctx, &repository.CashSessionFilterParams{
		Pagination: params,
		Status:     status,
	})
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(sessions, pag), nil
}

// MovementInput is a manual supply or withdrawal
type MovementInput struct {
	SessionID    uuid.UUID
	Type         enum.CashTransactionType
	Amount       decimal.Decimal
	Description  string
	OperatorName string
}

// PostMovement records a supply or withdrawal
func (s *CashSessionService) PostMovement(ctx context.Context, input *MovementInput) (*entity.CashTransaction, error) {
	if !input.Type.IsManual() {
		return nil, apperror.NewFieldError("type", "Only supply and withdrawal movements can be posted")
	}

	var posted entity.CashTransaction
	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		var err error
		posted, err = s.post(ctx, input.SessionID, entity.CashEntry{
			Type:         input.Type,
			Amount:       input.Amount,
			Description:  input.Description,
			OperatorName: input.OperatorName,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(logger.WithSessionID(ctx, input.SessionID.String()), "cash movement posted",
		"type", posted.Type,
		"amount", posted.Amount.StringFixed(2))
	return &posted, nil
}

// PostSale records the cash a sale left in the drawer. It must be called
// inside the finalizing transaction.
func (s *CashSessionService) PostSale(ctx context.Context, sessionID uuid.UUID, amount decimal.Decimal, saleID uuid.UUID, saleNumber string) (*entity.CashTransaction, error) {
	posted, err := s.post(ctx, sessionID, entity.CashEntry{
		Type:        enum.CashTransactionSale,
		Amount:      amount,
		Description: "Venda " + saleNumber,
		SaleID:      &saleID,
	})
	if err != nil {
		return nil, err
	}
	return &posted, nil
}

// EnsureOpen loads the session for update and fails unless it is open
func (s *CashSessionService) EnsureOpen(ctx context.Context, sessionID uuid.UUID) (*entity.CashSession, error) {
	session, err := s.sessionRepo.GetForUpdate(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, apperror.NewNotFoundError("Cash session")
	}
	if !session.IsOpen() {
		return nil, apperror.ErrCashSessionClosed
	}
	return session, nil
}

func (s *CashSessionService) post(ctx context.Context, sessionID uuid.UUID, entry entity.CashEntry) (entity.CashTransaction, error) {
	session, err := s.sessionRepo.GetForUpdate(ctx, sessionID)
	if err != nil {
		return entity.CashTransaction{}, err
	}
	if session == nil {
		return entity.CashTransaction{}, apperror.NewNotFoundError("Cash session")
	}

	posted, err := session.Record(entry, time.Now())
	if err != nil {
		return entity.CashTransaction{}, err
	}
	if err := s.sessionRepo.AppendTransaction(ctx, &posted); err != nil {
		return entity.CashTransaction{}, err
	}
	return posted, nil
}

// Close reconciles the counted cash and ends the session. Closing cannot be
// undone, so confirm must be set.
func (s *CashSessionService) Close(ctx context.Context, sessionID uuid.UUID, countedBalance decimal.Decimal, confirm bool) (*entity.CashSession, error) {
	if !confirm {
		return nil, apperror.ErrConfirmationRequired
	}

	session, hooks, err := s.close(ctx, sessionID, countedBalance)
	if err != nil {
		return nil, err
	}

	for _, fn := range hooks {
		fn(sessionID)
	}

	slog.InfoContext(logger.WithSessionID(ctx, sessionID.String()), "cash session closed",
		"expected", session.ExpectedBalance.StringFixed(2),
		"counted", session.ClosingBalance.StringFixed(2),
		"difference", session.Difference.StringFixed(2))
	return session, nil
}

func (s *CashSessionService) close(ctx context.Context, sessionID uuid.UUID, countedBalance decimal.Decimal) (*entity.CashSession, []func(uuid.UUID), error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var closed *entity.CashSession
	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		session, err := s.sessionRepo.GetForUpdate(ctx, sessionID)
		if err != nil {
			return err
		}
		if session == nil {
			return apperror.NewNotFoundError("Cash session")
		}
		if err := session.Close(countedBalance, time.Now()); err != nil {
			return err
		}
		if err := s.sessionRepo.Update(ctx, session); err != nil {
			return err
		}
		closed = session
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	if s.current == sessionID {
		s.current = uuid.Nil
	}
	return closed, append([]func(uuid.UUID){}, s.onClose...), nil
}
