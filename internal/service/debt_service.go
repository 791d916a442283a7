package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/dcastano/cobranza-engine/internal/domain"
	"github.com/dcastano/cobranza-engine/internal/repository"
	customError "github.com/dcastano/cobranza-engine/pkg/errors"
)

// DebtService is the CRUD plumbing around the ledger calculator: it persists
// debts, payments and promises and merges computed figures onto every read.
type DebtService struct {
	DebtRepo    repository.DebtRepository
	PaymentRepo repository.PaymentRepository
	PromiseRepo repository.PromiseRepository
	PersonRepo  repository.PersonRepository
	logger      *logrus.Logger
}

func NewDebtService(
	debtRepo repository.DebtRepository,
	paymentRepo repository.PaymentRepository,
	promiseRepo repository.PromiseRepository,
	personRepo repository.PersonRepository,
	logger *logrus.Logger,
) *DebtService {
	return &DebtService{
		DebtRepo:    debtRepo,
		PaymentRepo: paymentRepo,
		PromiseRepo: promiseRepo,
		PersonRepo:  personRepo,
		logger:      logger,
	}
}

// CreateDebt validates and persists a new debt, returning it with computed
// figures.
func (s *DebtService) CreateDebt(ctx context.Context, workspaceID uuid.UUID, req *domain.CreateDebtRequest) (*domain.DebtResponse, error) {
	if req.AmountOriginal.IsNegative() || req.AmountOriginal.IsZero() {
		return nil, customError.WrapValidation("amount_original must be positive")
	}
	if req.SplitCount < 0 {
		return nil, customError.WrapValidation("split_count must not be negative")
	}
	if req.HasInterest && req.InterestRatePct != nil && req.InterestRatePct.IsNegative() {
		return nil, customError.WrapValidation("interest_rate_pct must not be negative")
	}

	if _, err := s.PersonRepo.GetByID(ctx, req.PersonID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapPersonNotFound(req.PersonID.String())
		}
		return nil, customError.WrapDatabaseError(err)
	}

	now := time.Now()
	issuedAt := now
	if req.IssuedAt != nil {
		issuedAt = *req.IssuedAt
	}
	interestPeriod := req.InterestPeriod
	if interestPeriod == "" {
		interestPeriod = domain.InterestPeriodMonthly
	}

	debt := &domain.Debt{
		ID:             uuid.New(),
		WorkspaceID:    workspaceID,
		PersonID:       req.PersonID,
		Direction:      req.Direction,
		Title:          req.Title,
		AmountOriginal: req.AmountOriginal,
		HasInterest:    req.HasInterest,
		InterestPeriod: interestPeriod,
		IssuedAt:       issuedAt,
		DueDate:        req.DueDate,
		SplitCount:     req.SplitCount,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if req.InterestRatePct != nil {
		debt.InterestRatePct = decimal.NewNullDecimal(*req.InterestRatePct)
	}
	if req.MinSuggestedPayment != nil {
		debt.MinSuggestedPayment = decimal.NewNullDecimal(*req.MinSuggestedPayment)
	}

	if err := s.DebtRepo.Create(ctx, debt); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	computed, err := ComputeDebt(debt, decimal.Zero, now)
	if err != nil {
		return nil, err
	}

	return &domain.DebtResponse{Debt: debt, Computed: computed}, nil
}

// GetDebt returns a debt with computed figures as of now.
func (s *DebtService) GetDebt(ctx context.Context, workspaceID, debtID uuid.UUID) (*domain.DebtResponse, error) {
	debt, err := s.DebtRepo.GetByID(ctx, workspaceID, debtID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapDebtNotFound(debtID.String())
		}
		return nil, customError.WrapDatabaseError(err)
	}

	sums, err := s.PaymentRepo.SumByDebtIDs(ctx, []uuid.UUID{debt.ID})
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	computed, err := ComputeDebt(debt, sums[debt.ID], time.Now())
	if err != nil {
		return nil, err
	}

	return &domain.DebtResponse{Debt: debt, Computed: computed}, nil
}

// ListDebts returns the workspace's open debts with computed figures merged
// onto each row.
func (s *DebtService) ListDebts(ctx context.Context, workspaceID uuid.UUID, direction string) ([]*domain.DebtResponse, error) {
	debts, err := s.DebtRepo.ListOpenByWorkspace(ctx, workspaceID, direction)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	ids := make([]uuid.UUID, 0, len(debts))
	for _, d := range debts {
		ids = append(ids, d.ID)
	}
	sums, err := s.PaymentRepo.SumByDebtIDs(ctx, ids)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	now := time.Now()
	responses := make([]*domain.DebtResponse, 0, len(debts))
	for _, debt := range debts {
		computed, err := ComputeDebt(debt, sums[debt.ID], now)
		if err != nil {
			s.logger.WithError(err).WithField("debt_id", debt.ID).Warn("skipping debt with invalid terms")
			continue
		}
		responses = append(responses, &domain.DebtResponse{Debt: debt, Computed: computed})
	}

	return responses, nil
}

// UpdateDebt amends a debt's terms. Accrued interest is not repriced; it is
// recomputed from issued_at on the next read like any other read.
func (s *DebtService) UpdateDebt(ctx context.Context, workspaceID, debtID uuid.UUID, req *domain.UpdateDebtRequest) (*domain.DebtResponse, error) {
	debt, err := s.DebtRepo.GetByID(ctx, workspaceID, debtID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapDebtNotFound(debtID.String())
		}
		return nil, customError.WrapDatabaseError(err)
	}

	if req.Title != nil {
		debt.Title = *req.Title
	}
	if req.AmountOriginal != nil {
		if req.AmountOriginal.IsNegative() || req.AmountOriginal.IsZero() {
			return nil, customError.WrapValidation("amount_original must be positive")
		}
		debt.AmountOriginal = *req.AmountOriginal
	}
	if req.HasInterest != nil {
		debt.HasInterest = *req.HasInterest
	}
	if req.InterestRatePct != nil {
		if req.InterestRatePct.IsNegative() {
			return nil, customError.WrapValidation("interest_rate_pct must not be negative")
		}
		debt.InterestRatePct = decimal.NewNullDecimal(*req.InterestRatePct)
	}
	if req.DueDate != nil {
		debt.DueDate = req.DueDate
	}
	if req.MinSuggestedPayment != nil {
		debt.MinSuggestedPayment = decimal.NewNullDecimal(*req.MinSuggestedPayment)
	}
	if req.SplitCount != nil {
		if *req.SplitCount < 0 {
			return nil, customError.WrapValidation("split_count must not be negative")
		}
		debt.SplitCount = *req.SplitCount
	}

	if err := s.DebtRepo.Update(ctx, debt); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return s.GetDebt(ctx, workspaceID, debtID)
}

// DeleteDebt soft-deletes a debt.
func (s *DebtService) DeleteDebt(ctx context.Context, workspaceID, debtID uuid.UUID) error {
	if _, err := s.DebtRepo.GetByID(ctx, workspaceID, debtID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return customError.WrapDebtNotFound(debtID.String())
		}
		return customError.WrapDatabaseError(err)
	}
	if err := s.DebtRepo.SoftDelete(ctx, workspaceID, debtID); err != nil {
		return customError.WrapDatabaseError(err)
	}
	return nil
}

// RecordPayment records a payment against a debt and returns the refreshed
// computed figures.
func (s *DebtService) RecordPayment(ctx context.Context, workspaceID, debtID uuid.UUID, req *domain.CreatePaymentRequest) (*domain.DebtResponse, error) {
	if req.Amount.IsNegative() || req.Amount.IsZero() {
		return nil, customError.WrapInvalidPayment("payment amount must be positive")
	}

	if _, err := s.DebtRepo.GetByID(ctx, workspaceID, debtID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapDebtNotFound(debtID.String())
		}
		return nil, customError.WrapDatabaseError(err)
	}

	now := time.Now()
	paidAt := now
	if req.PaidAt != nil {
		paidAt = *req.PaidAt
	}

	payment := &domain.Payment{
		ID:        uuid.New(),
		DebtID:    debtID,
		Amount:    req.Amount,
		PaidAt:    paidAt,
		Note:      req.Note,
		CreatedAt: now,
	}
	if err := s.PaymentRepo.Create(ctx, payment); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return s.GetDebt(ctx, workspaceID, debtID)
}

// ListPayments returns the recorded payments of a debt.
func (s *DebtService) ListPayments(ctx context.Context, workspaceID, debtID uuid.UUID) ([]*domain.Payment, error) {
	if _, err := s.DebtRepo.GetByID(ctx, workspaceID, debtID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapDebtNotFound(debtID.String())
		}
		return nil, customError.WrapDatabaseError(err)
	}

	payments, err := s.PaymentRepo.ListByDebtID(ctx, debtID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return payments, nil
}

// RecordPromise records a promise-to-pay against a debt.
func (s *DebtService) RecordPromise(ctx context.Context, workspaceID, debtID uuid.UUID, req *domain.CreatePromiseRequest) (*domain.Promise, error) {
	if _, err := s.DebtRepo.GetByID(ctx, workspaceID, debtID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapDebtNotFound(debtID.String())
		}
		return nil, customError.WrapDatabaseError(err)
	}

	promise := &domain.Promise{
		ID:           uuid.New(),
		DebtID:       debtID,
		PromisedDate: req.PromisedDate,
		Note:         req.Note,
		CreatedAt:    time.Now(),
	}
	if err := s.PromiseRepo.Create(ctx, promise); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return promise, nil
}
