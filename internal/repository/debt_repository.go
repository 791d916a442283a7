package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/dcastano/cobranza-engine/internal/domain"
)

type debtRepository struct {
	db *sqlx.DB
}

func NewDebtRepository(db *sqlx.DB) DebtRepository {
	return &debtRepository{db: db}
}

func (r *debtRepository) Create(ctx context.Context, debt *domain.Debt) error {
	query := `
		INSERT INTO debts (id, workspace_id, person_id, direction, title, amount_original,
			has_interest, interest_rate_pct, interest_period, issued_at, due_date,
			min_suggested_payment, split_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err := r.db.ExecContext(ctx, query,
		debt.ID,
		debt.WorkspaceID,
		debt.PersonID,
		debt.Direction,
		debt.Title,
		debt.AmountOriginal,
		debt.HasInterest,
		debt.InterestRatePct,
		debt.InterestPeriod,
		debt.IssuedAt,
		debt.DueDate,
		debt.MinSuggestedPayment,
		debt.SplitCount,
		debt.CreatedAt,
		debt.UpdatedAt,
	)

	return err
}

func (r *debtRepository) GetByID(ctx context.Context, workspaceID, debtID uuid.UUID) (*domain.Debt, error) {
	query := `
		SELECT id, workspace_id, person_id, direction, title, amount_original,
			has_interest, interest_rate_pct, interest_period, issued_at, due_date,
			min_suggested_payment, split_count, deleted_at, created_at, updated_at
		FROM debts
		WHERE workspace_id = $1 AND id = $2 AND deleted_at IS NULL
	`

	var debt domain.Debt
	err := r.db.GetContext(ctx, &debt, query, workspaceID, debtID)
	if err != nil {
		return nil, err
	}

	return &debt, nil
}

func (r *debtRepository) ListOpenByWorkspace(ctx context.Context, workspaceID uuid.UUID, direction string) ([]*domain.Debt, error) {
	query := `
		SELECT id, workspace_id, person_id, direction, title, amount_original,
			has_interest, interest_rate_pct, interest_period, issued_at, due_date,
			min_suggested_payment, split_count, deleted_at, created_at, updated_at
		FROM debts
		WHERE workspace_id = $1 AND deleted_at IS NULL
			AND ($2 = '' OR direction = $2)
		ORDER BY created_at
	`

	var debts []*domain.Debt
	err := r.db.SelectContext(ctx, &debts, query, workspaceID, direction)
	if err != nil {
		return nil, err
	}

	return debts, nil
}

func (r *debtRepository) Update(ctx context.Context, debt *domain.Debt) error {
	query := `
		UPDATE debts
		SET title = $3, amount_original = $4, has_interest = $5, interest_rate_pct = $6,
			due_date = $7, min_suggested_payment = $8, split_count = $9, updated_at = $10
		WHERE workspace_id = $1 AND id = $2 AND deleted_at IS NULL
	`

	_, err := r.db.ExecContext(ctx, query,
		debt.WorkspaceID,
		debt.ID,
		debt.Title,
		debt.AmountOriginal,
		debt.HasInterest,
		debt.InterestRatePct,
		debt.DueDate,
		debt.MinSuggestedPayment,
		debt.SplitCount,
		time.Now(),
	)

	return err
}

func (r *debtRepository) SoftDelete(ctx context.Context, workspaceID, debtID uuid.UUID) error {
	query := `
		UPDATE debts
		SET deleted_at = $3, updated_at = $3
		WHERE workspace_id = $1 AND id = $2 AND deleted_at IS NULL
	`

	_, err := r.db.ExecContext(ctx, query, workspaceID, debtID, time.Now())
	return err
}
