package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/dcastano/cobranza-engine/internal/domain"
)

type paymentRepository struct {
	db *sqlx.DB
}

func NewPaymentRepository(db *sqlx.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	query := `
		INSERT INTO payments (id, debt_id, amount, paid_at, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(ctx, query,
		payment.ID,
		payment.DebtID,
		payment.Amount,
		payment.PaidAt,
		payment.Note,
		payment.CreatedAt,
	)

	return err
}

func (r *paymentRepository) ListByDebtID(ctx context.Context, debtID uuid.UUID) ([]*domain.Payment, error) {
	query := `
		SELECT id, debt_id, amount, paid_at, note, created_at
		FROM payments
		WHERE debt_id = $1
		ORDER BY paid_at
	`

	var payments []*domain.Payment
	err := r.db.SelectContext(ctx, &payments, query, debtID)
	if err != nil {
		return nil, err
	}

	return payments, nil
}

func (r *paymentRepository) SumByDebtIDs(ctx context.Context, debtIDs []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	sums := make(map[uuid.UUID]decimal.Decimal, len(debtIDs))
	if len(debtIDs) == 0 {
		return sums, nil
	}

	query := `
		SELECT debt_id, COALESCE(SUM(amount), 0) AS total
		FROM payments
		WHERE debt_id = ANY($1)
		GROUP BY debt_id
	`

	rows := []struct {
		DebtID uuid.UUID       `db:"debt_id"`
		Total  decimal.Decimal `db:"total"`
	}{}

	ids := make([]string, 0, len(debtIDs))
	for _, id := range debtIDs {
		ids = append(ids, id.String())
	}

	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(ids)); err != nil {
		return nil, err
	}

	for _, row := range rows {
		sums[row.DebtID] = row.Total
	}

	return sums, nil
}
