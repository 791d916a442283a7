package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/dcastano/cobranza-engine/internal/domain"
)

type promiseRepository struct {
	db *sqlx.DB
}

func NewPromiseRepository(db *sqlx.DB) PromiseRepository {
	return &promiseRepository{db: db}
}

func (r *promiseRepository) Create(ctx context.Context, promise *domain.Promise) error {
	query := `
		INSERT INTO promises (id, debt_id, promised_date, note, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.ExecContext(ctx, query,
		promise.ID,
		promise.DebtID,
		promise.PromisedDate,
		promise.Note,
		promise.CreatedAt,
	)

	return err
}

func (r *promiseRepository) ListByDebtIDs(ctx context.Context, debtIDs []uuid.UUID) ([]*domain.Promise, error) {
	if len(debtIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT id, debt_id, promised_date, note, created_at
		FROM promises
		WHERE debt_id = ANY($1)
		ORDER BY created_at DESC
	`

	ids := make([]string, 0, len(debtIDs))
	for _, id := range debtIDs {
		ids = append(ids, id.String())
	}

	var promises []*domain.Promise
	if err := r.db.SelectContext(ctx, &promises, query, pq.Array(ids)); err != nil {
		return nil, err
	}

	return promises, nil
}
