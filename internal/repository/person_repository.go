package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/dcastano/cobranza-engine/internal/domain"
)

type personRepository struct {
	db *sqlx.DB
}

func NewPersonRepository(db *sqlx.DB) PersonRepository {
	return &personRepository{db: db}
}

func (r *personRepository) GetByID(ctx context.Context, personID uuid.UUID) (*domain.Person, error) {
	query := `
		SELECT id, workspace_id, name, phone, email, priority, deleted_at, created_at
		FROM persons
		WHERE id = $1 AND deleted_at IS NULL
	`

	var person domain.Person
	err := r.db.GetContext(ctx, &person, query, personID)
	if err != nil {
		return nil, err
	}

	return &person, nil
}

func (r *personRepository) ListByIDs(ctx context.Context, personIDs []uuid.UUID) (map[uuid.UUID]*domain.Person, error) {
	persons := make(map[uuid.UUID]*domain.Person, len(personIDs))
	if len(personIDs) == 0 {
		return persons, nil
	}

	query := `
		SELECT id, workspace_id, name, phone, email, priority, deleted_at, created_at
		FROM persons
		WHERE id = ANY($1) AND deleted_at IS NULL
	`

	ids := make([]string, 0, len(personIDs))
	for _, id := range personIDs {
		ids = append(ids, id.String())
	}

	var rows []*domain.Person
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(ids)); err != nil {
		return nil, err
	}

	for _, p := range rows {
		persons[p.ID] = p
	}

	return persons, nil
}
