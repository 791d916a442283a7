package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/dcastano/cobranza-engine/internal/domain"
)

type templateRepository struct {
	db *sqlx.DB
}

func NewTemplateRepository(db *sqlx.DB) TemplateRepository {
	return &templateRepository{db: db}
}

func (r *templateRepository) Get(ctx context.Context, workspaceID uuid.UUID, channel, tone string) (*domain.MessageTemplate, error) {
	query := `
		SELECT id, workspace_id, channel, tone, title, body
		FROM message_templates
		WHERE workspace_id = $1 AND channel = $2 AND tone = $3
	`

	var tmpl domain.MessageTemplate
	err := r.db.GetContext(ctx, &tmpl, query, workspaceID, channel, tone)
	if err != nil {
		return nil, err
	}

	return &tmpl, nil
}
