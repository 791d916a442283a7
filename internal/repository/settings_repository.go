package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/dcastano/cobranza-engine/internal/domain"
)

type settingsRepository struct {
	db *sqlx.DB
}

func NewSettingsRepository(db *sqlx.DB) SettingsRepository {
	return &settingsRepository{db: db}
}

func (r *settingsRepository) GetDigestSettings(ctx context.Context, workspaceID uuid.UUID) (*domain.DigestSettings, error) {
	query := `
		SELECT workspace_id, workspace_name, daily_enabled, weekly_enabled, recipients
		FROM digest_settings
		WHERE workspace_id = $1
	`

	var settings domain.DigestSettings
	err := r.db.GetContext(ctx, &settings, query, workspaceID)
	if err != nil {
		return nil, err
	}

	return &settings, nil
}

func (r *settingsRepository) ListWorkspaceIDs(ctx context.Context) ([]uuid.UUID, error) {
	query := `
		SELECT workspace_id
		FROM digest_settings
		ORDER BY workspace_id
	`

	var ids []uuid.UUID
	if err := r.db.SelectContext(ctx, &ids, query); err != nil {
		return nil, err
	}

	return ids, nil
}
