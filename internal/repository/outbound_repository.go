package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/dcastano/cobranza-engine/internal/domain"
)

type outboundRepository struct {
	db *sqlx.DB
}

func NewOutboundRepository(db *sqlx.DB) OutboundRepository {
	return &outboundRepository{db: db}
}

func (r *outboundRepository) Append(ctx context.Context, msg *domain.OutboundMessage) error {
	query := `
		INSERT INTO outbound_messages (id, workspace_id, recipient, digest_type, direction,
			status, reason, sent_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.ExecContext(ctx, query,
		msg.ID,
		msg.WorkspaceID,
		msg.Recipient,
		msg.DigestType,
		msg.Direction,
		msg.Status,
		msg.Reason,
		msg.SentAt,
		msg.CreatedAt,
	)

	return err
}

func (r *outboundRepository) ExistsSentInWindow(ctx context.Context, workspaceID uuid.UUID, recipient, digestType, direction string, from, to time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM outbound_messages
			WHERE workspace_id = $1 AND recipient = $2 AND digest_type = $3
				AND direction = $4 AND status = $5
				AND sent_at >= $6 AND sent_at < $7
		)
	`

	var exists bool
	err := r.db.GetContext(ctx, &exists, query,
		workspaceID, recipient, digestType, direction,
		domain.OutboundStatusSent, from, to,
	)
	if err != nil {
		return false, err
	}

	return exists, nil
}
