package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dcastano/cobranza-engine/internal/domain"
)

// DebtRepository defines the interface for debt data operations
type DebtRepository interface {
	// Create creates a new debt
	Create(ctx context.Context, debt *domain.Debt) error

	// GetByID retrieves a non-deleted debt by id within a workspace
	GetByID(ctx context.Context, workspaceID, debtID uuid.UUID) (*domain.Debt, error)

	// ListOpenByWorkspace lists non-deleted debts, optionally filtered by
	// direction (empty string means both directions)
	ListOpenByWorkspace(ctx context.Context, workspaceID uuid.UUID, direction string) ([]*domain.Debt, error)

	// Update updates a debt's amendable terms
	Update(ctx context.Context, debt *domain.Debt) error

	// SoftDelete marks a debt deleted
	SoftDelete(ctx context.Context, workspaceID, debtID uuid.UUID) error
}

// PaymentRepository defines the interface for payment data operations
type PaymentRepository interface {
	// Create creates a new payment record
	Create(ctx context.Context, payment *domain.Payment) error

	// ListByDebtID retrieves all payments for a debt
	ListByDebtID(ctx context.Context, debtID uuid.UUID) ([]*domain.Payment, error)

	// SumByDebtIDs returns the payments sum per debt id; debts with no
	// payments are absent from the map
	SumByDebtIDs(ctx context.Context, debtIDs []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error)
}

// PersonRepository defines the interface for person data operations
type PersonRepository interface {
	// GetByID retrieves a non-deleted person
	GetByID(ctx context.Context, personID uuid.UUID) (*domain.Person, error)

	// ListByIDs retrieves non-deleted persons keyed by id; soft-deleted
	// persons are absent from the map
	ListByIDs(ctx context.Context, personIDs []uuid.UUID) (map[uuid.UUID]*domain.Person, error)
}

// PromiseRepository defines the interface for promise-to-pay data operations
type PromiseRepository interface {
	// Create records a promise against a debt
	Create(ctx context.Context, promise *domain.Promise) error

	// ListByDebtIDs retrieves promises for a set of debts, most recently
	// created first
	ListByDebtIDs(ctx context.Context, debtIDs []uuid.UUID) ([]*domain.Promise, error)
}

// TemplateRepository defines the interface for message template lookups
type TemplateRepository interface {
	// Get retrieves the template for (workspace, channel, tone); returns
	// sql.ErrNoRows when no row exists, which callers resolve to fallback copy
	Get(ctx context.Context, workspaceID uuid.UUID, channel, tone string) (*domain.MessageTemplate, error)
}

// SettingsRepository defines the interface for digest settings
type SettingsRepository interface {
	// GetDigestSettings retrieves the digest settings row for a workspace;
	// returns sql.ErrNoRows when absent, which callers resolve to defaults
	GetDigestSettings(ctx context.Context, workspaceID uuid.UUID) (*domain.DigestSettings, error)

	// ListWorkspaceIDs lists all workspaces with a settings row, for the
	// scheduler to iterate
	ListWorkspaceIDs(ctx context.Context) ([]uuid.UUID, error)
}

// OutboundRepository defines the interface for the append-only outbound log
type OutboundRepository interface {
	// Append appends one log entry
	Append(ctx context.Context, msg *domain.OutboundMessage) error

	// ExistsSentInWindow reports whether a SENT entry exists for the given
	// (workspace, recipient, digest type, direction) with sent_at in [from, to)
	ExistsSentInWindow(ctx context.Context, workspaceID uuid.UUID, recipient, digestType, direction string, from, to time.Time) (bool, error)
}
