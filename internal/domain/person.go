package domain

import (
	"time"

	"github.com/google/uuid"
)

// Person priorities.
const (
	PriorityLow    = "LOW"
	PriorityNormal = "NORMAL"
	PriorityHigh   = "HIGH"
)

// Person is a debtor or creditor of a workspace.
type Person struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	WorkspaceID uuid.UUID  `json:"workspace_id" db:"workspace_id"`
	Name        string     `json:"name" db:"name"`
	Phone       string     `json:"phone" db:"phone"`
	Email       string     `json:"email" db:"email"`
	Priority    string     `json:"priority" db:"priority"`
	DeletedAt   *time.Time `json:"-" db:"deleted_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
}

// Promise is a promise-to-pay recorded against a debt.
type Promise struct {
	ID           uuid.UUID `json:"id" db:"id"`
	DebtID       uuid.UUID `json:"debt_id" db:"debt_id"`
	PromisedDate time.Time `json:"promised_date" db:"promised_date"`
	Note         string    `json:"note,omitempty" db:"note"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

type CreatePromiseRequest struct {
	PromisedDate time.Time `json:"promised_date" validate:"required"`
	Note         string    `json:"note,omitempty"`
}
