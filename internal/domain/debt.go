package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Direction of a debt relative to the workspace.
const (
	DirectionReceivable = "RECEIVABLE" // money owed to the workspace
	DirectionPayable    = "PAYABLE"    // money the workspace owes
)

// Debt statuses derived at read time, never stored.
const (
	DebtStatusPaid    = "PAID"
	DebtStatusOverdue = "OVERDUE"
	DebtStatusPending = "PENDING"
)

// Interest periods. Only monthly accrual is supported.
const (
	InterestPeriodMonthly = "monthly"
)

// Debt represents a debt row as persisted. Monetary state (balance, interest,
// status) is always recomputed from these terms plus the payments sum; an
// amendment to the terms never retroactively reprices already-accrued interest
// because accrual is derived from IssuedAt on every read.
type Debt struct {
	ID                  uuid.UUID           `json:"id" db:"id"`
	WorkspaceID         uuid.UUID           `json:"workspace_id" db:"workspace_id"`
	PersonID            uuid.UUID           `json:"person_id" db:"person_id"`
	Direction           string              `json:"direction" db:"direction"`
	Title               string              `json:"title" db:"title"`
	AmountOriginal      decimal.Decimal     `json:"amount_original" db:"amount_original"`
	HasInterest         bool                `json:"has_interest" db:"has_interest"`
	InterestRatePct     decimal.NullDecimal `json:"interest_rate_pct" db:"interest_rate_pct"`
	InterestPeriod      string              `json:"interest_period" db:"interest_period"`
	IssuedAt            time.Time           `json:"issued_at" db:"issued_at"`
	DueDate             *time.Time          `json:"due_date" db:"due_date"`
	MinSuggestedPayment decimal.NullDecimal `json:"min_suggested_payment" db:"min_suggested_payment"`
	SplitCount          int                 `json:"split_count" db:"split_count"`
	DeletedAt           *time.Time          `json:"-" db:"deleted_at"`
	CreatedAt           time.Time           `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time           `json:"updated_at" db:"updated_at"`
}

// Installment is one entry of a suggested payment plan.
type Installment struct {
	Seq     int             `json:"seq"`
	DueDate time.Time       `json:"due_date"`
	Amount  decimal.Decimal `json:"amount"`
}

// DebtComputed is the derived monetary state of a debt at a given instant.
// All amounts are rounded to 2 decimal places and Balance is clamped at zero
// for display.
type DebtComputed struct {
	PrincipalOutstanding decimal.Decimal   `json:"principal_outstanding"`
	InterestAccrued      decimal.Decimal   `json:"interest_accrued"`
	TotalDue             decimal.Decimal   `json:"total_due"`
	Balance              decimal.Decimal   `json:"balance"`
	Status               string            `json:"status"`
	SuggestedPayments    []decimal.Decimal `json:"suggested_payments"`
	ScheduleSuggested    []Installment     `json:"schedule_suggested,omitempty"`
}

// Payment is a recorded payment against a debt.
type Payment struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	DebtID    uuid.UUID       `json:"debt_id" db:"debt_id"`
	Amount    decimal.Decimal `json:"amount" db:"amount"`
	PaidAt    time.Time       `json:"paid_at" db:"paid_at"`
	Note      string          `json:"note,omitempty" db:"note"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}

// DTOs for requests and responses

type CreateDebtRequest struct {
	PersonID            uuid.UUID        `json:"person_id" validate:"required"`
	Direction           string           `json:"direction" validate:"required,oneof=RECEIVABLE PAYABLE"`
	Title               string           `json:"title" validate:"required"`
	AmountOriginal      decimal.Decimal  `json:"amount_original" validate:"required"`
	HasInterest         bool             `json:"has_interest"`
	InterestRatePct     *decimal.Decimal `json:"interest_rate_pct,omitempty"`
	InterestPeriod      string           `json:"interest_period,omitempty" validate:"omitempty,oneof=monthly"`
	IssuedAt            *time.Time       `json:"issued_at,omitempty"`
	DueDate             *time.Time       `json:"due_date,omitempty"`
	MinSuggestedPayment *decimal.Decimal `json:"min_suggested_payment,omitempty"`
	SplitCount          int              `json:"split_count" validate:"gte=0"`
}

type UpdateDebtRequest struct {
	Title               *string          `json:"title,omitempty"`
	AmountOriginal      *decimal.Decimal `json:"amount_original,omitempty"`
	HasInterest         *bool            `json:"has_interest,omitempty"`
	InterestRatePct     *decimal.Decimal `json:"interest_rate_pct,omitempty"`
	DueDate             *time.Time       `json:"due_date,omitempty"`
	MinSuggestedPayment *decimal.Decimal `json:"min_suggested_payment,omitempty"`
	SplitCount          *int             `json:"split_count,omitempty" validate:"omitempty,gte=0"`
}

type CreatePaymentRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"required"`
	PaidAt *time.Time      `json:"paid_at,omitempty"`
	Note   string          `json:"note,omitempty"`
}

// DebtResponse merges the computed ledger figures onto the persisted row.
type DebtResponse struct {
	Debt     *Debt         `json:"debt"`
	Computed *DebtComputed `json:"computed"`
}
