package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Alert kinds, mutually exclusive per debt. The numeric priority orders the
// classified list: lower sorts first (more urgent).
const (
	AlertKindOverdue      = "OVERDUE"
	AlertKindPromiseToday = "PROMISE_TODAY"
	AlertKindDueToday     = "DUE_TODAY"
	AlertKindDueSoon      = "DUE_SOON"
	AlertKindHighPriority = "HIGH_PRIORITY"
)

var alertKindPriority = map[string]int{
	AlertKindOverdue:      0,
	AlertKindPromiseToday: 1,
	AlertKindDueToday:     2,
	AlertKindDueSoon:      3,
	AlertKindHighPriority: 4,
}

// AlertKindPriority returns the sort rank of a kind. Unknown kinds sort last.
func AlertKindPriority(kind string) int {
	if p, ok := alertKindPriority[kind]; ok {
		return p
	}
	return len(alertKindPriority)
}

// AlertItem is one classified open debt. Recomputed on every query, never
// persisted.
type AlertItem struct {
	DebtID         uuid.UUID       `json:"debt_id"`
	Title          string          `json:"title"`
	PersonID       uuid.UUID       `json:"person_id"`
	PersonName     string          `json:"person_name"`
	PersonPhone    string          `json:"person_phone,omitempty"`
	PersonEmail    string          `json:"person_email,omitempty"`
	PersonPriority string          `json:"person_priority"`
	Direction      string          `json:"direction"`
	Kind           string          `json:"kind"`
	DueDate        *time.Time      `json:"due_date,omitempty"`
	PromisedDate   *time.Time      `json:"promised_date,omitempty"`
	Balance        decimal.Decimal `json:"balance"`
}

// KindCounts holds per-kind alert counts for one direction.
type KindCounts struct {
	Overdue      int `json:"overdue"`
	PromiseToday int `json:"promise_today"`
	DueToday     int `json:"due_today"`
	DueSoon      int `json:"due_soon"`
	HighPriority int `json:"high_priority"`
}

// Add increments the counter for a kind.
func (c *KindCounts) Add(kind string) {
	switch kind {
	case AlertKindOverdue:
		c.Overdue++
	case AlertKindPromiseToday:
		c.PromiseToday++
	case AlertKindDueToday:
		c.DueToday++
	case AlertKindDueSoon:
		c.DueSoon++
	case AlertKindHighPriority:
		c.HighPriority++
	}
}

// Total sums all kind counters.
func (c KindCounts) Total() int {
	return c.Overdue + c.PromiseToday + c.DueToday + c.DueSoon + c.HighPriority
}

// AlertsSummary folds classified items into per-direction counts.
type AlertsSummary struct {
	Receivable KindCounts `json:"receivable"`
	Payable    KindCounts `json:"payable"`
}

// AlertsData is the classified alert set for one workspace at one instant.
type AlertsData struct {
	WorkspaceID   uuid.UUID     `json:"workspace_id"`
	AsOfLocalDate string        `json:"as_of_local_date"`
	Summary       AlertsSummary `json:"summary"`
	Items         []AlertItem   `json:"items"`
}
