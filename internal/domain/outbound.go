package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Digest types.
const (
	DigestTypeDaily  = "DAILY"
	DigestTypeWeekly = "WEEKLY"
	DigestTypeTest   = "TEST"
)

// Outbound message statuses.
const (
	OutboundStatusSent    = "SENT"
	OutboundStatusSkipped = "SKIPPED"
	OutboundStatusFailed  = "FAILED"
)

// Skip/fail reason codes. Closed set; runners never log free-form reasons,
// only these codes plus an optional detail string.
const (
	ReasonAlreadySent  = "ALREADY_SENT"
	ReasonDisabled     = "DISABLED"
	ReasonNoRecipients = "NO_RECIPIENTS"
	ReasonNoItems      = "NO_ITEMS"
	ReasonSendError    = "SEND_ERROR"
	ReasonDedupError   = "DEDUP_ERROR"
)

// Direction scope for digests covering both directions.
const DirectionAll = "ALL"

// Message tones, from mildest to firmest.
const (
	ToneSoft   = "soft"
	ToneNormal = "normal"
	ToneStrong = "strong"
)

// Message channels.
const (
	ChannelEmail    = "email"
	ChannelWhatsApp = "whatsapp"
)

// OutboundMessage is one entry of the append-only outbound log. The log is
// the single source of truth for digest idempotency.
type OutboundMessage struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	WorkspaceID uuid.UUID  `json:"workspace_id" db:"workspace_id"`
	Recipient   string     `json:"recipient" db:"recipient"`
	DigestType  string     `json:"digest_type" db:"digest_type"`
	Direction   string     `json:"direction" db:"direction"`
	Status      string     `json:"status" db:"status"`
	Reason      string     `json:"reason,omitempty" db:"reason"`
	SentAt      *time.Time `json:"sent_at,omitempty" db:"sent_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
}

// MessageTemplate is a per-workspace reminder template. Absence of a row for
// a (workspace, channel, tone) is a valid state and triggers fallback copy.
type MessageTemplate struct {
	ID          uuid.UUID `json:"id" db:"id"`
	WorkspaceID uuid.UUID `json:"workspace_id" db:"workspace_id"`
	Channel     string    `json:"channel" db:"channel"`
	Tone        string    `json:"tone" db:"tone"`
	Title       string    `json:"title" db:"title"`
	Body        string    `json:"body" db:"body"`
}

// DigestSettings configures digest delivery for a workspace. A missing row
// resolves to defaults, never to an error.
type DigestSettings struct {
	WorkspaceID   uuid.UUID      `json:"workspace_id" db:"workspace_id"`
	WorkspaceName string         `json:"workspace_name" db:"workspace_name"`
	DailyEnabled  bool           `json:"daily_enabled" db:"daily_enabled"`
	WeeklyEnabled bool           `json:"weekly_enabled" db:"weekly_enabled"`
	Recipients    pq.StringArray `json:"recipients" db:"recipients"`
}

// Digest is a composed reminder ready for dispatch to one recipient.
type Digest struct {
	Recipient string      `json:"recipient"`
	PersonID  uuid.UUID   `json:"person_id,omitempty"`
	Tone      string      `json:"tone"`
	Subject   string      `json:"subject"`
	Body      string      `json:"body"`
	HTMLBody  string      `json:"html_body"`
	Items     []AlertItem `json:"items"`
}

// RecipientOutcome records the result of one dispatch attempt within a run.
type RecipientOutcome struct {
	Recipient string `json:"recipient"`
	Status    string `json:"status"`
	Reason    string `json:"reason,omitempty"`
}

// DigestRunResult aggregates the per-recipient outcomes of a digest run.
type DigestRunResult struct {
	WorkspaceID uuid.UUID          `json:"workspace_id"`
	DigestType  string             `json:"digest_type"`
	Outcomes    []RecipientOutcome `json:"outcomes"`
}

// Counts tallies outcomes by status.
func (r *DigestRunResult) Counts() (sent, skipped, failed int) {
	for _, o := range r.Outcomes {
		switch o.Status {
		case OutboundStatusSent:
			sent++
		case OutboundStatusSkipped:
			skipped++
		case OutboundStatusFailed:
			failed++
		}
	}
	return sent, skipped, failed
}
