package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/dcastano/cobranza-engine/internal/domain"
	"github.com/dcastano/cobranza-engine/internal/repository"
	"github.com/dcastano/cobranza-engine/pkg/utils"
)

// Sender dispatches a composed digest to one recipient. Implementations live
// at the boundary (SMTP, WhatsApp link relay); the engine never dials.
type Sender interface {
	Send(ctx context.Context, to, subject, textBody, htmlBody string) error
}

// weeklyTopItems caps the itemized listing of the weekly digest.
const weeklyTopItems = 10

var toneForKind = map[string]string{
	domain.AlertKindOverdue:      domain.ToneStrong,
	domain.AlertKindPromiseToday: domain.ToneNormal,
	domain.AlertKindDueToday:     domain.ToneNormal,
	domain.AlertKindDueSoon:      domain.ToneSoft,
	domain.AlertKindHighPriority: domain.ToneNormal,
}

var toneRank = map[string]int{
	domain.ToneSoft:   0,
	domain.ToneNormal: 1,
	domain.ToneStrong: 2,
}

// Canned copy used when a workspace has no template row for a tone.
var fallbackTemplates = map[string]domain.MessageTemplate{
	domain.ToneSoft: {
		Title: "Recordatorio de pago - {workspaceName}",
		Body:  "Hola {personName}, te recordamos que tienes un saldo de {balance} por \"{debtTitle}\". Vence el {dueDate}. ¡Gracias!",
	},
	domain.ToneNormal: {
		Title: "Pago pendiente - {workspaceName}",
		Body:  "Hola {personName}, tu pago de {balance} por \"{debtTitle}\" vence el {dueDate}. Total adeudado: {totalDue}. Fecha prometida: {promisedDate}.",
	},
	domain.ToneStrong: {
		Title: "Deuda vencida - {workspaceName}",
		Body:  "{personName}, tu deuda \"{debtTitle}\" está vencida desde el {dueDate}. Saldo pendiente: {balance}. Por favor regulariza tu pago a la brevedad.",
	},
}

// DigestService composes daily and weekly digests and runs dispatch batches
// with per-recipient outcome logging.
type DigestService struct {
	Alerts       *AlertService
	TemplateRepo repository.TemplateRepository
	SettingsRepo repository.SettingsRepository
	OutboundRepo repository.OutboundRepository
	Guard        *DedupGuard
	Sender       Sender
	logger       *logrus.Logger
}

func NewDigestService(
	alerts *AlertService,
	templateRepo repository.TemplateRepository,
	settingsRepo repository.SettingsRepository,
	outboundRepo repository.OutboundRepository,
	guard *DedupGuard,
	sender Sender,
	logger *logrus.Logger,
) *DigestService {
	return &DigestService{
		Alerts:       alerts,
		TemplateRepo: templateRepo,
		SettingsRepo: settingsRepo,
		OutboundRepo: outboundRepo,
		Guard:        guard,
		Sender:       sender,
		logger:       logger,
	}
}

// ComposeDaily builds one digest per person with at least one alert. Returns
// nil when the workspace has no alerts; that is a normal "nothing to do"
// outcome, not an error.
func (s *DigestService) ComposeDaily(ctx context.Context, workspaceID uuid.UUID, asOf time.Time) ([]domain.Digest, error) {
	alerts, err := s.Alerts.GetAlerts(ctx, workspaceID, "", asOf)
	if err != nil {
		return nil, err
	}
	if len(alerts.Items) == 0 {
		return nil, nil
	}

	settings, err := s.loadSettings(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	// Group per person, preserving classifier order so the first item of
	// each group is that person's most urgent alert.
	order := []uuid.UUID{}
	grouped := map[uuid.UUID][]domain.AlertItem{}
	for _, item := range alerts.Items {
		if _, ok := grouped[item.PersonID]; !ok {
			order = append(order, item.PersonID)
		}
		grouped[item.PersonID] = append(grouped[item.PersonID], item)
	}

	digests := make([]domain.Digest, 0, len(order))
	for _, personID := range order {
		items := grouped[personID]
		tone := highestTone(items)

		tmpl, err := s.lookupTemplate(ctx, workspaceID, domain.ChannelEmail, tone)
		if err != nil {
			return nil, err
		}

		top := items[0]
		repl := placeholderValues(top, sumBalances(items), settings.WorkspaceName)
		subject := renderTemplate(tmpl.Title, repl)
		body := renderTemplate(tmpl.Body, repl) + "\n\n" + itemListing(items)

		digests = append(digests, domain.Digest{
			Recipient: top.PersonEmail,
			PersonID:  personID,
			Tone:      tone,
			Subject:   subject,
			Body:      body,
			HTMLBody:  htmlBody(renderTemplate(tmpl.Body, repl), items),
			Items:     items,
		})
	}

	return digests, nil
}

// ComposeWeekly builds the single per-workspace summary digest. Returns
// (nil, nil) when there is nothing to report.
func (s *DigestService) ComposeWeekly(ctx context.Context, workspaceID uuid.UUID, asOf time.Time) (*domain.Digest, error) {
	alerts, err := s.Alerts.GetAlerts(ctx, workspaceID, "", asOf)
	if err != nil {
		return nil, err
	}
	if len(alerts.Items) == 0 {
		return nil, nil
	}

	settings, err := s.loadSettings(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Resumen semanal de %s (%s)\n\n", settings.WorkspaceName, alerts.AsOfLocalDate)
	fmt.Fprintf(&b, "Por cobrar: %s\n", summaryLine(alerts.Summary.Receivable))
	fmt.Fprintf(&b, "Por pagar: %s\n\n", summaryLine(alerts.Summary.Payable))

	top := alerts.Items
	if len(top) > weeklyTopItems {
		top = top[:weeklyTopItems]
	}
	b.WriteString(itemListing(top))

	digest := &domain.Digest{
		Tone:     domain.ToneNormal,
		Subject:  fmt.Sprintf("Resumen semanal - %s", settings.WorkspaceName),
		Body:     b.String(),
		HTMLBody: htmlBody(fmt.Sprintf("Resumen semanal de %s (%s)", settings.WorkspaceName, alerts.AsOfLocalDate), top),
		Items:    alerts.Items,
	}

	return digest, nil
}

// RunDaily composes and dispatches the daily digest for a workspace. Exactly
// one outbound log entry is written per attempted recipient; one recipient's
// failure never aborts the batch.
func (s *DigestService) RunDaily(ctx context.Context, workspaceID uuid.UUID, asOf time.Time) (*domain.DigestRunResult, error) {
	result := &domain.DigestRunResult{WorkspaceID: workspaceID, DigestType: domain.DigestTypeDaily}

	settings, err := s.loadSettings(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	if !settings.DailyEnabled {
		s.logOutcome(ctx, result, workspaceID, "", domain.OutboundStatusSkipped, domain.ReasonDisabled, asOf)
		return result, nil
	}

	digests, err := s.ComposeDaily(ctx, workspaceID, asOf)
	if err != nil {
		return nil, err
	}
	if len(digests) == 0 {
		s.logOutcome(ctx, result, workspaceID, "", domain.OutboundStatusSkipped, domain.ReasonNoItems, asOf)
		return result, nil
	}

	deliverable := digests[:0:0]
	for _, d := range digests {
		if d.Recipient != "" {
			deliverable = append(deliverable, d)
		}
	}
	if len(deliverable) == 0 {
		s.logOutcome(ctx, result, workspaceID, "", domain.OutboundStatusSkipped, domain.ReasonNoRecipients, asOf)
		return result, nil
	}

	for _, d := range deliverable {
		s.dispatch(ctx, result, workspaceID, domain.DigestTypeDaily, d, asOf)
	}

	return result, nil
}

// RunWeekly composes and dispatches the weekly digest to the workspace's
// configured recipients.
func (s *DigestService) RunWeekly(ctx context.Context, workspaceID uuid.UUID, asOf time.Time) (*domain.DigestRunResult, error) {
	result := &domain.DigestRunResult{WorkspaceID: workspaceID, DigestType: domain.DigestTypeWeekly}

	settings, err := s.loadSettings(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	if !settings.WeeklyEnabled {
		s.logOutcome(ctx, result, workspaceID, "", domain.OutboundStatusSkipped, domain.ReasonDisabled, asOf)
		return result, nil
	}

	digest, err := s.ComposeWeekly(ctx, workspaceID, asOf)
	if err != nil {
		return nil, err
	}
	if digest == nil {
		s.logOutcome(ctx, result, workspaceID, "", domain.OutboundStatusSkipped, domain.ReasonNoItems, asOf)
		return result, nil
	}

	if len(settings.Recipients) == 0 {
		s.logOutcome(ctx, result, workspaceID, "", domain.OutboundStatusSkipped, domain.ReasonNoRecipients, asOf)
		return result, nil
	}

	for _, recipient := range settings.Recipients {
		d := *digest
		d.Recipient = recipient
		s.dispatch(ctx, result, workspaceID, domain.DigestTypeWeekly, d, asOf)
	}

	return result, nil
}

// SendTest sends the weekly-style digest to one recipient, bypassing the
// dedup guard, and logs it with the TEST type.
func (s *DigestService) SendTest(ctx context.Context, workspaceID uuid.UUID, recipient string, asOf time.Time) (*domain.DigestRunResult, error) {
	result := &domain.DigestRunResult{WorkspaceID: workspaceID, DigestType: domain.DigestTypeTest}

	digest, err := s.ComposeWeekly(ctx, workspaceID, asOf)
	if err != nil {
		return nil, err
	}
	if digest == nil {
		digest = &domain.Digest{
			Tone:     domain.ToneNormal,
			Subject:  "Mensaje de prueba",
			Body:     "Este es un mensaje de prueba. No hay alertas activas en este momento.",
			HTMLBody: "<p>Este es un mensaje de prueba. No hay alertas activas en este momento.</p>",
		}
	}
	digest.Recipient = recipient

	if err := s.Sender.Send(ctx, recipient, digest.Subject, digest.Body, digest.HTMLBody); err != nil {
		s.appendLog(ctx, workspaceID, recipient, domain.DigestTypeTest, domain.OutboundStatusFailed, domain.ReasonSendError, nil)
		result.Outcomes = append(result.Outcomes, domain.RecipientOutcome{
			Recipient: recipient,
			Status:    domain.OutboundStatusFailed,
			Reason:    domain.ReasonSendError,
		})
		return result, nil
	}

	sentAt := asOf
	s.appendLog(ctx, workspaceID, recipient, domain.DigestTypeTest, domain.OutboundStatusSent, "", &sentAt)
	result.Outcomes = append(result.Outcomes, domain.RecipientOutcome{
		Recipient: recipient,
		Status:    domain.OutboundStatusSent,
	})

	return result, nil
}

// dispatch handles one recipient: guard check, send, exactly one log entry.
func (s *DigestService) dispatch(ctx context.Context, result *domain.DigestRunResult, workspaceID uuid.UUID, digestType string, d domain.Digest, asOf time.Time) {
	sentAlready, err := s.Guard.HasSentInWindow(ctx, workspaceID, d.Recipient, digestType, domain.DirectionAll, asOf)
	if err != nil {
		s.logger.WithError(err).WithField("recipient", d.Recipient).Error("dedup check failed")
		s.logOutcome(ctx, result, workspaceID, d.Recipient, domain.OutboundStatusFailed, domain.ReasonDedupError, asOf)
		return
	}
	if sentAlready {
		s.logOutcome(ctx, result, workspaceID, d.Recipient, domain.OutboundStatusSkipped, domain.ReasonAlreadySent, asOf)
		return
	}

	if err := s.Sender.Send(ctx, d.Recipient, d.Subject, d.Body, d.HTMLBody); err != nil {
		s.logger.WithError(err).WithField("recipient", d.Recipient).Error("digest send failed")
		s.logOutcome(ctx, result, workspaceID, d.Recipient, domain.OutboundStatusFailed, domain.ReasonSendError, asOf)
		return
	}

	sentAt := asOf
	s.appendLog(ctx, workspaceID, d.Recipient, digestType, domain.OutboundStatusSent, "", &sentAt)
	s.Guard.MarkSent(ctx, workspaceID, d.Recipient, digestType, domain.DirectionAll, asOf)
	result.Outcomes = append(result.Outcomes, domain.RecipientOutcome{
		Recipient: d.Recipient,
		Status:    domain.OutboundStatusSent,
	})
}

func (s *DigestService) logOutcome(ctx context.Context, result *domain.DigestRunResult, workspaceID uuid.UUID, recipient, status, reason string, asOf time.Time) {
	s.appendLog(ctx, workspaceID, recipient, result.DigestType, status, reason, nil)
	result.Outcomes = append(result.Outcomes, domain.RecipientOutcome{
		Recipient: recipient,
		Status:    status,
		Reason:    reason,
	})
}

// appendLog writes one outbound log entry. A failed log write is reported but
// never aborts the batch; the log stays at-most-once-best-effort.
func (s *DigestService) appendLog(ctx context.Context, workspaceID uuid.UUID, recipient, digestType, status, reason string, sentAt *time.Time) {
	entry := &domain.OutboundMessage{
		ID:          uuid.New(),
		WorkspaceID: workspaceID,
		Recipient:   recipient,
		DigestType:  digestType,
		Direction:   domain.DirectionAll,
		Status:      status,
		Reason:      reason,
		SentAt:      sentAt,
		CreatedAt:   time.Now(),
	}
	if err := s.OutboundRepo.Append(ctx, entry); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"workspace_id": workspaceID,
			"recipient":    recipient,
			"status":       status,
		}).Error("outbound log append failed")
	}
}

// loadSettings resolves digest settings, falling back to defaults when the
// workspace has no settings row.
func (s *DigestService) loadSettings(ctx context.Context, workspaceID uuid.UUID) (*domain.DigestSettings, error) {
	settings, err := s.SettingsRepo.GetDigestSettings(ctx, workspaceID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &domain.DigestSettings{
				WorkspaceID:   workspaceID,
				WorkspaceName: "Mi negocio",
				DailyEnabled:  true,
				WeeklyEnabled: true,
			}, nil
		}
		return nil, err
	}
	return settings, nil
}

// lookupTemplate resolves the workspace template for a tone, falling back to
// canned copy when no row exists.
func (s *DigestService) lookupTemplate(ctx context.Context, workspaceID uuid.UUID, channel, tone string) (*domain.MessageTemplate, error) {
	tmpl, err := s.TemplateRepo.Get(ctx, workspaceID, channel, tone)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			fallback := fallbackTemplates[tone]
			return &fallback, nil
		}
		return nil, err
	}
	return tmpl, nil
}

// highestTone picks the firmest tone across a person's items; strong wins
// over normal wins over soft regardless of item order.
func highestTone(items []domain.AlertItem) string {
	tone := domain.ToneSoft
	for _, item := range items {
		t := toneForKind[item.Kind]
		if toneRank[t] > toneRank[tone] {
			tone = t
		}
	}
	return tone
}

func placeholderValues(top domain.AlertItem, totalDue decimal.Decimal, workspaceName string) []string {
	return []string{
		"{personName}", top.PersonName,
		"{balance}", utils.FormatMoney(top.Balance),
		"{debtTitle}", top.Title,
		"{dueDate}", utils.FormatDate(top.DueDate, "sin fecha"),
		"{promisedDate}", utils.FormatDate(top.PromisedDate, "-"),
		"{totalDue}", utils.FormatMoney(totalDue),
		"{workspaceName}", workspaceName,
	}
}

func renderTemplate(text string, repl []string) string {
	return strings.NewReplacer(repl...).Replace(text)
}

func sumBalances(items []domain.AlertItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Balance)
	}
	return total
}

func itemListing(items []domain.AlertItem) string {
	var b strings.Builder
	for _, item := range items {
		fmt.Fprintf(&b, "- [%s] %s: %s (vence: %s)\n",
			item.Kind, item.Title, utils.FormatMoney(item.Balance),
			utils.FormatDate(item.DueDate, "sin fecha"))
	}
	return b.String()
}

func htmlBody(lead string, items []domain.AlertItem) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<p>%s</p>\n<ul>\n", lead)
	for _, item := range items {
		fmt.Fprintf(&b, "<li>[%s] %s: <strong>%s</strong> (vence: %s)</li>\n",
			item.Kind, item.Title, utils.FormatMoney(item.Balance),
			utils.FormatDate(item.DueDate, "sin fecha"))
	}
	b.WriteString("</ul>")
	return b.String()
}

func summaryLine(c domain.KindCounts) string {
	return fmt.Sprintf("%d vencidas, %d promesas hoy, %d vencen hoy, %d por vencer, %d prioridad alta",
		c.Overdue, c.PromiseToday, c.DueToday, c.DueSoon, c.HighPriority)
}
