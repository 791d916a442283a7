package service

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/dcastano/cobranza-engine/internal/domain"
	"github.com/dcastano/cobranza-engine/internal/repository"
	"github.com/dcastano/cobranza-engine/pkg/utils"
)

// MaxAlertItems caps the classified item list. Summary counts still cover
// every classified debt.
const MaxAlertItems = 50

// dueSoonDays is the window of remaining days that makes a debt DUE_SOON.
const dueSoonDays = 3

// AlertService classifies a workspace's open debts into prioritized alerts.
type AlertService struct {
	DebtRepo    repository.DebtRepository
	PaymentRepo repository.PaymentRepository
	PromiseRepo repository.PromiseRepository
	PersonRepo  repository.PersonRepository
	logger      *logrus.Logger
}

func NewAlertService(
	debtRepo repository.DebtRepository,
	paymentRepo repository.PaymentRepository,
	promiseRepo repository.PromiseRepository,
	personRepo repository.PersonRepository,
	logger *logrus.Logger,
) *AlertService {
	return &AlertService{
		DebtRepo:    debtRepo,
		PaymentRepo: paymentRepo,
		PromiseRepo: promiseRepo,
		PersonRepo:  personRepo,
		logger:      logger,
	}
}

// GetAlerts classifies every open debt of the workspace as of the given
// instant. Direction filter is optional; empty means both directions.
// Persistence errors propagate to the caller undecorated.
func (s *AlertService) GetAlerts(ctx context.Context, workspaceID uuid.UUID, direction string, asOf time.Time) (*domain.AlertsData, error) {
	debts, err := s.DebtRepo.ListOpenByWorkspace(ctx, workspaceID, direction)
	if err != nil {
		return nil, err
	}

	debtIDs := make([]uuid.UUID, 0, len(debts))
	personIDs := make([]uuid.UUID, 0, len(debts))
	seenPersons := make(map[uuid.UUID]bool, len(debts))
	for _, d := range debts {
		debtIDs = append(debtIDs, d.ID)
		if !seenPersons[d.PersonID] {
			seenPersons[d.PersonID] = true
			personIDs = append(personIDs, d.PersonID)
		}
	}

	sums, err := s.PaymentRepo.SumByDebtIDs(ctx, debtIDs)
	if err != nil {
		return nil, err
	}

	promises, err := s.PromiseRepo.ListByDebtIDs(ctx, debtIDs)
	if err != nil {
		return nil, err
	}

	persons, err := s.PersonRepo.ListByIDs(ctx, personIDs)
	if err != nil {
		return nil, err
	}

	// Promises arrive ordered created_at desc, so the first match per debt
	// is the most recently created one. That creation-order tie-break
	// mirrors the historical behavior; promised-date recency is not
	// consulted.
	todayKey := utils.DayKey(asOf)
	promiseToday := make(map[uuid.UUID]*domain.Promise, len(promises))
	for _, p := range promises {
		if utils.DayKey(p.PromisedDate) != todayKey {
			continue
		}
		if _, ok := promiseToday[p.DebtID]; !ok {
			promiseToday[p.DebtID] = p
		}
	}

	data := &domain.AlertsData{
		WorkspaceID:   workspaceID,
		AsOfLocalDate: todayKey,
		Items:         []domain.AlertItem{},
	}

	var items []domain.AlertItem
	for _, debt := range debts {
		person, ok := persons[debt.PersonID]
		if !ok {
			// Missing or soft-deleted person: the debt is no longer
			// actionable, not an error.
			continue
		}

		computed, err := ComputeDebt(debt, sums[debt.ID], asOf)
		if err != nil {
			s.logger.WithError(err).WithField("debt_id", debt.ID).Warn("skipping debt with invalid terms")
			continue
		}
		if !computed.Balance.IsPositive() {
			continue
		}

		promise := promiseToday[debt.ID]
		kind := classifyDebt(debt, person, promise, todayKey, asOf)
		if kind == "" {
			continue
		}

		item := domain.AlertItem{
			DebtID:         debt.ID,
			Title:          debt.Title,
			PersonID:       person.ID,
			PersonName:     person.Name,
			PersonPhone:    person.Phone,
			PersonEmail:    person.Email,
			PersonPriority: person.Priority,
			Direction:      debt.Direction,
			Kind:           kind,
			DueDate:        debt.DueDate,
			Balance:        computed.Balance,
		}
		if promise != nil {
			item.PromisedDate = &promise.PromisedDate
		}

		items = append(items, item)

		switch debt.Direction {
		case domain.DirectionReceivable:
			data.Summary.Receivable.Add(kind)
		case domain.DirectionPayable:
			data.Summary.Payable.Add(kind)
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		pi, pj := domain.AlertKindPriority(items[i].Kind), domain.AlertKindPriority(items[j].Kind)
		if pi != pj {
			return pi < pj
		}
		return items[i].Balance.GreaterThan(items[j].Balance)
	})

	if len(items) > MaxAlertItems {
		items = items[:MaxAlertItems]
	}
	if items != nil {
		data.Items = items
	}

	return data, nil
}

// classifyDebt resolves the single alert kind for an open debt, or "" when no
// kind applies. Resolution order: OVERDUE > PROMISE_TODAY > DUE_TODAY >
// DUE_SOON > HIGH_PRIORITY.
func classifyDebt(debt *domain.Debt, person *domain.Person, promiseToday *domain.Promise, todayKey string, asOf time.Time) string {
	if debt.DueDate != nil && utils.DayKey(*debt.DueDate) < todayKey {
		return domain.AlertKindOverdue
	}
	if promiseToday != nil {
		return domain.AlertKindPromiseToday
	}
	if debt.DueDate != nil {
		switch days := utils.DaysUntil(asOf, *debt.DueDate); {
		case days == 0:
			return domain.AlertKindDueToday
		case days >= 1 && days <= dueSoonDays:
			return domain.AlertKindDueSoon
		}
	}
	if person.Priority == domain.PriorityHigh {
		return domain.AlertKindHighPriority
	}
	return ""
}
