package service

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dcastano/cobranza-engine/internal/domain"
	"github.com/dcastano/cobranza-engine/tests/mocks"
)

type alertFixture struct {
	service     *AlertService
	debtRepo    *mocks.MockDebtRepository
	paymentRepo *mocks.MockPaymentRepository
	promiseRepo *mocks.MockPromiseRepository
	personRepo  *mocks.MockPersonRepository
	workspaceID uuid.UUID
}

func newAlertFixture() *alertFixture {
	debtRepo := &mocks.MockDebtRepository{}
	paymentRepo := &mocks.MockPaymentRepository{}
	promiseRepo := &mocks.MockPromiseRepository{}
	personRepo := &mocks.MockPersonRepository{}

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	return &alertFixture{
		service:     NewAlertService(debtRepo, paymentRepo, promiseRepo, personRepo, logger),
		debtRepo:    debtRepo,
		paymentRepo: paymentRepo,
		promiseRepo: promiseRepo,
		personRepo:  personRepo,
		workspaceID: uuid.New(),
	}
}

func (f *alertFixture) stub(debts []*domain.Debt, sums map[uuid.UUID]decimal.Decimal, promises []*domain.Promise, persons map[uuid.UUID]*domain.Person) {
	f.debtRepo.On("ListOpenByWorkspace", mock.Anything, f.workspaceID, "").Return(debts, nil)
	f.paymentRepo.On("SumByDebtIDs", mock.Anything, mock.Anything).Return(sums, nil)
	f.promiseRepo.On("ListByDebtIDs", mock.Anything, mock.Anything).Return(promises, nil)
	f.personRepo.On("ListByIDs", mock.Anything, mock.Anything).Return(persons, nil)
}

func mkPerson(priority string) *domain.Person {
	return &domain.Person{
		ID:       uuid.New(),
		Name:     "Ana",
		Phone:    "+5491100000000",
		Email:    "ana@example.com",
		Priority: priority,
	}
}

func mkDebt(workspaceID uuid.UUID, person *domain.Person, amount float64, dueDate *time.Time) *domain.Debt {
	return &domain.Debt{
		ID:             uuid.New(),
		WorkspaceID:    workspaceID,
		PersonID:       person.ID,
		Direction:      domain.DirectionReceivable,
		Title:          "Venta fiada",
		AmountOriginal: d(amount),
		IssuedAt:       asOf.AddDate(0, -1, 0),
		DueDate:        dueDate,
	}
}

func TestGetAlerts_OverdueBeatsHighPriority(t *testing.T) {
	f := newAlertFixture()
	person := mkPerson(domain.PriorityHigh)
	debt := mkDebt(f.workspaceID, person, 25.50, datePtr(asOf.AddDate(0, 0, -1)))

	f.stub([]*domain.Debt{debt}, map[uuid.UUID]decimal.Decimal{}, nil,
		map[uuid.UUID]*domain.Person{person.ID: person})

	data, err := f.service.GetAlerts(context.Background(), f.workspaceID, "", asOf)

	require.NoError(t, err)
	require.Len(t, data.Items, 1)
	assert.Equal(t, domain.AlertKindOverdue, data.Items[0].Kind)
	assert.True(t, data.Items[0].Balance.Equal(d(25.50)))
	assert.Equal(t, 1, data.Summary.Receivable.Overdue)
	assert.Equal(t, 0, data.Summary.Receivable.HighPriority)
}

func TestGetAlerts_PaidDebtExcluded(t *testing.T) {
	f := newAlertFixture()
	person := mkPerson(domain.PriorityHigh)
	debt := mkDebt(f.workspaceID, person, 100, datePtr(asOf.AddDate(0, 0, -5)))

	f.stub([]*domain.Debt{debt},
		map[uuid.UUID]decimal.Decimal{debt.ID: d(100)},
		nil,
		map[uuid.UUID]*domain.Person{person.ID: person})

	data, err := f.service.GetAlerts(context.Background(), f.workspaceID, "", asOf)

	require.NoError(t, err)
	assert.Empty(t, data.Items)
	assert.Equal(t, 0, data.Summary.Receivable.Total())
}

func TestGetAlerts_MissingPersonExcluded(t *testing.T) {
	f := newAlertFixture()
	person := mkPerson(domain.PriorityNormal)
	debt := mkDebt(f.workspaceID, person, 100, datePtr(asOf.AddDate(0, 0, -5)))

	// Person map empty: soft-deleted person, the debt is not actionable.
	f.stub([]*domain.Debt{debt}, map[uuid.UUID]decimal.Decimal{}, nil,
		map[uuid.UUID]*domain.Person{})

	data, err := f.service.GetAlerts(context.Background(), f.workspaceID, "", asOf)

	require.NoError(t, err)
	assert.Empty(t, data.Items)
}

func TestGetAlerts_KindResolution(t *testing.T) {
	tests := []struct {
		name         string
		dueOffset    *int
		promiseToday bool
		priority     string
		expectedKind string
	}{
		{"Due today", intPtr(0), false, domain.PriorityNormal, domain.AlertKindDueToday},
		{"Due in one day", intPtr(1), false, domain.PriorityNormal, domain.AlertKindDueSoon},
		{"Due in three days", intPtr(3), false, domain.PriorityNormal, domain.AlertKindDueSoon},
		{"Due in four days, normal priority", intPtr(4), false, domain.PriorityNormal, ""},
		{"Due in four days, high priority", intPtr(4), false, domain.PriorityHigh, domain.AlertKindHighPriority},
		{"No due date, high priority", nil, false, domain.PriorityHigh, domain.AlertKindHighPriority},
		{"No due date, normal priority", nil, false, domain.PriorityNormal, ""},
		{"Promise today beats due today", intPtr(0), true, domain.PriorityNormal, domain.AlertKindPromiseToday},
		{"Overdue beats promise today", intPtr(-2), true, domain.PriorityNormal, domain.AlertKindOverdue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAlertFixture()
			person := mkPerson(tt.priority)

			var due *time.Time
			if tt.dueOffset != nil {
				due = datePtr(asOf.AddDate(0, 0, *tt.dueOffset))
			}
			debt := mkDebt(f.workspaceID, person, 80, due)

			var promises []*domain.Promise
			if tt.promiseToday {
				promises = []*domain.Promise{{
					ID:           uuid.New(),
					DebtID:       debt.ID,
					PromisedDate: asOf,
					CreatedAt:    asOf.Add(-time.Hour),
				}}
			}

			f.stub([]*domain.Debt{debt}, map[uuid.UUID]decimal.Decimal{}, promises,
				map[uuid.UUID]*domain.Person{person.ID: person})

			data, err := f.service.GetAlerts(context.Background(), f.workspaceID, "", asOf)

			require.NoError(t, err)
			if tt.expectedKind == "" {
				assert.Empty(t, data.Items)
				return
			}
			require.Len(t, data.Items, 1)
			assert.Equal(t, tt.expectedKind, data.Items[0].Kind)
		})
	}
}

func TestGetAlerts_DueSoonAcrossSpringForward(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// 2026-03-08 is a 23-hour day in New York. A debt due the next calendar
	// day is DUE_SOON, even though less than 24 wall-clock hours remain.
	shortDay := time.Date(2026, 3, 8, 10, 0, 0, 0, loc)

	f := newAlertFixture()
	person := mkPerson(domain.PriorityNormal)
	debt := mkDebt(f.workspaceID, person, 80, datePtr(time.Date(2026, 3, 9, 0, 0, 0, 0, loc)))

	f.stub([]*domain.Debt{debt}, map[uuid.UUID]decimal.Decimal{}, nil,
		map[uuid.UUID]*domain.Person{person.ID: person})

	data, err := f.service.GetAlerts(context.Background(), f.workspaceID, "", shortDay)

	require.NoError(t, err)
	require.Len(t, data.Items, 1)
	assert.Equal(t, domain.AlertKindDueSoon, data.Items[0].Kind)
}

func TestGetAlerts_PromiseTieBreakByCreation(t *testing.T) {
	f := newAlertFixture()
	person := mkPerson(domain.PriorityNormal)
	debt := mkDebt(f.workspaceID, person, 80, datePtr(asOf.AddDate(0, 0, 5)))

	early := asOf.Add(-30 * time.Minute)
	late := asOf.Add(-5 * time.Minute)
	// Repository returns promises created_at desc; the newer one wins even
	// though both promise today.
	promises := []*domain.Promise{
		{ID: uuid.New(), DebtID: debt.ID, PromisedDate: late, CreatedAt: late},
		{ID: uuid.New(), DebtID: debt.ID, PromisedDate: early, CreatedAt: early},
	}

	f.stub([]*domain.Debt{debt}, map[uuid.UUID]decimal.Decimal{}, promises,
		map[uuid.UUID]*domain.Person{person.ID: person})

	data, err := f.service.GetAlerts(context.Background(), f.workspaceID, "", asOf)

	require.NoError(t, err)
	require.Len(t, data.Items, 1)
	assert.Equal(t, domain.AlertKindPromiseToday, data.Items[0].Kind)
	require.NotNil(t, data.Items[0].PromisedDate)
	assert.Equal(t, late, *data.Items[0].PromisedDate)
}

func TestGetAlerts_Ordering(t *testing.T) {
	f := newAlertFixture()
	person := mkPerson(domain.PriorityHigh)

	overdueSmall := mkDebt(f.workspaceID, person, 10, datePtr(asOf.AddDate(0, 0, -2)))
	overdueBig := mkDebt(f.workspaceID, person, 500, datePtr(asOf.AddDate(0, 0, -1)))
	dueToday := mkDebt(f.workspaceID, person, 900, datePtr(asOf))
	highOnly := mkDebt(f.workspaceID, person, 9999, nil)

	f.stub([]*domain.Debt{highOnly, dueToday, overdueSmall, overdueBig},
		map[uuid.UUID]decimal.Decimal{}, nil,
		map[uuid.UUID]*domain.Person{person.ID: person})

	data, err := f.service.GetAlerts(context.Background(), f.workspaceID, "", asOf)

	require.NoError(t, err)
	require.Len(t, data.Items, 4)
	// Kind priority first, then balance descending within the same kind.
	assert.Equal(t, overdueBig.ID, data.Items[0].DebtID)
	assert.Equal(t, overdueSmall.ID, data.Items[1].DebtID)
	assert.Equal(t, dueToday.ID, data.Items[2].DebtID)
	assert.Equal(t, highOnly.ID, data.Items[3].DebtID)
}

func TestGetAlerts_ItemCapKeepsSummaryComplete(t *testing.T) {
	f := newAlertFixture()
	person := mkPerson(domain.PriorityNormal)

	debts := make([]*domain.Debt, 0, MaxAlertItems+10)
	for i := 0; i < MaxAlertItems+10; i++ {
		debts = append(debts, mkDebt(f.workspaceID, person, float64(i+1), datePtr(asOf.AddDate(0, 0, -1))))
	}

	f.stub(debts, map[uuid.UUID]decimal.Decimal{}, nil,
		map[uuid.UUID]*domain.Person{person.ID: person})

	data, err := f.service.GetAlerts(context.Background(), f.workspaceID, "", asOf)

	require.NoError(t, err)
	assert.Len(t, data.Items, MaxAlertItems)
	assert.Equal(t, MaxAlertItems+10, data.Summary.Receivable.Overdue)
}

func TestGetAlerts_SummaryPerDirection(t *testing.T) {
	f := newAlertFixture()
	person := mkPerson(domain.PriorityNormal)

	receivable := mkDebt(f.workspaceID, person, 100, datePtr(asOf.AddDate(0, 0, -1)))
	payable := mkDebt(f.workspaceID, person, 200, datePtr(asOf))
	payable.Direction = domain.DirectionPayable

	f.stub([]*domain.Debt{receivable, payable}, map[uuid.UUID]decimal.Decimal{}, nil,
		map[uuid.UUID]*domain.Person{person.ID: person})

	data, err := f.service.GetAlerts(context.Background(), f.workspaceID, "", asOf)

	require.NoError(t, err)
	assert.Equal(t, 1, data.Summary.Receivable.Overdue)
	assert.Equal(t, 1, data.Summary.Payable.DueToday)
}

func TestGetAlerts_RepositoryErrorPropagates(t *testing.T) {
	f := newAlertFixture()
	dbErr := errors.New("connection refused")
	f.debtRepo.On("ListOpenByWorkspace", mock.Anything, f.workspaceID, "").Return(nil, dbErr)

	data, err := f.service.GetAlerts(context.Background(), f.workspaceID, "", asOf)

	assert.Nil(t, data)
	assert.ErrorIs(t, err, dbErr)
}

func intPtr(i int) *int {
	return &i
}
