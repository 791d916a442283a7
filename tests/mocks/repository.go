package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/dcastano/cobranza-engine/internal/domain"
)

type MockDebtRepository struct {
	mock.Mock
}

func (m *MockDebtRepository) Create(ctx context.Context, debt *domain.Debt) error {
	args := m.Called(ctx, debt)
	return args.Error(0)
}

func (m *MockDebtRepository) GetByID(ctx context.Context, workspaceID, debtID uuid.UUID) (*domain.Debt, error) {
	args := m.Called(ctx, workspaceID, debtID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Debt), args.Error(1)
}

func (m *MockDebtRepository) ListOpenByWorkspace(ctx context.Context, workspaceID uuid.UUID, direction string) ([]*domain.Debt, error) {
	args := m.Called(ctx, workspaceID, direction)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Debt), args.Error(1)
}

func (m *MockDebtRepository) Update(ctx context.Context, debt *domain.Debt) error {
	args := m.Called(ctx, debt)
	return args.Error(0)
}

func (m *MockDebtRepository) SoftDelete(ctx context.Context, workspaceID, debtID uuid.UUID) error {
	args := m.Called(ctx, workspaceID, debtID)
	return args.Error(0)
}

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) ListByDebtID(ctx context.Context, debtID uuid.UUID) ([]*domain.Payment, error) {
	args := m.Called(ctx, debtID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) SumByDebtIDs(ctx context.Context, debtIDs []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	args := m.Called(ctx, debtIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]decimal.Decimal), args.Error(1)
}

type MockPersonRepository struct {
	mock.Mock
}

func (m *MockPersonRepository) GetByID(ctx context.Context, personID uuid.UUID) (*domain.Person, error) {
	args := m.Called(ctx, personID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Person), args.Error(1)
}

func (m *MockPersonRepository) ListByIDs(ctx context.Context, personIDs []uuid.UUID) (map[uuid.UUID]*domain.Person, error) {
	args := m.Called(ctx, personIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]*domain.Person), args.Error(1)
}

type MockPromiseRepository struct {
	mock.Mock
}

func (m *MockPromiseRepository) Create(ctx context.Context, promise *domain.Promise) error {
	args := m.Called(ctx, promise)
	return args.Error(0)
}

func (m *MockPromiseRepository) ListByDebtIDs(ctx context.Context, debtIDs []uuid.UUID) ([]*domain.Promise, error) {
	args := m.Called(ctx, debtIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Promise), args.Error(1)
}

type MockTemplateRepository struct {
	mock.Mock
}

func (m *MockTemplateRepository) Get(ctx context.Context, workspaceID uuid.UUID, channel, tone string) (*domain.MessageTemplate, error) {
	args := m.Called(ctx, workspaceID, channel, tone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MessageTemplate), args.Error(1)
}

type MockSettingsRepository struct {
	mock.Mock
}

func (m *MockSettingsRepository) GetDigestSettings(ctx context.Context, workspaceID uuid.UUID) (*domain.DigestSettings, error) {
	args := m.Called(ctx, workspaceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DigestSettings), args.Error(1)
}

func (m *MockSettingsRepository) ListWorkspaceIDs(ctx context.Context) ([]uuid.UUID, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

type MockOutboundRepository struct {
	mock.Mock
}

func (m *MockOutboundRepository) Append(ctx context.Context, msg *domain.OutboundMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockOutboundRepository) ExistsSentInWindow(ctx context.Context, workspaceID uuid.UUID, recipient, digestType, direction string, from, to time.Time) (bool, error) {
	args := m.Called(ctx, workspaceID, recipient, digestType, direction, from, to)
	return args.Bool(0), args.Error(1)
}

type MockSender struct {
	mock.Mock
}

func (m *MockSender) Send(ctx context.Context, to, subject, textBody, htmlBody string) error {
	args := m.Called(ctx, to, subject, textBody, htmlBody)
	return args.Error(0)
}
