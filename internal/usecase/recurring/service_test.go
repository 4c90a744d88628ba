package recurring

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/odimsom/managemymoney-backend/internal/domain"
)

// MockRecurringExpenseRepository is a mock implementation of
// domain.RecurringExpenseRepository for testing.
type MockRecurringExpenseRepository struct {
	mock.Mock
}

func (m *MockRecurringExpenseRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.RecurringExpense, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RecurringExpense), args.Error(1)
}

func (m *MockRecurringExpenseRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.RecurringExpense, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.RecurringExpense), args.Error(1)
}

func (m *MockRecurringExpenseRepository) ListDue(ctx context.Context, asOf time.Time) ([]*domain.RecurringExpense, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.RecurringExpense), args.Error(1)
}

func (m *MockRecurringExpenseRepository) Create(ctx context.Context, expense *domain.RecurringExpense) error {
	args := m.Called(ctx, expense)
	return args.Error(0)
}

func (m *MockRecurringExpenseRepository) Update(ctx context.Context, expense *domain.RecurringExpense) error {
	args := m.Called(ctx, expense)
	return args.Error(0)
}

// MockRecurringIncomeRepository is a mock implementation of
// domain.RecurringIncomeRepository for testing.
type MockRecurringIncomeRepository struct {
	mock.Mock
}

func (m *MockRecurringIncomeRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.RecurringIncome, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RecurringIncome), args.Error(1)
}

func (m *MockRecurringIncomeRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.RecurringIncome, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.RecurringIncome), args.Error(1)
}

func (m *MockRecurringIncomeRepository) ListDue(ctx context.Context, asOf time.Time) ([]*domain.RecurringIncome, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.RecurringIncome), args.Error(1)
}

func (m *MockRecurringIncomeRepository) Create(ctx context.Context, income *domain.RecurringIncome) error {
	args := m.Called(ctx, income)
	return args.Error(0)
}

func (m *MockRecurringIncomeRepository) Update(ctx context.Context, income *domain.RecurringIncome) error {
	args := m.Called(ctx, income)
	return args.Error(0)
}

// MockEventPublisher is a mock implementation of EventPublisher for testing.
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) RecurringExpenseDue(ctx context.Context, expense *domain.RecurringExpense, occurredOn time.Time) error {
	args := m.Called(ctx, expense, occurredOn)
	return args.Error(0)
}

func (m *MockEventPublisher) RecurringIncomeDue(ctx context.Context, income *domain.RecurringIncome, occurredOn time.Time) error {
	args := m.Called(ctx, income, occurredOn)
	return args.Error(0)
}

func newServiceUnderTest() (*Service, *MockRecurringExpenseRepository, *MockRecurringIncomeRepository, *MockEventPublisher) {
	expenses := new(MockRecurringExpenseRepository)
	incomes := new(MockRecurringIncomeRepository)
	events := new(MockEventPublisher)
	return NewService(expenses, incomes, events, zap.NewNop()), expenses, incomes, events
}

func storedExpense(t *testing.T, start time.Time) *domain.RecurringExpense {
	t.Helper()
	e, err := domain.NewRecurringExpense("Rent", decimal.NewFromInt(1200), "USD", domain.RecurrenceMonthly, 15, uuid.New(), uuid.New(), uuid.New(), start, nil)
	require.NoError(t, err)
	return e
}

func TestCreateExpense(t *testing.T) {
	ctx := context.Background()
	service, expenses, _, _ := newServiceUnderTest()

	expenses.On("Create", ctx, mock.AnythingOfType("*domain.RecurringExpense")).Return(nil)

	e, err := service.CreateExpense(ctx, CreateExpenseInput{
		Name:       "Rent",
		Amount:     decimal.NewFromInt(1200),
		Currency:   "USD",
		Recurrence: domain.RecurrenceMonthly,
		DayOfMonth: 15,
		CategoryID: uuid.New(),
		AccountID:  uuid.New(),
		UserID:     uuid.New(),
		StartDate:  time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.NotNil(t, e.NextDueDate)
	assert.Equal(t, time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC), *e.NextDueDate)
	expenses.AssertExpectations(t)
}

func TestCreateIncome_RejectsExpenseOnlyRecurrence(t *testing.T) {
	ctx := context.Background()
	service, _, incomes, _ := newServiceUnderTest()

	_, err := service.CreateIncome(ctx, CreateIncomeInput{
		Name:       "Salary",
		Amount:     decimal.NewFromInt(3000),
		Currency:   "USD",
		Recurrence: domain.RecurrenceDaily,
		SourceID:   uuid.New(),
		AccountID:  uuid.New(),
		UserID:     uuid.New(),
		StartDate:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	assert.Error(t, err)
	incomes.AssertNotCalled(t, "Create")
}

func TestProcessDueExpenses_AdvancesCheckpointAndPublishes(t *testing.T) {
	ctx := context.Background()
	service, expenses, _, events := newServiceUnderTest()

	e := storedExpense(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))
	now := time.Date(2024, 2, 15, 9, 0, 0, 0, time.UTC)

	expenses.On("ListDue", ctx, now).Return([]*domain.RecurringExpense{e}, nil)
	events.On("RecurringExpenseDue", ctx, e, now).Return(nil)
	expenses.On("Update", ctx, e).Return(nil)

	processed, err := service.ProcessDueExpenses(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 1, processed)

	require.NotNil(t, e.LastGeneratedDate)
	assert.Equal(t, now, *e.LastGeneratedDate)
	require.NotNil(t, e.NextDueDate)
	assert.Equal(t, time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC), *e.NextDueDate)
	expenses.AssertExpectations(t)
	events.AssertExpectations(t)
}

func TestProcessDueExpenses_PublishFailureSkipsCheckpoint(t *testing.T) {
	ctx := context.Background()
	service, expenses, _, events := newServiceUnderTest()

	e := storedExpense(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))
	now := time.Date(2024, 2, 15, 9, 0, 0, 0, time.UTC)

	expenses.On("ListDue", ctx, now).Return([]*domain.RecurringExpense{e}, nil)
	events.On("RecurringExpenseDue", ctx, e, now).Return(assert.AnError)

	processed, err := service.ProcessDueExpenses(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 0, processed)

	// Checkpoint untouched, so the occurrence retries on the next run.
	assert.Nil(t, e.LastGeneratedDate)
	expenses.AssertNotCalled(t, "Update")
}

func TestProcessDueIncomes(t *testing.T) {
	ctx := context.Background()
	service, _, incomes, events := newServiceUnderTest()

	in, err := domain.NewRecurringIncome("Salary", decimal.NewFromInt(3000), "USD", domain.RecurrenceMonthly, uuid.New(), uuid.New(), uuid.New(), time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), nil)
	require.NoError(t, err)
	now := time.Date(2024, 2, 1, 6, 0, 0, 0, time.UTC)

	incomes.On("ListDue", ctx, now).Return([]*domain.RecurringIncome{in}, nil)
	events.On("RecurringIncomeDue", ctx, in, now).Return(nil)
	incomes.On("Update", ctx, in).Return(nil)

	processed, err := service.ProcessDueIncomes(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 1, processed)
	incomes.AssertExpectations(t)
}

func TestPauseResumeExpense(t *testing.T) {
	ctx := context.Background()
	service, expenses, _, _ := newServiceUnderTest()

	e := storedExpense(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))
	expenses.On("GetByID", ctx, e.ID).Return(e, nil)
	expenses.On("Update", ctx, e).Return(nil)

	paused, err := service.PauseExpense(ctx, e.ID)
	require.NoError(t, err)
	assert.False(t, paused.IsActive)

	resumed, err := service.ResumeExpense(ctx, e.ID)
	require.NoError(t, err)
	assert.True(t, resumed.IsActive)

	// Resuming again is rejected and nothing further is persisted.
	_, err = service.ResumeExpense(ctx, e.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}
