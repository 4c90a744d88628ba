package notify

import (
	"time"

	"github.com/google/uuid"
)

// Alert levels for budget threshold messages.
const (
	AlertLevelNearLimit = "near_limit"
	AlertLevelExceeded  = "exceeded"
)

// BudgetAlertMessage notifies that a budget crossed a spending threshold.
type BudgetAlertMessage struct {
	BudgetID       uuid.UUID `json:"budget_id"`
	UserID         uuid.UUID `json:"user_id"`
	Name           string    `json:"name"`
	Level          string    `json:"level"`
	Limit          string    `json:"limit"`
	Spent          string    `json:"spent"`
	PercentageUsed string    `json:"percentage_used"`
	Currency       string    `json:"currency"`
	Timestamp      time.Time `json:"timestamp"`
}

// GoalCompletedMessage notifies that a savings goal reached its target.
type GoalCompletedMessage struct {
	GoalID      uuid.UUID `json:"goal_id"`
	UserID      uuid.UUID `json:"user_id"`
	Name        string    `json:"name"`
	Target      string    `json:"target"`
	Current     string    `json:"current"`
	Currency    string    `json:"currency"`
	CompletedAt time.Time `json:"completed_at"`
	Timestamp   time.Time `json:"timestamp"`
}

// Kinds of recurring schedules carried in due messages.
const (
	RecurrenceKindExpense = "expense"
	RecurrenceKindIncome  = "income"
)

// RecurrenceDueMessage notifies that a recurring schedule generated an
// occurrence. The consumer materializes the actual transaction record.
type RecurrenceDueMessage struct {
	RecurrenceID uuid.UUID `json:"recurrence_id"`
	UserID       uuid.UUID `json:"user_id"`
	AccountID    uuid.UUID `json:"account_id"`
	Kind         string    `json:"kind"`
	Name         string    `json:"name"`
	Amount       string    `json:"amount"`
	Currency     string    `json:"currency"`
	OccurredOn   time.Time `json:"occurred_on"`
	Timestamp    time.Time `json:"timestamp"`
}
