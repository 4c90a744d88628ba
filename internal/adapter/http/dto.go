package httpapi

import (
	"time"

	"github.com/google/uuid"

	"github.com/odimsom/managemymoney-backend/internal/domain"
	"github.com/odimsom/managemymoney-backend/internal/usecase/goal"
)

// Amounts are transported as strings to avoid float rounding on the wire.

type moneyDTO struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

func toMoneyDTO(m domain.Money) moneyDTO {
	return moneyDTO{Amount: m.Amount.String(), Currency: m.Currency}
}

type budgetResponse struct {
	ID             uuid.UUID   `json:"id"`
	UserID         uuid.UUID   `json:"user_id"`
	Name           string      `json:"name"`
	Limit          moneyDTO    `json:"limit"`
	Spent          moneyDTO    `json:"spent"`
	Remaining      moneyDTO    `json:"remaining"`
	PercentageUsed string      `json:"percentage_used"`
	Period         string      `json:"period"`
	StartDate      time.Time   `json:"start_date"`
	EndDate        time.Time   `json:"end_date"`
	CategoryIDs    []uuid.UUID `json:"category_ids"`
	IsActive       bool        `json:"is_active"`
	AlertsEnabled  bool        `json:"alerts_enabled"`
	IsOverBudget   bool        `json:"is_over_budget"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

func toBudgetResponse(b *domain.Budget) budgetResponse {
	return budgetResponse{
		ID:             b.ID,
		UserID:         b.UserID,
		Name:           b.Name,
		Limit:          toMoneyDTO(b.Limit),
		Spent:          toMoneyDTO(b.Spent),
		Remaining:      toMoneyDTO(b.Remaining()),
		PercentageUsed: b.PercentageUsed().String(),
		Period:         string(b.Period),
		StartDate:      b.Range.Start,
		EndDate:        b.Range.End,
		CategoryIDs:    b.CategoryIDs,
		IsActive:       b.IsActive,
		AlertsEnabled:  b.AlertsEnabled,
		IsOverBudget:   b.IsOverBudget(),
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
}

func toBudgetResponses(budgets []*domain.Budget) []budgetResponse {
	out := make([]budgetResponse, len(budgets))
	for i, b := range budgets {
		out[i] = toBudgetResponse(b)
	}
	return out
}

type contributionResponse struct {
	ID     uuid.UUID `json:"id"`
	Amount moneyDTO  `json:"amount"`
	Date   time.Time `json:"date"`
	Notes  string    `json:"notes,omitempty"`
}

type goalResponse struct {
	ID              uuid.UUID              `json:"id"`
	UserID          uuid.UUID              `json:"user_id"`
	Name            string                 `json:"name"`
	Target          moneyDTO               `json:"target"`
	Current         moneyDTO               `json:"current"`
	TargetDate      *time.Time             `json:"target_date,omitempty"`
	LinkedAccountID *uuid.UUID             `json:"linked_account_id,omitempty"`
	Status          string                 `json:"status"`
	CompletedAt     *time.Time             `json:"completed_at,omitempty"`
	Contributions   []contributionResponse `json:"contributions"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
}

func toGoalResponse(g *domain.SavingsGoal) goalResponse {
	contributions := make([]contributionResponse, len(g.Contributions))
	for i, c := range g.Contributions {
		contributions[i] = contributionResponse{
			ID:     c.ID,
			Amount: toMoneyDTO(c.Amount),
			Date:   c.Date,
			Notes:  c.Notes,
		}
	}
	return goalResponse{
		ID:              g.ID,
		UserID:          g.UserID,
		Name:            g.Name,
		Target:          toMoneyDTO(g.Target),
		Current:         toMoneyDTO(g.Current),
		TargetDate:      g.TargetDate,
		LinkedAccountID: g.LinkedAccountID,
		Status:          string(g.Status),
		CompletedAt:     g.CompletedAt,
		Contributions:   contributions,
		CreatedAt:       g.CreatedAt,
		UpdatedAt:       g.UpdatedAt,
	}
}

func toGoalResponses(goals []*domain.SavingsGoal) []goalResponse {
	out := make([]goalResponse, len(goals))
	for i, g := range goals {
		out[i] = toGoalResponse(g)
	}
	return out
}

type progressResponse struct {
	Goal                        goalResponse `json:"goal"`
	ProgressPercentage          string       `json:"progress_percentage"`
	RemainingAmount             moneyDTO     `json:"remaining_amount"`
	DaysRemaining               *int         `json:"days_remaining,omitempty"`
	RequiredMonthlyContribution *moneyDTO    `json:"required_monthly_contribution,omitempty"`
}

func toProgressResponse(p *goal.Progress) progressResponse {
	resp := progressResponse{
		Goal:               toGoalResponse(p.Goal),
		ProgressPercentage: p.ProgressPercentage.String(),
		RemainingAmount:    toMoneyDTO(p.RemainingAmount),
		DaysRemaining:      p.DaysRemaining,
	}
	if p.RequiredMonthlyContribution != nil {
		m := toMoneyDTO(*p.RequiredMonthlyContribution)
		resp.RequiredMonthlyContribution = &m
	}
	return resp
}

type recurringExpenseResponse struct {
	ID                uuid.UUID  `json:"id"`
	UserID            uuid.UUID  `json:"user_id"`
	Name              string     `json:"name"`
	Amount            moneyDTO   `json:"amount"`
	Recurrence        string     `json:"recurrence"`
	DayOfMonth        int        `json:"day_of_month"`
	CategoryID        uuid.UUID  `json:"category_id"`
	AccountID         uuid.UUID  `json:"account_id"`
	StartDate         time.Time  `json:"start_date"`
	EndDate           *time.Time `json:"end_date,omitempty"`
	LastGeneratedDate *time.Time `json:"last_generated_date,omitempty"`
	NextDueDate       *time.Time `json:"next_due_date,omitempty"`
	IsActive          bool       `json:"is_active"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

func toRecurringExpenseResponse(e *domain.RecurringExpense) recurringExpenseResponse {
	return recurringExpenseResponse{
		ID:                e.ID,
		UserID:            e.UserID,
		Name:              e.Name,
		Amount:            toMoneyDTO(e.Amount),
		Recurrence:        string(e.Recurrence),
		DayOfMonth:        e.DayOfMonth,
		CategoryID:        e.CategoryID,
		AccountID:         e.AccountID,
		StartDate:         e.StartDate,
		EndDate:           e.EndDate,
		LastGeneratedDate: e.LastGeneratedDate,
		NextDueDate:       e.NextDueDate,
		IsActive:          e.IsActive,
		CreatedAt:         e.CreatedAt,
		UpdatedAt:         e.UpdatedAt,
	}
}

func toRecurringExpenseResponses(expenses []*domain.RecurringExpense) []recurringExpenseResponse {
	out := make([]recurringExpenseResponse, len(expenses))
	for i, e := range expenses {
		out[i] = toRecurringExpenseResponse(e)
	}
	return out
}

type recurringIncomeResponse struct {
	ID                uuid.UUID  `json:"id"`
	UserID            uuid.UUID  `json:"user_id"`
	Name              string     `json:"name"`
	Amount            moneyDTO   `json:"amount"`
	Recurrence        string     `json:"recurrence"`
	SourceID          uuid.UUID  `json:"source_id"`
	AccountID         uuid.UUID  `json:"account_id"`
	StartDate         time.Time  `json:"start_date"`
	EndDate           *time.Time `json:"end_date,omitempty"`
	LastGeneratedDate *time.Time `json:"last_generated_date,omitempty"`
	NextDueDate       *time.Time `json:"next_due_date,omitempty"`
	IsActive          bool       `json:"is_active"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

func toRecurringIncomeResponse(in *domain.RecurringIncome) recurringIncomeResponse {
	return recurringIncomeResponse{
		ID:                in.ID,
		UserID:            in.UserID,
		Name:              in.Name,
		Amount:            toMoneyDTO(in.Amount),
		Recurrence:        string(in.Recurrence),
		SourceID:          in.SourceID,
		AccountID:         in.AccountID,
		StartDate:         in.StartDate,
		EndDate:           in.EndDate,
		LastGeneratedDate: in.LastGeneratedDate,
		NextDueDate:       in.NextDueDate,
		IsActive:          in.IsActive,
		CreatedAt:         in.CreatedAt,
		UpdatedAt:         in.UpdatedAt,
	}
}

func toRecurringIncomeResponses(incomes []*domain.RecurringIncome) []recurringIncomeResponse {
	out := make([]recurringIncomeResponse, len(incomes))
	for i, in := range incomes {
		out[i] = toRecurringIncomeResponse(in)
	}
	return out
}
