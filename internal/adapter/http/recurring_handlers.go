package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/odimsom/managemymoney-backend/internal/domain"
	"github.com/odimsom/managemymoney-backend/internal/usecase/recurring"
)

type createRecurringExpenseRequest struct {
	Name       string     `json:"name"`
	Amount     string     `json:"amount"`
	Currency   string     `json:"currency"`
	Recurrence string     `json:"recurrence"`
	DayOfMonth int        `json:"day_of_month"`
	CategoryID uuid.UUID  `json:"category_id"`
	AccountID  uuid.UUID  `json:"account_id"`
	UserID     uuid.UUID  `json:"user_id"`
	StartDate  time.Time  `json:"start_date"`
	EndDate    *time.Time `json:"end_date,omitempty"`
}

func (s *Server) handleCreateRecurringExpense(w http.ResponseWriter, r *http.Request) {
	var req createRecurringExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		respondBadRequest(w, "invalid amount")
		return
	}

	e, err := s.recurring.CreateExpense(r.Context(), recurring.CreateExpenseInput{
		Name:       req.Name,
		Amount:     amount,
		Currency:   req.Currency,
		Recurrence: domain.Recurrence(req.Recurrence),
		DayOfMonth: req.DayOfMonth,
		CategoryID: req.CategoryID,
		AccountID:  req.AccountID,
		UserID:     req.UserID,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toRecurringExpenseResponse(e))
}

func (s *Server) handleListRecurringExpenses(w http.ResponseWriter, r *http.Request) {
	userID, err := queryUUID(r, "user_id")
	if err != nil {
		respondBadRequest(w, "invalid user_id")
		return
	}

	expenses, err := s.recurring.ListExpenses(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toRecurringExpenseResponses(expenses))
}

func (s *Server) handleGetRecurringExpense(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		respondBadRequest(w, "invalid recurring expense id")
		return
	}

	e, err := s.recurring.GetExpense(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toRecurringExpenseResponse(e))
}

func (s *Server) handlePauseRecurringExpense(w http.ResponseWriter, r *http.Request) {
	s.expenseTransition(w, r, s.recurring.PauseExpense)
}

func (s *Server) handleResumeRecurringExpense(w http.ResponseWriter, r *http.Request) {
	s.expenseTransition(w, r, s.recurring.ResumeExpense)
}

func (s *Server) expenseTransition(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, id uuid.UUID) (*domain.RecurringExpense, error)) {
	id, err := pathUUID(r, "id")
	if err != nil {
		respondBadRequest(w, "invalid recurring expense id")
		return
	}

	e, err := op(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toRecurringExpenseResponse(e))
}

type createRecurringIncomeRequest struct {
	Name       string     `json:"name"`
	Amount     string     `json:"amount"`
	Currency   string     `json:"currency"`
	Recurrence string     `json:"recurrence"`
	SourceID   uuid.UUID  `json:"source_id"`
	AccountID  uuid.UUID  `json:"account_id"`
	UserID     uuid.UUID  `json:"user_id"`
	StartDate  time.Time  `json:"start_date"`
	EndDate    *time.Time `json:"end_date,omitempty"`
}

func (s *Server) handleCreateRecurringIncome(w http.ResponseWriter, r *http.Request) {
	var req createRecurringIncomeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		respondBadRequest(w, "invalid amount")
		return
	}

	in, err := s.recurring.CreateIncome(r.Context(), recurring.CreateIncomeInput{
		Name:       req.Name,
		Amount:     amount,
		Currency:   req.Currency,
		Recurrence: domain.Recurrence(req.Recurrence),
		SourceID:   req.SourceID,
		AccountID:  req.AccountID,
		UserID:     req.UserID,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toRecurringIncomeResponse(in))
}

func (s *Server) handleListRecurringIncomes(w http.ResponseWriter, r *http.Request) {
	userID, err := queryUUID(r, "user_id")
	if err != nil {
		respondBadRequest(w, "invalid user_id")
		return
	}

	incomes, err := s.recurring.ListIncomes(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toRecurringIncomeResponses(incomes))
}

func (s *Server) handleGetRecurringIncome(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		respondBadRequest(w, "invalid recurring income id")
		return
	}

	in, err := s.recurring.GetIncome(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toRecurringIncomeResponse(in))
}

func (s *Server) handlePauseRecurringIncome(w http.ResponseWriter, r *http.Request) {
	s.incomeTransition(w, r, s.recurring.PauseIncome)
}

func (s *Server) handleResumeRecurringIncome(w http.ResponseWriter, r *http.Request) {
	s.incomeTransition(w, r, s.recurring.ResumeIncome)
}

func (s *Server) incomeTransition(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, id uuid.UUID) (*domain.RecurringIncome, error)) {
	id, err := pathUUID(r, "id")
	if err != nil {
		respondBadRequest(w, "invalid recurring income id")
		return
	}

	in, err := op(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toRecurringIncomeResponse(in))
}

// handleProcessDue triggers a generation run on demand, outside the
// scheduler's regular interval.
func (s *Server) handleProcessDue(w http.ResponseWriter, r *http.Request) {
	now := time.Now().UTC()

	expenses, err := s.recurring.ProcessDueExpenses(r.Context(), now)
	if err != nil {
		respondError(w, err)
		return
	}

	incomes, err := s.recurring.ProcessDueIncomes(r.Context(), now)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]int{
		"expenses_processed": expenses,
		"incomes_processed":  incomes,
	})
}
