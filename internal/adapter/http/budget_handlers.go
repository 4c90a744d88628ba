package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/odimsom/managemymoney-backend/internal/domain"
	"github.com/odimsom/managemymoney-backend/internal/usecase/budget"
)

type createBudgetRequest struct {
	Name       string     `json:"name"`
	Limit      string     `json:"limit"`
	Currency   string     `json:"currency"`
	Period     string     `json:"period"`
	UserID     uuid.UUID  `json:"user_id"`
	StartDate  time.Time  `json:"start_date"`
	EndDate    time.Time  `json:"end_date"`
	CategoryID *uuid.UUID `json:"category_id,omitempty"`
}

func (s *Server) handleCreateBudget(w http.ResponseWriter, r *http.Request) {
	var req createBudgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}

	limit, err := parseAmount(req.Limit)
	if err != nil {
		respondBadRequest(w, "invalid limit amount")
		return
	}

	b, err := s.budgets.CreateBudget(r.Context(), budget.CreateBudgetInput{
		Name:       req.Name,
		Limit:      limit,
		Currency:   req.Currency,
		Period:     domain.BudgetPeriod(req.Period),
		UserID:     req.UserID,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		CategoryID: req.CategoryID,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toBudgetResponse(b))
}

func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	userID, err := queryUUID(r, "user_id")
	if err != nil {
		respondBadRequest(w, "invalid user_id")
		return
	}

	budgets, err := s.budgets.ListBudgets(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toBudgetResponses(budgets))
}

func (s *Server) handleGetBudget(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		respondBadRequest(w, "invalid budget id")
		return
	}

	b, err := s.budgets.GetBudget(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toBudgetResponse(b))
}

type spendRequest struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

func (s *Server) handleRecordSpend(w http.ResponseWriter, r *http.Request) {
	s.applySpend(w, r, s.budgets.RecordSpend)
}

func (s *Server) handleReverseSpend(w http.ResponseWriter, r *http.Request) {
	s.applySpend(w, r, s.budgets.ReverseSpend)
}

func (s *Server) applySpend(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, id uuid.UUID, amount domain.Money) (*domain.Budget, error)) {
	id, err := pathUUID(r, "id")
	if err != nil {
		respondBadRequest(w, "invalid budget id")
		return
	}

	var req spendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}

	amount, err := parseMoney(req.Amount, req.Currency)
	if err != nil {
		respondError(w, err)
		return
	}

	b, err := op(r.Context(), id, amount)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toBudgetResponse(b))
}

type changeLimitRequest struct {
	Limit string `json:"limit"`
}

func (s *Server) handleChangeLimit(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		respondBadRequest(w, "invalid budget id")
		return
	}

	var req changeLimitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}

	limit, err := parseAmount(req.Limit)
	if err != nil {
		respondBadRequest(w, "invalid limit amount")
		return
	}

	b, err := s.budgets.ChangeLimit(r.Context(), id, limit)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toBudgetResponse(b))
}

func (s *Server) handleAssignCategory(w http.ResponseWriter, r *http.Request) {
	s.applyCategory(w, r, s.budgets.AssignCategory)
}

func (s *Server) handleUnassignCategory(w http.ResponseWriter, r *http.Request) {
	s.applyCategory(w, r, s.budgets.UnassignCategory)
}

func (s *Server) applyCategory(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, budgetID, categoryID uuid.UUID) (*domain.Budget, error)) {
	id, err := pathUUID(r, "id")
	if err != nil {
		respondBadRequest(w, "invalid budget id")
		return
	}

	categoryID, err := pathUUID(r, "categoryID")
	if err != nil {
		respondBadRequest(w, "invalid category id")
		return
	}

	b, err := op(r.Context(), id, categoryID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toBudgetResponse(b))
}

func (s *Server) handleDeactivateBudget(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		respondBadRequest(w, "invalid budget id")
		return
	}

	b, err := s.budgets.Deactivate(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toBudgetResponse(b))
}
