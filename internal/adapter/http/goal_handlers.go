package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/odimsom/managemymoney-backend/internal/domain"
	"github.com/odimsom/managemymoney-backend/internal/usecase/goal"
)

type createGoalRequest struct {
	Name            string     `json:"name"`
	Target          string     `json:"target"`
	Currency        string     `json:"currency"`
	UserID          uuid.UUID  `json:"user_id"`
	TargetDate      *time.Time `json:"target_date,omitempty"`
	LinkedAccountID *uuid.UUID `json:"linked_account_id,omitempty"`
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	var req createGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}

	target, err := parseAmount(req.Target)
	if err != nil {
		respondBadRequest(w, "invalid target amount")
		return
	}

	g, err := s.goals.CreateGoal(r.Context(), goal.CreateGoalInput{
		Name:            req.Name,
		Target:          target,
		Currency:        req.Currency,
		UserID:          req.UserID,
		TargetDate:      req.TargetDate,
		LinkedAccountID: req.LinkedAccountID,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toGoalResponse(g))
}

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	userID, err := queryUUID(r, "user_id")
	if err != nil {
		respondBadRequest(w, "invalid user_id")
		return
	}

	goals, err := s.goals.ListGoals(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toGoalResponses(goals))
}

func (s *Server) handleGetGoal(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		respondBadRequest(w, "invalid goal id")
		return
	}

	g, err := s.goals.GetGoal(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toGoalResponse(g))
}

type updateGoalRequest struct {
	Name            *string    `json:"name,omitempty"`
	TargetAmount    *string    `json:"target_amount,omitempty"`
	TargetDate      *time.Time `json:"target_date,omitempty"`
	LinkedAccountID *uuid.UUID `json:"linked_account_id,omitempty"`
}

func (s *Server) handleUpdateGoal(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		respondBadRequest(w, "invalid goal id")
		return
	}

	var req updateGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}

	patch := domain.SavingsGoalPatch{
		Name:            req.Name,
		TargetDate:      req.TargetDate,
		LinkedAccountID: req.LinkedAccountID,
	}
	if req.TargetAmount != nil {
		target, err := parseAmount(*req.TargetAmount)
		if err != nil {
			respondBadRequest(w, "invalid target amount")
			return
		}
		patch.TargetAmount = &target
	}

	g, err := s.goals.UpdateGoal(r.Context(), id, patch)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toGoalResponse(g))
}

type contributeRequest struct {
	Amount   string    `json:"amount"`
	Currency string    `json:"currency"`
	Date     time.Time `json:"date"`
	Notes    string    `json:"notes,omitempty"`
}

func (s *Server) handleContribute(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		respondBadRequest(w, "invalid goal id")
		return
	}

	var req contributeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}

	amount, err := parseMoney(req.Amount, req.Currency)
	if err != nil {
		respondError(w, err)
		return
	}

	date := req.Date
	if date.IsZero() {
		date = time.Now().UTC()
	}

	g, err := s.goals.Contribute(r.Context(), id, amount, date, req.Notes)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toGoalResponse(g))
}

type withdrawRequest struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

func (s *Server) handleWithdraw(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		respondBadRequest(w, "invalid goal id")
		return
	}

	var req withdrawRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}

	amount, err := parseMoney(req.Amount, req.Currency)
	if err != nil {
		respondError(w, err)
		return
	}

	g, err := s.goals.Withdraw(r.Context(), id, amount)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toGoalResponse(g))
}

func (s *Server) handlePauseGoal(w http.ResponseWriter, r *http.Request) {
	s.goalTransition(w, r, s.goals.Pause)
}

func (s *Server) handleResumeGoal(w http.ResponseWriter, r *http.Request) {
	s.goalTransition(w, r, s.goals.Resume)
}

func (s *Server) handleCancelGoal(w http.ResponseWriter, r *http.Request) {
	s.goalTransition(w, r, s.goals.Cancel)
}

func (s *Server) goalTransition(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, id uuid.UUID) (*domain.SavingsGoal, error)) {
	id, err := pathUUID(r, "id")
	if err != nil {
		respondBadRequest(w, "invalid goal id")
		return
	}

	g, err := op(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toGoalResponse(g))
}

func (s *Server) handleGoalProgress(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		respondBadRequest(w, "invalid goal id")
		return
	}

	progress, err := s.goals.GetProgress(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toProgressResponse(progress))
}
