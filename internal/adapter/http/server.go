// Package httpapi exposes the application services as a JSON API.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/odimsom/managemymoney-backend/internal/usecase/budget"
	"github.com/odimsom/managemymoney-backend/internal/usecase/goal"
	"github.com/odimsom/managemymoney-backend/internal/usecase/recurring"
)

// Server wires the application services to HTTP routes.
type Server struct {
	budgets   *budget.Service
	goals     *goal.Service
	recurring *recurring.Service
	logger    *zap.Logger
	server    *http.Server
}

// NewServer creates an HTTP server listening on addr. apiToken guards every
// route under /api/v1.
func NewServer(addr, apiToken string, budgets *budget.Service, goals *goal.Service, rec *recurring.Service, logger *zap.Logger) *Server {
	s := &Server{
		budgets:   budgets,
		goals:     goals,
		recurring: rec,
		logger:    logger,
	}

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.routes(apiToken),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Second,
	}
	return s
}

func (s *Server) routes(apiToken string) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(AuthMiddleware(apiToken), MetricsMiddleware)

	api.HandleFunc("/budgets", s.handleCreateBudget).Methods(http.MethodPost)
	api.HandleFunc("/budgets", s.handleListBudgets).Methods(http.MethodGet)
	api.HandleFunc("/budgets/{id}", s.handleGetBudget).Methods(http.MethodGet)
	api.HandleFunc("/budgets/{id}/spend", s.handleRecordSpend).Methods(http.MethodPost)
	api.HandleFunc("/budgets/{id}/refund", s.handleReverseSpend).Methods(http.MethodPost)
	api.HandleFunc("/budgets/{id}/limit", s.handleChangeLimit).Methods(http.MethodPut)
	api.HandleFunc("/budgets/{id}/categories/{categoryID}", s.handleAssignCategory).Methods(http.MethodPost)
	api.HandleFunc("/budgets/{id}/categories/{categoryID}", s.handleUnassignCategory).Methods(http.MethodDelete)
	api.HandleFunc("/budgets/{id}/deactivate", s.handleDeactivateBudget).Methods(http.MethodPost)

	api.HandleFunc("/goals", s.handleCreateGoal).Methods(http.MethodPost)
	api.HandleFunc("/goals", s.handleListGoals).Methods(http.MethodGet)
	api.HandleFunc("/goals/{id}", s.handleGetGoal).Methods(http.MethodGet)
	api.HandleFunc("/goals/{id}", s.handleUpdateGoal).Methods(http.MethodPatch)
	api.HandleFunc("/goals/{id}/contributions", s.handleContribute).Methods(http.MethodPost)
	api.HandleFunc("/goals/{id}/withdrawals", s.handleWithdraw).Methods(http.MethodPost)
	api.HandleFunc("/goals/{id}/pause", s.handlePauseGoal).Methods(http.MethodPost)
	api.HandleFunc("/goals/{id}/resume", s.handleResumeGoal).Methods(http.MethodPost)
	api.HandleFunc("/goals/{id}/cancel", s.handleCancelGoal).Methods(http.MethodPost)
	api.HandleFunc("/goals/{id}/progress", s.handleGoalProgress).Methods(http.MethodGet)

	api.HandleFunc("/recurring/expenses", s.handleCreateRecurringExpense).Methods(http.MethodPost)
	api.HandleFunc("/recurring/expenses", s.handleListRecurringExpenses).Methods(http.MethodGet)
	api.HandleFunc("/recurring/expenses/{id}", s.handleGetRecurringExpense).Methods(http.MethodGet)
	api.HandleFunc("/recurring/expenses/{id}/pause", s.handlePauseRecurringExpense).Methods(http.MethodPost)
	api.HandleFunc("/recurring/expenses/{id}/resume", s.handleResumeRecurringExpense).Methods(http.MethodPost)

	api.HandleFunc("/recurring/incomes", s.handleCreateRecurringIncome).Methods(http.MethodPost)
	api.HandleFunc("/recurring/incomes", s.handleListRecurringIncomes).Methods(http.MethodGet)
	api.HandleFunc("/recurring/incomes/{id}", s.handleGetRecurringIncome).Methods(http.MethodGet)
	api.HandleFunc("/recurring/incomes/{id}/pause", s.handlePauseRecurringIncome).Methods(http.MethodPost)
	api.HandleFunc("/recurring/incomes/{id}/resume", s.handleResumeRecurringIncome).Methods(http.MethodPost)

	api.HandleFunc("/recurring/process", s.handleProcessDue).Methods(http.MethodPost)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Start begins serving and blocks until the listener fails or is shut down.
func (s *Server) Start() error {
	s.logger.Info("http server listening", zap.String("addr", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
