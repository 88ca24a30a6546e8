package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/aryasetiadi/bukukas/internal/budget"
	"github.com/aryasetiadi/bukukas/internal/ledger"
)

func isBudgetValidationErr(err error) bool {
	return errors.Is(err, budget.ErrInvalidPeriod) ||
		errors.Is(err, budget.ErrInvalidAmount) ||
		errors.Is(err, budget.ErrInvalidCategory)
}

// handleListBudgets returns all budgets
func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	budgets, err := s.services.Budgets.List()
	if err != nil {
		slog.Error("Error listing budgets", "error", err)
		corsError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if budgets == nil {
		budgets = []*budget.Budget{}
	}
	writeJSON(w, http.StatusOK, budgets)
}

// handleAddBudget creates a new budget
func (s *Server) handleAddBudget(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Category  ledger.Category `json:"category"`
		Amount    float64         `json:"amount"`
		Period    budget.Period   `json:"period"`
		StartDate time.Time       `json:"start_date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		corsError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	b, err := s.services.Budgets.Add(req.Category, req.Amount, req.Period, req.StartDate)
	if err != nil {
		if isBudgetValidationErr(err) {
			writeJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		slog.Error("Error adding budget", "error", err)
		corsError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, b)
}

// handleDeleteBudget removes a budget
func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		corsError(w, "Budget ID required", http.StatusBadRequest)
		return
	}
	if err := s.services.Budgets.Delete(id); err != nil {
		corsError(w, "Budget not found", http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleBudgetUsage returns budgets joined with actual spend
func (s *Server) handleBudgetUsage(w http.ResponseWriter, r *http.Request) {
	usage, err := s.services.Budgets.ListUsage()
	if err != nil {
		slog.Error("Error computing budget usage", "error", err)
		corsError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if usage == nil {
		usage = []*budget.Usage{}
	}
	writeJSON(w, http.StatusOK, usage)
}
