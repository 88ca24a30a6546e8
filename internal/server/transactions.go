package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/aryasetiadi/bukukas/internal/ledger"
)

func isValidationErr(err error) bool {
	return errors.Is(err, ledger.ErrInvalidType) ||
		errors.Is(err, ledger.ErrInvalidAmount) ||
		errors.Is(err, ledger.ErrInvalidCategory) ||
		errors.Is(err, ledger.ErrEmptyDesc)
}

// handleListTransactions returns all ledger entries, newest first
func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	transactions, err := s.services.Ledger.List()
	if err != nil {
		slog.Error("Error listing transactions", "error", err)
		corsError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if transactions == nil {
		transactions = []*ledger.Transaction{}
	}
	writeJSON(w, http.StatusOK, transactions)
}

// handleAddTransaction records a new ledger entry
func (s *Server) handleAddTransaction(w http.ResponseWriter, r *http.Request) {
	var in ledger.Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		corsError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	tx, err := s.services.Ledger.Add(in)
	if err != nil {
		if isValidationErr(err) {
			writeJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		slog.Error("Error adding transaction", "error", err)
		corsError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, tx)
}

// handleGetTransaction returns a single ledger entry
func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		corsError(w, "Transaction ID required", http.StatusBadRequest)
		return
	}
	tx, err := s.services.Ledger.Get(id)
	if err != nil {
		corsError(w, "Transaction not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, tx)
}

// handleUpdateTransaction replaces the fields of a ledger entry
func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		corsError(w, "Transaction ID required", http.StatusBadRequest)
		return
	}

	var in ledger.Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		corsError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	tx, err := s.services.Ledger.Update(id, in)
	if err != nil {
		if isValidationErr(err) {
			writeJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		corsError(w, "Transaction not found", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, tx)
}

// handleDeleteTransaction removes a ledger entry
func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		corsError(w, "Transaction ID required", http.StatusBadRequest)
		return
	}
	if err := s.services.Ledger.Delete(id); err != nil {
		corsError(w, "Transaction not found", http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleListCategories returns the category taxonomy
func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]ledger.Category{
		"income":  ledger.IncomeCategories,
		"expense": ledger.ExpenseCategories,
	})
}
