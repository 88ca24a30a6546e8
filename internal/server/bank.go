package server

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/aryasetiadi/bukukas/internal/bank"
)

// handleListBankTransactions returns all statement lines, newest first
func (s *Server) handleListBankTransactions(w http.ResponseWriter, r *http.Request) {
	transactions, err := s.services.Bank.List()
	if err != nil {
		slog.Error("Error listing bank transactions", "error", err)
		corsError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if transactions == nil {
		transactions = []*bank.Transaction{}
	}
	writeJSON(w, http.StatusOK, transactions)
}

// handleAddBankTransaction records one statement line
func (s *Server) handleAddBankTransaction(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date        time.Time `json:"date"`
		Description string    `json:"description"`
		Amount      float64   `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		corsError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	tx, err := s.services.Bank.Add(req.Date, req.Description, req.Amount)
	if err != nil {
		if errors.Is(err, bank.ErrZeroAmount) || errors.Is(err, bank.ErrNoDesc) {
			writeJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		slog.Error("Error adding bank transaction", "error", err)
		corsError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, tx)
}

// handleImportBankTransactions loads a JSON statement export
func (s *Server) handleImportBankTransactions(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		corsError(w, "Error reading request body", http.StatusBadRequest)
		return
	}

	imported, err := s.services.Bank.ImportJSON(data)
	if err != nil {
		slog.Error("Error importing bank statement", "error", err)
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"imported":     len(imported),
		"transactions": imported,
	})
}

// handleMatchBankTransaction manually links a statement line to a ledger entry
func (s *Server) handleMatchBankTransaction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		corsError(w, "Bank transaction ID required", http.StatusBadRequest)
		return
	}

	var req struct {
		TransactionID string `json:"transaction_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.TransactionID == "" {
		corsError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	tx, err := s.services.Bank.Match(id, req.TransactionID)
	if err != nil {
		corsError(w, "Match failed: "+err.Error(), http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, tx)
}

// handleAutoMatch runs automatic reconciliation
func (s *Server) handleAutoMatch(w http.ResponseWriter, r *http.Request) {
	matched, err := s.services.Bank.AutoMatch()
	if err != nil {
		slog.Error("Error auto-matching bank transactions", "error", err)
		corsError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"matched": matched})
}
