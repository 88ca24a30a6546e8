package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aryasetiadi/bukukas/internal/store"
)

// handleAssistantChat answers a user message
func (s *Server) handleAssistantChat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Message) == "" {
		corsError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	msg, err := s.services.Assistant.Reply(req.Message)
	if err != nil {
		slog.Error("Error generating assistant reply", "error", err)
		corsError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, msg)
}

// handleGetSettings returns the business settings
func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.services.Settings.GetSettings()
	if err != nil {
		slog.Error("Error getting settings", "error", err)
		corsError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

// handleUpdateSettings replaces the business settings
func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var settings store.Settings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		corsError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if settings.TaxRate < 0 || settings.TaxRate > 100 {
		writeJSONError(w, http.StatusBadRequest, "tax rate must be between 0 and 100")
		return
	}

	updated, err := s.services.Settings.UpdateSettings(settings)
	if err != nil {
		slog.Error("Error updating settings", "error", err)
		corsError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// handleExportTransactionsXLSX streams the transactions workbook
func (s *Server) handleExportTransactionsXLSX(w http.ResponseWriter, r *http.Request) {
	var from, to time.Time
	if f := r.URL.Query().Get("from"); f != "" {
		t, err := time.Parse("2006-01-02", f)
		if err != nil {
			corsError(w, "Dates must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		from = t
	}
	if tq := r.URL.Query().Get("to"); tq != "" {
		t, err := time.Parse("2006-01-02", tq)
		if err != nil {
			corsError(w, "Dates must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		to = t
	}

	data, err := s.services.Exports.TransactionsXLSX(from, to)
	if err != nil {
		slog.Error("Error exporting transactions", "error", err)
		corsError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="transactions.xlsx"`)
	w.Write(data)
}

// handleExportReceiptsXLSX streams the receipts workbook
func (s *Server) handleExportReceiptsXLSX(w http.ResponseWriter, r *http.Request) {
	data, err := s.services.Exports.ReceiptsXLSX()
	if err != nil {
		slog.Error("Error exporting receipts", "error", err)
		corsError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="receipts.xlsx"`)
	w.Write(data)
}
