package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/aryasetiadi/bukukas/internal/invoice"
)

func isInvoiceValidationErr(err error) bool {
	return errors.Is(err, invoice.ErrNoItems) ||
		errors.Is(err, invoice.ErrInvalidItem) ||
		errors.Is(err, invoice.ErrNoClient)
}

// handleListInvoices returns all invoices, newest issue date first
func (s *Server) handleListInvoices(w http.ResponseWriter, r *http.Request) {
	// Overdue flags are refreshed lazily on read
	if _, err := s.services.Invoices.RefreshOverdue(); err != nil {
		slog.Error("Error refreshing overdue invoices", "error", err)
	}

	invoices, err := s.services.Invoices.List()
	if err != nil {
		slog.Error("Error listing invoices", "error", err)
		corsError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if invoices == nil {
		invoices = []*invoice.Invoice{}
	}
	writeJSON(w, http.StatusOK, invoices)
}

// handleCreateInvoice creates a new draft invoice
func (s *Server) handleCreateInvoice(w http.ResponseWriter, r *http.Request) {
	var in invoice.Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		corsError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	inv, err := s.services.Invoices.Create(in)
	if err != nil {
		if isInvoiceValidationErr(err) {
			writeJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		slog.Error("Error creating invoice", "error", err)
		corsError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, inv)
}

// handleGetInvoice returns a single invoice
func (s *Server) handleGetInvoice(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		corsError(w, "Invoice ID required", http.StatusBadRequest)
		return
	}
	inv, err := s.services.Invoices.Get(id)
	if err != nil {
		corsError(w, "Invoice not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

// handleSendInvoice moves a draft invoice to sent
func (s *Server) handleSendInvoice(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		corsError(w, "Invoice ID required", http.StatusBadRequest)
		return
	}
	inv, err := s.services.Invoices.Send(id)
	if err != nil {
		if errors.Is(err, invoice.ErrNotSendable) {
			writeJSONError(w, http.StatusConflict, err.Error())
			return
		}
		corsError(w, "Invoice not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

// handlePayInvoice records payment of an invoice
func (s *Server) handlePayInvoice(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		corsError(w, "Invoice ID required", http.StatusBadRequest)
		return
	}
	inv, err := s.services.Invoices.MarkPaid(id)
	if err != nil {
		if errors.Is(err, invoice.ErrNotPayable) {
			writeJSONError(w, http.StatusConflict, err.Error())
			return
		}
		corsError(w, "Invoice not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

// handleDeleteInvoice removes an invoice
func (s *Server) handleDeleteInvoice(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		corsError(w, "Invoice ID required", http.StatusBadRequest)
		return
	}
	if err := s.services.Invoices.Delete(id); err != nil {
		corsError(w, "Invoice not found", http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleListClients returns all clients
func (s *Server) handleListClients(w http.ResponseWriter, r *http.Request) {
	clients, err := s.services.Invoices.ListClients()
	if err != nil {
		slog.Error("Error listing clients", "error", err)
		corsError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if clients == nil {
		clients = []*invoice.Client{}
	}
	writeJSON(w, http.StatusOK, clients)
}

// handleAddClient creates a new client
func (s *Server) handleAddClient(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Phone   string `json:"phone"`
		Address string `json:"address"`
		Company string `json:"company"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		corsError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	client, err := s.services.Invoices.AddClient(req.Name, req.Email, req.Phone, req.Address, req.Company)
	if err != nil {
		if errors.Is(err, invoice.ErrNoClient) {
			writeJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		slog.Error("Error adding client", "error", err)
		corsError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, client)
}
