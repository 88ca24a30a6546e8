package server

import (
	"encoding/base64"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aryasetiadi/bukukas/internal/assistant"
	"github.com/aryasetiadi/bukukas/internal/bank"
	"github.com/aryasetiadi/bukukas/internal/budget"
	"github.com/aryasetiadi/bukukas/internal/export"
	"github.com/aryasetiadi/bukukas/internal/invoice"
	"github.com/aryasetiadi/bukukas/internal/ledger"
	"github.com/aryasetiadi/bukukas/internal/receipt"
	"github.com/aryasetiadi/bukukas/internal/report"
	"github.com/aryasetiadi/bukukas/internal/store"
)

// BasicAuth holds basic authentication credentials
type BasicAuth struct {
	Username string
	Password string
}

// SettingsStore reads and writes the business settings.
type SettingsStore interface {
	GetSettings() (store.Settings, error)
	UpdateSettings(settings store.Settings) (store.Settings, error)
}

// Services bundles the domain services the server exposes.
type Services struct {
	Receipts  *receipt.Service
	Ledger    *ledger.Service
	Invoices  *invoice.Service
	Budgets   *budget.Service
	Bank      *bank.Service
	Reports   *report.Service
	Assistant *assistant.Service
	Exports   *export.Service
	Settings  SettingsStore
}

// Server handles HTTP requests for the accounting dashboard.
type Server struct {
	services  Services
	basicAuth BasicAuth
	mux       *http.ServeMux
}

// NewServer creates a new Server with default mux
func NewServer(services Services, basicAuth BasicAuth) *Server {
	return NewServerWithMux(services, basicAuth, http.NewServeMux())
}

// NewServerWithMux creates a new Server with a custom mux for testing
func NewServerWithMux(services Services, basicAuth BasicAuth, mux *http.ServeMux) *Server {
	s := &Server{
		services:  services,
		basicAuth: basicAuth,
		mux:       mux,
	}
	s.registerRoutes()
	return s
}

// authenticate checks basic auth credentials
func (s *Server) authenticate(r *http.Request) bool {
	if s.basicAuth.Username == "" && s.basicAuth.Password == "" {
		return true // No auth required if not configured
	}

	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Basic ") {
		return false
	}

	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(auth, "Basic "))
	if err != nil {
		return false
	}

	credentials := strings.SplitN(string(decoded), ":", 2)
	if len(credentials) != 2 {
		return false
	}

	return credentials[0] == s.basicAuth.Username && credentials[1] == s.basicAuth.Password
}

// corsMiddleware adds CORS headers to responses
func (s *Server) corsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		setCORSHeaders(w)

		// Handle preflight OPTIONS requests
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next(w, r)
	}
}

// requireAuth middleware
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.authenticate(r) {
			// Ensure CORS headers are set before error response
			setCORSHeaders(w)
			w.Header().Set("WWW-Authenticate", `Basic realm="Bukukas"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

// registerRoutes registers all API routes on the server's mux
// Routes must be registered from most specific to least specific to avoid conflicts
func (s *Server) registerRoutes() {
	// Receipts (most specific paths first)
	s.mux.HandleFunc("GET /api/receipts/{id}/file", s.requireAuth(s.handleGetReceiptFile))
	s.mux.HandleFunc("GET /api/receipts/{id}/export", s.requireAuth(s.handleExportReceiptText))
	s.mux.HandleFunc("GET /api/receipts/{id}", s.requireAuth(s.handleGetReceipt))
	s.mux.HandleFunc("DELETE /api/receipts/{id}", s.requireAuth(s.handleDeleteReceipt))
	s.mux.HandleFunc("GET /api/receipts", s.requireAuth(s.handleListReceipts))
	s.mux.HandleFunc("POST /api/receipts", s.requireAuth(s.handleUploadReceipt))

	// Ledger
	s.mux.HandleFunc("GET /api/transactions/{id}", s.requireAuth(s.handleGetTransaction))
	s.mux.HandleFunc("PUT /api/transactions/{id}", s.requireAuth(s.handleUpdateTransaction))
	s.mux.HandleFunc("DELETE /api/transactions/{id}", s.requireAuth(s.handleDeleteTransaction))
	s.mux.HandleFunc("GET /api/transactions", s.requireAuth(s.handleListTransactions))
	s.mux.HandleFunc("POST /api/transactions", s.requireAuth(s.handleAddTransaction))
	s.mux.HandleFunc("GET /api/categories", s.requireAuth(s.handleListCategories))

	// Invoices
	s.mux.HandleFunc("POST /api/invoices/{id}/send", s.requireAuth(s.handleSendInvoice))
	s.mux.HandleFunc("POST /api/invoices/{id}/pay", s.requireAuth(s.handlePayInvoice))
	s.mux.HandleFunc("GET /api/invoices/{id}", s.requireAuth(s.handleGetInvoice))
	s.mux.HandleFunc("DELETE /api/invoices/{id}", s.requireAuth(s.handleDeleteInvoice))
	s.mux.HandleFunc("GET /api/invoices", s.requireAuth(s.handleListInvoices))
	s.mux.HandleFunc("POST /api/invoices", s.requireAuth(s.handleCreateInvoice))
	s.mux.HandleFunc("GET /api/clients", s.requireAuth(s.handleListClients))
	s.mux.HandleFunc("POST /api/clients", s.requireAuth(s.handleAddClient))

	// Budgets
	s.mux.HandleFunc("GET /api/budgets/usage", s.requireAuth(s.handleBudgetUsage))
	s.mux.HandleFunc("DELETE /api/budgets/{id}", s.requireAuth(s.handleDeleteBudget))
	s.mux.HandleFunc("GET /api/budgets", s.requireAuth(s.handleListBudgets))
	s.mux.HandleFunc("POST /api/budgets", s.requireAuth(s.handleAddBudget))

	// Bank reconciliation
	s.mux.HandleFunc("POST /api/bank/transactions/import", s.requireAuth(s.handleImportBankTransactions))
	s.mux.HandleFunc("POST /api/bank/transactions/automatch", s.requireAuth(s.handleAutoMatch))
	s.mux.HandleFunc("POST /api/bank/transactions/{id}/match", s.requireAuth(s.handleMatchBankTransaction))
	s.mux.HandleFunc("GET /api/bank/transactions", s.requireAuth(s.handleListBankTransactions))
	s.mux.HandleFunc("POST /api/bank/transactions", s.requireAuth(s.handleAddBankTransaction))

	// Reports
	s.mux.HandleFunc("GET /api/reports/dashboard", s.requireAuth(s.handleDashboard))
	s.mux.HandleFunc("GET /api/reports/profit-loss", s.requireAuth(s.handleProfitLoss))
	s.mux.HandleFunc("GET /api/reports/balance-sheet", s.requireAuth(s.handleBalanceSheet))
	s.mux.HandleFunc("GET /api/reports/cash-flow", s.requireAuth(s.handleCashFlow))
	s.mux.HandleFunc("GET /api/reports/monthly", s.requireAuth(s.handleMonthlyTrend))
	s.mux.HandleFunc("GET /api/reports/expense-breakdown", s.requireAuth(s.handleExpenseBreakdown))

	// Exports
	s.mux.HandleFunc("GET /api/export/transactions.xlsx", s.requireAuth(s.handleExportTransactionsXLSX))
	s.mux.HandleFunc("GET /api/export/receipts.xlsx", s.requireAuth(s.handleExportReceiptsXLSX))

	// Assistant
	s.mux.HandleFunc("POST /api/assistant/chat", s.requireAuth(s.handleAssistantChat))

	// Settings
	s.mux.HandleFunc("GET /api/settings", s.requireAuth(s.handleGetSettings))
	s.mux.HandleFunc("PUT /api/settings", s.requireAuth(s.handleUpdateSettings))
}

// Start starts the HTTP server
func (s *Server) Start(addr string) error {
	slog.Info("Starting server", "address", addr)
	// Wrap the mux with CORS middleware to handle all requests including OPTIONS
	return http.ListenAndServe(addr, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.corsMiddleware(func(w http.ResponseWriter, r *http.Request) {
			s.mux.ServeHTTP(w, r)
		})(w, r)
	}))
}

// ServeHTTP implements http.Handler for testing
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}
