package server

import (
	"log/slog"
	"net/http"
	"time"
)

// parsePeriod reads optional from/to query parameters. Missing bounds
// default to the current month.
func parsePeriod(r *http.Request, now time.Time) (time.Time, time.Time, error) {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)

	if from := r.URL.Query().Get("from"); from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			return start, end, err
		}
		start = t
	}
	if to := r.URL.Query().Get("to"); to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			return start, end, err
		}
		end = t
	}
	return start, end, nil
}

// handleDashboard returns the current-month summary
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	summary, err := s.services.Reports.Dashboard()
	if err != nil {
		slog.Error("Error computing dashboard summary", "error", err)
		corsError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// handleProfitLoss returns the profit and loss report for a period
func (s *Server) handleProfitLoss(w http.ResponseWriter, r *http.Request) {
	start, end, err := parsePeriod(r, time.Now())
	if err != nil {
		corsError(w, "Dates must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	report, err := s.services.Reports.ProfitLossReport(start, end)
	if err != nil {
		slog.Error("Error computing profit and loss", "error", err)
		corsError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// handleBalanceSheet returns the all-time balance sheet
func (s *Server) handleBalanceSheet(w http.ResponseWriter, r *http.Request) {
	sheet, err := s.services.Reports.BalanceSheetReport()
	if err != nil {
		slog.Error("Error computing balance sheet", "error", err)
		corsError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, sheet)
}

// handleCashFlow returns the cash flow report for a period
func (s *Server) handleCashFlow(w http.ResponseWriter, r *http.Request) {
	start, end, err := parsePeriod(r, time.Now())
	if err != nil {
		corsError(w, "Dates must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	flow, err := s.services.Reports.CashFlowReport(start, end)
	if err != nil {
		slog.Error("Error computing cash flow", "error", err)
		corsError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, flow)
}

// handleMonthlyTrend returns the six-month income and expense trend
func (s *Server) handleMonthlyTrend(w http.ResponseWriter, r *http.Request) {
	trend, err := s.services.Reports.MonthlyTrend()
	if err != nil {
		slog.Error("Error computing monthly trend", "error", err)
		corsError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, trend)
}

// handleExpenseBreakdown returns expense totals per category
func (s *Server) handleExpenseBreakdown(w http.ResponseWriter, r *http.Request) {
	breakdown, err := s.services.Reports.ExpenseBreakdown()
	if err != nil {
		slog.Error("Error computing expense breakdown", "error", err)
		corsError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, breakdown)
}
