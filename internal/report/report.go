package report

import (
	"fmt"
	"sort"
	"time"

	"github.com/aryasetiadi/bukukas/internal/invoice"
	"github.com/aryasetiadi/bukukas/internal/ledger"
)

// DashboardSummary is the current-month snapshot shown on the dashboard.
type DashboardSummary struct {
	TotalIncome     float64 `json:"total_income"`
	TotalExpenses   float64 `json:"total_expenses"`
	NetProfit       float64 `json:"net_profit"`
	PendingInvoices int     `json:"pending_invoices"`
	OverdueInvoices int     `json:"overdue_invoices"`
	TaxOwed         float64 `json:"tax_owed"`
}

// ProfitLoss is revenue against expenses over a period, broken down by
// category.
type ProfitLoss struct {
	Revenue            float64            `json:"revenue"`
	Expenses           float64            `json:"expenses"`
	NetProfit          float64            `json:"net_profit"`
	Period             string             `json:"period"`
	IncomeByCategory   map[string]float64 `json:"income_by_category"`
	ExpensesByCategory map[string]float64 `json:"expenses_by_category"`
}

// BalanceSheet is the simplified position statement: all-time income as
// assets, 30% of all-time expenses as liabilities.
type BalanceSheet struct {
	Assets      float64   `json:"assets"`
	Liabilities float64   `json:"liabilities"`
	Equity      float64   `json:"equity"`
	Date        time.Time `json:"date"`
}

// CashFlow is the movement of cash over a period. Only operating
// activities are tracked.
type CashFlow struct {
	OperatingActivities float64 `json:"operating_activities"`
	InvestingActivities float64 `json:"investing_activities"`
	FinancingActivities float64 `json:"financing_activities"`
	NetCashFlow         float64 `json:"net_cash_flow"`
	Period              string  `json:"period"`
}

// MonthlyData is one month's income and expense totals for the trend
// chart.
type MonthlyData struct {
	Month    string  `json:"month"`
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
}

// CategoryAmount is one slice of the expense breakdown chart.
type CategoryAmount struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// Provider supplies the data reports are computed from.
type Provider interface {
	ListTransactions() ([]*ledger.Transaction, error)
	ListInvoices() ([]*invoice.Invoice, error)
	TaxRate() (float64, error)
}

// TimeSource provides the current time.
type TimeSource interface {
	Now() time.Time
}

type defaultTimeSource struct{}

func (defaultTimeSource) Now() time.Time { return time.Now() }

// Service computes reports over the ledger and invoices.
type Service struct {
	provider   Provider
	timeSource TimeSource
}

// NewService creates a new Service with the default time source.
func NewService(provider Provider) *Service {
	return &Service{provider: provider, timeSource: defaultTimeSource{}}
}

// NewServiceWithDeps creates a new Service with a custom time source for testing.
func NewServiceWithDeps(provider Provider, timeSrc TimeSource) *Service {
	return &Service{provider: provider, timeSource: timeSrc}
}

func sameMonth(t, ref time.Time) bool {
	return t.Year() == ref.Year() && t.Month() == ref.Month()
}

// Dashboard computes the current-month summary. Estimated tax is the
// configured rate applied to positive net profit, never negative.
func (s *Service) Dashboard() (*DashboardSummary, error) {
	transactions, err := s.provider.ListTransactions()
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	invoices, err := s.provider.ListInvoices()
	if err != nil {
		return nil, fmt.Errorf("listing invoices: %w", err)
	}
	taxRate, err := s.provider.TaxRate()
	if err != nil {
		return nil, fmt.Errorf("getting tax rate: %w", err)
	}

	now := s.timeSource.Now()
	summary := &DashboardSummary{}
	for _, tx := range transactions {
		if !sameMonth(tx.Date, now) {
			continue
		}
		if tx.Type == ledger.TypeIncome {
			summary.TotalIncome += tx.Amount
		} else {
			summary.TotalExpenses += tx.Amount
		}
	}
	summary.NetProfit = summary.TotalIncome - summary.TotalExpenses

	for _, inv := range invoices {
		switch inv.Status {
		case invoice.StatusSent:
			summary.PendingInvoices++
		case invoice.StatusOverdue:
			summary.OverdueInvoices++
		}
	}

	if summary.NetProfit > 0 {
		summary.TaxOwed = summary.NetProfit * (taxRate / 100)
	}
	return summary, nil
}

// ProfitLossReport computes revenue and expenses between start and end
// inclusive, broken down by category.
func (s *Service) ProfitLossReport(start, end time.Time) (*ProfitLoss, error) {
	transactions, err := s.provider.ListTransactions()
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}

	report := &ProfitLoss{
		Period:             fmt.Sprintf("%s to %s", start.Format("2006-01-02"), end.Format("2006-01-02")),
		IncomeByCategory:   make(map[string]float64),
		ExpensesByCategory: make(map[string]float64),
	}
	for _, tx := range transactions {
		if tx.Date.Before(start) || tx.Date.After(end) {
			continue
		}
		if tx.Type == ledger.TypeIncome {
			report.Revenue += tx.Amount
			report.IncomeByCategory[string(tx.Category)] += tx.Amount
		} else {
			report.Expenses += tx.Amount
			report.ExpensesByCategory[string(tx.Category)] += tx.Amount
		}
	}
	report.NetProfit = report.Revenue - report.Expenses
	return report, nil
}

// BalanceSheetReport computes the simplified all-time position.
func (s *Service) BalanceSheetReport() (*BalanceSheet, error) {
	transactions, err := s.provider.ListTransactions()
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}

	var income, expenses float64
	for _, tx := range transactions {
		if tx.Type == ledger.TypeIncome {
			income += tx.Amount
		} else {
			expenses += tx.Amount
		}
	}
	return &BalanceSheet{
		Assets:      income,
		Liabilities: expenses * 0.3,
		Equity:      income - expenses,
		Date:        s.timeSource.Now(),
	}, nil
}

// CashFlowReport computes net cash movement between start and end
// inclusive.
func (s *Service) CashFlowReport(start, end time.Time) (*CashFlow, error) {
	transactions, err := s.provider.ListTransactions()
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}

	var operating float64
	for _, tx := range transactions {
		if tx.Date.Before(start) || tx.Date.After(end) {
			continue
		}
		if tx.Type == ledger.TypeIncome {
			operating += tx.Amount
		} else {
			operating -= tx.Amount
		}
	}
	return &CashFlow{
		OperatingActivities: operating,
		NetCashFlow:         operating,
		Period:              fmt.Sprintf("%s to %s", start.Format("2006-01-02"), end.Format("2006-01-02")),
	}, nil
}

// MonthlyTrend returns income and expense totals per month for the last
// six months that have data, oldest first.
func (s *Service) MonthlyTrend() ([]MonthlyData, error) {
	transactions, err := s.provider.ListTransactions()
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}

	byMonth := make(map[string]*MonthlyData)
	for _, tx := range transactions {
		key := tx.Date.Format("2006-01")
		data, ok := byMonth[key]
		if !ok {
			data = &MonthlyData{Month: key}
			byMonth[key] = data
		}
		if tx.Type == ledger.TypeIncome {
			data.Income += tx.Amount
		} else {
			data.Expenses += tx.Amount
		}
	}

	months := make([]MonthlyData, 0, len(byMonth))
	for _, data := range byMonth {
		months = append(months, *data)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Month < months[j].Month })
	if len(months) > 6 {
		months = months[len(months)-6:]
	}
	return months, nil
}

// ExpenseBreakdown returns all-time expense totals per category, largest
// first.
func (s *Service) ExpenseBreakdown() ([]CategoryAmount, error) {
	transactions, err := s.provider.ListTransactions()
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}

	totals := make(map[string]float64)
	for _, tx := range transactions {
		if tx.Type != ledger.TypeExpense {
			continue
		}
		totals[string(tx.Category)] += tx.Amount
	}

	breakdown := make([]CategoryAmount, 0, len(totals))
	for name, value := range totals {
		breakdown = append(breakdown, CategoryAmount{Name: name, Value: value})
	}
	sort.Slice(breakdown, func(i, j int) bool {
		if breakdown[i].Value != breakdown[j].Value {
			return breakdown[i].Value > breakdown[j].Value
		}
		return breakdown[i].Name < breakdown[j].Name
	})
	return breakdown, nil
}
