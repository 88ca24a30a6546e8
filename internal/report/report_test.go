package report

import (
	"io"
	"log/slog"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/aryasetiadi/bukukas/internal/invoice"
	"github.com/aryasetiadi/bukukas/internal/ledger"
)

func TestReport(t *testing.T) {
	// Disable logging during tests
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))

	RegisterFailHandler(Fail)
	RunSpecs(t, "Report Suite")
}

type mockProvider struct {
	transactions []*ledger.Transaction
	invoices     []*invoice.Invoice
	taxRate      float64
}

func (m *mockProvider) ListTransactions() ([]*ledger.Transaction, error) {
	return m.transactions, nil
}

func (m *mockProvider) ListInvoices() ([]*invoice.Invoice, error) {
	return m.invoices, nil
}

func (m *mockProvider) TaxRate() (float64, error) {
	return m.taxRate, nil
}

type fixedTimeSource struct{ now time.Time }

func (t fixedTimeSource) Now() time.Time { return t.now }

func tx(date time.Time, txType ledger.TransactionType, category ledger.Category, amount float64) *ledger.Transaction {
	return &ledger.Transaction{Date: date, Type: txType, Category: category, Amount: amount}
}

var _ = Describe("Service", func() {
	var (
		provider *mockProvider
		service  *Service
		now      time.Time
	)

	BeforeEach(func() {
		now = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
		provider = &mockProvider{taxRate: 10}
		service = NewServiceWithDeps(provider, fixedTimeSource{now: now})
	})

	Describe("Dashboard", func() {
		BeforeEach(func() {
			provider.transactions = []*ledger.Transaction{
				tx(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), ledger.TypeIncome, ledger.CategorySales, 5000000),
				tx(time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), ledger.TypeExpense, ledger.CategoryRent, 1500000),
				// Previous month, excluded
				tx(time.Date(2024, 2, 20, 0, 0, 0, 0, time.UTC), ledger.TypeIncome, ledger.CategorySales, 9999999),
			}
			provider.invoices = []*invoice.Invoice{
				{Status: invoice.StatusSent},
				{Status: invoice.StatusSent},
				{Status: invoice.StatusOverdue},
				{Status: invoice.StatusPaid},
				{Status: invoice.StatusDraft},
			}
		})

		It("should total only the current month", func() {
			summary, err := service.Dashboard()
			Expect(err).NotTo(HaveOccurred())
			Expect(summary.TotalIncome).To(Equal(5000000.0))
			Expect(summary.TotalExpenses).To(Equal(1500000.0))
			Expect(summary.NetProfit).To(Equal(3500000.0))
		})

		It("should count pending and overdue invoices", func() {
			summary, err := service.Dashboard()
			Expect(err).NotTo(HaveOccurred())
			Expect(summary.PendingInvoices).To(Equal(2))
			Expect(summary.OverdueInvoices).To(Equal(1))
		})

		It("should estimate tax from the configured rate", func() {
			summary, err := service.Dashboard()
			Expect(err).NotTo(HaveOccurred())
			Expect(summary.TaxOwed).To(Equal(350000.0))
		})

		It("should never owe tax on a loss", func() {
			provider.transactions = []*ledger.Transaction{
				tx(time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), ledger.TypeExpense, ledger.CategoryRent, 1500000),
			}
			summary, err := service.Dashboard()
			Expect(err).NotTo(HaveOccurred())
			Expect(summary.TaxOwed).To(BeZero())
			Expect(summary.NetProfit).To(Equal(-1500000.0))
		})
	})

	Describe("ProfitLossReport", func() {
		BeforeEach(func() {
			provider.transactions = []*ledger.Transaction{
				tx(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), ledger.TypeIncome, ledger.CategorySales, 5000000),
				tx(time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), ledger.TypeIncome, ledger.CategoryServices, 2500000),
				tx(time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), ledger.TypeExpense, ledger.CategoryRent, 1500000),
				tx(time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), ledger.TypeIncome, ledger.CategorySales, 7777777),
			}
		})

		It("should break totals down by category inside the window", func() {
			start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
			end := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
			report, err := service.ProfitLossReport(start, end)
			Expect(err).NotTo(HaveOccurred())
			Expect(report.Revenue).To(Equal(7500000.0))
			Expect(report.Expenses).To(Equal(1500000.0))
			Expect(report.NetProfit).To(Equal(6000000.0))
			Expect(report.IncomeByCategory).To(HaveKeyWithValue("Sales", 5000000.0))
			Expect(report.IncomeByCategory).To(HaveKeyWithValue("Services", 2500000.0))
			Expect(report.ExpensesByCategory).To(HaveKeyWithValue("Rent", 1500000.0))
			Expect(report.Period).To(Equal("2024-03-01 to 2024-03-31"))
		})
	})

	Describe("BalanceSheetReport", func() {
		It("should compute assets, liabilities and equity", func() {
			provider.transactions = []*ledger.Transaction{
				tx(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), ledger.TypeIncome, ledger.CategorySales, 10000000),
				tx(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), ledger.TypeExpense, ledger.CategoryRent, 4000000),
			}
			sheet, err := service.BalanceSheetReport()
			Expect(err).NotTo(HaveOccurred())
			Expect(sheet.Assets).To(Equal(10000000.0))
			Expect(sheet.Liabilities).To(Equal(1200000.0))
			Expect(sheet.Equity).To(Equal(6000000.0))
			Expect(sheet.Date).To(Equal(now))
		})
	})

	Describe("CashFlowReport", func() {
		It("should net income against expenses inside the window", func() {
			provider.transactions = []*ledger.Transaction{
				tx(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), ledger.TypeIncome, ledger.CategorySales, 5000000),
				tx(time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), ledger.TypeExpense, ledger.CategoryRent, 1500000),
			}
			start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
			end := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
			flow, err := service.CashFlowReport(start, end)
			Expect(err).NotTo(HaveOccurred())
			Expect(flow.OperatingActivities).To(Equal(3500000.0))
			Expect(flow.NetCashFlow).To(Equal(3500000.0))
			Expect(flow.InvestingActivities).To(BeZero())
			Expect(flow.FinancingActivities).To(BeZero())
		})
	})

	Describe("MonthlyTrend", func() {
		It("should keep only the last six months, oldest first", func() {
			for month := 1; month <= 8; month++ {
				provider.transactions = append(provider.transactions,
					tx(time.Date(2024, time.Month(month), 1, 0, 0, 0, 0, time.UTC),
						ledger.TypeIncome, ledger.CategorySales, float64(month)*100))
			}

			trend, err := service.MonthlyTrend()
			Expect(err).NotTo(HaveOccurred())
			Expect(trend).To(HaveLen(6))
			Expect(trend[0].Month).To(Equal("2024-03"))
			Expect(trend[5].Month).To(Equal("2024-08"))
			Expect(trend[0].Income).To(Equal(300.0))
		})
	})

	Describe("ExpenseBreakdown", func() {
		It("should total per category, largest first", func() {
			provider.transactions = []*ledger.Transaction{
				tx(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), ledger.TypeExpense, ledger.CategoryRent, 1500000),
				tx(time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), ledger.TypeExpense, ledger.CategoryMarketing, 500000),
				tx(time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC), ledger.TypeExpense, ledger.CategoryMarketing, 250000),
				tx(time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), ledger.TypeIncome, ledger.CategorySales, 9999999),
			}

			breakdown, err := service.ExpenseBreakdown()
			Expect(err).NotTo(HaveOccurred())
			Expect(breakdown).To(HaveLen(2))
			Expect(breakdown[0]).To(Equal(CategoryAmount{Name: "Rent", Value: 1500000}))
			Expect(breakdown[1]).To(Equal(CategoryAmount{Name: "Marketing", Value: 750000}))
		})
	})
})
