package budget

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/aryasetiadi/bukukas/internal/ledger"
)

func TestBudget(t *testing.T) {
	// Disable logging during tests
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))

	RegisterFailHandler(Fail)
	RunSpecs(t, "Budget Suite")
}

type mockDB struct {
	budgets      map[string]*Budget
	transactions []*ledger.Transaction
}

func newMockDB() *mockDB {
	return &mockDB{budgets: make(map[string]*Budget)}
}

func (m *mockDB) SaveBudget(b *Budget) error {
	m.budgets[b.ID] = b
	return nil
}

func (m *mockDB) ListBudgets() ([]*Budget, error) {
	budgets := make([]*Budget, 0, len(m.budgets))
	for _, b := range m.budgets {
		budgets = append(budgets, b)
	}
	return budgets, nil
}

func (m *mockDB) DeleteBudget(id string) error {
	if _, ok := m.budgets[id]; !ok {
		return errors.New("budget not found")
	}
	delete(m.budgets, id)
	return nil
}

func (m *mockDB) ListTransactions() ([]*ledger.Transaction, error) {
	return m.transactions, nil
}

type fixedIDGenerator struct{ id string }

func (g fixedIDGenerator) Generate() string { return g.id }

type fixedTimeSource struct{ now time.Time }

func (t fixedTimeSource) Now() time.Time { return t.now }

var _ = Describe("Service", func() {
	var (
		db      *mockDB
		service *Service
		now     time.Time
	)

	BeforeEach(func() {
		db = newMockDB()
		now = time.Date(2024, 3, 12, 9, 0, 0, 0, time.UTC)
		service = NewServiceWithDeps(db, fixedIDGenerator{id: "bud-1"}, fixedTimeSource{now: now})
	})

	Describe("Add", func() {
		It("should default the window to the current month", func() {
			b, err := service.Add(ledger.CategoryMarketing, 1000000, PeriodMonthly, time.Time{})
			Expect(err).NotTo(HaveOccurred())
			Expect(b.StartDate).To(Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)))
			Expect(b.EndDate).To(Equal(time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)))
		})

		It("should span three months for a quarterly period", func() {
			start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
			b, err := service.Add(ledger.CategoryRent, 4500000, PeriodQuarterly, start)
			Expect(err).NotTo(HaveOccurred())
			Expect(b.EndDate).To(Equal(time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)))
		})

		It("should span a year for a yearly period", func() {
			start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
			b, err := service.Add(ledger.CategorySoftware, 12000000, PeriodYearly, start)
			Expect(err).NotTo(HaveOccurred())
			Expect(b.EndDate).To(Equal(time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)))
		})

		It("should reject an unknown period", func() {
			_, err := service.Add(ledger.CategoryRent, 100, "weekly", time.Time{})
			Expect(err).To(MatchError(ErrInvalidPeriod))
		})

		It("should reject a non-positive amount", func() {
			_, err := service.Add(ledger.CategoryRent, 0, PeriodMonthly, time.Time{})
			Expect(err).To(MatchError(ErrInvalidAmount))
		})

		It("should reject an income category", func() {
			_, err := service.Add(ledger.CategorySales, 100, PeriodMonthly, time.Time{})
			Expect(err).To(MatchError(ErrInvalidCategory))
		})
	})

	Describe("ListUsage", func() {
		BeforeEach(func() {
			_, err := service.Add(ledger.CategoryMarketing, 1000000, PeriodMonthly, time.Time{})
			Expect(err).NotTo(HaveOccurred())

			db.transactions = []*ledger.Transaction{
				{Type: ledger.TypeExpense, Category: ledger.CategoryMarketing, Amount: 500000,
					Date: time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)},
				{Type: ledger.TypeExpense, Category: ledger.CategoryMarketing, Amount: 250000,
					Date: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)},
				// Outside the window
				{Type: ledger.TypeExpense, Category: ledger.CategoryMarketing, Amount: 999999,
					Date: time.Date(2024, 2, 28, 0, 0, 0, 0, time.UTC)},
				// Other category
				{Type: ledger.TypeExpense, Category: ledger.CategoryRent, Amount: 1500000,
					Date: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)},
				// Income never counts against a budget
				{Type: ledger.TypeIncome, Category: ledger.CategorySales, Amount: 5000000,
					Date: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)},
			}
		})

		It("should sum only in-window expenses of the category", func() {
			usages, err := service.ListUsage()
			Expect(err).NotTo(HaveOccurred())
			Expect(usages).To(HaveLen(1))
			Expect(usages[0].Spent).To(Equal(750000.0))
			Expect(usages[0].Remaining).To(Equal(250000.0))
			Expect(usages[0].Percent).To(Equal(75.0))
		})
	})

	Describe("Delete", func() {
		It("should remove an existing budget", func() {
			_, err := service.Add(ledger.CategoryRent, 100, PeriodMonthly, time.Time{})
			Expect(err).NotTo(HaveOccurred())
			Expect(service.Delete("bud-1")).To(Succeed())
			Expect(db.budgets).To(BeEmpty())
		})

		It("should fail for an unknown id", func() {
			Expect(service.Delete("nope")).NotTo(Succeed())
		})
	})
})
