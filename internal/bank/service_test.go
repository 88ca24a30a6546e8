package bank

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/aryasetiadi/bukukas/internal/ledger"
)

func TestBank(t *testing.T) {
	// Disable logging during tests
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))

	RegisterFailHandler(Fail)
	RunSpecs(t, "Bank Suite")
}

type mockDB struct {
	bankTxs   []*Transaction
	ledgerTxs map[string]*ledger.Transaction
}

func newMockDB() *mockDB {
	return &mockDB{ledgerTxs: make(map[string]*ledger.Transaction)}
}

func (m *mockDB) SaveBankTransaction(tx *Transaction) error {
	for i, existing := range m.bankTxs {
		if existing.ID == tx.ID {
			m.bankTxs[i] = tx
			return nil
		}
	}
	m.bankTxs = append(m.bankTxs, tx)
	return nil
}

func (m *mockDB) ListBankTransactions() ([]*Transaction, error) {
	return m.bankTxs, nil
}

func (m *mockDB) GetTransaction(id string) (*ledger.Transaction, error) {
	tx, ok := m.ledgerTxs[id]
	if !ok {
		return nil, errors.New("transaction not found")
	}
	return tx, nil
}

func (m *mockDB) ListTransactions() ([]*ledger.Transaction, error) {
	txs := make([]*ledger.Transaction, 0, len(m.ledgerTxs))
	for _, tx := range m.ledgerTxs {
		txs = append(txs, tx)
	}
	return txs, nil
}

type seqIDGenerator struct{ n int }

func (g *seqIDGenerator) Generate() string {
	g.n++
	return fmt.Sprintf("bank-%d", g.n)
}

var _ = Describe("Service", func() {
	var (
		db      *mockDB
		service *Service
		day     time.Time
	)

	BeforeEach(func() {
		db = newMockDB()
		service = NewServiceWithDeps(db, &seqIDGenerator{})
		day = time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	})

	Describe("Add", func() {
		It("should derive income from a positive amount", func() {
			tx, err := service.Add(day, "Wire Transfer - ABC Corp", 1650000)
			Expect(err).NotTo(HaveOccurred())
			Expect(tx.Type).To(Equal(ledger.TypeIncome))
		})

		It("should derive expense from a negative amount", func() {
			tx, err := service.Add(day, "Office Depot", -200000)
			Expect(err).NotTo(HaveOccurred())
			Expect(tx.Type).To(Equal(ledger.TypeExpense))
		})

		It("should reject a zero amount", func() {
			_, err := service.Add(day, "Nothing", 0)
			Expect(err).To(MatchError(ErrZeroAmount))
		})

		It("should reject a blank description", func() {
			_, err := service.Add(day, "  ", 100)
			Expect(err).To(MatchError(ErrNoDesc))
		})
	})

	Describe("Match", func() {
		BeforeEach(func() {
			db.ledgerTxs["tx-1"] = &ledger.Transaction{ID: "tx-1", Amount: 500}
			_, err := service.Add(day, "Unknown Payment", -500)
			Expect(err).NotTo(HaveOccurred())
		})

		It("should link the statement line to the ledger entry", func() {
			tx, err := service.Match("bank-1", "tx-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(tx.Matched).To(BeTrue())
			Expect(tx.MatchedID).To(Equal("tx-1"))
		})

		It("should fail for an unknown ledger entry", func() {
			_, err := service.Match("bank-1", "nope")
			Expect(err).To(HaveOccurred())
		})

		It("should fail for an unknown statement line", func() {
			_, err := service.Match("nope", "tx-1")
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("AutoMatch", func() {
		BeforeEach(func() {
			db.ledgerTxs["tx-1"] = &ledger.Transaction{
				ID: "tx-1", Type: ledger.TypeExpense, Amount: 350000,
				Description: "Electricity and internet",
				Date:        time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC),
			}
			db.ledgerTxs["tx-2"] = &ledger.Transaction{
				ID: "tx-2", Type: ledger.TypeIncome, Amount: 1375000,
				Description: "Consulting services",
				Date:        time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
			}
		})

		It("should match on exact amount within the date window", func() {
			_, err := service.Add(time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), "Electric Company", -350000)
			Expect(err).NotTo(HaveOccurred())

			matched, err := service.AutoMatch()
			Expect(err).NotTo(HaveOccurred())
			Expect(matched).To(Equal(1))
			Expect(db.bankTxs[0].MatchedID).To(Equal("tx-1"))
		})

		It("should not match outside the date window without a hint", func() {
			_, err := service.Add(time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC), "Electric Company", -350000)
			Expect(err).NotTo(HaveOccurred())

			matched, err := service.AutoMatch()
			Expect(err).NotTo(HaveOccurred())
			Expect(matched).To(BeZero())
		})

		It("should match on a description hint regardless of date", func() {
			_, err := service.Add(time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC), "Transfer for consulting services", 1375000)
			Expect(err).NotTo(HaveOccurred())

			matched, err := service.AutoMatch()
			Expect(err).NotTo(HaveOccurred())
			Expect(matched).To(Equal(1))
			Expect(db.bankTxs[0].MatchedID).To(Equal("tx-2"))
		})

		It("should not match when the types differ", func() {
			// Positive amount, income type, but tx-1 is an expense
			_, err := service.Add(time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC), "Electric refund", 350000)
			Expect(err).NotTo(HaveOccurred())

			matched, err := service.AutoMatch()
			Expect(err).NotTo(HaveOccurred())
			Expect(matched).To(BeZero())
		})

		It("should consume each ledger entry at most once", func() {
			_, err := service.Add(time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC), "Electric Company", -350000)
			Expect(err).NotTo(HaveOccurred())
			_, err = service.Add(time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), "Electric Company again", -350000)
			Expect(err).NotTo(HaveOccurred())

			matched, err := service.AutoMatch()
			Expect(err).NotTo(HaveOccurred())
			Expect(matched).To(Equal(1))
		})

		It("should skip lines that are already matched", func() {
			_, err := service.Add(time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC), "Electric Company", -350000)
			Expect(err).NotTo(HaveOccurred())
			db.bankTxs[0].Matched = true
			db.bankTxs[0].MatchedID = "tx-1"

			matched, err := service.AutoMatch()
			Expect(err).NotTo(HaveOccurred())
			Expect(matched).To(BeZero())
		})
	})

	Describe("ImportJSON", func() {
		It("should import all validated lines", func() {
			data := []byte(`{"transactions":[
				{"date":"2024-03-02","description":"Wire Transfer - ABC Corp","amount":1650000},
				{"date":"2024-03-06","description":"Office Depot","amount":-200000}
			]}`)

			imported, err := service.ImportJSON(data)
			Expect(err).NotTo(HaveOccurred())
			Expect(imported).To(HaveLen(2))
			Expect(imported[0].Type).To(Equal(ledger.TypeIncome))
			Expect(imported[1].Type).To(Equal(ledger.TypeExpense))
			Expect(db.bankTxs).To(HaveLen(2))
		})

		It("should reject a statement missing required fields", func() {
			data := []byte(`{"transactions":[{"date":"2024-03-02","amount":100}]}`)
			_, err := service.ImportJSON(data)
			Expect(err).To(MatchError(ContainSubstring("schema")))
			Expect(db.bankTxs).To(BeEmpty())
		})

		It("should reject an empty transaction list", func() {
			data := []byte(`{"transactions":[]}`)
			_, err := service.ImportJSON(data)
			Expect(err).To(HaveOccurred())
		})

		It("should reject malformed JSON", func() {
			_, err := service.ImportJSON([]byte(`{"transactions":`))
			Expect(err).To(HaveOccurred())
		})

		It("should reject an unparseable date before recording anything", func() {
			data := []byte(`{"transactions":[
				{"date":"2024-03-02","description":"ok","amount":100},
				{"date":"03/02/2024","description":"bad date","amount":100}
			]}`)
			_, err := service.ImportJSON(data)
			Expect(err).To(HaveOccurred())
			Expect(db.bankTxs).To(BeEmpty())
		})
	})
})
