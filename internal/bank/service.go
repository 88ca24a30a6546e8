package bank

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aryasetiadi/bukukas/internal/ledger"
)

// Validation errors.
var (
	ErrZeroAmount = errors.New("bank transaction amount must be non-zero")
	ErrNoDesc     = errors.New("bank transaction description is required")
)

// matchWindowDays is the maximum date distance for an amount-only match.
const matchWindowDays = 3

// IDGenerator generates unique IDs for bank transactions.
type IDGenerator interface {
	Generate() string
}

type uuidGenerator struct{}

func (uuidGenerator) Generate() string { return uuid.NewString() }

// DB defines the persistence operations the service needs.
type DB interface {
	SaveBankTransaction(tx *Transaction) error
	ListBankTransactions() ([]*Transaction, error)

	GetTransaction(id string) (*ledger.Transaction, error)
	ListTransactions() ([]*ledger.Transaction, error)
}

// Service manages bank statement lines and reconciliation against the
// ledger.
type Service struct {
	db          DB
	idGenerator IDGenerator
}

// NewService creates a new Service with the default ID generator.
func NewService(db DB) *Service {
	return &Service{db: db, idGenerator: uuidGenerator{}}
}

// NewServiceWithDeps creates a new Service with a custom ID generator for testing.
func NewServiceWithDeps(db DB, idGen IDGenerator) *Service {
	return &Service{db: db, idGenerator: idGen}
}

// Add records one statement line. The transaction type is derived from
// the sign of the amount.
func (s *Service) Add(date time.Time, description string, amount float64) (*Transaction, error) {
	if amount == 0 {
		return nil, ErrZeroAmount
	}
	if strings.TrimSpace(description) == "" {
		return nil, ErrNoDesc
	}

	txType := ledger.TypeIncome
	if amount < 0 {
		txType = ledger.TypeExpense
	}

	tx := &Transaction{
		ID:          s.idGenerator.Generate(),
		Date:        date,
		Description: description,
		Amount:      amount,
		Type:        txType,
	}
	if err := s.db.SaveBankTransaction(tx); err != nil {
		return nil, fmt.Errorf("saving bank transaction: %w", err)
	}
	return tx, nil
}

// List returns all bank transactions, newest first.
func (s *Service) List() ([]*Transaction, error) {
	txs, err := s.db.ListBankTransactions()
	if err != nil {
		return nil, fmt.Errorf("listing bank transactions: %w", err)
	}
	return txs, nil
}

// Match manually links a statement line to a ledger transaction.
func (s *Service) Match(bankTxID, ledgerTxID string) (*Transaction, error) {
	if _, err := s.db.GetTransaction(ledgerTxID); err != nil {
		return nil, fmt.Errorf("getting ledger transaction: %w", err)
	}

	txs, err := s.db.ListBankTransactions()
	if err != nil {
		return nil, fmt.Errorf("listing bank transactions: %w", err)
	}
	for _, tx := range txs {
		if tx.ID != bankTxID {
			continue
		}
		tx.Matched = true
		tx.MatchedID = ledgerTxID
		if err := s.db.SaveBankTransaction(tx); err != nil {
			return nil, fmt.Errorf("saving bank transaction: %w", err)
		}
		return tx, nil
	}
	return nil, fmt.Errorf("bank transaction %s not found", bankTxID)
}

// AutoMatch links unmatched statement lines to ledger entries. A line
// matches an entry when the amounts agree exactly and either the dates
// lie within three days or the statement description mentions the entry
// description. Each ledger entry is consumed by at most one line.
// Returns the number of lines matched.
func (s *Service) AutoMatch() (int, error) {
	bankTxs, err := s.db.ListBankTransactions()
	if err != nil {
		return 0, fmt.Errorf("listing bank transactions: %w", err)
	}
	ledgerTxs, err := s.db.ListTransactions()
	if err != nil {
		return 0, fmt.Errorf("listing transactions: %w", err)
	}

	consumed := make(map[string]bool)
	for _, tx := range bankTxs {
		if tx.Matched && tx.MatchedID != "" {
			consumed[tx.MatchedID] = true
		}
	}

	matched := 0
	for _, tx := range bankTxs {
		if tx.Matched {
			continue
		}

		amount := math.Abs(tx.Amount)
		for _, entry := range ledgerTxs {
			if consumed[entry.ID] || entry.Type != tx.Type || entry.Amount != amount {
				continue
			}
			if !matchesDate(tx.Date, entry.Date) && !matchesHint(tx.Description, entry.Description) {
				continue
			}

			tx.Matched = true
			tx.MatchedID = entry.ID
			if err := s.db.SaveBankTransaction(tx); err != nil {
				return matched, fmt.Errorf("saving bank transaction: %w", err)
			}
			consumed[entry.ID] = true
			matched++
			break
		}
	}
	return matched, nil
}

func matchesDate(a, b time.Time) bool {
	days := math.Abs(a.Sub(b).Hours() / 24)
	return days <= matchWindowDays
}

func matchesHint(statementDesc, entryDesc string) bool {
	statementDesc = strings.ToLower(statementDesc)
	entryDesc = strings.ToLower(entryDesc)
	if entryDesc == "" {
		return false
	}
	return strings.Contains(statementDesc, entryDesc) || strings.Contains(entryDesc, statementDesc)
}
