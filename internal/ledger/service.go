package ledger

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Validation errors returned by Add and Update.
var (
	ErrInvalidType     = errors.New("transaction type must be income or expense")
	ErrInvalidAmount   = errors.New("transaction amount must be positive")
	ErrInvalidCategory = errors.New("category does not belong to the transaction type")
	ErrEmptyDesc       = errors.New("transaction description is required")
)

// IDGenerator generates unique IDs for transactions.
type IDGenerator interface {
	Generate() string
}

// TimeSource provides the current time.
type TimeSource interface {
	Now() time.Time
}

type uuidGenerator struct{}

func (uuidGenerator) Generate() string { return uuid.NewString() }

type defaultTimeSource struct{}

func (defaultTimeSource) Now() time.Time { return time.Now() }

// DB defines the persistence operations the service needs. List returns
// transactions newest first.
type DB interface {
	SaveTransaction(tx *Transaction) error
	GetTransaction(id string) (*Transaction, error)
	ListTransactions() ([]*Transaction, error)
	DeleteTransaction(id string) error
}

// Service manages ledger entries.
type Service struct {
	db          DB
	idGenerator IDGenerator
	timeSource  TimeSource
}

// NewService creates a new Service with default ID generator and time source.
func NewService(db DB) *Service {
	return &Service{db: db, idGenerator: uuidGenerator{}, timeSource: defaultTimeSource{}}
}

// NewServiceWithDeps creates a new Service with custom dependencies for testing.
func NewServiceWithDeps(db DB, idGen IDGenerator, timeSrc TimeSource) *Service {
	return &Service{db: db, idGenerator: idGen, timeSource: timeSrc}
}

// Input carries the caller-supplied fields of a transaction.
type Input struct {
	Date        time.Time       `json:"date"`
	Type        TransactionType `json:"type"`
	Amount      float64         `json:"amount"`
	Category    Category        `json:"category"`
	Description string          `json:"description"`
	ReceiptID   string          `json:"receipt_id,omitempty"`
	IsRecurring bool            `json:"is_recurring,omitempty"`
}

func validate(in Input) error {
	if in.Type != TypeIncome && in.Type != TypeExpense {
		return ErrInvalidType
	}
	if in.Amount <= 0 {
		return ErrInvalidAmount
	}
	if !ValidCategory(in.Type, in.Category) {
		return ErrInvalidCategory
	}
	if in.Description == "" {
		return ErrEmptyDesc
	}
	return nil
}

// Add validates and persists a new transaction.
func (s *Service) Add(in Input) (*Transaction, error) {
	if err := validate(in); err != nil {
		return nil, err
	}

	now := s.timeSource.Now()
	date := in.Date
	if date.IsZero() {
		date = now
	}

	tx := &Transaction{
		ID:          s.idGenerator.Generate(),
		Date:        date,
		Type:        in.Type,
		Amount:      in.Amount,
		Category:    in.Category,
		Description: in.Description,
		ReceiptID:   in.ReceiptID,
		IsRecurring: in.IsRecurring,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.db.SaveTransaction(tx); err != nil {
		return nil, fmt.Errorf("saving transaction: %w", err)
	}
	return tx, nil
}

// Update replaces the caller-supplied fields of an existing transaction.
func (s *Service) Update(id string, in Input) (*Transaction, error) {
	if err := validate(in); err != nil {
		return nil, err
	}

	tx, err := s.db.GetTransaction(id)
	if err != nil {
		return nil, fmt.Errorf("getting transaction: %w", err)
	}

	tx.Type = in.Type
	tx.Amount = in.Amount
	tx.Category = in.Category
	tx.Description = in.Description
	tx.ReceiptID = in.ReceiptID
	tx.IsRecurring = in.IsRecurring
	if !in.Date.IsZero() {
		tx.Date = in.Date
	}
	tx.UpdatedAt = s.timeSource.Now()

	if err := s.db.SaveTransaction(tx); err != nil {
		return nil, fmt.Errorf("saving transaction: %w", err)
	}
	return tx, nil
}

// Get retrieves a transaction by ID.
func (s *Service) Get(id string) (*Transaction, error) {
	tx, err := s.db.GetTransaction(id)
	if err != nil {
		return nil, fmt.Errorf("getting transaction: %w", err)
	}
	return tx, nil
}

// List returns all transactions, newest first.
func (s *Service) List() ([]*Transaction, error) {
	txs, err := s.db.ListTransactions()
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	return txs, nil
}

// Delete removes a transaction.
func (s *Service) Delete(id string) error {
	if err := s.db.DeleteTransaction(id); err != nil {
		return fmt.Errorf("deleting transaction: %w", err)
	}
	return nil
}
