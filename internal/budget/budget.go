package budget

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/aryasetiadi/bukukas/internal/ledger"
)

// Period is the time span a budget amount covers.
type Period string

const (
	PeriodMonthly   Period = "monthly"
	PeriodQuarterly Period = "quarterly"
	PeriodYearly    Period = "yearly"
)

// Budget is a spending cap for one expense category over a period.
type Budget struct {
	ID        string          `json:"id"`
	Category  ledger.Category `json:"category"`
	Amount    float64         `json:"amount"`
	Period    Period          `json:"period"`
	StartDate time.Time       `json:"start_date"`
	EndDate   time.Time       `json:"end_date"`
	CreatedAt time.Time       `json:"created_at"`
}

// Usage is a budget joined with the actual spend inside its window.
type Usage struct {
	Budget
	Spent     float64 `json:"spent"`
	Remaining float64 `json:"remaining"`
	Percent   float64 `json:"percent"`
}

// Validation errors.
var (
	ErrInvalidPeriod   = errors.New("budget period must be monthly, quarterly or yearly")
	ErrInvalidAmount   = errors.New("budget amount must be positive")
	ErrInvalidCategory = errors.New("budget category must be an expense category")
)

// IDGenerator generates unique IDs for budgets.
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

// DB defines the persistence operations the service needs.
type DB interface {
	SaveBudget(b *Budget) error
	ListBudgets() ([]*Budget, error)
	DeleteBudget(id string) error

	ListTransactions() ([]*ledger.Transaction, error)
}

// Service manages budgets and computes their usage against the ledger.
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

// periodSpan returns the window [start, end] a period covers from its
// start date.
func periodSpan(period Period, start time.Time) (time.Time, time.Time) {
	switch period {
	case PeriodQuarterly:
		return start, start.AddDate(0, 3, -1)
	case PeriodYearly:
		return start, start.AddDate(1, 0, -1)
	default:
		return start, start.AddDate(0, 1, -1)
	}
}

// Add validates and persists a new budget. A zero start date begins the
// window on the first of the current month.
func (s *Service) Add(category ledger.Category, amount float64, period Period, start time.Time) (*Budget, error) {
	if period != PeriodMonthly && period != PeriodQuarterly && period != PeriodYearly {
		return nil, ErrInvalidPeriod
	}
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if !ledger.ValidCategory(ledger.TypeExpense, category) {
		return nil, ErrInvalidCategory
	}

	now := s.timeSource.Now()
	if start.IsZero() {
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	}
	startDate, endDate := periodSpan(period, start)

	b := &Budget{
		ID:        s.idGenerator.Generate(),
		Category:  category,
		Amount:    amount,
		Period:    period,
		StartDate: startDate,
		EndDate:   endDate,
		CreatedAt: now,
	}
	if err := s.db.SaveBudget(b); err != nil {
		return nil, fmt.Errorf("saving budget: %w", err)
	}
	return b, nil
}

// List returns all budgets.
func (s *Service) List() ([]*Budget, error) {
	budgets, err := s.db.ListBudgets()
	if err != nil {
		return nil, fmt.Errorf("listing budgets: %w", err)
	}
	return budgets, nil
}

// Delete removes a budget.
func (s *Service) Delete(id string) error {
	if err := s.db.DeleteBudget(id); err != nil {
		return fmt.Errorf("deleting budget: %w", err)
	}
	return nil
}

// ListUsage joins every budget with the expense total of its category
// inside its window.
func (s *Service) ListUsage() ([]*Usage, error) {
	budgets, err := s.db.ListBudgets()
	if err != nil {
		return nil, fmt.Errorf("listing budgets: %w", err)
	}
	transactions, err := s.db.ListTransactions()
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}

	usages := make([]*Usage, 0, len(budgets))
	for _, b := range budgets {
		var spent float64
		for _, tx := range transactions {
			if tx.Type != ledger.TypeExpense || tx.Category != b.Category {
				continue
			}
			if tx.Date.Before(b.StartDate) || tx.Date.After(b.EndDate) {
				continue
			}
			spent += tx.Amount
		}

		u := &Usage{
			Budget:    *b,
			Spent:     spent,
			Remaining: b.Amount - spent,
		}
		if b.Amount > 0 {
			u.Percent = spent / b.Amount * 100
		}
		usages = append(usages, u)
	}
	return usages, nil
}
