package assistant

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aryasetiadi/bukukas/internal/receipt"
	"github.com/aryasetiadi/bukukas/internal/report"
)

// Message is one turn of the assistant conversation.
type Message struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// DataProvider supplies the live figures woven into responses. The
// assistant only ever reads.
type DataProvider interface {
	Dashboard() (*report.DashboardSummary, error)
	ExpenseBreakdown() ([]report.CategoryAmount, error)
}

// IDGenerator generates unique IDs for messages.
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

// Service answers bookkeeping questions with canned guidance enriched
// with live figures. Keyword matching is deliberate; there is no model
// call behind it.
type Service struct {
	provider    DataProvider
	idGenerator IDGenerator
	timeSource  TimeSource
}

// NewService creates a new Service with default ID generator and time source.
func NewService(provider DataProvider) *Service {
	return &Service{provider: provider, idGenerator: uuidGenerator{}, timeSource: defaultTimeSource{}}
}

// NewServiceWithDeps creates a new Service with custom dependencies for testing.
func NewServiceWithDeps(provider DataProvider, idGen IDGenerator, timeSrc TimeSource) *Service {
	return &Service{provider: provider, idGenerator: idGen, timeSource: timeSrc}
}

// Reply generates the assistant's answer to a user message. Keywords are
// checked in a fixed order; the first hit wins.
func (s *Service) Reply(userMessage string) (*Message, error) {
	content, err := s.respond(strings.ToLower(userMessage))
	if err != nil {
		return nil, err
	}
	return &Message{
		ID:        s.idGenerator.Generate(),
		Role:      "assistant",
		Content:   content,
		Timestamp: s.timeSource.Now(),
	}, nil
}

func (s *Service) respond(message string) (string, error) {
	switch {
	case strings.Contains(message, "tax"):
		return taxResponse, nil
	case strings.Contains(message, "invoice"):
		summary, err := s.provider.Dashboard()
		if err != nil {
			return "", fmt.Errorf("getting dashboard summary: %w", err)
		}
		return fmt.Sprintf(invoiceResponse, summary.OverdueInvoices), nil
	case strings.Contains(message, "profit"), strings.Contains(message, "loss"), strings.Contains(message, "pnl"):
		return profitLossResponse, nil
	case strings.Contains(message, "cash flow"):
		summary, err := s.provider.Dashboard()
		if err != nil {
			return "", fmt.Errorf("getting dashboard summary: %w", err)
		}
		return fmt.Sprintf(cashFlowResponse, receipt.FormatRupiah(summary.NetProfit)), nil
	case strings.Contains(message, "expense"):
		breakdown, err := s.provider.ExpenseBreakdown()
		if err != nil {
			return "", fmt.Errorf("getting expense breakdown: %w", err)
		}
		return expenseResponse + topExpenses(breakdown), nil
	case strings.Contains(message, "budget"):
		return budgetResponse, nil
	case strings.Contains(message, "financial health"), strings.Contains(message, "financials"):
		summary, err := s.provider.Dashboard()
		if err != nil {
			return "", fmt.Errorf("getting dashboard summary: %w", err)
		}
		return fmt.Sprintf(healthResponse,
			receipt.FormatRupiah(summary.TotalIncome),
			receipt.FormatRupiah(summary.TotalExpenses),
			receipt.FormatRupiah(summary.NetProfit),
			summary.PendingInvoices,
			summary.OverdueInvoices,
			receipt.FormatRupiah(summary.TaxOwed),
		), nil
	default:
		return defaultResponse, nil
	}
}

func topExpenses(breakdown []report.CategoryAmount) string {
	if len(breakdown) > 3 {
		breakdown = breakdown[:3]
	}
	var b strings.Builder
	for _, entry := range breakdown {
		fmt.Fprintf(&b, "- %s: %s\n", entry.Name, receipt.FormatRupiah(entry.Value))
	}
	return b.String()
}
