package invoice

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Validation and state errors.
var (
	ErrNoItems       = errors.New("invoice needs at least one item")
	ErrInvalidItem   = errors.New("invoice item needs a description, positive quantity and non-negative unit price")
	ErrNoClient      = errors.New("invoice needs a client name")
	ErrInvalidStatus = errors.New("unknown invoice status")
	ErrNotSendable   = errors.New("only draft invoices can be sent")
	ErrNotPayable    = errors.New("only sent or overdue invoices can be paid")
)

// IDGenerator generates unique IDs for invoices and clients.
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

// DB defines the persistence operations the service needs. ListInvoices
// returns invoices newest issue date first.
type DB interface {
	SaveInvoice(inv *Invoice) error
	GetInvoice(id string) (*Invoice, error)
	ListInvoices() ([]*Invoice, error)
	DeleteInvoice(id string) error

	SaveClient(client *Client) error
	ListClients() ([]*Client, error)
}

// Service manages invoices and clients.
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

// Input carries the caller-supplied fields of an invoice. Monetary totals
// are never taken from the caller.
type Input struct {
	ClientName    string    `json:"client_name"`
	ClientEmail   string    `json:"client_email"`
	ClientAddress string    `json:"client_address,omitempty"`
	Items         []Item    `json:"items"`
	TaxRate       float64   `json:"tax_rate"`
	IssueDate     time.Time `json:"issue_date"`
	DueDate       time.Time `json:"due_date"`
	Notes         string    `json:"notes,omitempty"`
}

func validate(in Input) error {
	if strings.TrimSpace(in.ClientName) == "" {
		return ErrNoClient
	}
	if len(in.Items) == 0 {
		return ErrNoItems
	}
	for _, item := range in.Items {
		if strings.TrimSpace(item.Description) == "" || item.Quantity <= 0 || item.UnitPrice < 0 {
			return ErrInvalidItem
		}
	}
	return nil
}

// nextInvoiceNumber produces INV-YYYYMM-NNN where NNN counts invoices
// issued in the same month.
func (s *Service) nextInvoiceNumber(now time.Time) (string, error) {
	prefix := fmt.Sprintf("INV-%04d%02d-", now.Year(), int(now.Month()))

	invoices, err := s.db.ListInvoices()
	if err != nil {
		return "", err
	}
	count := 0
	for _, inv := range invoices {
		if strings.HasPrefix(inv.InvoiceNumber, prefix) {
			count++
		}
	}
	return fmt.Sprintf("%s%03d", prefix, count+1), nil
}

// Create validates the input, recomputes all monetary totals and persists
// a new draft invoice.
func (s *Service) Create(in Input) (*Invoice, error) {
	if err := validate(in); err != nil {
		return nil, err
	}

	now := s.timeSource.Now()
	number, err := s.nextInvoiceNumber(now)
	if err != nil {
		return nil, fmt.Errorf("numbering invoice: %w", err)
	}

	items := make([]Item, len(in.Items))
	var subtotal float64
	for i, item := range in.Items {
		item.Total = float64(item.Quantity) * item.UnitPrice
		items[i] = item
		subtotal += item.Total
	}
	taxAmount := CalculateTax(subtotal, in.TaxRate)

	issueDate := in.IssueDate
	if issueDate.IsZero() {
		issueDate = now
	}
	dueDate := in.DueDate
	if dueDate.IsZero() {
		dueDate = issueDate.AddDate(0, 0, 30)
	}

	inv := &Invoice{
		ID:            s.idGenerator.Generate(),
		InvoiceNumber: number,
		ClientName:    in.ClientName,
		ClientEmail:   in.ClientEmail,
		ClientAddress: in.ClientAddress,
		Items:         items,
		Subtotal:      subtotal,
		TaxRate:       in.TaxRate,
		TaxAmount:     taxAmount,
		Total:         subtotal + taxAmount,
		Status:        StatusDraft,
		IssueDate:     issueDate,
		DueDate:       dueDate,
		Notes:         in.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.db.SaveInvoice(inv); err != nil {
		return nil, fmt.Errorf("saving invoice: %w", err)
	}
	return inv, nil
}

// Get retrieves an invoice by ID.
func (s *Service) Get(id string) (*Invoice, error) {
	inv, err := s.db.GetInvoice(id)
	if err != nil {
		return nil, fmt.Errorf("getting invoice: %w", err)
	}
	return inv, nil
}

// List returns all invoices, newest issue date first.
func (s *Service) List() ([]*Invoice, error) {
	invoices, err := s.db.ListInvoices()
	if err != nil {
		return nil, fmt.Errorf("listing invoices: %w", err)
	}
	return invoices, nil
}

// Delete removes an invoice.
func (s *Service) Delete(id string) error {
	if err := s.db.DeleteInvoice(id); err != nil {
		return fmt.Errorf("deleting invoice: %w", err)
	}
	return nil
}

// Send moves a draft invoice to sent.
func (s *Service) Send(id string) (*Invoice, error) {
	inv, err := s.db.GetInvoice(id)
	if err != nil {
		return nil, fmt.Errorf("getting invoice: %w", err)
	}
	if inv.Status != StatusDraft {
		return nil, ErrNotSendable
	}

	inv.Status = StatusSent
	inv.UpdatedAt = s.timeSource.Now()
	if err := s.db.SaveInvoice(inv); err != nil {
		return nil, fmt.Errorf("saving invoice: %w", err)
	}
	return inv, nil
}

// MarkPaid records payment of a sent or overdue invoice.
func (s *Service) MarkPaid(id string) (*Invoice, error) {
	inv, err := s.db.GetInvoice(id)
	if err != nil {
		return nil, fmt.Errorf("getting invoice: %w", err)
	}
	if inv.Status != StatusSent && inv.Status != StatusOverdue {
		return nil, ErrNotPayable
	}

	now := s.timeSource.Now()
	inv.Status = StatusPaid
	inv.PaidDate = now
	inv.UpdatedAt = now
	if err := s.db.SaveInvoice(inv); err != nil {
		return nil, fmt.Errorf("saving invoice: %w", err)
	}
	return inv, nil
}

// RefreshOverdue flags every sent invoice whose due date has passed.
// Returns the number of invoices flagged.
func (s *Service) RefreshOverdue() (int, error) {
	invoices, err := s.db.ListInvoices()
	if err != nil {
		return 0, fmt.Errorf("listing invoices: %w", err)
	}

	now := s.timeSource.Now()
	flagged := 0
	for _, inv := range invoices {
		if inv.Status != StatusSent || !inv.DueDate.Before(now) {
			continue
		}
		inv.Status = StatusOverdue
		inv.UpdatedAt = now
		if err := s.db.SaveInvoice(inv); err != nil {
			return flagged, fmt.Errorf("saving invoice: %w", err)
		}
		flagged++
	}
	return flagged, nil
}

// AddClient persists a new client.
func (s *Service) AddClient(name, email, phone, address, company string) (*Client, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrNoClient
	}

	client := &Client{
		ID:        s.idGenerator.Generate(),
		Name:      name,
		Email:     email,
		Phone:     phone,
		Address:   address,
		Company:   company,
		CreatedAt: s.timeSource.Now(),
	}
	if err := s.db.SaveClient(client); err != nil {
		return nil, fmt.Errorf("saving client: %w", err)
	}
	return client, nil
}

// ListClients returns all clients.
func (s *Service) ListClients() ([]*Client, error) {
	clients, err := s.db.ListClients()
	if err != nil {
		return nil, fmt.Errorf("listing clients: %w", err)
	}
	return clients, nil
}
