package invoice

import "time"

// Status is the lifecycle state of an invoice.
type Status string

const (
	StatusDraft   Status = "draft"
	StatusSent    Status = "sent"
	StatusPaid    Status = "paid"
	StatusOverdue Status = "overdue"
)

// Item is one billed line of an invoice. Total is always recomputed from
// quantity and unit price on write.
type Item struct {
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Total       float64 `json:"total"`
}

// Invoice is a bill issued to a client.
type Invoice struct {
	ID            string    `json:"id"`
	InvoiceNumber string    `json:"invoice_number"`
	ClientName    string    `json:"client_name"`
	ClientEmail   string    `json:"client_email"`
	ClientAddress string    `json:"client_address,omitempty"`
	Items         []Item    `json:"items"`
	Subtotal      float64   `json:"subtotal"`
	TaxRate       float64   `json:"tax_rate"`
	TaxAmount     float64   `json:"tax_amount"`
	Total         float64   `json:"total"`
	Status        Status    `json:"status"`
	IssueDate     time.Time `json:"issue_date"`
	DueDate       time.Time `json:"due_date"`
	PaidDate      time.Time `json:"paid_date"`
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Client is a billing counterparty.
type Client struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	Company   string    `json:"company,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// CalculateTax returns the flat tax on an amount for a percentage rate.
func CalculateTax(amount, taxRate float64) float64 {
	return amount * (taxRate / 100)
}
