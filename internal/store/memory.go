package store

import (
	"errors"
	"sort"
	"sync"

	"github.com/aryasetiadi/bukukas/internal/bank"
	"github.com/aryasetiadi/bukukas/internal/budget"
	"github.com/aryasetiadi/bukukas/internal/invoice"
	"github.com/aryasetiadi/bukukas/internal/ledger"
	"github.com/aryasetiadi/bukukas/internal/receipt"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

// Settings holds the business profile and tax configuration.
type Settings struct {
	BusinessName    string  `json:"business_name"`
	BusinessEmail   string  `json:"business_email"`
	BusinessAddress string  `json:"business_address"`
	BusinessPhone   string  `json:"business_phone"`
	Currency        string  `json:"currency"`
	TaxRate         float64 `json:"tax_rate"`
}

// MemoryStore keeps all application data in memory behind one RWMutex.
// It backs every domain service; nothing survives a restart.
type MemoryStore struct {
	mu sync.RWMutex

	receipts     map[string]*receipt.ScannedReceipt
	transactions map[string]*ledger.Transaction
	invoices     map[string]*invoice.Invoice
	clients      map[string]*invoice.Client
	budgets      map[string]*budget.Budget
	bankTxs      map[string]*bank.Transaction
	settings     Settings
}

// NewMemoryStore creates an empty store with default settings.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		receipts:     make(map[string]*receipt.ScannedReceipt),
		transactions: make(map[string]*ledger.Transaction),
		invoices:     make(map[string]*invoice.Invoice),
		clients:      make(map[string]*invoice.Client),
		budgets:      make(map[string]*budget.Budget),
		bankTxs:      make(map[string]*bank.Transaction),
		settings: Settings{
			BusinessName:    "My Business",
			BusinessEmail:   "contact@business.com",
			BusinessAddress: "Jl. Sudirman No. 123, Jakarta",
			BusinessPhone:   "+62 812 3456 7890",
			Currency:        "IDR",
			TaxRate:         10,
		},
	}
}

// Receipt methods

func (m *MemoryStore) SaveReceipt(rec *receipt.ScannedReceipt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *rec
	m.receipts[rec.ID] = &cp
	return nil
}

func (m *MemoryStore) GetReceipt(id string) (*receipt.ScannedReceipt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.receipts[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *rec
	return &cp, nil
}

func (m *MemoryStore) ListReceipts() ([]*receipt.ScannedReceipt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	recs := make([]*receipt.ScannedReceipt, 0, len(m.receipts))
	for _, rec := range m.receipts {
		cp := *rec
		recs = append(recs, &cp)
	}
	sort.Slice(recs, func(i, j int) bool {
		return recs[i].ProcessedAt.After(recs[j].ProcessedAt)
	})
	return recs, nil
}

func (m *MemoryStore) DeleteReceipt(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.receipts[id]; !ok {
		return ErrNotFound
	}
	delete(m.receipts, id)
	return nil
}

// Ledger methods

func (m *MemoryStore) SaveTransaction(tx *ledger.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *tx
	m.transactions[tx.ID] = &cp
	return nil
}

func (m *MemoryStore) GetTransaction(id string) (*ledger.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	tx, ok := m.transactions[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *tx
	return &cp, nil
}

func (m *MemoryStore) ListTransactions() ([]*ledger.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	txs := make([]*ledger.Transaction, 0, len(m.transactions))
	for _, tx := range m.transactions {
		cp := *tx
		txs = append(txs, &cp)
	}
	sort.Slice(txs, func(i, j int) bool {
		return txs[i].Date.After(txs[j].Date)
	})
	return txs, nil
}

func (m *MemoryStore) DeleteTransaction(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.transactions[id]; !ok {
		return ErrNotFound
	}
	delete(m.transactions, id)
	return nil
}

// Invoice methods

func (m *MemoryStore) SaveInvoice(inv *invoice.Invoice) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *inv
	m.invoices[inv.ID] = &cp
	return nil
}

func (m *MemoryStore) GetInvoice(id string) (*invoice.Invoice, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	inv, ok := m.invoices[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *inv
	return &cp, nil
}

func (m *MemoryStore) ListInvoices() ([]*invoice.Invoice, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	invoices := make([]*invoice.Invoice, 0, len(m.invoices))
	for _, inv := range m.invoices {
		cp := *inv
		invoices = append(invoices, &cp)
	}
	sort.Slice(invoices, func(i, j int) bool {
		return invoices[i].IssueDate.After(invoices[j].IssueDate)
	})
	return invoices, nil
}

func (m *MemoryStore) DeleteInvoice(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.invoices[id]; !ok {
		return ErrNotFound
	}
	delete(m.invoices, id)
	return nil
}

func (m *MemoryStore) SaveClient(client *invoice.Client) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *client
	m.clients[client.ID] = &cp
	return nil
}

func (m *MemoryStore) ListClients() ([]*invoice.Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	clients := make([]*invoice.Client, 0, len(m.clients))
	for _, client := range m.clients {
		cp := *client
		clients = append(clients, &cp)
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].Name < clients[j].Name
	})
	return clients, nil
}

// Budget methods

func (m *MemoryStore) SaveBudget(b *budget.Budget) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *b
	m.budgets[b.ID] = &cp
	return nil
}

func (m *MemoryStore) ListBudgets() ([]*budget.Budget, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	budgets := make([]*budget.Budget, 0, len(m.budgets))
	for _, b := range m.budgets {
		cp := *b
		budgets = append(budgets, &cp)
	}
	sort.Slice(budgets, func(i, j int) bool {
		return budgets[i].Category < budgets[j].Category
	})
	return budgets, nil
}

func (m *MemoryStore) DeleteBudget(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.budgets[id]; !ok {
		return ErrNotFound
	}
	delete(m.budgets, id)
	return nil
}

// Bank methods

func (m *MemoryStore) SaveBankTransaction(tx *bank.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *tx
	m.bankTxs[tx.ID] = &cp
	return nil
}

func (m *MemoryStore) ListBankTransactions() ([]*bank.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	txs := make([]*bank.Transaction, 0, len(m.bankTxs))
	for _, tx := range m.bankTxs {
		cp := *tx
		txs = append(txs, &cp)
	}
	sort.Slice(txs, func(i, j int) bool {
		return txs[i].Date.After(txs[j].Date)
	})
	return txs, nil
}

// Settings methods

func (m *MemoryStore) GetSettings() (Settings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.settings, nil
}

func (m *MemoryStore) UpdateSettings(settings Settings) (Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings = settings
	return m.settings, nil
}

// TaxRate returns the configured tax rate percentage.
func (m *MemoryStore) TaxRate() (float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.settings.TaxRate, nil
}
