package store

import (
	"time"

	"github.com/google/uuid"

	"github.com/aryasetiadi/bukukas/internal/bank"
	"github.com/aryasetiadi/bukukas/internal/budget"
	"github.com/aryasetiadi/bukukas/internal/invoice"
	"github.com/aryasetiadi/bukukas/internal/ledger"
)

// Seed fills the store with sample data anchored to the given time, for
// demos and local development.
func (m *MemoryStore) Seed(now time.Time) error {
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	day := func(d int) time.Time { return monthStart.AddDate(0, 0, d-1) }

	transactions := []*ledger.Transaction{
		{Date: day(1), Type: ledger.TypeIncome, Amount: 5000000, Category: ledger.CategorySales, Description: "Product sales"},
		{Date: day(5), Type: ledger.TypeIncome, Amount: 2500000, Category: ledger.CategoryServices, Description: "Consulting services"},
		{Date: day(10), Type: ledger.TypeExpense, Amount: 1500000, Category: ledger.CategoryRent, Description: "Office rent"},
		{Date: day(12), Type: ledger.TypeExpense, Amount: 350000, Category: ledger.CategoryUtilities, Description: "Electricity and internet"},
		{Date: day(15), Type: ledger.TypeExpense, Amount: 200000, Category: ledger.CategoryOfficeSupplies, Description: "Printer paper and supplies"},
		{Date: day(18), Type: ledger.TypeIncome, Amount: 3000000, Category: ledger.CategorySales, Description: "Product sales - second batch"},
		{Date: day(20), Type: ledger.TypeExpense, Amount: 500000, Category: ledger.CategoryMarketing, Description: "Social media ads"},
		{Date: day(22), Type: ledger.TypeExpense, Amount: 150000, Category: ledger.CategoryFoodDining, Description: "Client meeting lunch"},
		{Date: day(25), Type: ledger.TypeExpense, Amount: 1200000, Category: ledger.CategoryPayroll, Description: "Employee salary"},
		{Date: day(28), Type: ledger.TypeIncome, Amount: 1500000, Category: ledger.CategoryServices, Description: "Web development project"},
	}
	for _, tx := range transactions {
		tx.ID = uuid.NewString()
		tx.CreatedAt = now
		tx.UpdatedAt = now
		if err := m.SaveTransaction(tx); err != nil {
			return err
		}
	}

	invoices := []*invoice.Invoice{
		{
			InvoiceNumber: "INV-202401-001",
			ClientName:    "PT Maju Bersama",
			ClientEmail:   "billing@majubersama.co.id",
			Items:         []invoice.Item{{Description: "Consulting Services", Quantity: 10, UnitPrice: 150000, Total: 1500000}},
			Subtotal:      1500000, TaxRate: 10, TaxAmount: 150000, Total: 1650000,
			Status:    invoice.StatusPaid,
			IssueDate: monthStart.AddDate(0, -1, 0),
			DueDate:   monthStart,
			PaidDate:  monthStart.AddDate(0, -1, 27),
		},
		{
			InvoiceNumber: "INV-202402-001",
			ClientName:    "CV Sumber Rejeki",
			ClientEmail:   "accounts@sumberrejeki.id",
			Items:         []invoice.Item{{Description: "Product Supply", Quantity: 50, UnitPrice: 25000, Total: 1250000}},
			Subtotal:      1250000, TaxRate: 10, TaxAmount: 125000, Total: 1375000,
			Status:    invoice.StatusSent,
			IssueDate: day(5),
			DueDate:   day(15),
		},
		{
			InvoiceNumber: "INV-202402-002",
			ClientName:    "Startup Teknologi",
			ClientEmail:   "finance@startupteknologi.io",
			Items: []invoice.Item{
				{Description: "Web Development", Quantity: 1, UnitPrice: 3000000, Total: 3000000},
				{Description: "Hosting Setup", Quantity: 1, UnitPrice: 500000, Total: 500000},
			},
			Subtotal: 3500000, TaxRate: 10, TaxAmount: 350000, Total: 3850000,
			Status:    invoice.StatusOverdue,
			IssueDate: monthStart.AddDate(0, -1, 19),
			DueDate:   monthStart.AddDate(0, -1, 29),
		},
	}
	for _, inv := range invoices {
		inv.ID = uuid.NewString()
		inv.CreatedAt = now
		inv.UpdatedAt = now
		if err := m.SaveInvoice(inv); err != nil {
			return err
		}
	}

	clients := []*invoice.Client{
		{Name: "PT Maju Bersama", Email: "billing@majubersama.co.id", Phone: "+62 21 555 1234", Company: "PT Maju Bersama"},
		{Name: "CV Sumber Rejeki", Email: "accounts@sumberrejeki.id", Phone: "+62 21 555 5678", Company: "CV Sumber Rejeki"},
		{Name: "Startup Teknologi", Email: "finance@startupteknologi.io", Company: "Startup Teknologi"},
	}
	for _, client := range clients {
		client.ID = uuid.NewString()
		client.CreatedAt = now
		if err := m.SaveClient(client); err != nil {
			return err
		}
	}

	monthEnd := monthStart.AddDate(0, 1, -1)
	budgets := []*budget.Budget{
		{Category: ledger.CategoryFoodDining, Amount: 500000, Period: budget.PeriodMonthly},
		{Category: ledger.CategoryMarketing, Amount: 1000000, Period: budget.PeriodMonthly},
		{Category: ledger.CategoryOfficeSupplies, Amount: 300000, Period: budget.PeriodMonthly},
		{Category: ledger.CategoryUtilities, Amount: 500000, Period: budget.PeriodMonthly},
	}
	for _, b := range budgets {
		b.ID = uuid.NewString()
		b.StartDate = monthStart
		b.EndDate = monthEnd
		b.CreatedAt = now
		if err := m.SaveBudget(b); err != nil {
			return err
		}
	}

	bankTxs := []*bank.Transaction{
		{Date: day(2), Description: "Transfer masuk - PT Maju Bersama", Amount: 1650000, Type: ledger.TypeIncome, Matched: true},
		{Date: day(6), Description: "Toko ATK Sinar Jaya", Amount: -200000, Type: ledger.TypeExpense, Matched: true},
		{Date: day(8), Description: "PLN Pascabayar", Amount: -350000, Type: ledger.TypeExpense, Matched: true},
		{Date: day(14), Description: "Pembayaran tidak dikenal", Amount: -500000, Type: ledger.TypeExpense},
		{Date: day(16), Description: "Transfer masuk - CV Sumber Rejeki", Amount: 1375000, Type: ledger.TypeIncome, Matched: true},
		{Date: day(21), Description: "Langganan software", Amount: -99000, Type: ledger.TypeExpense},
	}
	for _, tx := range bankTxs {
		tx.ID = uuid.NewString()
		if err := m.SaveBankTransaction(tx); err != nil {
			return err
		}
	}

	return nil
}
