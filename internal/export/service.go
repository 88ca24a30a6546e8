package export

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/aryasetiadi/bukukas/internal/ledger"
	"github.com/aryasetiadi/bukukas/internal/receipt"
)

// Provider supplies the rows exported to workbooks.
type Provider interface {
	ListTransactions() ([]*ledger.Transaction, error)
	ListReceipts() ([]*receipt.ScannedReceipt, error)
}

// Service produces XLSX bytes for exports.
type Service struct {
	provider Provider
}

// NewService creates a new export Service.
func NewService(provider Provider) *Service {
	return &Service{provider: provider}
}

// TransactionsXLSX returns a workbook of ledger entries between from and
// to inclusive. Zero bounds mean unbounded on that side.
func (s *Service) TransactionsXLSX(from, to time.Time) ([]byte, error) {
	start := time.Now()

	transactions, err := s.provider.ListTransactions()
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}

	f := excelize.NewFile()
	const sheet = "Transactions"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	_ = f.DeleteSheet("Sheet1")

	headers := []string{"Date", "Type", "Category", "Description", "Amount"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, tx := range transactions {
		if !from.IsZero() && tx.Date.Before(from) {
			continue
		}
		if !to.IsZero() && tx.Date.After(to) {
			continue
		}

		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
		write(1, tx.Date.Format("2006-01-02"))
		write(2, string(tx.Type))
		write(3, string(tx.Category))
		write(4, tx.Description)
		write(5, tx.Amount)
		row++
	}

	_ = f.SetColWidth(sheet, "A", "A", 12)
	_ = f.SetColWidth(sheet, "B", "B", 10)
	_ = f.SetColWidth(sheet, "C", "C", 22)
	_ = f.SetColWidth(sheet, "D", "D", 48)
	_ = f.SetColWidth(sheet, "E", "E", 16)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	slog.Info("export.transactions.ok",
		"rows", row-2,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

// ReceiptsXLSX returns a workbook of all scanned receipts.
func (s *Service) ReceiptsXLSX() ([]byte, error) {
	start := time.Now()

	receipts, err := s.provider.ListReceipts()
	if err != nil {
		return nil, fmt.Errorf("listing receipts: %w", err)
	}

	f := excelize.NewFile()
	const sheet = "Receipts"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	_ = f.DeleteSheet("Sheet1")

	headers := []string{"Vendor", "Date", "Subtotal", "Tax", "Total", "Confidence", "Items", "Processed At"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for i, rec := range receipts {
		row := i + 2
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
		write(1, rec.Vendor)
		write(2, rec.Date)
		write(3, rec.Subtotal)
		write(4, rec.Tax)
		write(5, rec.Total)
		write(6, rec.Confidence)
		write(7, len(rec.Items))
		write(8, rec.ProcessedAt.Format("2006-01-02 15:04"))
	}

	_ = f.SetColWidth(sheet, "A", "A", 28)
	_ = f.SetColWidth(sheet, "B", "B", 12)
	_ = f.SetColWidth(sheet, "C", "E", 14)
	_ = f.SetColWidth(sheet, "H", "H", 18)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	slog.Info("export.receipts.ok",
		"rows", len(receipts),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}
