package receipt

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aryasetiadi/bukukas/internal/scanning"
)

// IDGenerator generates unique IDs for receipts.
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

// DB defines the persistence operations the service needs. Receipts have
// no update operation: a scan result is an immutable artifact.
type DB interface {
	SaveReceipt(receipt *ScannedReceipt) error
	GetReceipt(id string) (*ScannedReceipt, error)
	ListReceipts() ([]*ScannedReceipt, error)
	DeleteReceipt(id string) error
}

// Service handles receipt scanning and record assembly.
type Service struct {
	db          DB
	scanner     scanning.Scanner
	storage     Storage
	idGenerator IDGenerator
	timeSource  TimeSource
}

// NewService creates a new Service with default ID generator and time source.
func NewService(db DB, scanner scanning.Scanner, storage Storage) *Service {
	return &Service{
		db:          db,
		scanner:     scanner,
		storage:     storage,
		idGenerator: uuidGenerator{},
		timeSource:  defaultTimeSource{},
	}
}

// NewServiceWithDeps creates a new Service with custom dependencies for testing.
func NewServiceWithDeps(db DB, scanner scanning.Scanner, storage Storage, idGen IDGenerator, timeSrc TimeSource) *Service {
	return &Service{
		db:          db,
		scanner:     scanner,
		storage:     storage,
		idGenerator: idGen,
		timeSource:  timeSrc,
	}
}

var (
	unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9\s\-_]`)
	spaceRuns           = regexp.MustCompile(`\s+`)
)

// sanitizeFilename cleans up phone-generated filenames before storage.
func sanitizeFilename(filename string) string {
	ext := filepath.Ext(filename)
	base := strings.TrimSuffix(filename, ext)

	base = unsafeFilenameChars.ReplaceAllString(base, "")
	base = spaceRuns.ReplaceAllString(base, " ")
	base = strings.TrimSpace(base)

	if len(base) > 50 {
		base = base[:50]
	}
	if base == "" {
		base = "receipt"
	}
	return base + ext
}

// ProcessReceipt stores the uploaded document, acquires its text, parses it
// and persists the assembled record. Extraction misses never fail the scan;
// they only lower the confidence score.
func (s *Service) ProcessReceipt(filename string, data []byte, contentType string) (*ScannedReceipt, error) {
	id := s.idGenerator.Generate()
	now := s.timeSource.Now()

	savedPath, err := s.storage.Save(fmt.Sprintf("%s_%s", id, sanitizeFilename(filename)), data)
	if err != nil {
		return nil, fmt.Errorf("saving file: %w", err)
	}

	rawText, err := s.acquireText(data, contentType)
	if err != nil {
		slog.Error("failed to scan receipt",
			"filename", filename,
			"content_type", contentType,
			"file_size", len(data),
			"error", err,
		)
		s.storage.Delete(savedPath)
		return nil, fmt.Errorf("scanning receipt: %w", err)
	}

	parsed := scanning.ParseReceiptText(rawText)
	rec := s.assemble(parsed, now)
	rec.ID = id
	rec.ImagePath = savedPath
	rec.ContentType = contentType

	if err := s.db.SaveReceipt(rec); err != nil {
		s.storage.Delete(savedPath)
		return nil, fmt.Errorf("saving receipt to database: %w", err)
	}

	return rec, nil
}

// acquireText prefers the embedded text layer of born-digital PDFs and
// falls back to the OCR scanner for everything else.
func (s *Service) acquireText(data []byte, contentType string) (string, error) {
	if strings.EqualFold(strings.TrimSpace(contentType), "application/pdf") {
		if text, ok := scanning.ExtractPDFText(data); ok {
			return text, nil
		}
	}
	return s.scanner.Scan(data, contentType)
}

// assemble applies the record-level defaulting policy on top of the
// parser's output: missing vendor and date get placeholder values, and a
// zero subtotal or total falls back to the sum of the accepted items.
func (s *Service) assemble(parsed scanning.ParsedReceipt, now time.Time) *ScannedReceipt {
	items := make([]LineItem, len(parsed.Items))
	var itemsSum float64
	for i, it := range parsed.Items {
		items[i] = LineItem{
			ID:          fmt.Sprintf("item-%d", i+1),
			Description: it.Description,
			Quantity:    it.Quantity,
			Price:       it.Price,
		}
		itemsSum += it.Price
	}

	vendor := parsed.Vendor
	if vendor == "" {
		vendor = "Unknown Vendor"
	}
	date := parsed.Date
	if date == "" {
		date = now.Format("02/01/2006")
	}

	subtotal := parsed.Subtotal
	if subtotal == 0 {
		subtotal = itemsSum
	}
	total := parsed.Total
	if total == 0 {
		total = parsed.Subtotal
	}

	rec := &ScannedReceipt{
		Vendor:      vendor,
		Date:        date,
		Items:       items,
		Subtotal:    subtotal,
		Tax:         parsed.Tax,
		Total:       total,
		Confidence:  parsed.Confidence,
		RawText:     parsed.RawText,
		ProcessedAt: now,
	}

	// Re-check after primary defaulting: with any accepted item the final
	// total must never end up zero.
	if rec.Total == 0 && len(rec.Items) > 0 {
		rec.Total = itemsSum
	}

	return rec
}

// GetReceipt retrieves a receipt by ID.
func (s *Service) GetReceipt(id string) (*ScannedReceipt, error) {
	rec, err := s.db.GetReceipt(id)
	if err != nil {
		return nil, fmt.Errorf("getting receipt: %w", err)
	}
	return rec, nil
}

// ListReceipts returns all receipts.
func (s *Service) ListReceipts() ([]*ScannedReceipt, error) {
	recs, err := s.db.ListReceipts()
	if err != nil {
		return nil, fmt.Errorf("listing receipts: %w", err)
	}
	return recs, nil
}

// DeleteReceipt removes a receipt and its stored image.
func (s *Service) DeleteReceipt(id string) error {
	rec, err := s.db.GetReceipt(id)
	if err != nil {
		return fmt.Errorf("getting receipt for deletion: %w", err)
	}

	if rec.ImagePath != "" {
		if err := s.storage.Delete(rec.ImagePath); err != nil {
			slog.Warn("failed to delete file", "filename", rec.ImagePath, "error", err)
		}
	}

	if err := s.db.DeleteReceipt(id); err != nil {
		return fmt.Errorf("deleting receipt from database: %w", err)
	}
	return nil
}

// GetReceiptFile retrieves the stored document for a receipt.
func (s *Service) GetReceiptFile(id string) ([]byte, string, error) {
	rec, err := s.db.GetReceipt(id)
	if err != nil {
		return nil, "", fmt.Errorf("getting receipt: %w", err)
	}

	data, err := s.storage.Get(rec.ImagePath)
	if err != nil {
		return nil, "", fmt.Errorf("getting receipt file: %w", err)
	}

	return data, rec.ContentType, nil
}
