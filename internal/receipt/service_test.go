package receipt

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestReceipt(t *testing.T) {
	// Disable logging during tests
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))

	RegisterFailHandler(Fail)
	RunSpecs(t, "Receipt Suite")
}

// mockDB is a mock implementation of DB
type mockDB struct {
	receipts  map[string]*ScannedReceipt
	saveErr   error
	getErr    error
	listErr   error
	deleteErr error
}

func newMockDB() *mockDB {
	return &mockDB{receipts: make(map[string]*ScannedReceipt)}
}

func (m *mockDB) SaveReceipt(rec *ScannedReceipt) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.receipts[rec.ID] = rec
	return nil
}

func (m *mockDB) GetReceipt(id string) (*ScannedReceipt, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	rec, ok := m.receipts[id]
	if !ok {
		return nil, errors.New("receipt not found")
	}
	return rec, nil
}

func (m *mockDB) ListReceipts() ([]*ScannedReceipt, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	recs := make([]*ScannedReceipt, 0, len(m.receipts))
	for _, r := range m.receipts {
		recs = append(recs, r)
	}
	return recs, nil
}

func (m *mockDB) DeleteReceipt(id string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	if _, ok := m.receipts[id]; !ok {
		return errors.New("receipt not found")
	}
	delete(m.receipts, id)
	return nil
}

// mockScanner returns a canned transcript
type mockScanner struct {
	text    string
	scanErr error
	calls   int
}

func (m *mockScanner) Scan(imageData []byte, contentType string) (string, error) {
	m.calls++
	if m.scanErr != nil {
		return "", m.scanErr
	}
	return m.text, nil
}

func (m *mockScanner) Close() error { return nil }

// mockStorage tracks saved and deleted files
type mockStorage struct {
	files   map[string][]byte
	deleted []string
	saveErr error
	getErr  error
}

func newMockStorage() *mockStorage {
	return &mockStorage{files: make(map[string][]byte)}
}

func (m *mockStorage) Save(filename string, data []byte) (string, error) {
	if m.saveErr != nil {
		return "", m.saveErr
	}
	m.files[filename] = data
	return filename, nil
}

func (m *mockStorage) Get(path string) ([]byte, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	data, ok := m.files[path]
	if !ok {
		return nil, errors.New("file not found")
	}
	return data, nil
}

func (m *mockStorage) Delete(path string) error {
	m.deleted = append(m.deleted, path)
	delete(m.files, path)
	return nil
}

type fixedIDGenerator struct{ id string }

func (g fixedIDGenerator) Generate() string { return g.id }

type fixedTimeSource struct{ now time.Time }

func (t fixedTimeSource) Now() time.Time { return t.now }

var _ = Describe("Service", func() {
	var (
		db      *mockDB
		scanner *mockScanner
		storage *mockStorage
		service *Service
		now     time.Time
	)

	BeforeEach(func() {
		db = newMockDB()
		scanner = &mockScanner{}
		storage = newMockStorage()
		now = time.Date(2024, 3, 12, 10, 30, 0, 0, time.UTC)
		service = NewServiceWithDeps(db, scanner, storage,
			fixedIDGenerator{id: "rcp-1"}, fixedTimeSource{now: now})
	})

	Describe("ProcessReceipt", func() {
		var (
			rec *ScannedReceipt
			err error
		)

		When("the transcript has vendor, item and total", func() {
			BeforeEach(func() {
				scanner.text = "Starbucks\nLatte 35.00\nTOTAL 35.00"
				rec, err = service.ProcessReceipt("photo.jpg", []byte("img"), "image/jpeg")
			})

			It("should not return an error", func() {
				Expect(err).NotTo(HaveOccurred())
			})

			It("should assemble the extracted fields", func() {
				Expect(rec.Vendor).To(Equal("Starbucks"))
				Expect(rec.Total).To(Equal(35.00))
				Expect(rec.Items).To(HaveLen(1))
				Expect(rec.Items[0].Description).To(Equal("Latte"))
			})

			It("should default the subtotal to the items sum", func() {
				Expect(rec.Subtotal).To(Equal(35.00))
			})

			It("should default the missing date to the scan date", func() {
				Expect(rec.Date).To(Equal("12/03/2024"))
			})

			It("should keep the raw transcript and metadata", func() {
				Expect(rec.RawText).To(Equal(scanner.text))
				Expect(rec.ID).To(Equal("rcp-1"))
				Expect(rec.ProcessedAt).To(Equal(now))
			})

			It("should store the uploaded file", func() {
				Expect(storage.files).To(HaveKey("rcp-1_photo.jpg"))
				Expect(rec.ImagePath).To(Equal("rcp-1_photo.jpg"))
			})

			It("should persist the receipt", func() {
				Expect(db.receipts).To(HaveKey("rcp-1"))
			})
		})

		When("the transcript yields nothing at all", func() {
			BeforeEach(func() {
				scanner.text = "@@\n!!"
				rec, err = service.ProcessReceipt("photo.jpg", []byte("img"), "image/jpeg")
			})

			It("should still create a record", func() {
				Expect(err).NotTo(HaveOccurred())
				Expect(rec).NotTo(BeNil())
			})

			It("should substitute the vendor placeholder", func() {
				Expect(rec.Vendor).To(Equal("Unknown Vendor"))
			})

			It("should substitute the current date", func() {
				Expect(rec.Date).To(Equal("12/03/2024"))
			})

			It("should report zero confidence", func() {
				Expect(rec.Confidence).To(BeZero())
			})
		})

		When("no total is found but items exist", func() {
			BeforeEach(func() {
				// Items only: no label, no currency marker, no trailing
				// decimal at end of text.
				scanner.text = "Toko Sumber Rejeki\nKopi Hitam 15,000\nRoti Bakar 22,000\nsampai jumpa"
				rec, err = service.ProcessReceipt("photo.jpg", []byte("img"), "image/jpeg")
			})

			It("should fall back to the items sum for the total", func() {
				Expect(err).NotTo(HaveOccurred())
				Expect(rec.Items).To(HaveLen(2))
				Expect(rec.Total).To(Equal(37000.00))
			})

			It("should use the items sum for the subtotal as well", func() {
				Expect(rec.Subtotal).To(Equal(37000.00))
			})
		})

		When("scanning fails", func() {
			BeforeEach(func() {
				scanner.scanErr = errors.New("ocr exploded")
				rec, err = service.ProcessReceipt("photo.jpg", []byte("img"), "image/jpeg")
			})

			It("should return the error", func() {
				Expect(err).To(MatchError(ContainSubstring("scanning receipt")))
				Expect(rec).To(BeNil())
			})

			It("should clean up the stored file", func() {
				Expect(storage.deleted).To(ContainElement("rcp-1_photo.jpg"))
			})

			It("should not persist anything", func() {
				Expect(db.receipts).To(BeEmpty())
			})
		})

		When("persisting the receipt fails", func() {
			BeforeEach(func() {
				scanner.text = "Starbucks\nLatte 35.00\nTOTAL 35.00"
				db.saveErr = errors.New("db down")
				rec, err = service.ProcessReceipt("photo.jpg", []byte("img"), "image/jpeg")
			})

			It("should return the error and clean up the file", func() {
				Expect(err).To(MatchError(ContainSubstring("saving receipt")))
				Expect(storage.deleted).To(ContainElement("rcp-1_photo.jpg"))
			})
		})

		When("saving the upload fails", func() {
			BeforeEach(func() {
				storage.saveErr = errors.New("disk full")
				rec, err = service.ProcessReceipt("photo.jpg", []byte("img"), "image/jpeg")
			})

			It("should fail before scanning", func() {
				Expect(err).To(HaveOccurred())
				Expect(scanner.calls).To(BeZero())
			})
		})
	})

	Describe("DeleteReceipt", func() {
		BeforeEach(func() {
			scanner.text = "Starbucks\nLatte 35.00\nTOTAL 35.00"
			_, err := service.ProcessReceipt("photo.jpg", []byte("img"), "image/jpeg")
			Expect(err).NotTo(HaveOccurred())
		})

		It("should remove the record and the stored file", func() {
			Expect(service.DeleteReceipt("rcp-1")).To(Succeed())
			Expect(db.receipts).To(BeEmpty())
			Expect(storage.deleted).To(ContainElement("rcp-1_photo.jpg"))
		})

		It("should fail for an unknown id", func() {
			Expect(service.DeleteReceipt("nope")).NotTo(Succeed())
		})
	})

	Describe("GetReceiptFile", func() {
		BeforeEach(func() {
			scanner.text = "Starbucks\nLatte 35.00\nTOTAL 35.00"
			_, err := service.ProcessReceipt("photo.jpg", []byte("imgdata"), "image/jpeg")
			Expect(err).NotTo(HaveOccurred())
		})

		It("should return the stored bytes and content type", func() {
			data, contentType, err := service.GetReceiptFile("rcp-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(data).To(Equal([]byte("imgdata")))
			Expect(contentType).To(Equal("image/jpeg"))
		})
	})
})

var _ = Describe("sanitizeFilename", func() {
	It("should strip special characters", func() {
		Expect(sanitizeFilename("IMG_2024!@#.jpg")).To(Equal("IMG_2024.jpg"))
	})

	It("should collapse whitespace runs", func() {
		Expect(sanitizeFilename("my   receipt  photo.png")).To(Equal("my receipt photo.png"))
	})

	It("should fall back to a default base name", func() {
		Expect(sanitizeFilename("!!!.pdf")).To(Equal("receipt.pdf"))
	})
})

var _ = Describe("ConfidenceBand", func() {
	It("should label high scores as accurate", func() {
		Expect(ConfidenceBand(71)).To(Equal("looks accurate"))
	})

	It("should label mid scores for verification", func() {
		Expect(ConfidenceBand(70)).To(Equal("needs verification"))
		Expect(ConfidenceBand(40)).To(Equal("needs verification"))
	})

	It("should label low scores for review", func() {
		Expect(ConfidenceBand(39)).To(Equal("review carefully"))
	})
})

var _ = Describe("FormatRupiah", func() {
	It("should group thousands with dots", func() {
		Expect(FormatRupiah(36300)).To(Equal("Rp 36.300,00"))
	})

	It("should render decimals with a comma", func() {
		Expect(FormatRupiah(1234.5)).To(Equal("Rp 1.234,50"))
	})

	It("should render zero", func() {
		Expect(FormatRupiah(0)).To(Equal("Rp 0,00"))
	})
})

var _ = Describe("ExportText", func() {
	It("should render the fixed template", func() {
		rec := &ScannedReceipt{
			Vendor:     "Starbucks",
			Date:       "12/03/2024",
			Confidence: 58,
			Items: []LineItem{
				{ID: "item-1", Description: "Latte", Quantity: 1, Price: 35},
			},
			Subtotal: 35,
			Total:    35,
			RawText:  "Starbucks\nLatte 35.00\nTOTAL 35.00",
		}

		out := ExportText(rec)
		Expect(out).To(ContainSubstring("RECEIPT\n=======\n"))
		Expect(out).To(ContainSubstring("Vendor: Starbucks"))
		Expect(out).To(ContainSubstring("Confidence: 58%"))
		Expect(out).To(ContainSubstring("Latte - Rp 35,00"))
		Expect(out).To(ContainSubstring("TOTAL: Rp 35,00"))
		Expect(out).To(ContainSubstring("Raw Text:"))
		Expect(out).To(ContainSubstring(rec.RawText))
	})
})
