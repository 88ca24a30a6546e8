package scanning

// Scanner converts a receipt image or PDF into its raw text transcript.
// Implementations wrap an external OCR engine; the parsing pipeline only
// ever sees the returned string.
type Scanner interface {
	// Scan performs text recognition on the document and returns the
	// line-separated transcript.
	Scan(imageData []byte, contentType string) (string, error)
	// Close releases any resources held by the scanner.
	Close() error
}
