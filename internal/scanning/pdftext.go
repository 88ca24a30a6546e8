package scanning

import (
	"bytes"
	"fmt"
	"strings"

	pdf "github.com/ledongthuc/pdf"
)

// minEmbeddedTextLen is the smallest text layer worth trusting; scanned
// PDFs often carry a few junk characters.
const minEmbeddedTextLen = 32

// ExtractPDFText pulls the embedded text layer out of a born-digital PDF.
// Returns ("", false) when the PDF has no usable text layer, in which case
// the caller should fall back to OCR rasterization.
func ExtractPDFText(data []byte) (string, bool) {
	text, err := pdfPlainText(data)
	if err != nil {
		return "", false
	}
	if len(strings.TrimSpace(text)) < minEmbeddedTextLen {
		return "", false
	}
	return text, true
}

func pdfPlainText(data []byte) (string, error) {
	doc, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("new pdf reader: %w", err)
	}
	var builder strings.Builder
	total := doc.NumPage()
	for page := 1; page <= total; page++ {
		p := doc.Page(page)
		if p.V.IsNull() {
			continue
		}
		content, err := p.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("page %d: %w", page, err)
		}
		builder.WriteString(content)
		builder.WriteString("\n")
	}
	return builder.String(), nil
}
