package receipt

import (
	"fmt"
	"strings"
)

// FormatRupiah renders an amount the way Indonesian receipts print it:
// thousands separated with dots, decimals with a comma.
func FormatRupiah(amount float64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}

	whole := int64(amount)
	cents := int64(amount*100+0.5) - whole*100

	digits := fmt.Sprintf("%d", whole)
	var grouped strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			grouped.WriteByte('.')
		}
		grouped.WriteRune(d)
	}

	sign := ""
	if neg {
		sign = "-"
	}
	return fmt.Sprintf("%sRp %s,%02d", sign, grouped.String(), cents)
}

// ExportText renders a receipt in the fixed human-readable template used
// for plain-text export.
func ExportText(rec *ScannedReceipt) string {
	var b strings.Builder

	b.WriteString("RECEIPT\n")
	b.WriteString("=======\n")
	fmt.Fprintf(&b, "Vendor: %s\n", rec.Vendor)
	fmt.Fprintf(&b, "Date: %s\n", rec.Date)
	fmt.Fprintf(&b, "Confidence: %d%%\n\n", rec.Confidence)

	b.WriteString("ITEMS:\n")
	b.WriteString("-------\n")
	for _, item := range rec.Items {
		fmt.Fprintf(&b, "%s - %s\n", item.Description, FormatRupiah(item.Price))
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "SUBTOTAL: %s\n", FormatRupiah(rec.Subtotal))
	fmt.Fprintf(&b, "TAX: %s\n", FormatRupiah(rec.Tax))
	fmt.Fprintf(&b, "TOTAL: %s\n\n", FormatRupiah(rec.Total))

	b.WriteString("Raw Text:\n")
	b.WriteString("---------\n")
	b.WriteString(rec.RawText)
	b.WriteString("\n")

	return b.String()
}
