package receipt

import "time"

// LineItem is one persisted product/service entry of a scanned receipt.
type LineItem struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
}

// ScannedReceipt is the persisted unit produced by one successful scan.
// Receipts are immutable once created; the only mutation is deletion by
// user action.
type ScannedReceipt struct {
	ID          string     `json:"id"`
	Vendor      string     `json:"vendor"`
	Date        string     `json:"date"`
	Items       []LineItem `json:"items"`
	Subtotal    float64    `json:"subtotal"`
	Tax         float64    `json:"tax"`
	Total       float64    `json:"total"`
	Confidence  int        `json:"confidence"`
	RawText     string     `json:"raw_text"`
	ImagePath   string     `json:"image_path,omitempty"`
	ContentType string     `json:"content_type"`
	ProcessedAt time.Time  `json:"processed_at"`
}

// ConfidenceBand translates the numeric score into the advisory wording
// shown to the user. Purely informational; it never blocks record creation.
func ConfidenceBand(confidence int) string {
	switch {
	case confidence > 70:
		return "looks accurate"
	case confidence >= 40:
		return "needs verification"
	default:
		return "review carefully"
	}
}
