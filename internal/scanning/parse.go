package scanning

import (
	"regexp"
	"strconv"
	"strings"
)

// LineItem is one parsed product/service entry from the receipt body.
type LineItem struct {
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
}

// ParsedReceipt holds the best-effort fields extracted from one OCR
// transcript. Empty Vendor/Date mean the extractor found nothing; zero
// amounts mean no amount was found. Substituting defaults for missing
// fields is the caller's job, not the parser's.
type ParsedReceipt struct {
	RawText    string     `json:"raw_text"`
	Vendor     string     `json:"vendor"`
	Date       string     `json:"date"`
	Items      []LineItem `json:"items"`
	Subtotal   float64    `json:"subtotal"`
	Tax        float64    `json:"tax"`
	Total      float64    `json:"total"`
	Confidence int        `json:"confidence"`
}

const (
	maxItems          = 8
	maxCandidateLines = 10
	maxDescriptionLen = 40
	maxItemPrice      = 10000000
)

// Date shapes tried in priority order: day-first slash/dash dates,
// year-first dates, then "12 Mar 2024" style month names. First match
// wins and no calendar validation is done on the result.
var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\d{1,2}[/\-]\d{1,2}[/\-]\d{2,4})`),
	regexp.MustCompile(`(\d{4}[/\-]\d{1,2}[/\-]\d{1,2})`),
	regexp.MustCompile(`(?i)(\d{1,2}\s+(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\s+\d{2,4})`),
}

// Total rules in priority order: a label-anchored amount, a bare
// currency-marker amount, then a bare trailing decimal at the end of the
// transcript. The first rule yielding a non-zero amount wins.
var totalPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:total|amount|grand\s*total)[:\s]*Rp?\s*([\d,]+\.?\d*)`),
	regexp.MustCompile(`(?i)(?:Rp|IDR)[\s]*([\d,]+\.?\d*)`),
	regexp.MustCompile(`(\d+\.\d{2})\s*$`),
}

var (
	taxPattern      = regexp.MustCompile(`(?i)(?:tax|vat|gst)[:\s]*Rp?\s*([\d,]+\.?\d*)`)
	subtotalPattern = regexp.MustCompile(`(?i)(?:sub\s*total|subtotal)[:\s]*Rp?\s*([\d,]+\.?\d*)`)

	// The leading guard keeps the match from starting inside a longer
	// digit run, so an implausibly large number is rejected as a whole
	// instead of yielding a bogus partial price.
	itemPricePattern = regexp.MustCompile(`(?:^|[^\d,])(\d{1,3}(?:,\d{3})*(?:\.\d{2})?)\s*$`)
	quantityMarker   = regexp.MustCompile(`^\d+\s*[xX*]\s*`)
	dashRuns         = regexp.MustCompile(`[-–—]{2,}`)
	anyDigit         = regexp.MustCompile(`\d`)

	nonAmountChars = regexp.MustCompile(`[^0-9.]`)
)

// Lines containing these words are never vendor candidates.
var vendorSkipWords = []string{
	"receipt", "invoice", "tax", "total", "thank", "welcome", "cashier", "date", "time",
}

// Lines containing these words are never item candidates.
var itemSkipWords = []string{
	"total", "tax", "subtotal", "thank", "change", "cash", "credit",
}

// ParseReceiptText turns one raw OCR transcript into structured receipt
// fields with a heuristic confidence score. It is pure and never fails:
// fields that cannot be extracted stay at their zero values.
func ParseReceiptText(text string) ParsedReceipt {
	result := ParsedReceipt{
		RawText: text,
		Items:   []LineItem{},
	}

	result.Date = extractDate(text)
	result.Vendor = extractVendor(text)

	for _, re := range totalPatterns {
		if v, ok := extractAmount(text, re); ok && v > 0 {
			result.Total = v
			break
		}
	}
	if v, ok := extractAmount(text, taxPattern); ok {
		result.Tax = v
	}
	if v, ok := extractAmount(text, subtotalPattern); ok {
		result.Subtotal = v
	}

	result.Items = extractLineItems(text)
	result.Confidence = scoreConfidence(result)

	return result
}

// extractDate returns the first date-shaped substring, or "" when none of
// the patterns match.
func extractDate(text string) string {
	for _, re := range datePatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			return m[1]
		}
	}
	return ""
}

// extractVendor picks the first meaningful line that does not look like a
// header or footer. Receipts usually open with the store name, so lines
// are scanned in original order.
func extractVendor(text string) string {
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if len(trimmed) <= 3 || len(trimmed) >= 50 {
			continue
		}
		lower := strings.ToLower(trimmed)
		skip := false
		for _, w := range vendorSkipWords {
			if strings.Contains(lower, w) {
				skip = true
				break
			}
		}
		if !skip {
			return trimmed
		}
	}
	return ""
}

// extractAmount applies one pattern with a single capture group and parses
// the captured amount. The found flag distinguishes "no match" from a
// legitimately zero amount.
func extractAmount(text string, re *regexp.Regexp) (float64, bool) {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(nonAmountChars.ReplaceAllString(m[1], ""), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// extractLineItems scans candidate lines for a trailing price token and
// parses each hit into a description/price pair. At most the first ten
// candidates are examined and at most eight items are kept, in source order.
func extractLineItems(text string) []LineItem {
	var candidates []string
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		lower := strings.ToLower(trimmed)
		skip := false
		for _, w := range itemSkipWords {
			if strings.Contains(lower, w) {
				skip = true
				break
			}
		}
		if skip || !anyDigit.MatchString(trimmed) {
			continue
		}
		if len(trimmed) <= 5 || len(trimmed) >= 60 {
			continue
		}
		candidates = append(candidates, trimmed)
	}
	if len(candidates) > maxCandidateLines {
		candidates = candidates[:maxCandidateLines]
	}

	items := []LineItem{}
	for _, line := range candidates {
		loc := itemPricePattern.FindStringSubmatchIndex(line)
		if loc == nil {
			continue
		}
		price, err := strconv.ParseFloat(strings.ReplaceAll(line[loc[2]:loc[3]], ",", ""), 64)
		if err != nil || price <= 0 || price >= maxItemPrice {
			// Out-of-range prices mean the line is not an item, not an error.
			continue
		}

		description := strings.TrimSpace(line[:loc[2]])
		description = quantityMarker.ReplaceAllString(description, "")
		description = dashRuns.ReplaceAllString(description, "")
		description = strings.TrimSpace(description)
		if len(description) <= 2 {
			continue
		}
		if r := []rune(description); len(r) > maxDescriptionLen {
			description = string(r[:maxDescriptionLen])
		}

		items = append(items, LineItem{
			Description: description,
			Quantity:    1,
			Price:       price,
		})
	}
	if len(items) > maxItems {
		items = items[:maxItems]
	}
	return items
}

// scoreConfidence sums fixed weights for each signal that was present.
// The weights add up to exactly 100; the clamp stays as a guard in case
// they ever change.
func scoreConfidence(r ParsedReceipt) int {
	confidence := 0
	if r.Vendor != "" {
		confidence += 20
	}
	if r.Date != "" {
		confidence += 15
	}
	if r.Total > 0 {
		confidence += 30
	}
	if n := len(r.Items); n > 0 {
		points := n * 8
		if points > 25 {
			points = 25
		}
		confidence += points
	}
	if r.Tax > 0 {
		confidence += 10
	}
	if confidence > 100 {
		confidence = 100
	}
	return confidence
}
