package extract

import (
	"regexp"
	"sort"
	"strings"

	"github.com/karim-nassar/invoice-extractor/internal/ocr"
	"github.com/karim-nassar/invoice-extractor/internal/patterns"
)

// SimpleResult is the reduced output of the fast path: just enough for
// spend tracking and categorization.
type SimpleResult struct {
	Date      string   `json:"date"`
	Total     *float64 `json:"total"`
	LineItems []string `json:"line_items"`
}

// Fallback total bounds. Outside this range a bare number is more likely a
// phone fragment or an identifier than a receipt total.
const (
	fallbackMinTotal = 0.5
	fallbackMaxTotal = 50_000
)

var (
	simpleDateKeywords = []string{
		"date", "dated", "invoice date", "bill date",
		"تاريخ", "بتاريخ", "التاريخ", "تاريخ الطباعة",
	}
	simpleTotalKeywords = []string{
		"total", "grand total", "net total", "amount due",
		"المجموع", "الإجمالي", "المبلغ", "الكلي", "المطلوب", "المبلغ المستحق", "الصافي",
	}

	numericOnly    = regexp.MustCompile(`^[\d.,\s]+$`)
	currencyPrefix = regexp.MustCompile(`(?i)^[EGP$£€]+`)
)

// SimpleExtractor is the fast path used when a document only needs a date,
// a total and item names. It reads elements in OCR order and never touches
// layout analysis.
type SimpleExtractor struct{}

func NewSimpleExtractor() *SimpleExtractor { return &SimpleExtractor{} }

// Extract pulls the date, the total and candidate line item names.
func (s *SimpleExtractor) Extract(elements []ocr.TextElement) SimpleResult {
	return SimpleResult{
		Date:      s.extractDate(elements),
		Total:     s.extractTotal(elements),
		LineItems: s.extractLineItems(elements),
	}
}

// extractDate looks near date keywords first, then falls back to the first
// parseable date anywhere.
func (s *SimpleExtractor) extractDate(elements []ocr.TextElement) string {
	for i, el := range elements {
		lower := strings.ToLower(el.Text)
		if !containsAny(lower, simpleDateKeywords) {
			continue
		}
		// Scan a small window around the keyword: one element back,
		// three ahead.
		for j := max(0, i-1); j < min(len(elements), i+4); j++ {
			if date := patterns.ParseDate(elements[j].Text); date != "" {
				return date
			}
		}
	}

	for _, el := range elements {
		if date := patterns.ParseDate(el.Text); date != "" {
			return date
		}
	}
	return ""
}

type totalCandidate struct {
	amount     float64
	confidence float64
}

// extractTotal collects every amount in a window around each total keyword,
// scoring decimals above whole numbers, then picks the most confident and
// largest candidate. With no keyword hits it falls back to the largest
// plausible amount in the document.
func (s *SimpleExtractor) extractTotal(elements []ocr.TextElement) *float64 {
	var candidates []totalCandidate

	for i, el := range elements {
		lower := strings.ToLower(el.Text)
		if !containsAny(lower, simpleTotalKeywords) {
			continue
		}
		for j := max(0, i-1); j < min(len(elements), i+5); j++ {
			amount, ok := AmountFromText(elements[j].Text)
			if !ok {
				continue
			}
			conf := 0.6
			if strings.Contains(elements[j].Text, ".") {
				conf = 1.0
			}
			candidates = append(candidates, totalCandidate{amount, conf})
		}
	}

	if len(candidates) > 0 {
		sort.SliceStable(candidates, func(a, b int) bool {
			if candidates[a].confidence != candidates[b].confidence {
				return candidates[a].confidence > candidates[b].confidence
			}
			return candidates[a].amount > candidates[b].amount
		})
		return &candidates[0].amount
	}

	var best *float64
	for _, el := range elements {
		amount, ok := AmountFromText(el.Text)
		if !ok || amount <= fallbackMinTotal || amount >= fallbackMaxTotal {
			continue
		}
		if best == nil || amount > *best {
			v := amount
			best = &v
		}
	}
	return best
}

// extractLineItems returns the text of elements that read like item names:
// not keywords, not numbers, not currency fragments, and immediately
// followed by an amount.
func (s *SimpleExtractor) extractLineItems(elements []ocr.TextElement) []string {
	var items []string

	for i, el := range elements {
		text := strings.TrimSpace(el.Text)
		if len(text) < 3 {
			continue
		}
		lower := strings.ToLower(text)
		if containsAny(lower, simpleTotalKeywords) || containsAny(lower, simpleDateKeywords) {
			continue
		}
		if numericOnly.MatchString(text) || currencyPrefix.MatchString(text) {
			continue
		}
		if i+1 < len(elements) {
			if _, ok := AmountFromText(elements[i+1].Text); ok {
				items = append(items, text)
			}
		}
	}
	return items
}
