package ocr

import (
	"regexp"
	"strings"
)

var (
	reDate   = regexp.MustCompile(`\b\d{4}[-/]\d{1,2}[-/]\d{1,2}\b|\b\d{1,2}[-/]\d{1,2}[-/]\d{4}\b`)
	reCurr   = regexp.MustCompile(`\b(usd|eur|gbp|sar|egp|aed|qar|kwd)\b|[$£€¥₹₪﷼]`)
	reAmount = regexp.MustCompile(`\b\d{1,3}(,\d{3})*(\.\d{2})\b|\b\d+\.\d{2}\b`)
)

func hasDatePattern(s string) bool     { return reDate.MatchString(s) }
func hasCurrencyPattern(s string) bool { return reCurr.MatchString(s) }
func hasAmountPattern(s string) bool   { return reAmount.MatchString(s) }

// HeuristicConfidence estimates a confidence for text fragments that arrive
// without a score from the engine (element dumps, hand-built fixtures).
// Invoice artifacts (date-ish, currency-ish, amount-ish) each add a bump.
func HeuristicConfidence(txt string) float64 {
	txtL := strings.ToLower(txt)
	score := 0.2 // base
	if hasDatePattern(txtL) {
		score += 0.2
	}
	if hasCurrencyPattern(txtL) {
		score += 0.15
	}
	if hasAmountPattern(txtL) {
		score += 0.15
	}
	if len(txt) > 12 {
		score += 0.1
	}
	if score > 1.0 {
		score = 1.0
	}
	return score
}
