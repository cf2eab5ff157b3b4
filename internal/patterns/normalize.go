package patterns

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	currencySymbolStrip = regexp.MustCompile(`[$£€¥₹₪﷼]`)
	currencyCodeStrip   = regexp.MustCompile(`(?i)\b(?:SAR|EGP|USD|EUR|GBP|AED|QAR|KWD)\b`)
)

var arabicIndicDigits = map[rune]rune{
	'٠': '0', '١': '1', '٢': '2', '٣': '3', '٤': '4',
	'٥': '5', '٦': '6', '٧': '7', '٨': '8', '٩': '9',
}

// NormalizeDigits maps Arabic-Indic digits to Western digits. Total
// function: unknown runes pass through untouched.
func NormalizeDigits(text string) string {
	return strings.Map(func(r rune) rune {
		if w, ok := arabicIndicDigits[r]; ok {
			return w
		}
		return r
	}, text)
}

// CleanAmount strips currency markers and converts an amount string to a
// float. Separator disambiguation, in order:
//   - both '.' and ',' present: whichever appears last is the decimal point
//     (1.234,56 -> 1234.56 and 1,234.56 -> 1234.56)
//   - only ',' present: a single comma with at most two trailing digits is
//     the decimal point, otherwise commas are thousands separators
//
// Currency and script stripping run before digit folding. Returns 0 on
// unparseable input.
func CleanAmount(amountStr string) float64 {
	if amountStr == "" {
		return 0
	}

	// Currency corrections first, then digit folding.
	amountStr = currencySymbolStrip.ReplaceAllString(amountStr, "")
	amountStr = currencyCodeStrip.ReplaceAllString(amountStr, "")
	amountStr = NormalizeDigits(amountStr)
	amountStr = strings.ReplaceAll(strings.TrimSpace(amountStr), " ", "")

	hasComma := strings.Contains(amountStr, ",")
	hasDot := strings.Contains(amountStr, ".")

	switch {
	case hasComma && hasDot:
		if strings.LastIndex(amountStr, ",") > strings.LastIndex(amountStr, ".") {
			// Comma is decimal: 1.234,56 -> 1234.56
			amountStr = strings.ReplaceAll(amountStr, ".", "")
			amountStr = strings.ReplaceAll(amountStr, ",", ".")
		} else {
			// Dot is decimal: 1,234.56 -> 1234.56
			amountStr = strings.ReplaceAll(amountStr, ",", "")
		}
	case hasComma:
		parts := strings.Split(amountStr, ",")
		if len(parts) == 2 && len(parts[1]) <= 2 {
			// Likely decimal: 123,45 -> 123.45
			amountStr = strings.ReplaceAll(amountStr, ",", ".")
		} else {
			// Likely thousands separator: 1,234,567 -> 1234567
			amountStr = strings.ReplaceAll(amountStr, ",", "")
		}
	}

	f, err := strconv.ParseFloat(amountStr, 64)
	if err != nil {
		return 0
	}
	return f
}

var monthNumbers = map[string]string{
	"jan": "01", "feb": "02", "mar": "03", "apr": "04",
	"may": "05", "jun": "06", "jul": "07", "aug": "08",
	"sep": "09", "oct": "10", "nov": "11", "dec": "12",
}

// ParseDate extracts the first recognizable date from text and normalizes
// it to YYYY-MM-DD. Returns "" when no pattern matches.
func ParseDate(text string) string {
	text = NormalizeDigits(text)

	for _, np := range DatePatterns {
		m := np.Re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		switch np.Name {
		case "iso_date", "compact_date":
			return fmt.Sprintf("%s-%s-%s", m[1], pad2(m[2]), pad2(m[3]))
		case "dmy_slash", "dmy_dash":
			return fmt.Sprintf("%s-%s-%s", m[3], pad2(m[2]), pad2(m[1]))
		case "month_name":
			return fmt.Sprintf("%s-%s-%s", m[3], monthNumber(m[2]), pad2(m[1]))
		case "name_month":
			return fmt.Sprintf("%s-%s-%s", m[3], monthNumber(m[1]), pad2(m[2]))
		default:
			// arabic_date survives digit folding and re-matches as one of
			// the numeric forms above; anything else is returned raw.
			return m[0]
		}
	}
	return ""
}

func pad2(s string) string {
	if len(s) < 2 {
		return "0" + s
	}
	return s
}

func monthNumber(name string) string {
	key := strings.ToLower(name)
	if len(key) > 3 {
		key = key[:3]
	}
	if n, ok := monthNumbers[key]; ok {
		return n
	}
	return "01"
}
