package patterns

import "strings"

var currencySymbolMap = map[string]string{
	"$": "USD", "£": "GBP", "€": "EUR", "¥": "JPY",
	"₹": "INR", "₪": "ILS", "﷼": "SAR",
}

var currencyArabicMap = map[string]string{
	"ريال": "SAR", "جنيه": "EGP", "دينار": "KWD",
	"درهم": "AED", "ليرة": "LBP",
}

// FindCurrency resolves an ISO 4217 code from free text. Priority order:
// currency symbols, 3-letter codes, Arabic currency names. Defaults to USD.
func FindCurrency(text string) string {
	if sym := currencySymbolPattern.FindString(text); sym != "" {
		if code, ok := currencySymbolMap[sym]; ok {
			return code
		}
		return "USD"
	}

	if m := currencyCodePattern.FindStringSubmatch(text); m != nil {
		return strings.ToUpper(m[1])
	}

	if m := currencyArabicPattern.FindStringSubmatch(text); m != nil {
		if code, ok := currencyArabicMap[m[1]]; ok {
			return code
		}
		return "SAR"
	}

	return "USD"
}
