package patterns

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDigits(t *testing.T) {
	assert.Equal(t, "1234567890", NormalizeDigits("١٢٣٤٥٦٧٨٩٠"))
	assert.Equal(t, "Total: 150.00", NormalizeDigits("Total: ١٥٠.٠٠"))
	assert.Equal(t, "no digits here", NormalizeDigits("no digits here"))
}

func TestCleanAmount(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{"plain", "1150.00", 1150.00},
		{"thousands comma", "1,234.56", 1234.56},
		{"european", "1.234,56", 1234.56},
		{"decimal comma", "123,45", 123.45},
		{"thousands only", "1,234,567", 1234567},
		{"dollar symbol", "$1,150.00", 1150.00},
		{"currency code", "EGP 500.00", 500.00},
		{"arabic digits", "١٢٣٤.٥٦", 1234.56},
		{"code before arabic digits", "EGP ١٢٣٤.٥٦", 1234.56},
		{"empty", "", 0},
		{"garbage", "abc", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, CleanAmount(tt.input), 0.001)
		})
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"iso", "2024-01-15", "2024-01-15"},
		{"iso slash", "2024/1/5", "2024-01-05"},
		{"dmy slash", "15/01/2024", "2024-01-15"},
		{"dmy dash", "27-09-2022", "2022-09-27"},
		{"month name", "15 Jan 2024", "2024-01-15"},
		{"month name long", "15 January 2024", "2024-01-15"},
		{"name month", "Jan 15, 2024", "2024-01-15"},
		{"embedded", "Date: 27-09-2022", "2022-09-27"},
		{"arabic digits", "٢٧/٠٩/٢٠٢٢", "2022-09-27"},
		{"no date", "hello world", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseDate(tt.input))
		})
	}
}

func TestFindCurrency(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"dollar symbol", "Total: $100", "USD"},
		{"euro symbol", "€ 50", "EUR"},
		{"pound symbol", "£20.00", "GBP"},
		{"iso code", "100 SAR", "SAR"},
		{"iso code lower", "100 egp", "EGP"},
		{"arabic name", "١٠٠ ريال", "SAR"},
		{"arabic dirham", "درهم 250", "AED"},
		{"default", "no currency here", "USD"},
		{"symbol wins over code", "$100 EGP", "USD"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FindCurrency(tt.input))
		})
	}
}

func TestInvoiceNumberPatternOrder(t *testing.T) {
	// The year-prefixed pattern must win before the bare digit group takes
	// "2024" out of a prefixed identifier.
	text := "INV-2024-001"
	for _, np := range InvoiceNumberPatterns {
		if m := np.Re.FindStringSubmatch(text); m != nil {
			assert.Equal(t, "with_year", np.Name)
			assert.Equal(t, "INV-2024-001", m[1])
			return
		}
	}
	t.Fatal("no pattern matched INV-2024-001")
}
