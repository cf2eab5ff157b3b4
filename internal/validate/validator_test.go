package validate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karim-nassar/invoice-extractor/constants"
	"github.com/karim-nassar/invoice-extractor/internal/common"
	"github.com/karim-nassar/invoice-extractor/internal/extract"
)

func testConfig() common.PipelineConfig {
	return common.PipelineConfig{
		MinConfidence:   0.5,
		WarnConfidence:  0.7,
		GoodConfidence:  0.85,
		DefaultCurrency: "USD",
	}
}

func testClock() func() time.Time {
	return func() time.Time {
		return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	}
}

func newTestValidator() *Validator {
	return NewValidator(testConfig()).WithClock(testClock())
}

func strField(v string, conf float64) extract.Field[string] {
	return extract.NewField(v, conf, constants.SourceKeywordProximity, "")
}

func numField(v, conf float64) extract.Field[float64] {
	return extract.NewField(v, conf, constants.SourceKeywordProximity, "")
}

func f64(v float64) *float64 { return &v }

// cleanFieldSet is a document every rule group accepts.
func cleanFieldSet() *extract.FieldSet {
	return &extract.FieldSet{
		InvoiceNumber: strField("INV-2024-001", 0.95),
		Dates: extract.Dates{
			InvoiceDate: strField("2024-01-15", 0.92),
			DueDate:     strField("2024-02-15", 0.88),
		},
		Amounts: extract.Amounts{
			Total:    numField(1150.00, 0.98),
			Subtotal: numField(1000.00, 0.96),
			Tax:      numField(150.00, 0.94),
		},
		TaxInfo: extract.TaxInfo{
			TaxID:         strField("TAX123456789", 0.90),
			TaxPercentage: numField(15.0, 0.92),
		},
		VendorInfo: extract.VendorInfo{
			Name:  strField("ABC Company", 0.91),
			Email: strField("info@abc.com", 0.87),
			Phone: strField("+966501234567", 0.89),
		},
		CustomerInfo: extract.CustomerInfo{
			Name: strField("XYZ Corp", 0.86),
		},
		LineItems: []extract.LineItem{
			{Description: "Product A", Amount: f64(500.00), Confidence: 0.9},
			{Description: "Product B", Amount: f64(500.00), Confidence: 0.9},
		},
		Currency:     strField("SAR", 0.85),
		PaymentTerms: strField("Net 30", 0.80),
		Metadata: extract.Metadata{
			ExtractionConfidence: 0.91,
			FieldsExtracted:      8,
			TotalFields:          9,
		},
	}
}

func TestValidateAllPasses(t *testing.T) {
	report := newTestValidator().ValidateAll(cleanFieldSet())

	assert.Equal(t, constants.StatusPassed, report.OverallStatus)
	assert.Empty(t, report.Errors)
	assert.Empty(t, report.Warnings)
	assert.False(t, report.RequiresManualReview)
	assert.InDelta(t, 100.0, report.QualityScore, 0.001)
	assert.Equal(t, report.Summary.TotalChecks, report.Summary.Passed)
	assert.Contains(t, report.RecommendedActions, "All validation checks passed")
}

func TestValidateAllIsIdempotent(t *testing.T) {
	v := newTestValidator()
	fs := cleanFieldSet()
	first := v.ValidateAll(fs)
	second := v.ValidateAll(fs)
	assert.Equal(t, first, second)
}

func TestTaxConsistency(t *testing.T) {
	// 1000 + 150 = 1150 exactly: no mismatch.
	report := newTestValidator().ValidateAll(cleanFieldSet())
	for _, w := range report.Warnings {
		assert.NotEqual(t, "amounts", w.Field)
	}

	// 1000 + 100 = 1100, diff 50 > 1150*0.02 = 23: warning.
	fs := cleanFieldSet()
	fs.Amounts.Tax = numField(100.00, 0.94)
	report = newTestValidator().ValidateAll(fs)

	found := false
	for _, w := range report.Warnings {
		if w.Field == "amounts" {
			found = true
			assert.Contains(t, w.SuggestedFix, "1100.00")
		}
	}
	assert.True(t, found, "expected amounts mismatch warning")
	assert.Equal(t, constants.StatusWarning, report.OverallStatus)
}

func TestDueDateBeforeInvoiceDate(t *testing.T) {
	fs := cleanFieldSet()
	fs.Dates.DueDate = strField("2024-01-01", 0.9)

	report := newTestValidator().ValidateAll(fs)
	assert.Equal(t, constants.StatusFailed, report.OverallStatus)

	found := false
	for _, e := range report.Errors {
		if e.Field == "dates.due_date" {
			found = true
		}
	}
	assert.True(t, found, "expected due date error")
}

func TestUnknownCurrency(t *testing.T) {
	fs := cleanFieldSet()
	fs.Currency = strField("XYZ", 0.8)

	report := newTestValidator().ValidateAll(fs)
	assert.Equal(t, constants.StatusWarning, report.OverallStatus)

	found := false
	for _, w := range report.Warnings {
		if w.Field == "currency" {
			found = true
		}
	}
	assert.True(t, found, "expected currency warning")
}

func TestMissingRequiredFields(t *testing.T) {
	report := newTestValidator().ValidateAll(&extract.FieldSet{
		Metadata: extract.Metadata{TotalFields: 9},
	})

	assert.Equal(t, constants.StatusFailed, report.OverallStatus)
	assert.True(t, report.RequiresManualReview)
	// invoice_number, dates.invoice_date, amounts.total, currency plus the
	// dedicated invoice number check and the confidence floor.
	assert.GreaterOrEqual(t, report.Summary.Errors, 5)
}

func TestSubtotalGreaterThanTotal(t *testing.T) {
	fs := cleanFieldSet()
	fs.Amounts.Subtotal = numField(2000.00, 0.9)

	report := newTestValidator().ValidateAll(fs)
	assert.Equal(t, constants.StatusFailed, report.OverallStatus)
}

func TestLineItemsSumMismatch(t *testing.T) {
	fs := cleanFieldSet()
	fs.LineItems = []extract.LineItem{
		{Description: "Product A", Amount: f64(100.00), Confidence: 0.9},
	}

	report := newTestValidator().ValidateAll(fs)

	found := false
	for _, w := range report.Warnings {
		if w.Field == "line_items" {
			found = true
		}
	}
	assert.True(t, found, "expected line items mismatch warning")
}

func TestNoLineItemsIsWarningNotError(t *testing.T) {
	fs := cleanFieldSet()
	fs.LineItems = nil

	report := newTestValidator().ValidateAll(fs)
	assert.Equal(t, constants.StatusWarning, report.OverallStatus)
	assert.Empty(t, report.Errors)
}

func TestConfidenceThresholds(t *testing.T) {
	tests := []struct {
		name       string
		confidence float64
		severity   constants.Severity
		valid      bool
	}{
		{"very low is error", 0.3, constants.SeverityError, false},
		{"low is warning", 0.6, constants.SeverityWarning, true},
		{"moderate is info", 0.8, constants.SeverityInfo, true},
		{"good is info", 0.95, constants.SeverityInfo, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := cleanFieldSet()
			fs.Metadata.ExtractionConfidence = tt.confidence

			report := newTestValidator().ValidateAll(fs)

			var result *CheckResult
			for i := range report.AllResults {
				if report.AllResults[i].Field == "metadata.confidence" {
					result = &report.AllResults[i]
					break
				}
			}
			require.NotNil(t, result)
			assert.Equal(t, tt.severity, result.Severity)
			assert.Equal(t, tt.valid, result.IsValid)
		})
	}
}

func TestVendorEqualsCustomer(t *testing.T) {
	fs := cleanFieldSet()
	fs.CustomerInfo.Name = strField("ABC Company", 0.9)

	report := newTestValidator().ValidateAll(fs)

	found := false
	for _, w := range report.Warnings {
		if w.Field == "consistency" {
			found = true
		}
	}
	assert.True(t, found, "expected consistency warning")
}

func TestManualReviewOnManyWarnings(t *testing.T) {
	fs := cleanFieldSet()
	fs.Currency = strField("XYZ", 0.8)
	fs.VendorInfo.Name = extract.Field[string]{}
	fs.CustomerInfo.Name = extract.Field[string]{}
	fs.LineItems = nil

	report := newTestValidator().ValidateAll(fs)
	assert.Equal(t, constants.StatusWarning, report.OverallStatus)
	assert.Greater(t, report.Summary.Warnings, 2)
	assert.True(t, report.RequiresManualReview)
}
