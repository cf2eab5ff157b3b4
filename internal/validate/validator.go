package validate

import (
	"fmt"
	"regexp"
	"time"

	"github.com/karim-nassar/invoice-extractor/constants"
	"github.com/karim-nassar/invoice-extractor/internal/common"
	"github.com/karim-nassar/invoice-extractor/internal/extract"
)

// Rule limits. The date and amount bounds catch OCR misreads, not
// legitimate business values; everything near a bound is a warning rather
// than a hard failure.
const (
	minYear        = 2000
	maxYear        = 2030
	maxFutureDays  = 90
	maxPastYears   = 10
	minTotal       = 0.01
	maxTotal       = 10_000_000
	maxTaxRate     = 30.0
	taxTolerance   = 0.02
	itemsTolerance = 0.05
)

var (
	emailFormat = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[A-Za-z]{2,}$`)
	phoneDigits = regexp.MustCompile(`\D`)

	validCurrencies = map[string]bool{
		"USD": true, "EUR": true, "GBP": true, "JPY": true, "CNY": true,
		"INR": true, "CAD": true, "AUD": true, "SAR": true, "AED": true,
		"QAR": true, "KWD": true, "OMR": true, "BHD": true, "JOD": true,
		"EGP": true, "LBP": true, "SYP": true, "IQD": true, "TRY": true,
	}
)

// Validator runs every rule group over a field set. Confidence thresholds
// come from pipeline configuration; the clock is injectable so date rules
// are testable.
type Validator struct {
	cfg common.PipelineConfig
	now func() time.Time
}

func NewValidator(cfg common.PipelineConfig) *Validator {
	return &Validator{cfg: cfg, now: time.Now}
}

// WithClock substitutes the time source, for tests.
func (v *Validator) WithClock(now func() time.Time) *Validator {
	v.now = now
	return v
}

// ValidateAll runs the full rule set and returns the aggregate report.
// Validation is pure: repeated calls on the same input yield the same
// report.
func (v *Validator) ValidateAll(fs *extract.FieldSet) *Report {
	var results []CheckResult

	results = append(results, v.checkRequiredFields(fs)...)
	results = append(results, v.checkInvoiceNumber(fs.InvoiceNumber)...)
	results = append(results, v.checkDates(fs.Dates)...)
	results = append(results, v.checkAmounts(fs.Amounts)...)
	results = append(results, v.checkTaxConsistency(fs.Amounts, fs.TaxInfo)...)
	results = append(results, v.checkCurrency(fs.Currency)...)
	results = append(results, v.checkParties(fs.VendorInfo)...)
	results = append(results, v.checkLineItems(fs.LineItems, fs.Amounts)...)
	results = append(results, v.checkConfidence(fs.Metadata)...)
	results = append(results, v.checkConsistency(fs)...)

	return buildReport(results)
}

// ---------------------------------------------------------------
// rule groups
// ---------------------------------------------------------------

func (v *Validator) checkRequiredFields(fs *extract.FieldSet) []CheckResult {
	required := []struct {
		path    string
		present bool
	}{
		{"invoice_number", fs.InvoiceNumber.Present()},
		{"dates.invoice_date", fs.Dates.InvoiceDate.Present()},
		{"amounts.total", fs.Amounts.Total.Present()},
		{"currency", fs.Currency.Present()},
	}

	var results []CheckResult
	for _, req := range required {
		if !req.present {
			results = append(results, CheckResult{
				Field:        req.path,
				IsValid:      false,
				Severity:     constants.SeverityError,
				Message:      fmt.Sprintf("Required field '%s' is missing or empty", req.path),
				SuggestedFix: "Check OCR quality and field extraction logic",
			})
			continue
		}
		results = append(results, CheckResult{
			Field:    req.path,
			IsValid:  true,
			Severity: constants.SeverityInfo,
			Message:  fmt.Sprintf("Required field '%s' is present", req.path),
		})
	}
	return results
}

func (v *Validator) checkInvoiceNumber(num extract.Field[string]) []CheckResult {
	if !num.Present() {
		return []CheckResult{{
			Field:        "invoice_number",
			IsValid:      false,
			Severity:     constants.SeverityError,
			Message:      "Invoice number is missing",
			SuggestedFix: "Check header zone extraction",
		}}
	}

	var results []CheckResult
	value := num.Get()

	if len(value) < 3 {
		results = append(results, CheckResult{
			Field:        "invoice_number",
			IsValid:      false,
			Severity:     constants.SeverityWarning,
			Message:      fmt.Sprintf("Invoice number '%s' seems too short", value),
			SuggestedFix: "Verify this is the complete invoice number",
		})
	}

	if num.Confidence < v.cfg.WarnConfidence {
		results = append(results, CheckResult{
			Field:        "invoice_number",
			IsValid:      true,
			Severity:     constants.SeverityWarning,
			Message:      fmt.Sprintf("Low confidence (%.0f%%) for invoice number", num.Confidence*100),
			SuggestedFix: "Manual verification recommended",
		})
	} else {
		results = append(results, CheckResult{
			Field:    "invoice_number",
			IsValid:  true,
			Severity: constants.SeverityInfo,
			Message:  fmt.Sprintf("Invoice number validated: %s", value),
		})
	}
	return results
}

func (v *Validator) checkDates(dates extract.Dates) []CheckResult {
	var results []CheckResult
	var invDate time.Time
	invDateOK := false

	if dates.InvoiceDate.Present() {
		value := dates.InvoiceDate.Get()
		parsed, err := time.Parse("2006-01-02", value)
		if err != nil {
			results = append(results, CheckResult{
				Field:        "dates.invoice_date",
				IsValid:      false,
				Severity:     constants.SeverityError,
				Message:      fmt.Sprintf("Invalid date format: %s (expected YYYY-MM-DD)", value),
				SuggestedFix: "Check date extraction patterns",
			})
		} else {
			invDate, invDateOK = parsed, true
			clean := true

			if parsed.Year() < minYear {
				clean = false
				results = append(results, CheckResult{
					Field:        "dates.invoice_date",
					IsValid:      false,
					Severity:     constants.SeverityWarning,
					Message:      fmt.Sprintf("Invoice date %s is very old", value),
					SuggestedFix: "Verify the year was extracted correctly",
				})
			} else if parsed.Year() > maxYear {
				clean = false
				results = append(results, CheckResult{
					Field:        "dates.invoice_date",
					IsValid:      false,
					Severity:     constants.SeverityError,
					Message:      fmt.Sprintf("Invoice date %s is in far future", value),
					SuggestedFix: "Check for date extraction errors",
				})
			}

			if parsed.After(v.now().AddDate(0, 0, maxFutureDays)) {
				clean = false
				results = append(results, CheckResult{
					Field:        "dates.invoice_date",
					IsValid:      false,
					Severity:     constants.SeverityWarning,
					Message:      fmt.Sprintf("Invoice date %s is far in future", value),
					SuggestedFix: "Verify this is correct",
				})
			}
			if parsed.Before(v.now().AddDate(0, 0, -maxPastYears*365)) {
				clean = false
				results = append(results, CheckResult{
					Field:        "dates.invoice_date",
					IsValid:      false,
					Severity:     constants.SeverityWarning,
					Message:      fmt.Sprintf("Invoice date %s is very old", value),
					SuggestedFix: "Verify this is a current invoice",
				})
			}

			if clean {
				results = append(results, CheckResult{
					Field:    "dates.invoice_date",
					IsValid:  true,
					Severity: constants.SeverityInfo,
					Message:  fmt.Sprintf("Invoice date validated: %s", value),
				})
			}
		}
	}

	if dates.DueDate.Present() {
		value := dates.DueDate.Get()
		dueDate, err := time.Parse("2006-01-02", value)
		if err != nil {
			results = append(results, CheckResult{
				Field:        "dates.due_date",
				IsValid:      false,
				Severity:     constants.SeverityWarning,
				Message:      fmt.Sprintf("Invalid date format: %s (expected YYYY-MM-DD)", value),
				SuggestedFix: "Check date extraction patterns",
			})
		} else if invDateOK {
			if dueDate.Before(invDate) {
				results = append(results, CheckResult{
					Field:        "dates.due_date",
					IsValid:      false,
					Severity:     constants.SeverityError,
					Message:      fmt.Sprintf("Due date (%s) is before invoice date (%s)", value, dates.InvoiceDate.Get()),
					SuggestedFix: "Check which date is which",
				})
			} else {
				results = append(results, CheckResult{
					Field:    "dates.due_date",
					IsValid:  true,
					Severity: constants.SeverityInfo,
					Message:  fmt.Sprintf("Due date validated: %s", value),
				})
			}
		}
	}

	return results
}

func (v *Validator) checkAmounts(amounts extract.Amounts) []CheckResult {
	var results []CheckResult

	if amounts.Total.Present() {
		total := amounts.Total.Get()
		switch {
		case total < minTotal:
			results = append(results, CheckResult{
				Field:        "amounts.total",
				IsValid:      false,
				Severity:     constants.SeverityError,
				Message:      fmt.Sprintf("Total amount %.2f is too small (< %.2f)", total, minTotal),
				SuggestedFix: "Check amount extraction",
			})
		case total > maxTotal:
			results = append(results, CheckResult{
				Field:        "amounts.total",
				IsValid:      false,
				Severity:     constants.SeverityWarning,
				Message:      fmt.Sprintf("Total amount %.2f is very large (> %d)", total, maxTotal),
				SuggestedFix: "Verify this amount is correct",
			})
		default:
			results = append(results, CheckResult{
				Field:    "amounts.total",
				IsValid:  true,
				Severity: constants.SeverityInfo,
				Message:  fmt.Sprintf("Total amount validated: %.2f", total),
			})
		}
	}

	if amounts.Subtotal.Present() && amounts.Total.Present() &&
		amounts.Subtotal.Get() > amounts.Total.Get() {
		results = append(results, CheckResult{
			Field:        "amounts.subtotal",
			IsValid:      false,
			Severity:     constants.SeverityError,
			Message:      fmt.Sprintf("Subtotal (%.2f) is greater than total (%.2f)", amounts.Subtotal.Get(), amounts.Total.Get()),
			SuggestedFix: "Check if amounts were extracted correctly",
		})
	}

	if amounts.Tax.Present() {
		tax := amounts.Tax.Get()
		if tax < 0 {
			results = append(results, CheckResult{
				Field:        "amounts.tax",
				IsValid:      false,
				Severity:     constants.SeverityError,
				Message:      fmt.Sprintf("Tax amount %.2f is negative", tax),
				SuggestedFix: "Check tax extraction",
			})
		}
		if amounts.Subtotal.Present() && amounts.Subtotal.Get() > 0 {
			rate := tax / amounts.Subtotal.Get() * 100
			if rate > maxTaxRate {
				results = append(results, CheckResult{
					Field:        "amounts.tax",
					IsValid:      false,
					Severity:     constants.SeverityWarning,
					Message:      fmt.Sprintf("Tax rate (%.1f%%) seems too high", rate),
					SuggestedFix: "Verify tax amount is correct",
				})
			}
		}
	}

	if amounts.Discount.Present() && amounts.Discount.Get() < 0 {
		results = append(results, CheckResult{
			Field:        "amounts.discount",
			IsValid:      false,
			Severity:     constants.SeverityWarning,
			Message:      fmt.Sprintf("Discount amount %.2f is negative", amounts.Discount.Get()),
			SuggestedFix: "Check if this is meant to be positive",
		})
	}

	return results
}

func (v *Validator) checkTaxConsistency(amounts extract.Amounts, taxInfo extract.TaxInfo) []CheckResult {
	var results []CheckResult

	if amounts.Total.Present() && amounts.Subtotal.Present() && amounts.Tax.Present() {
		total := amounts.Total.Get()
		subtotal := amounts.Subtotal.Get()
		tax := amounts.Tax.Get()

		calculated := subtotal + tax
		diff := abs(total - calculated)
		if diff > total*taxTolerance {
			results = append(results, CheckResult{
				Field:        "amounts",
				IsValid:      false,
				Severity:     constants.SeverityWarning,
				Message:      fmt.Sprintf("Amounts don't add up: %.2f + %.2f != %.2f (diff: %.2f)", subtotal, tax, total, diff),
				SuggestedFix: fmt.Sprintf("Expected total: %.2f", calculated),
			})
		} else {
			results = append(results, CheckResult{
				Field:    "amounts",
				IsValid:  true,
				Severity: constants.SeverityInfo,
				Message:  "Amount calculations are consistent",
			})
		}
	}

	if taxInfo.TaxPercentage.Present() && amounts.Subtotal.Present() && amounts.Tax.Present() {
		pct := taxInfo.TaxPercentage.Get()
		subtotal := amounts.Subtotal.Get()
		tax := amounts.Tax.Get()

		expected := subtotal * pct / 100
		if abs(tax-expected) > expected*taxTolerance {
			results = append(results, CheckResult{
				Field:        "tax_info.tax_percentage",
				IsValid:      false,
				Severity:     constants.SeverityWarning,
				Message:      fmt.Sprintf("Tax percentage (%.1f%%) doesn't match tax amount", pct),
				SuggestedFix: fmt.Sprintf("Expected tax: %.2f, got: %.2f", expected, tax),
			})
		}
	}

	return results
}

func (v *Validator) checkCurrency(currency extract.Field[string]) []CheckResult {
	if !currency.Present() {
		return []CheckResult{{
			Field:        "currency",
			IsValid:      false,
			Severity:     constants.SeverityWarning,
			Message:      "Currency code is missing",
			SuggestedFix: "Defaulting to " + v.cfg.DefaultCurrency,
		}}
	}

	code := currency.Get()
	if !validCurrencies[code] {
		return []CheckResult{{
			Field:        "currency",
			IsValid:      false,
			Severity:     constants.SeverityWarning,
			Message:      fmt.Sprintf("Unusual currency code: %s", code),
			SuggestedFix: "Verify currency is correct",
		}}
	}
	return []CheckResult{{
		Field:    "currency",
		IsValid:  true,
		Severity: constants.SeverityInfo,
		Message:  fmt.Sprintf("Currency validated: %s", code),
	}}
}

func (v *Validator) checkParties(vendor extract.VendorInfo) []CheckResult {
	var results []CheckResult

	if !vendor.Name.Present() {
		results = append(results, CheckResult{
			Field:        "vendor_info.name",
			IsValid:      false,
			Severity:     constants.SeverityWarning,
			Message:      "Vendor name is missing",
			SuggestedFix: "Check header/vendor zone extraction",
		})
	}

	if vendor.Email.Present() && !emailFormat.MatchString(vendor.Email.Get()) {
		results = append(results, CheckResult{
			Field:        "vendor_info.email",
			IsValid:      false,
			Severity:     constants.SeverityWarning,
			Message:      fmt.Sprintf("Email format looks invalid: %s", vendor.Email.Get()),
			SuggestedFix: "Verify email extraction",
		})
	}

	if vendor.Phone.Present() {
		digits := phoneDigits.ReplaceAllString(vendor.Phone.Get(), "")
		if len(digits) < 7 {
			results = append(results, CheckResult{
				Field:        "vendor_info.phone",
				IsValid:      false,
				Severity:     constants.SeverityWarning,
				Message:      fmt.Sprintf("Phone number seems incomplete: %s", vendor.Phone.Get()),
				SuggestedFix: "Verify phone extraction",
			})
		}
	}

	return results
}

func (v *Validator) checkLineItems(items []extract.LineItem, amounts extract.Amounts) []CheckResult {
	if len(items) == 0 {
		return []CheckResult{{
			Field:        "line_items",
			IsValid:      false,
			Severity:     constants.SeverityWarning,
			Message:      "No line items found",
			SuggestedFix: "Check if invoice has a table structure",
		}}
	}

	var results []CheckResult
	var itemsTotal float64
	for _, item := range items {
		if item.Amount != nil {
			itemsTotal += *item.Amount
		}
	}

	if itemsTotal > 0 {
		if amounts.Subtotal.Present() {
			subtotal := amounts.Subtotal.Get()
			if abs(itemsTotal-subtotal) > subtotal*itemsTolerance {
				results = append(results, CheckResult{
					Field:        "line_items",
					IsValid:      false,
					Severity:     constants.SeverityWarning,
					Message:      fmt.Sprintf("Line items total (%.2f) doesn't match subtotal (%.2f)", itemsTotal, subtotal),
					SuggestedFix: "Check line item extraction or calculations",
				})
			}
		} else if amounts.Total.Present() {
			total := amounts.Total.Get()
			if abs(itemsTotal-total) > total*itemsTolerance {
				results = append(results, CheckResult{
					Field:        "line_items",
					IsValid:      false,
					Severity:     constants.SeverityInfo,
					Message:      fmt.Sprintf("Line items total (%.2f) differs from invoice total (%.2f)", itemsTotal, total),
					SuggestedFix: "This is normal if tax/discounts are applied",
				})
			}
		}
	}

	results = append(results, CheckResult{
		Field:    "line_items",
		IsValid:  true,
		Severity: constants.SeverityInfo,
		Message:  fmt.Sprintf("Found %d line items", len(items)),
	})
	return results
}

func (v *Validator) checkConfidence(meta extract.Metadata) []CheckResult {
	conf := meta.ExtractionConfidence

	switch {
	case conf < v.cfg.MinConfidence:
		return []CheckResult{{
			Field:        "metadata.confidence",
			IsValid:      false,
			Severity:     constants.SeverityError,
			Message:      fmt.Sprintf("Very low extraction confidence (%.0f%%)", conf*100),
			SuggestedFix: "Image quality is poor, manual review required",
		}}
	case conf < v.cfg.WarnConfidence:
		return []CheckResult{{
			Field:        "metadata.confidence",
			IsValid:      true,
			Severity:     constants.SeverityWarning,
			Message:      fmt.Sprintf("Low extraction confidence (%.0f%%)", conf*100),
			SuggestedFix: "Manual verification recommended",
		}}
	case conf < v.cfg.GoodConfidence:
		return []CheckResult{{
			Field:    "metadata.confidence",
			IsValid:  true,
			Severity: constants.SeverityInfo,
			Message:  fmt.Sprintf("Moderate extraction confidence (%.0f%%)", conf*100),
		}}
	default:
		return []CheckResult{{
			Field:    "metadata.confidence",
			IsValid:  true,
			Severity: constants.SeverityInfo,
			Message:  fmt.Sprintf("Good extraction confidence (%.0f%%)", conf*100),
		}}
	}
}

func (v *Validator) checkConsistency(fs *extract.FieldSet) []CheckResult {
	vendorName := fs.VendorInfo.Name
	customerName := fs.CustomerInfo.Name

	if vendorName.Present() && customerName.Present() && vendorName.Get() == customerName.Get() {
		return []CheckResult{{
			Field:        "consistency",
			IsValid:      false,
			Severity:     constants.SeverityWarning,
			Message:      "Vendor and customer names are identical",
			SuggestedFix: "Check if parties were extracted correctly",
		}}
	}
	return nil
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
