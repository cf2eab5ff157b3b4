// Package extract turns OCR text elements plus their spatial layout into
// structured invoice fields. Every field is wrapped in the same envelope of
// value, confidence and provenance; a missing field is the zero envelope,
// never an error.
package extract

import (
	"github.com/karim-nassar/invoice-extractor/constants"
	"github.com/karim-nassar/invoice-extractor/internal/layout"
)

// Field is the uniform extraction envelope. Value is nil when no strategy
// produced a result; Source names the strategy that did.
type Field[T any] struct {
	Value      *T               `json:"value"`
	Confidence float64          `json:"confidence"`
	Source     constants.Source `json:"source,omitempty"`
	Zone       layout.ZoneName  `json:"zone,omitempty"`
}

// NewField builds a populated envelope.
func NewField[T any](value T, confidence float64, source constants.Source, zone layout.ZoneName) Field[T] {
	return Field[T]{Value: &value, Confidence: confidence, Source: source, Zone: zone}
}

// Present reports whether a value was extracted.
func (f Field[T]) Present() bool { return f.Value != nil }

// Get returns the value or T's zero value when absent.
func (f Field[T]) Get() T {
	if f.Value != nil {
		return *f.Value
	}
	var zero T
	return zero
}

// Dates holds the document's date fields.
type Dates struct {
	InvoiceDate Field[string]   `json:"invoice_date"`
	DueDate     Field[string]   `json:"due_date"`
	OtherDates  []Field[string] `json:"other_dates"`
}

// Amounts holds the monetary fields.
type Amounts struct {
	Total    Field[float64] `json:"total"`
	Subtotal Field[float64] `json:"subtotal"`
	Tax      Field[float64] `json:"tax"`
	Discount Field[float64] `json:"discount"`
}

// TaxInfo holds tax identity fields.
type TaxInfo struct {
	TaxID         Field[string]  `json:"tax_id"`
	TaxPercentage Field[float64] `json:"tax_percentage"`
}

// VendorInfo holds seller identity fields.
type VendorInfo struct {
	Name  Field[string] `json:"name"`
	Phone Field[string] `json:"phone"`
	Email Field[string] `json:"email"`
}

// CustomerInfo holds buyer identity fields.
type CustomerInfo struct {
	Name Field[string] `json:"name"`
}

// LineItem is one row of the detected items table.
type LineItem struct {
	Description string   `json:"description"`
	Quantity    *int     `json:"quantity"`
	UnitPrice   *float64 `json:"unit_price"`
	Amount      *float64 `json:"amount"`
	Confidence  float64  `json:"confidence"`
}

// Metadata summarizes an extraction run.
type Metadata struct {
	ExtractionConfidence float64 `json:"extraction_confidence"`
	FieldsExtracted      int     `json:"fields_extracted"`
	TotalFields          int     `json:"total_fields"`
}

// totalFieldCount is the fixed denominator for FieldsExtracted.
const totalFieldCount = 9

// FieldSet is the complete extraction output for one document.
type FieldSet struct {
	InvoiceNumber Field[string] `json:"invoice_number"`
	Dates         Dates         `json:"dates"`
	Amounts       Amounts       `json:"amounts"`
	TaxInfo       TaxInfo       `json:"tax_info"`
	VendorInfo    VendorInfo    `json:"vendor_info"`
	CustomerInfo  CustomerInfo  `json:"customer_info"`
	LineItems     []LineItem    `json:"line_items"`
	Currency      Field[string] `json:"currency"`
	PaymentTerms  Field[string] `json:"payment_terms"`
	Metadata      Metadata      `json:"metadata"`
}

// leafConfidences collects every envelope confidence in the set, present or
// not, for the overall-confidence mean.
func (fs *FieldSet) leafConfidences() []float64 {
	return []float64{
		fs.InvoiceNumber.Confidence,
		fs.Dates.InvoiceDate.Confidence,
		fs.Dates.DueDate.Confidence,
		fs.Amounts.Total.Confidence,
		fs.Amounts.Subtotal.Confidence,
		fs.Amounts.Tax.Confidence,
		fs.Amounts.Discount.Confidence,
		fs.TaxInfo.TaxID.Confidence,
		fs.TaxInfo.TaxPercentage.Confidence,
		fs.VendorInfo.Name.Confidence,
		fs.VendorInfo.Phone.Confidence,
		fs.VendorInfo.Email.Confidence,
		fs.CustomerInfo.Name.Confidence,
		fs.Currency.Confidence,
		fs.PaymentTerms.Confidence,
	}
}

// fieldsExtracted counts the populated top-level fields out of the fixed
// total of nine.
func (fs *FieldSet) fieldsExtracted() int {
	n := 0
	if fs.InvoiceNumber.Present() {
		n++
	}
	if fs.Dates.InvoiceDate.Present() || fs.Dates.DueDate.Present() {
		n++
	}
	if fs.Amounts.Total.Present() || fs.Amounts.Subtotal.Present() ||
		fs.Amounts.Tax.Present() || fs.Amounts.Discount.Present() {
		n++
	}
	if fs.TaxInfo.TaxID.Present() || fs.TaxInfo.TaxPercentage.Present() {
		n++
	}
	if fs.VendorInfo.Name.Present() || fs.VendorInfo.Phone.Present() || fs.VendorInfo.Email.Present() {
		n++
	}
	if fs.CustomerInfo.Name.Present() {
		n++
	}
	if len(fs.LineItems) > 0 {
		n++
	}
	if fs.Currency.Present() {
		n++
	}
	if fs.PaymentTerms.Present() {
		n++
	}
	return n
}

func (fs *FieldSet) finalizeMetadata() {
	confs := fs.leafConfidences()
	var sum float64
	for _, c := range confs {
		sum += c
	}
	overall := 0.0
	if len(confs) > 0 {
		overall = sum / float64(len(confs))
	}
	fs.Metadata = Metadata{
		ExtractionConfidence: overall,
		FieldsExtracted:      fs.fieldsExtracted(),
		TotalFields:          totalFieldCount,
	}
}
