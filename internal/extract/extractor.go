package extract

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/karim-nassar/invoice-extractor/constants"
	"github.com/karim-nassar/invoice-extractor/internal/layout"
	"github.com/karim-nassar/invoice-extractor/internal/ocr"
	"github.com/karim-nassar/invoice-extractor/internal/patterns"
)

const (
	// Search radii, in normalized width, for value lookups right of a
	// matched keyword.
	keywordValueRadius = 0.4
	dateValueRadius    = 0.3

	// Parsed amounts outside (0, maxPlausibleAmount) are treated as
	// non-matches and the next pattern or strategy is tried.
	maxPlausibleAmount = 1_000_000_000
)

var (
	digitRun    = regexp.MustCompile(`\d+`)
	nonDigit    = regexp.MustCompile(`\D`)
	wholeNumber = regexp.MustCompile(`^\d+$`)
)

// A strategy produces a field value or reports that it found nothing.
// Each field runs an ordered strategy list; the first success wins and the
// rest are never consulted.
type strategy[T any] func() (Field[T], bool)

func firstSuccess[T any](strategies ...strategy[T]) Field[T] {
	for _, s := range strategies {
		if f, ok := s(); ok {
			return f
		}
	}
	return Field[T]{}
}

// Extractor runs the per-field strategy pipelines over a document.
type Extractor struct {
	logger *slog.Logger
}

func NewExtractor(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{logger: logger}
}

// ExtractAll extracts every invoice field. The layout is computed from the
// elements when not supplied.
func (e *Extractor) ExtractAll(elements []ocr.TextElement, lay *layout.Result) *FieldSet {
	if lay == nil {
		lay = layout.Analyze(elements)
	}

	fs := &FieldSet{
		InvoiceNumber: e.extractInvoiceNumber(lay),
		Dates:         e.extractDates(lay),
		Amounts:       e.extractAmounts(lay),
		TaxInfo:       e.extractTaxInfo(elements),
		VendorInfo:    e.extractVendorInfo(lay),
		CustomerInfo:  e.extractCustomerInfo(lay),
		LineItems:     e.extractLineItems(lay),
		Currency:      e.extractCurrency(elements),
		PaymentTerms:  e.extractPaymentTerms(lay),
	}
	fs.finalizeMetadata()

	e.logger.Debug("extract.done",
		"fields_extracted", fs.Metadata.FieldsExtracted,
		"confidence", fs.Metadata.ExtractionConfidence,
	)
	return fs
}

// ---------------------------------------------------------------
// invoice number
// ---------------------------------------------------------------

func (e *Extractor) extractInvoiceNumber(lay *layout.Result) Field[string] {
	header := lay.Zone(layout.ZoneHeader)

	return firstSuccess(
		// (a) English keyword + nearby value matched against the pattern set.
		func() (Field[string], bool) {
			for _, el := range header {
				lower := strings.ToLower(el.Text)
				if !containsAny(lower, patterns.InvoiceNumberKeywords.EN) {
					continue
				}
				for _, near := range layout.FindRightOf(header, el, keywordValueRadius) {
					for _, np := range patterns.InvoiceNumberPatterns {
						if v := submatchOrWhole(np.Re, near.Text); v != "" {
							conf := (el.Confidence + near.Confidence) / 2
							return NewField(strings.TrimSpace(v), conf, constants.SourceKeywordProximity, layout.ZoneHeader), true
						}
					}
				}
			}
			return Field[string]{}, false
		},
		// (b) Arabic keyword + leading digit run of the nearby value.
		func() (Field[string], bool) {
			for _, el := range header {
				if !containsAny(el.Text, patterns.InvoiceNumberKeywords.AR) {
					continue
				}
				for _, near := range layout.FindRightOf(header, el, keywordValueRadius) {
					if run := digitRun.FindString(near.Text); len(run) >= 4 {
						conf := (el.Confidence + near.Confidence) / 2
						return NewField(run, conf, constants.SourceArabicKeywordProximity, layout.ZoneHeader), true
					}
				}
			}
			return Field[string]{}, false
		},
		// (c) Direct pattern scan of header elements. The bare sequential
		// pattern is skipped here: 5-8 digit runs match too much.
		func() (Field[string], bool) {
			for _, el := range header {
				for _, np := range patterns.InvoiceNumberPatterns {
					if np.Name == "sequential" {
						continue
					}
					if v := submatchOrWhole(np.Re, el.Text); v != "" {
						return NewField(strings.TrimSpace(v), el.Confidence, constants.PatternSource(np.Name), layout.ZoneHeader), true
					}
				}
			}
			return Field[string]{}, false
		},
		// (d) Key-value pair lookup by label keyword.
		func() (Field[string], bool) {
			for _, pair := range lay.KeyValuePairs {
				if containsAny(strings.ToLower(pair.Label), patterns.InvoiceNumberKeywords.EN) {
					return NewField(pair.Value, pair.ValueConfidence, constants.SourceKeyValuePair, layout.ZoneHeader), true
				}
			}
			return Field[string]{}, false
		},
	)
}

// ---------------------------------------------------------------
// dates
// ---------------------------------------------------------------

var (
	invoiceDateKeywords = []string{"invoice date", "issue date", "date", "dated", "تاريخ الفاتورة", "تاريخ"}
	dueDateKeywords     = []string{"due date", "payment date", "due", "تاريخ الاستحقاق"}
)

func (e *Extractor) extractDates(lay *layout.Result) Dates {
	var dates Dates
	search := lay.HeaderAndVendor()

	// Strategy 1: date keyword in element text; value in the same element
	// or the nearest element to the right.
	for _, el := range search {
		lower := strings.ToLower(el.Text)
		isDue := containsAny(lower, dueDateKeywords) || containsAny(el.Text, dueDateKeywords)
		isInvoice := containsAny(lower, invoiceDateKeywords) || containsAny(el.Text, invoiceDateKeywords)
		if !isDue && !isInvoice {
			continue
		}

		value := patterns.ParseDate(el.Text)
		if value == "" {
			for _, near := range layout.FindRightOf(search, el, dateValueRadius) {
				if value = patterns.ParseDate(near.Text); value != "" {
					break
				}
			}
		}
		if value == "" {
			continue
		}

		// Due dates overwrite on every hit (last row wins); the invoice
		// date keeps the first hit.
		field := NewField(value, el.Confidence, constants.SourceKeywordProximity, "")
		if isDue {
			dates.DueDate = field
		} else if isInvoice && !dates.InvoiceDate.Present() {
			dates.InvoiceDate = field
		}
	}

	// Strategy 2: first parseable date anywhere in header+vendor, assigned
	// to the invoice date only if still empty.
	if !dates.InvoiceDate.Present() {
		for _, el := range search {
			if value := patterns.ParseDate(el.Text); value != "" {
				dates.InvoiceDate = NewField(value, el.Confidence, constants.SourcePatternMatch, "")
				break
			}
		}
	}

	// Strategy 3: key-value pairs whose label mentions a date.
	for _, pair := range lay.KeyValuePairs {
		labelLower := strings.ToLower(pair.Label)
		if !strings.Contains(labelLower, "date") && !strings.Contains(pair.Label, "تاريخ") {
			continue
		}
		value := patterns.ParseDate(pair.Value)
		if value == "" {
			continue
		}
		field := NewField(value, pair.ValueConfidence, constants.SourceKeyValuePair, "")
		if strings.Contains(labelLower, "due") || strings.Contains(pair.Label, "استحقاق") {
			dates.DueDate = field
		} else if !dates.InvoiceDate.Present() {
			dates.InvoiceDate = field
		}
	}

	return dates
}

// ---------------------------------------------------------------
// amounts
// ---------------------------------------------------------------

type amountKind struct {
	name     string
	keywords patterns.Keywords
	assign   func(*Amounts, Field[float64])
	get      func(*Amounts) Field[float64]
}

var amountKinds = []amountKind{
	{"total", patterns.TotalKeywords,
		func(a *Amounts, f Field[float64]) { a.Total = f },
		func(a *Amounts) Field[float64] { return a.Total }},
	{"subtotal", patterns.SubtotalKeywords,
		func(a *Amounts, f Field[float64]) { a.Subtotal = f },
		func(a *Amounts) Field[float64] { return a.Subtotal }},
	{"tax", patterns.TaxKeywords,
		func(a *Amounts, f Field[float64]) { a.Tax = f },
		func(a *Amounts) Field[float64] { return a.Tax }},
	{"discount", patterns.DiscountKeywords,
		func(a *Amounts, f Field[float64]) { a.Discount = f },
		func(a *Amounts) Field[float64] { return a.Discount }},
}

func (e *Extractor) extractAmounts(lay *layout.Result) Amounts {
	var amounts Amounts
	totals := lay.Zone(layout.ZoneTotals)

	// Strategy 1: per amount kind, keyword in the totals zone with the
	// value in the same element or the nearest element to the right.
	// Later matching rows overwrite earlier ones, so the bottom-most
	// keyword row wins: "Subtotal" also contains "total", and the grand
	// total printed below it must take the slot.
	for _, kind := range amountKinds {
		for _, el := range totals {
			if !matchesKeywords(el.Text, kind.keywords) {
				continue
			}
			if amount, ok := AmountFromText(el.Text); ok {
				kind.assign(&amounts, NewField(amount, el.Confidence, constants.SourceKeywordSameElement, layout.ZoneTotals))
				continue
			}
			for _, near := range layout.FindRightOf(totals, el, keywordValueRadius) {
				if amount, ok := AmountFromText(near.Text); ok {
					conf := (el.Confidence + near.Confidence) / 2
					kind.assign(&amounts, NewField(amount, conf, constants.SourceKeywordProximity, layout.ZoneTotals))
					break
				}
			}
		}
	}

	// Strategy 2: derive the subtotal when total and tax are known.
	if amounts.Total.Present() && amounts.Tax.Present() && !amounts.Subtotal.Present() {
		derived := amounts.Total.Get() - amounts.Tax.Get()
		if derived > 0 {
			conf := min(amounts.Total.Confidence, amounts.Tax.Confidence)
			amounts.Subtotal = NewField(derived, conf, constants.SourceCalculated, layout.ZoneTotals)
		}
	}

	// Strategy 3: key-value pairs fill whatever is still missing.
	for _, pair := range lay.KeyValuePairs {
		for _, kind := range amountKinds {
			if kind.get(&amounts).Present() || !matchesKeywords(pair.Label, kind.keywords) {
				continue
			}
			if amount, ok := AmountFromText(pair.Value); ok {
				kind.assign(&amounts, NewField(amount, pair.ValueConfidence, constants.SourceKeyValuePair, layout.ZoneTotals))
			}
		}
	}

	return amounts
}

// AmountFromText pulls the first plausible monetary value out of a
// fragment. Each number pattern is tried in order and the first parse
// strictly inside (0, 1e9) wins; anything else is a non-match.
func AmountFromText(text string) (float64, bool) {
	text = patterns.NormalizeDigits(text)

	for _, np := range patterns.NumberPatterns {
		m := np.Re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		amountStr := m[0]
		for _, g := range m[1:] {
			if g != "" {
				amountStr = g
				break
			}
		}
		amount := patterns.CleanAmount(amountStr)
		if amount > 0 && amount < maxPlausibleAmount {
			return amount, true
		}
	}
	return 0, false
}

// ---------------------------------------------------------------
// tax info
// ---------------------------------------------------------------

func (e *Extractor) extractTaxInfo(elements []ocr.TextElement) TaxInfo {
	var info TaxInfo

	for _, el := range elements {
		if !info.TaxID.Present() {
			if m := patterns.TaxIDPattern.Re.FindStringSubmatch(el.Text); m != nil {
				info.TaxID = NewField(m[1], el.Confidence, constants.PatternSource(patterns.TaxIDPattern.Name), "")
			}
		}
		if !info.TaxPercentage.Present() {
			if m := patterns.TaxPercentagePattern.Re.FindStringSubmatch(el.Text); m != nil {
				if pct, err := strconv.ParseFloat(m[1], 64); err == nil {
					info.TaxPercentage = NewField(pct, el.Confidence, constants.PatternSource(patterns.TaxPercentagePattern.Name), "")
				}
			}
		}
		if info.TaxID.Present() && info.TaxPercentage.Present() {
			break
		}
	}
	return info
}

// ---------------------------------------------------------------
// parties
// ---------------------------------------------------------------

func (e *Extractor) extractVendorInfo(lay *layout.Result) VendorInfo {
	var vendor VendorInfo
	search := lay.HeaderAndVendor()

	for _, el := range search {
		for _, np := range patterns.PhonePatterns {
			if m := np.Re.FindString(el.Text); m != "" {
				vendor.Phone = NewField(m, el.Confidence, constants.PatternSource(np.Name), "")
				break
			}
		}
		if vendor.Phone.Present() {
			break
		}
	}

	for _, el := range search {
		if m := patterns.EmailPattern.FindString(el.Text); m != "" {
			vendor.Email = NewField(m, el.Confidence, constants.PatternSource("email"), "")
			break
		}
	}

	// Company name: first of the top few elements that is neither a bare
	// number nor a date.
	limit := min(len(search), 5)
	for _, el := range search[:limit] {
		text := strings.TrimSpace(el.Text)
		// Rune count, not bytes: short Arabic fragments are multi-byte.
		if utf8.RuneCountInString(text) <= 3 || isNumericish(text) || looksLikeDate(text) {
			continue
		}
		vendor.Name = NewField(text, el.Confidence, constants.SourcePositionHeuristic, "")
		break
	}

	return vendor
}

func (e *Extractor) extractCustomerInfo(lay *layout.Result) CustomerInfo {
	var customer CustomerInfo
	vendorZone := lay.Zone(layout.ZoneVendor)

	for i, el := range vendorZone {
		lower := strings.ToLower(el.Text)
		if !containsAny(lower, patterns.CustomerKeywords.EN) && !containsAny(el.Text, patterns.CustomerKeywords.AR) {
			continue
		}
		if i+1 < len(vendorZone) {
			next := vendorZone[i+1]
			customer.Name = NewField(next.Text, next.Confidence, constants.SourceKeywordProximity, layout.ZoneVendor)
		}
		break
	}
	return customer
}

// ---------------------------------------------------------------
// line items
// ---------------------------------------------------------------

func (e *Extractor) extractLineItems(lay *layout.Result) []LineItem {
	if len(lay.Tables) == 0 {
		return nil
	}

	var items []LineItem
	for _, row := range lay.Tables[0].Rows {
		cells := row.Elements
		if len(cells) < 2 {
			continue // header fragment or stray cell
		}

		item := LineItem{
			Description: cells[0].Text,
			Confidence:  cells[0].Confidence,
		}
		if amount, ok := AmountFromText(cells[len(cells)-1].Text); ok {
			item.Amount = &amount
		}
		for _, cell := range cells[1 : len(cells)-1] {
			text := strings.TrimSpace(cell.Text)
			if wholeNumber.MatchString(text) {
				if qty, err := strconv.Atoi(text); err == nil {
					item.Quantity = &qty
					break
				}
			}
		}
		items = append(items, item)
	}
	return items
}

// ---------------------------------------------------------------
// currency & payment terms
// ---------------------------------------------------------------

func (e *Extractor) extractCurrency(elements []ocr.TextElement) Field[string] {
	texts := make([]string, len(elements))
	for i, el := range elements {
		texts[i] = el.Text
	}
	code := patterns.FindCurrency(strings.Join(texts, " "))
	return NewField(code, 0.8, constants.SourcePatternMatch, "")
}

func (e *Extractor) extractPaymentTerms(lay *layout.Result) Field[string] {
	for _, el := range lay.Zone(layout.ZoneFooter) {
		lower := strings.ToLower(el.Text)
		if containsAny(lower, patterns.PaymentTermsKeywords.EN) || containsAny(el.Text, patterns.PaymentTermsKeywords.AR) {
			return NewField(el.Text, el.Confidence, constants.SourceKeywordMatch, layout.ZoneFooter)
		}
	}
	return Field[string]{}
}

// ---------------------------------------------------------------
// helpers
// ---------------------------------------------------------------

// submatchOrWhole returns the first non-empty capture group of the match,
// falling back to the whole match, or "" when the pattern does not match.
func submatchOrWhole(re *regexp.Regexp, text string) string {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	for _, g := range m[1:] {
		if g != "" {
			return g
		}
	}
	return m[0]
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}

// matchesKeywords checks English keywords against the lowercased text and
// Arabic keywords against the raw text.
func matchesKeywords(text string, kw patterns.Keywords) bool {
	return containsAny(strings.ToLower(text), kw.EN) || containsAny(text, kw.AR)
}

// isNumericish reports whether text is digits once date separators are
// removed.
func isNumericish(text string) bool {
	stripped := strings.NewReplacer("-", "", "/", "").Replace(text)
	return stripped != "" && !nonDigit.MatchString(stripped)
}

func looksLikeDate(text string) bool {
	for _, np := range patterns.DatePatterns {
		if np.Re.MatchString(text) {
			return true
		}
	}
	return false
}
