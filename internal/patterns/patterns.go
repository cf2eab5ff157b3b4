// Package patterns holds the compiled regular expressions, bilingual keyword
// lists and normalization primitives used by layout analysis and field
// extraction. Everything here is immutable after init and safe to share.
package patterns

import "regexp"

// NamedPattern pairs a compiled regex with the name used in provenance tags.
// Pattern sets are ordered slices: extraction tries them first to last and
// the first structural match wins.
type NamedPattern struct {
	Name string
	Re   *regexp.Regexp
}

// Date patterns. Each name has a fixed group -> (year, month, day) mapping,
// applied in ParseDate.
var DatePatterns = []NamedPattern{
	{"iso_date", regexp.MustCompile(`\b(\d{4})[-/](\d{1,2})[-/](\d{1,2})\b`)},
	{"dmy_slash", regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})/(\d{4})\b`)},
	{"dmy_dash", regexp.MustCompile(`\b(\d{1,2})-(\d{1,2})-(\d{4})\b`)},
	{"month_name", regexp.MustCompile(`(?i)\b(\d{1,2})\s+(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\s+(\d{4})\b`)},
	{"name_month", regexp.MustCompile(`(?i)\b(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\s+(\d{1,2}),?\s+(\d{4})\b`)},
	{"arabic_date", regexp.MustCompile(`[\x{0660}-\x{0669}]{1,2}[-/][\x{0660}-\x{0669}]{1,2}[-/][\x{0660}-\x{0669}]{4}`)},
	{"compact_date", regexp.MustCompile(`\b(20\d{2})(\d{2})(\d{2})\b`)},
}

// Number patterns, tried in order when pulling an amount out of a fragment.
var NumberPatterns = []NamedPattern{
	{"decimal_comma", regexp.MustCompile(`\b\d{1,3}(?:,\d{3})*(?:\.\d{2,}|\.\d{1,2})?\b`)},
	{"decimal_space", regexp.MustCompile(`\b\d{1,3}(?:\s\d{3})*(?:\.\d{2,}|\.\d{1,2})?\b`)},
	{"decimal_dot", regexp.MustCompile(`\b\d{1,3}(?:\.\d{3})*(?:,\d{2,}|,\d{1,2})?\b`)}, // European format
	{"simple_number", regexp.MustCompile(`\b\d+(?:\.\d{1,2})?\b`)},
	{"arabic_number", regexp.MustCompile(`[\x{0660}-\x{0669}]+(?:\.[\x{0660}-\x{0669}]+)?`)},
	{"with_currency", regexp.MustCompile(`(?i)[$£€¥₹₪﷼]\s*(\d{1,3}(?:[,.\s]\d{3})*(?:[.,]\d{2})?)|(\d{1,3}(?:[,.\s]\d{3})*(?:[.,]\d{2})?)\s*(?:[$£€¥₹₪﷼]|SAR|EGP|USD|AED|QAR|KWD|OMR|BHD|JOD|LBP|SYP|IQD|ريال|جنيه|دينار|درهم)`)},
}

// Invoice number patterns. "with_year" runs before "standard" so prefixed
// identifiers like INV-2024-001 are captured whole instead of losing the
// prefix to the bare digit group. "sequential" runs last and the direct-scan
// strategy skips it; bare 5-8 digit runs are too generic.
var InvoiceNumberPatterns = []NamedPattern{
	{"with_year", regexp.MustCompile(`\b([A-Za-z]{2,4}[-/#]?20\d{2}[-/#]?\d{3,})\b`)},
	{"standard", regexp.MustCompile(`(?i)\b(?:INV|INVOICE|INV#|NO|#|N°)[-/#\s]*(\d{4,})\b`)},
	{"arabic_marker", regexp.MustCompile(`(?:فاتورة|رقم|رقم الفاتورة)\s*[:#\s]*(\d+)`)},
	{"sequential", regexp.MustCompile(`\b\d{5,8}\b`)},
}

// Tax patterns.
var (
	TaxIDPattern         = NamedPattern{"tax_id", regexp.MustCompile(`(?i)\b(?:TAX|VAT|TIN|EIN|TRN)[-\s#:]*([A-Z0-9]{8,15})\b`)}
	TaxPercentagePattern = NamedPattern{"tax_percentage", regexp.MustCompile(`(?i)(?:VAT|TAX|ضريبة)?\s*(\d{1,2}(?:\.\d{1,2})?)\s*%`)}
	ArabicTaxPattern     = NamedPattern{"arabic_tax", regexp.MustCompile(`(?:الرقم الضريبي|رقم ضريبي)\s*:*\s*(\d+)`)}
)

// Phone patterns, most specific first.
var PhonePatterns = []NamedPattern{
	{"international", regexp.MustCompile(`\+\d{1,4}[-.\s]?\d{1,4}[-.\s]?\d{3,4}[-.\s]?\d{4}`)},
	{"local", regexp.MustCompile(`\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`)},
	{"simple", regexp.MustCompile(`\b0\d{9}\b`)},
}

var EmailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)

// Currency recognition, checked in priority order: symbols, ISO codes,
// Arabic currency names.
var (
	currencySymbolPattern = regexp.MustCompile(`[$£€¥₹₪﷼]`)
	currencyCodePattern   = regexp.MustCompile(`(?i)\b(SAR|EGP|USD|EUR|GBP|AED|QAR|KWD|OMR|BHD|JOD|LBP|SYP|IQD)\b`)
	currencyArabicPattern = regexp.MustCompile(`(ريال|جنيه|دينار|درهم|ليرة)`)
)

// Keywords is a bilingual keyword list for one field type. Matching is
// case-insensitive substring containment, never tokenized.
type Keywords struct {
	EN []string
	AR []string
}

// All returns the English and Arabic keywords as one list.
func (k Keywords) All() []string {
	out := make([]string, 0, len(k.EN)+len(k.AR))
	out = append(out, k.EN...)
	out = append(out, k.AR...)
	return out
}

var InvoiceNumberKeywords = Keywords{
	EN: []string{
		"invoice number", "invoice no", "invoice #", "inv no", "inv#",
		"number", "no.", "reference", "ref", "document number", "bill no",
	},
	AR: []string{
		"رقم الفاتورة", "رقم فاتورة", "فاتورة رقم", "رقم", "المرجع",
	},
}

var DateKeywords = Keywords{
	EN: []string{
		"date", "invoice date", "issue date", "issued", "due date",
		"payment date", "billing date", "created", "dated",
	},
	AR: []string{
		"تاريخ", "تاريخ الفاتورة", "تاريخ الإصدار", "تاريخ الاستحقاق",
		"التاريخ", "بتاريخ",
	},
}

var TotalKeywords = Keywords{
	EN: []string{
		"total", "grand total", "total amount", "amount due",
		"total due", "balance due", "net total", "final total",
		"total payable", "amount payable",
	},
	AR: []string{
		"المجموع", "الإجمالي", "المبلغ الإجمالي", "الإجمالي الكلي",
		"المبلغ المستحق", "المجموع الكلي", "إجمالي المبلغ",
	},
}

var SubtotalKeywords = Keywords{
	EN: []string{
		"subtotal", "sub-total", "sub total", "amount before tax",
		"net amount", "before tax",
	},
	AR: []string{
		"المجموع الفرعي", "قبل الضريبة", "المبلغ قبل الضريبة",
		"المجموع قبل الضريبة",
	},
}

var TaxKeywords = Keywords{
	EN: []string{
		"tax", "vat", "sales tax", "tax amount", "vat amount",
		"value added tax", "gst", "taxation",
	},
	AR: []string{
		"ضريبة", "الضريبة", "ضريبة القيمة المضافة", "قيمة الضريبة",
		"مبلغ الضريبة", "ض.ق.م",
	},
}

var DiscountKeywords = Keywords{
	EN: []string{
		"discount", "reduction", "deduction", "rebate", "off",
		"discount amount", "total discount",
	},
	AR: []string{
		"خصم", "تخفيض", "حسم", "الخصم", "قيمة الخصم",
	},
}

var VendorKeywords = Keywords{
	EN: []string{
		"vendor", "seller", "from", "supplier", "company",
		"sold by", "merchant", "provider", "business name",
	},
	AR: []string{
		"المورد", "البائع", "الشركة", "من", "مقدم الخدمة",
		"اسم الشركة", "التاجر",
	},
}

var CustomerKeywords = Keywords{
	EN: []string{
		"customer", "buyer", "to", "bill to", "billed to",
		"client", "customer name", "purchaser", "sold to",
	},
	AR: []string{
		"العميل", "المشتري", "إلى", "اسم العميل",
		"المستفيد", "الزبون",
	},
}

var PaymentTermsKeywords = Keywords{
	EN: []string{"payment", "terms", "net", "due", "days"},
	AR: []string{"شروط الدفع"},
}

// LabelKeywords are the single words that mark an element as a likely
// key-value label during layout analysis.
var LabelKeywords = []string{
	// English
	"invoice", "number", "date", "total", "subtotal", "tax", "vat",
	"customer", "vendor", "supplier", "amount", "due", "payment",
	"address", "phone", "email", "description", "quantity", "qty",
	"price", "unit", "discount",
	// Arabic
	"فاتورة", "رقم", "تاريخ", "المجموع", "الإجمالي", "ضريبة",
	"عميل", "مورد", "مبلغ", "دفع", "عنوان", "هاتف", "بريد",
	"وصف", "كمية", "سعر", "خصم",
}
