// Package layout groups OCR text elements into spatial structures: vertical
// zones, horizontal lines, key-value pairs and tables. Analysis is a pure
// function of the element list; there is no state carried between calls.
package layout

import (
	"github.com/karim-nassar/invoice-extractor/internal/ocr"
)

// ZoneName identifies one of the fixed vertical bands of an invoice page.
type ZoneName string

const (
	ZoneHeader  ZoneName = "header"
	ZoneVendor  ZoneName = "vendor"
	ZoneItems   ZoneName = "items"
	ZoneTotals  ZoneName = "totals"
	ZoneFooter  ZoneName = "footer"
	ZoneUnknown ZoneName = "unknown"
)

// zoneBand is a [start, end) band in normalized y. The footer band closes
// the interval at 1.0 so full coverage holds.
type zoneBand struct {
	name   ZoneName
	yStart float64
	yEnd   float64
}

// Standard invoice bands, top to bottom. Together they cover [0,1] with no
// gaps, so ZoneUnknown only catches out-of-range input.
var zoneBands = []zoneBand{
	{ZoneHeader, 0.00, 0.20}, // logo, invoice number, date
	{ZoneVendor, 0.20, 0.35}, // vendor / buyer info
	{ZoneItems, 0.35, 0.75},  // line items table
	{ZoneTotals, 0.75, 0.95}, // subtotal, tax, total
	{ZoneFooter, 0.95, 1.00}, // payment info, notes
}

func (b zoneBand) contains(y float64) bool {
	if b.name == ZoneFooter {
		return y >= b.yStart && y <= b.yEnd
	}
	return y >= b.yStart && y < b.yEnd
}

// Line is a maximal run of elements judged to sit on the same text row,
// ordered left to right.
type Line []ocr.TextElement

// KeyValuePair is a label element paired with the nearest value element to
// its right on the same line.
type KeyValuePair struct {
	Label           string       `json:"label"`
	Value           string       `json:"value"`
	LabelBBox       [4]ocr.Point `json:"label_bbox"`
	ValueBBox       [4]ocr.Point `json:"value_bbox"`
	LabelConfidence float64      `json:"label_confidence"`
	ValueConfidence float64      `json:"value_confidence"`
	Distance        float64      `json:"distance"` // normalized horizontal gap
}

// TableRow is one detected row: its source elements, the pipe-joined text
// and the mean normalized y of its members.
type TableRow struct {
	Elements  []ocr.TextElement `json:"elements"`
	Text      string            `json:"text"`
	YPosition float64           `json:"y_position"`
}

// Table is a grid-like structure detected in the items zone.
type Table struct {
	NumRows         int        `json:"num_rows"`
	NumColumns      int        `json:"num_columns"`
	ColumnPositions []float64  `json:"column_positions"`
	Rows            []TableRow `json:"rows"`
}

// Result is the full layout of one document.
type Result struct {
	Zones         map[ZoneName][]ocr.TextElement
	Lines         []Line
	KeyValuePairs []KeyValuePair
	Tables        []Table
}

// Zone returns the elements assigned to the named zone, which may be empty.
func (r *Result) Zone(name ZoneName) []ocr.TextElement {
	if r == nil || r.Zones == nil {
		return nil
	}
	return r.Zones[name]
}

// HeaderAndVendor is the usual search space for identity fields: header
// elements followed by vendor-zone elements.
func (r *Result) HeaderAndVendor() []ocr.TextElement {
	header := r.Zone(ZoneHeader)
	vendor := r.Zone(ZoneVendor)
	out := make([]ocr.TextElement, 0, len(header)+len(vendor))
	out = append(out, header...)
	out = append(out, vendor...)
	return out
}
