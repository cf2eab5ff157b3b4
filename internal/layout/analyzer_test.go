package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karim-nassar/invoice-extractor/internal/ocr"
)

const (
	imgW = 1000
	imgH = 1000
)

// el builds an element whose normalized center lands at (x, y).
func el(text string, conf, x, y float64) ocr.TextElement {
	cx := x * imgW
	cy := y * imgH
	bbox := [4]ocr.Point{
		{X: cx - 40, Y: cy - 10},
		{X: cx + 40, Y: cy - 10},
		{X: cx + 40, Y: cy + 10},
		{X: cx - 40, Y: cy + 10},
	}
	return ocr.NewTextElement(text, conf, bbox, imgW, imgH)
}

func TestAssignZones(t *testing.T) {
	elements := []ocr.TextElement{
		el("header text", 0.9, 0.5, 0.10),
		el("vendor text", 0.9, 0.5, 0.25),
		el("items text", 0.9, 0.5, 0.50),
		el("totals text", 0.9, 0.5, 0.80),
		el("footer text", 0.9, 0.5, 0.97),
		el("bottom edge", 0.9, 0.5, 1.00),
	}

	res := Analyze(elements)

	assert.Len(t, res.Zone(ZoneHeader), 1)
	assert.Len(t, res.Zone(ZoneVendor), 1)
	assert.Len(t, res.Zone(ZoneItems), 1)
	assert.Len(t, res.Zone(ZoneTotals), 1)
	assert.Len(t, res.Zone(ZoneFooter), 2)
	assert.Empty(t, res.Zone(ZoneUnknown))
}

func TestZoneBoundariesAreHalfOpen(t *testing.T) {
	// y = 0.20 is the first vendor row, not the last header row.
	res := Analyze([]ocr.TextElement{el("boundary", 0.9, 0.5, 0.20)})
	assert.Empty(t, res.Zone(ZoneHeader))
	assert.Len(t, res.Zone(ZoneVendor), 1)
}

func TestGroupLines(t *testing.T) {
	elements := []ocr.TextElement{
		el("right", 0.9, 0.7, 0.101),
		el("left", 0.9, 0.2, 0.100),
		el("below", 0.9, 0.2, 0.150),
	}

	lines := GroupLines(elements)
	require.Len(t, lines, 2)

	require.Len(t, lines[0], 2)
	assert.Equal(t, "left", lines[0][0].Text)
	assert.Equal(t, "right", lines[0][1].Text)
	assert.Equal(t, "below", lines[1][0].Text)
}

func TestGroupLinesFollowsSkew(t *testing.T) {
	// Each neighbor is within the threshold even though the row drifts
	// beyond it end to end.
	elements := []ocr.TextElement{
		el("a", 0.9, 0.1, 0.100),
		el("b", 0.9, 0.4, 0.115),
		el("c", 0.9, 0.7, 0.130),
	}
	lines := GroupLines(elements)
	require.Len(t, lines, 1)
	assert.Len(t, lines[0], 3)
}

func TestGroupLinesEmpty(t *testing.T) {
	assert.Nil(t, GroupLines(nil))
}

func TestDetectKeyValuePairs(t *testing.T) {
	elements := []ocr.TextElement{
		el("Invoice Number:", 0.95, 0.15, 0.10),
		el("INV-2024-001", 0.90, 0.35, 0.10),
		el("too far away", 0.90, 0.80, 0.10),
	}

	res := Analyze(elements)
	require.Len(t, res.KeyValuePairs, 1)

	pair := res.KeyValuePairs[0]
	assert.Equal(t, "Invoice Number:", pair.Label)
	assert.Equal(t, "INV-2024-001", pair.Value)
	assert.InDelta(t, 0.20, pair.Distance, 0.001)
	assert.Equal(t, 0.90, pair.ValueConfidence)
}

func TestDetectKeyValuePairsPicksNearest(t *testing.T) {
	elements := []ocr.TextElement{
		el("Total:", 0.95, 0.10, 0.80),
		el("1150.00", 0.90, 0.25, 0.80),
		el("USD", 0.90, 0.38, 0.80),
	}

	res := Analyze(elements)

	var pair *KeyValuePair
	for i := range res.KeyValuePairs {
		if res.KeyValuePairs[i].Label == "Total:" {
			pair = &res.KeyValuePairs[i]
			break
		}
	}
	require.NotNil(t, pair)
	assert.Equal(t, "1150.00", pair.Value)
}

func TestDetectTables(t *testing.T) {
	elements := []ocr.TextElement{
		el("Widget A", 0.9, 0.15, 0.40),
		el("2", 0.9, 0.45, 0.40),
		el("500.00", 0.9, 0.75, 0.40),
		el("Widget B", 0.9, 0.15, 0.45),
		el("1", 0.9, 0.45, 0.45),
		el("500.00", 0.9, 0.75, 0.45),
	}

	res := Analyze(elements)
	require.Len(t, res.Tables, 1)

	table := res.Tables[0]
	assert.Equal(t, 2, table.NumRows)
	assert.Equal(t, 3, table.NumColumns)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "Widget A | 2 | 500.00", table.Rows[0].Text)
}

func TestDetectTablesNeedsTwoLines(t *testing.T) {
	elements := []ocr.TextElement{
		el("only", 0.9, 0.2, 0.50),
		el("one line", 0.9, 0.6, 0.50),
	}
	res := Analyze(elements)
	assert.Empty(t, res.Tables)
}

func TestFindRightOf(t *testing.T) {
	label := el("Total", 0.9, 0.20, 0.80)
	elements := []ocr.TextElement{
		label,
		el("1150.00", 0.9, 0.40, 0.80),
		el("to the left", 0.9, 0.05, 0.80),
		el("different row", 0.9, 0.40, 0.90),
		el("too far right", 0.9, 0.90, 0.80),
	}

	nearby := FindRightOf(elements, label, 0.4)
	require.Len(t, nearby, 1)
	assert.Equal(t, "1150.00", nearby[0].Text)
}

func TestAnalyzeEmpty(t *testing.T) {
	res := Analyze(nil)
	assert.Empty(t, res.Lines)
	assert.Empty(t, res.KeyValuePairs)
	assert.Empty(t, res.Tables)
	assert.Empty(t, res.Zone(ZoneHeader))
}
