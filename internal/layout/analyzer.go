package layout

import (
	"math"
	"sort"
	"strings"

	"github.com/karim-nassar/invoice-extractor/internal/ocr"
	"github.com/karim-nassar/invoice-extractor/internal/patterns"
)

const (
	// alignmentThreshold is the max normalized y distance between elements
	// on the same text row.
	alignmentThreshold = 0.02
	// maxLabelValueDistance is the max normalized horizontal gap between a
	// label and its value.
	maxLabelValueDistance = 0.3
	// columnRecurrence: an x bucket must appear in at least this share of
	// table rows to count as a column position.
	columnRecurrence = 0.5
)

// Analyze computes the spatial layout of the given elements. Empty input
// yields an empty result, never an error.
func Analyze(elements []ocr.TextElement) *Result {
	res := &Result{
		Zones:         map[ZoneName][]ocr.TextElement{},
		Lines:         nil,
		KeyValuePairs: nil,
		Tables:        nil,
	}
	if len(elements) == 0 {
		return res
	}

	res.Zones = assignZones(elements)
	res.Lines = GroupLines(elements)
	res.KeyValuePairs = detectKeyValuePairs(elements)
	res.Tables = detectTables(res.Zones[ZoneItems])
	return res
}

// assignZones places each element into the first band containing its
// normalized y center, then orders each zone top-to-bottom, left-to-right.
func assignZones(elements []ocr.TextElement) map[ZoneName][]ocr.TextElement {
	zones := map[ZoneName][]ocr.TextElement{}

	for _, el := range elements {
		y := el.NormalizedCenter.Y
		assigned := false
		for _, band := range zoneBands {
			if band.contains(y) {
				zones[band.name] = append(zones[band.name], el)
				assigned = true
				break
			}
		}
		if !assigned {
			zones[ZoneUnknown] = append(zones[ZoneUnknown], el)
		}
	}

	for name := range zones {
		els := zones[name]
		sort.SliceStable(els, func(i, j int) bool {
			if els[i].NormalizedCenter.Y != els[j].NormalizedCenter.Y {
				return els[i].NormalizedCenter.Y < els[j].NormalizedCenter.Y
			}
			return els[i].NormalizedCenter.X < els[j].NormalizedCenter.X
		})
	}
	return zones
}

// GroupLines sorts elements by y and walks once, starting a new line when
// the gap from the last-admitted element exceeds the alignment threshold.
// The comparison is against the current line's last member, not its first,
// so a slightly skewed row stays one line as long as neighbors stay close.
func GroupLines(elements []ocr.TextElement) []Line {
	if len(elements) == 0 {
		return nil
	}

	sorted := make([]ocr.TextElement, len(elements))
	copy(sorted, elements)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].NormalizedCenter.Y < sorted[j].NormalizedCenter.Y
	})

	var lines []Line
	current := Line{sorted[0]}

	for _, el := range sorted[1:] {
		lastY := current[len(current)-1].NormalizedCenter.Y
		if math.Abs(el.NormalizedCenter.Y-lastY) < alignmentThreshold {
			current = append(current, el)
		} else {
			lines = append(lines, sortByX(current))
			current = Line{el}
		}
	}
	lines = append(lines, sortByX(current))
	return lines
}

func sortByX(line Line) Line {
	sort.SliceStable(line, func(i, j int) bool {
		return line[i].NormalizedCenter.X < line[j].NormalizedCenter.X
	})
	return line
}

// detectKeyValuePairs finds label-like elements (field keyword or colon)
// and pairs each with the closest same-line element to its right within
// the max label-value distance.
func detectKeyValuePairs(elements []ocr.TextElement) []KeyValuePair {
	var pairs []KeyValuePair

	for i, el := range elements {
		if !isLabelLike(el.Text) {
			continue
		}

		labelX := el.NormalizedCenter.X
		labelY := el.NormalizedCenter.Y

		bestIdx := -1
		bestDist := math.Inf(1)
		for j, other := range elements {
			if i == j {
				continue
			}
			dx := other.NormalizedCenter.X - labelX
			dy := math.Abs(other.NormalizedCenter.Y - labelY)
			if dx <= 0 || dy >= alignmentThreshold || dx >= maxLabelValueDistance {
				continue
			}
			if dx < bestDist {
				bestDist = dx
				bestIdx = j
			}
		}

		if bestIdx >= 0 {
			value := elements[bestIdx]
			pairs = append(pairs, KeyValuePair{
				Label:           el.Text,
				Value:           value.Text,
				LabelBBox:       el.BBox,
				ValueBBox:       value.BBox,
				LabelConfidence: el.Confidence,
				ValueConfidence: value.Confidence,
				Distance:        bestDist,
			})
		}
	}
	return pairs
}

func isLabelLike(text string) bool {
	if strings.Contains(text, ":") {
		return true
	}
	lower := strings.ToLower(text)
	for _, kw := range patterns.LabelKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// detectTables looks for a grid in the items zone. It needs at least two
// lines; column positions are the rounded x buckets recurring in at least
// half the rows, averaged per bucket. At most one table is emitted: only
// the items zone is scanned, multi-table documents are not supported.
func detectTables(itemsZone []ocr.TextElement) []Table {
	if len(itemsZone) == 0 {
		return nil
	}

	lines := GroupLines(itemsZone)
	if len(lines) < 2 {
		return nil
	}

	xBuckets := map[float64][]float64{}
	for _, line := range lines {
		for _, el := range line {
			x := el.NormalizedCenter.X
			xBuckets[math.Round(x*100)/100] = append(xBuckets[math.Round(x*100)/100], x)
		}
	}

	var columns []float64
	minCount := float64(len(lines)) * columnRecurrence
	for _, xs := range xBuckets {
		if float64(len(xs)) >= minCount {
			columns = append(columns, mean(xs))
		}
	}
	sort.Float64s(columns)

	table := Table{
		NumRows:         len(lines),
		NumColumns:      len(columns),
		ColumnPositions: columns,
	}
	for _, line := range lines {
		texts := make([]string, len(line))
		ys := make([]float64, len(line))
		for i, el := range line {
			texts[i] = el.Text
			ys[i] = el.NormalizedCenter.Y
		}
		table.Rows = append(table.Rows, TableRow{
			Elements:  line,
			Text:      strings.Join(texts, " | "),
			YPosition: mean(ys),
		})
	}
	return []Table{table}
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// FindRightOf returns the elements to the right of the given element on
// the same row, within maxDistance normalized units, ordered as given.
func FindRightOf(elements []ocr.TextElement, of ocr.TextElement, maxDistance float64) []ocr.TextElement {
	var nearby []ocr.TextElement
	for _, el := range elements {
		if el.SamePosition(of) {
			continue
		}
		dx := el.NormalizedCenter.X - of.NormalizedCenter.X
		dy := math.Abs(el.NormalizedCenter.Y - of.NormalizedCenter.Y)
		if dx > 0 && dy < alignmentThreshold && dx < maxDistance {
			nearby = append(nearby, el)
		}
	}
	return nearby
}
