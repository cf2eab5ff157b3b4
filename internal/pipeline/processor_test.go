package pipeline

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/google/uuid"

	"github.com/karim-nassar/invoice-extractor/constants"
	"github.com/karim-nassar/invoice-extractor/internal/common"
	"github.com/karim-nassar/invoice-extractor/internal/extract"
	"github.com/karim-nassar/invoice-extractor/internal/ocr"
	"github.com/karim-nassar/invoice-extractor/internal/repository"
)

const (
	imgW = 1000
	imgH = 1000
)

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

func testElements() []ocr.TextElement {
	return []ocr.TextElement{
		el("Carrefour", 0.95, 0.30, 0.03),
		el("Invoice Number:", 0.95, 0.20, 0.13),
		el("INV-2024-001", 0.93, 0.45, 0.13),
		el("Date: 2024-01-15", 0.91, 0.20, 0.17),
		el("Bread", 0.92, 0.15, 0.42),
		el("500.00", 0.94, 0.75, 0.42),
		el("Milk", 0.92, 0.15, 0.48),
		el("500.00", 0.94, 0.75, 0.48),
		el("Grand Total", 0.96, 0.20, 0.80),
		el("$1,150.00", 0.97, 0.45, 0.80),
	}
}

func testPipelineConfig() common.PipelineConfig {
	return common.PipelineConfig{
		MinConfidence:     0.5,
		WarnConfidence:    0.7,
		GoodConfidence:    0.85,
		DefaultCurrency:   "USD",
		MaxElementsPerDoc: 2000,
	}
}

func TestProcess(t *testing.T) {
	store := repository.NewMemoryStore()
	p := NewProcessor(nil, testPipelineConfig(), store)

	result, err := p.Process(context.Background(), testElements())
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, result.ID)
	require.NotNil(t, result.Fields)
	assert.Equal(t, "INV-2024-001", result.Fields.InvoiceNumber.Get())
	assert.Equal(t, "2024-01-15", result.Fields.Dates.InvoiceDate.Get())
	assert.InDelta(t, 1150.00, result.Fields.Amounts.Total.Get(), 0.001)

	require.NotNil(t, result.Report)
	assert.NotEmpty(t, result.Report.AllResults)

	assert.Equal(t, constants.FoodGroceries, result.Category)
	assert.Equal(t, len(testElements()), result.ElementsIn)

	// The record must be queryable with the summary columns filled in.
	rec, err := store.Get(context.Background(), result.ID)
	require.NoError(t, err)
	assert.Equal(t, "INV-2024-001", rec.InvoiceNumber)
	assert.InDelta(t, 1150.00, rec.Total, 0.001)
	assert.Equal(t, result.Report.OverallStatus, rec.Status)

	var storedFields extract.FieldSet
	require.NoError(t, json.Unmarshal(rec.Fields, &storedFields))
	assert.Equal(t, "INV-2024-001", storedFields.InvoiceNumber.Get())
}

func TestProcessEmptyInput(t *testing.T) {
	p := NewProcessor(nil, testPipelineConfig(), nil)
	_, err := p.Process(context.Background(), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestProcessElementLimit(t *testing.T) {
	cfg := testPipelineConfig()
	cfg.MaxElementsPerDoc = 2

	p := NewProcessor(nil, cfg, nil)
	_, err := p.Process(context.Background(), testElements())
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestProcessWithoutStore(t *testing.T) {
	p := NewProcessor(nil, testPipelineConfig(), nil)
	result, err := p.Process(context.Background(), testElements())
	require.NoError(t, err)
	assert.NotNil(t, result.Fields)
}

func TestSimpleProcess(t *testing.T) {
	p := NewProcessor(nil, testPipelineConfig(), nil)

	elements := []ocr.TextElement{
		el("Carrefour", 0.95, 0.3, 0.05),
		el("Date: 27-09-2022", 0.90, 0.3, 0.10),
		el("Bread", 0.85, 0.2, 0.40),
		el("19.95", 0.95, 0.7, 0.40),
		el("Total", 0.92, 0.2, 0.80),
		el("22.75", 0.98, 0.7, 0.80),
	}

	result, err := p.SimpleProcess(context.Background(), elements)
	require.NoError(t, err)

	assert.Equal(t, "2022-09-27", result.Result.Date)
	require.NotNil(t, result.Result.Total)
	assert.InDelta(t, 22.75, *result.Result.Total, 0.001)
	assert.Equal(t, constants.FoodGroceries, result.Category)
}
