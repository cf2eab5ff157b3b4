// Package pipeline orchestrates one document's pass through layout
// analysis, field extraction, validation, categorization and persistence.
package pipeline

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/karim-nassar/invoice-extractor/constants"
	"github.com/karim-nassar/invoice-extractor/internal/categorize"
	"github.com/karim-nassar/invoice-extractor/internal/common"
	"github.com/karim-nassar/invoice-extractor/internal/extract"
	"github.com/karim-nassar/invoice-extractor/internal/layout"
	"github.com/karim-nassar/invoice-extractor/internal/ocr"
	"github.com/karim-nassar/invoice-extractor/internal/repository"
	"github.com/karim-nassar/invoice-extractor/internal/validate"
)

// ProcessResult is the complete output for one document.
type ProcessResult struct {
	ID         uuid.UUID          `json:"id"`
	Fields     *extract.FieldSet  `json:"fields"`
	Report     *validate.Report   `json:"report"`
	Category   constants.Category `json:"category"`
	Timings    Timings            `json:"timings"`
	ElementsIn int                `json:"elements_in"`
}

// Timings records per-stage wall time.
type Timings struct {
	Layout   time.Duration `json:"layout"`
	Extract  time.Duration `json:"extract"`
	Validate time.Duration `json:"validate"`
	Total    time.Duration `json:"total"`
}

// SimpleProcessResult is the fast-path output: date, total, category.
type SimpleProcessResult struct {
	ID       uuid.UUID            `json:"id"`
	Result   extract.SimpleResult `json:"result"`
	Category constants.Category   `json:"category"`
}

// Processor wires the pipeline stages. Store is optional; with a nil store
// results are returned but not persisted.
type Processor struct {
	logger      *slog.Logger
	cfg         common.PipelineConfig
	extractor   *extract.Extractor
	simple      *extract.SimpleExtractor
	validator   *validate.Validator
	categorizer *categorize.Categorizer
	store       repository.InvoiceStore
}

func NewProcessor(logger *slog.Logger, cfg common.PipelineConfig, store repository.InvoiceStore) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		logger:      logger,
		cfg:         cfg,
		extractor:   extract.NewExtractor(logger),
		simple:      extract.NewSimpleExtractor(),
		validator:   validate.NewValidator(cfg),
		categorizer: categorize.NewCategorizer(),
		store:       store,
	}
}

// Process runs the full pipeline over one document's elements.
func (p *Processor) Process(ctx context.Context, elements []ocr.TextElement) (*ProcessResult, error) {
	if len(elements) == 0 {
		return nil, common.NewAppError("EMPTY_INPUT", "no text elements to process", common.ErrInvalidInput)
	}
	if p.cfg.MaxElementsPerDoc > 0 && len(elements) > p.cfg.MaxElementsPerDoc {
		return nil, common.NewAppError("TOO_MANY_ELEMENTS", "document exceeds element limit", common.ErrInvalidInput)
	}

	id := uuid.New()
	p.logger.Info("pipeline.start", "id", id, "elements", len(elements))
	started := time.Now()

	var timings Timings

	stage := time.Now()
	lay := layout.Analyze(elements)
	timings.Layout = time.Since(stage)

	stage = time.Now()
	fields := p.extractor.ExtractAll(elements, lay)
	timings.Extract = time.Since(stage)

	stage = time.Now()
	report := p.validator.ValidateAll(fields)
	timings.Validate = time.Since(stage)

	category := p.categorizer.Categorize(fields.VendorInfo.Name.Get(), lineItemTexts(fields.LineItems))

	fieldsJSON, err := json.Marshal(fields)
	if err != nil {
		return nil, common.NewAppError("MARSHAL_ERROR", "failed to serialize fields", err)
	}
	schema := extract.BuildFieldSetJSONSchema(p.cfg.SchemaStrict)
	if err := extract.ValidateAgainstSchema(schema, fieldsJSON); err != nil {
		p.logger.Error("pipeline.schema_failed", "id", id, "error", err)
		return nil, common.NewAppError("SCHEMA_ERROR", "extraction output failed schema validation", err)
	}

	result := &ProcessResult{
		ID:         id,
		Fields:     fields,
		Report:     report,
		Category:   category,
		ElementsIn: len(elements),
	}

	if p.store != nil {
		if err := p.save(ctx, result, fieldsJSON); err != nil {
			return nil, err
		}
	}

	timings.Total = time.Since(started)
	result.Timings = timings

	p.logger.Info("pipeline.done",
		"id", id,
		"status", report.OverallStatus,
		"quality_score", report.QualityScore,
		"category", category,
		"duration", timings.Total,
	)
	return result, nil
}

// SimpleProcess runs the fast path: no layout analysis, no validation.
func (p *Processor) SimpleProcess(ctx context.Context, elements []ocr.TextElement) (*SimpleProcessResult, error) {
	if len(elements) == 0 {
		return nil, common.NewAppError("EMPTY_INPUT", "no text elements to process", common.ErrInvalidInput)
	}

	res := p.simple.Extract(elements)
	vendor := ""
	if len(elements) > 0 {
		vendor = elements[0].Text
	}
	category := p.categorizer.Categorize(vendor, res.LineItems)

	return &SimpleProcessResult{
		ID:       uuid.New(),
		Result:   res,
		Category: category,
	}, nil
}

func (p *Processor) save(ctx context.Context, result *ProcessResult, fieldsJSON []byte) error {
	reportJSON, err := json.Marshal(result.Report)
	if err != nil {
		return common.NewAppError("MARSHAL_ERROR", "failed to serialize report", err)
	}

	rec := &repository.InvoiceRecord{
		ID:            result.ID,
		InvoiceNumber: result.Fields.InvoiceNumber.Get(),
		VendorName:    result.Fields.VendorInfo.Name.Get(),
		InvoiceDate:   result.Fields.Dates.InvoiceDate.Get(),
		Total:         result.Fields.Amounts.Total.Get(),
		Currency:      result.Fields.Currency.Get(),
		Category:      result.Category,
		Status:        result.Report.OverallStatus,
		QualityScore:  result.Report.QualityScore,
		Fields:        fieldsJSON,
		Report:        reportJSON,
	}
	if err := p.store.Save(ctx, rec); err != nil {
		p.logger.Error("pipeline.save_failed", "id", result.ID, "error", err)
		return err
	}
	return nil
}

func lineItemTexts(items []extract.LineItem) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Description
	}
	return out
}
