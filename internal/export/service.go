// Package export renders processed invoices as XLSX workbooks and JSON
// report files.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/karim-nassar/invoice-extractor/internal/repository"
)

// Service is a tiny façade over the store that produces XLSX bytes and
// JSON report files for exports.
type Service struct {
	store  repository.InvoiceStore
	logger *slog.Logger
}

func NewService(store repository.InvoiceStore, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, logger: logger}
}

// ExportInvoicesXLSX returns an XLSX workbook (as bytes) with one row per
// processed invoice, newest first. limit <= 0 exports everything.
func (s *Service) ExportInvoicesXLSX(ctx context.Context, limit int) ([]byte, error) {
	start := time.Now()

	if limit <= 0 {
		limit = 10000
	}
	recs, err := s.store.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("query invoices: %w", err)
	}

	f := excelize.NewFile()
	const sheet = "Invoices"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{
		"Invoice Number",
		"Invoice Date",
		"Vendor",
		"Total",
		"Currency",
		"Category",
		"Validation Status",
		"Quality Score",
		"Processed At",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, r := range recs {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		write(1, r.InvoiceNumber)
		write(2, r.InvoiceDate)
		write(3, r.VendorName)
		write(4, r.Total)
		write(5, r.Currency)
		write(6, string(r.Category))
		write(7, string(r.Status))
		write(8, fmt.Sprintf("%.1f", r.QualityScore))
		if !r.CreatedAt.IsZero() {
			write(9, r.CreatedAt.Format("2006-01-02 15:04:05"))
		}
		row++
	}

	_ = f.SetColWidth(sheet, "A", "A", 18) // invoice number
	_ = f.SetColWidth(sheet, "B", "B", 14) // date
	_ = f.SetColWidth(sheet, "C", "C", 28) // vendor
	_ = f.SetColWidth(sheet, "D", "E", 12) // total, currency
	_ = f.SetColWidth(sheet, "F", "F", 20) // category
	_ = f.SetColWidth(sheet, "G", "H", 16) // status, score
	_ = f.SetColWidth(sheet, "I", "I", 20) // timestamp

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", len(recs),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

// WriteReportJSON writes any result value as indented JSON at path.
func WriteReportJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
