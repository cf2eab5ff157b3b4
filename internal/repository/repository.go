// Package repository persists processed invoices. Two stores implement the
// same interface: Postgres for the service, SQLite for single-machine batch
// runs.
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/karim-nassar/invoice-extractor/constants"
)

// InvoiceRecord is the persisted form of one processed document. Fields
// and Report hold the serialized extraction output and validation report.
type InvoiceRecord struct {
	ID            uuid.UUID
	InvoiceNumber string
	VendorName    string
	InvoiceDate   string
	Total         float64
	Currency      string
	Category      constants.Category
	Status        constants.ReportStatus
	QualityScore  float64
	Fields        []byte
	Report        []byte
	CreatedAt     time.Time
}

// InvoiceStore is the persistence contract used by the pipeline and the
// HTTP surface.
type InvoiceStore interface {
	Save(ctx context.Context, rec *InvoiceRecord) error
	Get(ctx context.Context, id uuid.UUID) (*InvoiceRecord, error)
	List(ctx context.Context, limit int) ([]*InvoiceRecord, error)
	Close() error
}
