package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/karim-nassar/invoice-extractor/constants"
	"github.com/karim-nassar/invoice-extractor/internal/common"
)

const sqliteDDL = `
CREATE TABLE IF NOT EXISTS invoices (
	id             TEXT PRIMARY KEY,
	invoice_number TEXT NOT NULL DEFAULT '',
	vendor_name    TEXT NOT NULL DEFAULT '',
	invoice_date   TEXT NOT NULL DEFAULT '',
	total          REAL NOT NULL DEFAULT 0,
	currency       TEXT NOT NULL DEFAULT '',
	category       TEXT NOT NULL DEFAULT '',
	status         TEXT NOT NULL DEFAULT '',
	quality_score  REAL NOT NULL DEFAULT 0,
	fields         BLOB NOT NULL DEFAULT '{}',
	report         BLOB NOT NULL DEFAULT '{}',
	created_at     TEXT NOT NULL DEFAULT ''
)`

// SQLiteStore backs InvoiceStore with an embedded database file. It serves
// batch runs where no Postgres is available.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// OpenSQLite opens (or creates) the database file and ensures the schema.
// Use ":memory:" for an ephemeral store.
func OpenSQLite(ctx context.Context, path string, logger *slog.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, common.NewAppError("DB_OPEN_ERROR", "failed to open sqlite database", err)
	}
	// modernc.org/sqlite serializes writes itself; a single connection
	// avoids table-lock errors under concurrent saves.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteDDL); err != nil {
		db.Close()
		return nil, common.NewAppError("DB_SCHEMA_ERROR", "failed to ensure invoices table", err)
	}

	logger.Info("opened sqlite store", "path", path)
	return &SQLiteStore{db: db, logger: logger}, nil
}

func (s *SQLiteStore) Save(ctx context.Context, rec *InvoiceRecord) error {
	const q = `
INSERT INTO invoices
	(id, invoice_number, vendor_name, invoice_date, total, currency,
	 category, status, quality_score, fields, report, created_at)
VALUES (?,?,?,?,?,?,?,?,?,?,?,?)
ON CONFLICT (id) DO UPDATE SET
	invoice_number = excluded.invoice_number,
	vendor_name    = excluded.vendor_name,
	invoice_date   = excluded.invoice_date,
	total          = excluded.total,
	currency       = excluded.currency,
	category       = excluded.category,
	status         = excluded.status,
	quality_score  = excluded.quality_score,
	fields         = excluded.fields,
	report         = excluded.report`

	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, q,
		rec.ID.String(), rec.InvoiceNumber, rec.VendorName, rec.InvoiceDate,
		rec.Total, rec.Currency, string(rec.Category), string(rec.Status),
		rec.QualityScore, rec.Fields, rec.Report, rec.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		s.logger.Error("failed to save invoice", "id", rec.ID, "error", err)
		return common.NewAppError("DB_SAVE_ERROR", "failed to save invoice", err)
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, id uuid.UUID) (*InvoiceRecord, error) {
	const q = `
SELECT id, invoice_number, vendor_name, invoice_date, total, currency,
       category, status, quality_score, fields, report, created_at
FROM invoices WHERE id = ?`

	rec, err := scanSQLiteInvoice(s.db.QueryRowContext(ctx, q, id.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, common.NewAppError("DB_QUERY_ERROR", "failed to get invoice", err)
	}
	return rec, nil
}

func (s *SQLiteStore) List(ctx context.Context, limit int) ([]*InvoiceRecord, error) {
	const q = `
SELECT id, invoice_number, vendor_name, invoice_date, total, currency,
       category, status, quality_score, fields, report, created_at
FROM invoices ORDER BY created_at DESC LIMIT ?`

	rows, err := s.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, common.NewAppError("DB_QUERY_ERROR", "failed to list invoices", err)
	}
	defer rows.Close()

	var out []*InvoiceRecord
	for rows.Next() {
		rec, err := scanSQLiteInvoice(rows)
		if err != nil {
			return nil, common.NewAppError("DB_SCAN_ERROR", "failed to scan invoice", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Close() error {
	s.logger.Info("closing sqlite store")
	return s.db.Close()
}

func scanSQLiteInvoice(row rowScanner) (*InvoiceRecord, error) {
	var rec InvoiceRecord
	var id, category, status, createdAt string
	err := row.Scan(
		&id, &rec.InvoiceNumber, &rec.VendorName, &rec.InvoiceDate,
		&rec.Total, &rec.Currency, &category, &status,
		&rec.QualityScore, &rec.Fields, &rec.Report, &createdAt,
	)
	if err != nil {
		return nil, err
	}
	if rec.ID, err = uuid.Parse(id); err != nil {
		return nil, err
	}
	if ts, err := time.Parse(time.RFC3339, createdAt); err == nil {
		rec.CreatedAt = ts
	}
	rec.Category = constants.Category(category)
	rec.Status = constants.ReportStatus(status)
	return &rec, nil
}
