package repository

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/karim-nassar/invoice-extractor/constants"
	"github.com/karim-nassar/invoice-extractor/internal/common"
)

const invoicesDDL = `
CREATE TABLE IF NOT EXISTS invoices (
	id             UUID PRIMARY KEY,
	invoice_number TEXT NOT NULL DEFAULT '',
	vendor_name    TEXT NOT NULL DEFAULT '',
	invoice_date   TEXT NOT NULL DEFAULT '',
	total          DOUBLE PRECISION NOT NULL DEFAULT 0,
	currency       TEXT NOT NULL DEFAULT '',
	category       TEXT NOT NULL DEFAULT '',
	status         TEXT NOT NULL DEFAULT '',
	quality_score  DOUBLE PRECISION NOT NULL DEFAULT 0,
	fields         JSONB NOT NULL DEFAULT '{}',
	report         JSONB NOT NULL DEFAULT '{}',
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// PostgresStore backs InvoiceStore with a pgx pool.
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// Open creates a pgx pool from the config and ensures the schema exists.
func Open(ctx context.Context, cfg common.DatabaseConfig, logger *slog.Logger) (*PostgresStore, error) {
	logger.Info("connecting to database", "dsn", cfg.DSN)
	pc, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		logger.Error("failed to parse database config", "error", err)
		return nil, err
	}

	pc.MaxConns = cfg.MaxConns
	pc.MinConns = cfg.MinConns
	pc.MaxConnLifetime = cfg.MaxConnLifetime
	pc.MaxConnIdleTime = cfg.MaxConnIdleTime
	pc.ConnConfig.RuntimeParams["application_name"] = "invoice-extractor"

	dialCtx, cancel := context.WithTimeout(ctx, cfg.DialTimeout)
	defer cancel()
	pool, err := pgxpool.NewWithConfig(dialCtx, pc)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		return nil, err
	}

	if _, err := pool.Exec(ctx, invoicesDDL); err != nil {
		pool.Close()
		logger.Error("failed to ensure schema", "error", err)
		return nil, common.NewAppError("DB_SCHEMA_ERROR", "failed to ensure invoices table", err)
	}

	logger.Info("successfully connected to database")
	return &PostgresStore{pool: pool, logger: logger}, nil
}

// HealthCheck pings the pool, bounded by the timeout when positive.
func (s *PostgresStore) HealthCheck(ctx context.Context, timeout time.Duration) error {
	s.logger.Debug("pinging database")
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return s.pool.Ping(ctx)
}

func (s *PostgresStore) Save(ctx context.Context, rec *InvoiceRecord) error {
	const q = `
INSERT INTO invoices
	(id, invoice_number, vendor_name, invoice_date, total, currency,
	 category, status, quality_score, fields, report, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
ON CONFLICT (id) DO UPDATE SET
	invoice_number = EXCLUDED.invoice_number,
	vendor_name    = EXCLUDED.vendor_name,
	invoice_date   = EXCLUDED.invoice_date,
	total          = EXCLUDED.total,
	currency       = EXCLUDED.currency,
	category       = EXCLUDED.category,
	status         = EXCLUDED.status,
	quality_score  = EXCLUDED.quality_score,
	fields         = EXCLUDED.fields,
	report         = EXCLUDED.report`

	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	_, err := s.pool.Exec(ctx, q,
		rec.ID, rec.InvoiceNumber, rec.VendorName, rec.InvoiceDate,
		rec.Total, rec.Currency, string(rec.Category), string(rec.Status),
		rec.QualityScore, rec.Fields, rec.Report, rec.CreatedAt,
	)
	if err != nil {
		s.logger.Error("failed to save invoice", "id", rec.ID, "error", err)
		return common.NewAppError("DB_SAVE_ERROR", "failed to save invoice", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, id uuid.UUID) (*InvoiceRecord, error) {
	const q = `
SELECT id, invoice_number, vendor_name, invoice_date, total, currency,
       category, status, quality_score, fields, report, created_at
FROM invoices WHERE id = $1`

	rec, err := scanInvoice(s.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, common.NewAppError("DB_QUERY_ERROR", "failed to get invoice", err)
	}
	return rec, nil
}

func (s *PostgresStore) List(ctx context.Context, limit int) ([]*InvoiceRecord, error) {
	const q = `
SELECT id, invoice_number, vendor_name, invoice_date, total, currency,
       category, status, quality_score, fields, report, created_at
FROM invoices ORDER BY created_at DESC LIMIT $1`

	rows, err := s.pool.Query(ctx, q, limit)
	if err != nil {
		return nil, common.NewAppError("DB_QUERY_ERROR", "failed to list invoices", err)
	}
	defer rows.Close()

	var out []*InvoiceRecord
	for rows.Next() {
		rec, err := scanInvoice(rows)
		if err != nil {
			return nil, common.NewAppError("DB_SCAN_ERROR", "failed to scan invoice", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Close() error {
	s.logger.Info("closing database connections")
	s.pool.Close()
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInvoice(row rowScanner) (*InvoiceRecord, error) {
	var rec InvoiceRecord
	var category, status string
	err := row.Scan(
		&rec.ID, &rec.InvoiceNumber, &rec.VendorName, &rec.InvoiceDate,
		&rec.Total, &rec.Currency, &category, &status,
		&rec.QualityScore, &rec.Fields, &rec.Report, &rec.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	rec.Category = constants.Category(category)
	rec.Status = constants.ReportStatus(status)
	return &rec, nil
}
