// invoice-batch processes a directory of OCR element dumps offline: each
// JSON file goes through the full pipeline, results land in a SQLite store
// and an XLSX summary plus per-document JSON reports are written to the
// output directory.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/karim-nassar/invoice-extractor/internal/common"
	"github.com/karim-nassar/invoice-extractor/internal/export"
	"github.com/karim-nassar/invoice-extractor/internal/ocr"
	"github.com/karim-nassar/invoice-extractor/internal/pipeline"
	"github.com/karim-nassar/invoice-extractor/internal/repository"
)

// elementDump is the on-disk OCR output for one document.
type elementDump struct {
	ImageWidth  int `json:"image_width"`
	ImageHeight int `json:"image_height"`
	Elements    []struct {
		Text       string        `json:"text"`
		Confidence float64       `json:"confidence"`
		BBox       [4][2]float64 `json:"bbox"`
	} `json:"elements"`
}

func main() {
	var (
		dir    = flag.String("dir", ".", "directory of OCR element dump JSON files")
		out    = flag.String("out", "out", "output directory for reports and the XLSX summary")
		dbPath = flag.String("db", "invoices.db", "sqlite database path")
		inmem  = flag.Bool("inmem", false, "use an in-memory store instead of sqlite")
		simple = flag.Bool("simple", false, "run the fast path (date, total, category only)")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	ctx := context.Background()
	cfg := common.LoadConfig()

	if err := os.MkdirAll(*out, 0o755); err != nil {
		logger.Error("creating output directory", "error", err)
		os.Exit(1)
	}

	var store repository.InvoiceStore
	if *inmem {
		store = repository.NewMemoryStore()
	} else {
		s, err := repository.OpenSQLite(ctx, *dbPath, logger)
		if err != nil {
			logger.Error("opening sqlite store", "error", err)
			os.Exit(1)
		}
		store = s
	}
	defer store.Close()

	processor := pipeline.NewProcessor(logger, cfg.Pipeline, store)

	files, err := filepath.Glob(filepath.Join(*dir, "*.json"))
	if err != nil {
		logger.Error("listing input files", "error", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		logger.Error("no .json files found", "dir", *dir)
		os.Exit(1)
	}

	processed, failed := 0, 0
	for _, file := range files {
		if err := processFile(ctx, processor, file, *out, *simple); err != nil {
			logger.Error("processing failed", "file", file, "error", err)
			failed++
			continue
		}
		processed++
	}

	if !*simple {
		exporter := export.NewService(store, logger)
		data, err := exporter.ExportInvoicesXLSX(ctx, 0)
		if err != nil {
			logger.Error("export failed", "error", err)
			os.Exit(1)
		}
		xlsxPath := filepath.Join(*out, "invoices.xlsx")
		if err := os.WriteFile(xlsxPath, data, 0o644); err != nil {
			logger.Error("writing xlsx", "path", xlsxPath, "error", err)
			os.Exit(1)
		}
		logger.Info("wrote summary", "path", xlsxPath)
	}

	logger.Info("batch done", "processed", processed, "failed", failed)
	if failed > 0 {
		os.Exit(1)
	}
}

func processFile(ctx context.Context, processor *pipeline.Processor, file, out string, simple bool) error {
	elements, err := loadDump(file)
	if err != nil {
		return err
	}

	base := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))

	if simple {
		result, err := processor.SimpleProcess(ctx, elements)
		if err != nil {
			return err
		}
		return export.WriteReportJSON(filepath.Join(out, base+".result.json"), result)
	}

	result, err := processor.Process(ctx, elements)
	if err != nil {
		return err
	}
	return export.WriteReportJSON(filepath.Join(out, base+".report.json"), result)
}

func loadDump(path string) ([]ocr.TextElement, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var dump elementDump
	if err := json.Unmarshal(data, &dump); err != nil {
		return nil, err
	}

	elements := make([]ocr.TextElement, 0, len(dump.Elements))
	for _, e := range dump.Elements {
		var bbox [4]ocr.Point
		for i, p := range e.BBox {
			bbox[i] = ocr.Point{X: p[0], Y: p[1]}
		}
		conf := e.Confidence
		if conf == 0 {
			// Dumps from engines that don't score get a heuristic estimate.
			conf = ocr.HeuristicConfidence(e.Text)
		}
		elements = append(elements, ocr.NewTextElement(e.Text, conf, bbox, dump.ImageWidth, dump.ImageHeight))
	}
	return elements, nil
}
