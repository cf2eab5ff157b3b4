package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karim-nassar/invoice-extractor/internal/common"
	"github.com/karim-nassar/invoice-extractor/internal/pipeline"
	"github.com/karim-nassar/invoice-extractor/internal/repository"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testServer() (*Server, *repository.MemoryStore) {
	cfg := common.PipelineConfig{
		MinConfidence:     0.5,
		WarnConfidence:    0.7,
		GoodConfidence:    0.85,
		DefaultCurrency:   "USD",
		MaxElementsPerDoc: 2000,
	}
	store := repository.NewMemoryStore()
	processor := pipeline.NewProcessor(nil, cfg, store)
	return New(nil, processor, store), store
}

func reqElement(text string, x, y float64) map[string]any {
	cx := x * 1000
	cy := y * 1000
	return map[string]any{
		"text":       text,
		"confidence": 0.9,
		"bbox": [][]float64{
			{cx - 40, cy - 10}, {cx + 40, cy - 10},
			{cx + 40, cy + 10}, {cx - 40, cy + 10},
		},
	}
}

func processBody() []byte {
	body := map[string]any{
		"image_width":  1000,
		"image_height": 1000,
		"elements": []map[string]any{
			reqElement("Carrefour", 0.3, 0.03),
			reqElement("Invoice Number:", 0.2, 0.13),
			reqElement("INV-2024-001", 0.45, 0.13),
			reqElement("Date: 2024-01-15", 0.2, 0.17),
			reqElement("Grand Total", 0.2, 0.80),
			reqElement("$1,150.00", 0.45, 0.80),
		},
	}
	data, _ := json.Marshal(body)
	return data
}

func TestHealthz(t *testing.T) {
	srv, _ := testServer()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)

	srv.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestProcessEndpoint(t *testing.T) {
	srv, store := testServer()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/process", bytes.NewReader(processBody()))
	req.Header.Set("Content-Type", "application/json")

	srv.Router().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var result pipeline.ProcessResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, "INV-2024-001", result.Fields.InvoiceNumber.Get())
	assert.InDelta(t, 1150.00, result.Fields.Amounts.Total.Get(), 0.001)

	recs, err := store.List(t.Context(), 10)
	require.NoError(t, err)
	assert.Len(t, recs, 1)
}

func TestProcessEndpointRejectsEmptyBody(t *testing.T) {
	srv, _ := testServer()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/process", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")

	srv.Router().ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetInvoiceNotFound(t *testing.T) {
	srv, _ := testServer()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/invoices/6ba7b810-9dad-11d1-80b4-00c04fd430c8", nil)

	srv.Router().ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetInvoiceBadID(t *testing.T) {
	srv, _ := testServer()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/invoices/not-a-uuid", nil)

	srv.Router().ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListInvoices(t *testing.T) {
	srv, _ := testServer()

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/process", bytes.NewReader(processBody()))
		req.Header.Set("Content-Type", "application/json")
		srv.Router().ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code, fmt.Sprintf("request %d", i))
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/invoices?limit=2", nil)
	srv.Router().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Count)
}
