// Package server exposes the processing pipeline over HTTP.
package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/karim-nassar/invoice-extractor/internal/common"
	"github.com/karim-nassar/invoice-extractor/internal/export"
	"github.com/karim-nassar/invoice-extractor/internal/ocr"
	"github.com/karim-nassar/invoice-extractor/internal/pipeline"
	"github.com/karim-nassar/invoice-extractor/internal/repository"
)

// Server wires gin handlers to the processor and store.
type Server struct {
	logger    *slog.Logger
	processor *pipeline.Processor
	store     repository.InvoiceStore
	exporter  *export.Service
}

func New(logger *slog.Logger, processor *pipeline.Processor, store repository.InvoiceStore) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{logger: logger, processor: processor, store: store}
	if store != nil {
		s.exporter = export.NewService(store, logger)
	}
	return s
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(s.requestLogger())

	r.GET("/healthz", s.health)

	api := r.Group("/api/v1")
	{
		api.POST("/process", s.process)
		api.POST("/process/simple", s.processSimple)
		api.GET("/invoices", s.listInvoices)
		api.GET("/invoices/:id", s.getInvoice)
		api.GET("/export", s.exportXLSX)
	}
	return r
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		s.logger.Info("http.request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
		)
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// elementRequest is one OCR element in a process request.
type elementRequest struct {
	Text       string        `json:"text" binding:"required"`
	Confidence float64       `json:"confidence"`
	BBox       [4][2]float64 `json:"bbox" binding:"required"`
}

// processRequest carries a whole document's OCR output.
type processRequest struct {
	ImageWidth  int              `json:"image_width" binding:"required,gt=0"`
	ImageHeight int              `json:"image_height" binding:"required,gt=0"`
	Elements    []elementRequest `json:"elements" binding:"required,min=1"`
}

func (req *processRequest) toElements() []ocr.TextElement {
	out := make([]ocr.TextElement, 0, len(req.Elements))
	for _, e := range req.Elements {
		var bbox [4]ocr.Point
		for i, p := range e.BBox {
			bbox[i] = ocr.Point{X: p[0], Y: p[1]}
		}
		conf := e.Confidence
		if conf == 0 {
			conf = ocr.HeuristicConfidence(e.Text)
		}
		out = append(out, ocr.NewTextElement(e.Text, conf, bbox, req.ImageWidth, req.ImageHeight))
	}
	return out
}

func (s *Server) process(c *gin.Context) {
	var req processRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := s.processor.Process(c.Request.Context(), req.toElements())
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) processSimple(c *gin.Context) {
	var req processRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := s.processor.SimpleProcess(c.Request.Context(), req.toElements())
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) listInvoices(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no store configured"})
		return
	}

	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 1000 {
			limit = n
		}
	}

	recs, err := s.store.List(c.Request.Context(), limit)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"invoices": recs, "count": len(recs)})
}

func (s *Server) getInvoice(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no store configured"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid invoice id"})
		return
	}

	rec, err := s.store.Get(c.Request.Context(), id)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (s *Server) exportXLSX(c *gin.Context) {
	if s.exporter == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no store configured"})
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			limit = n
		}
	}

	data, err := s.exporter.ExportInvoicesXLSX(c.Request.Context(), limit)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="invoices.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

func (s *Server) renderError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, common.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, common.ErrInvalidInput), errors.Is(err, common.ErrValidation):
		status = http.StatusBadRequest
	}

	var appErr *common.AppError
	if errors.As(err, &appErr) {
		c.JSON(status, gin.H{"error": appErr.Message, "code": appErr.Code})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
