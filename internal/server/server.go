// Package server exposes analyses over a gin JSON API.
package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"StockLens/internal/chart"
	"StockLens/internal/collector"
	"StockLens/internal/exporter"
	"StockLens/internal/model"
	"StockLens/internal/recorder"
)

// Analyzer produces an analysis for one symbol.
type Analyzer interface {
	Analyze(ctx context.Context, symbol, period, interval string) (*model.Analysis, error)
}

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Handler serves the indicator endpoints.
type Handler struct {
	an       Analyzer
	rec      recorder.Recorder
	period   string
	interval string
}

// NewHandler creates a Handler; period and interval are the query defaults.
func NewHandler(an Analyzer, rec recorder.Recorder, period, interval string) *Handler {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Handler{an: an, rec: rec, period: period, interval: interval}
}

// NewRouter wires every route onto a fresh gin engine. A nil metrics handler
// leaves /metrics unmounted.
func NewRouter(h *Handler, metrics http.Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	r.GET("/healthz", Health)
	r.HEAD("/healthz", Health)
	r.GET("/indicators/:symbol", h.Indicators)
	r.GET("/chart/:symbol", h.Chart)
	r.GET("/runs/:symbol/latest", h.LatestRun)
	if metrics != nil {
		r.GET("/metrics", gin.WrapH(metrics))
	}
	return r
}

// Health handles /healthz.
func Health(c *gin.Context) {
	c.Header("Cache-Control", "no-store")
	if c.Request.Method == http.MethodHead {
		c.Status(http.StatusOK)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) analyze(c *gin.Context) (*model.Analysis, bool) {
	period := c.DefaultQuery("period", h.period)
	interval := c.DefaultQuery("interval", h.interval)
	a, err := h.an.Analyze(c.Request.Context(), c.Param("symbol"), period, interval)
	if err != nil {
		c.JSON(StatusFor(err), ErrorResponse{Error: err.Error()})
		return nil, false
	}
	return a, true
}

// Indicators returns the export document.
//
// GET /indicators/:symbol?period=1y&interval=1d
func (h *Handler) Indicators(c *gin.Context) {
	a, ok := h.analyze(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, exporter.NewDocument(a))
}

// Chart renders the HTML chart page; ?simple=true draws the close line only.
//
// GET /chart/:symbol?period=1y&simple=true
func (h *Handler) Chart(c *gin.Context) {
	a, ok := h.analyze(c)
	if !ok {
		return
	}
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	o := chart.DefaultOptions()
	o.Simple = c.Query("simple") == "true"
	if err := chart.Render(c.Writer, a, o); err != nil {
		log.Printf("[ERROR] render chart: %v", err)
	}
}

// LatestRun returns the last recorded run of a symbol.
//
// GET /runs/:symbol/latest
func (h *Handler) LatestRun(c *gin.Context) {
	run, err := h.rec.LatestRun(strings.ToUpper(strings.TrimSpace(c.Param("symbol"))))
	if errors.Is(err, recorder.ErrNoRuns) {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, run)
}

// StatusFor maps collector errors onto HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, collector.ErrSymbolNotFound), errors.Is(err, collector.ErrNoData):
		return http.StatusNotFound
	case errors.Is(err, collector.ErrInvalidPeriod), errors.Is(err, collector.ErrInvalidInterval):
		return http.StatusBadRequest
	case errors.Is(err, collector.ErrRateLimited):
		return http.StatusTooManyRequests
	default:
		return http.StatusBadGateway
	}
}

// Run serves r on addr until ctx is cancelled, then shuts down gracefully.
func Run(ctx context.Context, addr string, r http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Printf("[INFO] http server listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	log.Println("[INFO] http server shutting down")
	return srv.Shutdown(shutdownCtx)
}
