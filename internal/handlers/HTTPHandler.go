package handlers

import (
	"errors"
	"net/http"
	"time"

	"CryptoReportBot/internal/operations/price"
	"CryptoReportBot/internal/services/analysis"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HTTPHandler exposes status and on-demand analysis over HTTP.
type HTTPHandler struct {
	analyzer        *AnalysisHandler
	scheduler       *Scheduler
	telegramEnabled bool
	logger          *zap.Logger
	now             func() time.Time
}

func NewHTTPHandler(analyzer *AnalysisHandler, scheduler *Scheduler, telegramEnabled bool, logger *zap.Logger) *HTTPHandler {
	return &HTTPHandler{
		analyzer:        analyzer,
		scheduler:       scheduler,
		telegramEnabled: telegramEnabled,
		logger:          logger,
		now:             time.Now,
	}
}

func (h *HTTPHandler) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(h.logger))

	router.GET("/", h.Root)
	router.GET("/status", h.DetailedStatus)
	router.GET("/health", h.Health)
	router.GET("/analyze", h.AnalyzeDefault)
	router.GET("/analyze/:symbol", h.Analyze)

	return router
}

// Root handles GET /
func (h *HTTPHandler) Root(c *gin.Context) {
	status := h.scheduler.Status()
	c.JSON(http.StatusOK, gin.H{
		"status":           "Crypto analysis bot active",
		"timestamp":        h.now().UTC().Format(time.RFC3339),
		"bot_running":      status.Running,
		"last_analysis":    formatOptional(status.LastAnalysis),
		"telegram_enabled": h.telegramEnabled,
	})
}

// DetailedStatus handles GET /status
func (h *HTTPHandler) DetailedStatus(c *gin.Context) {
	status := h.scheduler.Status()

	botStatus := "stopped"
	if status.Running {
		botStatus = "running"
	}

	next := "n/a"
	if !status.NextAnalysis.IsZero() {
		next = "~" + status.NextAnalysis.Sub(h.now()).Round(time.Minute).String()
	}

	c.JSON(http.StatusOK, gin.H{
		"bot_status":          botStatus,
		"primary_symbol":      status.PrimarySymbol,
		"analysis_interval":   status.Interval.String(),
		"supported_symbols":   status.Symbols,
		"telegram_configured": h.telegramEnabled,
		"last_analysis":       formatOptional(status.LastAnalysis),
		"next_analysis":       next,
		"exchange":            "binance-futures",
		"timestamp":           h.now().UTC().Format(time.RFC3339),
	})
}

// Health handles GET /health
func (h *HTTPHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": h.now().UTC().Format(time.RFC3339),
	})
}

// AnalyzeDefault handles GET /analyze for the primary symbol
func (h *HTTPHandler) AnalyzeDefault(c *gin.Context) {
	h.analyze(c, h.scheduler.Status().PrimarySymbol)
}

// Analyze handles GET /analyze/:symbol
func (h *HTTPHandler) Analyze(c *gin.Context) {
	h.analyze(c, c.Param("symbol"))
}

func (h *HTTPHandler) analyze(c *gin.Context, symbol string) {
	r, text, err := h.analyzer.Analyze(c.Request.Context(), symbol)
	if err != nil {
		code := errorStatus(err)
		h.logger.Error("Manual analysis failed",
			zap.String("symbol", symbol),
			zap.Int("status", code),
			zap.Error(err))
		c.JSON(code, gin.H{"error": "Analysis failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"symbol":    r.Symbol,
		"analysis":  text,
		"report":    r,
		"timestamp": h.now().UTC().Format(time.RFC3339),
		"type":      "manual_request",
	})
}

func errorStatus(err error) int {
	var providerErr *price.ProviderError
	switch {
	case errors.Is(err, ErrUnsupportedSymbol):
		return http.StatusBadRequest
	case errors.As(err, &providerErr):
		return http.StatusBadGateway
	case errors.Is(err, analysis.ErrNoUsableData):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func formatOptional(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}

// requestLogger logs one line per request.
func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)))
	}
}
