package server

import (
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	bionic "github.com/tassa-yoniso-manasi-karoto/go-bionic"
)

const logPreviewRunes = 50

// TextRequest is the body accepted by every render endpoint
type TextRequest struct {
	Text string `json:"text"`
}

// TextResponse carries the rendered markup
type TextResponse struct {
	ProcessedText string `json:"processed_text"`
}

// Handlers handles http requests
type Handlers struct {
	renderer *bionic.Renderer
	metrics  *Metrics
	logger   zerolog.Logger
}

// NewHandlers creates a new Handlers
func NewHandlers(renderer *bionic.Renderer, metrics *Metrics, logger zerolog.Logger) *Handlers {
	return &Handlers{
		renderer: renderer,
		metrics:  metrics,
		logger:   logger,
	}
}

// RegisterRoutesTo registers routes to given router
func (h *Handlers) RegisterRoutesTo(router gin.IRouter) {
	router.GET("/", wrapHandler(h.handleGetRoot))
	router.GET("/health", wrapHandler(h.handleGetHealth))
	router.POST("/process", wrapHandler(h.renderWith(bionic.ModeSimple)))
	router.POST("/bionic-reading", wrapHandler(h.renderWith(bionic.ModeAdvanced)))
	router.POST("/classic", wrapHandler(h.renderWith(bionic.ModeClassic)))
}

func (h *Handlers) handleGetRoot(c *gin.Context) (interface{}, error) {
	return gin.H{"message": "Hello, Bionic Reading Backend!", "status": "running"}, nil
}

func (h *Handlers) handleGetHealth(c *gin.Context) (interface{}, error) {
	return gin.H{"status": "healthy", "message": "server is running"}, nil
}

func (h *Handlers) renderWith(mode bionic.Mode) handlerFunc {
	return func(c *gin.Context) (interface{}, error) {
		var req TextRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			return nil, fmt.Errorf("%w: parse json failed: %v", errBadRequest, err)
		}
		if err := bionic.ValidateInput(req.Text); err != nil {
			h.metrics.RenderRequestsTotal.WithLabelValues(string(mode), "rejected").Inc()
			return nil, err
		}

		h.logger.Info().Str("mode", string(mode)).Str("text", preview(req.Text)).Msg("Processing text")

		start := time.Now()
		out, err := h.renderer.Render(c.Request.Context(), mode, req.Text)
		h.metrics.RenderLatency.WithLabelValues(string(mode)).Observe(time.Since(start).Seconds())
		if err != nil {
			h.metrics.RenderRequestsTotal.WithLabelValues(string(mode), "error").Inc()
			h.countAnalyzerFailure(err)
			return nil, err
		}
		h.metrics.RenderRequestsTotal.WithLabelValues(string(mode), "ok").Inc()
		return TextResponse{ProcessedText: out}, nil
	}
}

func (h *Handlers) countAnalyzerFailure(err error) {
	switch {
	case errors.Is(err, bionic.ErrAnalyzerUnavailable):
		h.metrics.AnalyzerFailureTotal.WithLabelValues("unavailable").Inc()
	case errors.Is(err, bionic.ErrAnalyzer):
		h.metrics.AnalyzerFailureTotal.WithLabelValues("error").Inc()
	}
}

// preview returns the first logPreviewRunes characters of text
func preview(text string) string {
	n := 0
	for i := range text {
		if n == logPreviewRunes {
			return text[:i] + "..."
		}
		n++
	}
	return text
}
