// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package web serves the single-page upload form, renders per-file
// conversion results, and exposes the same conversion as a JSON API.
package web

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/pdiddy/docreader/internal/convert"
	"github.com/pdiddy/docreader/pkg/types"
)

//go:embed templates/*.html
var templateFS embed.FS

const pageTemplate = "index.html"

// BatchConverter converts the documents of one request in order.
type BatchConverter interface {
	ConvertBatch(ctx context.Context, docs []types.Document) ([]types.Result, convert.BatchResult)
}

// Handler wires HTTP routes to the conversion orchestrator.
type Handler struct {
	orch      BatchConverter
	backend   string
	maxUpload int64
	logger    *slog.Logger
}

// NewHandler constructs a Handler. backend names the converter for the
// health endpoint.
func NewHandler(orch BatchConverter, backend string, cfg types.ServerConfig, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	maxUpload := cfg.MaxUploadBytes()
	if maxUpload <= 0 {
		maxUpload = 200 << 20
	}
	return &Handler{
		orch:      orch,
		backend:   backend,
		maxUpload: maxUpload,
		logger:    logger,
	}
}

// NewRouter returns a gin engine with templates, middleware, and all routes
// registered. CORS is applied to the API group when origins are configured.
func NewRouter(h *Handler, cfg types.ServerConfig) (*gin.Engine, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}

	router := gin.New()
	router.SetHTMLTemplate(tmpl)
	router.Use(gin.Recovery(), requestID(), accessLog(h.logger))

	h.RegisterRoutes(router, cfg.CORSOrigins)
	return router, nil
}

// RegisterRoutes attaches all HTTP routes to the router.
func (h *Handler) RegisterRoutes(router *gin.Engine, corsOrigins []string) {
	router.GET("/", h.index)
	router.POST("/convert", h.convertPage)
	router.GET("/healthz", h.health)

	api := router.Group("/api")
	if len(corsOrigins) > 0 {
		api.Use(cors.New(cors.Config{
			AllowOrigins:  corsOrigins,
			AllowMethods:  []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:  []string{"Origin", "Content-Type", "Content-Length", "X-Request-Id"},
			ExposeHeaders: []string{"X-Request-Id"},
			MaxAge:        12 * time.Hour,
		}))
		// Preflight requests only reach group middleware through a route.
		api.OPTIONS("/convert", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	}
	api.POST("/convert", h.convertAPI)
}
