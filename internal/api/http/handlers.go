package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/smilinTux/forgeprint-sub000/internal/domain/blueprint"
	"github.com/smilinTux/forgeprint-sub000/internal/domain/driver"
	"github.com/smilinTux/forgeprint-sub000/internal/domain/search"
	"github.com/smilinTux/forgeprint-sub000/internal/domain/stacks"
	"github.com/smilinTux/forgeprint-sub000/internal/infrastructure/logging"
	"github.com/smilinTux/forgeprint-sub000/internal/shared/utils"
)

// Handlers contains all HTTP handlers
type Handlers struct {
	store    *blueprint.Store
	searcher *search.Searcher
	metrics  *HandlerMetrics
	logger   *logging.Logger
	bodies   *utils.JSONSizeValidator
}

// NewHandlers creates a new handler set
func NewHandlers(
	store *blueprint.Store,
	searcher *search.Searcher,
	metrics *HandlerMetrics,
	logger *logging.Logger,
) *Handlers {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Handlers{
		store:    store,
		searcher: searcher,
		metrics:  metrics,
		logger:   logger,
		bodies:   utils.DefaultJSONValidator(),
	}
}

// Health reports liveness and the number of categories found
func (h *Handlers) Health(c *gin.Context) {
	ids, err := h.store.Categories(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list categories", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "degraded",
			"error":  err.Error(),
			"root":   h.store.Root(),
		})
		return
	}

	resp := gin.H{
		"status":     "healthy",
		"blueprints": len(ids),
		"root":       h.store.Root(),
	}
	if snap, ok := h.metrics.Snapshot(); ok {
		resp["requests"] = snap
	}
	c.JSON(http.StatusOK, resp)
}

// ListBlueprints lists every category summary
func (h *Handlers) ListBlueprints(c *gin.Context) {
	summaries, errs := h.store.Summaries(c.Request.Context())
	for _, err := range errs {
		h.logger.Warn("Skipped blueprint", zap.Error(err))
	}
	c.JSON(http.StatusOK, summaries)
}

// GetBlueprint returns one category with its catalog and documents
func (h *Handlers) GetBlueprint(c *gin.Context) {
	id := c.Param("id")

	detail, err := h.store.Detail(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.reportUnknown(id, detail.Features.Unknown())

	c.JSON(http.StatusOK, detail)
}

// GetFeatures returns the parsed feature catalog of one category
func (h *Handlers) GetFeatures(c *gin.Context) {
	id := c.Param("id")

	doc, err := h.store.Catalog(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.reportUnknown(id, doc.Unknown())

	c.JSON(http.StatusOK, doc)
}

// GetFile returns one file of a category
func (h *Handlers) GetFile(c *gin.Context) {
	file, err := h.store.File(c.Request.Context(), c.Param("id"), c.Param("path"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, file)
}

// ListStacks lists the configured stacks with per-layer readiness
func (h *Handlers) ListStacks(c *gin.Context) {
	defs, err := stacks.Load(h.store.Root())
	if err != nil {
		h.logger.Warn("Using default stacks", zap.Error(err))
	}
	c.JSON(http.StatusOK, stacks.Resolve(defs, h.store.HasDesign))
}

// Search runs a substring search across all categories
func (h *Handlers) Search(c *gin.Context) {
	query := c.Query("q")

	if err := utils.ValidateQuery(query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	results, err := h.searcher.Search(c.Request.Context(), query)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.metrics.TrackSearch(len(results))

	c.JSON(http.StatusOK, results)
}

// GenerateDriver renders a driver document from a submitted selection
func (h *Handlers) GenerateDriver(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, int64(utils.MaxJSONSize)+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
		return
	}
	if err := h.bodies.ValidateJSON(body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sel, err := driver.DecodeSelection(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	out := driver.Generate(sel)
	h.metrics.TrackDriver()

	c.JSON(http.StatusOK, gin.H{"driver": out})
}

// respondError maps domain errors to HTTP responses.
func (h *Handlers) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, blueprint.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, blueprint.ErrInvalidPath):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logger.Error("Request failed",
			zap.String("path", c.Request.URL.Path),
			zap.String("request_id", logging.RequestID(c)),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// reportUnknown logs catalog values outside the known sets. They are served
// unchanged.
func (h *Handlers) reportUnknown(id string, keys []string) {
	if len(keys) == 0 {
		return
	}
	h.logger.Debug("Catalog uses unknown complexity or default values",
		zap.String("category", id),
		zap.Strings("features", keys),
	)
}
