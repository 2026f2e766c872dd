package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/miragebrowse/mirage/internal/logging"
	"github.com/miragebrowse/mirage/internal/proxy"
	"github.com/miragebrowse/mirage/internal/proxy/session"
)

// Handlers contains all HTTP handlers
type Handlers struct {
	service  *proxy.Service
	sessions *session.Store
	logger   *logging.Logger
}

// NewHandlers creates a new handler set
func NewHandlers(service *proxy.Service, sessions *session.Store, logger *logging.Logger) *Handlers {
	return &Handlers{
		service:  service,
		sessions: sessions,
		logger:   logger,
	}
}

// Root handles health check
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "mirage",
	})
}

// Health handles detailed health check
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "healthy",
		"cookie_jars": h.sessions.Len(),
	})
}

// Proxy handles a proxied fetch. The request body names the target URL,
// an optional resource type, and an optional session identifier.
func (h *Handlers) Proxy(c *gin.Context) {
	var req proxy.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "URL is required"})
		return
	}

	resp, err := h.service.Handle(c.Request.Context(), req, c.Request.UserAgent())
	if err != nil {
		h.renderError(c, req.URL, err)
		return
	}

	// Resources are immutable by URL, so downstream caches may hold them.
	if resp.IsBase64 {
		c.Header("Cache-Control", "public, max-age=3600")
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handlers) renderError(c *gin.Context, url string, err error) {
	var perr *proxy.Error
	if !errors.As(err, &perr) {
		h.logger.Error("proxy request failed", zap.String("url", url), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch website"})
		return
	}

	status := perr.HTTPStatus()
	if status >= http.StatusInternalServerError {
		h.logger.Error("proxy request failed", zap.String("url", url), zap.Error(perr))
	} else {
		h.logger.Info("proxy request refused",
			zap.String("url", url), zap.Int("status", status), zap.String("reason", perr.Message))
	}

	body := gin.H{"error": perr.Message}
	if perr.Blocked {
		body["isBlocked"] = true
	}
	c.JSON(status, body)
}
