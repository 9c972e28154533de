package server

import (
	"bytes"
	"fmt"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/joshsymonds/lexcura/internal/models"
	"github.com/joshsymonds/lexcura/internal/render"
	"github.com/joshsymonds/lexcura/internal/resolver"
	"github.com/joshsymonds/lexcura/internal/server/middleware"
	"github.com/joshsymonds/lexcura/internal/server/respond"
	"github.com/joshsymonds/lexcura/pkg/logger"
)

const maxClientIDLength = 128

func (s *Server) registerRoutes() {
	s.engine.GET("/", s.handlePage)
	s.engine.GET("/healthz", s.handleHealth)

	api := s.engine.Group("/api/v1")
	api.GET("/client", s.handleClient)
	api.GET("/cache/stats", s.handleCacheStats)
	api.POST("/refresh", middleware.RateLimit(s.limiter), s.handleRefresh)
}

// clientResponse is the JSON shape of GET /api/v1/client.
type clientResponse struct {
	Record       models.ClientRecord `json:"record"`
	Source       resolver.Source     `json:"source"`
	Reason       resolver.Reason     `json:"reason,omitempty"`
	Notice       string              `json:"notice,omitempty"`
	ResolutionID string              `json:"resolution_id"`
	Cached       bool                `json:"cached"`
}

// clientID reads the client_id query parameter unchanged. An empty value is
// passed on so the resolver applies its default.
func clientID(c *gin.Context) (string, bool) {
	id := c.Query("client_id")
	if len(id) > maxClientIDLength {
		respond.Error(c, http.StatusBadRequest, "invalid_client_id",
			fmt.Sprintf("client_id must be at most %d characters", maxClientIDLength), nil)
		return "", false
	}
	return id, true
}

func (s *Server) handlePage(c *gin.Context) {
	id, ok := clientID(c)
	if !ok {
		return
	}
	res := s.resolver.ResolveDetailed(c.Request.Context(), id)

	var buf bytes.Buffer
	if err := render.HTML(&buf, res, id); err != nil {
		logger.WithContext(c.Request.Context()).Error("Rendering page failed", "error", err)
		respond.Error(c, http.StatusInternalServerError, "render_failed", "Could not render dashboard", nil)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

func (s *Server) handleClient(c *gin.Context) {
	id, ok := clientID(c)
	if !ok {
		return
	}
	res := s.resolver.ResolveDetailed(c.Request.Context(), id)
	respond.OK(c, clientResponse{
		Record:       res.Record,
		Source:       res.Source,
		Reason:       res.Reason,
		Notice:       res.Notice(),
		ResolutionID: res.ResolutionID,
		Cached:       res.Cached,
	})
}

func (s *Server) handleRefresh(c *gin.Context) {
	s.resolver.Refresh()
	logger.WithContext(c.Request.Context()).Info("Refresh requested", "client_ip", c.ClientIP())

	// The page's refresh button posts a form; send the browser back to it.
	if c.ContentType() == "application/x-www-form-urlencoded" {
		target := "/"
		if id := c.PostForm("client_id"); id != "" {
			target += "?client_id=" + url.QueryEscape(id)
		}
		c.Redirect(http.StatusSeeOther, target)
		return
	}
	respond.OK(c, gin.H{"refreshed": true})
}

func (s *Server) handleCacheStats(c *gin.Context) {
	respond.OK(c, s.resolver.CacheStats())
}

func (s *Server) handleHealth(c *gin.Context) {
	respond.OK(c, gin.H{"ok": true, "version": s.version})
}
