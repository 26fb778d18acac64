package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dplus/internal/logging"
	"github.com/dplus/internal/sitemap"
	"github.com/gin-gonic/gin"
)

const xmlContentType = "application/xml; charset=utf-8"

// SitemapIndex serves /sitemap.xml.
func (a *API) SitemapIndex(c *gin.Context) {
	body, err := a.sitemaps.Index()
	if err != nil {
		_ = c.Error(err)
		c.String(http.StatusInternalServerError, "sitemap unavailable")
		return
	}
	c.Data(http.StatusOK, xmlContentType, body)
}

// SitemapSection serves /sitemaps/{section}.xml.
func (a *API) SitemapSection(c *gin.Context) {
	file := c.Param("file")
	if !strings.HasSuffix(file, ".xml") {
		c.String(http.StatusNotFound, "not found")
		return
	}

	body, err := a.sitemaps.Section(c.Request.Context(), strings.TrimSuffix(file, ".xml"))
	if err != nil {
		if errors.Is(err, sitemap.ErrUnknownSection) {
			c.String(http.StatusNotFound, "not found")
			return
		}
		_ = c.Error(err)
		logging.Ctx(c.Request.Context()).Error().Err(err).Str("file", file).Msg("sitemap section failed")
		c.String(http.StatusBadGateway, "sitemap unavailable")
		return
	}
	c.Data(http.StatusOK, xmlContentType, body)
}

// Robots serves /robots.txt.
func (a *API) Robots(c *gin.Context) {
	c.String(http.StatusOK, sitemap.Robots(a.cfg.SiteBaseURL))
}

// Healthz reports liveness; it never calls the backend.
func (a *API) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
