package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/portfolio-site/portfolio-backend/internal/auth"
	"github.com/portfolio-site/portfolio-backend/internal/common"
	"github.com/portfolio-site/portfolio-backend/internal/content"
)

type Handler struct {
	store *content.Store
	log   *common.Logger
}

func New(store *content.Store, log *common.Logger) *Handler {
	return &Handler{store: store, log: log}
}

func (h *Handler) Register(r gin.IRouter) {
	r.GET("/content", h.Get)
	r.POST("/admin/content", auth.RequireAdmin(), h.Update)
}

func (h *Handler) Get(c *gin.Context) {
	siteContent, err := h.store.Get(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("fetch site content failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch content"})
		return
	}
	c.JSON(http.StatusOK, siteContent)
}

func (h *Handler) Update(c *gin.Context) {
	var siteContent map[string]any
	if err := c.ShouldBindJSON(&siteContent); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}

	if err := h.store.Update(c.Request.Context(), siteContent); err != nil {
		h.log.Error().Err(err).Msg("update site content failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save content"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
