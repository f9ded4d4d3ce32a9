package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/portfolio-site/portfolio-backend/internal/auth"
	"github.com/portfolio-site/portfolio-backend/internal/common"
	"github.com/portfolio-site/portfolio-backend/internal/portfolio/domain"
	"github.com/portfolio-site/portfolio-backend/internal/portfolio/service"
	"github.com/portfolio-site/portfolio-backend/internal/revalidate"
)

// Handler serves the admin mutation endpoints and the public read API
// consumed by the rendering layer.
type Handler struct {
	companies *service.CompanyService
	projects  *service.ProjectService
	pages     *revalidate.Dispatcher
	log       *common.Logger
}

func New(companies *service.CompanyService, projects *service.ProjectService, pages *revalidate.Dispatcher, log *common.Logger) *Handler {
	return &Handler{companies: companies, projects: projects, pages: pages, log: log}
}

func (h *Handler) Register(r gin.IRouter) {
	// Public reads for the rendering layer.
	r.GET("/companies", h.ListCompanies)
	r.GET("/companies/:slug", h.CompanyBySlug)
	r.GET("/companies/:slug/projects", h.CompanyProjects)

	admin := r.Group("/admin")
	admin.GET("/companies", h.AdminListCompanies)
	admin.GET("/projects", h.AdminListProjects)

	gated := admin.Group("")
	gated.Use(auth.RequireAdmin())
	gated.POST("/companies", h.SaveCompany)
	gated.POST("/projects", h.SaveProject)
	gated.POST("/delete", h.Delete)
	gated.POST("/revalidate", h.Revalidate)
}

func (h *Handler) ListCompanies(c *gin.Context) {
	companies, err := h.companies.List(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("list companies failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch companies"})
		return
	}
	if companies == nil {
		companies = []domain.Company{}
	}
	c.JSON(http.StatusOK, gin.H{"companies": companies})
}

func (h *Handler) CompanyBySlug(c *gin.Context) {
	company, err := h.companies.BySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Company not found"})
			return
		}
		h.log.Error().Err(err).Str("slug", c.Param("slug")).Msg("get company failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch company"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"company": company})
}

func (h *Handler) CompanyProjects(c *gin.Context) {
	company, err := h.companies.BySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Company not found"})
			return
		}
		h.log.Error().Err(err).Str("slug", c.Param("slug")).Msg("get company failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch company"})
		return
	}

	projects, err := h.projects.ByCompany(c.Request.Context(), company.ID)
	if err != nil {
		h.log.Error().Err(err).Str("company_id", company.ID).Msg("list projects failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch projects"})
		return
	}
	if projects == nil {
		projects = []domain.Project{}
	}
	c.JSON(http.StatusOK, gin.H{"projects": projects})
}

func (h *Handler) AdminListCompanies(c *gin.Context) {
	h.ListCompanies(c)
}

func (h *Handler) AdminListProjects(c *gin.Context) {
	projects, err := h.projects.List(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("list projects failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch projects"})
		return
	}
	if projects == nil {
		projects = []domain.Project{}
	}
	c.JSON(http.StatusOK, gin.H{"projects": projects})
}

func (h *Handler) SaveCompany(c *gin.Context) {
	var req saveCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Company == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}

	saved, err := h.companies.Save(c.Request.Context(), *req.Company)
	if err != nil {
		h.writeMutationError(c, err, "Failed to save")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "company": saved})
}

func (h *Handler) SaveProject(c *gin.Context) {
	var req saveProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Project == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}

	saved, err := h.projects.Save(c.Request.Context(), *req.Project)
	if err != nil {
		h.writeMutationError(c, err, "Failed to save")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "project": saved})
}

// Delete handles the shared delete endpoint: form-encoded id plus an entity
// type discriminator.
func (h *Handler) Delete(c *gin.Context) {
	id := c.PostForm("id")
	entityType := c.PostForm("type")

	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID is required"})
		return
	}

	var err error
	switch entityType {
	case "company":
		err = h.companies.Delete(c.Request.Context(), id)
	case "project":
		err = h.projects.Delete(c.Request.Context(), id)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid type"})
		return
	}

	if err != nil {
		h.writeMutationError(c, err, "Failed to delete")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Deleted successfully"})
}

// Revalidate manually refreshes the public pages, optionally including a
// company detail page.
func (h *Handler) Revalidate(c *gin.Context) {
	var req revalidateRequest
	_ = c.ShouldBindJSON(&req) // empty body means shared pages only

	h.log.Info().Str("slug", req.Slug).Msg("manual revalidation requested")
	h.pages.PublicPages(c.Request.Context(), req.Slug)

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) writeMutationError(c *gin.Context, err error, fallback string) {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error()})
		return
	}

	h.log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("mutation failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
}
