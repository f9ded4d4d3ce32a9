package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/portfolio-site/portfolio-backend/internal/auth"
)

type loginRequest struct {
	Password string `json:"password" form:"password"`
}

// Handler serves the admin session endpoints.
type Handler struct {
	session *auth.Session
}

func New(session *auth.Session) *Handler {
	return &Handler{session: session}
}

func (h *Handler) Register(r gin.IRouter) {
	r.POST("/admin/login", h.Login)
	r.POST("/admin/logout", h.Logout)
	r.GET("/admin/check", h.Check)
}

// Login verifies the submitted credential. The rejection message is uniform
// regardless of why the attempt failed.
func (h *Handler) Login(c *gin.Context) {
	if !h.session.Allow() {
		c.JSON(http.StatusTooManyRequests, gin.H{"message": "Too many attempts"})
		return
	}

	var req loginRequest
	if err := c.ShouldBind(&req); err != nil || !h.session.Verify(req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid Credentials"})
		return
	}

	h.session.Grant(c)
	c.JSON(http.StatusOK, gin.H{"success": true, "redirect": "/admin/dashboard"})
}

func (h *Handler) Logout(c *gin.Context) {
	h.session.Revoke(c)
	c.JSON(http.StatusOK, gin.H{"success": true, "redirect": "/"})
}

// Check lets the dashboard probe whether the session marker is still valid.
func (h *Handler) Check(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"authorized": auth.IsAuthorized(c)})
}
