package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	fb "github.com/portfolio-site/portfolio-backend/internal/platform/firebase"
)

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Service   string    `json:"service"`
	Version   string    `json:"version"`
	Firestore string    `json:"firestore"`
	Storage   string    `json:"storage"`
}

type HealthHandler struct {
	serviceName string
	version     string
	clients     *fb.Clients
}

func NewHealthHandler(serviceName, version string, clients *fb.Clients) *HealthHandler {
	return &HealthHandler{
		serviceName: serviceName,
		version:     version,
		clients:     clients,
	}
}

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Service:   h.serviceName,
		Version:   h.version,
		Firestore: readiness(h.clients.FirestoreReady()),
		Storage:   readiness(h.clients.StorageReady()),
	})
}

// FirebaseStatus exposes the captured initialization state so operators can
// tell whether the service runs against the primary backend or local mode.
func (h *HealthHandler) FirebaseStatus(c *gin.Context) {
	var errMsg any
	if err := h.clients.InitError(); err != nil {
		errMsg = err.Error()
	}

	c.JSON(http.StatusOK, gin.H{
		"ready": h.clients.FirestoreReady() && h.clients.StorageReady(),
		"error": errMsg,
	})
}

func (h *HealthHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", h.HealthCheck)
	r.GET("/healthz", h.HealthCheck)
}

func readiness(ready bool) string {
	if ready {
		return "up"
	}
	return "local"
}
