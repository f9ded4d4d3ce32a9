package bootstrap

import (
	"path/filepath"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/portfolio-site/portfolio-backend/config"
	httpapi "github.com/portfolio-site/portfolio-backend/internal/api/http"
	"github.com/portfolio-site/portfolio-backend/internal/api/http/middleware"
	"github.com/portfolio-site/portfolio-backend/internal/auth"
	authhttp "github.com/portfolio-site/portfolio-backend/internal/auth/http"
	"github.com/portfolio-site/portfolio-backend/internal/common"
	"github.com/portfolio-site/portfolio-backend/internal/content"
	contenthttp "github.com/portfolio-site/portfolio-backend/internal/content/http"
	fb "github.com/portfolio-site/portfolio-backend/internal/platform/firebase"
	portfoliohttp "github.com/portfolio-site/portfolio-backend/internal/portfolio/http"
	"github.com/portfolio-site/portfolio-backend/internal/portfolio/service"
	"github.com/portfolio-site/portfolio-backend/internal/revalidate"
	"github.com/portfolio-site/portfolio-backend/internal/uploads"
	uploadshttp "github.com/portfolio-site/portfolio-backend/internal/uploads/http"
)

type RouterDeps struct {
	ServiceName string
	Cfg         *config.Config
	Log         *common.Logger
	Clients     *fb.Clients
	Companies   *service.CompanyService
	Projects    *service.ProjectService
	Pages       *revalidate.Dispatcher
	Pipeline    *uploads.Pipeline
	Content     *content.Store
	Session     *auth.Session
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Cfg.App.Version, dep.Clients)
	healthHandler.RegisterRoutes(r)

	corsConfig := cors.DefaultConfig()
	if len(dep.Cfg.Server.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = dep.Cfg.Server.AllowedOrigins
	} else {
		// no allow-list configured: open access for local development
		corsConfig.AllowOriginFunc = func(string) bool { return true }
	}
	corsConfig.AllowCredentials = true // session cookie rides on API calls
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "X-Request-Id"}

	api := r.Group("/api")
	api.Use(cors.New(corsConfig))
	api.Use(middleware.RequestID(dep.Log))

	api.GET("/firebase-status", healthHandler.FirebaseStatus)

	authhttp.New(dep.Session).Register(api)
	portfoliohttp.New(dep.Companies, dep.Projects, dep.Pages, dep.Log).Register(api)
	uploadshttp.New(dep.Pipeline, dep.Cfg.App.PublicDir, dep.Log).Register(api)
	contenthttp.New(dep.Content, dep.Log).Register(api)

	// Locally stored uploads are served straight from the public tree so the
	// relative URLs the dev fallback hands out resolve.
	r.Static("/uploads", filepath.Join(dep.Cfg.App.PublicDir, "uploads"))
	r.Static("/documents", filepath.Join(dep.Cfg.App.PublicDir, "documents"))

	return r
}
