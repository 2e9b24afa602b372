// Package site serves the portfolio pages' data over HTTP: the article and
// project lists, item details, editing for a logged-in owner and the session.
// Every caller authenticates with its own auth_token cookie or bearer header;
// upstream calls carry that caller's token only.
package site

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/codeharbor/portfolio/internal/apiclient"
	"github.com/codeharbor/portfolio/internal/content/collection"
	"github.com/codeharbor/portfolio/internal/imageurl"
)

type RouterDeps struct {
	ServiceName  string
	Version      string
	CORSOrigins  []string
	Articles     *collection.Articles
	ProjectItems *collection.ProjectItems
	Images       imageurl.Resolver
	// SecureCookies marks the session cookie Secure.
	SecureCookies bool
	Upstream      func() apiclient.Metrics
	Logger        *zap.Logger
}

func SetGinMode(env string) {
	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	logger := dep.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware(logger))
	r.Use(SessionMiddleware())
	if len(dep.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     dep.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", headerRequestID},
			ExposeHeaders:    []string{headerRequestID},
			AllowCredentials: true,
		}))
	}

	healthHandler := NewHealthHandler(dep.ServiceName, dep.Version, dep.Upstream)
	healthHandler.RegisterRoutes(r)

	api := r.Group("/api")

	if dep.Articles != nil {
		articleResource(dep.Articles, dep.Images).register(api.Group("/articles"))
	}
	if dep.ProjectItems != nil {
		projectItemResource(dep.ProjectItems, dep.Images).register(api.Group("/projects"))
	}
	(&sessionHandler{secure: dep.SecureCookies}).register(api.Group("/session"))

	return r
}
