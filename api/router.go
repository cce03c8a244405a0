package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/bookbuddy/api/handler"
	"github.com/use-agent/bookbuddy/api/middleware"
	"github.com/use-agent/bookbuddy/config"
)

// NewRouter creates a configured Gin engine serving the form page and the
// JSON API behind it.
//
// Middleware chain:
//
//	Global:      Recovery → Logger
//	API:         Auth (when keys are configured)
//	Submissions: RateLimit
//
// The page and the health endpoint are outside auth; the page forwards the
// key from its URL fragment.
func NewRouter(w handler.FormWindow, cfg *config.Config, startTime time.Time) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.SetHTMLTemplate(handler.Templates())

	r.GET("/", handler.Index())

	v1 := r.Group("/api/v1")
	v1.GET("/health", handler.Health(startTime))

	protected := v1.Group("")
	protected.Use(middleware.Auth(cfg.Auth.APIKeys))
	protected.GET("/form", handler.GetForm(w))
	protected.POST("/open", handler.PostOpen(w))

	submit := protected.Group("")
	submit.Use(middleware.RateLimit(cfg.RateLimit))
	submit.POST("/shelf", handler.PostShelf(w))
	submit.POST("/search", handler.PostSearch(w))

	return r
}
