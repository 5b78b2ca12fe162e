package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const proxyPath = "/api/news"

// NewServer creates a new HTTP server with all routes configured
func NewServer(handler *Handler, debug bool) *gin.Engine {
	if debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Article ids are URLs and arrive percent-encoded in the path.
	r.UseRawPath = true
	r.UnescapePathValues = true

	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		Formatter: func(param gin.LogFormatterParams) string {
			return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\"\n",
				param.ClientIP,
				param.TimeStamp.Format(time.RFC3339),
				param.Method,
				param.Path,
				param.Request.Proto,
				param.StatusCode,
				param.Latency,
				param.Request.UserAgent(),
				param.ErrorMessage,
			)
		},
		SkipPaths: []string{"/metrics"},
	}))

	r.Use(gin.Recovery())
	r.Use(corsMiddleware())

	setupRoutes(r, handler)

	return r
}

// corsMiddleware allows any origin. The proxy is read-only; the session API
// also takes writes.
func corsMiddleware() gin.HandlerFunc {
	proxy := cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{http.MethodGet},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:   []string{"X-Cache"},
	})
	api := cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete,
		},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"X-Feed-Items", "Retry-After"},
		MaxAge:        12 * time.Hour,
	})

	return func(c *gin.Context) {
		if c.Request.URL.Path == proxyPath {
			proxy(c)
			return
		}
		api(c)
	}
}

func setupRoutes(r *gin.Engine, handler *Handler) {
	r.GET(proxyPath, handler.GetNews)

	sessions := r.Group("/api/sessions")
	{
		sessions.POST("", handler.CreateSession)
		sessions.GET("/:id", handler.GetSession)
		sessions.DELETE("/:id", handler.DeleteSession)
		sessions.PATCH("/:id/criteria", handler.UpdateCriteria)
		sessions.POST("/:id/refresh", handler.RefreshSession)
		sessions.PUT("/:id/auto-refresh", handler.SetAutoRefresh)
		sessions.PUT("/:id/page", handler.SetPage)
		sessions.PUT("/:id/page-size", handler.SetPageSize)
		sessions.GET("/:id/saved", handler.ListSaved)
		sessions.POST("/:id/saved/toggle", handler.ToggleSaved)
		sessions.GET("/:id/articles/:articleId/saved", handler.IsSaved)
		sessions.GET("/:id/articles/:articleId/content", handler.GetArticleContent)
		sessions.GET("/:id/feed.rss", handler.GetFeedRSS)
		sessions.GET("/:id/saved.rss", handler.GetSavedRSS)
	}

	r.GET("/health", handler.GetHealth)
	r.GET("/stats", handler.GetStats)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/", handler.GetRoot)

	// Favicon handler (return 204 to avoid 404s)
	r.GET("/favicon.ico", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
}
