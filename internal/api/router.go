package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BerylCAtieno/persona-studio/internal/logger"
	"github.com/BerylCAtieno/persona-studio/internal/session"
)

type RouterOptions struct {
	AllowedOrigins []string
	// StaticDir, when set, is served at / for the browser UI.
	StaticDir string
}

func NewRouter(h *Handler, sessions *session.Manager, log *logger.Logger, opts RouterOptions) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(CORS(opts.AllowedOrigins))
	router.Use(RequestLoggingMiddleware(log))

	router.GET("/health", h.Health)

	personas := router.Group("/api/personas")
	personas.Use(SessionMiddleware(sessions, log))
	{
		personas.GET("", h.View)
		personas.POST("/generate", h.Generate)
		personas.POST("/delete_all", h.DeleteAll)
		personas.POST("/filter", h.SetFilter)
		personas.DELETE("/filter", h.ClearFilter)
		personas.GET("/search", h.Search)
		personas.GET("/stats", h.Stats)
		personas.GET("/pivot", h.Pivot)
		personas.GET("/export/:format", h.Export)
	}

	if opts.StaticDir != "" {
		router.NoRoute(gin.WrapH(http.FileServer(http.Dir(opts.StaticDir))))
	}
	return router
}
