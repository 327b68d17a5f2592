package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"noteworthy/backend/internal/auth"
	"noteworthy/backend/internal/middleware"
)

// NewRouter wires every route. Everything under /api except registration
// and login requires a bearer token.
func NewRouter(h *Handler, jwtService *auth.JWTService, log zerolog.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(log))

	router.GET("/health", h.HealthCheck)

	api := router.Group("/api")

	api.POST("/users", h.Register)
	api.POST("/auth/login", h.Login)

	protected := api.Group("/")
	protected.Use(middleware.Authenticate(jwtService))
	{
		protected.POST("/auth/refresh", h.Refresh)

		protected.POST("/notes", h.CreateNote)
		protected.GET("/notes", h.ListNotes)
		protected.GET("/notes/:id", h.GetNote)
		protected.PUT("/notes/:id", h.UpdateNote)
		protected.DELETE("/notes/:id", h.DeleteNote)

		protected.POST("/folders", h.CreateFolder)
		protected.GET("/folders", h.ListFolders)
		protected.GET("/folders/:id", h.GetFolder)
		protected.PUT("/folders/:id", h.UpdateFolder)
		protected.DELETE("/folders/:id", h.DeleteFolder)

		protected.POST("/tags", h.CreateTag)
		protected.GET("/tags", h.ListTags)
		protected.GET("/tags/:id", h.GetTag)
		protected.PUT("/tags/:id", h.UpdateTag)
		protected.DELETE("/tags/:id", h.DeleteTag)

		protected.GET("/search", h.Search)
	}

	return router
}
