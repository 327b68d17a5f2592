// Package handlers contains the HTTP handlers for the notes API. Each
// handler resolves the authenticated principal from the request context,
// validates the payload, and delegates persistence to the store.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"noteworthy/backend/internal/auth"
	"noteworthy/backend/internal/store"
)

type Handler struct {
	store store.Store
	jwt   *auth.JWTService
	log   zerolog.Logger
}

func New(s store.Store, jwt *auth.JWTService, log zerolog.Logger) *Handler {
	return &Handler{store: s, jwt: jwt, log: log}
}

func respondError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"message": message})
}

// notFound replies with a bare 404, no body. "Does not exist" and "not
// yours" are indistinguishable to the caller.
func notFound(c *gin.Context) {
	c.AbortWithStatus(http.StatusNotFound)
}

func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
