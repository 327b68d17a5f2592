package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"noteworthy/backend/internal/auth"
	"noteworthy/backend/internal/middleware"
	"noteworthy/backend/internal/store"
)

type loginPayload struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login verifies the credentials and returns a signed token. Unknown
// username and wrong password get the same response.
func (h *Handler) Login(c *gin.Context) {
	var payload loginPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.store.FindUserByUsername(c.Request.Context(), payload.Username)
	if errors.Is(err, store.ErrNotFound) {
		respondError(c, http.StatusUnauthorized, "Incorrect username or password")
		return
	}
	if err != nil {
		h.log.Error().Err(err).Msg("looking up user")
		respondError(c, http.StatusInternalServerError, "Failed to log in")
		return
	}

	if !auth.ValidatePassword(user.Password, payload.Password) {
		respondError(c, http.StatusUnauthorized, "Incorrect username or password")
		return
	}

	token, err := h.jwt.GenerateToken(auth.Principal{UserID: user.ID, Username: user.Username})
	if err != nil {
		h.log.Error().Err(err).Msg("signing token")
		respondError(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	c.JSON(http.StatusOK, gin.H{"authToken": token})
}

// Refresh re-issues a token for the already-authenticated principal. The
// auth middleware has rejected the request before this point if the
// presented token was invalid or expired.
func (h *Handler) Refresh(c *gin.Context) {
	principal, ok := middleware.ForContext(c.Request.Context())
	if !ok {
		respondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	token, err := h.jwt.GenerateToken(principal)
	if err != nil {
		h.log.Error().Err(err).Msg("signing token")
		respondError(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	c.JSON(http.StatusOK, gin.H{"authToken": token})
}
