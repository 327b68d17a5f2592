package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"noteworthy/backend/internal/auth"
	"noteworthy/backend/internal/models"
	"noteworthy/backend/internal/store"
)

// registerPayload uses interface{} fields so that a non-string value can be
// reported with its own message instead of failing JSON binding outright.
type registerPayload struct {
	Fullname interface{} `json:"fullname"`
	Username interface{} `json:"username"`
	Password interface{} `json:"password"`
}

const (
	minPasswordLen = 8
	maxPasswordLen = 72
)

func missing(v interface{}) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}

// validateRegistration walks the checks in a fixed order; the first failure
// is the reported message. Returns an empty string when the payload is
// acceptable.
func validateRegistration(p registerPayload) string {
	if missing(p.Username) {
		return "Username field is required"
	}
	if missing(p.Password) {
		return "Password field is required"
	}

	for _, v := range []interface{}{p.Username, p.Password} {
		if _, ok := v.(string); !ok {
			return fmt.Sprintf("Expect %v to be of data type 'string'", v)
		}
	}
	if p.Fullname != nil {
		if _, ok := p.Fullname.(string); !ok {
			return fmt.Sprintf("Expect %v to be of data type 'string'", p.Fullname)
		}
	}

	for _, v := range []interface{}{p.Username, p.Password} {
		s := v.(string)
		if strings.TrimSpace(s) != s {
			return fmt.Sprintf("Should not be whitespace at beginning or end of %s", s)
		}
	}

	password := p.Password.(string)
	if len(password) < minPasswordLen || len(password) > maxPasswordLen {
		return "password must be at least 8 characters and no more than 72 characters in length"
	}

	return ""
}

// Register creates a user. Field validation failures are 422; a duplicate
// username is 400. The response body never includes the password digest.
func (h *Handler) Register(c *gin.Context) {
	var payload registerPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if msg := validateRegistration(payload); msg != "" {
		respondError(c, http.StatusUnprocessableEntity, msg)
		return
	}

	digest, err := auth.HashPassword(payload.Password.(string))
	if err != nil {
		h.log.Error().Err(err).Msg("hashing password")
		respondError(c, http.StatusInternalServerError, "Failed to create user")
		return
	}

	fullname := ""
	if s, ok := payload.Fullname.(string); ok {
		fullname = strings.TrimSpace(s)
	}

	user := models.User{
		Username: payload.Username.(string),
		Password: digest,
		Fullname: fullname,
	}

	created, err := h.store.CreateUser(c.Request.Context(), user)
	if errors.Is(err, store.ErrDuplicate) {
		respondError(c, http.StatusBadRequest, "The username already exists")
		return
	}
	if err != nil {
		h.log.Error().Err(err).Msg("creating user")
		respondError(c, http.StatusInternalServerError, "Failed to create user")
		return
	}

	c.Header("Location", fmt.Sprintf("%s/%s", c.Request.URL.Path, created.ID.Hex()))
	c.JSON(http.StatusCreated, created)
}
