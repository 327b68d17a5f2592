package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"noteworthy/backend/internal/middleware"
	"noteworthy/backend/internal/models"
	"noteworthy/backend/internal/store"
)

type tagPayload struct {
	Name string `json:"name"`
}

func (h *Handler) ListTags(c *gin.Context) {
	principal, ok := middleware.ForContext(c.Request.Context())
	if !ok {
		respondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	tags, err := h.store.ListTags(c.Request.Context(), principal.UserID)
	if err != nil {
		h.log.Error().Err(err).Msg("listing tags")
		respondError(c, http.StatusInternalServerError, "Failed to fetch tags")
		return
	}

	c.JSON(http.StatusOK, tags)
}

func (h *Handler) GetTag(c *gin.Context) {
	tagID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "The `id` is not valid")
		return
	}
	principal, ok := middleware.ForContext(c.Request.Context())
	if !ok {
		respondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	tag, err := h.store.FindTag(c.Request.Context(), principal.UserID, tagID)
	if errors.Is(err, store.ErrNotFound) {
		notFound(c)
		return
	}
	if err != nil {
		h.log.Error().Err(err).Msg("fetching tag")
		respondError(c, http.StatusInternalServerError, "Failed to fetch tag")
		return
	}

	c.JSON(http.StatusOK, tag)
}

func (h *Handler) CreateTag(c *gin.Context) {
	var payload tagPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	principal, ok := middleware.ForContext(c.Request.Context())
	if !ok {
		respondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if payload.Name == "" {
		respondError(c, http.StatusBadRequest, "Missing `name` in request body")
		return
	}

	now := time.Now()
	tag := models.Tag{
		Name:      payload.Name,
		UserID:    principal.UserID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := h.store.CreateTag(c.Request.Context(), tag)
	if errors.Is(err, store.ErrDuplicate) {
		respondError(c, http.StatusBadRequest, "Tag name already exists")
		return
	}
	if err != nil {
		h.log.Error().Err(err).Msg("creating tag")
		respondError(c, http.StatusInternalServerError, "Failed to create tag")
		return
	}

	c.Header("Location", fmt.Sprintf("%s/%s", c.Request.URL.Path, created.ID.Hex()))
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) UpdateTag(c *gin.Context) {
	tagID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "The `id` is not valid")
		return
	}

	var payload tagPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	principal, ok := middleware.ForContext(c.Request.Context())
	if !ok {
		respondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if payload.Name == "" {
		respondError(c, http.StatusBadRequest, "Missing `name` in request body")
		return
	}

	tag, err := h.store.RenameTag(c.Request.Context(), principal.UserID, tagID, payload.Name)
	if errors.Is(err, store.ErrNotFound) {
		notFound(c)
		return
	}
	if errors.Is(err, store.ErrDuplicate) {
		respondError(c, http.StatusBadRequest, "Tag name already exists")
		return
	}
	if err != nil {
		h.log.Error().Err(err).Msg("renaming tag")
		respondError(c, http.StatusInternalServerError, "Failed to update tag")
		return
	}

	c.JSON(http.StatusOK, tag)
}

// DeleteTag removes the tag and pulls its id out of the tags list of every
// note that carried it, the tag counterpart of folder detach.
func (h *Handler) DeleteTag(c *gin.Context) {
	tagID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "The `id` is not valid")
		return
	}
	principal, ok := middleware.ForContext(c.Request.Context())
	if !ok {
		respondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	existed, err := h.store.DeleteTag(c.Request.Context(), principal.UserID, tagID)
	if err != nil {
		h.log.Error().Err(err).Msg("deleting tag")
		respondError(c, http.StatusInternalServerError, "Failed to delete tag")
		return
	}
	if !existed {
		notFound(c)
		return
	}

	pulled, err := h.store.PullTag(c.Request.Context(), principal.UserID, tagID)
	if err != nil {
		h.log.Error().Err(err).Msg("removing tag from notes")
		respondError(c, http.StatusInternalServerError, "Failed to remove tag from notes")
		return
	}
	h.log.Debug().Int64("notes", pulled).Str("tag", tagID.Hex()).Msg("removed tag from notes")

	c.Status(http.StatusNoContent)
}
