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

type folderPayload struct {
	Name string `json:"name"`
}

func (h *Handler) ListFolders(c *gin.Context) {
	principal, ok := middleware.ForContext(c.Request.Context())
	if !ok {
		respondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	folders, err := h.store.ListFolders(c.Request.Context(), principal.UserID)
	if err != nil {
		h.log.Error().Err(err).Msg("listing folders")
		respondError(c, http.StatusInternalServerError, "Failed to fetch folders")
		return
	}

	c.JSON(http.StatusOK, folders)
}

func (h *Handler) GetFolder(c *gin.Context) {
	folderID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "The `id` is not valid")
		return
	}
	principal, ok := middleware.ForContext(c.Request.Context())
	if !ok {
		respondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	folder, err := h.store.FindFolder(c.Request.Context(), principal.UserID, folderID)
	if errors.Is(err, store.ErrNotFound) {
		notFound(c)
		return
	}
	if err != nil {
		h.log.Error().Err(err).Msg("fetching folder")
		respondError(c, http.StatusInternalServerError, "Failed to fetch folder")
		return
	}

	c.JSON(http.StatusOK, folder)
}

func (h *Handler) CreateFolder(c *gin.Context) {
	var payload folderPayload
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
	folder := models.Folder{
		Name:      payload.Name,
		UserID:    principal.UserID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := h.store.CreateFolder(c.Request.Context(), folder)
	if errors.Is(err, store.ErrDuplicate) {
		respondError(c, http.StatusBadRequest, "Folder name already exists")
		return
	}
	if err != nil {
		h.log.Error().Err(err).Msg("creating folder")
		respondError(c, http.StatusInternalServerError, "Failed to create folder")
		return
	}

	c.Header("Location", fmt.Sprintf("%s/%s", c.Request.URL.Path, created.ID.Hex()))
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) UpdateFolder(c *gin.Context) {
	folderID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "The `id` is not valid")
		return
	}

	var payload folderPayload
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

	folder, err := h.store.RenameFolder(c.Request.Context(), principal.UserID, folderID, payload.Name)
	if errors.Is(err, store.ErrNotFound) {
		notFound(c)
		return
	}
	if errors.Is(err, store.ErrDuplicate) {
		respondError(c, http.StatusBadRequest, "Folder name already exists")
		return
	}
	if err != nil {
		h.log.Error().Err(err).Msg("renaming folder")
		respondError(c, http.StatusInternalServerError, "Failed to update folder")
		return
	}

	c.JSON(http.StatusOK, folder)
}

// DeleteFolder removes the folder, then clears the folder reference on
// every note of the principal that pointed at it. Notes are detached, not
// deleted. The two steps are not a transaction; a failure between them
// leaves dangling references that resolve to "no folder" on the next read.
func (h *Handler) DeleteFolder(c *gin.Context) {
	folderID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "The `id` is not valid")
		return
	}
	principal, ok := middleware.ForContext(c.Request.Context())
	if !ok {
		respondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	existed, err := h.store.DeleteFolder(c.Request.Context(), principal.UserID, folderID)
	if err != nil {
		h.log.Error().Err(err).Msg("deleting folder")
		respondError(c, http.StatusInternalServerError, "Failed to delete folder")
		return
	}
	if !existed {
		notFound(c)
		return
	}

	detached, err := h.store.DetachFolder(c.Request.Context(), principal.UserID, folderID)
	if err != nil {
		h.log.Error().Err(err).Msg("detaching notes")
		respondError(c, http.StatusInternalServerError, "Failed to detach notes from folder")
		return
	}
	h.log.Debug().Int64("notes", detached).Str("folder", folderID.Hex()).Msg("detached notes")

	c.Status(http.StatusNoContent)
}
