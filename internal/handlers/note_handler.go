package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"

	"noteworthy/backend/internal/auth"
	"noteworthy/backend/internal/middleware"
	"noteworthy/backend/internal/models"
	"noteworthy/backend/internal/store"
)

// notePayload is shared by create and update; both require a title.
type notePayload struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	FolderID string   `json:"folderId"`
	Tags     []string `json:"tags"`
}

// parseNotePayload checks the structural half of the contract: title
// present, folder and tag references well-formed. An empty folderId means
// "no folder". Ownership is checked separately.
func parseNotePayload(p notePayload) (folderID *primitive.ObjectID, tags []primitive.ObjectID, errMsg string) {
	if p.Title == "" {
		return nil, nil, "Missing `title` in request body"
	}

	if p.FolderID != "" {
		oid, err := primitive.ObjectIDFromHex(p.FolderID)
		if err != nil {
			return nil, nil, "The `folderId` is not valid"
		}
		folderID = &oid
	}

	tags = make([]primitive.ObjectID, 0, len(p.Tags))
	for _, t := range p.Tags {
		oid, err := primitive.ObjectIDFromHex(t)
		if err != nil {
			return nil, nil, "The tags `id` is not valid"
		}
		tags = append(tags, oid)
	}

	return folderID, tags, ""
}

// checkOwnership runs the folder check and the tag checks concurrently and
// joins them. The two results are independent; the caller inspects the
// folder result first, so a folder failure wins when both fail.
func (h *Handler) checkOwnership(ctx context.Context, userID primitive.ObjectID, folderID *primitive.ObjectID, tags []primitive.ObjectID) (folderOwned, tagsOwned bool, err error) {
	folderOwned, tagsOwned = true, true

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if folderID == nil {
			return nil
		}
		n, err := h.store.CountFolder(gctx, userID, *folderID)
		if err != nil {
			return err
		}
		folderOwned = n > 0
		return nil
	})

	g.Go(func() error {
		for _, tagID := range tags {
			n, err := h.store.CountTag(gctx, userID, tagID)
			if err != nil {
				return err
			}
			if n == 0 {
				tagsOwned = false
				return nil
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return false, false, err
	}
	return folderOwned, tagsOwned, nil
}

// ListNotes returns the principal's notes, optionally narrowed by a
// case-insensitive search term over title and content, a folder, or a tag.
// Sorted by updatedAt, newest first.
func (h *Handler) ListNotes(c *gin.Context) {
	principal, ok := middleware.ForContext(c.Request.Context())
	if !ok {
		respondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	filter := store.NoteFilter{SearchTerm: c.Query("searchTerm")}

	if folderID := c.Query("folderId"); folderID != "" {
		oid, err := primitive.ObjectIDFromHex(folderID)
		if err != nil {
			respondError(c, http.StatusBadRequest, "The `folderId` is not valid")
			return
		}
		filter.FolderID = &oid
	}
	if tagID := c.Query("tagId"); tagID != "" {
		oid, err := primitive.ObjectIDFromHex(tagID)
		if err != nil {
			respondError(c, http.StatusBadRequest, "The `tagId` is not valid")
			return
		}
		filter.TagID = &oid
	}

	notes, err := h.store.ListNotes(c.Request.Context(), principal.UserID, filter)
	if err != nil {
		h.log.Error().Err(err).Msg("listing notes")
		respondError(c, http.StatusInternalServerError, "Failed to fetch notes")
		return
	}

	c.JSON(http.StatusOK, notes)
}

func (h *Handler) GetNote(c *gin.Context) {
	noteID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "The `id` is not valid")
		return
	}
	principal, ok := middleware.ForContext(c.Request.Context())
	if !ok {
		respondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	note, err := h.store.FindNote(c.Request.Context(), principal.UserID, noteID)
	if errors.Is(err, store.ErrNotFound) {
		notFound(c)
		return
	}
	if err != nil {
		h.log.Error().Err(err).Msg("fetching note")
		respondError(c, http.StatusInternalServerError, "Failed to fetch note")
		return
	}

	c.JSON(http.StatusOK, note)
}

// CreateNote validates the payload, confirms the folder and every tag
// belong to the principal, and only then writes the note.
func (h *Handler) CreateNote(c *gin.Context) {
	var payload notePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	principal, ok := middleware.ForContext(c.Request.Context())
	if !ok {
		respondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	folderID, tags, errMsg := parseNotePayload(payload)
	if errMsg != "" {
		respondError(c, http.StatusBadRequest, errMsg)
		return
	}

	if !h.requireOwnership(c, principal, folderID, tags) {
		return
	}

	now := time.Now()
	note := models.Note{
		Title:     payload.Title,
		Content:   payload.Content,
		UserID:    principal.UserID,
		FolderID:  folderID,
		Tags:      tags,
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := h.store.CreateNote(c.Request.Context(), note)
	if err != nil {
		h.log.Error().Err(err).Msg("creating note")
		respondError(c, http.StatusInternalServerError, "Failed to create note")
		return
	}

	c.Header("Location", fmt.Sprintf("%s/%s", c.Request.URL.Path, created.ID.Hex()))
	c.JSON(http.StatusCreated, created)
}

// UpdateNote applies the same validation as create, then updates the note
// if it belongs to the principal. A note owned by someone else and a note
// that does not exist produce the same 404.
func (h *Handler) UpdateNote(c *gin.Context) {
	noteID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "The `id` is not valid")
		return
	}

	var payload notePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	principal, ok := middleware.ForContext(c.Request.Context())
	if !ok {
		respondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	folderID, tags, errMsg := parseNotePayload(payload)
	if errMsg != "" {
		respondError(c, http.StatusBadRequest, errMsg)
		return
	}

	if !h.requireOwnership(c, principal, folderID, tags) {
		return
	}

	note := models.Note{
		Title:    payload.Title,
		Content:  payload.Content,
		FolderID: folderID,
		Tags:     tags,
	}

	updated, err := h.store.UpdateNote(c.Request.Context(), principal.UserID, noteID, note)
	if errors.Is(err, store.ErrNotFound) {
		notFound(c)
		return
	}
	if err != nil {
		h.log.Error().Err(err).Msg("updating note")
		respondError(c, http.StatusInternalServerError, "Failed to update note")
		return
	}

	c.JSON(http.StatusOK, updated)
}

func (h *Handler) DeleteNote(c *gin.Context) {
	noteID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "The `id` is not valid")
		return
	}
	principal, ok := middleware.ForContext(c.Request.Context())
	if !ok {
		respondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	existed, err := h.store.DeleteNote(c.Request.Context(), principal.UserID, noteID)
	if err != nil {
		h.log.Error().Err(err).Msg("deleting note")
		respondError(c, http.StatusInternalServerError, "Failed to delete note")
		return
	}
	if !existed {
		notFound(c)
		return
	}

	c.Status(http.StatusNoContent)
}

// requireOwnership runs the concurrent folder/tag ownership checks and
// writes the error response itself when either fails. Reports whether the
// caller may proceed with the write.
func (h *Handler) requireOwnership(c *gin.Context, principal auth.Principal, folderID *primitive.ObjectID, tags []primitive.ObjectID) bool {
	folderOwned, tagsOwned, err := h.checkOwnership(c.Request.Context(), principal.UserID, folderID, tags)
	if err != nil {
		h.log.Error().Err(err).Msg("checking ownership")
		respondError(c, http.StatusInternalServerError, "Failed to validate note references")
		return false
	}
	if !folderOwned {
		respondError(c, http.StatusUnauthorized, "The specified Folder does not belong to the current user")
		return false
	}
	if !tagsOwned {
		respondError(c, http.StatusUnauthorized, "One or more tag IDs do not belong to the current user")
		return false
	}
	return true
}
