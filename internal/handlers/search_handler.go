package handlers

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"noteworthy/backend/internal/middleware"
	"noteworthy/backend/internal/store"
)

// SearchResultItem defines a generic structure for search results.
type SearchResultItem struct {
	Type      string    `json:"type"`
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	FolderID  string    `json:"folderId,omitempty"` // for notes
	UpdatedAt time.Time `json:"updatedAt"`
}

// Search looks for the query across the principal's folders, tags, and
// notes. The three lookups are independent and run concurrently.
func (h *Handler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusOK, []SearchResultItem{})
		return
	}

	principal, ok := middleware.ForContext(c.Request.Context())
	if !ok {
		respondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	ctx := c.Request.Context()

	var wg sync.WaitGroup
	var mu sync.Mutex
	results := make([]SearchResultItem, 0)

	wg.Add(1)
	go func() {
		defer wg.Done()
		folders, err := h.store.SearchFolders(ctx, principal.UserID, query)
		if err != nil {
			h.log.Error().Err(err).Msg("searching folders")
			return
		}
		mu.Lock()
		for _, f := range folders {
			results = append(results, SearchResultItem{
				Type:      "folder",
				ID:        f.ID.Hex(),
				Name:      f.Name,
				UpdatedAt: f.UpdatedAt,
			})
		}
		mu.Unlock()
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		tags, err := h.store.SearchTags(ctx, principal.UserID, query)
		if err != nil {
			h.log.Error().Err(err).Msg("searching tags")
			return
		}
		mu.Lock()
		for _, t := range tags {
			results = append(results, SearchResultItem{
				Type:      "tag",
				ID:        t.ID.Hex(),
				Name:      t.Name,
				UpdatedAt: t.UpdatedAt,
			})
		}
		mu.Unlock()
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		notes, err := h.store.ListNotes(ctx, principal.UserID, store.NoteFilter{SearchTerm: query})
		if err != nil {
			h.log.Error().Err(err).Msg("searching notes")
			return
		}
		mu.Lock()
		for _, n := range notes {
			item := SearchResultItem{
				Type:      "note",
				ID:        n.ID.Hex(),
				Name:      n.Title,
				UpdatedAt: n.UpdatedAt,
			}
			if n.FolderID != nil {
				item.FolderID = n.FolderID.Hex()
			}
			results = append(results, item)
		}
		mu.Unlock()
	}()

	wg.Wait()

	c.JSON(http.StatusOK, results)
}
