// Package store is the persistence layer. Every query it exposes is scoped
// to an owning user; callers never see another user's records, which is what
// lets the handlers collapse "not yours" and "does not exist" into the same
// not-found outcome.
package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"noteworthy/backend/internal/models"
)

var (
	// ErrNotFound means no record matched the owner+id pair.
	ErrNotFound = errors.New("store: not found")
	// ErrDuplicate means a unique index rejected the write.
	ErrDuplicate = errors.New("store: duplicate key")
)

// NoteFilter narrows ListNotes. Zero values mean "no constraint".
type NoteFilter struct {
	SearchTerm string
	FolderID   *primitive.ObjectID
	TagID      *primitive.ObjectID
}

type Store interface {
	// Users. Usernames are globally unique; CreateUser returns ErrDuplicate
	// on a second registration with the same username.
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindUserByUsername(ctx context.Context, username string) (models.User, error)

	// Folders. (userId, name) is unique.
	CreateFolder(ctx context.Context, folder models.Folder) (models.Folder, error)
	ListFolders(ctx context.Context, userID primitive.ObjectID) ([]models.Folder, error)
	FindFolder(ctx context.Context, userID, id primitive.ObjectID) (models.Folder, error)
	RenameFolder(ctx context.Context, userID, id primitive.ObjectID, name string) (models.Folder, error)
	DeleteFolder(ctx context.Context, userID, id primitive.ObjectID) (bool, error)
	CountFolder(ctx context.Context, userID, id primitive.ObjectID) (int64, error)

	// Tags. (userId, name) is unique.
	CreateTag(ctx context.Context, tag models.Tag) (models.Tag, error)
	ListTags(ctx context.Context, userID primitive.ObjectID) ([]models.Tag, error)
	FindTag(ctx context.Context, userID, id primitive.ObjectID) (models.Tag, error)
	RenameTag(ctx context.Context, userID, id primitive.ObjectID, name string) (models.Tag, error)
	DeleteTag(ctx context.Context, userID, id primitive.ObjectID) (bool, error)
	CountTag(ctx context.Context, userID, id primitive.ObjectID) (int64, error)

	// Notes.
	CreateNote(ctx context.Context, note models.Note) (models.Note, error)
	ListNotes(ctx context.Context, userID primitive.ObjectID, filter NoteFilter) ([]models.Note, error)
	FindNote(ctx context.Context, userID, id primitive.ObjectID) (models.Note, error)
	UpdateNote(ctx context.Context, userID, id primitive.ObjectID, note models.Note) (models.Note, error)
	DeleteNote(ctx context.Context, userID, id primitive.ObjectID) (bool, error)

	// DetachFolder clears the folder reference on every note of userID that
	// points at folderID, returning how many notes were touched.
	DetachFolder(ctx context.Context, userID, folderID primitive.ObjectID) (int64, error)
	// PullTag removes tagID from the tags list of every note of userID.
	PullTag(ctx context.Context, userID, tagID primitive.ObjectID) (int64, error)

	// Search looks for the query as a case-insensitive substring of folder
	// names, tag names, and note titles/contents.
	SearchFolders(ctx context.Context, userID primitive.ObjectID, query string) ([]models.Folder, error)
	SearchTags(ctx context.Context, userID primitive.ObjectID, query string) ([]models.Tag, error)
}
