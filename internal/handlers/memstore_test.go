package handlers

import (
	"context"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"noteworthy/backend/internal/models"
	"noteworthy/backend/internal/store"
)

// memStore is an in-memory Store for handler tests. It records the name of
// every method called so tests can assert that validation failures
// short-circuit before any store access.
type memStore struct {
	mu      sync.Mutex
	users   map[primitive.ObjectID]models.User
	folders map[primitive.ObjectID]models.Folder
	tags    map[primitive.ObjectID]models.Tag
	notes   map[primitive.ObjectID]models.Note
	calls   []string
}

func newMemStore() *memStore {
	return &memStore{
		users:   make(map[primitive.ObjectID]models.User),
		folders: make(map[primitive.ObjectID]models.Folder),
		tags:    make(map[primitive.ObjectID]models.Tag),
		notes:   make(map[primitive.ObjectID]models.Note),
	}
}

func (m *memStore) record(call string) {
	m.calls = append(m.calls, call)
}

func (m *memStore) callLog() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func (m *memStore) CreateUser(_ context.Context, user models.User) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("CreateUser")
	for _, u := range m.users {
		if u.Username == user.Username {
			return models.User{}, store.ErrDuplicate
		}
	}
	user.ID = primitive.NewObjectID()
	m.users[user.ID] = user
	return user, nil
}

func (m *memStore) FindUserByUsername(_ context.Context, username string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("FindUserByUsername")
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return models.User{}, store.ErrNotFound
}

func (m *memStore) CreateFolder(_ context.Context, folder models.Folder) (models.Folder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("CreateFolder")
	for _, f := range m.folders {
		if f.UserID == folder.UserID && f.Name == folder.Name {
			return models.Folder{}, store.ErrDuplicate
		}
	}
	folder.ID = primitive.NewObjectID()
	m.folders[folder.ID] = folder
	return folder, nil
}

func (m *memStore) ListFolders(_ context.Context, userID primitive.ObjectID) ([]models.Folder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("ListFolders")
	folders := make([]models.Folder, 0)
	for _, f := range m.folders {
		if f.UserID == userID {
			folders = append(folders, f)
		}
	}
	return folders, nil
}

func (m *memStore) FindFolder(_ context.Context, userID, id primitive.ObjectID) (models.Folder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("FindFolder")
	f, ok := m.folders[id]
	if !ok || f.UserID != userID {
		return models.Folder{}, store.ErrNotFound
	}
	return f, nil
}

func (m *memStore) RenameFolder(_ context.Context, userID, id primitive.ObjectID, name string) (models.Folder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("RenameFolder")
	f, ok := m.folders[id]
	if !ok || f.UserID != userID {
		return models.Folder{}, store.ErrNotFound
	}
	for _, other := range m.folders {
		if other.ID != id && other.UserID == userID && other.Name == name {
			return models.Folder{}, store.ErrDuplicate
		}
	}
	f.Name = name
	m.folders[id] = f
	return f, nil
}

func (m *memStore) DeleteFolder(_ context.Context, userID, id primitive.ObjectID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("DeleteFolder")
	f, ok := m.folders[id]
	if !ok || f.UserID != userID {
		return false, nil
	}
	delete(m.folders, id)
	return true, nil
}

func (m *memStore) CountFolder(_ context.Context, userID, id primitive.ObjectID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("CountFolder")
	f, ok := m.folders[id]
	if ok && f.UserID == userID {
		return 1, nil
	}
	return 0, nil
}

func (m *memStore) CreateTag(_ context.Context, tag models.Tag) (models.Tag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("CreateTag")
	for _, t := range m.tags {
		if t.UserID == tag.UserID && t.Name == tag.Name {
			return models.Tag{}, store.ErrDuplicate
		}
	}
	tag.ID = primitive.NewObjectID()
	m.tags[tag.ID] = tag
	return tag, nil
}

func (m *memStore) ListTags(_ context.Context, userID primitive.ObjectID) ([]models.Tag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("ListTags")
	tags := make([]models.Tag, 0)
	for _, t := range m.tags {
		if t.UserID == userID {
			tags = append(tags, t)
		}
	}
	return tags, nil
}

func (m *memStore) FindTag(_ context.Context, userID, id primitive.ObjectID) (models.Tag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("FindTag")
	t, ok := m.tags[id]
	if !ok || t.UserID != userID {
		return models.Tag{}, store.ErrNotFound
	}
	return t, nil
}

func (m *memStore) RenameTag(_ context.Context, userID, id primitive.ObjectID, name string) (models.Tag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("RenameTag")
	t, ok := m.tags[id]
	if !ok || t.UserID != userID {
		return models.Tag{}, store.ErrNotFound
	}
	for _, other := range m.tags {
		if other.ID != id && other.UserID == userID && other.Name == name {
			return models.Tag{}, store.ErrDuplicate
		}
	}
	t.Name = name
	m.tags[id] = t
	return t, nil
}

func (m *memStore) DeleteTag(_ context.Context, userID, id primitive.ObjectID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("DeleteTag")
	t, ok := m.tags[id]
	if !ok || t.UserID != userID {
		return false, nil
	}
	delete(m.tags, id)
	return true, nil
}

func (m *memStore) CountTag(_ context.Context, userID, id primitive.ObjectID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("CountTag")
	t, ok := m.tags[id]
	if ok && t.UserID == userID {
		return 1, nil
	}
	return 0, nil
}

func (m *memStore) CreateNote(_ context.Context, note models.Note) (models.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("CreateNote")
	note.ID = primitive.NewObjectID()
	m.notes[note.ID] = note
	return note, nil
}

func (m *memStore) ListNotes(_ context.Context, userID primitive.ObjectID, filter store.NoteFilter) ([]models.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("ListNotes")
	notes := make([]models.Note, 0)
	for _, n := range m.notes {
		if n.UserID != userID {
			continue
		}
		if filter.SearchTerm != "" {
			term := strings.ToLower(filter.SearchTerm)
			if !strings.Contains(strings.ToLower(n.Title), term) &&
				!strings.Contains(strings.ToLower(n.Content), term) {
				continue
			}
		}
		if filter.FolderID != nil && (n.FolderID == nil || *n.FolderID != *filter.FolderID) {
			continue
		}
		if filter.TagID != nil {
			found := false
			for _, t := range n.Tags {
				if t == *filter.TagID {
					found = true
					break
				}
			}
			if !found {
				continue
			}
		}
		notes = append(notes, n)
	}
	return notes, nil
}

func (m *memStore) FindNote(_ context.Context, userID, id primitive.ObjectID) (models.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("FindNote")
	n, ok := m.notes[id]
	if !ok || n.UserID != userID {
		return models.Note{}, store.ErrNotFound
	}
	return n, nil
}

func (m *memStore) UpdateNote(_ context.Context, userID, id primitive.ObjectID, note models.Note) (models.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("UpdateNote")
	existing, ok := m.notes[id]
	if !ok || existing.UserID != userID {
		return models.Note{}, store.ErrNotFound
	}
	existing.Title = note.Title
	existing.Content = note.Content
	existing.FolderID = note.FolderID
	existing.Tags = note.Tags
	m.notes[id] = existing
	return existing, nil
}

func (m *memStore) DeleteNote(_ context.Context, userID, id primitive.ObjectID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("DeleteNote")
	n, ok := m.notes[id]
	if !ok || n.UserID != userID {
		return false, nil
	}
	delete(m.notes, id)
	return true, nil
}

func (m *memStore) DetachFolder(_ context.Context, userID, folderID primitive.ObjectID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("DetachFolder")
	var n int64
	for id, note := range m.notes {
		if note.UserID == userID && note.FolderID != nil && *note.FolderID == folderID {
			note.FolderID = nil
			m.notes[id] = note
			n++
		}
	}
	return n, nil
}

func (m *memStore) PullTag(_ context.Context, userID, tagID primitive.ObjectID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("PullTag")
	var n int64
	for id, note := range m.notes {
		if note.UserID != userID {
			continue
		}
		kept := note.Tags[:0]
		pulled := false
		for _, t := range note.Tags {
			if t == tagID {
				pulled = true
				continue
			}
			kept = append(kept, t)
		}
		if pulled {
			note.Tags = kept
			m.notes[id] = note
			n++
		}
	}
	return n, nil
}

func (m *memStore) SearchFolders(_ context.Context, userID primitive.ObjectID, query string) ([]models.Folder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("SearchFolders")
	folders := make([]models.Folder, 0)
	for _, f := range m.folders {
		if f.UserID == userID && strings.Contains(strings.ToLower(f.Name), strings.ToLower(query)) {
			folders = append(folders, f)
		}
	}
	return folders, nil
}

func (m *memStore) SearchTags(_ context.Context, userID primitive.ObjectID, query string) ([]models.Tag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("SearchTags")
	tags := make([]models.Tag, 0)
	for _, t := range m.tags {
		if t.UserID == userID && strings.Contains(strings.ToLower(t.Name), strings.ToLower(query)) {
			tags = append(tags, t)
		}
	}
	return tags, nil
}

var _ store.Store = (*memStore)(nil)
