package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"noteworthy/backend/internal/models"
)

const (
	usersCollection   = "users"
	foldersCollection = "folders"
	tagsCollection    = "tags"
	notesCollection   = "notes"
)

// Mongo implements Store on a mongo.Database.
type Mongo struct {
	db *mongo.Database
}

func NewMongo(db *mongo.Database) *Mongo {
	return &Mongo{db: db}
}

// EnsureIndexes creates the unique indexes the duplicate-key contract
// depends on: username globally, (userId, name) per folders and tags.
func (m *Mongo) EnsureIndexes(ctx context.Context) error {
	_, err := m.db.Collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("users index: %w", err)
	}

	perOwnerName := mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	for _, coll := range []string{foldersCollection, tagsCollection} {
		if _, err := m.db.Collection(coll).Indexes().CreateOne(ctx, perOwnerName); err != nil {
			return fmt.Errorf("%s index: %w", coll, err)
		}
	}
	return nil
}

func mapWriteErr(err error) error {
	if err == nil {
		return nil
	}
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}

func ownerFilter(userID, id primitive.ObjectID) bson.M {
	return bson.M{"_id": id, "userId": userID}
}

// ----- users -----

func (m *Mongo) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	user.ID = primitive.NewObjectID()
	if _, err := m.db.Collection(usersCollection).InsertOne(ctx, user); err != nil {
		return models.User{}, mapWriteErr(err)
	}
	return user, nil
}

func (m *Mongo) FindUserByUsername(ctx context.Context, username string) (models.User, error) {
	var user models.User
	err := m.db.Collection(usersCollection).FindOne(ctx, bson.M{"username": username}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

// ----- folders -----

func (m *Mongo) CreateFolder(ctx context.Context, folder models.Folder) (models.Folder, error) {
	folder.ID = primitive.NewObjectID()
	if _, err := m.db.Collection(foldersCollection).InsertOne(ctx, folder); err != nil {
		return models.Folder{}, mapWriteErr(err)
	}
	return folder, nil
}

func (m *Mongo) ListFolders(ctx context.Context, userID primitive.ObjectID) ([]models.Folder, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := m.db.Collection(foldersCollection).Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	folders := make([]models.Folder, 0)
	if err := cursor.All(ctx, &folders); err != nil {
		return nil, err
	}
	return folders, nil
}

func (m *Mongo) FindFolder(ctx context.Context, userID, id primitive.ObjectID) (models.Folder, error) {
	var folder models.Folder
	err := m.db.Collection(foldersCollection).FindOne(ctx, ownerFilter(userID, id)).Decode(&folder)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Folder{}, ErrNotFound
	}
	if err != nil {
		return models.Folder{}, err
	}
	return folder, nil
}

func (m *Mongo) RenameFolder(ctx context.Context, userID, id primitive.ObjectID, name string) (models.Folder, error) {
	update := bson.M{"$set": bson.M{"name": name, "updatedAt": time.Now()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var folder models.Folder
	err := m.db.Collection(foldersCollection).
		FindOneAndUpdate(ctx, ownerFilter(userID, id), update, opts).Decode(&folder)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Folder{}, ErrNotFound
	}
	if err != nil {
		return models.Folder{}, mapWriteErr(err)
	}
	return folder, nil
}

func (m *Mongo) DeleteFolder(ctx context.Context, userID, id primitive.ObjectID) (bool, error) {
	result, err := m.db.Collection(foldersCollection).DeleteOne(ctx, ownerFilter(userID, id))
	if err != nil {
		return false, err
	}
	return result.DeletedCount > 0, nil
}

func (m *Mongo) CountFolder(ctx context.Context, userID, id primitive.ObjectID) (int64, error) {
	return m.db.Collection(foldersCollection).CountDocuments(ctx, ownerFilter(userID, id))
}

// ----- tags -----

func (m *Mongo) CreateTag(ctx context.Context, tag models.Tag) (models.Tag, error) {
	tag.ID = primitive.NewObjectID()
	if _, err := m.db.Collection(tagsCollection).InsertOne(ctx, tag); err != nil {
		return models.Tag{}, mapWriteErr(err)
	}
	return tag, nil
}

func (m *Mongo) ListTags(ctx context.Context, userID primitive.ObjectID) ([]models.Tag, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := m.db.Collection(tagsCollection).Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	tags := make([]models.Tag, 0)
	if err := cursor.All(ctx, &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

func (m *Mongo) FindTag(ctx context.Context, userID, id primitive.ObjectID) (models.Tag, error) {
	var tag models.Tag
	err := m.db.Collection(tagsCollection).FindOne(ctx, ownerFilter(userID, id)).Decode(&tag)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Tag{}, ErrNotFound
	}
	if err != nil {
		return models.Tag{}, err
	}
	return tag, nil
}

func (m *Mongo) RenameTag(ctx context.Context, userID, id primitive.ObjectID, name string) (models.Tag, error) {
	update := bson.M{"$set": bson.M{"name": name, "updatedAt": time.Now()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var tag models.Tag
	err := m.db.Collection(tagsCollection).
		FindOneAndUpdate(ctx, ownerFilter(userID, id), update, opts).Decode(&tag)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Tag{}, ErrNotFound
	}
	if err != nil {
		return models.Tag{}, mapWriteErr(err)
	}
	return tag, nil
}

func (m *Mongo) DeleteTag(ctx context.Context, userID, id primitive.ObjectID) (bool, error) {
	result, err := m.db.Collection(tagsCollection).DeleteOne(ctx, ownerFilter(userID, id))
	if err != nil {
		return false, err
	}
	return result.DeletedCount > 0, nil
}

func (m *Mongo) CountTag(ctx context.Context, userID, id primitive.ObjectID) (int64, error) {
	return m.db.Collection(tagsCollection).CountDocuments(ctx, ownerFilter(userID, id))
}

// ----- notes -----

func (m *Mongo) CreateNote(ctx context.Context, note models.Note) (models.Note, error) {
	note.ID = primitive.NewObjectID()
	if _, err := m.db.Collection(notesCollection).InsertOne(ctx, note); err != nil {
		return models.Note{}, mapWriteErr(err)
	}
	return note, nil
}

func (m *Mongo) ListNotes(ctx context.Context, userID primitive.ObjectID, filter NoteFilter) ([]models.Note, error) {
	query := bson.M{"userId": userID}
	if filter.SearchTerm != "" {
		re := primitive.Regex{Pattern: filter.SearchTerm, Options: "i"}
		query["$or"] = bson.A{bson.M{"title": re}, bson.M{"content": re}}
	}
	if filter.FolderID != nil {
		query["folderId"] = *filter.FolderID
	}
	if filter.TagID != nil {
		query["tags"] = *filter.TagID
	}

	opts := options.Find().SetSort(bson.D{{Key: "updatedAt", Value: -1}})
	cursor, err := m.db.Collection(notesCollection).Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	notes := make([]models.Note, 0)
	if err := cursor.All(ctx, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

func (m *Mongo) FindNote(ctx context.Context, userID, id primitive.ObjectID) (models.Note, error) {
	var note models.Note
	err := m.db.Collection(notesCollection).FindOne(ctx, ownerFilter(userID, id)).Decode(&note)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Note{}, ErrNotFound
	}
	if err != nil {
		return models.Note{}, err
	}
	return note, nil
}

func (m *Mongo) UpdateNote(ctx context.Context, userID, id primitive.ObjectID, note models.Note) (models.Note, error) {
	set := bson.M{
		"title":     note.Title,
		"content":   note.Content,
		"tags":      note.Tags,
		"updatedAt": time.Now(),
	}
	update := bson.M{"$set": set}
	if note.FolderID != nil {
		set["folderId"] = *note.FolderID
	} else {
		update["$unset"] = bson.M{"folderId": ""}
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Note
	err := m.db.Collection(notesCollection).
		FindOneAndUpdate(ctx, ownerFilter(userID, id), update, opts).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Note{}, ErrNotFound
	}
	if err != nil {
		return models.Note{}, err
	}
	return updated, nil
}

func (m *Mongo) DeleteNote(ctx context.Context, userID, id primitive.ObjectID) (bool, error) {
	result, err := m.db.Collection(notesCollection).DeleteOne(ctx, ownerFilter(userID, id))
	if err != nil {
		return false, err
	}
	return result.DeletedCount > 0, nil
}

func (m *Mongo) DetachFolder(ctx context.Context, userID, folderID primitive.ObjectID) (int64, error) {
	result, err := m.db.Collection(notesCollection).UpdateMany(ctx,
		bson.M{"userId": userID, "folderId": folderID},
		bson.M{"$unset": bson.M{"folderId": ""}},
	)
	if err != nil {
		return 0, err
	}
	return result.ModifiedCount, nil
}

func (m *Mongo) PullTag(ctx context.Context, userID, tagID primitive.ObjectID) (int64, error) {
	result, err := m.db.Collection(notesCollection).UpdateMany(ctx,
		bson.M{"userId": userID, "tags": tagID},
		bson.M{"$pull": bson.M{"tags": tagID}},
	)
	if err != nil {
		return 0, err
	}
	return result.ModifiedCount, nil
}

// ----- search -----

func (m *Mongo) SearchFolders(ctx context.Context, userID primitive.ObjectID, query string) ([]models.Folder, error) {
	filter := bson.M{
		"userId": userID,
		"name":   primitive.Regex{Pattern: query, Options: "i"},
	}
	cursor, err := m.db.Collection(foldersCollection).Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	folders := make([]models.Folder, 0)
	if err := cursor.All(ctx, &folders); err != nil {
		return nil, err
	}
	return folders, nil
}

func (m *Mongo) SearchTags(ctx context.Context, userID primitive.ObjectID, query string) ([]models.Tag, error) {
	filter := bson.M{
		"userId": userID,
		"name":   primitive.Regex{Pattern: query, Options: "i"},
	}
	cursor, err := m.db.Collection(tagsCollection).Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	tags := make([]models.Tag, 0)
	if err := cursor.All(ctx, &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

var _ Store = (*Mongo)(nil)
