package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User carries the credential digest in Password; the json tag keeps it out
// of every response body.
type User struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username string             `bson:"username" json:"username"`
	Password string             `bson:"password" json:"-"`
	Fullname string             `bson:"fullname" json:"fullname"`
}

type Folder struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type Tag struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Note's FolderID is a pointer: nil means "no folder", both in Mongo
// (field unset) and in the response body (field omitted). Tags preserves
// request order and may contain duplicates.
type Note struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Title     string               `bson:"title" json:"title"`
	Content   string               `bson:"content" json:"content"`
	UserID    primitive.ObjectID   `bson:"userId" json:"userId"`
	FolderID  *primitive.ObjectID  `bson:"folderId,omitempty" json:"folderId,omitempty"`
	Tags      []primitive.ObjectID `bson:"tags" json:"tags"`
	CreatedAt time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time            `bson:"updatedAt" json:"updatedAt"`
}
