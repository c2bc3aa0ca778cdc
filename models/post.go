package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Like is a single entry in a post's like list. A user appears at most once.
type Like struct {
	User      primitive.ObjectID `bson:"user" json:"user"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UserName  string             `bson:"-" json:"userName,omitempty"` // Populated in detail responses only
}

type Post struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title      string             `bson:"title" json:"title"`
	Content    string             `bson:"content" json:"content"`
	Author     primitive.ObjectID `bson:"author" json:"authorId"`
	Status     string             `bson:"status" json:"status"` // published, draft
	Tags       []string           `bson:"tags" json:"tags"`
	Likes      []Like             `bson:"likes" json:"likes"`
	Views      int64              `bson:"views" json:"views"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
	AuthorInfo *AuthorInfo        `bson:"-" json:"author,omitempty"` // Populated in response only
}
