package posts

import (
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ListQuery holds the optional list-request parameters. Zero-value fields
// impose no constraint; Status is expected to be defaulted by the caller.
type ListQuery struct {
	Status string
	Author *primitive.ObjectID
	Tag    string
	Search string
}

// Filter translates the query into a Mongo filter document. All parameters
// combine with AND semantics; the search term expands into an OR-group over
// title, content and tags, each matched as a case-insensitive literal
// substring. Pure: no store access, no side effects.
func (q ListQuery) Filter() bson.M {
	filter := bson.M{"status": q.Status}

	if q.Author != nil {
		filter["author"] = *q.Author
	}

	if q.Tag != "" {
		filter["tags"] = bson.M{"$in": []string{strings.ToLower(strings.TrimSpace(q.Tag))}}
	}

	if q.Search != "" {
		pattern := regexp.QuoteMeta(q.Search)
		filter["$or"] = []bson.M{
			{"title": bson.M{"$regex": pattern, "$options": "i"}},
			{"content": bson.M{"$regex": pattern, "$options": "i"}},
			{"tags": bson.M{"$in": []primitive.Regex{{Pattern: pattern, Options: "i"}}}},
		}
	}

	return filter
}
