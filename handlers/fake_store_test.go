package handlers_test

import (
	"context"
	"sort"
	"time"

	"mindscribble/models"
	"mindscribble/posts"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeStore backs the handler tests. It implements just enough of
// posts.Store for the routes under test; list filtering covers status and
// author, which is all the handler tests exercise.
type fakeStore struct {
	posts map[primitive.ObjectID]*models.Post
	users map[primitive.ObjectID]*models.AuthorInfo
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		posts: make(map[primitive.ObjectID]*models.Post),
		users: make(map[primitive.ObjectID]*models.AuthorInfo),
	}
}

func (f *fakeStore) addUser(name string) primitive.ObjectID {
	id := primitive.NewObjectID()
	f.users[id] = &models.AuthorInfo{ID: id, Name: name, Email: name + "@example.com"}
	return id
}

func (f *fakeStore) addPost(author primitive.ObjectID, title string, createdAt time.Time) *models.Post {
	post := &models.Post{
		ID:        primitive.NewObjectID(),
		Title:     title,
		Content:   "Content long enough to pass validation for " + title,
		Author:    author,
		Status:    posts.StatusPublished,
		Tags:      []string{},
		Likes:     []models.Like{},
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	f.posts[post.ID] = post
	return post
}

func (f *fakeStore) matching(q posts.ListQuery) []models.Post {
	var result []models.Post
	for _, p := range f.posts {
		if p.Status != q.Status {
			continue
		}
		if q.Author != nil && p.Author != *q.Author {
			continue
		}
		result = append(result, *p)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result
}

func (f *fakeStore) Find(ctx context.Context, q posts.ListQuery, skip, limit int64) ([]models.Post, error) {
	result := f.matching(q)
	if skip >= int64(len(result)) {
		return nil, nil
	}
	result = result[skip:]
	if limit > 0 && int64(len(result)) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (f *fakeStore) Count(ctx context.Context, q posts.ListQuery) (int64, error) {
	return int64(len(f.matching(q))), nil
}

func (f *fakeStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	p, ok := f.posts[id]
	if !ok {
		return nil, posts.ErrNotFound
	}
	clone := *p
	return &clone, nil
}

func (f *fakeStore) Insert(ctx context.Context, post *models.Post) error {
	clone := *post
	f.posts[post.ID] = &clone
	return nil
}

func (f *fakeStore) UpdateByID(ctx context.Context, id primitive.ObjectID, update bson.M) (*models.Post, error) {
	p, ok := f.posts[id]
	if !ok {
		return nil, posts.ErrNotFound
	}
	set, _ := update["$set"].(bson.M)
	for key, value := range set {
		switch key {
		case "title":
			p.Title = value.(string)
		case "content":
			p.Content = value.(string)
		case "status":
			p.Status = value.(string)
		case "tags":
			p.Tags = value.([]string)
		case "updatedAt":
			p.UpdatedAt = value.(time.Time)
		}
	}
	clone := *p
	return &clone, nil
}

func (f *fakeStore) DeleteByID(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := f.posts[id]; !ok {
		return posts.ErrNotFound
	}
	delete(f.posts, id)
	return nil
}

func (f *fakeStore) IncrementViews(ctx context.Context, id primitive.ObjectID) error {
	p, ok := f.posts[id]
	if !ok {
		return posts.ErrNotFound
	}
	p.Views++
	return nil
}

func (f *fakeStore) RemoveLike(ctx context.Context, post, user primitive.ObjectID) (bool, error) {
	p, ok := f.posts[post]
	if !ok {
		return false, nil
	}
	for i, like := range p.Likes {
		if like.User == user {
			p.Likes = append(p.Likes[:i], p.Likes[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) AddLike(ctx context.Context, post, user primitive.ObjectID, at time.Time) (bool, error) {
	p, ok := f.posts[post]
	if !ok {
		return false, nil
	}
	for _, like := range p.Likes {
		if like.User == user {
			return false, nil
		}
	}
	p.Likes = append(p.Likes, models.Like{User: user, CreatedAt: at})
	return true, nil
}

func (f *fakeStore) CountLikes(ctx context.Context, post primitive.ObjectID) (int64, error) {
	p, ok := f.posts[post]
	if !ok {
		return 0, posts.ErrNotFound
	}
	return int64(len(p.Likes)), nil
}

func (f *fakeStore) AuthorInfo(ctx context.Context, id primitive.ObjectID) (*models.AuthorInfo, error) {
	info, ok := f.users[id]
	if !ok {
		return nil, posts.ErrNotFound
	}
	clone := *info
	return &clone, nil
}

func (f *fakeStore) UserNames(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]string, error) {
	names := make(map[primitive.ObjectID]string, len(ids))
	for _, id := range ids {
		if info, ok := f.users[id]; ok {
			names[id] = info.Name
		}
	}
	return names, nil
}
