package posts

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"mindscribble/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memStore is an in-memory Store for exercising the service without Mongo.
// Its matching rules mirror the filter semantics of ListQuery.Filter.
type memStore struct {
	mu    sync.Mutex
	posts map[primitive.ObjectID]*models.Post
	users map[primitive.ObjectID]*models.AuthorInfo
}

func newMemStore() *memStore {
	return &memStore{
		posts: make(map[primitive.ObjectID]*models.Post),
		users: make(map[primitive.ObjectID]*models.AuthorInfo),
	}
}

func (m *memStore) addUser(name, email string) primitive.ObjectID {
	id := primitive.NewObjectID()
	m.users[id] = &models.AuthorInfo{ID: id, Name: name, Email: email}
	return id
}

func (m *memStore) get(id primitive.ObjectID) *models.Post {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.posts[id]
}

func matches(q ListQuery, p *models.Post) bool {
	if p.Status != q.Status {
		return false
	}
	if q.Author != nil && p.Author != *q.Author {
		return false
	}
	if q.Tag != "" {
		tag := strings.ToLower(strings.TrimSpace(q.Tag))
		found := false
		for _, t := range p.Tags {
			if t == tag {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if q.Search != "" {
		needle := strings.ToLower(q.Search)
		hit := strings.Contains(strings.ToLower(p.Title), needle) ||
			strings.Contains(strings.ToLower(p.Content), needle)
		if !hit {
			for _, t := range p.Tags {
				if strings.Contains(strings.ToLower(t), needle) {
					hit = true
					break
				}
			}
		}
		if !hit {
			return false
		}
	}
	return true
}

func (m *memStore) Find(ctx context.Context, q ListQuery, skip, limit int64) ([]models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var result []models.Post
	for _, p := range m.posts {
		if matches(q, p) {
			result = append(result, *p)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID.Hex() > result[j].ID.Hex()
	})

	if skip >= int64(len(result)) {
		return nil, nil
	}
	result = result[skip:]
	if limit > 0 && int64(len(result)) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (m *memStore) Count(ctx context.Context, q ListQuery) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	for _, p := range m.posts {
		if matches(q, p) {
			n++
		}
	}
	return n, nil
}

func (m *memStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.posts[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *p
	clone.Likes = append([]models.Like(nil), p.Likes...)
	clone.Tags = append([]string(nil), p.Tags...)
	return &clone, nil
}

func (m *memStore) Insert(ctx context.Context, post *models.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.posts[post.ID]; ok {
		return ErrConflict
	}
	clone := *post
	m.posts[post.ID] = &clone
	return nil
}

func (m *memStore) UpdateByID(ctx context.Context, id primitive.ObjectID, update bson.M) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.posts[id]
	if !ok {
		return nil, ErrNotFound
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

func (m *memStore) DeleteByID(ctx context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.posts[id]; !ok {
		return ErrNotFound
	}
	delete(m.posts, id)
	return nil
}

func (m *memStore) IncrementViews(ctx context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.posts[id]
	if !ok {
		return ErrNotFound
	}
	p.Views++
	return nil
}

func (m *memStore) RemoveLike(ctx context.Context, post, user primitive.ObjectID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.posts[post]
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

func (m *memStore) AddLike(ctx context.Context, post, user primitive.ObjectID, at time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.posts[post]
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

func (m *memStore) CountLikes(ctx context.Context, post primitive.ObjectID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.posts[post]
	if !ok {
		return 0, ErrNotFound
	}
	return int64(len(p.Likes)), nil
}

func (m *memStore) AuthorInfo(ctx context.Context, id primitive.ObjectID) (*models.AuthorInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	info, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *info
	return &clone, nil
}

func (m *memStore) UserNames(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	names := make(map[primitive.ObjectID]string, len(ids))
	for _, id := range ids {
		if info, ok := m.users[id]; ok {
			names[id] = info.Name
		}
	}
	return names, nil
}
