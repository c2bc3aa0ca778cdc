package posts

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"mindscribble/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	StatusPublished = "published"
	StatusDraft     = "draft"

	titleMinLen   = 3
	titleMaxLen   = 200
	contentMinLen = 10
	contentMaxLen = 10000
)

// Service orchestrates the post feed and engagement operations against a
// Store. It owns all validation, authorization and pagination decisions;
// the store only moves documents.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// ListParams are the raw list-request parameters. Author is a hex user id.
type ListParams struct {
	Status string
	Author string
	Tag    string
	Search string
	Page   int
	Limit  int
}

// List returns one page of posts matching the filter parameters, newest
// first, with author info attached, plus the pagination metadata.
func (s *Service) List(ctx context.Context, p ListParams) ([]models.Post, Pagination, error) {
	if p.Status == "" {
		p.Status = StatusPublished
	}

	q := ListQuery{Status: p.Status, Tag: p.Tag, Search: p.Search}
	if p.Author != "" {
		authorID, err := primitive.ObjectIDFromHex(p.Author)
		if err != nil {
			return nil, Pagination{}, ErrInvalidID
		}
		q.Author = &authorID
	}

	total, err := s.store.Count(ctx, q)
	if err != nil {
		return nil, Pagination{}, wrapUnexpected(err)
	}

	items, err := s.store.Find(ctx, q, Skip(p.Page, p.Limit), int64(p.Limit))
	if err != nil {
		return nil, Pagination{}, wrapUnexpected(err)
	}

	// One lookup per distinct author across the page.
	authors := make(map[primitive.ObjectID]*models.AuthorInfo)
	for i := range items {
		info, ok := authors[items[i].Author]
		if !ok {
			info, err = s.authorInfo(ctx, items[i].Author)
			if err != nil {
				return nil, Pagination{}, err
			}
			authors[items[i].Author] = info
		}
		items[i].AuthorInfo = info
	}

	return items, NewPagination(p.Page, p.Limit, total), nil
}

// GetByID fetches a single post and, as a side effect, atomically bumps its
// view counter. The returned document carries the view count as read, which
// is what the blog has always shown. Author info and each like's user name
// are attached.
func (s *Service) GetByID(ctx context.Context, idHex string) (*models.Post, error) {
	id, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		return nil, ErrInvalidID
	}

	post, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, wrapUnexpected(err)
	}

	if err := s.store.IncrementViews(ctx, id); err != nil {
		return nil, wrapUnexpected(err)
	}

	post.AuthorInfo, err = s.authorInfo(ctx, post.Author)
	if err != nil {
		return nil, err
	}
	if err := s.attachLikeUsers(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// CreateInput carries the fields of a create request. Tags may arrive as an
// array or a comma-delimited string; both decode into TagList.
type CreateInput struct {
	Title   string
	Content string
	Status  string
	Tags    TagList
}

// Create validates the input, normalizes tags and persists a new post with
// the author fixed to the caller.
func (s *Service) Create(ctx context.Context, author primitive.ObjectID, in CreateInput) (*models.Post, error) {
	title, err := validateTitle(in.Title)
	if err != nil {
		return nil, err
	}
	content, err := validateContent(in.Content)
	if err != nil {
		return nil, err
	}
	status, err := validateStatus(in.Status)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	post := &models.Post{
		ID:        primitive.NewObjectID(),
		Title:     title,
		Content:   content,
		Author:    author,
		Status:    status,
		Tags:      NormalizeTags(in.Tags),
		Likes:     []models.Like{},
		Views:     0,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.Insert(ctx, post); err != nil {
		return nil, wrapUnexpected(err)
	}

	post.AuthorInfo, err = s.authorInfo(ctx, author)
	if err != nil {
		return nil, err
	}
	return post, nil
}

// UpdateInput models each updatable field as a tri-state: nil means the
// caller omitted it, a pointer to a value means it was supplied (possibly
// empty, which fails validation for title/content).
type UpdateInput struct {
	Title   *string
	Content *string
	Status  *string
	Tags    *TagList
}

// Update applies the supplied fields to the caller's own post. Omitted
// fields are left untouched; updatedAt is bumped on every successful write.
func (s *Service) Update(ctx context.Context, caller primitive.ObjectID, idHex string, in UpdateInput) (*models.Post, error) {
	id, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		return nil, ErrInvalidID
	}

	post, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, wrapUnexpected(err)
	}
	if !canMutate(caller, post) {
		return nil, ErrForbidden
	}

	set := bson.M{}
	if in.Title != nil {
		title, err := validateTitle(*in.Title)
		if err != nil {
			return nil, err
		}
		set["title"] = title
	}
	if in.Content != nil {
		content, err := validateContent(*in.Content)
		if err != nil {
			return nil, err
		}
		set["content"] = content
	}
	if in.Status != nil {
		status, err := validateStatus(*in.Status)
		if err != nil {
			return nil, err
		}
		set["status"] = status
	}
	if in.Tags != nil {
		set["tags"] = NormalizeTags(*in.Tags)
	}
	set["updatedAt"] = time.Now().UTC()

	updated, err := s.store.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		return nil, wrapUnexpected(err)
	}

	updated.AuthorInfo, err = s.authorInfo(ctx, updated.Author)
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete permanently removes the caller's own post, likes included.
func (s *Service) Delete(ctx context.Context, caller primitive.ObjectID, idHex string) error {
	id, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		return ErrInvalidID
	}

	post, err := s.store.FindByID(ctx, id)
	if err != nil {
		return wrapUnexpected(err)
	}
	if !canMutate(caller, post) {
		return ErrForbidden
	}

	return wrapUnexpected(s.store.DeleteByID(ctx, id))
}

// ToggleResult reports the caller's like state after a toggle and the
// post's like count after the write.
type ToggleResult struct {
	Liked      bool
	LikesCount int64
}

// ToggleLike flips the caller's like on a post: exactly one state change
// per invocation, never a no-op and never a double-insert. The remove and
// add updates are each conditional on the caller's current membership, so
// concurrent toggles for the same (post, user) pair resolve atomically at
// the store; when both conditions miss because a racing toggle flipped the
// state between them, the pair is retried once.
func (s *Service) ToggleLike(ctx context.Context, caller primitive.ObjectID, idHex string) (*ToggleResult, error) {
	id, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		return nil, ErrInvalidID
	}

	for attempt := 0; attempt < 2; attempt++ {
		removed, err := s.store.RemoveLike(ctx, id, caller)
		if err != nil {
			return nil, wrapUnexpected(err)
		}
		if removed {
			count, err := s.store.CountLikes(ctx, id)
			if err != nil {
				return nil, wrapUnexpected(err)
			}
			return &ToggleResult{Liked: false, LikesCount: count}, nil
		}

		added, err := s.store.AddLike(ctx, id, caller, time.Now().UTC())
		if err != nil {
			return nil, wrapUnexpected(err)
		}
		if added {
			count, err := s.store.CountLikes(ctx, id)
			if err != nil {
				return nil, wrapUnexpected(err)
			}
			return &ToggleResult{Liked: true, LikesCount: count}, nil
		}

		// Neither update matched: the post is gone, or a concurrent toggle
		// inserted a like between the two conditions.
		if _, err := s.store.FindByID(ctx, id); err != nil {
			return nil, wrapUnexpected(err)
		}
	}
	return nil, ErrUnexpected
}

// canMutate is the author-only authorization rule: identity comparison, not
// display-name comparison.
func canMutate(caller primitive.ObjectID, post *models.Post) bool {
	return caller == post.Author
}

func (s *Service) authorInfo(ctx context.Context, author primitive.ObjectID) (*models.AuthorInfo, error) {
	info, err := s.store.AuthorInfo(ctx, author)
	if errors.Is(err, ErrNotFound) {
		// Author account deleted; the post remains readable.
		return nil, nil
	}
	if err != nil {
		return nil, wrapUnexpected(err)
	}
	return info, nil
}

func (s *Service) attachLikeUsers(ctx context.Context, post *models.Post) error {
	if len(post.Likes) == 0 {
		return nil
	}
	ids := make([]primitive.ObjectID, len(post.Likes))
	for i, like := range post.Likes {
		ids[i] = like.User
	}
	names, err := s.store.UserNames(ctx, ids)
	if err != nil {
		return wrapUnexpected(err)
	}
	for i := range post.Likes {
		post.Likes[i].UserName = names[post.Likes[i].User]
	}
	return nil
}

func validateTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", validationErrorf("title", "Title is required")
	}
	if n := utf8.RuneCountInString(title); n < titleMinLen || n > titleMaxLen {
		return "", validationErrorf("title", "Title must be between %d and %d characters", titleMinLen, titleMaxLen)
	}
	return title, nil
}

func validateContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", validationErrorf("content", "Content is required")
	}
	if n := utf8.RuneCountInString(content); n < contentMinLen || n > contentMaxLen {
		return "", validationErrorf("content", "Content must be between %d and %d characters", contentMinLen, contentMaxLen)
	}
	return content, nil
}

func validateStatus(status string) (string, error) {
	if status == "" {
		return StatusPublished, nil
	}
	if status != StatusPublished && status != StatusDraft {
		return "", validationErrorf("status", "Status must be '%s' or '%s'", StatusPublished, StatusDraft)
	}
	return status, nil
}
