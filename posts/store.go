package posts

import (
	"context"
	"time"

	"mindscribble/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store is the durable-store boundary the feed service runs against.
// FindByID returns ErrNotFound when no document matches; malformed ids are
// classified by the service before a call ever reaches the store.
type Store interface {
	Find(ctx context.Context, q ListQuery, skip, limit int64) ([]models.Post, error)
	Count(ctx context.Context, q ListQuery) (int64, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error)
	Insert(ctx context.Context, post *models.Post) error
	UpdateByID(ctx context.Context, id primitive.ObjectID, update bson.M) (*models.Post, error)
	DeleteByID(ctx context.Context, id primitive.ObjectID) error

	// IncrementViews bumps the view counter atomically at the store level.
	IncrementViews(ctx context.Context, id primitive.ObjectID) error

	// RemoveLike pulls the caller's like entry, guarded by membership:
	// reports true only if an entry existed and was removed.
	RemoveLike(ctx context.Context, post, user primitive.ObjectID) (bool, error)
	// AddLike pushes a like entry, guarded by non-membership: reports true
	// only if the caller had no entry and one was inserted.
	AddLike(ctx context.Context, post, user primitive.ObjectID, at time.Time) (bool, error)
	CountLikes(ctx context.Context, post primitive.ObjectID) (int64, error)

	AuthorInfo(ctx context.Context, id primitive.ObjectID) (*models.AuthorInfo, error)
	UserNames(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]string, error)
}

// MongoStore implements Store over the posts and users collections.
type MongoStore struct {
	posts *mongo.Collection
	users *mongo.Collection
}

func NewMongoStore(posts, users *mongo.Collection) *MongoStore {
	return &MongoStore{posts: posts, users: users}
}

func (s *MongoStore) Find(ctx context.Context, q ListQuery, skip, limit int64) ([]models.Post, error) {
	// Newest first; _id breaks createdAt ties so the order is total.
	findOptions := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)

	cursor, err := s.posts.Find(ctx, q.Filter(), findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var result []models.Post
	if err := cursor.All(ctx, &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *MongoStore) Count(ctx context.Context, q ListQuery) (int64, error) {
	return s.posts.CountDocuments(ctx, q.Filter())
}

func (s *MongoStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	var post models.Post
	err := s.posts.FindOne(ctx, bson.M{"_id": id}).Decode(&post)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (s *MongoStore) Insert(ctx context.Context, post *models.Post) error {
	_, err := s.posts.InsertOne(ctx, post)
	if mongo.IsDuplicateKeyError(err) {
		return ErrConflict
	}
	return err
}

func (s *MongoStore) UpdateByID(ctx context.Context, id primitive.ObjectID, update bson.M) (*models.Post, error) {
	var post models.Post
	err := s.posts.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&post)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (s *MongoStore) DeleteByID(ctx context.Context, id primitive.ObjectID) error {
	result, err := s.posts.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) IncrementViews(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.posts.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"views": 1}})
	return err
}

func (s *MongoStore) RemoveLike(ctx context.Context, post, user primitive.ObjectID) (bool, error) {
	result, err := s.posts.UpdateOne(
		ctx,
		bson.M{"_id": post, "likes.user": user},
		bson.M{"$pull": bson.M{"likes": bson.M{"user": user}}},
	)
	if err != nil {
		return false, err
	}
	return result.ModifiedCount > 0, nil
}

func (s *MongoStore) AddLike(ctx context.Context, post, user primitive.ObjectID, at time.Time) (bool, error) {
	// The $ne guard makes the insert conditional on non-membership, so a
	// racing duplicate toggle can never double-insert.
	result, err := s.posts.UpdateOne(
		ctx,
		bson.M{"_id": post, "likes.user": bson.M{"$ne": user}},
		bson.M{"$push": bson.M{"likes": models.Like{User: user, CreatedAt: at}}},
	)
	if err != nil {
		return false, err
	}
	return result.ModifiedCount > 0, nil
}

func (s *MongoStore) CountLikes(ctx context.Context, post primitive.ObjectID) (int64, error) {
	var doc struct {
		Likes []models.Like `bson:"likes"`
	}
	err := s.posts.FindOne(
		ctx,
		bson.M{"_id": post},
		options.FindOne().SetProjection(bson.M{"likes": 1}),
	).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	return int64(len(doc.Likes)), nil
}

func (s *MongoStore) AuthorInfo(ctx context.Context, id primitive.ObjectID) (*models.AuthorInfo, error) {
	var info models.AuthorInfo
	err := s.users.FindOne(
		ctx,
		bson.M{"_id": id},
		options.FindOne().SetProjection(bson.M{"name": 1, "email": 1}),
	).Decode(&info)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &info, nil
}

func (s *MongoStore) UserNames(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]string, error) {
	names := make(map[primitive.ObjectID]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	cursor, err := s.users.Find(
		ctx,
		bson.M{"_id": bson.M{"$in": ids}},
		options.Find().SetProjection(bson.M{"name": 1}),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []struct {
		ID   primitive.ObjectID `bson:"_id"`
		Name string             `bson:"name"`
	}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	for _, u := range users {
		names[u.ID] = u.Name
	}
	return names, nil
}
