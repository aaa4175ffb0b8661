package repository

import (
	"context"
	"fmt"

	"photo-share-api/internal/domain"
	"photo-share-api/internal/ports"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore implements ports.Store on the users, photos and tags collections
type MongoStore struct {
	users  *MongoUserRepository
	photos *MongoPhotoRepository
	tags   *MongoTagRepository
}

var _ ports.Store = (*MongoStore)(nil)

// NewMongoStore creates a store backed by db
func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{
		users:  NewMongoUserRepository(db),
		photos: NewMongoPhotoRepository(db),
		tags:   NewMongoTagRepository(db),
	}
}

func (s *MongoStore) Users() ports.UserRepository   { return s.users }
func (s *MongoStore) Photos() ports.PhotoRepository { return s.photos }
func (s *MongoStore) Tags() ports.TagRepository     { return s.tags }

// EnsureIndexes creates the indexes the lookups rely on
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	indexes := []struct {
		collection *mongo.Collection
		model      mongo.IndexModel
	}{
		{s.users.collection, mongo.IndexModel{
			Keys:    bson.D{{Key: "githubLogin", Value: 1}},
			Options: options.Index().SetUnique(true),
		}},
		{s.users.collection, mongo.IndexModel{Keys: bson.D{{Key: "githubToken", Value: 1}}}},
		{s.photos.collection, mongo.IndexModel{Keys: bson.D{{Key: "githubUser", Value: 1}}}},
		{s.tags.collection, mongo.IndexModel{Keys: bson.D{{Key: "photoID", Value: 1}}}},
		{s.tags.collection, mongo.IndexModel{Keys: bson.D{{Key: "userID", Value: 1}}}},
	}

	for _, idx := range indexes {
		if _, err := idx.collection.Indexes().CreateOne(ctx, idx.model); err != nil {
			return storeErr("create index on "+idx.collection.Name(), err)
		}
	}
	return nil
}

func storeErr(op string, err error) error {
	return fmt.Errorf("%w: failed to %s: %w", domain.ErrStoreUnavailable, op, err)
}

// insertionOrder sorts by _id, which grows with insertion time
func insertionOrder() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
}

func count(ctx context.Context, collection *mongo.Collection) (int, error) {
	n, err := collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, storeErr("count "+collection.Name(), err)
	}
	return int(n), nil
}
