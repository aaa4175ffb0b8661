package repository

import (
	"context"

	"photo-share-api/internal/domain"
	"photo-share-api/internal/infrastructure/repository/entity"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoTagRepository implements TagRepository using MongoDB
type MongoTagRepository struct {
	collection *mongo.Collection
}

// NewMongoTagRepository creates a new MongoDB tag repository
func NewMongoTagRepository(db *mongo.Database) *MongoTagRepository {
	return &MongoTagRepository{
		collection: db.Collection("tags"),
	}
}

// FindByPhoto retrieves the tags of a photo in insertion order
func (r *MongoTagRepository) FindByPhoto(ctx context.Context, photoID string) ([]*domain.Tag, error) {
	return r.find(ctx, bson.M{"photoID": photoID})
}

// FindByUser retrieves the tags naming a user in insertion order
func (r *MongoTagRepository) FindByUser(ctx context.Context, login string) ([]*domain.Tag, error) {
	return r.find(ctx, bson.M{"userID": login})
}

func (r *MongoTagRepository) find(ctx context.Context, filter bson.M) ([]*domain.Tag, error) {
	cursor, err := r.collection.Find(ctx, filter, insertionOrder())
	if err != nil {
		return nil, storeErr("list tags", err)
	}
	defer cursor.Close(ctx)

	tags := make([]*domain.Tag, 0)
	for cursor.Next(ctx) {
		var doc entity.MongoTagDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, storeErr("decode tag", err)
		}
		tags = append(tags, doc.ToDomain())
	}

	if err := cursor.Err(); err != nil {
		return nil, storeErr("iterate tags", err)
	}

	return tags, nil
}

// Insert stores a tag
func (r *MongoTagRepository) Insert(ctx context.Context, tag *domain.Tag) error {
	doc := entity.MongoTagDocFromDomain(tag)
	doc.ID = primitive.NewObjectID()

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return storeErr("insert tag", err)
	}
	return nil
}
