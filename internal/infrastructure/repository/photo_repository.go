package repository

import (
	"context"

	"photo-share-api/internal/domain"
	"photo-share-api/internal/infrastructure/repository/entity"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoPhotoRepository implements PhotoRepository using MongoDB
type MongoPhotoRepository struct {
	collection *mongo.Collection
}

// NewMongoPhotoRepository creates a new MongoDB photo repository
func NewMongoPhotoRepository(db *mongo.Database) *MongoPhotoRepository {
	return &MongoPhotoRepository{
		collection: db.Collection("photos"),
	}
}

// Count returns the number of photos
func (r *MongoPhotoRepository) Count(ctx context.Context) (int, error) {
	return count(ctx, r.collection)
}

// FindAll retrieves all photos
func (r *MongoPhotoRepository) FindAll(ctx context.Context) ([]*domain.Photo, error) {
	return r.find(ctx, bson.M{})
}

// FindByOwner retrieves the photos posted by login
func (r *MongoPhotoRepository) FindByOwner(ctx context.Context, login string) ([]*domain.Photo, error) {
	return r.find(ctx, bson.M{"githubUser": login})
}

func (r *MongoPhotoRepository) find(ctx context.Context, filter bson.M) ([]*domain.Photo, error) {
	cursor, err := r.collection.Find(ctx, filter, insertionOrder())
	if err != nil {
		return nil, storeErr("list photos", err)
	}
	defer cursor.Close(ctx)

	photos := make([]*domain.Photo, 0)
	for cursor.Next(ctx) {
		var doc entity.MongoPhotoDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, storeErr("decode photo", err)
		}
		photos = append(photos, doc.ToDomain())
	}

	if err := cursor.Err(); err != nil {
		return nil, storeErr("iterate photos", err)
	}

	return photos, nil
}

// FindByID retrieves a photo by id; ids that are not ObjectIDs match nothing
func (r *MongoPhotoRepository) FindByID(ctx context.Context, id string) (*domain.Photo, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	var doc entity.MongoPhotoDoc
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr("get photo", err)
	}

	return doc.ToDomain(), nil
}

// Insert stores a photo and returns its generated id
func (r *MongoPhotoRepository) Insert(ctx context.Context, photo *domain.Photo) (string, error) {
	doc := entity.MongoPhotoDocFromDomain(photo)
	doc.ID = primitive.NewObjectID()

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return "", storeErr("insert photo", err)
	}

	return doc.ID.Hex(), nil
}
