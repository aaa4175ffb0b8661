package repository

import (
	"context"

	"photo-share-api/internal/domain"
	"photo-share-api/internal/infrastructure/repository/entity"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoUserRepository implements UserRepository using MongoDB
type MongoUserRepository struct {
	collection *mongo.Collection
}

// NewMongoUserRepository creates a new MongoDB user repository
func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{
		collection: db.Collection("users"),
	}
}

// Count returns the number of users
func (r *MongoUserRepository) Count(ctx context.Context) (int, error) {
	return count(ctx, r.collection)
}

// FindAll retrieves all users
func (r *MongoUserRepository) FindAll(ctx context.Context) ([]*domain.User, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, insertionOrder())
	if err != nil {
		return nil, storeErr("list users", err)
	}
	defer cursor.Close(ctx)

	users := make([]*domain.User, 0)
	for cursor.Next(ctx) {
		var doc entity.MongoUserDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, storeErr("decode user", err)
		}
		users = append(users, doc.ToDomain())
	}

	if err := cursor.Err(); err != nil {
		return nil, storeErr("iterate users", err)
	}

	return users, nil
}

// FindByLogin retrieves a user by GitHub login
func (r *MongoUserRepository) FindByLogin(ctx context.Context, login string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"githubLogin": login})
}

// FindByToken retrieves the user owning an access token
func (r *MongoUserRepository) FindByToken(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, nil
	}
	return r.findOne(ctx, bson.M{"githubToken": token})
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var doc entity.MongoUserDoc
	err := r.collection.FindOne(ctx, filter).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr("get user", err)
	}

	return doc.ToDomain(), nil
}

// Upsert replaces the user with the same login, inserting it when absent
func (r *MongoUserRepository) Upsert(ctx context.Context, user *domain.User) (*domain.User, error) {
	doc := entity.MongoUserDocFromDomain(user)
	filter := bson.M{"githubLogin": user.GithubLogin}
	opts := options.Replace().SetUpsert(true)

	if _, err := r.collection.ReplaceOne(ctx, filter, doc, opts); err != nil {
		return nil, storeErr("save user", err)
	}

	stored, err := r.findOne(ctx, filter)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, storeErr("reload user", mongo.ErrNoDocuments)
	}
	return stored, nil
}
