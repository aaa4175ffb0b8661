package entity

import (
	"photo-share-api/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MongoUserDoc represents a user in MongoDB
type MongoUserDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	GithubLogin string             `bson:"githubLogin"`
	Name        string             `bson:"name,omitempty"`
	Avatar      string             `bson:"avatar,omitempty"`
	GithubToken string             `bson:"githubToken"`
}

// ToDomain converts the MongoDB document to a domain entity
func (d *MongoUserDoc) ToDomain() *domain.User {
	return &domain.User{
		GithubLogin: d.GithubLogin,
		Name:        d.Name,
		Avatar:      d.Avatar,
		GithubToken: d.GithubToken,
	}
}

// MongoUserDocFromDomain converts a domain entity to a MongoDB document.
// The _id is left empty so a replacement keeps the existing one.
func MongoUserDocFromDomain(user *domain.User) *MongoUserDoc {
	return &MongoUserDoc{
		GithubLogin: user.GithubLogin,
		Name:        user.Name,
		Avatar:      user.Avatar,
		GithubToken: user.GithubToken,
	}
}
