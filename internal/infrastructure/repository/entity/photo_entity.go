package entity

import (
	"time"

	"photo-share-api/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MongoPhotoDoc represents a photo in MongoDB
type MongoPhotoDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Description *string            `bson:"description,omitempty"`
	Category    string             `bson:"category"`
	GithubUser  string             `bson:"githubUser"`
	Created     time.Time          `bson:"created"`
}

// ToDomain converts the MongoDB document to a domain entity
func (d *MongoPhotoDoc) ToDomain() *domain.Photo {
	return &domain.Photo{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Description: d.Description,
		Category:    domain.PhotoCategory(d.Category),
		GithubUser:  d.GithubUser,
		Created:     d.Created.UTC(),
	}
}

// MongoPhotoDocFromDomain converts a domain entity to a MongoDB document
func MongoPhotoDocFromDomain(photo *domain.Photo) *MongoPhotoDoc {
	doc := &MongoPhotoDoc{
		Name:        photo.Name,
		Description: photo.Description,
		Category:    string(photo.Category),
		GithubUser:  photo.GithubUser,
		Created:     photo.Created,
	}

	if photo.ID != "" {
		if objID, err := primitive.ObjectIDFromHex(photo.ID); err == nil {
			doc.ID = objID
		}
	}

	return doc
}
