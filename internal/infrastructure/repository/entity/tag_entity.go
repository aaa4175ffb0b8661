package entity

import (
	"photo-share-api/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MongoTagDoc represents a tag in MongoDB. The ObjectID doubles as insertion order.
type MongoTagDoc struct {
	ID      primitive.ObjectID `bson:"_id,omitempty"`
	PhotoID string             `bson:"photoID"`
	UserID  string             `bson:"userID"`
}

// ToDomain converts the MongoDB document to a domain entity
func (d *MongoTagDoc) ToDomain() *domain.Tag {
	return &domain.Tag{
		PhotoID: d.PhotoID,
		UserID:  d.UserID,
	}
}

// MongoTagDocFromDomain converts a domain entity to a MongoDB document
func MongoTagDocFromDomain(tag *domain.Tag) *MongoTagDoc {
	return &MongoTagDoc{
		PhotoID: tag.PhotoID,
		UserID:  tag.UserID,
	}
}
