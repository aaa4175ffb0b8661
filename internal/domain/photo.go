package domain

import (
	"fmt"
	"time"
)

// PhotoCategory is the fixed set of categories a photo can be posted under
type PhotoCategory string

const (
	CategorySelfie    PhotoCategory = "SELFIE"
	CategoryPortrait  PhotoCategory = "PORTRAIT"
	CategoryAction    PhotoCategory = "ACTION"
	CategoryLandscape PhotoCategory = "LANDSCAPE"
	CategoryGraphic   PhotoCategory = "GRAPHIC"

	// DefaultCategory is applied when a post does not specify one
	DefaultCategory = CategoryPortrait
)

// IsValid reports whether c is one of the known categories
func (c PhotoCategory) IsValid() bool {
	switch c {
	case CategorySelfie, CategoryPortrait, CategoryAction, CategoryLandscape, CategoryGraphic:
		return true
	}
	return false
}

// ParsePhotoCategory converts s into a PhotoCategory, falling back to DefaultCategory for an empty value
func ParsePhotoCategory(s string) (PhotoCategory, error) {
	if s == "" {
		return DefaultCategory, nil
	}
	c := PhotoCategory(s)
	if !c.IsValid() {
		return "", fmt.Errorf("%w: unknown photo category %q", ErrInvalidInput, s)
	}
	return c, nil
}

// Photo represents a posted photo. ID, GithubUser and Created are always
// assigned by the server.
type Photo struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description *string       `json:"description,omitempty"`
	Category    PhotoCategory `json:"category"`
	GithubUser  string        `json:"githubUser"`
	Created     time.Time     `json:"created"`
}

// PostPhotoInput holds the client-supplied fields of a new photo
type PostPhotoInput struct {
	Name          string
	Category      PhotoCategory
	Description   *string
	TaggedUserIDs []string
}
