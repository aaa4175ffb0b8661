package domain

// Tag records that a user appears in a photo
type Tag struct {
	PhotoID string `json:"photoID"`
	UserID  string `json:"userID"` // GitHub login of the tagged user
}
