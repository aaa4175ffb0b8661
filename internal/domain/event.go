package domain

// Event names published after successful mutations
const (
	EventPhotoAdded = "photo-added"
	EventUserAdded  = "user-added"
)

// Event is a notification that new data was created.
// Exactly one of Photo or User is set, depending on Name.
type Event struct {
	Name  string `json:"name"`
	Photo *Photo `json:"photo,omitempty"`
	User  *User  `json:"user,omitempty"`
}

// NewPhotoAddedEvent builds a photo-added event
func NewPhotoAddedEvent(photo *Photo) *Event {
	return &Event{Name: EventPhotoAdded, Photo: photo}
}

// NewUserAddedEvent builds a user-added event
func NewUserAddedEvent(user *User) *Event {
	return &Event{Name: EventUserAdded, User: user}
}

// Redacted returns a copy of the event safe to send off-process: a user's
// access token is cleared. The receiver is left untouched.
func (e *Event) Redacted() *Event {
	out := *e
	if e.User != nil && e.User.GithubToken != "" {
		u := *e.User
		u.GithubToken = ""
		out.User = &u
	}
	return &out
}
