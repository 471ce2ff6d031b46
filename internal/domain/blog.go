package domain

// BlogState represents the publication status of a blog.
type BlogState string

const (
	// BlogStateDraft is the initial state of every blog.
	BlogStateDraft BlogState = "draft"
	// BlogStatePublished marks a blog as publicly published.
	BlogStatePublished BlogState = "published"
)

// IsValid reports whether the state is one of the known publication states.
func (s BlogState) IsValid() bool {
	return s == BlogStateDraft || s == BlogStatePublished
}

// Blog represents a single blog post.
//
// ReadCount is bumped both when a blog is fetched by id and when its body is
// edited; the two triggers share the one field.
type Blog struct {
	Record
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Body        string    `json:"body"`
	Tags        []string  `json:"tags"`
	AuthorID    string    `json:"author"`
	ReadCount   int64     `json:"read_count"`
	State       BlogState `json:"state"`
}

// IsAuthor reports whether the given user owns this blog.
// IDs are opaque strings; comparison is structural.
func (b *Blog) IsAuthor(userID string) bool {
	return userID != "" && b.AuthorID == userID
}
